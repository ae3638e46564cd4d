package slideresize

// GroupShape represents a group of shapes. Child shapes are positioned in
// the group's child coordinate space (chOff/chExt from grpSpPr xfrm); the
// group box maps that space onto the slide. Rescaling a group therefore
// rescales the box, the child space, and every member by the same factors
// so relative layout inside the group is preserved exactly.
type GroupShape struct {
	BaseShape
	shapes []Shape
	// Child coordinate space.
	childOffX int64
	childOffY int64
	childExtX int64
	childExtY int64
}

func (g *GroupShape) GetType() ShapeType { return ShapeTypeGroup }

// NewGroupShape creates a new group shape.
func NewGroupShape() *GroupShape {
	return &GroupShape{
		shapes: make([]Shape, 0),
	}
}

// AddShape adds a shape to the group.
func (g *GroupShape) AddShape(s Shape) *GroupShape {
	g.shapes = append(g.shapes, s)
	return g
}

// GetShapes returns all shapes in the group.
func (g *GroupShape) GetShapes() []Shape {
	return g.shapes
}

// GetShapeCount returns the number of shapes in the group.
func (g *GroupShape) GetShapeCount() int {
	return len(g.shapes)
}

// SetChildSpace sets the child coordinate space (chOff and chExt).
func (g *GroupShape) SetChildSpace(offX, offY, extX, extY int64) *GroupShape {
	g.childOffX = offX
	g.childOffY = offY
	g.childExtX = extX
	g.childExtY = extY
	return g
}

// ChildSpace returns the child coordinate space (chOff x/y, chExt cx/cy).
func (g *GroupShape) ChildSpace() (offX, offY, extX, extY int64) {
	return g.childOffX, g.childOffY, g.childExtX, g.childExtY
}
