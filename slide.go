package slideresize

import "strings"

// Slide represents a single slide. Shape order is insertion order, which
// is the rendering z-order; the transform never reorders shapes.
type Slide struct {
	name   string
	shapes []Shape
}

// newSlide creates a new empty slide.
func newSlide() *Slide {
	return &Slide{
		shapes: make([]Shape, 0),
	}
}

// GetName returns the slide name.
func (s *Slide) GetName() string { return s.name }

// SetName sets the slide name.
func (s *Slide) SetName(name string) { s.name = name }

// GetShapes returns all shapes on the slide.
func (s *Slide) GetShapes() []Shape {
	return s.shapes
}

// GetShapeCount returns the number of shapes on the slide.
func (s *Slide) GetShapeCount() int {
	return len(s.shapes)
}

// AddShape adds a shape to the slide.
func (s *Slide) AddShape(shape Shape) Shape {
	s.shapes = append(s.shapes, shape)
	return shape
}

// CreateTextBox creates a text box and adds it to the slide.
func (s *Slide) CreateTextBox() *TextBoxShape {
	tb := NewTextBoxShape()
	s.shapes = append(s.shapes, tb)
	return tb
}

// CreateAutoShape creates an auto shape and adds it to the slide.
func (s *Slide) CreateAutoShape() *AutoShape {
	as := NewAutoShape()
	s.shapes = append(s.shapes, as)
	return as
}

// CreateGroup creates a group shape and adds it to the slide.
func (s *Slide) CreateGroup() *GroupShape {
	g := NewGroupShape()
	s.shapes = append(s.shapes, g)
	return g
}

// RemoveShapeByPointer removes the given shape from the slide.
// Returns true if the shape was found and removed.
func (s *Slide) RemoveShapeByPointer(target Shape) bool {
	for i, shape := range s.shapes {
		if shape == target {
			s.shapes = append(s.shapes[:i], s.shapes[i+1:]...)
			return true
		}
	}
	return false
}

// ExtractText returns all text content from the slide as a single string.
// Useful for search/indexing.
func (s *Slide) ExtractText() string {
	var parts []string
	var walk func(shapes []Shape)
	walk = func(shapes []Shape) {
		for _, shape := range shapes {
			switch sh := shape.(type) {
			case *TextBoxShape:
				parts = append(parts, paragraphsText(sh.paragraphs)...)
			case *AutoShape:
				parts = append(parts, paragraphsText(sh.paragraphs)...)
			case *TableShape:
				for _, row := range sh.rows {
					for _, cell := range row {
						if cell != nil {
							parts = append(parts, paragraphsText(cell.paragraphs)...)
						}
					}
				}
			case *GroupShape:
				walk(sh.shapes)
			}
		}
	}
	walk(s.shapes)
	return strings.Join(parts, "\n")
}

func paragraphsText(paragraphs []*Paragraph) []string {
	var parts []string
	for _, para := range paragraphs {
		var sb strings.Builder
		for _, run := range para.runs {
			sb.WriteString(run.text)
		}
		if sb.Len() > 0 {
			parts = append(parts, sb.String())
		}
	}
	return parts
}
