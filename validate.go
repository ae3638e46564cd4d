package slideresize

import "fmt"

// Validate checks that the presentation is structurally sound enough to be
// written: a positive canvas, at least one slide, and no negative shape
// geometry anywhere in the tree.
func (p *Presentation) Validate() error {
	if p.layout == nil || p.layout.CX <= 0 || p.layout.CY <= 0 {
		return fmt.Errorf("invalid canvas dimensions")
	}
	if len(p.slides) == 0 {
		return fmt.Errorf("presentation has no slides")
	}
	for i, slide := range p.slides {
		if err := validateShapes(slide.shapes); err != nil {
			return fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return nil
}

func validateShapes(shapes []Shape) error {
	for _, shape := range shapes {
		b := shape.base()
		if b.width < 0 || b.height < 0 {
			return fmt.Errorf("shape %q has negative dimensions %dx%d", b.name, b.width, b.height)
		}
		if g, ok := shape.(*GroupShape); ok {
			if err := validateShapes(g.shapes); err != nil {
				return err
			}
		}
	}
	return nil
}
