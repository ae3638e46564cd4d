package slideresize

import (
	"fmt"
	"math"
)

// ScaleMode selects how the canvas pair maps to scale factors.
type ScaleMode string

const (
	// ScaleModeStretch scales each axis independently; the content fills
	// the target canvas exactly and aspect ratio may change.
	ScaleModeStretch ScaleMode = "stretch"
	// ScaleModeFit scales both axes by the smaller factor and centers the
	// content; aspect ratio is preserved, margins may appear.
	ScaleModeFit ScaleMode = "fit"
	// ScaleModeFill scales both axes by the larger factor and centers the
	// content; aspect ratio is preserved, content may extend past the edges.
	ScaleModeFill ScaleMode = "fill"
)

// ParseScaleMode parses a mode string.
func ParseScaleMode(s string) (ScaleMode, error) {
	switch ScaleMode(s) {
	case ScaleModeStretch, ScaleModeFit, ScaleModeFill:
		return ScaleMode(s), nil
	default:
		return "", fmt.Errorf("invalid scale mode %q (want stretch, fit or fill)", s)
	}
}

// ScaleFactors holds the per-axis geometry factors, the font scalar and the
// centering offsets (in EMU) derived from one canvas pair. Factors are
// computed once and applied uniformly to every shape.
type ScaleFactors struct {
	SX         float64
	SY         float64
	FontFactor float64
	OffsetX    int64
	OffsetY    int64
}

// ComputeScaleFactors derives scale factors from the original canvas
// (origCX, origCY) and the target canvas (targetCX, targetCY), all in EMU.
// The font factor is min(SX, SY) so text never overflows the tighter axis.
func ComputeScaleFactors(origCX, origCY, targetCX, targetCY int64, mode ScaleMode) (ScaleFactors, error) {
	if origCX <= 0 || origCY <= 0 {
		return ScaleFactors{}, fmt.Errorf("invalid original canvas %dx%d EMU", origCX, origCY)
	}
	if targetCX <= 0 || targetCY <= 0 {
		return ScaleFactors{}, fmt.Errorf("invalid target canvas %dx%d EMU", targetCX, targetCY)
	}

	sx := float64(targetCX) / float64(origCX)
	sy := float64(targetCY) / float64(origCY)

	var f ScaleFactors
	switch mode {
	case ScaleModeStretch, "":
		f.SX = sx
		f.SY = sy
	case ScaleModeFit:
		s := math.Min(sx, sy)
		f.SX = s
		f.SY = s
		f.OffsetX = (targetCX - scaleEMU(origCX, s)) / 2
		f.OffsetY = (targetCY - scaleEMU(origCY, s)) / 2
	case ScaleModeFill:
		s := math.Max(sx, sy)
		f.SX = s
		f.SY = s
		f.OffsetX = (targetCX - scaleEMU(origCX, s)) / 2
		f.OffsetY = (targetCY - scaleEMU(origCY, s)) / 2
	default:
		return ScaleFactors{}, fmt.Errorf("invalid scale mode %q", mode)
	}

	f.FontFactor = math.Min(f.SX, f.SY)
	return f, nil
}

// Invert returns the inverse factors. Only defined for offset-free factors
// (stretch mode); applying factors and then their inverse restores geometry
// up to integer rounding.
func (f ScaleFactors) Invert() (ScaleFactors, error) {
	if f.OffsetX != 0 || f.OffsetY != 0 {
		return ScaleFactors{}, fmt.Errorf("cannot invert factors with centering offsets")
	}
	if f.SX == 0 || f.SY == 0 {
		return ScaleFactors{}, fmt.Errorf("cannot invert zero scale factors")
	}
	inv := ScaleFactors{
		SX: 1 / f.SX,
		SY: 1 / f.SY,
	}
	inv.FontFactor = math.Min(inv.SX, inv.SY)
	return inv, nil
}

// DefaultGridUnit is 1/32 inch in EMU.
const DefaultGridUnit int64 = emuPerInch / 32 // 28575

// Options configures a Resizer beyond the target canvas.
type Options struct {
	Mode     ScaleMode
	GridSnap bool
	GridUnit int64 // in EMU; ignored when GridSnap is false
}

// DefaultOptions returns the defaults: stretch mode, grid snapping on with
// a 1/32 inch unit.
func DefaultOptions() Options {
	return Options{
		Mode:     ScaleModeStretch,
		GridSnap: true,
		GridUnit: DefaultGridUnit,
	}
}

// Resizer rescales a presentation canvas and everything on it.
type Resizer struct {
	targetCX int64
	targetCY int64
	opts     Options
}

// NewResizer creates a Resizer for the given target canvas in EMU.
func NewResizer(targetCX, targetCY int64, opts Options) *Resizer {
	if opts.GridUnit <= 0 {
		opts.GridUnit = DefaultGridUnit
	}
	return &Resizer{targetCX: targetCX, targetCY: targetCY, opts: opts}
}

// Apply rescales the presentation in place: canvas, shape geometry, fonts
// and (unless disabled) the grid alignment pass. Returns the factors used.
func (r *Resizer) Apply(p *Presentation) (ScaleFactors, error) {
	if p == nil {
		return ScaleFactors{}, fmt.Errorf("presentation is nil")
	}
	layout := p.GetLayout()

	factors, err := ComputeScaleFactors(layout.CX, layout.CY, r.targetCX, r.targetCY, r.opts.Mode)
	if err != nil {
		return ScaleFactors{}, err
	}

	for _, slide := range p.GetAllSlides() {
		ApplyToSlide(slide, factors)
		if r.opts.GridSnap {
			SnapSlideToGrid(slide, r.opts.GridUnit)
		}
	}

	layout.SetCustomLayout(r.targetCX, r.targetCY)
	return factors, nil
}

// ApplyToSlide rescales every shape on one slide. Centering offsets apply
// at the top level only; shapes inside groups live in the group's child
// coordinate space and scale without them.
func ApplyToSlide(slide *Slide, f ScaleFactors) {
	for _, shape := range slide.GetShapes() {
		scaleShape(shape, f, true)
	}
}

func scaleShape(shape Shape, f ScaleFactors, topLevel bool) {
	b := shape.base()
	x := scaleEMU(b.offsetX, f.SX)
	y := scaleEMU(b.offsetY, f.SY)
	if topLevel {
		x += f.OffsetX
		y += f.OffsetY
	}
	b.SetPosition(x, y)
	b.SetSize(scaleEMU(b.width, f.SX), scaleEMU(b.height, f.SY))

	switch s := shape.(type) {
	case *TextBoxShape:
		scaleParagraphFonts(s.paragraphs, f.FontFactor)
	case *AutoShape:
		scaleParagraphFonts(s.paragraphs, f.FontFactor)
	case *TableShape:
		scaleTable(s, f)
	case *GroupShape:
		// Scaling the box, the child space and every member by the same
		// factors preserves the group's internal layout exactly.
		s.SetChildSpace(
			scaleEMU(s.childOffX, f.SX),
			scaleEMU(s.childOffY, f.SY),
			scaleEMU(s.childExtX, f.SX),
			scaleEMU(s.childExtY, f.SY),
		)
		for _, child := range s.shapes {
			scaleShape(child, f, false)
		}
	}
}

func scaleTable(t *TableShape, f ScaleFactors) {
	for i, w := range t.colWidths {
		t.colWidths[i] = scaleEMU(w, f.SX)
	}
	for i, h := range t.rowHeights {
		t.rowHeights[i] = scaleEMU(h, f.SY)
	}
	for _, row := range t.rows {
		for _, cell := range row {
			if cell != nil {
				scaleParagraphFonts(cell.paragraphs, f.FontFactor)
			}
		}
	}
}

func scaleParagraphFonts(paragraphs []*Paragraph, factor float64) {
	for _, p := range paragraphs {
		for _, run := range p.runs {
			if run.font == nil || run.font.Size == 0 {
				continue // inherited size, never rescaled
			}
			run.font.Size = scaleFontSize(run.font.Size, factor)
		}
	}
}

// scaleFontSize multiplies a centipoint size by the font factor and rounds
// to the nearest half point (50 cp), ties up, floored at 1 pt.
func scaleFontSize(cp int, factor float64) int {
	scaled := float64(cp) * factor
	rounded := int(math.Floor(scaled/50+0.5)) * 50
	if rounded < 100 {
		rounded = 100
	}
	return rounded
}

// scaleEMU multiplies an EMU value by a factor, rounding half away from
// zero, and clamps the result to the representable range.
func scaleEMU(v int64, factor float64) int64 {
	return clampEMU(math.Round(float64(v) * factor))
}

// SnapSlideToGrid aligns each top-level shape's position and size to the
// nearest multiple of unit. Shapes inside groups are left alone: their
// coordinates live in the group's child space, where multiples of a slide
// grid unit are meaningless.
func SnapSlideToGrid(slide *Slide, unit int64) {
	if unit <= 0 {
		return
	}
	for _, shape := range slide.GetShapes() {
		b := shape.base()
		b.SetPosition(snapEMU(b.offsetX, unit), snapEMU(b.offsetY, unit))
		b.SetSize(snapEMU(b.width, unit), snapEMU(b.height, unit))
	}
}

// snapEMU rounds v to the nearest multiple of unit, ties toward +inf.
// Integer math keeps the operation exact and idempotent.
func snapEMU(v, unit int64) int64 {
	if unit <= 0 {
		return v
	}
	// floor((v + unit/2) / unit) * unit, correct for negative v too
	half := unit / 2
	q := v + half
	if q < 0 && q%unit != 0 {
		return (q/unit - 1) * unit
	}
	return (q / unit) * unit
}
