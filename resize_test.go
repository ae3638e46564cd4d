package slideresize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeScaleFactorsStretch(t *testing.T) {
	f, err := ComputeScaleFactors(Inch(10), Inch(7.5), Inch(36), Inch(48), ScaleModeStretch)
	require.NoError(t, err)

	assert.InDelta(t, 3.6, f.SX, 1e-12)
	assert.InDelta(t, 6.4, f.SY, 1e-12)
	assert.InDelta(t, 3.6, f.FontFactor, 1e-12)
	assert.Zero(t, f.OffsetX)
	assert.Zero(t, f.OffsetY)
}

func TestComputeScaleFactorsFit(t *testing.T) {
	// 10x10 -> 20x5: the height is the tighter axis.
	f, err := ComputeScaleFactors(Inch(10), Inch(10), Inch(20), Inch(5), ScaleModeFit)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, f.SX, 1e-12)
	assert.InDelta(t, 0.5, f.SY, 1e-12)
	assert.Equal(t, (Inch(20)-Inch(5))/2, f.OffsetX)
	assert.Equal(t, int64(0), f.OffsetY)
}

func TestComputeScaleFactorsFill(t *testing.T) {
	f, err := ComputeScaleFactors(Inch(10), Inch(10), Inch(20), Inch(5), ScaleModeFill)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, f.SX, 1e-12)
	assert.InDelta(t, 2.0, f.SY, 1e-12)
	assert.Equal(t, int64(0), f.OffsetX)
	assert.Equal(t, (Inch(5)-Inch(20))/2, f.OffsetY)
	assert.Less(t, f.OffsetY, int64(0))
}

func TestComputeScaleFactorsRejectsBadInput(t *testing.T) {
	_, err := ComputeScaleFactors(0, Inch(7.5), Inch(36), Inch(48), ScaleModeStretch)
	assert.Error(t, err)

	_, err = ComputeScaleFactors(Inch(10), -1, Inch(36), Inch(48), ScaleModeStretch)
	assert.Error(t, err)

	_, err = ComputeScaleFactors(Inch(10), Inch(7.5), 0, Inch(48), ScaleModeStretch)
	assert.Error(t, err)

	_, err = ComputeScaleFactors(Inch(10), Inch(7.5), Inch(36), Inch(48), ScaleMode("bogus"))
	assert.Error(t, err)
}

func TestFontFactorBounds(t *testing.T) {
	cases := []struct {
		name           string
		w0, h0, w1, h1 float64
		mode           ScaleMode
	}{
		{"enlarge-stretch", 10, 7.5, 36, 48, ScaleModeStretch},
		{"shrink-stretch", 36, 48, 10, 7.5, ScaleModeStretch},
		{"mixed-stretch", 10, 10, 20, 5, ScaleModeStretch},
		{"fit", 10, 10, 20, 5, ScaleModeFit},
		{"fill", 10, 10, 20, 5, ScaleModeFill},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := ComputeScaleFactors(Inch(tc.w0), Inch(tc.h0), Inch(tc.w1), Inch(tc.h1), tc.mode)
			require.NoError(t, err)
			lo := math.Min(f.SX, f.SY)
			hi := math.Max(f.SX, f.SY)
			assert.GreaterOrEqual(t, f.FontFactor, lo)
			assert.LessOrEqual(t, f.FontFactor, hi)
		})
	}
}

func TestScenario10x10To20x5(t *testing.T) {
	p := New()
	p.GetLayout().SetCustomLayout(Inch(10), Inch(10))

	slide, err := p.GetSlide(0)
	require.NoError(t, err)
	box := slide.CreateTextBox()
	box.SetPosition(Inch(1), Inch(1))
	box.SetSize(Inch(2), Inch(2))

	r := NewResizer(Inch(20), Inch(5), Options{Mode: ScaleModeStretch, GridSnap: false})
	f, err := r.Apply(p)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, f.SX, 1e-12)
	assert.InDelta(t, 0.5, f.SY, 1e-12)

	assert.Equal(t, Inch(2), box.GetOffsetX())
	assert.Equal(t, Inch(0.5), box.GetOffsetY())
	assert.Equal(t, Inch(4), box.GetWidth())
	assert.Equal(t, Inch(1), box.GetHeight())

	layout := p.GetLayout()
	assert.Equal(t, Inch(20), layout.CX)
	assert.Equal(t, Inch(5), layout.CY)
}

func TestRoundTripLaw(t *testing.T) {
	// Odd EMU values so rounding actually happens.
	coords := []int64{914400, 914401, 1234567, 28575, 3, 7654321}

	f, err := ComputeScaleFactors(Inch(10), Inch(7.5), Inch(36), Inch(48), ScaleModeStretch)
	require.NoError(t, err)
	inv, err := f.Invert()
	require.NoError(t, err)

	for _, v := range coords {
		back := scaleEMU(scaleEMU(v, f.SX), inv.SX)
		assert.InDelta(t, float64(v), float64(back), 1.0, "x coordinate %d", v)

		back = scaleEMU(scaleEMU(v, f.SY), inv.SY)
		assert.InDelta(t, float64(v), float64(back), 1.0, "y coordinate %d", v)
	}
}

func TestInvertRejectsOffsets(t *testing.T) {
	f, err := ComputeScaleFactors(Inch(10), Inch(10), Inch(20), Inch(5), ScaleModeFit)
	require.NoError(t, err)
	_, err = f.Invert()
	assert.Error(t, err)
}

func TestSnapNearestMultipleTiesUp(t *testing.T) {
	assert.Equal(t, int64(100), snapEMU(149, 100))
	assert.Equal(t, int64(200), snapEMU(150, 100), "tie rounds up")
	assert.Equal(t, int64(200), snapEMU(151, 100))
	assert.Equal(t, int64(0), snapEMU(0, 100))
	assert.Equal(t, int64(-100), snapEMU(-150, 100), "negative tie rounds up")
	assert.Equal(t, int64(-200), snapEMU(-151, 100))

	// Default unit: 1/32 inch.
	assert.Equal(t, int64(28575), snapEMU(28575, DefaultGridUnit))
	assert.Equal(t, int64(28575), snapEMU(30000, DefaultGridUnit))
}

func TestSnapIdempotent(t *testing.T) {
	for _, v := range []int64{0, 1, 14287, 14288, 28575, 914400, 1234567, -99999} {
		once := snapEMU(v, DefaultGridUnit)
		twice := snapEMU(once, DefaultGridUnit)
		assert.Equal(t, once, twice, "snap(%d) must be a fixed point", v)
	}
}

func TestSnapSlideToGridTopLevelOnly(t *testing.T) {
	p := New()
	slide, err := p.GetSlide(0)
	require.NoError(t, err)

	top := slide.CreateTextBox()
	top.SetPosition(28580, 28570)
	top.SetSize(100001, 99999)

	group := slide.CreateGroup()
	group.SetPosition(57155, 57145)
	group.SetSize(200002, 199998)
	group.SetChildSpace(0, 0, 100, 100)
	inner := NewTextBoxShape()
	inner.SetPosition(13, 37)
	inner.SetSize(41, 59)
	group.AddShape(inner)

	SnapSlideToGrid(slide, DefaultGridUnit)

	assert.Zero(t, top.GetOffsetX()%DefaultGridUnit)
	assert.Zero(t, top.GetOffsetY()%DefaultGridUnit)
	assert.Zero(t, top.GetWidth()%DefaultGridUnit)
	assert.Zero(t, top.GetHeight()%DefaultGridUnit)
	assert.Zero(t, group.GetOffsetX()%DefaultGridUnit)

	// Group members live in the group's child space; they are not snapped.
	assert.Equal(t, int64(13), inner.GetOffsetX())
	assert.Equal(t, int64(37), inner.GetOffsetY())
	assert.Equal(t, int64(41), inner.GetWidth())
	assert.Equal(t, int64(59), inner.GetHeight())
}

func TestFontScaling(t *testing.T) {
	assert.Equal(t, 900, scaleFontSize(1800, 0.5))
	assert.Equal(t, 6480, scaleFontSize(1800, 3.6))

	// 1850 * 0.5 = 925 cp = 9.25 pt, a half-point tie: rounds up to 9.5 pt.
	assert.Equal(t, 950, scaleFontSize(1850, 0.5))

	// Floor at 1 pt.
	assert.Equal(t, 100, scaleFontSize(150, 0.1))
	assert.Equal(t, 100, scaleFontSize(100, 0.01))
}

func TestInheritedFontSizesUntouched(t *testing.T) {
	p := New()
	p.GetLayout().SetCustomLayout(Inch(10), Inch(7.5))
	slide, err := p.GetSlide(0)
	require.NoError(t, err)

	box := slide.CreateTextBox()
	explicit := box.CreateTextRun("sized")
	explicit.GetFont().Size = 1800
	inherited := box.GetActiveParagraph().CreateTextRun("inherited")
	require.Zero(t, inherited.GetFont().Size)

	r := NewResizer(Inch(36), Inch(48), Options{Mode: ScaleModeStretch, GridSnap: false})
	_, err = r.Apply(p)
	require.NoError(t, err)

	assert.Equal(t, 6480, explicit.GetFont().Size)
	assert.Zero(t, inherited.GetFont().Size, "inherited size must stay inherited")
}

func TestGroupRelativeLayoutPreserved(t *testing.T) {
	p := New()
	p.GetLayout().SetCustomLayout(Inch(10), Inch(7.5))
	slide, err := p.GetSlide(0)
	require.NoError(t, err)

	group := slide.CreateGroup()
	group.SetPosition(Inch(1), Inch(1))
	group.SetSize(Inch(4), Inch(2))
	group.SetChildSpace(Inch(1), Inch(1), Inch(4), Inch(2))

	a := NewTextBoxShape()
	a.SetPosition(Inch(1), Inch(1))
	a.SetSize(Inch(1), Inch(1))
	group.AddShape(a)

	b := NewTextBoxShape()
	b.SetPosition(Inch(3), Inch(2))
	b.SetSize(Inch(2), Inch(1))
	group.AddShape(b)

	_, _, extX0, _ := group.ChildSpace()
	ratio0 := float64(b.GetOffsetX()-a.GetOffsetX()) / float64(extX0)

	r := NewResizer(Inch(36), Inch(48), Options{Mode: ScaleModeStretch, GridSnap: false})
	f, err := r.Apply(p)
	require.NoError(t, err)

	// Box, child space and members all scale by the same factors.
	assert.Equal(t, scaleEMU(Inch(1), f.SX), group.GetOffsetX())
	assert.Equal(t, scaleEMU(Inch(4), f.SX), group.GetWidth())

	_, _, extX1, _ := group.ChildSpace()
	assert.Equal(t, scaleEMU(Inch(4), f.SX), extX1)

	ratio1 := float64(b.GetOffsetX()-a.GetOffsetX()) / float64(extX1)
	assert.InDelta(t, ratio0, ratio1, 1e-6, "relative offset ratio inside the group")
}

func TestNoGridEqualsPreSnap(t *testing.T) {
	build := func() *Presentation {
		p := New()
		p.GetLayout().SetCustomLayout(Inch(10), Inch(7.5))
		slide, _ := p.GetSlide(0)
		box := slide.CreateTextBox()
		box.SetPosition(123457, 765431)
		box.SetSize(914401, 457201)
		return p
	}

	noGrid := build()
	r := NewResizer(Inch(36), Inch(48), Options{Mode: ScaleModeStretch, GridSnap: false})
	f, err := r.Apply(noGrid)
	require.NoError(t, err)

	manual := build()
	for _, slide := range manual.GetAllSlides() {
		ApplyToSlide(slide, f)
	}

	got := noGrid.GetAllSlides()[0].GetShapes()[0]
	want := manual.GetAllSlides()[0].GetShapes()[0]
	assert.Equal(t, want.GetOffsetX(), got.GetOffsetX())
	assert.Equal(t, want.GetOffsetY(), got.GetOffsetY())
	assert.Equal(t, want.GetWidth(), got.GetWidth())
	assert.Equal(t, want.GetHeight(), got.GetHeight())
}

func TestTableGridScaling(t *testing.T) {
	p := New()
	p.GetLayout().SetCustomLayout(Inch(10), Inch(10))
	slide, err := p.GetSlide(0)
	require.NoError(t, err)

	table := NewTableShape(2, 3)
	table.SetPosition(Inch(1), Inch(1))
	table.SetSize(Inch(6), Inch(2))
	table.SetColWidths([]int64{Inch(1), Inch(2), Inch(3)})
	table.SetRowHeights([]int64{Inch(1), Inch(1)})
	table.GetCell(0, 0).SetText("head")
	table.GetCell(0, 0).GetParagraphs()[0].GetRuns()[0].GetFont().Size = 1200
	slide.AddShape(table)

	r := NewResizer(Inch(20), Inch(5), Options{Mode: ScaleModeStretch, GridSnap: false})
	_, err = r.Apply(p)
	require.NoError(t, err)

	assert.Equal(t, []int64{Inch(2), Inch(4), Inch(6)}, table.GetColWidths())
	assert.Equal(t, []int64{Inch(0.5), Inch(0.5)}, table.GetRowHeights())

	// Font factor is min(2, 0.5) = 0.5.
	assert.Equal(t, 600, table.GetCell(0, 0).GetParagraphs()[0].GetRuns()[0].GetFont().Size)
}

func TestParseScaleMode(t *testing.T) {
	for _, s := range []string{"stretch", "fit", "fill"} {
		m, err := ParseScaleMode(s)
		require.NoError(t, err)
		assert.Equal(t, ScaleMode(s), m)
	}
	_, err := ParseScaleMode("zoom")
	assert.Error(t, err)
}
