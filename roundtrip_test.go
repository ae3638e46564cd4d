package slideresize

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// roundTrip writes the presentation to a buffer and reads it back.
func roundTrip(t *testing.T, p *Presentation) *Presentation {
	t.Helper()

	var buf bytes.Buffer
	if err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	got, err := ReadFrom(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadFrom failed: %v", err)
	}
	return got
}

func TestRoundTripCanvas(t *testing.T) {
	p := New()
	p.GetLayout().SetCustomLayout(Inch(36), Inch(48))

	got := roundTrip(t, p)

	layout := got.GetLayout()
	if layout.CX != Inch(36) || layout.CY != Inch(48) {
		t.Errorf("canvas = %dx%d, want %dx%d", layout.CX, layout.CY, Inch(36), Inch(48))
	}
	if got.GetSlideCount() != 1 {
		t.Errorf("slide count = %d, want 1", got.GetSlideCount())
	}
}

func TestRoundTripTextBox(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)

	box := slide.CreateTextBox()
	box.SetName("Title")
	box.SetPosition(Inch(1), Inch(2))
	box.SetSize(Inch(4), Inch(1))
	box.SetTextAnchor(TextAnchorMiddle)
	run := box.CreateTextRun("Hello & <World>")
	run.GetFont().SetSize(1800).SetBold(true).SetColor(ColorRed).SetName("Arial")
	box.GetActiveParagraph().SetAlignment("ctr")

	got := roundTrip(t, p)

	shapes := got.GetAllSlides()[0].GetShapes()
	if len(shapes) != 1 {
		t.Fatalf("shape count = %d, want 1", len(shapes))
	}
	tb, ok := shapes[0].(*TextBoxShape)
	if !ok {
		t.Fatalf("shape type = %T, want *TextBoxShape", shapes[0])
	}
	if tb.GetName() != "Title" {
		t.Errorf("name = %q", tb.GetName())
	}
	if tb.GetOffsetX() != Inch(1) || tb.GetOffsetY() != Inch(2) {
		t.Errorf("position = (%d, %d)", tb.GetOffsetX(), tb.GetOffsetY())
	}
	if tb.GetWidth() != Inch(4) || tb.GetHeight() != Inch(1) {
		t.Errorf("size = %dx%d", tb.GetWidth(), tb.GetHeight())
	}
	if tb.GetTextAnchor() != TextAnchorMiddle {
		t.Errorf("anchor = %q", tb.GetTextAnchor())
	}

	paras := tb.GetParagraphs()
	if len(paras) != 1 || len(paras[0].GetRuns()) != 1 {
		t.Fatalf("unexpected paragraph/run structure")
	}
	if paras[0].GetAlignment() != "ctr" {
		t.Errorf("alignment = %q", paras[0].GetAlignment())
	}
	gotRun := paras[0].GetRuns()[0]
	if gotRun.GetText() != "Hello & <World>" {
		t.Errorf("text = %q", gotRun.GetText())
	}
	font := gotRun.GetFont()
	if font.Size != 1800 {
		t.Errorf("font size = %d, want 1800", font.Size)
	}
	if !font.Bold {
		t.Error("bold lost")
	}
	if font.Color.ARGB != ColorRed.ARGB {
		t.Errorf("color = %q", font.Color.ARGB)
	}
	if font.Name != "Arial" {
		t.Errorf("font name = %q", font.Name)
	}
}

func TestRoundTripAutoShape(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)

	shape := slide.CreateAutoShape()
	shape.SetAutoShapeType(AutoShapeEllipse)
	shape.SetPosition(Inch(2), Inch(2))
	shape.SetSize(Inch(3), Inch(3))
	shape.SetSolidFill(ColorBlue)
	shape.SetText("inside")
	shape.SetRotation(45)

	got := roundTrip(t, p)

	as, ok := got.GetAllSlides()[0].GetShapes()[0].(*AutoShape)
	if !ok {
		t.Fatalf("shape type = %T, want *AutoShape", got.GetAllSlides()[0].GetShapes()[0])
	}
	if as.GetAutoShapeType() != AutoShapeEllipse {
		t.Errorf("prstGeom = %q", as.GetAutoShapeType())
	}
	if as.GetRotation() != 45 {
		t.Errorf("rotation = %d", as.GetRotation())
	}
	if as.GetFill().Type != FillSolid || as.GetFill().Color.ARGB != ColorBlue.ARGB {
		t.Errorf("fill = %+v", as.GetFill())
	}
	if text := got.GetAllSlides()[0].ExtractText(); text != "inside" {
		t.Errorf("text = %q", text)
	}
}

func TestRoundTripPicture(t *testing.T) {
	// Minimal PNG header is enough; image bytes pass through verbatim.
	data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 1, 2, 3, 4}

	p := New()
	slide, _ := p.GetSlide(0)
	pic := NewPictureShape()
	pic.SetName("Logo")
	pic.SetImageData(data, "image/png")
	pic.SetPosition(Inch(5), Inch(5))
	pic.SetSize(Inch(2), Inch(2))
	slide.AddShape(pic)

	got := roundTrip(t, p)

	gotPic, ok := got.GetAllSlides()[0].GetShapes()[0].(*PictureShape)
	if !ok {
		t.Fatalf("shape type = %T, want *PictureShape", got.GetAllSlides()[0].GetShapes()[0])
	}
	if !bytes.Equal(gotPic.GetImageData(), data) {
		t.Error("image data corrupted")
	}
	if gotPic.GetMimeType() != "image/png" {
		t.Errorf("mime = %q", gotPic.GetMimeType())
	}
	if gotPic.GetWidth() != Inch(2) {
		t.Errorf("width = %d", gotPic.GetWidth())
	}
}

func TestRoundTripLine(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)
	line := NewLineShape()
	line.SetPosition(Inch(1), Inch(1))
	line.SetSize(Inch(6), 0)
	line.SetLineWidth(Point(2.25))
	line.SetLineColor(ColorGreen)
	slide.AddShape(line)

	got := roundTrip(t, p)

	ls, ok := got.GetAllSlides()[0].GetShapes()[0].(*LineShape)
	if !ok {
		t.Fatalf("shape type = %T, want *LineShape", got.GetAllSlides()[0].GetShapes()[0])
	}
	if ls.GetLineWidth() != Point(2.25) {
		t.Errorf("line width = %d, want %d", ls.GetLineWidth(), Point(2.25))
	}
	if ls.GetLineColor().ARGB != ColorGreen.ARGB {
		t.Errorf("line color = %q", ls.GetLineColor().ARGB)
	}
}

func TestRoundTripTable(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)

	table := NewTableShape(2, 3)
	table.SetName("Data")
	table.SetPosition(Inch(1), Inch(1))
	table.SetSize(Inch(6), Inch(2))
	table.SetColWidths([]int64{Inch(1), Inch(2), Inch(3)})
	table.SetRowHeights([]int64{Inch(1), Inch(1)})
	table.GetCell(0, 0).SetText("r0c0")
	table.GetCell(1, 2).SetText("r1c2")
	table.GetCell(0, 1).SetFill(NewFill().SetSolid(ColorBlue))
	slide.AddShape(table)

	got := roundTrip(t, p)

	ts, ok := got.GetAllSlides()[0].GetShapes()[0].(*TableShape)
	if !ok {
		t.Fatalf("shape type = %T, want *TableShape", got.GetAllSlides()[0].GetShapes()[0])
	}
	if ts.GetNumRows() != 2 || ts.GetNumCols() != 3 {
		t.Fatalf("table dims = %dx%d, want 2x3", ts.GetNumRows(), ts.GetNumCols())
	}
	wantCols := []int64{Inch(1), Inch(2), Inch(3)}
	for i, w := range ts.GetColWidths() {
		if w != wantCols[i] {
			t.Errorf("colWidth[%d] = %d, want %d", i, w, wantCols[i])
		}
	}
	for i, h := range ts.GetRowHeights() {
		if h != Inch(1) {
			t.Errorf("rowHeight[%d] = %d, want %d", i, h, Inch(1))
		}
	}
	if text := got.GetAllSlides()[0].ExtractText(); text != "r0c0\nr1c2" {
		t.Errorf("table text = %q", text)
	}
	if fill := ts.GetCell(0, 1).GetFill(); fill.Type != FillSolid || fill.Color.ARGB != ColorBlue.ARGB {
		t.Errorf("cell fill = %+v", fill)
	}
}

func TestRoundTripGroup(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)

	group := slide.CreateGroup()
	group.SetName("Cluster")
	group.SetPosition(Inch(1), Inch(1))
	group.SetSize(Inch(4), Inch(2))
	group.SetChildSpace(Inch(1), Inch(1), Inch(4), Inch(2))

	inner := NewTextBoxShape()
	inner.SetName("Member")
	inner.SetPosition(Inch(2), Inch(1.5))
	inner.SetSize(Inch(1), Inch(0.5))
	inner.CreateTextRun("grouped")
	group.AddShape(inner)

	got := roundTrip(t, p)

	g, ok := got.GetAllSlides()[0].GetShapes()[0].(*GroupShape)
	if !ok {
		t.Fatalf("shape type = %T, want *GroupShape", got.GetAllSlides()[0].GetShapes()[0])
	}
	if g.GetName() != "Cluster" {
		t.Errorf("group name = %q", g.GetName())
	}
	if g.GetOffsetX() != Inch(1) || g.GetWidth() != Inch(4) {
		t.Errorf("group box = (%d, %d) %dx%d", g.GetOffsetX(), g.GetOffsetY(), g.GetWidth(), g.GetHeight())
	}
	offX, offY, extX, extY := g.ChildSpace()
	if offX != Inch(1) || offY != Inch(1) || extX != Inch(4) || extY != Inch(2) {
		t.Errorf("child space = (%d, %d, %d, %d)", offX, offY, extX, extY)
	}
	if g.GetShapeCount() != 1 {
		t.Fatalf("group member count = %d, want 1", g.GetShapeCount())
	}
	member, ok := g.GetShapes()[0].(*TextBoxShape)
	if !ok {
		t.Fatalf("member type = %T, want *TextBoxShape", g.GetShapes()[0])
	}
	if member.GetOffsetX() != Inch(2) || member.GetHeight() != Inch(0.5) {
		t.Errorf("member geometry = (%d, %d) %dx%d",
			member.GetOffsetX(), member.GetOffsetY(), member.GetWidth(), member.GetHeight())
	}
}

func TestRoundTripNestedGroups(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)

	outer := slide.CreateGroup()
	outer.SetPosition(Inch(1), Inch(1))
	outer.SetSize(Inch(6), Inch(4))
	outer.SetChildSpace(0, 0, Inch(6), Inch(4))

	innerGroup := NewGroupShape()
	innerGroup.SetPosition(Inch(1), Inch(1))
	innerGroup.SetSize(Inch(2), Inch(2))
	innerGroup.SetChildSpace(0, 0, Inch(2), Inch(2))
	leaf := NewTextBoxShape()
	leaf.SetPosition(Inch(0.5), Inch(0.5))
	leaf.SetSize(Inch(1), Inch(1))
	innerGroup.AddShape(leaf)
	outer.AddShape(innerGroup)

	got := roundTrip(t, p)

	g, ok := got.GetAllSlides()[0].GetShapes()[0].(*GroupShape)
	if !ok {
		t.Fatalf("outer type = %T", got.GetAllSlides()[0].GetShapes()[0])
	}
	ig, ok := g.GetShapes()[0].(*GroupShape)
	if !ok {
		t.Fatalf("inner type = %T", g.GetShapes()[0])
	}
	if ig.GetWidth() != Inch(2) {
		t.Errorf("inner group width = %d", ig.GetWidth())
	}
	if ig.GetShapeCount() != 1 {
		t.Fatalf("leaf count = %d", ig.GetShapeCount())
	}
	if got := ig.GetShapes()[0].GetOffsetX(); got != Inch(0.5) {
		t.Errorf("leaf offsetX = %d", got)
	}
}

func TestRoundTripChart(t *testing.T) {
	raw := []byte(`<?xml version="1.0"?><c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart"><c:chart/></c:chartSpace>`)

	p := New()
	slide, _ := p.GetSlide(0)
	chart := NewChartShape(raw)
	chart.SetName("Revenue")
	chart.SetPosition(Inch(1), Inch(1))
	chart.SetSize(Inch(5), Inch(3))
	slide.AddShape(chart)

	got := roundTrip(t, p)

	cs, ok := got.GetAllSlides()[0].GetShapes()[0].(*ChartShape)
	if !ok {
		t.Fatalf("shape type = %T, want *ChartShape", got.GetAllSlides()[0].GetShapes()[0])
	}
	if !bytes.Equal(cs.RawXML(), raw) {
		t.Error("chart part not carried through verbatim")
	}
	if cs.GetWidth() != Inch(5) || cs.GetHeight() != Inch(3) {
		t.Errorf("chart frame = %dx%d", cs.GetWidth(), cs.GetHeight())
	}
}

func TestRoundTripMultipleSlides(t *testing.T) {
	p := New()
	first, _ := p.GetSlide(0)
	first.CreateTextBox().CreateTextRun("one")
	second := p.CreateSlide()
	second.CreateTextBox().CreateTextRun("two")
	third := p.CreateSlide()
	third.CreateTextBox().CreateTextRun("three")

	got := roundTrip(t, p)

	if got.GetSlideCount() != 3 {
		t.Fatalf("slide count = %d, want 3", got.GetSlideCount())
	}
	want := []string{"one", "two", "three"}
	for i, text := range want {
		if extracted := got.GetAllSlides()[i].ExtractText(); extracted != text {
			t.Errorf("slide %d text = %q, want %q", i+1, extracted, text)
		}
	}
}

func TestRoundTripZOrder(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)
	slide.CreateTextBox().SetName("back")
	slide.CreateAutoShape().SetName("middle")
	slide.CreateTextBox().SetName("front")

	got := roundTrip(t, p)

	shapes := got.GetAllSlides()[0].GetShapes()
	if len(shapes) != 3 {
		t.Fatalf("shape count = %d", len(shapes))
	}
	for i, name := range []string{"back", "middle", "front"} {
		if shapes[i].GetName() != name {
			t.Errorf("shapes[%d] = %q, want %q", i, shapes[i].GetName(), name)
		}
	}
}

func TestResizeThenRoundTrip(t *testing.T) {
	p := New()
	p.GetLayout().SetCustomLayout(Inch(10), Inch(7.5))
	slide, _ := p.GetSlide(0)
	box := slide.CreateTextBox()
	box.SetPosition(Inch(1), Inch(1))
	box.SetSize(Inch(2), Inch(1))
	box.CreateTextRun("resized").GetFont().SetSize(2400)

	r := NewResizer(Inch(36), Inch(48), DefaultOptions())
	if _, err := r.Apply(p); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	got := roundTrip(t, p)

	layout := got.GetLayout()
	if layout.CX != Inch(36) || layout.CY != Inch(48) {
		t.Errorf("canvas = %dx%d", layout.CX, layout.CY)
	}
	tb := got.GetAllSlides()[0].GetShapes()[0].(*TextBoxShape)
	if tb.GetOffsetX()%DefaultGridUnit != 0 || tb.GetWidth()%DefaultGridUnit != 0 {
		t.Error("geometry not grid aligned after resize")
	}
	// 24 pt * 3.6 = 86.4 pt, rounds to 86.5 pt.
	if size := tb.GetParagraphs()[0].GetRuns()[0].GetFont().Size; size != 8650 {
		t.Errorf("font size = %d, want 8650", size)
	}
}

// rewriteZip copies a zip archive entry by entry. mutate may replace an
// entry's content; returning nil drops the entry from the copy.
func rewriteZip(t *testing.T, src []byte, mutate func(name string, data []byte) []byte) []byte {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		t.Fatalf("fixture zip unreadable: %v", err)
	}

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		var data bytes.Buffer
		if _, err := data.ReadFrom(rc); err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		rc.Close()

		content := mutate(f.Name, data.Bytes())
		if content == nil {
			continue
		}
		w, err := zw.Create(f.Name)
		if err != nil {
			t.Fatalf("create %s: %v", f.Name, err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("write %s: %v", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return out.Bytes()
}

func TestReadRejectsTruncatedSlideXML(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)
	slide.CreateTextBox().CreateTextRun("first")
	second := slide.CreateTextBox()
	second.CreateTextRun("second")

	var buf bytes.Buffer
	if err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	// Cut the slide part mid-tag inside the second shape. A reader that
	// treats this as end-of-input would keep the first text box and drop
	// the rest of the slide on the floor.
	corrupted := rewriteZip(t, buf.Bytes(), func(name string, data []byte) []byte {
		if name != "ppt/slides/slide1.xml" {
			return data
		}
		cut := bytes.LastIndex(data, []byte("<a:t>"))
		if cut < 0 {
			t.Fatal("fixture slide has no text run")
		}
		return data[:cut+3]
	})

	_, err := ReadFrom(bytes.NewReader(corrupted), int64(len(corrupted)))
	if err == nil {
		t.Fatal("truncated slide XML was accepted")
	}
}

func TestReadRejectsMissingImagePart(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)
	pic := NewPictureShape()
	pic.SetImageData([]byte{0x89, 'P', 'N', 'G', 1, 2, 3}, "image/png")
	pic.SetPosition(Inch(1), Inch(1))
	pic.SetSize(Inch(2), Inch(2))
	slide.AddShape(pic)

	var buf bytes.Buffer
	if err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	corrupted := rewriteZip(t, buf.Bytes(), func(name string, data []byte) []byte {
		if name == "ppt/media/image1.png" {
			return nil
		}
		return data
	})

	_, err := ReadFrom(bytes.NewReader(corrupted), int64(len(corrupted)))
	if err == nil {
		t.Fatal("package with a missing image part was accepted")
	}
}

func TestReadRejectsMissingChartPart(t *testing.T) {
	p := New()
	slide, _ := p.GetSlide(0)
	chart := NewChartShape([]byte(`<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart"/>`))
	chart.SetPosition(Inch(1), Inch(1))
	chart.SetSize(Inch(4), Inch(3))
	slide.AddShape(chart)

	var buf bytes.Buffer
	if err := p.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}

	corrupted := rewriteZip(t, buf.Bytes(), func(name string, data []byte) []byte {
		if name == "ppt/charts/chart1.xml" {
			return nil
		}
		return data
	})

	_, err := ReadFrom(bytes.NewReader(corrupted), int64(len(corrupted)))
	if err == nil {
		t.Fatal("package with a missing chart part was accepted")
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "does-not-exist.pptx"))
	if err == nil {
		t.Fatal("expected error")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("error type = %T, want *LoadError", err)
	}
}

func TestOpenNotAZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.pptx")
	if err := os.WriteFile(path, []byte("this is not a zip archive"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Open(path)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("error type = %T, want *LoadError", err)
	}
}

func TestSaveUnwritableTarget(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	p := New()
	err := p.Save(filepath.Join(blocker, "out.pptx"))
	if err == nil {
		t.Fatal("expected error")
	}
	var saveErr *SaveError
	if !errors.As(err, &saveErr) {
		t.Errorf("error type = %T, want *SaveError", err)
	}
}

func TestSaveAndOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pptx")

	p := New()
	p.GetLayout().SetCustomLayout(Inch(36), Inch(48))
	slide, _ := p.GetSlide(0)
	slide.CreateTextBox().CreateTextRun("persisted")

	if err := p.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer got.Close()

	if got.GetLayout().CX != Inch(36) {
		t.Errorf("canvas width = %d", got.GetLayout().CX)
	}
	if text := got.ExtractText(); text != "persisted" {
		t.Errorf("text = %q", text)
	}
}

func TestValidate(t *testing.T) {
	p := New()
	if err := p.Validate(); err != nil {
		t.Errorf("valid presentation rejected: %v", err)
	}

	slide, _ := p.GetSlide(0)
	box := slide.CreateTextBox()
	box.SetSize(-1, Inch(1))
	if err := p.Validate(); err == nil {
		t.Error("negative dimensions accepted")
	}
}
