package slideresize

// Shape is the interface that all slide elements implement. Positions and
// sizes are in EMU and are mutable so a transform pass can rewrite them
// in place.
type Shape interface {
	GetType() ShapeType
	GetOffsetX() int64
	GetOffsetY() int64
	GetWidth() int64
	GetHeight() int64
	GetName() string
	// base returns the underlying BaseShape (unexported, internal use only).
	base() *BaseShape
}

// ShapeType represents the type of shape.
type ShapeType int

const (
	ShapeTypeTextBox ShapeType = iota
	ShapeTypePicture
	ShapeTypeAutoShape
	ShapeTypeLine
	ShapeTypeTable
	ShapeTypeChart
	ShapeTypeGroup
)

// BaseShape contains common shape properties.
type BaseShape struct {
	name           string
	description    string
	offsetX        int64 // in EMU
	offsetY        int64 // in EMU
	width          int64 // in EMU
	height         int64 // in EMU
	rotation       int   // in degrees
	flipHorizontal bool
	flipVertical   bool
	fill           *Fill
	border         *Border
}

func (b *BaseShape) GetOffsetX() int64 { return b.offsetX }
func (b *BaseShape) GetOffsetY() int64 { return b.offsetY }
func (b *BaseShape) GetWidth() int64   { return b.width }
func (b *BaseShape) GetHeight() int64  { return b.height }
func (b *BaseShape) GetName() string   { return b.name }
func (b *BaseShape) GetRotation() int  { return b.rotation }
func (b *BaseShape) base() *BaseShape  { return b }

func (b *BaseShape) SetOffsetX(x int64) *BaseShape { b.offsetX = x; return b }
func (b *BaseShape) SetOffsetY(y int64) *BaseShape { b.offsetY = y; return b }
func (b *BaseShape) SetWidth(w int64) *BaseShape   { b.width = w; return b }
func (b *BaseShape) SetHeight(h int64) *BaseShape  { b.height = h; return b }
func (b *BaseShape) SetName(n string) *BaseShape   { b.name = n; return b }
func (b *BaseShape) SetRotation(r int) *BaseShape  { b.rotation = ((r % 360) + 360) % 360; return b }

// SetPosition sets both offset X and Y in EMU.
func (b *BaseShape) SetPosition(x, y int64) *BaseShape {
	b.offsetX = x
	b.offsetY = y
	return b
}

// SetSize sets both width and height in EMU.
func (b *BaseShape) SetSize(w, h int64) *BaseShape {
	b.width = w
	b.height = h
	return b
}

// SetFlipHorizontal controls horizontal flipping.
func (b *BaseShape) SetFlipHorizontal(flip bool) *BaseShape {
	b.flipHorizontal = flip
	return b
}

// GetFlipHorizontal returns whether the shape is flipped horizontally.
func (b *BaseShape) GetFlipHorizontal() bool { return b.flipHorizontal }

// SetFlipVertical controls vertical flipping.
func (b *BaseShape) SetFlipVertical(flip bool) *BaseShape {
	b.flipVertical = flip
	return b
}

// GetFlipVertical returns whether the shape is flipped vertically.
func (b *BaseShape) GetFlipVertical() bool { return b.flipVertical }

func (b *BaseShape) GetDescription() string  { return b.description }
func (b *BaseShape) SetDescription(d string) { b.description = d }

func (b *BaseShape) GetFill() *Fill {
	if b.fill == nil {
		b.fill = NewFill()
	}
	return b.fill
}

func (b *BaseShape) SetFill(f *Fill) { b.fill = f }

func (b *BaseShape) GetBorder() *Border {
	if b.border == nil {
		b.border = NewBorder()
	}
	return b.border
}

func (b *BaseShape) SetBorder(border *Border) { b.border = border }

// TextBoxShape represents a text box.
type TextBoxShape struct {
	BaseShape
	paragraphs      []*Paragraph
	activeParagraph int
	wordWrap        bool
	textAnchor      TextAnchorType
}

// TextAnchorType represents the text anchoring type within a shape.
type TextAnchorType string

const (
	TextAnchorTop    TextAnchorType = "t"
	TextAnchorMiddle TextAnchorType = "ctr"
	TextAnchorBottom TextAnchorType = "b"
	TextAnchorNone   TextAnchorType = ""
)

func (t *TextBoxShape) GetType() ShapeType { return ShapeTypeTextBox }

// NewTextBoxShape creates a new text box.
func NewTextBoxShape() *TextBoxShape {
	return &TextBoxShape{
		paragraphs: []*Paragraph{NewParagraph()},
		wordWrap:   true,
	}
}

// GetActiveParagraph returns the active paragraph.
func (t *TextBoxShape) GetActiveParagraph() *Paragraph {
	if len(t.paragraphs) == 0 {
		t.paragraphs = append(t.paragraphs, NewParagraph())
	}
	return t.paragraphs[t.activeParagraph]
}

// CreateParagraph creates a new paragraph and makes it active.
func (t *TextBoxShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	t.paragraphs = append(t.paragraphs, p)
	t.activeParagraph = len(t.paragraphs) - 1
	return p
}

// GetParagraphs returns all paragraphs.
func (t *TextBoxShape) GetParagraphs() []*Paragraph {
	return t.paragraphs
}

// CreateTextRun creates a text run in the active paragraph.
func (t *TextBoxShape) CreateTextRun(text string) *TextRun {
	return t.GetActiveParagraph().CreateTextRun(text)
}

// SetWordWrap sets word wrap.
func (t *TextBoxShape) SetWordWrap(wrap bool) {
	t.wordWrap = wrap
}

// GetWordWrap returns word wrap setting.
func (t *TextBoxShape) GetWordWrap() bool {
	return t.wordWrap
}

// SetTextAnchor sets the text anchoring type.
func (t *TextBoxShape) SetTextAnchor(anchor TextAnchorType) {
	t.textAnchor = anchor
}

// GetTextAnchor returns the text anchoring type.
func (t *TextBoxShape) GetTextAnchor() TextAnchorType {
	return t.textAnchor
}

// Paragraph represents a text paragraph.
type Paragraph struct {
	runs      []*TextRun
	alignment string // algn attribute value ("l", "ctr", "r", "just") or ""
}

// NewParagraph creates a new paragraph.
func NewParagraph() *Paragraph {
	return &Paragraph{}
}

// GetRuns returns all text runs.
func (p *Paragraph) GetRuns() []*TextRun {
	return p.runs
}

// GetAlignment returns the paragraph alignment attribute value.
func (p *Paragraph) GetAlignment() string { return p.alignment }

// SetAlignment sets the paragraph alignment attribute value.
func (p *Paragraph) SetAlignment(a string) { p.alignment = a }

// CreateTextRun creates a new text run.
func (p *Paragraph) CreateTextRun(text string) *TextRun {
	tr := &TextRun{
		text: text,
		font: NewFont(),
	}
	p.runs = append(p.runs, tr)
	return tr
}

// TextRun represents a run of text with formatting.
type TextRun struct {
	text string
	font *Font
}

// GetText returns the text content.
func (tr *TextRun) GetText() string { return tr.text }

// SetText sets the text content.
func (tr *TextRun) SetText(text string) { tr.text = text }

// GetFont returns the font properties.
func (tr *TextRun) GetFont() *Font { return tr.font }

// SetFont sets the font properties.
func (tr *TextRun) SetFont(f *Font) { tr.font = f }

// PictureShape represents an embedded image.
type PictureShape struct {
	BaseShape
	data     []byte // raw image data
	mimeType string
}

func (p *PictureShape) GetType() ShapeType { return ShapeTypePicture }

// NewPictureShape creates a new picture shape.
func NewPictureShape() *PictureShape {
	return &PictureShape{}
}

// SetImageData sets the raw image data.
func (p *PictureShape) SetImageData(data []byte, mimeType string) *PictureShape {
	p.data = data
	p.mimeType = mimeType
	return p
}

// GetImageData returns the raw image data.
func (p *PictureShape) GetImageData() []byte { return p.data }

// GetMimeType returns the image MIME type.
func (p *PictureShape) GetMimeType() string { return p.mimeType }

// AutoShape represents a predefined shape (rectangle, ellipse, etc.)
// that may carry text.
type AutoShape struct {
	BaseShape
	shapeType  AutoShapeType
	paragraphs []*Paragraph
	textAnchor TextAnchorType
}

// AutoShapeType is the prstGeom preset name.
type AutoShapeType string

const (
	AutoShapeRectangle   AutoShapeType = "rect"
	AutoShapeRoundedRect AutoShapeType = "roundRect"
	AutoShapeEllipse     AutoShapeType = "ellipse"
	AutoShapeTriangle    AutoShapeType = "triangle"
	AutoShapeDiamond     AutoShapeType = "diamond"
	AutoShapeHexagon     AutoShapeType = "hexagon"
	AutoShapeArrowRight  AutoShapeType = "rightArrow"
	AutoShapeArrowLeft   AutoShapeType = "leftArrow"
	AutoShapeStar5       AutoShapeType = "star5"
	AutoShapeChevron     AutoShapeType = "chevron"
	AutoShapeCloud       AutoShapeType = "cloud"
)

func (a *AutoShape) GetType() ShapeType { return ShapeTypeAutoShape }

// NewAutoShape creates a new auto shape.
func NewAutoShape() *AutoShape {
	return &AutoShape{
		shapeType: AutoShapeRectangle,
	}
}

// SetAutoShapeType sets the auto shape type.
func (a *AutoShape) SetAutoShapeType(t AutoShapeType) *AutoShape {
	a.shapeType = t
	return a
}

// GetAutoShapeType returns the auto shape type.
func (a *AutoShape) GetAutoShapeType() AutoShapeType {
	return a.shapeType
}

// SetSolidFill sets a solid fill on the auto shape.
func (a *AutoShape) SetSolidFill(c Color) *AutoShape {
	a.GetFill().SetSolid(c)
	return a
}

// GetParagraphs returns the shape's text paragraphs (may be nil).
func (a *AutoShape) GetParagraphs() []*Paragraph {
	return a.paragraphs
}

// CreateParagraph creates a new paragraph inside the shape.
func (a *AutoShape) CreateParagraph() *Paragraph {
	p := NewParagraph()
	a.paragraphs = append(a.paragraphs, p)
	return p
}

// SetText replaces the shape text with a single paragraph and run.
func (a *AutoShape) SetText(text string) *AutoShape {
	p := NewParagraph()
	p.CreateTextRun(text)
	a.paragraphs = []*Paragraph{p}
	return a
}

// LineShape represents a line or connector shape.
type LineShape struct {
	BaseShape
	connectorType string // prstGeom value: "line", "straightConnector1", ...
	lineWidth     int64  // in EMU
	lineColor     Color
}

func (l *LineShape) GetType() ShapeType { return ShapeTypeLine }

// NewLineShape creates a new line shape.
func NewLineShape() *LineShape {
	return &LineShape{
		connectorType: "line",
		lineWidth:     emuPerPoint,
		lineColor:     ColorBlack,
	}
}

// GetConnectorType returns the connector type (prstGeom value).
func (l *LineShape) GetConnectorType() string { return l.connectorType }

// SetLineWidth sets the line width in EMU.
func (l *LineShape) SetLineWidth(w int64) *LineShape {
	l.lineWidth = w
	return l
}

// GetLineWidth returns the line width in EMU.
func (l *LineShape) GetLineWidth() int64 { return l.lineWidth }

// SetLineColor sets the line color.
func (l *LineShape) SetLineColor(c Color) *LineShape {
	l.lineColor = c
	return l
}

// GetLineColor returns the line color.
func (l *LineShape) GetLineColor() Color { return l.lineColor }

// TableShape represents a table shape. The table occupies the shape box;
// column widths and row heights carry their own EMU values that a canvas
// transform must rescale alongside the box.
type TableShape struct {
	BaseShape
	rows       [][]*TableCell
	numRows    int
	numCols    int
	colWidths  []int64 // individual column widths in EMU (from gridCol)
	rowHeights []int64 // individual row heights in EMU (from tr)
}

func (t *TableShape) GetType() ShapeType { return ShapeTypeTable }

// NewTableShape creates a new table shape with the given dimensions.
func NewTableShape(rows, cols int) *TableShape {
	table := &TableShape{
		numRows: rows,
		numCols: cols,
		rows:    make([][]*TableCell, rows),
	}
	for i := 0; i < rows; i++ {
		table.rows[i] = make([]*TableCell, cols)
		for j := 0; j < cols; j++ {
			table.rows[i][j] = NewTableCell()
		}
	}
	return table
}

// GetCell returns a cell at the given row and column, or nil if out of range.
func (t *TableShape) GetCell(row, col int) *TableCell {
	if row < 0 || row >= t.numRows || col < 0 || col >= len(t.rows[row]) {
		return nil
	}
	return t.rows[row][col]
}

// GetRows returns all rows.
func (t *TableShape) GetRows() [][]*TableCell { return t.rows }

// GetNumRows returns the number of rows.
func (t *TableShape) GetNumRows() int { return t.numRows }

// GetNumCols returns the number of columns.
func (t *TableShape) GetNumCols() int { return t.numCols }

// GetColWidths returns the column widths in EMU.
func (t *TableShape) GetColWidths() []int64 { return t.colWidths }

// SetColWidths sets the column widths in EMU.
func (t *TableShape) SetColWidths(w []int64) { t.colWidths = w }

// GetRowHeights returns the row heights in EMU.
func (t *TableShape) GetRowHeights() []int64 { return t.rowHeights }

// SetRowHeights sets the row heights in EMU.
func (t *TableShape) SetRowHeights(h []int64) { t.rowHeights = h }

// TableCell represents a table cell.
type TableCell struct {
	paragraphs []*Paragraph
	fill       *Fill
	colSpan    int
	rowSpan    int
}

// NewTableCell creates a new table cell.
func NewTableCell() *TableCell {
	return &TableCell{
		fill:    NewFill(),
		colSpan: 1,
		rowSpan: 1,
	}
}

// SetText sets the cell text (convenience method).
func (tc *TableCell) SetText(text string) *TableCell {
	if len(tc.paragraphs) == 0 {
		tc.paragraphs = append(tc.paragraphs, NewParagraph())
	}
	tc.paragraphs[0].CreateTextRun(text)
	return tc
}

// GetParagraphs returns the cell paragraphs.
func (tc *TableCell) GetParagraphs() []*Paragraph { return tc.paragraphs }

// GetFill returns the cell fill.
func (tc *TableCell) GetFill() *Fill { return tc.fill }

// SetFill sets the cell fill.
func (tc *TableCell) SetFill(f *Fill) { tc.fill = f }

// GetColSpan returns the column span.
func (tc *TableCell) GetColSpan() int { return tc.colSpan }

// GetRowSpan returns the row span.
func (tc *TableCell) GetRowSpan() int { return tc.rowSpan }

// ChartShape is a graphicFrame referencing a chart part. The chart XML is
// carried through as raw bytes and never re-encoded; only the frame
// geometry participates in a transform.
type ChartShape struct {
	BaseShape
	rawXML []byte // the chart part, verbatim from the source package
}

func (c *ChartShape) GetType() ShapeType { return ShapeTypeChart }

// NewChartShape creates a new chart shape around a raw chart part.
func NewChartShape(rawXML []byte) *ChartShape {
	return &ChartShape{rawXML: rawXML}
}

// RawXML returns the raw chart part bytes.
func (c *ChartShape) RawXML() []byte { return c.rawXML }
