package slideresize

import "strings"

// Color represents an ARGB color.
type Color struct {
	ARGB string // 8-character hex string, e.g., "FF000000" for black
}

// Predefined colors.
var (
	ColorBlack = Color{ARGB: "FF000000"}
	ColorWhite = Color{ARGB: "FFFFFFFF"}
	ColorRed   = Color{ARGB: "FFFF0000"}
	ColorGreen = Color{ARGB: "FF00FF00"}
	ColorBlue  = Color{ARGB: "FF0000FF"}
)

// NewColor creates a new Color from an ARGB hex string.
// Accepts 6-char RGB (e.g. "FF0000") or 8-char ARGB (e.g. "FFFF0000").
// A leading "#" is stripped automatically.
func NewColor(argb string) Color {
	argb = strings.TrimPrefix(argb, "#")
	if len(argb) == 6 {
		argb = "FF" + argb
	}
	argb = strings.ToUpper(argb)
	if !isValidARGB(argb) {
		return Color{ARGB: "FF000000"} // fallback to black
	}
	return Color{ARGB: argb}
}

// isValidARGB checks that s is exactly 8 hex characters.
func isValidARGB(s string) bool {
	if len(s) != 8 {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// Font represents the text run properties the resizer reads and rewrites.
// Size is in centipoints, matching the OOXML sz attribute exactly: a run
// written as sz="1800" is 18 pt and is stored here as 1800. A Size of 0
// means the run has no explicit size and inherits from its layout or
// master; such runs are never rescaled.
type Font struct {
	Name          string
	Size          int // in centipoints; 0 = inherited
	Bold          bool
	Italic        bool
	Underline     UnderlineType
	Strikethrough bool
	Color         Color
}

// UnderlineType represents the underline style.
type UnderlineType string

const (
	UnderlineNone   UnderlineType = "none"
	UnderlineSingle UnderlineType = "sng"
	UnderlineDouble UnderlineType = "dbl"
)

// NewFont creates a new Font with defaults. The zero Size marks the font
// as inheriting its size until one is parsed or set explicitly.
func NewFont() *Font {
	return &Font{
		Underline: UnderlineNone,
		Color:     Color{},
	}
}

// SetSize sets the font size in centipoints (clamped to 100–400000,
// the 1pt–4000pt range PowerPoint accepts).
func (f *Font) SetSize(cp int) *Font {
	if cp < 100 {
		cp = 100
	}
	if cp > 400000 {
		cp = 400000
	}
	f.Size = cp
	return f
}

// SetSizePoints sets the font size in whole points.
func (f *Font) SetSizePoints(pt int) *Font {
	return f.SetSize(pt * 100)
}

// SetBold sets the bold property and returns the font for chaining.
func (f *Font) SetBold(bold bool) *Font {
	f.Bold = bold
	return f
}

// SetItalic sets the italic property.
func (f *Font) SetItalic(italic bool) *Font {
	f.Italic = italic
	return f
}

// SetColor sets the font color.
func (f *Font) SetColor(color Color) *Font {
	f.Color = color
	return f
}

// SetName sets the font name.
func (f *Font) SetName(name string) *Font {
	f.Name = name
	return f
}

// Fill represents a shape fill.
type Fill struct {
	Type  FillType
	Color Color
}

// FillType represents the type of fill.
type FillType int

const (
	FillNone FillType = iota
	FillSolid
)

// NewFill creates a new Fill with no fill.
func NewFill() *Fill {
	return &Fill{Type: FillNone}
}

// SetSolid sets a solid fill.
func (f *Fill) SetSolid(color Color) *Fill {
	f.Type = FillSolid
	f.Color = color
	return f
}

// Border represents a shape border.
type Border struct {
	Style BorderStyle
	Width int // in EMU
	Color Color
}

// BorderStyle represents the border line style.
type BorderStyle string

const (
	BorderNone  BorderStyle = "none"
	BorderSolid BorderStyle = "solid"
	BorderDash  BorderStyle = "dash"
	BorderDot   BorderStyle = "dot"
)

// NewBorder creates a new Border with no border.
func NewBorder() *Border {
	return &Border{Style: BorderNone}
}

// colorRGB safely extracts the 6-character RGB portion from an 8-character
// ARGB string. Returns "000000" if the input is invalid.
func colorRGB(c Color) string {
	if len(c.ARGB) >= 8 {
		return c.ARGB[2:]
	}
	if len(c.ARGB) == 6 {
		return c.ARGB
	}
	return "000000"
}
