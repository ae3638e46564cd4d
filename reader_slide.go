package slideresize

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// readSlide reads a single slide part plus its relationships.
func (r *PPTXReader) readSlide(zr *zip.Reader, path string) (*Slide, error) {
	data, err := readFileFromZip(zr, path)
	if err != nil {
		return nil, err
	}

	dir := strings.TrimSuffix(path, "/"+lastPathComponent(path))
	relsPath := dir + "/_rels/" + lastPathComponent(path) + ".rels"
	rels, err := r.readRelationships(zr, relsPath)
	if err != nil {
		return nil, err
	}

	slide := newSlide()
	slide.name = strings.TrimSuffix(lastPathComponent(path), ".xml")

	decoder := xml.NewDecoder(bytes.NewReader(data))
	if err := r.parseSlideXML(decoder, slide, rels, zr, path); err != nil {
		return nil, err
	}
	return slide, nil
}

// parseSlideXML walks the slide XML token stream and builds the shape
// tree. Only the properties a canvas transform touches are materialized:
// frame geometry (xfrm), group child spaces, table grids, text runs with
// explicit font sizes, and enough styling (fills, borders, anchors) for
// the writer to reproduce a faithful slide.
func (r *PPTXReader) parseSlideXML(decoder *xml.Decoder, slide *Slide, rels []xmlRelForRead, zr *zip.Reader, slidePath string) error {
	type parseState struct {
		inSpTree       bool
		inSp           bool
		inPic          bool
		inCxnSp        bool
		inGraphicFrame bool
		inGrpSpPr      bool
		inTxBody       bool
		inParagraph    bool
		inRunProps     bool
		inText         bool
		inTbl          bool
		inTr           bool
		inTc           bool
		inSpPr         bool
		inLn           bool
		inSolidFill    bool
		isTxBox        bool
	}

	state := &parseState{}

	// Geometry shared between the element being parsed and its close tag.
	var offX, offY, extCX, extCY int64
	var chOffX, chOffY, chExtCX, chExtCY int64
	var shapeName, shapeDescr string
	var shapeRotation int
	var flipH, flipV bool
	var prstGeom string
	var textAnchor TextAnchorType

	// Deferred shape-level style (spPr comes before txBody).
	var pendingFill *Fill
	var pendingBorder *Border
	var pendingLineWidth int64
	var pendingLineColor *Color

	// Text being accumulated for the current shape or table cell.
	var pendingParagraphs []*Paragraph
	var currentParagraph *Paragraph
	var currentRun *TextRun

	var currentPicture *PictureShape
	var currentChart *ChartShape
	var currentTable *TableShape
	var currentCell *TableCell

	resetShape := func() {
		offX, offY, extCX, extCY = 0, 0, 0, 0
		chOffX, chOffY, chExtCX, chExtCY = 0, 0, 0, 0
		shapeName, shapeDescr = "", ""
		shapeRotation = 0
		flipH, flipV = false, false
		prstGeom = ""
		textAnchor = TextAnchorNone
		pendingFill = nil
		pendingBorder = nil
		pendingLineWidth = 0
		pendingLineColor = nil
		pendingParagraphs = nil
		state.isTxBox = false
	}

	// Stack of open groups; shapes land in the innermost open group,
	// or on the slide when no group is open.
	type openGroup struct {
		group    *GroupShape
		name     string
		offX     int64
		offY     int64
		extCX    int64
		extCY    int64
		chOffX   int64
		chOffY   int64
		chExtCX  int64
		chExtCY  int64
		rotation int
		flipH    bool
		flipV    bool
	}
	var grpStack []*openGroup

	appendShape := func(s Shape) {
		if len(grpStack) > 0 {
			grpStack[len(grpStack)-1].group.AddShape(s)
		} else {
			slide.shapes = append(slide.shapes, s)
		}
	}

	applyBase := func(b *BaseShape) {
		b.name = shapeName
		b.description = shapeDescr
		b.offsetX = offX
		b.offsetY = offY
		b.width = extCX
		b.height = extCY
		b.rotation = shapeRotation
		b.flipHorizontal = flipH
		b.flipVertical = flipV
		if pendingFill != nil {
			b.fill = pendingFill
		}
		if pendingBorder != nil {
			b.border = pendingBorder
		}
	}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed or truncated slide XML is corrupt input; loading
			// must fail rather than drop the unparsed remainder.
			return fmt.Errorf("parse %s: %w", slidePath, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "spTree":
				state.inSpTree = true
			case "grpSp":
				if state.inSpTree {
					grpStack = append(grpStack, &openGroup{group: NewGroupShape()})
					resetShape()
				}
			case "grpSpPr":
				if len(grpStack) > 0 {
					state.inGrpSpPr = true
				}
			case "sp":
				if state.inSpTree {
					state.inSp = true
					resetShape()
				}
			case "pic":
				if state.inSpTree {
					state.inPic = true
					currentPicture = NewPictureShape()
					resetShape()
				}
			case "cxnSp":
				if state.inSpTree {
					state.inCxnSp = true
					resetShape()
				}
			case "graphicFrame":
				if state.inSpTree {
					state.inGraphicFrame = true
					currentTable = nil
					currentChart = nil
					resetShape()
				}
			case "spPr":
				state.inSpPr = true
			case "cNvPr":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "name":
						if len(grpStack) > 0 && !state.inSp && !state.inPic && !state.inCxnSp && !state.inGraphicFrame {
							grpStack[len(grpStack)-1].name = attr.Value
						} else {
							shapeName = attr.Value
						}
					case "descr":
						shapeDescr = attr.Value
					}
				}
			case "cNvSpPr":
				for _, attr := range t.Attr {
					if attr.Name.Local == "txBox" && (attr.Value == "1" || attr.Value == "true") {
						state.isTxBox = true
					}
				}
			case "xfrm":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "rot":
						if v, err := strconv.Atoi(attr.Value); err == nil {
							shapeRotation = v / 60000
						}
					case "flipH":
						flipH = attr.Value == "1" || attr.Value == "true"
					case "flipV":
						flipV = attr.Value == "1" || attr.Value == "true"
					}
				}
			case "off":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "x":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							offX = v
						}
					case "y":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							offY = v
						}
					}
				}
			case "ext":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "cx":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							extCX = v
						}
					case "cy":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							extCY = v
						}
					}
				}
			case "chOff":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "x":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							chOffX = v
						}
					case "y":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							chOffY = v
						}
					}
				}
			case "chExt":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "cx":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							chExtCX = v
						}
					case "cy":
						if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
							chExtCY = v
						}
					}
				}
			case "prstGeom":
				for _, attr := range t.Attr {
					if attr.Name.Local == "prst" {
						prstGeom = attr.Value
					}
				}
			case "ln":
				if state.inSpPr {
					state.inLn = true
					for _, attr := range t.Attr {
						if attr.Name.Local == "w" {
							if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
								pendingLineWidth = v
							}
						}
					}
				}
			case "solidFill":
				state.inSolidFill = true
			case "srgbClr":
				for _, attr := range t.Attr {
					if attr.Name.Local != "val" {
						continue
					}
					c := NewColor(attr.Value)
					switch {
					case state.inRunProps && state.inSolidFill && currentRun != nil:
						currentRun.font.Color = c
					case state.inLn && state.inSolidFill:
						pendingLineColor = &c
						if pendingBorder == nil {
							pendingBorder = NewBorder()
						}
						pendingBorder.Style = BorderSolid
						pendingBorder.Width = int(pendingLineWidth)
						pendingBorder.Color = c
					case state.inSpPr && state.inSolidFill && !state.inLn:
						pendingFill = NewFill().SetSolid(c)
					case state.inTc && state.inSolidFill && currentCell != nil && !state.inRunProps:
						currentCell.fill = NewFill().SetSolid(c)
					}
				}
			case "blip":
				if state.inPic && currentPicture != nil {
					for _, attr := range t.Attr {
						if attr.Name.Local != "embed" {
							continue
						}
						for _, rel := range rels {
							if rel.ID != attr.Value {
								continue
							}
							imgPath := rel.Target
							if !strings.HasPrefix(imgPath, "ppt/") {
								dir := strings.TrimSuffix(slidePath, "/"+lastPathComponent(slidePath))
								imgPath = resolveRelativePath(dir, imgPath)
							}
							imgData, err := readFileFromZip(zr, imgPath)
							if err != nil {
								return fmt.Errorf("image part %s referenced by %s: %w", imgPath, slidePath, err)
							}
							currentPicture.data = imgData
							currentPicture.mimeType = guessMimeType(imgPath)
							break
						}
					}
				}
			case "chart":
				if state.inGraphicFrame {
					for _, attr := range t.Attr {
						if attr.Name.Local != "id" {
							continue
						}
						for _, rel := range rels {
							if rel.ID != attr.Value {
								continue
							}
							chartPath := rel.Target
							if !strings.HasPrefix(chartPath, "ppt/") {
								dir := strings.TrimSuffix(slidePath, "/"+lastPathComponent(slidePath))
								chartPath = resolveRelativePath(dir, chartPath)
							}
							raw, err := readFileFromZip(zr, chartPath)
							if err != nil {
								return fmt.Errorf("chart part %s referenced by %s: %w", chartPath, slidePath, err)
							}
							currentChart = NewChartShape(raw)
							break
						}
					}
				}
			case "tbl":
				if state.inGraphicFrame {
					state.inTbl = true
					currentTable = &TableShape{}
				}
			case "gridCol":
				if state.inTbl && currentTable != nil {
					currentTable.numCols++
					for _, attr := range t.Attr {
						if attr.Name.Local == "w" {
							if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
								currentTable.colWidths = append(currentTable.colWidths, v)
							}
						}
					}
				}
			case "tr":
				if state.inTbl && currentTable != nil {
					state.inTr = true
					currentTable.numRows++
					currentTable.rows = append(currentTable.rows, make([]*TableCell, 0))
					for _, attr := range t.Attr {
						if attr.Name.Local == "h" {
							if v, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
								currentTable.rowHeights = append(currentTable.rowHeights, v)
							}
						}
					}
				}
			case "tc":
				if state.inTr && currentTable != nil {
					state.inTc = true
					currentCell = NewTableCell()
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "gridSpan":
							if v, err := strconv.Atoi(attr.Value); err == nil && v > 1 {
								currentCell.colSpan = v
							}
						case "rowSpan":
							if v, err := strconv.Atoi(attr.Value); err == nil && v > 1 {
								currentCell.rowSpan = v
							}
						}
					}
					row := len(currentTable.rows) - 1
					currentTable.rows[row] = append(currentTable.rows[row], currentCell)
				}
			case "txBody":
				state.inTxBody = true
			case "bodyPr":
				if state.inTxBody {
					for _, attr := range t.Attr {
						if attr.Name.Local == "anchor" {
							textAnchor = TextAnchorType(attr.Value)
						}
					}
				}
			case "p":
				if state.inTxBody {
					state.inParagraph = true
					currentParagraph = NewParagraph()
				}
			case "pPr":
				if state.inParagraph && currentParagraph != nil {
					for _, attr := range t.Attr {
						if attr.Name.Local == "algn" {
							currentParagraph.alignment = attr.Value
						}
					}
				}
			case "r":
				if state.inParagraph && currentParagraph != nil {
					currentRun = &TextRun{font: NewFont()}
					currentParagraph.runs = append(currentParagraph.runs, currentRun)
				}
			case "rPr":
				if currentRun != nil {
					state.inRunProps = true
					for _, attr := range t.Attr {
						switch attr.Name.Local {
						case "sz":
							if v, err := strconv.Atoi(attr.Value); err == nil {
								currentRun.font.Size = v
							}
						case "b":
							currentRun.font.Bold = attr.Value == "1" || attr.Value == "true"
						case "i":
							currentRun.font.Italic = attr.Value == "1" || attr.Value == "true"
						case "u":
							currentRun.font.Underline = UnderlineType(attr.Value)
						case "strike":
							currentRun.font.Strikethrough = attr.Value != "noStrike" && attr.Value != ""
						}
					}
				}
			case "latin":
				if state.inRunProps && currentRun != nil {
					for _, attr := range t.Attr {
						if attr.Name.Local == "typeface" {
							currentRun.font.Name = attr.Value
						}
					}
				}
			case "t":
				if currentRun != nil {
					state.inText = true
				}
			}

		case xml.CharData:
			if state.inText && currentRun != nil {
				currentRun.text += string(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "spTree":
				state.inSpTree = false
			case "grpSpPr":
				if state.inGrpSpPr && len(grpStack) > 0 {
					top := grpStack[len(grpStack)-1]
					top.offX, top.offY = offX, offY
					top.extCX, top.extCY = extCX, extCY
					top.chOffX, top.chOffY = chOffX, chOffY
					top.chExtCX, top.chExtCY = chExtCX, chExtCY
					top.rotation = shapeRotation
					top.flipH, top.flipV = flipH, flipV
					state.inGrpSpPr = false
				}
			case "grpSp":
				if len(grpStack) > 0 {
					top := grpStack[len(grpStack)-1]
					grpStack = grpStack[:len(grpStack)-1]
					g := top.group
					g.name = top.name
					g.offsetX, g.offsetY = top.offX, top.offY
					g.width, g.height = top.extCX, top.extCY
					g.childOffX, g.childOffY = top.chOffX, top.chOffY
					g.childExtX, g.childExtY = top.chExtCX, top.chExtCY
					g.rotation = top.rotation
					g.flipHorizontal, g.flipVertical = top.flipH, top.flipV
					appendShape(g)
					resetShape()
				}
			case "sp":
				if state.inSp {
					state.inSp = false
					if state.isTxBox {
						tb := NewTextBoxShape()
						applyBase(&tb.BaseShape)
						tb.textAnchor = textAnchor
						if len(pendingParagraphs) > 0 {
							tb.paragraphs = pendingParagraphs
						}
						appendShape(tb)
					} else {
						as := NewAutoShape()
						applyBase(&as.BaseShape)
						if prstGeom != "" {
							as.shapeType = AutoShapeType(prstGeom)
						}
						as.textAnchor = textAnchor
						as.paragraphs = pendingParagraphs
						appendShape(as)
					}
					resetShape()
				}
			case "pic":
				if state.inPic {
					state.inPic = false
					applyBase(&currentPicture.BaseShape)
					appendShape(currentPicture)
					currentPicture = nil
					resetShape()
				}
			case "cxnSp":
				if state.inCxnSp {
					state.inCxnSp = false
					ls := NewLineShape()
					applyBase(&ls.BaseShape)
					if prstGeom != "" {
						ls.connectorType = prstGeom
					}
					if pendingLineWidth > 0 {
						ls.lineWidth = pendingLineWidth
					}
					if pendingLineColor != nil {
						ls.lineColor = *pendingLineColor
					}
					appendShape(ls)
					resetShape()
				}
			case "graphicFrame":
				if state.inGraphicFrame {
					state.inGraphicFrame = false
					if currentTable != nil {
						applyBase(&currentTable.BaseShape)
						appendShape(currentTable)
						currentTable = nil
					} else if currentChart != nil {
						applyBase(&currentChart.BaseShape)
						appendShape(currentChart)
						currentChart = nil
					}
					resetShape()
				}
			case "spPr":
				state.inSpPr = false
			case "ln":
				state.inLn = false
			case "solidFill":
				state.inSolidFill = false
			case "tbl":
				state.inTbl = false
			case "tr":
				state.inTr = false
			case "tc":
				if state.inTc {
					state.inTc = false
					if currentCell != nil {
						currentCell.paragraphs = pendingParagraphs
					}
					pendingParagraphs = nil
					currentCell = nil
				}
			case "txBody":
				state.inTxBody = false
			case "p":
				if state.inParagraph {
					state.inParagraph = false
					if currentParagraph != nil {
						pendingParagraphs = append(pendingParagraphs, currentParagraph)
						currentParagraph = nil
					}
				}
			case "r":
				currentRun = nil
			case "rPr":
				state.inRunProps = false
			case "t":
				state.inText = false
			}
		}
	}

	if len(grpStack) > 0 {
		return fmt.Errorf("unterminated group in %s", slidePath)
	}
	return nil
}
