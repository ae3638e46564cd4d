package slideresize

import (
	"archive/zip"
	"fmt"
	"strings"
)

// writeSlide writes ppt/slides/slideN.xml. Shape IDs start at 2; id 1 is
// reserved for the root group of the shape tree.
func (w *PPTXWriter) writeSlide(zw *zip.Writer, slide *Slide, num int) error {
	var sb strings.Builder

	sb.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	fmt.Fprintf(&sb, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsDrawingML, nsOfficeDocRels, nsPresentationML)
	sb.WriteString(`<p:cSld><p:spTree>`)
	sb.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	sb.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)

	shapeID := 2
	rels := w.slideRels[num-1]
	for _, shape := range slide.shapes {
		w.writeShapeXML(&sb, shape, &shapeID, rels)
	}

	sb.WriteString(`</p:spTree></p:cSld>`)
	sb.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	sb.WriteString(`</p:sld>`)

	return writeRawXMLToZip(zw, fmt.Sprintf("ppt/slides/slide%d.xml", num), sb.String())
}

// writeShapeXML dispatches on shape type. shapeID is advanced per shape so
// every element in the tree gets a distinct id.
func (w *PPTXWriter) writeShapeXML(sb *strings.Builder, shape Shape, shapeID *int, rels map[Shape]string) {
	id := *shapeID
	*shapeID++

	switch s := shape.(type) {
	case *TextBoxShape:
		writeTextBoxXML(sb, s, id)
	case *AutoShape:
		writeAutoShapeXML(sb, s, id)
	case *PictureShape:
		writePictureXML(sb, s, id, rels[s])
	case *LineShape:
		writeLineXML(sb, s, id)
	case *TableShape:
		writeTableXML(sb, s, id)
	case *ChartShape:
		writeChartXML(sb, s, id, rels[s])
	case *GroupShape:
		w.writeGroupXML(sb, s, id, shapeID, rels)
	}
}

// xfrmAttrs renders the rotation and flip attributes of an a:xfrm element.
// Rotation is stored in degrees and serialized in 60000ths of a degree.
func xfrmAttrs(b *BaseShape) string {
	attrs := ""
	if b.rotation != 0 {
		attrs += fmt.Sprintf(` rot="%d"`, b.rotation*60000)
	}
	if b.flipHorizontal {
		attrs += ` flipH="1"`
	}
	if b.flipVertical {
		attrs += ` flipV="1"`
	}
	return attrs
}

func writeXfrmXML(sb *strings.Builder, b *BaseShape) {
	fmt.Fprintf(sb, `<a:xfrm%s><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		xfrmAttrs(b), b.offsetX, b.offsetY, b.width, b.height)
}

func writeFillXML(sb *strings.Builder, fill *Fill) {
	if fill == nil || fill.Type != FillSolid {
		return
	}
	fmt.Fprintf(sb, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, colorRGB(fill.Color))
}

func writeBorderXML(sb *strings.Builder, border *Border) {
	if border == nil || border.Style == BorderNone {
		return
	}
	width := border.Width
	if width <= 0 {
		width = emuPerPoint
	}
	fmt.Fprintf(sb, `<a:ln w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, width, colorRGB(border.Color))
	switch border.Style {
	case BorderDash:
		sb.WriteString(`<a:prstDash val="dash"/>`)
	case BorderDot:
		sb.WriteString(`<a:prstDash val="dot"/>`)
	}
	sb.WriteString(`</a:ln>`)
}

// writeTextRunXML emits a single a:r. Font size is written in centipoints
// exactly as stored; a zero size is omitted so the run keeps inheriting.
func writeTextRunXML(sb *strings.Builder, run *TextRun) {
	font := run.font
	sb.WriteString(`<a:r><a:rPr lang="en-US"`)
	if font != nil {
		if font.Size > 0 {
			fmt.Fprintf(sb, ` sz="%d"`, font.Size)
		}
		if font.Bold {
			sb.WriteString(` b="1"`)
		}
		if font.Italic {
			sb.WriteString(` i="1"`)
		}
		if font.Underline != "" && font.Underline != UnderlineNone {
			fmt.Fprintf(sb, ` u="%s"`, font.Underline)
		}
		if font.Strikethrough {
			sb.WriteString(` strike="sngStrike"`)
		}
	}
	sb.WriteString(`>`)
	if font != nil {
		if font.Color.ARGB != "" {
			fmt.Fprintf(sb, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, colorRGB(font.Color))
		}
		if font.Name != "" {
			fmt.Fprintf(sb, `<a:latin typeface="%s"/>`, xmlEscape(font.Name))
		}
	}
	sb.WriteString(`</a:rPr>`)
	fmt.Fprintf(sb, `<a:t>%s</a:t>`, xmlEscape(run.text))
	sb.WriteString(`</a:r>`)
}

func writeParagraphXML(sb *strings.Builder, p *Paragraph) {
	sb.WriteString(`<a:p>`)
	if p.alignment != "" {
		fmt.Fprintf(sb, `<a:pPr algn="%s"/>`, p.alignment)
	}
	for _, run := range p.runs {
		writeTextRunXML(sb, run)
	}
	sb.WriteString(`</a:p>`)
}

func writeTextBodyXML(sb *strings.Builder, paragraphs []*Paragraph, anchor TextAnchorType, wordWrap bool) {
	sb.WriteString(`<p:txBody><a:bodyPr`)
	if !wordWrap {
		sb.WriteString(` wrap="none"`)
	}
	if anchor != TextAnchorNone {
		fmt.Fprintf(sb, ` anchor="%s"`, anchor)
	}
	sb.WriteString(`/><a:lstStyle/>`)
	if len(paragraphs) == 0 {
		sb.WriteString(`<a:p/>`)
	}
	for _, p := range paragraphs {
		writeParagraphXML(sb, p)
	}
	sb.WriteString(`</p:txBody>`)
}

func writeTextBoxXML(sb *strings.Builder, s *TextBoxShape, id int) {
	sb.WriteString(`<p:sp>`)
	fmt.Fprintf(sb, `<p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`,
		id, xmlEscape(s.name))
	sb.WriteString(`<p:spPr>`)
	writeXfrmXML(sb, &s.BaseShape)
	sb.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	writeFillXML(sb, s.fill)
	writeBorderXML(sb, s.border)
	sb.WriteString(`</p:spPr>`)
	writeTextBodyXML(sb, s.paragraphs, s.textAnchor, s.wordWrap)
	sb.WriteString(`</p:sp>`)
}

func writeAutoShapeXML(sb *strings.Builder, s *AutoShape, id int) {
	sb.WriteString(`<p:sp>`)
	fmt.Fprintf(sb, `<p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`,
		id, xmlEscape(s.name))
	sb.WriteString(`<p:spPr>`)
	writeXfrmXML(sb, &s.BaseShape)
	fmt.Fprintf(sb, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, s.shapeType)
	writeFillXML(sb, s.fill)
	writeBorderXML(sb, s.border)
	sb.WriteString(`</p:spPr>`)
	writeTextBodyXML(sb, s.paragraphs, s.textAnchor, true)
	sb.WriteString(`</p:sp>`)
}

func writePictureXML(sb *strings.Builder, s *PictureShape, id int, relID string) {
	sb.WriteString(`<p:pic>`)
	fmt.Fprintf(sb, `<p:nvPicPr><p:cNvPr id="%d" name="%s"`, id, xmlEscape(s.name))
	if s.description != "" {
		fmt.Fprintf(sb, ` descr="%s"`, xmlEscape(s.description))
	}
	sb.WriteString(`/><p:cNvPicPr><a:picLocks noChangeAspect="1"/></p:cNvPicPr><p:nvPr/></p:nvPicPr>`)
	sb.WriteString(`<p:blipFill>`)
	if relID != "" {
		fmt.Fprintf(sb, `<a:blip r:embed="%s"/>`, relID)
	} else {
		sb.WriteString(`<a:blip/>`)
	}
	sb.WriteString(`<a:stretch><a:fillRect/></a:stretch></p:blipFill>`)
	sb.WriteString(`<p:spPr>`)
	writeXfrmXML(sb, &s.BaseShape)
	sb.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`)
	sb.WriteString(`</p:spPr></p:pic>`)
}

func writeLineXML(sb *strings.Builder, s *LineShape, id int) {
	sb.WriteString(`<p:cxnSp>`)
	fmt.Fprintf(sb, `<p:nvCxnSpPr><p:cNvPr id="%d" name="%s"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr>`,
		id, xmlEscape(s.name))
	sb.WriteString(`<p:spPr>`)
	writeXfrmXML(sb, &s.BaseShape)
	geom := s.connectorType
	if geom == "" {
		geom = "line"
	}
	fmt.Fprintf(sb, `<a:prstGeom prst="%s"><a:avLst/></a:prstGeom>`, geom)
	fmt.Fprintf(sb, `<a:ln w="%d"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:ln>`,
		s.lineWidth, colorRGB(s.lineColor))
	sb.WriteString(`</p:spPr></p:cxnSp>`)
}

func writeTableCellXML(sb *strings.Builder, cell *TableCell) {
	sb.WriteString(`<a:tc`)
	if cell.colSpan > 1 {
		fmt.Fprintf(sb, ` gridSpan="%d"`, cell.colSpan)
	}
	if cell.rowSpan > 1 {
		fmt.Fprintf(sb, ` rowSpan="%d"`, cell.rowSpan)
	}
	sb.WriteString(`>`)
	sb.WriteString(`<a:txBody><a:bodyPr/><a:lstStyle/>`)
	if len(cell.paragraphs) == 0 {
		sb.WriteString(`<a:p/>`)
	}
	for _, p := range cell.paragraphs {
		writeParagraphXML(sb, p)
	}
	sb.WriteString(`</a:txBody>`)
	sb.WriteString(`<a:tcPr>`)
	if cell.fill != nil && cell.fill.Type == FillSolid {
		fmt.Fprintf(sb, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, colorRGB(cell.fill.Color))
	}
	sb.WriteString(`</a:tcPr></a:tc>`)
}

// writeTableXML emits a graphicFrame carrying an a:tbl. Column widths and
// row heights are written from the table's own EMU arrays; when an entry is
// missing the frame box is divided evenly.
func writeTableXML(sb *strings.Builder, s *TableShape, id int) {
	sb.WriteString(`<p:graphicFrame>`)
	fmt.Fprintf(sb, `<p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`,
		id, xmlEscape(s.name))
	fmt.Fprintf(sb, `<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`,
		s.offsetX, s.offsetY, s.width, s.height)
	sb.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table">`)
	sb.WriteString(`<a:tbl><a:tblPr firstRow="1" bandRow="1"/>`)

	sb.WriteString(`<a:tblGrid>`)
	for c := 0; c < s.numCols; c++ {
		width := int64(0)
		if c < len(s.colWidths) {
			width = s.colWidths[c]
		}
		if width <= 0 && s.numCols > 0 {
			width = s.width / int64(s.numCols)
		}
		fmt.Fprintf(sb, `<a:gridCol w="%d"/>`, width)
	}
	sb.WriteString(`</a:tblGrid>`)

	for r, row := range s.rows {
		height := int64(0)
		if r < len(s.rowHeights) {
			height = s.rowHeights[r]
		}
		if height <= 0 && s.numRows > 0 {
			height = s.height / int64(s.numRows)
		}
		fmt.Fprintf(sb, `<a:tr h="%d">`, height)
		for _, cell := range row {
			if cell == nil {
				cell = NewTableCell()
			}
			writeTableCellXML(sb, cell)
		}
		sb.WriteString(`</a:tr>`)
	}

	sb.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
}

func writeChartXML(sb *strings.Builder, s *ChartShape, id int, relID string) {
	sb.WriteString(`<p:graphicFrame>`)
	fmt.Fprintf(sb, `<p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr>`,
		id, xmlEscape(s.name))
	fmt.Fprintf(sb, `<p:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></p:xfrm>`,
		s.offsetX, s.offsetY, s.width, s.height)
	sb.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart">`)
	fmt.Fprintf(sb, `<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" r:id="%s"/>`, relID)
	sb.WriteString(`</a:graphicData></a:graphic></p:graphicFrame>`)
}

// writeGroupXML emits a p:grpSp with its child coordinate space and then
// every member shape recursively.
func (w *PPTXWriter) writeGroupXML(sb *strings.Builder, s *GroupShape, id int, shapeID *int, rels map[Shape]string) {
	sb.WriteString(`<p:grpSp>`)
	fmt.Fprintf(sb, `<p:nvGrpSpPr><p:cNvPr id="%d" name="%s"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`,
		id, xmlEscape(s.name))
	sb.WriteString(`<p:grpSpPr>`)
	fmt.Fprintf(sb, `<a:xfrm%s><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/><a:chOff x="%d" y="%d"/><a:chExt cx="%d" cy="%d"/></a:xfrm>`,
		xfrmAttrs(&s.BaseShape),
		s.offsetX, s.offsetY, s.width, s.height,
		s.childOffX, s.childOffY, s.childExtX, s.childExtY)
	sb.WriteString(`</p:grpSpPr>`)
	for _, child := range s.shapes {
		w.writeShapeXML(sb, child, shapeID, rels)
	}
	sb.WriteString(`</p:grpSp>`)
}

// writeSlideRels writes the slide relationship part. rId1 is the layout;
// image and chart rels follow in the same document order buildRelMaps used.
func (w *PPTXWriter) writeSlideRels(zw *zip.Writer, slide *Slide, num int) error {
	rels := xmlRelationships{
		Xmlns: nsRelationships,
		Relationships: []xmlRelationship{
			{ID: "rId1", Type: relTypeSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
		},
	}

	slideRels := w.slideRels[num-1]
	var walk func(shapes []Shape)
	walk = func(shapes []Shape) {
		for _, shape := range shapes {
			switch s := shape.(type) {
			case *PictureShape:
				relID, ok := slideRels[s]
				if !ok {
					continue
				}
				rels.Relationships = append(rels.Relationships, xmlRelationship{
					ID:     relID,
					Type:   relTypeImage,
					Target: fmt.Sprintf("../media/image%d.%s", w.imageIndex[s], imageExtension(s)),
				})
			case *ChartShape:
				relID, ok := slideRels[s]
				if !ok {
					continue
				}
				rels.Relationships = append(rels.Relationships, xmlRelationship{
					ID:     relID,
					Type:   relTypeChart,
					Target: fmt.Sprintf("../charts/chart%d.xml", w.chartIndex[s]),
				})
			case *GroupShape:
				walk(s.shapes)
			}
		}
	}
	walk(slide.shapes)

	return writeXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", num), rels)
}
