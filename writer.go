package slideresize

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Writer is the interface for presentation writers.
type Writer interface {
	Save(path string) error
	WriteTo(w io.Writer) error
}

// WriterType represents the output format.
type WriterType string

const (
	WriterPowerPoint2007 WriterType = "PowerPoint2007"
)

// NewWriter creates a writer for the given format.
func NewWriter(p *Presentation, format WriterType) (Writer, error) {
	switch format {
	case WriterPowerPoint2007:
		return &PPTXWriter{presentation: p}, nil
	default:
		return nil, fmt.Errorf("unsupported writer format: %s", format)
	}
}

// PPTXWriter writes presentations in PPTX format.
type PPTXWriter struct {
	presentation *Presentation
	// Per-save rel maps, keyed by shape identity, built in document order
	// so writeSlide and writeSlideRels agree on numbering.
	imageIndex map[*PictureShape]int
	chartIndex map[*ChartShape]int
	slideRels  []map[Shape]string
}

// Save writes the presentation to a file. On write failure the partially
// written output is removed.
func (w *PPTXWriter) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	writeErr := w.WriteTo(f)
	closeErr := f.Close()

	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return closeErr
}

// WriteTo writes the presentation to a writer.
func (w *PPTXWriter) WriteTo(writer io.Writer) error {
	if w.presentation == nil {
		return fmt.Errorf("presentation is nil")
	}

	w.buildRelMaps()

	zw := zip.NewWriter(writer)

	if err := w.writeContentTypes(zw); err != nil {
		return err
	}
	if err := w.writeRootRels(zw); err != nil {
		return err
	}
	if err := w.writeAppProperties(zw); err != nil {
		return err
	}
	if err := w.writeCoreProperties(zw); err != nil {
		return err
	}
	if err := w.writePresentation(zw); err != nil {
		return err
	}
	if err := w.writePresentationRels(zw); err != nil {
		return err
	}
	if err := w.writePresProps(zw); err != nil {
		return err
	}
	if err := w.writeViewProps(zw); err != nil {
		return err
	}
	if err := w.writeTableStyles(zw); err != nil {
		return err
	}
	if err := w.writeSlideMaster(zw); err != nil {
		return err
	}
	if err := w.writeSlideLayout(zw); err != nil {
		return err
	}
	if err := w.writeTheme(zw); err != nil {
		return err
	}

	for i, slide := range w.presentation.slides {
		if err := w.writeSlide(zw, slide, i+1); err != nil {
			return err
		}
		if err := w.writeSlideRels(zw, slide, i+1); err != nil {
			return err
		}
	}

	if err := w.writeMedia(zw); err != nil {
		return err
	}
	if err := w.writeCharts(zw); err != nil {
		return err
	}

	return zw.Close()
}

// buildRelMaps assigns image/chart part numbers and per-slide relationship
// IDs in document order. rId1 of every slide is its layout.
func (w *PPTXWriter) buildRelMaps() {
	w.imageIndex = make(map[*PictureShape]int)
	w.chartIndex = make(map[*ChartShape]int)
	w.slideRels = make([]map[Shape]string, len(w.presentation.slides))

	imgIdx := 1
	chartIdx := 1
	for i, slide := range w.presentation.slides {
		rels := make(map[Shape]string)
		relIdx := 2
		var walk func(shapes []Shape)
		walk = func(shapes []Shape) {
			for _, shape := range shapes {
				switch s := shape.(type) {
				case *PictureShape:
					if s.data != nil {
						w.imageIndex[s] = imgIdx
						imgIdx++
						rels[s] = fmt.Sprintf("rId%d", relIdx)
						relIdx++
					}
				case *ChartShape:
					w.chartIndex[s] = chartIdx
					chartIdx++
					rels[s] = fmt.Sprintf("rId%d", relIdx)
					relIdx++
				case *GroupShape:
					walk(s.shapes)
				}
			}
		}
		walk(slide.shapes)
		w.slideRels[i] = rels
	}
}

// collectPictures returns all pictures with data from a shape list,
// including those nested inside groups (recursively).
func collectPictures(shapes []Shape) []*PictureShape {
	var result []*PictureShape
	for _, shape := range shapes {
		switch s := shape.(type) {
		case *PictureShape:
			if s.data != nil {
				result = append(result, s)
			}
		case *GroupShape:
			result = append(result, collectPictures(s.shapes)...)
		}
	}
	return result
}

// collectCharts returns all chart shapes, including nested ones.
func collectCharts(shapes []Shape) []*ChartShape {
	var result []*ChartShape
	for _, shape := range shapes {
		switch s := shape.(type) {
		case *ChartShape:
			result = append(result, s)
		case *GroupShape:
			result = append(result, collectCharts(s.shapes)...)
		}
	}
	return result
}

func (w *PPTXWriter) writeMedia(zw *zip.Writer) error {
	for _, slide := range w.presentation.slides {
		for _, ps := range collectPictures(slide.shapes) {
			idx, ok := w.imageIndex[ps]
			if !ok {
				continue
			}
			fw, err := zw.Create(fmt.Sprintf("ppt/media/image%d.%s", idx, imageExtension(ps)))
			if err != nil {
				return err
			}
			if _, err := fw.Write(ps.data); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *PPTXWriter) writeCharts(zw *zip.Writer) error {
	for _, slide := range w.presentation.slides {
		for _, cs := range collectCharts(slide.shapes) {
			idx, ok := w.chartIndex[cs]
			if !ok {
				continue
			}
			fw, err := zw.Create(fmt.Sprintf("ppt/charts/chart%d.xml", idx))
			if err != nil {
				return err
			}
			if _, err := fw.Write(cs.rawXML); err != nil {
				return err
			}
		}
	}
	return nil
}

func imageExtension(ps *PictureShape) string {
	switch ps.mimeType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/svg+xml":
		return "svg"
	default:
		return "png"
	}
}

func imageContentType(ps *PictureShape) string {
	if ps.mimeType != "" {
		return ps.mimeType
	}
	return "image/png"
}
