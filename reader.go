package slideresize

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader is the interface for presentation readers.
type Reader interface {
	Read(path string) (*Presentation, error)
	ReadFromReader(r io.ReaderAt, size int64) (*Presentation, error)
}

// ReaderType represents the input format.
type ReaderType string

const (
	ReaderPowerPoint2007 ReaderType = "PowerPoint2007"
)

// NewReader creates a reader for the given format.
func NewReader(format ReaderType) (Reader, error) {
	switch format {
	case ReaderPowerPoint2007:
		return &PPTXReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported reader format: %s", format)
	}
}

// PPTXReader reads PPTX files.
type PPTXReader struct{}

// Read reads a presentation from a file path.
func (r *PPTXReader) Read(path string) (*Presentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return r.ReadFromReader(f, info.Size())
}

// maxZipEntrySize is the maximum allowed size for a single file extracted
// from a ZIP. This prevents zip bomb attacks. 50 MB is generous for any
// legitimate PPTX part.
const maxZipEntrySize = 50 << 20 // 50 MB

// maxZipTotalSize is the limit for the package as a whole.
const maxZipTotalSize = 200 << 20 // 200 MB

// maxZipEntries is the maximum number of files allowed in a ZIP archive.
const maxZipEntries = 10000

// ReadFromReader reads a presentation from an io.ReaderAt.
func (r *PPTXReader) ReadFromReader(reader io.ReaderAt, size int64) (*Presentation, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid reader size: %d", size)
	}
	if size > int64(maxZipTotalSize) {
		return nil, fmt.Errorf("file size %d exceeds maximum allowed (%d bytes)", size, maxZipTotalSize)
	}

	zr, err := zip.NewReader(reader, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip: %w", err)
	}

	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("zip archive contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}

	pres := &Presentation{
		properties: NewDocumentProperties(),
		slides:     make([]*Slide, 0),
		layout:     NewDocumentLayout(),
	}

	// Read core properties (non-fatal: missing properties are acceptable)
	_ = r.readCoreProperties(zr, pres)

	// Read presentation.xml to get the slide list and canvas size
	slideRels, err := r.readPresentation(zr, pres)
	if err != nil {
		return nil, err
	}

	// Read presentation relationships
	presRels, err := r.readRelationships(zr, "ppt/_rels/presentation.xml.rels")
	if err != nil {
		return nil, err
	}

	// Read slides in sldIdLst order
	for _, relID := range slideRels {
		target := ""
		for _, rel := range presRels {
			if rel.ID == relID {
				target = rel.Target
				break
			}
		}
		if target == "" {
			continue
		}

		// Normalize path
		if !strings.HasPrefix(target, "ppt/") {
			target = "ppt/" + target
		}

		slide, err := r.readSlide(zr, target)
		if err != nil {
			return nil, fmt.Errorf("failed to read slide %s: %w", target, err)
		}
		pres.slides = append(pres.slides, slide)
	}

	if len(pres.slides) == 0 {
		return nil, fmt.Errorf("no slides found in presentation")
	}

	return pres, nil
}

func readFileFromZip(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			if f.UncompressedSize64 > maxZipEntrySize {
				return nil, fmt.Errorf("file %s exceeds maximum allowed size (%d bytes)", name, maxZipEntrySize)
			}
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open %s in zip: %w", name, err)
			}
			defer rc.Close()
			data, err := io.ReadAll(io.LimitReader(rc, int64(maxZipEntrySize)+1))
			if err != nil {
				return nil, fmt.Errorf("failed to read %s from zip: %w", name, err)
			}
			if int64(len(data)) > int64(maxZipEntrySize) {
				return nil, fmt.Errorf("file %s actual size exceeds maximum allowed size", name)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("file not found in zip: %s", name)
}

// --- Presentation XML reading ---

type xmlSldIDForRead struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type xmlPresentationForRead struct {
	XMLName  xml.Name `xml:"presentation"`
	SldIDLst struct {
		IDs []xmlSldIDForRead `xml:"sldId"`
	} `xml:"sldIdLst"`
	SldSz *struct {
		CX   int64  `xml:"cx,attr"`
		CY   int64  `xml:"cy,attr"`
		Type string `xml:"type,attr"`
	} `xml:"sldSz"`
}

// readPresentation parses ppt/presentation.xml into the layout and
// returns the relationship IDs of the slides in presentation order.
func (r *PPTXReader) readPresentation(zr *zip.Reader, pres *Presentation) ([]string, error) {
	data, err := readFileFromZip(zr, "ppt/presentation.xml")
	if err != nil {
		return nil, fmt.Errorf("missing ppt/presentation.xml: %w", err)
	}

	var px xmlPresentationForRead
	if err := xml.Unmarshal(data, &px); err != nil {
		return nil, fmt.Errorf("failed to parse presentation.xml: %w", err)
	}

	if px.SldSz != nil && px.SldSz.CX > 0 && px.SldSz.CY > 0 {
		pres.layout.CX = px.SldSz.CX
		pres.layout.CY = px.SldSz.CY
		if px.SldSz.Type != "" {
			pres.layout.Name = px.SldSz.Type
		} else {
			pres.layout.Name = LayoutCustom
		}
	}

	relIDs := make([]string, 0, len(px.SldIDLst.IDs))
	for _, id := range px.SldIDLst.IDs {
		if id.RID != "" {
			relIDs = append(relIDs, id.RID)
		}
	}
	return relIDs, nil
}

// --- Relationship reading ---

type xmlRelForRead struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type xmlRelsForRead struct {
	XMLName       xml.Name        `xml:"Relationships"`
	Relationships []xmlRelForRead `xml:"Relationship"`
}

func (r *PPTXReader) readRelationships(zr *zip.Reader, path string) ([]xmlRelForRead, error) {
	data, err := readFileFromZip(zr, path)
	if err != nil {
		return nil, nil // relationships file may not exist
	}

	var rels xmlRelsForRead
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships %s: %w", path, err)
	}
	return rels.Relationships, nil
}

// --- Core properties reading ---

type xmlCorePropsForRead struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Creator        string   `xml:"creator"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Title          string   `xml:"title"`
	Description    string   `xml:"description"`
	Subject        string   `xml:"subject"`
	Keywords       string   `xml:"keywords"`
	Category       string   `xml:"category"`
	Revision       string   `xml:"revision"`
}

func (r *PPTXReader) readCoreProperties(zr *zip.Reader, pres *Presentation) error {
	data, err := readFileFromZip(zr, "docProps/core.xml")
	if err != nil {
		return err
	}

	var cp xmlCorePropsForRead
	if err := xml.Unmarshal(data, &cp); err != nil {
		return fmt.Errorf("failed to parse core.xml: %w", err)
	}

	props := pres.properties
	if cp.Creator != "" {
		props.Creator = cp.Creator
	}
	if cp.LastModifiedBy != "" {
		props.LastModifiedBy = cp.LastModifiedBy
	}
	props.Title = cp.Title
	props.Description = cp.Description
	props.Subject = cp.Subject
	props.Keywords = cp.Keywords
	props.Category = cp.Category
	props.Revision = cp.Revision
	return nil
}

// lastPathComponent returns the final element of a slash-separated path.
func lastPathComponent(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// resolveRelativePath resolves a relative target like "../media/image1.png"
// against a base directory like "ppt/slides".
func resolveRelativePath(base, rel string) string {
	parts := strings.Split(base, "/")
	for strings.HasPrefix(rel, "../") {
		rel = strings.TrimPrefix(rel, "../")
		if len(parts) > 0 {
			parts = parts[:len(parts)-1]
		}
	}
	if len(parts) == 0 {
		return rel
	}
	return strings.Join(parts, "/") + "/" + rel
}

// guessMimeType guesses an image MIME type from a file extension.
func guessMimeType(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".gif"):
		return "image/gif"
	case strings.HasSuffix(lower, ".bmp"):
		return "image/bmp"
	case strings.HasSuffix(lower, ".svg"):
		return "image/svg+xml"
	default:
		return "image/png"
	}
}
