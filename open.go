package slideresize

import (
	"fmt"
	"io"
)

// LoadError reports a failure to read a presentation: a missing file, a
// package that is not a valid zip, or malformed XML inside it. It is
// always returned before any mutation has taken place.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// SaveError reports a failure to write a presentation, typically an
// unwritable target path. The writer removes a partially written output
// file before returning this error.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Open reads a PPTX file from disk and returns a Presentation.
// This is a convenience wrapper around NewReader + Read.
func Open(path string) (*Presentation, error) {
	reader, err := NewReader(ReaderPowerPoint2007)
	if err != nil {
		return nil, err
	}
	pres, err := reader.Read(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return pres, nil
}

// ReadFrom reads a PPTX from an io.ReaderAt with the given size.
func ReadFrom(r io.ReaderAt, size int64) (*Presentation, error) {
	reader, err := NewReader(ReaderPowerPoint2007)
	if err != nil {
		return nil, err
	}
	return reader.ReadFromReader(r, size)
}

// Save writes the presentation to a PPTX file.
// This is a convenience wrapper around NewWriter + Save.
func (p *Presentation) Save(path string) error {
	writer, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	if err := writer.Save(path); err != nil {
		return &SaveError{Path: path, Err: err}
	}
	return nil
}

// WriteTo writes the presentation to a writer in PPTX format.
func (p *Presentation) WriteTo(w io.Writer) error {
	writer, err := NewWriter(p, WriterPowerPoint2007)
	if err != nil {
		return err
	}
	return writer.WriteTo(w)
}

// Close releases resources held by the presentation.
// It clears internal references to allow garbage collection.
func (p *Presentation) Close() error {
	p.slides = nil
	p.properties = nil
	p.layout = nil
	return nil
}
