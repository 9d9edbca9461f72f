package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/djherbis/times"
	"github.com/gabriel-vasile/mimetype"
)

// Processor defines the interface for extracting plain text from a file.
// Callers treat any error as "no content to process" and skip knowledge
// updates for that source.
type Processor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Converter turns one family of file formats into plain text.
type Converter interface {
	AcceptedExtensions() []string
	AcceptedMimeTypes() []string
	Load(path string) (string, error)
}

// FileProcessor dispatches to a converter based on the MIME type detected
// from file content, not the file name.
type FileProcessor struct {
	converters []Converter
}

// NewFileProcessor creates a FileProcessor with all available converters
// registered.
func NewFileProcessor() *FileProcessor {
	p := &FileProcessor{}
	p.RegisterConverter(NewTextConverter())
	p.RegisterConverter(NewCsvConverter())
	p.RegisterConverter(NewPdfConverter())
	p.RegisterConverter(NewHTMLConverter())
	p.RegisterConverter(NewXlsxConverter())
	return p
}

// RegisterConverter adds a converter to the registry.
func (p *FileProcessor) RegisterConverter(converter Converter) {
	p.converters = append(p.converters, converter)
}

// Extract detects the file's MIME type and runs the first converter that
// accepts it.
func (p *FileProcessor) Extract(ctx context.Context, path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect MIME type: %w", err)
	}

	for _, converter := range p.converters {
		if accepts(mtype, converter.AcceptedExtensions(), converter.AcceptedMimeTypes()) {
			return converter.Load(path)
		}
	}
	return "", fmt.Errorf("no converter found for MIME type: %s", mtype.String())
}

func accepts(mtype *mimetype.MIME, extensions, mtypes []string) bool {
	if slices.Contains(extensions, mtype.Extension()) {
		return true
	}
	return slices.ContainsFunc(mtypes, mtype.Is)
}

// FileMetadata collects file-level metadata worth carrying on the memory a
// document produces. It is best-effort: on stat failure only the file name is
// returned.
func FileMetadata(path string) map[string]interface{} {
	metadata := map[string]interface{}{
		"file_name": filepath.Base(path),
	}
	ts, err := times.Stat(path)
	if err != nil {
		return metadata
	}
	metadata["file_modified_at"] = ts.ModTime().UTC()
	if ts.HasBirthTime() {
		metadata["file_created_at"] = ts.BirthTime().UTC()
	}
	return metadata
}

var _ Processor = (*FileProcessor)(nil)
