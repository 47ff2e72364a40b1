package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// TemplateSource loads template archives by name. Names are the template
// keys from DocumentType.TemplateName, e.g. "booking-slip".
type TemplateSource interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// DiskTemplateSource loads templates from a directory of .docx files.
type DiskTemplateSource struct {
	dir string
}

// NewDiskTemplateSource creates a DiskTemplateSource rooted at dir.
func NewDiskTemplateSource(dir string) *DiskTemplateSource {
	return &DiskTemplateSource{dir: dir}
}

// Load reads the template archive for the given name. A missing or
// unreadable file is reported as a TemplateMissingError naming the expected
// location so an operator can fix the deployment.
func (s *DiskTemplateSource) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s.docx", name))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateMissingError{Name: name, Path: path, Err: err}
	}
	return data, nil
}
