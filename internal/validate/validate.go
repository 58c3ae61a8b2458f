// Package validate performs the read-only input checks every transform
// depends on: file existence, size ceiling, extension, and structural PDF
// parsing.
package validate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/docforge/pdfops/internal/pdferr"
)

// Validator applies a configurable size ceiling. It holds no mutable state
// and is safe for concurrent use.
type Validator struct {
	maxFileSize int64
}

// New returns a Validator with the given ceiling in megabytes.
func New(maxFileSizeMB int64) *Validator {
	return &Validator{maxFileSize: maxFileSizeMB * 1024 * 1024}
}

// File checks that path exists, is a regular file, and is within the size
// ceiling. It returns the path unchanged on success.
func (v *Validator) File(path string) (string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return "", pdferr.Validationf("file not found: %s", path)
	}
	if err != nil {
		return "", pdferr.Validationf("file not accessible: %s: %v", path, err)
	}
	if info.IsDir() {
		return "", pdferr.Validationf("not a regular file: %s", path)
	}
	if info.Size() > v.maxFileSize {
		return "", pdferr.Validationf("file too large: %s exceeds %dMB", path, v.maxFileSize/(1024*1024))
	}
	return path, nil
}

// FileWithExt behaves like File and additionally requires one of the given
// lower-case extensions (including the dot).
func (v *Validator) FileWithExt(path string, exts ...string) (string, error) {
	if _, err := v.File(path); err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return path, nil
		}
	}
	return "", pdferr.Validationf("unsupported file type %q: %s (expected %s)", ext, path, strings.Join(exts, ", "))
}

// PDF checks File, the .pdf extension, and that the document parses as a
// structurally well-formed PDF. This is a structural check, not a semantic
// one; relaxed validation matches what real-world documents need.
func (v *Validator) PDF(path string) (string, error) {
	if _, err := v.FileWithExt(path, ".pdf"); err != nil {
		return "", err
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return "", pdferr.Validationf("invalid or corrupted PDF: %s: %v", path, err)
	}
	return path, nil
}

// PDFShallow checks File and the .pdf extension only. Used for operations
// whose whole point is handling documents the structural check would reject
// (repair) or cannot open (encrypted input for unlock).
func (v *Validator) PDFShallow(path string) (string, error) {
	return v.FileWithExt(path, ".pdf")
}
