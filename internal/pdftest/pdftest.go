// Package pdftest generates throwaway documents for tests so no binary
// fixtures need to live in the repository.
package pdftest

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// NewPDF writes a PDF with the given page count into dir. Every page carries
// a label line so text extraction has something to find.
func NewPDF(t *testing.T, dir, name string, pages int, label string) string {
	t.Helper()

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 14)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Text(72, 96, fmt.Sprintf("%s page %d", label, i))
	}

	path := filepath.Join(dir, name)
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("failed to write test PDF %s: %v", path, err)
	}
	return path
}

// PageCount reads the page count of a PDF, failing the test on error.
func PageCount(t *testing.T, path string) int {
	t.Helper()

	n, err := api.PageCountFile(path)
	if err != nil {
		t.Fatalf("failed to read page count of %s: %v", path, err)
	}
	return n
}
