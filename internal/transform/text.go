package transform

import (
	"context"
	"fmt"
	"os"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/docforge/pdfops/internal/pdferr"
)

// openForText opens a PDF for plain-text extraction. The caller closes the
// returned file.
func openForText(path string) (*os.File, *ltpdf.Reader, error) {
	f, r, err := ltpdf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	return f, r, nil
}

// pageText returns the trimmed plain text of one page, "" for empty pages.
func pageText(r *ltpdf.Reader, n int) (string, error) {
	page := r.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("read page %d: %w", n, err)
	}
	return strings.TrimSpace(text), nil
}

// extractPlainText pulls the text content of the selected pages (all pages
// when the slice is nil), joined with blank lines between pages.
func extractPlainText(path string, pages []int) (string, error) {
	f, r, err := openForText(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	if pages == nil {
		for i := 1; i <= r.NumPage(); i++ {
			pages = append(pages, i)
		}
	}

	var parts []string
	for _, n := range pages {
		text, err := pageText(r, n)
		if err != nil {
			return "", err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

// ExtractText writes the plain text of the selected pages (default all) to
// the output path.
func (l *Library) ExtractText(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
	in, err := singleInput(inputs)
	if err != nil {
		return nil, err
	}
	if _, err := l.v.PDF(in); err != nil {
		return nil, err
	}
	if err := requireOutput(out); err != nil {
		return nil, err
	}

	pages, _, err := l.pagesParam(p, "pages", in)
	if err != nil {
		return nil, err
	}

	text, err := extractPlainText(in, pages)
	if err != nil {
		return nil, pdferr.Operationf("text extraction failed: %v", err)
	}
	if err := os.WriteFile(out, []byte(text), 0o600); err != nil {
		return nil, pdferr.Operationf("failed to write %s: %v", out, err)
	}

	res := pdfResult(fmt.Sprintf("Text extracted successfully: %s", out), out)
	return res, nil
}

// ComparePDFs diffs the extracted text of two documents. The unified diff is
// written to the output path when one is given; the result message states
// whether the documents differ.
func (l *Library) ComparePDFs(_ context.Context, inputs []string, out string, _ Params) (*Result, error) {
	if len(inputs) != 2 {
		return nil, pdferr.Validationf("comparison requires exactly two PDFs, got %d", len(inputs))
	}
	for _, in := range inputs {
		if _, err := l.v.PDF(in); err != nil {
			return nil, err
		}
	}

	text1, err := extractPlainText(inputs[0], nil)
	if err != nil {
		return nil, pdferr.Operationf("text extraction failed for %s: %v", inputs[0], err)
	}
	text2, err := extractPlainText(inputs[1], nil)
	if err != nil {
		return nil, pdferr.Operationf("text extraction failed for %s: %v", inputs[1], err)
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(text1),
		B:        difflib.SplitLines(text2),
		FromFile: inputs[0],
		ToFile:   inputs[1],
		Context:  3,
	})
	if err != nil {
		return nil, pdferr.Operationf("diff computation failed: %v", err)
	}

	if diff == "" {
		return &Result{Message: "PDFs compared successfully: identical text content", OutputPath: out}, nil
	}

	if out != "" {
		if err := os.WriteFile(out, []byte(diff), 0o600); err != nil {
			return nil, pdferr.Operationf("failed to write %s: %v", out, err)
		}
		res := pdfResult(fmt.Sprintf("PDFs compared successfully: differences written to %s", out), out)
		return res, nil
	}
	return &Result{Message: fmt.Sprintf("PDFs compared successfully: text content differs\n%s", diff)}, nil
}
