package transform

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/pdfops/internal/pdferr"
)

// MergePDFs concatenates the pages of the given PDFs in list order into a
// single document. Validation fails fast on the first invalid input.
func (l *Library) MergePDFs(_ context.Context, inputs []string, out string, _ Params) (*Result, error) {
	if len(inputs) == 0 {
		return nil, pdferr.Validationf("PDF list cannot be empty")
	}
	if err := requireOutput(out); err != nil {
		return nil, err
	}
	for _, in := range inputs {
		if _, err := l.v.PDF(in); err != nil {
			return nil, err
		}
	}

	if err := api.MergeCreateFile(inputs, out, false, l.conf()); err != nil {
		return nil, pdferr.Operationf("merge failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("PDFs merged successfully: %s", out), out), nil
}
