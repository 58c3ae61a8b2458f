package transform

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/pdfops/internal/pdferr"
)

// CompressPDF re-serializes the document with pdfcpu's optimization pass:
// stream recompaction and removal of redundant objects. It is best-effort
// structural compression and does not guarantee a smaller file.
func (l *Library) CompressPDF(_ context.Context, inputs []string, out string, _ Params) (*Result, error) {
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

	if err := api.OptimizeFile(in, out, l.conf()); err != nil {
		return nil, pdferr.Operationf("compression failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("PDF compressed successfully: %s", out), out), nil
}

// RepairPDF attempts to recover a damaged document by reading it in relaxed
// mode and rewriting it. Inputs deliberately skip the structural validation
// that a broken file would fail.
func (l *Library) RepairPDF(_ context.Context, inputs []string, out string, _ Params) (*Result, error) {
	in, err := singleInput(inputs)
	if err != nil {
		return nil, err
	}
	if _, err := l.v.PDFShallow(in); err != nil {
		return nil, err
	}
	if err := requireOutput(out); err != nil {
		return nil, err
	}

	if err := api.OptimizeFile(in, out, l.conf()); err != nil {
		return nil, pdferr.Operationf("repair failed, document could not be recovered: %v", err)
	}
	return pdfResult(fmt.Sprintf("PDF repaired successfully: %s", out), out), nil
}
