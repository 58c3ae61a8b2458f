package transform

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/pdfops/internal/pdferr"
)

// RotatePDF rotates the selected pages (default all) clockwise by the given
// angle. Only 90, 180 and 270 degrees are valid.
func (l *Library) RotatePDF(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
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

	rotation, err := p.Int("rotation", 0)
	if err != nil {
		return nil, err
	}
	if rotation != 90 && rotation != 180 && rotation != 270 {
		return nil, pdferr.Validationf("rotation must be 90, 180, or 270 degrees, got %d", rotation)
	}

	pages, _, err := l.pagesParam(p, "pages", in)
	if err != nil {
		return nil, err
	}
	var selection []string
	if pages != nil {
		selection = pageStrings(pages)
	}

	if err := api.RotateFile(in, out, rotation, selection, l.conf()); err != nil {
		return nil, pdferr.Operationf("rotation failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("PDF rotated successfully: %s", out), out), nil
}
