package transform

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/docforge/pdfops/internal/pdferr"
)

// Overlay coordinates are PDF points with the origin at the bottom-left of a
// US Letter page; fpdf draws top-down so y is flipped at render time.
const (
	letterWidthPt  = 612.0
	letterHeightPt = 792.0
)

type rect struct {
	x1, y1, x2, y2 float64
}

// drawOverlay renders draw onto a fresh one-page PDF and stamps that page on
// top of the selected page of in, writing the combined document to out. The
// overlay file gets a unique name and is removed on every exit path.
func (l *Library) drawOverlay(in, out string, page int, draw func(doc *fpdf.Fpdf)) error {
	total, err := api.PageCountFile(in)
	if err != nil {
		return pdferr.Operationf("failed to read page count of %s: %v", in, err)
	}
	if page < 1 || page > total {
		return pdferr.Validationf("page number %d out of range (document has %d pages)", page, total)
	}

	overlayPath := l.tempPath("overlay", ".pdf")
	defer func() { _ = os.Remove(overlayPath) }()

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.AddPage()
	draw(doc)
	if err := doc.OutputFileAndClose(overlayPath); err != nil {
		return pdferr.Operationf("failed to render overlay page: %v", err)
	}

	wm, err := pdfcpu.ParsePDFWatermarkDetails(overlayPath, "pos:full, rot:0, op:1", true, types.POINTS)
	if err != nil {
		return pdferr.Operationf("failed to build overlay stamp: %v", err)
	}
	if err := api.AddWatermarksFile(in, out, []string{strconv.Itoa(page)}, wm, l.conf()); err != nil {
		return pdferr.Operationf("failed to merge overlay onto page %d: %v", page, err)
	}
	return nil
}

// RedactPDF covers the given rectangles on one page with opaque black
// rectangles merged on top of the original content.
func (l *Library) RedactPDF(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
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

	page, err := p.Int("page", 0)
	if err != nil {
		return nil, err
	}
	rects, err := rectsParam(p, "redactions")
	if err != nil {
		return nil, err
	}
	if len(rects) == 0 {
		return nil, pdferr.Validationf("redactions list cannot be empty")
	}

	err = l.drawOverlay(in, out, page, func(doc *fpdf.Fpdf) {
		doc.SetFillColor(0, 0, 0)
		for _, r := range rects {
			doc.Rect(r.x1, letterHeightPt-r.y2, r.x2-r.x1, r.y2-r.y1, "F")
		}
	})
	if err != nil {
		return nil, err
	}
	return pdfResult(fmt.Sprintf("PDF redacted successfully: %s", out), out), nil
}

// AnnotatePDF adds a highlight rectangle or a line annotation to one page.
func (l *Library) AnnotatePDF(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
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

	page, err := p.Int("page", 0)
	if err != nil {
		return nil, err
	}
	kind := p.Str("annotation_type")
	x1, err := p.Float("x1", 0)
	if err != nil {
		return nil, err
	}
	y1, err := p.Float("y1", 0)
	if err != nil {
		return nil, err
	}
	x2, err := p.Float("x2", 0)
	if err != nil {
		return nil, err
	}
	y2, err := p.Float("y2", 0)
	if err != nil {
		return nil, err
	}

	var draw func(doc *fpdf.Fpdf)
	switch kind {
	case "highlight":
		draw = func(doc *fpdf.Fpdf) {
			doc.SetAlpha(0.3, "Normal")
			doc.SetFillColor(255, 235, 59)
			doc.Rect(x1, letterHeightPt-y2, x2-x1, y2-y1, "F")
			doc.SetAlpha(1, "Normal")
		}
	case "line":
		draw = func(doc *fpdf.Fpdf) {
			doc.SetDrawColor(211, 47, 47)
			doc.SetLineWidth(1.5)
			doc.Line(x1, letterHeightPt-y1, x2, letterHeightPt-y2)
		}
	default:
		return nil, pdferr.Validationf("unsupported annotation type %q (highlight, line)", kind)
	}

	if err := l.drawOverlay(in, out, page, draw); err != nil {
		return nil, err
	}
	return pdfResult(fmt.Sprintf("PDF annotated successfully: %s", out), out), nil
}

func rectsParam(p Params, key string) ([]rect, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, pdferr.Validationf("parameter %q: expected a list of [x1,y1,x2,y2] rectangles", key)
	}
	rects := make([]rect, 0, len(list))
	for _, item := range list {
		coords, ok := item.([]any)
		if !ok || len(coords) != 4 {
			return nil, pdferr.Validationf("parameter %q: each rectangle needs exactly [x1,y1,x2,y2]", key)
		}
		var vals [4]float64
		for i, c := range coords {
			switch v := c.(type) {
			case float64:
				vals[i] = v
			case int:
				vals[i] = float64(v)
			default:
				return nil, pdferr.Validationf("parameter %q: coordinates must be numbers, got %T", key, c)
			}
		}
		if vals[2] <= vals[0] || vals[3] <= vals[1] {
			return nil, pdferr.Validationf("parameter %q: rectangle %v has non-positive extent", key, coords)
		}
		rects = append(rects, rect{vals[0], vals[1], vals[2], vals[3]})
	}
	return rects, nil
}
