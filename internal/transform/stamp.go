package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/docforge/pdfops/internal/pdferr"
)

// textStamp builds a pdfcpu stamp (rendered on top of page content, never
// replacing it) from a description string.
func textStamp(text, desc string) (*model.Watermark, error) {
	wm, err := pdfcpu.ParseTextWatermarkDetails(text, desc, true, types.POINTS)
	if err != nil {
		return nil, pdferr.Operationf("failed to build text stamp: %v", err)
	}
	return wm, nil
}

// WatermarkPDF overlays watermark text onto every page at the given opacity,
// rotation and font size. Defaults mirror the classic diagonal grey draft
// stamp: 0.3 opacity, 45 degrees, 36pt.
func (l *Library) WatermarkPDF(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
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

	text := strings.TrimSpace(p.Str("text"))
	if text == "" {
		return nil, pdferr.Validationf("watermark text cannot be empty")
	}
	opacity, err := p.Float("opacity", 0.3)
	if err != nil {
		return nil, err
	}
	if opacity <= 0 || opacity > 1 {
		return nil, pdferr.Validationf("opacity must be in (0, 1], got %v", opacity)
	}
	rotation, err := p.Int("rotation", 45)
	if err != nil {
		return nil, err
	}
	fontSize, err := p.Int("font_size", 36)
	if err != nil {
		return nil, err
	}
	if fontSize < 1 {
		return nil, pdferr.Validationf("font size must be positive, got %d", fontSize)
	}

	desc := fmt.Sprintf(
		"fontname:Helvetica, points:%d, opacity:%.2f, rotation:%d, fillcolor:#808080, position:c, scalefactor:1 abs",
		fontSize, opacity, rotation)
	wm, err := textStamp(text, desc)
	if err != nil {
		return nil, err
	}

	if err := api.AddWatermarksFile(in, out, nil, wm, l.conf()); err != nil {
		return nil, pdferr.Operationf("watermarking failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("PDF watermarked successfully: %s", out), out), nil
}

// AddPageNumbers stamps "Page n" onto every page, counting from the start
// parameter (default 1). Position is bottom-right or bottom-center.
func (l *Library) AddPageNumbers(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
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

	start, err := p.Int("start", 1)
	if err != nil {
		return nil, err
	}
	anchor, offset, err := numberPosition(p.Str("position"))
	if err != nil {
		return nil, err
	}

	total, err := api.PageCountFile(in)
	if err != nil {
		return nil, pdferr.Operationf("failed to read page count of %s: %v", in, err)
	}

	desc := fmt.Sprintf("fontname:Helvetica, points:10, opacity:1, rotation:0, position:%s, offset:%s, scalefactor:1 abs", anchor, offset)
	stamps := make(map[int]*model.Watermark, total)
	for page := 1; page <= total; page++ {
		wm, err := textStamp(fmt.Sprintf("Page %d", start+page-1), desc)
		if err != nil {
			return nil, err
		}
		stamps[page] = wm
	}

	if err := api.AddWatermarksMapFile(in, out, stamps, l.conf()); err != nil {
		return nil, pdferr.Operationf("adding page numbers failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("Page numbers added successfully: %s", out), out), nil
}

func numberPosition(position string) (anchor, offset string, err error) {
	switch position {
	case "", "bottom-right":
		return "br", "-20 12", nil
	case "bottom-center":
		return "bc", "0 12", nil
	default:
		return "", "", pdferr.Validationf("unsupported page number position %q (bottom-right, bottom-center)", position)
	}
}

// AddHeaderFooter stamps a header and/or footer line onto every page. At
// least one of the two must be supplied.
func (l *Library) AddHeaderFooter(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
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

	header := strings.TrimSpace(p.Str("header"))
	footer := strings.TrimSpace(p.Str("footer"))
	if header == "" && footer == "" {
		return nil, pdferr.Validationf("at least one of header or footer is required")
	}

	conf := l.conf()
	current := in
	if header != "" {
		wm, err := textStamp(header, "fontname:Helvetica, points:10, opacity:1, rotation:0, position:tc, offset:0 -12, scalefactor:1 abs")
		if err != nil {
			return nil, err
		}
		if err := api.AddWatermarksFile(current, out, nil, wm, conf); err != nil {
			return nil, pdferr.Operationf("adding header failed: %v", err)
		}
		current = out
	}
	if footer != "" {
		wm, err := textStamp(footer, "fontname:Helvetica, points:10, opacity:1, rotation:0, position:bc, offset:0 12, scalefactor:1 abs")
		if err != nil {
			return nil, err
		}
		target := out
		if current == out {
			// Second stamp applies in place.
			target = ""
		}
		if err := api.AddWatermarksFile(current, target, nil, wm, conf); err != nil {
			return nil, pdferr.Operationf("adding footer failed: %v", err)
		}
	}
	return pdfResult(fmt.Sprintf("Header/footer added successfully: %s", out), out), nil
}
