package transform

import (
	"context"
	"fmt"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/validate"
)

// ExtractPages copies the selected pages, in ascending source order, into a
// new document. Out-of-range pages fail validation; they are never clamped.
func (l *Library) ExtractPages(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
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
	if len(pages) == 0 {
		return nil, pdferr.Validationf("pages list cannot be empty")
	}
	uniq := dedupeSorted(pages)

	if err := api.CollectFile(in, out, pageStrings(uniq), l.conf()); err != nil {
		return nil, pdferr.Operationf("page extraction failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("Pages extracted successfully: %s", out), out), nil
}

// RemovePages copies every page except the selected ones. Removing all pages
// is a validation error since a PDF cannot be empty.
func (l *Library) RemovePages(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
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

	pages, total, err := l.pagesParam(p, "pages", in)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, pdferr.Validationf("pages list cannot be empty")
	}
	uniq := dedupeSorted(pages)
	if len(uniq) >= total {
		return nil, pdferr.Validationf("cannot remove all %d pages of the document", total)
	}

	if err := api.RemovePagesFile(in, out, pageStrings(uniq), l.conf()); err != nil {
		return nil, pdferr.Operationf("page removal failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("Pages removed successfully: %s", out), out), nil
}

// OrganizePDF rebuilds the document with pages in the caller-supplied order.
// The order must reference existing pages and contain no duplicates.
func (l *Library) OrganizePDF(_ context.Context, inputs []string, out string, p Params) (*Result, error) {
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

	order, err := p.IntList("page_order")
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, pdferr.Validationf("page order cannot be empty")
	}
	total, err := api.PageCountFile(in)
	if err != nil {
		return nil, pdferr.Operationf("failed to read page count of %s: %v", in, err)
	}
	if err := validate.CheckPages(order, total, true); err != nil {
		return nil, err
	}

	if err := api.CollectFile(in, out, pageStrings(order), l.conf()); err != nil {
		return nil, pdferr.Operationf("page reordering failed: %v", err)
	}
	return pdfResult(fmt.Sprintf("PDF organized successfully: %s", out), out), nil
}

func dedupeSorted(pages []int) []int {
	seen := make(map[int]bool, len(pages))
	out := make([]int, 0, len(pages))
	for _, p := range pages {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}
