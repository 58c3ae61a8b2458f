package validate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/docforge/pdfops/internal/pdferr"
)

// ParsePageRange parses a 1-based page specification like "1-3,5,7-9" into a
// sorted, de-duplicated list of page numbers. "all" and the empty string mean
// every page. Open-ended ranges are accepted: "7-" runs to the last page and
// "-3" starts at page 1. Reversed ranges and out-of-range pages are
// validation errors.
func ParsePageRange(spec string, totalPages int) ([]int, error) {
	if totalPages < 1 {
		return nil, pdferr.Validationf("document has no pages")
	}

	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, "all") {
		pages := make([]int, totalPages)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages, nil
	}

	seen := make(map[int]bool)
	for part := range strings.SplitSeq(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, pdferr.Validationf("empty token in page range %q", spec)
		}

		if strings.Contains(part, "-") {
			bounds := strings.SplitN(part, "-", 2)
			start, end := 1, totalPages
			var err error
			if bounds[0] != "" {
				if start, err = strconv.Atoi(strings.TrimSpace(bounds[0])); err != nil {
					return nil, pdferr.Validationf("invalid start page %q in %q", bounds[0], spec)
				}
			}
			if bounds[1] != "" {
				if end, err = strconv.Atoi(strings.TrimSpace(bounds[1])); err != nil {
					return nil, pdferr.Validationf("invalid end page %q in %q", bounds[1], spec)
				}
			}
			if start > end {
				return nil, pdferr.Validationf("invalid page range %d-%d: end before start", start, end)
			}
			if start < 1 || end > totalPages {
				return nil, pdferr.Validationf("page range %d-%d out of bounds (document has %d pages)", start, end, totalPages)
			}
			for p := start; p <= end; p++ {
				seen[p] = true
			}
			continue
		}

		p, err := strconv.Atoi(part)
		if err != nil {
			return nil, pdferr.Validationf("invalid page number %q in %q", part, spec)
		}
		if p < 1 || p > totalPages {
			return nil, pdferr.Validationf("page number %d out of range (document has %d pages)", p, totalPages)
		}
		seen[p] = true
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages, nil
}

// CheckPages verifies that every page in the list is within 1..totalPages.
// When unique is set, duplicates are rejected as well (reorder semantics).
func CheckPages(pages []int, totalPages int, unique bool) error {
	if len(pages) == 0 {
		return pdferr.Validationf("pages list cannot be empty")
	}
	seen := make(map[int]bool, len(pages))
	for _, p := range pages {
		if p < 1 || p > totalPages {
			return pdferr.Validationf("page number %d out of range (document has %d pages)", p, totalPages)
		}
		if unique && seen[p] {
			return pdferr.Validationf("duplicate page number %d", p)
		}
		seen[p] = true
	}
	return nil
}
