package transform

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/pdfops/internal/pdferr"
)

// SplitPDF writes one single-page document per selected page into the output
// directory, named page_<n>.pdf by source page number. An empty or "all" page
// spec splits every page.
func (l *Library) SplitPDF(_ context.Context, inputs []string, outDir string, p Params) (*Result, error) {
	in, err := singleInput(inputs)
	if err != nil {
		return nil, err
	}
	if _, err := l.v.PDF(in); err != nil {
		return nil, err
	}
	if err := ensureDir(outDir); err != nil {
		return nil, err
	}

	pages, total, err := l.pagesParam(p, "pages", in)
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
	}

	conf := l.conf()
	files := make([]string, 0, len(pages))
	for _, page := range pages {
		outFile := filepath.Join(outDir, fmt.Sprintf("page_%d.pdf", page))
		if err := api.CollectFile(in, outFile, []string{strconv.Itoa(page)}, conf); err != nil {
			return nil, pdferr.Operationf("failed to write page %d: %v", page, err)
		}
		files = append(files, outFile)
	}

	res := &Result{
		Message:     fmt.Sprintf("PDF split successfully into %s (%d files)", outDir, len(files)),
		OutputPath:  outDir,
		OutputFiles: files,
		PageCount:   len(files),
	}
	return res, nil
}
