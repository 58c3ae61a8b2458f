package transform

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/docforge/pdfops/internal/pdferr"
)

var imagePageRe = regexp.MustCompile(`_page_(\d+)_`)

// ExtractImages writes the embedded images of the selected pages (default
// all) into the output directory and returns the produced files.
func (l *Library) ExtractImages(_ context.Context, inputs []string, outDir string, p Params) (*Result, error) {
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

	pages, _, err := l.pagesParam(p, "pages", in)
	if err != nil {
		return nil, err
	}
	var selection []string
	if pages != nil {
		selection = pageStrings(pages)
	}

	if err := api.ExtractImagesFile(in, outDir, selection, l.conf()); err != nil {
		return nil, pdferr.Operationf("image extraction failed: %v", err)
	}

	files, err := listImageFiles(outDir)
	if err != nil {
		return nil, pdferr.Operationf("failed to list extracted images: %v", err)
	}

	return &Result{
		Message:     fmt.Sprintf("Extracted %d images successfully to %s", len(files), outDir),
		OutputPath:  outDir,
		OutputFiles: files,
	}, nil
}

// OCRPDFImages extracts the embedded images and runs the tesseract binary on
// each one, aggregating the recognized text per source page into the output
// file. Every tesseract invocation is bounded by the configured tool timeout.
func (l *Library) OCRPDFImages(ctx context.Context, inputs []string, out string, _ Params) (*Result, error) {
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

	if _, err := exec.LookPath("tesseract"); err != nil {
		return nil, pdferr.Operationf("tesseract binary not available: %v", err)
	}

	workDir, err := os.MkdirTemp(l.cfg.TempDir, "pdfops_ocr_*")
	if err != nil {
		return nil, pdferr.Operationf("failed to create work directory: %v", err)
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	if err := api.ExtractImagesFile(in, workDir, nil, l.conf()); err != nil {
		return nil, pdferr.Operationf("image extraction failed: %v", err)
	}
	images, err := listImageFiles(workDir)
	if err != nil {
		return nil, pdferr.Operationf("failed to list extracted images: %v", err)
	}

	byPage := make(map[int][]string)
	var pages []int
	for _, img := range images {
		page := pageOfImage(img)
		text, err := l.runTesseract(ctx, img)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, seen := byPage[page]; !seen {
			pages = append(pages, page)
		}
		byPage[page] = append(byPage[page], strings.TrimSpace(text))
	}
	sort.Ints(pages)

	var sb strings.Builder
	for _, page := range pages {
		fmt.Fprintf(&sb, "Page %d:\n%s\n\n", page, strings.Join(byPage[page], "\n"))
	}
	if err := os.WriteFile(out, []byte(sb.String()), 0o600); err != nil {
		return nil, pdferr.Operationf("failed to write %s: %v", out, err)
	}

	res := pdfResult(fmt.Sprintf("OCR completed successfully: recognized text from %d images written to %s", len(images), out), out)
	return res, nil
}

func (l *Library) runTesseract(ctx context.Context, image string) (string, error) {
	toolCtx, cancel := context.WithTimeout(ctx, l.cfg.ToolTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(toolCtx, "tesseract", image, "stdout", "--psm", "6")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if toolCtx.Err() == context.DeadlineExceeded {
			return "", pdferr.Operationf("tesseract timed out after %s on %s", l.cfg.ToolTimeout, filepath.Base(image))
		}
		return "", pdferr.Operationf("tesseract failed on %s: %v: %s", filepath.Base(image), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

func pageOfImage(path string) int {
	m := imagePageRe.FindStringSubmatch(filepath.Base(path))
	if len(m) == 2 {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

func listImageFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".gif":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
