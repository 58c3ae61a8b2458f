// Package transform implements the document transform library. Each transform
// is a pure function of validated input path(s) plus parameters producing one
// output file or directory. Transforms hold no shared mutable state; concurrent
// invocations are safe as long as they use distinct paths.
package transform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/sirupsen/logrus"

	"github.com/docforge/pdfops/internal/config"
	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/validate"
)

// Result describes a successful transform. It is created only on success and
// never partially populated.
type Result struct {
	Message     string   `json:"message"`
	OutputPath  string   `json:"output_path"`
	OutputFiles []string `json:"output_files,omitempty"`
	Size        int64    `json:"size,omitempty"`
	PageCount   int      `json:"page_count,omitempty"`
}

// Func is the uniform transform signature. Single-input transforms receive a
// one-element slice; fan-out transforms interpret out as a directory.
type Func func(ctx context.Context, inputs []string, out string, p Params) (*Result, error)

// Library bundles the validator, logger and configuration every transform
// needs. It is stateless per call.
type Library struct {
	v   *validate.Validator
	log *logrus.Logger
	cfg config.Config
}

// NewLibrary creates a transform library.
func NewLibrary(cfg config.Config, v *validate.Validator, logger *logrus.Logger) *Library {
	return &Library{v: v, log: logger, cfg: cfg}
}

// Guard runs fn with a correlation identifier logged on entry, success and
// failure, and normalizes any untyped error into an OperationError. Typed
// errors pass through unchanged so nothing is double-wrapped. This is the
// single wrapping point around every transform invocation.
func Guard(logger *logrus.Logger, name string, fn func() (*Result, error)) (*Result, error) {
	log := logger.WithFields(logrus.Fields{
		"transform":      name,
		"correlation_id": uuid.NewString(),
	})
	log.Debug("transform starting")

	res, err := fn()
	if err != nil {
		log.WithError(err).Error("transform failed")
		return nil, pdferr.WrapOperation(name, err)
	}

	log.WithField("output", res.OutputPath).Debug("transform completed")
	return res, nil
}

// conf returns a fresh pdfcpu configuration per call; configurations are not
// shared between concurrent invocations.
func (l *Library) conf() *model.Configuration {
	c := model.NewDefaultConfiguration()
	c.ValidationMode = model.ValidationRelaxed
	return c
}

// tempPath returns a unique path in the configured temp directory. Callers
// own the file and must remove it on every exit path.
func (l *Library) tempPath(tag, ext string) string {
	return filepath.Join(l.cfg.TempDir, fmt.Sprintf("pdfops_%s_%s%s", tag, uuid.NewString(), ext))
}

// pdfResult builds a Result for a single-PDF output, attaching size and page
// count metadata when the file is readable.
func pdfResult(message, out string) *Result {
	r := &Result{Message: message, OutputPath: out}
	if info, err := os.Stat(out); err == nil {
		r.Size = info.Size()
	}
	if strings.EqualFold(filepath.Ext(out), ".pdf") {
		if n, err := api.PageCountFile(out); err == nil {
			r.PageCount = n
		}
	}
	return r
}

// pageStrings converts 1-based page numbers to the string selection pdfcpu
// expects.
func pageStrings(pages []int) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = strconv.Itoa(p)
	}
	return out
}

// pagesParam resolves the "pages" parameter, which may be a range spec string
// or an explicit list, against the document's page count. A missing parameter
// selects every page.
func (l *Library) pagesParam(p Params, key, in string) ([]int, int, error) {
	total, err := api.PageCountFile(in)
	if err != nil {
		return nil, 0, pdferr.Operationf("failed to read page count of %s: %v", in, err)
	}

	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, total, nil
	}

	switch v := raw.(type) {
	case string:
		pages, err := validate.ParsePageRange(v, total)
		if err != nil {
			return nil, 0, err
		}
		return pages, total, nil
	default:
		pages, err := p.IntList(key)
		if err != nil {
			return nil, 0, err
		}
		if err := validate.CheckPages(pages, total, false); err != nil {
			return nil, 0, err
		}
		return pages, total, nil
	}
}

func singleInput(inputs []string) (string, error) {
	if len(inputs) == 0 {
		return "", pdferr.Validationf("an input file is required")
	}
	return inputs[0], nil
}

func requireOutput(out string) error {
	if strings.TrimSpace(out) == "" {
		return pdferr.Validationf("an output path is required")
	}
	return nil
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return pdferr.Validationf("an output directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return pdferr.Operationf("failed to create output directory %s: %v", dir, err)
	}
	return nil
}
