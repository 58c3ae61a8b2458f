// Package bulk applies one transform across a list of inputs, aggregating
// per-item outcomes. Unlike workflows, bulk runs are partial-failure
// tolerant: one bad file never aborts the remaining items.
package bulk

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/docforge/pdfops/internal/dispatch"
	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/taskstore"
	"github.com/docforge/pdfops/internal/transform"
)

// Item records the outcome of one input file. TaskID keys the stored result
// for later retrieval.
type Item struct {
	TaskID     string `json:"task_id"`
	Input      string `json:"input"`
	OutputPath string `json:"output_path,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Summary aggregates every item's outcome of a bulk run.
type Summary struct {
	Method    string `json:"method"`
	Total     int    `json:"total"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Items     []Item `json:"items"`
}

// Processor fans a single command across many files through the Dispatcher,
// recording each outcome in the task store under its item's task id.
type Processor struct {
	d     *dispatch.Dispatcher
	store *taskstore.Store
	log   *logrus.Logger
}

// NewProcessor creates a bulk processor. A nil store disables result
// retention.
func NewProcessor(d *dispatch.Dispatcher, store *taskstore.Store, logger *logrus.Logger) *Processor {
	return &Processor{d: d, store: store, log: logger}
}

// Run applies method to every file in files, writing results into outDir with
// derived names. merge_pdfs is special-cased: the whole list becomes one
// merge into outDir/bulk_merged.pdf. The method must exist and the list must
// be non-empty; per-file failures are recorded, not raised.
func (p *Processor) Run(ctx context.Context, method string, files []string, outDir string, params transform.Params) (*Summary, error) {
	if len(files) == 0 {
		return nil, pdferr.Validationf("file list cannot be empty")
	}
	valid := p.d.Commands()
	if !contains(valid, method) {
		return nil, pdferr.Validationf("unknown command %q, valid commands: %s", method, strings.Join(valid, ", "))
	}

	if method == "merge_pdfs" {
		out := filepath.Join(outDir, "bulk_merged.pdf")
		res, err := p.d.Dispatch(ctx, method, files, out, params)
		if err != nil {
			return nil, err
		}
		item := Item{TaskID: uuid.NewString(), Input: strings.Join(files, ", "), OutputPath: res.OutputPath, Message: res.Message}
		p.record(item.TaskID, res, nil)
		return &Summary{
			Method:    method,
			Total:     len(files),
			Succeeded: len(files),
			Items:     []Item{item},
		}, nil
	}

	summary := &Summary{Method: method, Total: len(files)}
	for _, file := range files {
		out := derivedOutput(method, file, outDir)
		item := Item{TaskID: uuid.NewString(), Input: file}

		res, err := p.d.Dispatch(ctx, method, []string{file}, out, params)
		p.record(item.TaskID, res, err)
		if err != nil {
			item.Error = err.Error()
			summary.Failed++
			p.log.WithError(err).WithFields(logrus.Fields{
				"method": method,
				"input":  file,
			}).Warn("bulk item failed")
		} else {
			item.OutputPath = res.OutputPath
			item.Message = res.Message
			summary.Succeeded++
		}
		summary.Items = append(summary.Items, item)
	}
	return summary, nil
}

func (p *Processor) record(id string, res *transform.Result, err error) {
	if p.store != nil {
		p.store.Put(id, res, err)
	}
}

// derivedOutput picks a per-file output location in outDir matching the
// command's output shape.
func derivedOutput(method, file, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	switch method {
	case "split_pdf", "extract_images":
		return filepath.Join(outDir, fmt.Sprintf("%s_%s", base, method))
	case "extract_text", "ocr_pdf_images", "compare_pdfs":
		return filepath.Join(outDir, base+"_processed.txt")
	case "pdf_to_powerpoint":
		return filepath.Join(outDir, base+"_processed.pptx")
	default:
		return filepath.Join(outDir, base+"_processed.pdf")
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
