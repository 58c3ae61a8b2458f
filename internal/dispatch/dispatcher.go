package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/transform"
)

// Dispatcher is the sole integration point for external callers. It resolves
// a command name, validates the request shape, invokes the transform through
// the guard, and normalizes the outcome. Stateless per call.
type Dispatcher struct {
	registry *Registry
	log      *logrus.Logger
}

// New creates a Dispatcher over the given transform library.
func New(lib *transform.Library, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{registry: NewRegistry(lib), log: logger}
}

// Commands returns the sorted set of valid command names.
func (d *Dispatcher) Commands() []string {
	return d.registry.Names()
}

// Dispatch routes command to its transform. Multi-input commands receive the
// full input list; single-input commands receive only the first input path.
// Failures keep their typed error; diagnostic context is logged for
// operators, never attached to the error surfaced to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, command string, inputs []string, output string, params transform.Params) (*transform.Result, error) {
	cmd, ok := d.registry.Lookup(command)
	if !ok {
		return nil, pdferr.Validationf("unknown command %q, valid commands: %s",
			command, strings.Join(d.registry.Names(), ", "))
	}

	if len(inputs) == 0 {
		return nil, pdferr.Validationf("command %q requires at least one input file", command)
	}

	switch cmd.arity {
	case singleInput:
		inputs = inputs[:1]
	case pairInput:
		if len(inputs) != 2 {
			return nil, pdferr.Validationf("command %q requires exactly two input files, got %d", command, len(inputs))
		}
	}

	if !cmd.outputOptional && strings.TrimSpace(output) == "" {
		return nil, pdferr.Validationf("command %q requires an output path", command)
	}

	res, err := transform.Guard(d.log, command, func() (*transform.Result, error) {
		return cmd.fn(ctx, inputs, output, params)
	})
	if err != nil {
		d.logDiagnostics(command, inputs, output, cmd.dirOutput, err)
		return nil, err
	}
	return res, nil
}

// logDiagnostics records operator-facing context about a failed dispatch:
// input existence and header sanity plus output location writability. The
// error returned to the caller stays untouched.
func (d *Dispatcher) logDiagnostics(command string, inputs []string, output string, dirOutput bool, err error) {
	fields := logrus.Fields{
		"command": command,
		"kind":    errorKind(err),
	}
	for i, in := range inputs {
		prefix := "input"
		if len(inputs) > 1 {
			prefix = fmt.Sprintf("input_%d", i)
		}
		info, statErr := os.Stat(in)
		if statErr != nil {
			fields[prefix+"_exists"] = false
			continue
		}
		fields[prefix+"_exists"] = true
		fields[prefix+"_size"] = info.Size()
		if strings.EqualFold(filepath.Ext(in), ".pdf") {
			fields[prefix+"_pdf_header"] = hasPDFHeader(in)
		}
	}
	if output != "" {
		dir := output
		if !dirOutput {
			dir = filepath.Dir(output)
		}
		fields["output_dir_exists"] = dirExists(dir)
	}
	d.log.WithFields(fields).WithError(err).Error("dispatch failed")
}

func errorKind(err error) string {
	switch {
	case pdferr.IsValidation(err):
		return "validation"
	case pdferr.IsOperation(err):
		return "operation"
	default:
		return "unknown"
	}
}

func hasPDFHeader(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()
	header := make([]byte, 5)
	if _, err := f.Read(header); err != nil {
		return false
	}
	return string(header) == "%PDF-"
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
