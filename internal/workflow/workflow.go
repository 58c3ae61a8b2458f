// Package workflow chains transform invocations, feeding each step's output
// into the next step's input, with guaranteed cleanup of intermediate
// artifacts on every exit path.
package workflow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/docforge/pdfops/internal/dispatch"
	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/transform"
)

// Step is one workflow entry: a command name plus its argument mapping.
// Step i+1 consumes the output of step i unless args supplies input_path.
type Step struct {
	Method string         `yaml:"method" json:"method"`
	Args   map[string]any `yaml:"args" json:"args"`
}

// Executor runs workflows against a Dispatcher. A workflow is an atomic,
// synchronous sequence; cancellation and retry belong to the caller.
type Executor struct {
	d       *dispatch.Dispatcher
	log     *logrus.Logger
	tempDir string
}

// NewExecutor creates a workflow executor placing intermediate files in
// tempDir.
func NewExecutor(d *dispatch.Dispatcher, tempDir string, logger *logrus.Logger) *Executor {
	return &Executor{d: d, log: logger, tempDir: tempDir}
}

// Execute runs the steps in order and returns the final output path. Any
// failed step aborts the workflow immediately; a step whose result message
// lacks a success marker counts as failed. Auto-generated intermediate files
// are removed unconditionally; the final step's output survives on success.
func (e *Executor) Execute(ctx context.Context, steps []Step) (string, error) {
	if len(steps) == 0 {
		return "", pdferr.Validationf("workflow steps cannot be empty")
	}

	var (
		temps        []string
		currentInput string
		finalOutput  string
	)
	succeeded := false
	defer func() {
		for _, tmp := range temps {
			if succeeded && tmp == finalOutput {
				continue
			}
			if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
				e.log.WithError(err).WithField("file", tmp).Warn("failed to remove workflow temp file")
			}
		}
	}()

	for i, step := range steps {
		params := make(transform.Params, len(step.Args))
		for k, v := range step.Args {
			params[k] = v
		}

		inputs, err := stepInputs(params, currentInput, i)
		if err != nil {
			return "", err
		}
		delete(params, "input_path")
		delete(params, "input_paths")

		output, _ := params["output_path"].(string)
		delete(params, "output_path")
		if output == "" {
			output = filepath.Join(e.tempDir, fmt.Sprintf("workflow_%s.pdf", uuid.NewString()))
			temps = append(temps, output)
		}

		e.log.WithFields(logrus.Fields{
			"step":   i + 1,
			"method": step.Method,
			"output": output,
		}).Debug("workflow step starting")

		res, err := e.d.Dispatch(ctx, step.Method, inputs, output, params)
		if err != nil {
			return "", err
		}
		if !strings.Contains(strings.ToLower(res.Message), "success") {
			return "", pdferr.Operationf("workflow step %d (%s) did not report success: %s", i+1, step.Method, res.Message)
		}

		currentInput = output
		finalOutput = output
	}

	succeeded = true
	return finalOutput, nil
}

func stepInputs(params transform.Params, currentInput string, stepIndex int) ([]string, error) {
	if raw, ok := params["input_paths"]; ok {
		switch v := raw.(type) {
		case []string:
			return v, nil
		case []any:
			inputs := make([]string, 0, len(v))
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, pdferr.Validationf("step %d: input_paths must be strings", stepIndex+1)
				}
				inputs = append(inputs, s)
			}
			return inputs, nil
		default:
			return nil, pdferr.Validationf("step %d: input_paths must be a list of strings", stepIndex+1)
		}
	}
	if in := params.Str("input_path"); in != "" {
		return []string{in}, nil
	}
	if currentInput != "" {
		return []string{currentInput}, nil
	}
	return nil, pdferr.Validationf("step %d: first workflow step must supply input_path", stepIndex+1)
}

// LoadSteps reads an ordered step list from a YAML document of the form:
//
//	steps:
//	  - method: rotate_pdf
//	    args: {input_path: in.pdf, rotation: 90}
func LoadSteps(path string) ([]Step, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pdferr.Validationf("cannot read workflow file %s: %v", path, err)
	}
	var doc struct {
		Steps []Step `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, pdferr.Validationf("malformed workflow file %s: %v", path, err)
	}
	if len(doc.Steps) == 0 {
		return nil, pdferr.Validationf("workflow file %s defines no steps", path)
	}
	return doc.Steps, nil
}
