package workflow

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/pdfops/internal/config"
	"github.com/docforge/pdfops/internal/dispatch"
	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/pdftest"
	"github.com/docforge/pdfops/internal/transform"
	"github.com/docforge/pdfops/internal/validate"
)

func newTestExecutor(t *testing.T) (*Executor, string) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	tempDir := t.TempDir()
	cfg := config.Default()
	cfg.TempDir = tempDir
	lib := transform.NewLibrary(cfg, validate.New(cfg.MaxFileSizeMB), logger)
	return NewExecutor(dispatch.New(lib, logger), tempDir, logger), tempDir
}

func TestExecuteChainsSteps(t *testing.T) {
	e, tempDir := newTestExecutor(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := pdftest.NewPDF(t, dir, "in.pdf", 4, "alpha")
	final := filepath.Join(dir, "final.pdf")

	steps := []Step{
		{Method: "extract_pages", Args: map[string]any{"input_path": in, "pages": "1-3"}},
		{Method: "rotate_pdf", Args: map[string]any{"rotation": 90}},
		{Method: "remove_pages", Args: map[string]any{"pages": []any{1}, "output_path": final}},
	}

	out, err := e.Execute(ctx, steps)
	require.NoError(t, err)
	assert.Equal(t, final, out)
	assert.Equal(t, 2, pdftest.PageCount(t, final))

	// Intermediates are gone; only the explicit final output survives.
	leftovers, err := filepath.Glob(filepath.Join(tempDir, "workflow_*.pdf"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
	assert.FileExists(t, final)
}

func TestExecuteKeepsAutoFinalOutput(t *testing.T) {
	e, tempDir := newTestExecutor(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := pdftest.NewPDF(t, dir, "in.pdf", 2, "alpha")

	// No output_path on the last step: its auto-generated file is the result
	// and must survive cleanup.
	out, err := e.Execute(ctx, []Step{
		{Method: "rotate_pdf", Args: map[string]any{"input_path": in, "rotation": 180}},
	})
	require.NoError(t, err)
	assert.FileExists(t, out)
	assert.Equal(t, tempDir, filepath.Dir(out))
}

func TestExecuteCleansUpOnFailure(t *testing.T) {
	e, tempDir := newTestExecutor(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := pdftest.NewPDF(t, dir, "in.pdf", 4, "alpha")

	steps := []Step{
		{Method: "extract_pages", Args: map[string]any{"input_path": in, "pages": "1-3"}},
		{Method: "rotate_pdf", Args: map[string]any{"rotation": 45}}, // invalid angle
		{Method: "compress_pdf", Args: map[string]any{}},
	}

	_, err := e.Execute(ctx, steps)
	require.Error(t, err)
	assert.True(t, pdferr.IsValidation(err))

	// The first step's intermediate must not linger after the abort.
	leftovers, globErr := filepath.Glob(filepath.Join(tempDir, "workflow_*.pdf"))
	require.NoError(t, globErr)
	assert.Empty(t, leftovers)
}

func TestExecuteValidation(t *testing.T) {
	e, _ := newTestExecutor(t)
	ctx := context.Background()

	t.Run("empty workflow", func(t *testing.T) {
		_, err := e.Execute(ctx, nil)
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})

	t.Run("first step needs an input", func(t *testing.T) {
		_, err := e.Execute(ctx, []Step{{Method: "compress_pdf", Args: map[string]any{}}})
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
		assert.Contains(t, err.Error(), "input_path")
	})

	t.Run("unknown method aborts", func(t *testing.T) {
		_, err := e.Execute(ctx, []Step{{Method: "shred_pdf", Args: map[string]any{"input_path": "x.pdf"}}})
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})
}

func TestStepInputsList(t *testing.T) {
	e, tempDir := newTestExecutor(t)
	dir := t.TempDir()
	ctx := context.Background()

	a := pdftest.NewPDF(t, dir, "a.pdf", 1, "alpha")
	b := pdftest.NewPDF(t, dir, "b.pdf", 2, "beta")
	final := filepath.Join(dir, "merged.pdf")

	out, err := e.Execute(ctx, []Step{
		{Method: "merge_pdfs", Args: map[string]any{
			"input_paths": []any{a, b},
			"output_path": final,
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, final, out)
	assert.Equal(t, 3, pdftest.PageCount(t, final))

	leftovers, err := filepath.Glob(filepath.Join(tempDir, "workflow_*.pdf"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestLoadSteps(t *testing.T) {
	dir := t.TempDir()

	t.Run("well-formed document", func(t *testing.T) {
		path := filepath.Join(dir, "flow.yaml")
		doc := `steps:
  - method: rotate_pdf
    args:
      input_path: in.pdf
      rotation: 90
  - method: compress_pdf
    args:
      output_path: out.pdf
`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		steps, err := LoadSteps(path)
		require.NoError(t, err)
		require.Len(t, steps, 2)
		assert.Equal(t, "rotate_pdf", steps[0].Method)
		assert.Equal(t, 90, steps[0].Args["rotation"])
		assert.Equal(t, "out.pdf", steps[1].Args["output_path"])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSteps(filepath.Join(dir, "ghost.yaml"))
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})

	t.Run("no steps", func(t *testing.T) {
		path := filepath.Join(dir, "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("steps: []\n"), 0o600))

		_, err := LoadSteps(path)
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("steps: {nope\n"), 0o600))

		_, err := LoadSteps(path)
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})
}
