package transform

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/pdftest"
)

func TestRedactPDF(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := pdftest.NewPDF(t, dir, "in.pdf", 2, "alpha")
	out := filepath.Join(dir, "redacted.pdf")

	res, err := lib.RedactPDF(ctx, []string{in}, out, Params{
		"page":       1,
		"redactions": []any{[]any{50.0, 600.0, 300.0, 650.0}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.PageCount)

	t.Run("page out of range", func(t *testing.T) {
		_, err := lib.RedactPDF(ctx, []string{in}, out, Params{
			"page":       7,
			"redactions": []any{[]any{0.0, 0.0, 10.0, 10.0}},
		})
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})

	t.Run("malformed rectangles", func(t *testing.T) {
		for _, p := range []Params{
			{"page": 1},
			{"page": 1, "redactions": []any{}},
			{"page": 1, "redactions": []any{[]any{1.0, 2.0, 3.0}}},
			{"page": 1, "redactions": []any{[]any{10.0, 10.0, 5.0, 20.0}}},
			{"page": 1, "redactions": []any{[]any{"a", "b", "c", "d"}}},
		} {
			_, err := lib.RedactPDF(ctx, []string{in}, out, p)
			require.Error(t, err)
			assert.True(t, pdferr.IsValidation(err), "params %v: got %v", p, err)
		}
	})
}

func TestAnnotatePDF(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := pdftest.NewPDF(t, dir, "in.pdf", 2, "alpha")
	out := filepath.Join(dir, "annotated.pdf")

	t.Run("highlight", func(t *testing.T) {
		res, err := lib.AnnotatePDF(ctx, []string{in}, out, Params{
			"page": 1, "annotation_type": "highlight",
			"x1": 50.0, "y1": 600.0, "x2": 300.0, "y2": 650.0,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.PageCount)
	})

	t.Run("line", func(t *testing.T) {
		res, err := lib.AnnotatePDF(ctx, []string{in}, out, Params{
			"page": 2, "annotation_type": "line",
			"x1": 50.0, "y1": 100.0, "x2": 500.0, "y2": 100.0,
		})
		require.NoError(t, err)
		assert.Equal(t, 2, res.PageCount)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := lib.AnnotatePDF(ctx, []string{in}, out, Params{
			"page": 1, "annotation_type": "circle",
			"x1": 0.0, "y1": 0.0, "x2": 1.0, "y2": 1.0,
		})
		require.Error(t, err)
		assert.True(t, pdferr.IsValidation(err))
	})
}

func TestDrawOverlayCleansUpTempFile(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := pdftest.NewPDF(t, dir, "in.pdf", 1, "alpha")
	out := filepath.Join(dir, "out.pdf")

	_, err := lib.AnnotatePDF(ctx, []string{in}, out, Params{
		"page": 1, "annotation_type": "line",
		"x1": 0.0, "y1": 0.0, "x2": 100.0, "y2": 100.0,
	})
	require.NoError(t, err)

	// The intermediate overlay page must not linger in the temp directory.
	leftovers, err := filepath.Glob(filepath.Join(lib.cfg.TempDir, "pdfops_overlay_*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
