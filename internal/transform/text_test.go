package transform

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/pdfops/internal/pdferr"
	"github.com/docforge/pdfops/internal/pdftest"
)

func TestExtractText(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	in := pdftest.NewPDF(t, dir, "in.pdf", 3, "alpha")
	out := filepath.Join(dir, "text.txt")

	res, err := lib.ExtractText(ctx, []string{in}, out, nil)
	require.NoError(t, err)
	assert.Equal(t, out, res.OutputPath)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "alpha page 1")
	assert.Contains(t, string(data), "alpha page 3")

	t.Run("page selection", func(t *testing.T) {
		_, err := lib.ExtractText(ctx, []string{in}, out, Params{"pages": "2"})
		require.NoError(t, err)

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "alpha page 2")
		assert.NotContains(t, string(data), "alpha page 1")
	})
}

func TestComparePDFs(t *testing.T) {
	lib := newTestLibrary(t)
	dir := t.TempDir()
	ctx := context.Background()

	a := pdftest.NewPDF(t, dir, "a.pdf", 2, "alpha")
	b := pdftest.NewPDF(t, dir, "b.pdf", 2, "beta")

	t.Run("identical content", func(t *testing.T) {
		twin := pdftest.NewPDF(t, dir, "twin.pdf", 2, "alpha")
		res, err := lib.ComparePDFs(ctx, []string{a, twin}, "", nil)
		require.NoError(t, err)
		assert.Contains(t, res.Message, "identical")
	})

	t.Run("differing content writes a diff", func(t *testing.T) {
		out := filepath.Join(dir, "diff.txt")
		res, err := lib.ComparePDFs(ctx, []string{a, b}, out, nil)
		require.NoError(t, err)
		assert.Contains(t, res.Message, "differences")

		data, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(data), "-alpha page 1")
		assert.Contains(t, string(data), "+beta page 1")
	})

	t.Run("differing content without output path", func(t *testing.T) {
		res, err := lib.ComparePDFs(ctx, []string{a, b}, "", nil)
		require.NoError(t, err)
		assert.Contains(t, res.Message, "differs")
	})

	t.Run("requires exactly two inputs", func(t *testing.T) {
		for _, inputs := range [][]string{{a}, {a, b, a}} {
			_, err := lib.ComparePDFs(ctx, inputs, "", nil)
			require.Error(t, err)
			assert.True(t, pdferr.IsValidation(err))
		}
	})
}
