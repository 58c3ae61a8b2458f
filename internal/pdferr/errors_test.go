package pdferr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationf(t *testing.T) {
	err := Validationf("page %d out of range", 9)

	assert.True(t, IsValidation(err))
	assert.False(t, IsOperation(err))
	assert.Contains(t, err.Error(), "page 9 out of range")
}

func TestOperationfKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Operationf("failed to write output: %v", cause)

	require.True(t, IsOperation(err))
	assert.ErrorIs(t, err, cause)
}

func TestWrapOperation(t *testing.T) {
	t.Run("wraps untyped errors", func(t *testing.T) {
		err := WrapOperation("merge_pdfs", errors.New("boom"))

		require.True(t, IsOperation(err))
		assert.Contains(t, err.Error(), "merge_pdfs")
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("passes validation errors through unchanged", func(t *testing.T) {
		orig := Validationf("rotation must be 90, 180 or 270")
		err := WrapOperation("rotate_pdf", orig)

		assert.Equal(t, orig, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("passes operation errors through unchanged", func(t *testing.T) {
		orig := Operationf("tesseract not found")
		err := WrapOperation("ocr_pdf_images", orig)

		assert.Equal(t, orig, err)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, WrapOperation("merge_pdfs", nil))
	})
}

func TestTypedErrorsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("step 2: %w", Validationf("missing input"))

	assert.True(t, IsValidation(err))
	assert.True(t, IsTyped(err))
}
