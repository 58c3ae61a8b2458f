package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docforge/pdfops/internal/pdferr"
)

func TestParsePageRange(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		total int
		want  []int
	}{
		{"single page", "3", 10, []int{3}},
		{"simple range", "2-4", 10, []int{2, 3, 4}},
		{"mixed", "1-3,5,7-9", 10, []int{1, 2, 3, 5, 7, 8, 9}},
		{"duplicates collapse", "1,1,1-2", 10, []int{1, 2}},
		{"unordered input sorts", "9,1,5", 10, []int{1, 5, 9}},
		{"all keyword", "all", 3, []int{1, 2, 3}},
		{"empty means all", "", 3, []int{1, 2, 3}},
		{"open end", "8-", 10, []int{8, 9, 10}},
		{"open start", "-3", 10, []int{1, 2, 3}},
		{"whitespace tolerated", " 1 , 3 - 4 ", 10, []int{1, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePageRange(tt.spec, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePageRangeErrors(t *testing.T) {
	tests := []struct {
		name  string
		spec  string
		total int
	}{
		{"reversed range", "5-3", 10},
		{"zero page", "0", 10},
		{"negative page", "0-2", 10},
		{"beyond last page", "11", 10},
		{"range beyond last page", "9-12", 10},
		{"garbage token", "abc", 10},
		{"garbage bound", "1-x", 10},
		{"empty token", "1,,3", 10},
		{"empty document", "1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePageRange(tt.spec, tt.total)
			require.Error(t, err)
			assert.True(t, pdferr.IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestParsePageRangeIdempotent(t *testing.T) {
	first, err := ParsePageRange("1-3,5", 10)
	require.NoError(t, err)
	second, err := ParsePageRange("1-3,5", 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCheckPages(t *testing.T) {
	assert.NoError(t, CheckPages([]int{1, 2, 3}, 3, true))
	assert.NoError(t, CheckPages([]int{2, 2}, 3, false))

	err := CheckPages([]int{2, 2}, 3, true)
	require.Error(t, err)
	assert.True(t, pdferr.IsValidation(err))

	assert.Error(t, CheckPages(nil, 3, false))
	assert.Error(t, CheckPages([]int{4}, 3, false))
	assert.Error(t, CheckPages([]int{0}, 3, false))
}
