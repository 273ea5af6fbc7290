package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirst(t *testing.T) {
	row := Row{
		"Total":        "100.00",
		"total_amount": "999.00",
		"empty":        "   ",
		"null":         nil,
		"number":       float64(42),
		"whole":        float64(100),
		"flag":         true,
		"nested":       map[string]any{"x": 1},
	}

	t.Run("candidates tried in order", func(t *testing.T) {
		v, ok := First(row, "Total", "total_amount")
		require.True(t, ok)
		assert.Equal(t, "100.00", v)
	})

	t.Run("falls through to later candidate", func(t *testing.T) {
		v, ok := First(row, "grand_total", "total_amount")
		require.True(t, ok)
		assert.Equal(t, "999.00", v)
	})

	t.Run("blank string is absent", func(t *testing.T) {
		_, ok := First(row, "empty")
		assert.False(t, ok)
	})

	t.Run("null is absent", func(t *testing.T) {
		_, ok := First(row, "null")
		assert.False(t, ok)
	})

	t.Run("missing key is absent", func(t *testing.T) {
		_, ok := First(row, "nope")
		assert.False(t, ok)
	})

	t.Run("numbers coerce without exponent", func(t *testing.T) {
		v, ok := First(row, "number")
		require.True(t, ok)
		assert.Equal(t, "42", v)

		v, ok = First(row, "whole")
		require.True(t, ok)
		assert.Equal(t, "100", v)
	})

	t.Run("bools coerce", func(t *testing.T) {
		v, ok := First(row, "flag")
		require.True(t, ok)
		assert.Equal(t, "true", v)
	})

	t.Run("non-scalars are skipped", func(t *testing.T) {
		_, ok := First(row, "nested")
		assert.False(t, ok)
	})

	t.Run("blank value falls through to next candidate", func(t *testing.T) {
		v, ok := First(row, "empty", "Total")
		require.True(t, ok)
		assert.Equal(t, "100.00", v)
	})
}

func TestList(t *testing.T) {
	row := Row{
		"Payments": []any{
			map[string]any{"Amount": "50.00"},
			"not an object",
			map[string]any{"Amount": "10.00"},
		},
	}

	rows, ok := List(row, "payments", "Payments")
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "50.00", rows[0]["Amount"])

	_, ok = List(row, "Transactions")
	assert.False(t, ok)
}
