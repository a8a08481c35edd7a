package gobblers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	t.Run("Valid sizes", func(t *testing.T) {
		size, err := ParseSize("3")
		require.NoError(t, err)
		assert.Equal(t, 3, size)

		size, err = ParseSize(" 6\n")
		require.NoError(t, err)
		assert.Equal(t, 6, size)
	})

	t.Run("Invalid sizes", func(t *testing.T) {
		for _, raw := range []string{"", "0", "7", "10", "-1", "asdfadsfads", "2.5"} {
			_, err := ParseSize(raw)
			assert.ErrorIs(t, err, ErrInvalidSize, "input %q", raw)
		}
	})
}

func TestParseCell(t *testing.T) {
	t.Run("Valid cells", func(t *testing.T) {
		cell, err := ParseCell("1")
		require.NoError(t, err)
		assert.Equal(t, 1, cell)

		cell, err = ParseCell("9")
		require.NoError(t, err)
		assert.Equal(t, 9, cell)
	})

	t.Run("Invalid cells", func(t *testing.T) {
		for _, raw := range []string{"0", "10", "x", "one"} {
			_, err := ParseCell(raw)
			assert.ErrorIs(t, err, ErrInvalidCell, "input %q", raw)
		}
	})
}
