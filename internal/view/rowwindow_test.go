package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func indexes(rows []VirtualRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Index
	}
	return out
}

func TestFixedViewport(t *testing.T) {
	t.Run("zero height mounts every row", func(t *testing.T) {
		rows := FixedViewport{}.Range(5, 56, 8)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, indexes(rows))
		assert.Equal(t, 112, rows[2].Start)
		assert.Equal(t, 56, rows[2].Size)
	})

	t.Run("viewport plus overscan", func(t *testing.T) {
		// rows 10..14 intersect [560, 840)
		rows := FixedViewport{Height: 280, ScrollTop: 560}.Range(100, 56, 2)
		assert.Equal(t, []int{8, 9, 10, 11, 12, 13, 14, 15, 16}, indexes(rows))
	})

	t.Run("overscan is clipped at the ends", func(t *testing.T) {
		rows := FixedViewport{Height: 112}.Range(3, 56, 8)
		assert.Equal(t, []int{0, 1, 2}, indexes(rows))
	})

	t.Run("no rows", func(t *testing.T) {
		assert.Empty(t, FixedViewport{Height: 100}.Range(0, 56, 8))
	})

	t.Run("scrolled past the end", func(t *testing.T) {
		assert.Empty(t, FixedViewport{Height: 56, ScrollTop: 10000}.Range(3, 56, 0))
	})
}
