package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/user/orderdesk/internal/model"
)

func TestWindow(t *testing.T) {
	t.Run("out of range index clamps to last page", func(t *testing.T) {
		a1 := order("A1", model.StatusBooked, "100.00 NOK")
		a2 := order("A2", model.StatusClosed, "50.00 NOK")
		p := Window([]model.Order{a1, a2}, 5, 1)
		assert.Equal(t, 2, p.Count)
		assert.Equal(t, 1, p.Index)
		assert.Equal(t, []string{"A2"}, refs(p.Rows))
	})

	t.Run("negative index clamps to first page", func(t *testing.T) {
		p := Window(generated(5), -3, 2)
		assert.Equal(t, 0, p.Index)
		assert.Equal(t, []string{"GEN01", "GEN02"}, refs(p.Rows))
	})

	t.Run("empty result has one empty page", func(t *testing.T) {
		p := Window(nil, 3, 10)
		assert.Equal(t, 1, p.Count)
		assert.Equal(t, 0, p.Index)
		assert.Empty(t, p.Rows)
		assert.Equal(t, "Showing 0 results", p.Label())
	})

	t.Run("last page is truncated", func(t *testing.T) {
		p := Window(generated(64), 6, 10)
		assert.Equal(t, 7, p.Count)
		assert.Len(t, p.Rows, 4)
		assert.Equal(t, "Showing 61–64 of 64 results", p.Label())
	})

	t.Run("first page label", func(t *testing.T) {
		p := Window(generated(64), 0, 10)
		assert.Equal(t, "Showing 1–10 of 64 results", p.Label())
		assert.Equal(t, 1, p.First())
		assert.Equal(t, 10, p.Last())
	})

	t.Run("pages cover the result exactly once", func(t *testing.T) {
		sorted := generated(23)
		for _, size := range []int{1, 4, 10, 23, 50} {
			var seen []string
			count := PageCount(len(sorted), size)
			for i := 0; i < count; i++ {
				seen = append(seen, Window(sorted, i, size).Refs()...)
			}
			assert.Equal(t, refs(sorted), seen, "page size %d", size)
		}
	})

	t.Run("rows do not alias beyond the page", func(t *testing.T) {
		sorted := generated(4)
		p := Window(sorted, 0, 2)
		p.Rows = append(p.Rows, order("XX99", model.StatusBooked, "1.00"))
		assert.Equal(t, "GEN03", sorted[2].Ref)
	})
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(11, 10))
	assert.Equal(t, 7, PageCount(64, 10))
}
