package view

import (
	"fmt"

	"github.com/user/orderdesk/internal/model"
)

// Page is the visible slice of a sorted result.
type Page struct {
	Rows  []model.Order `json:"rows"`
	Index int           `json:"pageIndex"`
	Size  int           `json:"pageSize"`
	Count int           `json:"pageCount"`
	Total int           `json:"total"`
}

// Window slices sorted into the page at index. The index is clamped into
// [0, pageCount-1]; an empty result still has one (empty) page.
// size must be positive, see model.ValidatePageSize.
func Window(sorted []model.Order, index, size int) Page {
	if size <= 0 {
		size = model.DefaultPageSize
	}
	total := len(sorted)
	count := PageCount(total, size)
	index = max(0, min(index, count-1))

	start := index * size
	end := min(start+size, total)
	rows := []model.Order{}
	if start < total {
		rows = sorted[start:end:end]
	}

	return Page{
		Rows:  rows,
		Index: index,
		Size:  size,
		Count: count,
		Total: total,
	}
}

// PageCount returns ceil(total/size), never less than one.
func PageCount(total, size int) int {
	if size <= 0 || total == 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Refs returns the refs of the page rows in display order.
func (p Page) Refs() []string {
	refs := make([]string, len(p.Rows))
	for i := range p.Rows {
		refs[i] = p.Rows[i].Ref
	}
	return refs
}

// First returns the 1-based position of the first row, or 0 when empty.
func (p Page) First() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return p.Index*p.Size + 1
}

// Last returns the 1-based position of the last row, or 0 when empty.
func (p Page) Last() int {
	if len(p.Rows) == 0 {
		return 0
	}
	return p.Index*p.Size + len(p.Rows)
}

// Label renders the result summary shown under the table.
func (p Page) Label() string {
	if p.Total == 0 {
		return "Showing 0 results"
	}
	return fmt.Sprintf("Showing %d–%d of %d results", p.First(), p.Last(), p.Total)
}
