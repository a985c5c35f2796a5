package view

// Row window defaults for the order table.
const (
	DefaultRowHeight = 56
	DefaultOverscan  = 8
)

// VirtualRow is one row a RowWindow reports as mounted.
type VirtualRow struct {
	Index int `json:"index"`
	Start int `json:"start"`
	Size  int `json:"size"`
}

// RowWindow decides which rows of a page are materialized. Scroll geometry
// belongs to the implementation.
type RowWindow interface {
	Range(count, estimate, overscan int) []VirtualRow
}

// FixedViewport is a RowWindow over a viewport of fixed pixel height.
type FixedViewport struct {
	Height    int
	ScrollTop int
}

// Range returns the rows intersecting the viewport widened by overscan rows
// on each side. A non-positive height mounts every row.
func (v FixedViewport) Range(count, estimate, overscan int) []VirtualRow {
	if count <= 0 {
		return nil
	}
	if estimate <= 0 {
		estimate = DefaultRowHeight
	}
	overscan = max(overscan, 0)

	first, last := 0, count-1
	if v.Height > 0 {
		top := max(v.ScrollTop, 0)
		first = top / estimate
		last = (top + v.Height - 1) / estimate
	}
	first = max(first-overscan, 0)
	last = min(last+overscan, count-1)
	if first > last {
		return nil
	}

	rows := make([]VirtualRow, 0, last-first+1)
	for i := first; i <= last; i++ {
		rows = append(rows, VirtualRow{Index: i, Start: i * estimate, Size: estimate})
	}
	return rows
}
