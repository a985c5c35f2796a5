package view

import (
	"slices"
)

// Tracker holds the set of selected order refs. Identity is the ref, so a
// selection survives re-sorting and paging.
type Tracker struct {
	refs map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{refs: make(map[string]struct{})}
}

// Toggle flips ref and returns its new state.
func (t *Tracker) Toggle(ref string) bool {
	if _, ok := t.refs[ref]; ok {
		delete(t.refs, ref)
		return false
	}
	t.refs[ref] = struct{}{}
	return true
}

// Set selects or deselects ref.
func (t *Tracker) Set(ref string, on bool) {
	if on {
		t.refs[ref] = struct{}{}
	} else {
		delete(t.refs, ref)
	}
}

// SetAll replaces the selection with refs.
func (t *Tracker) SetAll(refs []string) {
	t.refs = make(map[string]struct{}, len(refs))
	for _, r := range refs {
		t.refs[r] = struct{}{}
	}
}

// Clear empties the selection.
func (t *Tracker) Clear() {
	clear(t.refs)
}

// Contains reports whether ref is selected.
func (t *Tracker) Contains(ref string) bool {
	_, ok := t.refs[ref]
	return ok
}

// Len returns the number of selected refs.
func (t *Tracker) Len() int {
	return len(t.refs)
}

// Refs returns the selected refs in sorted order.
func (t *Tracker) Refs() []string {
	out := make([]string, 0, len(t.refs))
	for r := range t.refs {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

// SelectPage adds or removes exactly the refs of page. Selections on other
// pages are left alone.
func (t *Tracker) SelectPage(page Page, on bool) {
	for i := range page.Rows {
		t.Set(page.Rows[i].Ref, on)
	}
}

// PageSelected reports whether every row of a non-empty page is selected.
func (t *Tracker) PageSelected(page Page) bool {
	if len(page.Rows) == 0 {
		return false
	}
	for i := range page.Rows {
		if !t.Contains(page.Rows[i].Ref) {
			return false
		}
	}
	return true
}

// ApplyRowSelection translates row positions of the rendered page into refs.
// true selects and false deselects; positions outside the page are ignored.
func (t *Tracker) ApplyRowSelection(page Page, rows map[int]bool) {
	for pos, on := range rows {
		if pos < 0 || pos >= len(page.Rows) {
			continue
		}
		t.Set(page.Rows[pos].Ref, on)
	}
}

// RowSelection maps the selection back onto row positions of page.
func (t *Tracker) RowSelection(page Page) map[int]bool {
	out := make(map[int]bool)
	for i := range page.Rows {
		if t.Contains(page.Rows[i].Ref) {
			out[i] = true
		}
	}
	return out
}

// Retain drops every selected ref not in refs and returns how many were
// removed.
func (t *Tracker) Retain(refs map[string]struct{}) int {
	removed := 0
	for r := range t.refs {
		if _, ok := refs[r]; !ok {
			delete(t.refs, r)
			removed++
		}
	}
	return removed
}
