package view

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/user/orderdesk/internal/debounce"
	"github.com/user/orderdesk/internal/metrics"
	"github.com/user/orderdesk/internal/model"
	"golang.org/x/text/language"
)

// LogFunc is called to log messages.
type LogFunc func(format string, args ...interface{})

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	PageSize int
	Debounce time.Duration
	Language language.Tag
	Currency string
	Log      LogFunc

	// OnSearch is called after a debounced search term has been applied,
	// outside the engine lock.
	OnSearch func(term string)
}

// ViewState is everything a surface needs to render the list.
type ViewState struct {
	Rows          []model.Order     `json:"rows"`
	PageIndex     int               `json:"pageIndex"`
	PageSize      int               `json:"pageSize"`
	PageCount     int               `json:"pageCount"`
	Total         int               `json:"total"`
	Loaded        int               `json:"loaded"`
	Label         string            `json:"label"`
	Chips         []Chip            `json:"chips"`
	Selection     []string          `json:"selection"`
	PageSelected  bool              `json:"pageSelected"`
	Search        string            `json:"search"`
	SearchText    string            `json:"searchText"`
	SearchPending bool              `json:"searchPending"`
	Sort          model.SortSpec    `json:"sort"`
	Filter        model.FilterState `json:"filter"`
}

// VisibleRow is a page row the RowWindow reported as mounted.
type VisibleRow struct {
	VirtualRow
	Order    model.Order `json:"order"`
	Selected bool        `json:"selected"`
}

// Engine owns the list view inputs and derives the visible page from them.
// All methods are safe for concurrent use; the debounce gate and the file
// watcher call in from their own goroutines.
type Engine struct {
	mu sync.Mutex

	orders     []model.Order
	generation uint64

	filter     model.FilterState // explicit fields; Search is ignored
	searchText string
	search     string // debounced term
	sort       model.SortSpec
	pageIndex  int
	pageSize   int
	selection  *Tracker

	comparator *Comparator
	currency   string
	gate       *debounce.Gate[string]
	logFn      LogFunc
	onSearch   func(string)

	memo memo
}

// memo caches the two expensive stages keyed on their inputs.
type memo struct {
	filterKey string
	filtered  []model.Order
	sortKey   string
	sorted    []model.Order
}

// NewEngine creates an engine over orders.
func NewEngine(orders []model.Order, opts Options) (*Engine, error) {
	if opts.PageSize == 0 {
		opts.PageSize = model.DefaultPageSize
	}
	if err := model.ValidatePageSize(opts.PageSize); err != nil {
		return nil, err
	}
	if opts.Language == language.Und {
		opts.Language = DefaultLanguage
	}
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	if opts.Log == nil {
		opts.Log = func(format string, args ...interface{}) {} // no-op
	}

	e := &Engine{
		pageSize:   opts.PageSize,
		selection:  NewTracker(),
		comparator: NewComparator(opts.Language),
		currency:   opts.Currency,
		logFn:      opts.Log,
		onSearch:   opts.OnSearch,
	}
	e.gate = debounce.New(opts.Debounce, e.commitSearch)
	e.setOrdersLocked(orders)
	return e, nil
}

// Close stops the debounce gate. Pending search text is dropped.
func (e *Engine) Close() {
	e.gate.Close()
}

// SetOrders replaces the dataset. The selection is pruned to refs that
// still exist; filter, sort and page are kept.
func (e *Engine) SetOrders(orders []model.Order) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setOrdersLocked(orders)
	metrics.StoreReloads.Inc()
}

func (e *Engine) setOrdersLocked(orders []model.Order) {
	e.orders = slices.Clone(orders)
	e.generation++

	refs := make(map[string]struct{}, len(orders))
	for i := range orders {
		refs[orders[i].Ref] = struct{}{}
	}
	if removed := e.selection.Retain(refs); removed > 0 {
		e.logFn("Dropped %d selected refs no longer in the store", removed)
	}
	metrics.LoadedOrders.Set(float64(len(orders)))
	metrics.SelectedOrders.Set(float64(e.selection.Len()))
}

// Lookup finds an order by ref in the loaded dataset.
func (e *Engine) Lookup(ref string) (model.Order, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.orders {
		if e.orders[i].Ref == ref {
			return e.orders[i], true
		}
	}
	return model.Order{}, false
}

// ActiveFilter returns the explicit filter combined with the debounced
// search term.
func (e *Engine) ActiveFilter() model.FilterState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeLocked()
}

func (e *Engine) activeLocked() model.FilterState {
	return e.filter.WithSearch(e.search)
}

// SetFilter replaces every filter field, search included. Pending typed
// text is dropped and the search box shows state.Search.
func (e *Engine) SetFilter(state model.FilterState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setFilterLocked(state)
}

func (e *Engine) setFilterLocked(state model.FilterState) {
	e.gate.Cancel()
	e.searchText = state.Search
	e.replaceLocked(state)
}

// UpdateFilter applies fn to a copy of the active filter and stores the
// result. Typed text still waiting on the debounce delay survives unless fn
// changes the search term.
func (e *Engine) UpdateFilter(fn func(*model.FilterState)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.activeLocked().Clone()
	fn(&next)
	if next.Search != e.search {
		e.setFilterLocked(next)
		return
	}
	e.replaceLocked(next)
}

// ApplySaved loads a saved filter's state, search text included.
func (e *Engine) ApplySaved(saved model.SavedFilter) {
	e.logFn("Applying saved filter %q (%s)", saved.Name, saved.ID)
	e.SetFilter(saved.State)
}

// replaceLocked swaps in a new filter and resets page and selection when
// the active filter actually changed.
func (e *Engine) replaceLocked(state model.FilterState) {
	before := e.activeLocked().Fingerprint()

	e.filter = state.Clone()
	e.filter.Search = ""
	e.search = state.Search

	if e.activeLocked().Fingerprint() != before {
		e.resetLocked("filter changed")
	}
}

// resetLocked returns to the first page and clears the selection.
func (e *Engine) resetLocked(reason string) {
	e.pageIndex = 0
	if e.selection.Len() > 0 {
		e.logFn("Clearing %d selected orders: %s", e.selection.Len(), reason)
	}
	e.selection.Clear()
	metrics.SelectedOrders.Set(0)
}

// TypeSearch records raw search box input. The term reaches the filter
// only after the debounce delay passes without further typing.
func (e *Engine) TypeSearch(raw string) {
	e.mu.Lock()
	e.searchText = raw
	e.mu.Unlock()

	e.gate.Push(raw)
}

// SubmitSearch applies pending search text immediately. Returns false when
// nothing was pending.
func (e *Engine) SubmitSearch() bool {
	return e.gate.Flush()
}

// SearchPending reports whether typed text has not reached the filter yet.
func (e *Engine) SearchPending() bool {
	_, ok := e.gate.Pending()
	return ok
}

func (e *Engine) commitSearch(term string) {
	e.mu.Lock()
	changed := term != e.search
	if changed {
		e.search = term
		e.resetLocked("search changed")
	}
	e.mu.Unlock()

	metrics.SearchCommits.Inc()
	e.logFn("Search committed: %q", term)
	if changed && e.onSearch != nil {
		e.onSearch(term)
	}
}

// SetSort replaces the sort spec. Page and selection are kept.
func (e *Engine) SetSort(spec model.SortSpec) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sort = slices.Clone(spec)
}

// ToggleSort cycles one column as a header click would.
func (e *Engine) ToggleSort(key model.SortKey, multi bool) model.SortSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sort = e.sort.Toggle(key, multi)
	return slices.Clone(e.sort)
}

// Sort returns the current sort spec.
func (e *Engine) Sort() model.SortSpec {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.sort)
}

// SetPage moves to page index i, clamped into range.
func (e *Engine) SetPage(i int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pageIndex = i
	return e.pageLocked().Index
}

// NextPage advances one page, stopping at the last.
func (e *Engine) NextPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pageIndex = e.pageLocked().Index + 1
	return e.pageLocked().Index
}

// PrevPage goes back one page, stopping at the first.
func (e *Engine) PrevPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pageIndex = e.pageLocked().Index - 1
	return e.pageLocked().Index
}

// SetPageSize changes rows per page. A different size returns to the first
// page and clears the selection.
func (e *Engine) SetPageSize(size int) error {
	if err := model.ValidatePageSize(size); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if size != e.pageSize {
		e.pageSize = size
		e.resetLocked("page size changed")
	}
	return nil
}

// Toggle flips the selection of ref and returns its new state.
func (e *Engine) Toggle(ref string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	on := e.selection.Toggle(ref)
	metrics.SelectedOrders.Set(float64(e.selection.Len()))
	return on
}

// SelectPage selects or deselects every row of the current page.
func (e *Engine) SelectPage(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.SelectPage(e.pageLocked(), on)
	metrics.SelectedOrders.Set(float64(e.selection.Len()))
}

// ApplyRowSelection updates the selection from row positions of the
// current page.
func (e *Engine) ApplyRowSelection(rows map[int]bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.ApplyRowSelection(e.pageLocked(), rows)
	metrics.SelectedOrders.Set(float64(e.selection.Len()))
}

// RowSelection returns the selected row positions of the current page.
func (e *Engine) RowSelection() map[int]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.RowSelection(e.pageLocked())
}

// ClearSelection deselects everything.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Clear()
	metrics.SelectedOrders.Set(0)
}

// Selection returns the selected refs, sorted.
func (e *Engine) Selection() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Refs()
}

// Chips projects the active filter.
func (e *Engine) Chips() []Chip {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Project(e.activeLocked(), e.currency)
}

// RemoveChip drops one constraint. Removing the search chip clears both the
// typed text and the debounced term.
func (e *Engine) RemoveChip(key ChipKey, value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if key == ChipSearch {
		e.gate.Cancel()
		e.searchText = ""
	}
	e.replaceLocked(Remove(e.activeLocked(), key, value))
}

// ClearAll removes every constraint, search included.
func (e *Engine) ClearAll() {
	e.SetFilter(model.FilterState{})
}

// View derives the current page.
func (e *Engine) View() ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()

	page := e.pageLocked()
	_, pending := e.gate.Pending()
	return ViewState{
		Rows:          slices.Clone(page.Rows),
		PageIndex:     page.Index,
		PageSize:      page.Size,
		PageCount:     page.Count,
		Total:         page.Total,
		Loaded:        len(e.orders),
		Label:         page.Label(),
		Chips:         Project(e.activeLocked(), e.currency),
		Selection:     e.selection.Refs(),
		PageSelected:  e.selection.PageSelected(page),
		Search:        e.search,
		SearchText:    e.searchText,
		SearchPending: pending,
		Sort:          slices.Clone(e.sort),
		Filter:        e.activeLocked(),
	}
}

// ExportRows returns the selected orders in display order, or the whole
// filtered and sorted result when nothing is selected.
func (e *Engine) ExportRows() []model.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	sorted := e.sortedLocked()
	if e.selection.Len() == 0 {
		return slices.Clone(sorted)
	}
	out := make([]model.Order, 0, e.selection.Len())
	for i := range sorted {
		if e.selection.Contains(sorted[i].Ref) {
			out = append(out, sorted[i])
		}
	}
	return out
}

// Materialize returns the rows of the current page that w reports visible.
func (e *Engine) Materialize(w RowWindow, estimate, overscan int) []VisibleRow {
	e.mu.Lock()
	defer e.mu.Unlock()

	page := e.pageLocked()
	virtual := w.Range(len(page.Rows), estimate, overscan)
	out := make([]VisibleRow, 0, len(virtual))
	for _, v := range virtual {
		if v.Index < 0 || v.Index >= len(page.Rows) {
			continue
		}
		o := page.Rows[v.Index]
		out = append(out, VisibleRow{
			VirtualRow: v,
			Order:      o,
			Selected:   e.selection.Contains(o.Ref),
		})
	}
	return out
}

// pageLocked windows the sorted result and stores the clamped index.
func (e *Engine) pageLocked() Page {
	page := Window(e.sortedLocked(), e.pageIndex, e.pageSize)
	e.pageIndex = page.Index
	metrics.Recomputes.WithLabelValues(metrics.StageWindow).Inc()
	return page
}

func (e *Engine) filteredLocked() []model.Order {
	key := fmt.Sprintf("%d/%s", e.generation, e.activeLocked().Fingerprint())
	if key == e.memo.filterKey {
		metrics.MemoHits.WithLabelValues(metrics.StageFilter).Inc()
		return e.memo.filtered
	}

	filtered := Filter(e.orders, e.activeLocked())
	e.memo.filterKey = key
	e.memo.filtered = filtered
	e.memo.sortKey = ""
	metrics.Recomputes.WithLabelValues(metrics.StageFilter).Inc()
	metrics.FilteredOrders.Set(float64(len(filtered)))
	e.logFn("Filtered %d of %d orders", len(filtered), len(e.orders))
	return filtered
}

func (e *Engine) sortedLocked() []model.Order {
	filtered := e.filteredLocked()
	key := e.memo.filterKey + "/" + e.sort.String()
	if key == e.memo.sortKey {
		metrics.MemoHits.WithLabelValues(metrics.StageSort).Inc()
		return e.memo.sorted
	}

	sorted := e.comparator.Sort(filtered, e.sort)
	e.memo.sortKey = key
	e.memo.sorted = sorted
	metrics.Recomputes.WithLabelValues(metrics.StageSort).Inc()
	if len(e.sort) > 0 {
		e.logFn("Sorted %d orders by %s", len(sorted), e.sort.String())
	}
	return sorted
}
