package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/user/orderdesk/internal/config"
	"github.com/user/orderdesk/internal/export"
	"github.com/user/orderdesk/internal/metrics"
	"github.com/user/orderdesk/internal/model"
	"github.com/user/orderdesk/internal/query"
	"github.com/user/orderdesk/internal/storage"
	"github.com/user/orderdesk/internal/view"
	"github.com/user/orderdesk/internal/watch"
)

var (
	browseWatch       bool
	browseMetricsAddr string
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse orders interactively",
	Long: `Start an interactive session over the order list.

Search text is applied after the configured debounce delay, or at once
with 'go'. Filters, sort, page and selection behave as in the web table:
changing a filter returns to page 1 and clears the selection, while
sorting and paging keep it.

With --watch the order file is reloaded whenever it changes on disk.
With --metrics-addr Prometheus metrics are served on /metrics.

Type 'help' inside the session for commands.

Examples:
  orderdesk browse
  orderdesk browse --watch --metrics-addr 127.0.0.1:9464`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().BoolVar(&browseWatch, "watch", false, "Reload orders when the order file changes")
	browseCmd.Flags().StringVar(&browseMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	b := &browser{
		store:  e.store,
		cfg:    e.cfg,
		logf:   e.logger.Printf,
		out:    os.Stdout,
		window: view.FixedViewport{Height: e.cfg.RowHeight * visibleRows},
	}
	engine, ok := e.newEngine(b.searchApplied)
	if !ok {
		return nil
	}
	defer engine.Close()
	b.engine = engine

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if browseMetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, browseMetricsAddr); err != nil {
				e.logger.Printf("Metrics server stopped: %v", err)
			}
		}()
		e.logger.Printf("Serving metrics on http://%s/metrics", browseMetricsAddr)
	}

	if browseWatch {
		w, err := watch.NewWatcher(e.store.BaseDir(), storage.OrdersFile, b.reload, e.logger.Printf)
		if err != nil {
			return fmt.Errorf("failed to create watcher: %w", err)
		}
		defer w.Close()
		if err := w.Start(); err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
	}

	return b.run(filepath.Join(e.cfg.DataDirAbs, "history"))
}

// visibleRows is the viewport height of the browse window, in rows.
const visibleRows = 12

// browser is one interactive session.
type browser struct {
	engine *view.Engine
	store  *storage.Store
	cfg    config.Config
	logf   func(format string, args ...interface{})
	window view.FixedViewport

	outMu sync.Mutex
	out   io.Writer
}

func (b *browser) printf(format string, args ...interface{}) {
	b.outMu.Lock()
	defer b.outMu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

// searchApplied runs when a debounced search term reaches the filter.
func (b *browser) searchApplied(term string) {
	state := b.engine.View()
	if term == "" {
		b.printf("Search cleared. %s\n", state.Label)
		return
	}
	b.printf("Search %q applied. %s\n", term, state.Label)
}

// reload re-reads the order file into the engine.
func (b *browser) reload() error {
	orders, err := b.store.ReadAll()
	if err != nil {
		return err
	}
	b.engine.SetOrders(orders)
	b.printf("Reloaded %d orders. %s\n", len(orders), b.engine.View().Label)
	return nil
}

// run starts the REPL loop.
func (b *browser) run(historyPath string) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(b.completer)

	if f, err := os.Open(historyPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	b.printf("orderdesk - %d orders loaded from %s\n", b.engine.View().Loaded, b.store.OrdersPath())
	b.printf("Type 'help' for available commands.\n\n")
	b.exec("ls")

	for {
		input, err := line.Prompt("orders> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				b.printf("\nBye!\n")
				break
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if b.exec(input) {
			break
		}
	}

	if f, err := os.Create(historyPath); err == nil {
		line.WriteHistory(f)
		f.Close()
	}
	return nil
}

var browseCommands = []string{
	"help", "ls", "window", "scroll", "json", "query",
	"search", "go", "status", "department", "delivery", "creator", "tag", "dist",
	"min", "max", "date", "chips", "rm", "clear",
	"sort", "sortadd", "next", "prev", "page", "size",
	"sel", "row", "all", "none", "unselect",
	"show", "save", "load", "filters", "export", "reload", "quit",
}

func (b *browser) completer(line string) []string {
	var completions []string
	lower := strings.ToLower(line)
	for _, cmd := range browseCommands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}
	return completions
}

// exec runs one command line. Returns true when the session should end.
func (b *browser) exec(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	rest := strings.Join(args, " ")

	var err error
	switch cmd {
	case "exit", "quit", "q":
		b.printf("Bye!\n")
		return true

	case "help", "?":
		b.printHelp()

	case "ls", "view":
		b.show()

	case "window":
		b.showWindow()

	case "scroll":
		err = b.cmdScroll(args)

	case "json":
		err = b.cmdJSON()

	case "query":
		b.printf("%s\n", b.currentQuery())

	case "search", "/":
		b.engine.TypeSearch(rest)
		b.printf("Searching for %q after %s ('go' to apply now)\n", rest, b.cfg.Debounce())

	case "go":
		if !b.engine.SubmitSearch() {
			b.printf("No pending search.\n")
		}
		b.show()

	case "status":
		err = b.toggleStatus(rest)

	case "delivery":
		err = b.toggleDelivery(rest)

	case "department", "dept":
		b.toggleString(rest, func(f *model.FilterState) *[]string { return &f.Departments })

	case "creator", "created-by":
		b.toggleString(rest, func(f *model.FilterState) *[]string { return &f.CreatedBy })

	case "tag":
		b.toggleString(rest, func(f *model.FilterState) *[]string { return &f.ProductTags })

	case "dist", "distribution":
		b.toggleString(rest, func(f *model.FilterState) *[]string { return &f.Distribution })

	case "min", "max":
		err = b.cmdPrice(cmd, rest)

	case "date":
		err = b.cmdDate(args)

	case "chips":
		b.printChipList()

	case "rm":
		err = b.cmdRemoveChip(args)

	case "clear":
		b.engine.ClearAll()
		b.show()

	case "sort", "sortadd":
		err = b.cmdSort(cmd == "sortadd", args)

	case "next", "n":
		b.engine.NextPage()
		b.show()

	case "prev", "p":
		b.engine.PrevPage()
		b.show()

	case "page":
		err = b.cmdPage(args)

	case "size":
		err = b.cmdSize(args)

	case "sel", "select":
		err = b.cmdSelect(args)

	case "row":
		err = b.cmdRow(args)

	case "all":
		b.engine.SelectPage(true)
		b.show()

	case "none":
		b.engine.SelectPage(false)
		b.show()

	case "unselect":
		b.engine.ClearSelection()
		b.printf("Selection cleared.\n")

	case "show":
		err = b.cmdShow(args)

	case "save":
		err = b.cmdSave(rest)

	case "load":
		err = b.cmdLoad(rest)

	case "filters":
		err = b.cmdFilters()

	case "export":
		err = b.cmdExport(args)

	case "reload":
		err = b.reload()

	default:
		b.printf("Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		b.printf("Error: %v\n", err)
	}
	return false
}

func (b *browser) printHelp() {
	b.printf(`Commands:
  ls                       Show the current page
  window                   Show the rows mounted in the scroll window
  scroll <row>             Scroll the window to a row of the page
  json                     Print the view state as JSON
  query                    Print the view as a query string
  search <text>            Type into the search box (debounced)
  go                       Apply pending search text now
  status <status>          Toggle a status filter (e.g. "status In Cart")
  delivery <status>        Toggle a delivery filter ('-' for unset)
  department <name>        Toggle a department filter
  creator <name>           Toggle a created-by filter
  tag <tag>                Toggle a product tag filter
  dist <text>              Toggle a distribution filter
  min <amount|->           Set or clear the minimum price
  max <amount|->           Set or clear the maximum price
  date <preset|from to|->  Date preset, custom range or clear
  chips                    List active filter chips
  rm <n>                   Remove chip n
  clear                    Remove every filter
  sort <column>            Sort by one column (asc, desc, off)
  sortadd <column>         Add a column to the sort (asc, desc, off)
  next / prev / page <n>   Move between pages
  size <n>                 Rows per page
  sel <ref>...             Toggle selection of orders
  row <n>...               Toggle selection of rows on this page
  all / none               Select or deselect this page
  unselect                 Clear the whole selection
  show <ref>               Show order details
  save <name>              Save the current filter
  load <name|id>           Apply a saved filter
  filters                  List saved filters
  export <file> [format]   Export the selection, or all matches
  reload                   Re-read the order file
  quit                     Exit
`)
}

func (b *browser) show() {
	b.outMu.Lock()
	defer b.outMu.Unlock()
	printView(b.out, b.engine.View())
}

func (b *browser) showWindow() {
	rows := b.engine.Materialize(b.window, b.cfg.RowHeight, b.cfg.Overscan)
	if len(rows) == 0 {
		b.printf("No rows.\n")
		return
	}
	for _, r := range rows {
		mark := " "
		if r.Selected {
			mark = "*"
		}
		b.printf("%s %3d  %5dpx  %-6s %s\n", mark, r.Index+1, r.Start, r.Order.Ref, r.Order.Customer)
	}
}

func (b *browser) cmdScroll(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: scroll <row>")
	}
	row, err := strconv.Atoi(args[0])
	if err != nil || row < 1 {
		return fmt.Errorf("invalid row %q", args[0])
	}
	b.window.ScrollTop = (row - 1) * b.cfg.RowHeight
	b.showWindow()
	return nil
}

func (b *browser) cmdJSON() error {
	data, err := json.MarshalIndent(b.engine.View(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	b.printf("%s\n", data)
	return nil
}

func (b *browser) currentQuery() string {
	state := b.engine.View()
	return query.Encode(query.Request{
		Filter: state.Filter,
		Sort:   state.Sort,
		Page:   state.PageIndex,
		Size:   state.PageSize,
	})
}

func (b *browser) toggleStatus(s string) error {
	st, err := model.ParseStatus(s)
	if err != nil {
		return err
	}
	b.engine.UpdateFilter(func(f *model.FilterState) {
		f.Statuses = model.Toggle(f.Statuses, st)
	})
	b.show()
	return nil
}

func (b *browser) toggleDelivery(s string) error {
	d, err := model.ParseDelivery(s)
	if err != nil {
		return err
	}
	b.engine.UpdateFilter(func(f *model.FilterState) {
		f.DeliveryStatuses = model.Toggle(f.DeliveryStatuses, d)
	})
	b.show()
	return nil
}

func (b *browser) toggleString(v string, field func(*model.FilterState) *[]string) {
	if v == "" {
		b.printf("Error: a value is required\n")
		return
	}
	b.engine.UpdateFilter(func(f *model.FilterState) {
		set := field(f)
		*set = model.Toggle(*set, v)
	})
	b.show()
}

func (b *browser) cmdPrice(which, v string) error {
	var bound *float64
	if v != "-" && v != "" {
		d, ok := model.ParsePrice(v)
		if !ok {
			return fmt.Errorf("%w: %q", model.ErrInvalidPrice, v)
		}
		f := d.InexactFloat64()
		bound = &f
	}
	b.engine.UpdateFilter(func(f *model.FilterState) {
		if which == "min" {
			f.PriceRange.Min = bound
		} else {
			f.PriceRange.Max = bound
		}
	})
	b.show()
	return nil
}

func (b *browser) cmdDate(args []string) error {
	var r *model.DateRange
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "-"):
		r = nil
	case len(args) == 2 && looksLikeDate(args[0]):
		from, err := query.ParseDate(args[0], false)
		if err != nil {
			return err
		}
		to, err := query.ParseDate(args[1], true)
		if err != nil {
			return err
		}
		r = model.CustomRange(&from, &to)
	default:
		var err error
		if r, err = model.DatePreset(strings.Join(args, " "), time.Now()); err != nil {
			return err
		}
	}
	b.engine.UpdateFilter(func(f *model.FilterState) {
		f.DateRange = r
	})
	b.show()
	return nil
}

func looksLikeDate(s string) bool {
	return len(s) >= 10 && s[4] == '-'
}

func (b *browser) printChipList() {
	chips := b.engine.Chips()
	if len(chips) == 0 {
		b.printf("No active filters.\n")
		return
	}
	for i, c := range chips {
		b.printf("%2d  %s\n", i+1, c.Label)
	}
}

func (b *browser) cmdRemoveChip(args []string) error {
	chips := b.engine.Chips()
	if len(args) != 1 {
		return errors.New("usage: rm <chip number> (see 'chips')")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(chips) {
		return fmt.Errorf("no chip %q (see 'chips')", args[0])
	}
	c := chips[n-1]
	b.engine.RemoveChip(c.Key, c.Value)
	b.show()
	return nil
}

func (b *browser) cmdSort(multi bool, args []string) error {
	if len(args) == 0 {
		spec := b.engine.Sort()
		if len(spec) == 0 {
			b.printf("Unsorted.\n")
		} else {
			b.printf("Sort: %s\n", spec)
		}
		return nil
	}
	key, err := model.ParseSortKey(args[0])
	if err != nil {
		return err
	}
	b.engine.ToggleSort(key, multi)
	b.show()
	return nil
}

func (b *browser) cmdPage(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid page %q", args[0])
	}
	b.engine.SetPage(n - 1)
	b.show()
	return nil
}

func (b *browser) cmdSize(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: size <n> (offered: %v)", model.PageSizes)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q", model.ErrInvalidPageSize, args[0])
	}
	if err := b.engine.SetPageSize(n); err != nil {
		return err
	}
	b.show()
	return nil
}

func (b *browser) cmdSelect(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: sel <ref>...")
	}
	for _, ref := range args {
		ref = strings.ToUpper(ref)
		if _, ok := b.engine.Lookup(ref); !ok {
			return fmt.Errorf("%w: %s", model.ErrOrderNotFound, ref)
		}
		if b.engine.Toggle(ref) {
			b.printf("Selected %s\n", ref)
		} else {
			b.printf("Deselected %s\n", ref)
		}
	}
	return nil
}

func (b *browser) cmdRow(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: row <n>...")
	}
	rows := b.engine.RowSelection()
	count := len(b.engine.View().Rows)
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 || n > count {
			return fmt.Errorf("no row %q on this page", a)
		}
		rows[n-1] = !rows[n-1]
	}
	b.engine.ApplyRowSelection(rows)
	b.show()
	return nil
}

func (b *browser) cmdShow(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: show <ref>")
	}
	ref := strings.ToUpper(args[0])
	o, ok := b.engine.Lookup(ref)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrOrderNotFound, ref)
	}
	b.outMu.Lock()
	defer b.outMu.Unlock()
	writeOrder(b.out, o)
	return nil
}

func (b *browser) cmdSave(name string) error {
	saved, err := b.store.Filters().Save(name, b.engine.ActiveFilter())
	if err != nil {
		return err
	}
	b.logf("Saved filter %s (%s)", saved.Name, saved.ID)
	b.printf("Saved filter '%s' (%s)\n", saved.Name, saved.ID)
	return nil
}

func (b *browser) cmdLoad(name string) error {
	saved, err := b.store.Filters().Find(name)
	if err != nil {
		return err
	}
	b.engine.ApplySaved(saved)
	b.show()
	return nil
}

func (b *browser) cmdFilters() error {
	list, err := b.store.Filters().List()
	if err != nil {
		return err
	}
	if len(list) == 0 {
		b.printf("No saved filters.\n")
		return nil
	}
	for _, f := range list {
		b.printf("%s  %s\n", f.ID, f.Name)
	}
	return nil
}

func (b *browser) cmdExport(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: export <file> [format]")
	}
	path := args[0]
	format, ok := export.FormatFromPath(path)
	if len(args) == 2 {
		f, err := export.ParseFormat(args[1])
		if err != nil {
			return err
		}
		format, ok = f, true
	}
	if !ok {
		format = export.FormatCSV
	}

	orders := b.engine.ExportRows()
	if err := export.WriteFile(path, format, orders); err != nil {
		return err
	}
	b.printf("Exported %d order(s) to %s\n", len(orders), path)
	return nil
}
