package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/user/orderdesk/internal/model"
	"github.com/user/orderdesk/internal/view"
)

// tableColumns are the order fields shown by list and browse.
var tableColumns = []struct {
	field  string
	header string
	max    int
}{
	{"ref", "Ref", 12},
	{"created", "Created", 17},
	{"customer", "Customer", 24},
	{"products", "Products", 30},
	{"status", "Status", 9},
	{"delivery", "Delivery", 15},
	{"price", "Price", 14},
}

// printTable writes rows with a selection marker column.
func printTable(w io.Writer, rows []model.Order, selected func(ref string) bool) {
	widths := make([]int, len(tableColumns))
	for i, col := range tableColumns {
		widths[i] = runewidth.StringWidth(col.header)
		for j := range rows {
			if n := runewidth.StringWidth(rows[j].Field(col.field)); n > widths[i] {
				widths[i] = n
			}
		}
		// Cap column widths for readability
		if widths[i] > col.max {
			widths[i] = col.max
		}
	}

	headerParts := []string{" "}
	separatorParts := []string{"-"}
	for i, col := range tableColumns {
		headerParts = append(headerParts, runewidth.FillRight(col.header, widths[i]))
		separatorParts = append(separatorParts, strings.Repeat("-", widths[i]))
	}
	fmt.Fprintln(w, strings.TrimRight(strings.Join(headerParts, "  "), " "))
	fmt.Fprintln(w, strings.Join(separatorParts, "  "))

	for j := range rows {
		mark := " "
		if selected != nil && selected(rows[j].Ref) {
			mark = "*"
		}
		parts := []string{mark}
		for i, col := range tableColumns {
			val := runewidth.Truncate(rows[j].Field(col.field), widths[i], "...")
			parts = append(parts, runewidth.FillRight(val, widths[i]))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}
}

// printChips writes the active filter chips on one line.
func printChips(w io.Writer, chips []view.Chip) {
	if len(chips) == 0 {
		return
	}
	labels := make([]string, len(chips))
	for i, c := range chips {
		labels[i] = "[" + c.Label + "]"
	}
	fmt.Fprintln(w, "Filters:", strings.Join(labels, " "))
}

// printView writes the page table followed by chips and the result label.
func printView(w io.Writer, state view.ViewState) {
	if state.Total == 0 {
		fmt.Fprintln(w, "No orders found.")
	} else {
		selected := make(map[string]bool, len(state.Selection))
		for _, ref := range state.Selection {
			selected[ref] = true
		}
		printTable(w, state.Rows, func(ref string) bool { return selected[ref] })
	}

	fmt.Fprintln(w)
	printChips(w, state.Chips)
	fmt.Fprintf(w, "%s (page %d of %d, %d per page)\n",
		state.Label, state.PageIndex+1, max(state.PageCount, 1), state.PageSize)
	if n := len(state.Selection); n > 0 {
		fmt.Fprintf(w, "%d selected\n", n)
	}
}
