package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/orderdesk/internal/model"
	"github.com/user/orderdesk/internal/query"
	"github.com/user/orderdesk/internal/view"
)

var filtersSaveFlags viewFlags

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Manage saved filters",
	Long: `Save, list, show and remove named filters.

A saved filter stores every constraint, search included. Apply one with
'orderdesk list --saved NAME' or 'load NAME' inside 'orderdesk browse'.
Filters are addressed by id or by name; when names repeat the newest wins.

Examples:
  orderdesk filters save "Delayed pickups" --delivery Delayed --status Booked
  orderdesk filters list
  orderdesk filters show "Delayed pickups"
  orderdesk filters rm 3f2b8c1e-...`,
}

var filtersSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the filter given by flags",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiltersSave,
}

var filtersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved filters",
	Args:  cobra.NoArgs,
	RunE:  runFiltersList,
}

var filtersShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show a saved filter as chips and as a query string",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiltersShow,
}

var filtersRmCmd = &cobra.Command{
	Use:   "rm <id|name>",
	Short: "Remove a saved filter",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiltersRm,
}

func init() {
	filtersSaveFlags.register(filtersSaveCmd.Flags(), false)
	filtersCmd.AddCommand(filtersSaveCmd, filtersListCmd, filtersShowCmd, filtersRmCmd)
	rootCmd.AddCommand(filtersCmd)
}

// savedOutput is the --json shape of a saved filter.
type savedOutput struct {
	model.SavedFilter
	Chips []view.Chip `json:"chips"`
	Query string      `json:"query"`
}

func describeSaved(f model.SavedFilter, currency string) savedOutput {
	return savedOutput{
		SavedFilter: f,
		Chips:       view.Project(f.State, currency),
		Query:       query.Encode(query.Request{Filter: f.State}),
	}
}

func runFiltersSave(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])

	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	req, err := filtersSaveFlags.request(e.store.Filters(), time.Now())
	if err != nil {
		exitForRequestError(err, filtersSaveFlags.saved)
		return nil
	}
	if req.Filter.IsZero() {
		ExitValidationError("nothing to save: give at least one filter flag", nil)
		return nil
	}

	saved, err := e.store.Filters().Save(name, req.Filter)
	if err != nil {
		exitForError(err)
		return nil
	}
	e.logger.Printf("Saved filter %s (%s)", saved.Name, saved.ID)

	if GetJSONOutput() {
		data, _ := json.Marshal(describeSaved(saved, e.cfg.Currency))
		fmt.Println(string(data))
	} else if !IsQuiet() {
		fmt.Printf("Saved filter '%s' (%s)\n", saved.Name, saved.ID)
	}
	return nil
}

func runFiltersList(cmd *cobra.Command, args []string) error {
	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	list, err := e.store.Filters().List()
	if err != nil {
		exitForError(err)
		return nil
	}

	if GetJSONOutput() {
		out := make([]savedOutput, len(list))
		for i, f := range list {
			out[i] = describeSaved(f, e.cfg.Currency)
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(list) == 0 {
		fmt.Println("No saved filters.")
		return nil
	}
	for _, f := range list {
		chips := view.Project(f.State, e.cfg.Currency)
		labels := make([]string, len(chips))
		for i, c := range chips {
			labels[i] = c.Label
		}
		fmt.Printf("%s  %-24s  %s  %s\n", f.ID, f.Name, f.CreatedAt.Local().Format("2006-01-02 15:04"),
			strings.Join(labels, "; "))
	}
	return nil
}

func runFiltersShow(cmd *cobra.Command, args []string) error {
	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	saved, err := e.store.Filters().Find(args[0])
	if err != nil {
		if errors.Is(err, model.ErrSavedFilterNotFound) {
			ExitFilterNotFound(args[0])
			return nil
		}
		exitForError(err)
		return nil
	}

	out := describeSaved(saved, e.cfg.Currency)
	if GetJSONOutput() {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("%s (%s)\n", saved.Name, saved.ID)
	fmt.Printf("  Created: %s\n", saved.CreatedAt.Local().Format(time.RFC3339))
	printChips(os.Stdout, out.Chips)
	fmt.Printf("Query: %s\n", out.Query)
	return nil
}

func runFiltersRm(cmd *cobra.Command, args []string) error {
	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	saved, err := e.store.Filters().Find(args[0])
	if err == nil {
		err = e.store.Filters().Delete(saved.ID)
	}
	if err != nil {
		if errors.Is(err, model.ErrSavedFilterNotFound) {
			ExitFilterNotFound(args[0])
			return nil
		}
		exitForError(err)
		return nil
	}

	if GetJSONOutput() {
		data, _ := json.Marshal(map[string]interface{}{"id": saved.ID, "name": saved.Name, "deleted": true})
		fmt.Println(string(data))
	} else if !IsQuiet() {
		fmt.Printf("Removed filter '%s' (%s)\n", saved.Name, saved.ID)
	}
	return nil
}
