package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var listFlags viewFlags

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders",
	Long: `List one page of orders after filtering and sorting.

Filters combine with AND. Repeating a list flag (or separating values with
commas) matches any of the values.

  --search TERM          Case-insensitive match on ref, customer, products,
                         status, delivery, distribution and created
  --status S             Booked, Cancelled, Closed, Dropped, In Cart, Request, Test
  --delivery D           Delivery status; use '-' for orders without one
  --department D         Department
  --created-by NAME      Creator
  --tag T                Product tag
  --distribution TEXT    Distribution contains TEXT
  --price-min / --price-max
  --date PRESET          Today, 'Last 7' or 'This month'
  --from / --to DATE     Custom created range (YYYY-MM-DD or RFC 3339)
  --query QS             All of the above as a query string
  --saved NAME           Start from a saved filter
  --sort COLS            Comma-separated columns, '-' prefix for descending
  --page N / --page-size N

Examples:
  orderdesk list
  orderdesk list --status Booked --status Request --sort -price
  orderdesk list --search bike --date "Last 7"
  orderdesk list --query "department=Avdeling+16&price_max=800&page=2"
  orderdesk list --saved "Delayed pickups" --json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listFlags.register(listCmd.Flags(), true)
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	req, err := listFlags.request(e.store.Filters(), time.Now())
	if err != nil {
		exitForRequestError(err, listFlags.saved)
		return nil
	}

	engine, ok := e.newEngine(nil)
	if !ok {
		return nil
	}
	defer engine.Close()

	if err := applyRequest(engine, req); err != nil {
		exitForError(err)
		return nil
	}

	state := engine.View()

	if GetJSONOutput() {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printView(os.Stdout, state)
	return nil
}
