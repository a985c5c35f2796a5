package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/orderdesk/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show <ref>",
	Short: "Show a single order",
	Long: `Display every field of one order and the actions it allows.

Closed, Dropped and Test orders are locked. Other orders can be closed, and
cancelled unless they already are.

Examples:
  orderdesk show QH29
  orderdesk show qh29 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

// orderDetail is the --json shape of show.
type orderDetail struct {
	model.Order
	Locked    bool `json:"locked"`
	CanCancel bool `json:"canCancel"`
	CanClose  bool `json:"canClose"`
}

func runShow(cmd *cobra.Command, args []string) error {
	ref := strings.ToUpper(strings.TrimSpace(args[0]))

	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	order, err := e.store.Find(ref)
	if err != nil {
		if errors.Is(err, model.ErrOrderNotFound) {
			ExitOrderNotFound(ref)
			return nil
		}
		exitForError(err)
		return nil
	}

	if GetJSONOutput() {
		detail := orderDetail{
			Order:     order,
			Locked:    order.Locked(),
			CanCancel: order.CanCancel(),
			CanClose:  order.CanClose(),
		}
		data, err := json.MarshalIndent(detail, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	writeOrder(os.Stdout, order)
	return nil
}

func writeOrder(w io.Writer, o model.Order) {
	fmt.Fprintf(w, "Order %s (#%s)\n", o.Ref, o.ID)
	fmt.Fprintf(w, "  Status:       %s\n", o.Status)
	delivery := string(o.Delivery)
	if o.IsDelayed() {
		delivery += " (delayed)"
	}
	fmt.Fprintf(w, "  Delivery:     %s\n", delivery)
	fmt.Fprintf(w, "  Customer:     %s\n", o.Customer)
	fmt.Fprintf(w, "  Products:     %s\n", o.Products)
	if o.ProductTag != "" {
		fmt.Fprintf(w, "  Tag:          %s\n", o.ProductTag)
	}
	fmt.Fprintf(w, "  Created:      %s by %s\n", o.Created, o.CreatedBy)
	fmt.Fprintf(w, "  Rental:       %s to %s\n", o.Start, o.End)
	fmt.Fprintf(w, "  Department:   %s\n", o.Department)
	fmt.Fprintf(w, "  Distribution: %s\n", o.Distribution)
	fmt.Fprintf(w, "  Price:        %s\n", o.Price)
	if o.Notes != "" {
		fmt.Fprintf(w, "  Notes:        %s\n", o.Notes)
	}

	var actions []string
	if o.CanCancel() {
		actions = append(actions, "cancel")
	}
	if o.CanClose() {
		actions = append(actions, "close")
	}
	switch {
	case o.Locked():
		fmt.Fprintln(w, "  Actions:      none (locked)")
	case len(actions) == 0:
		fmt.Fprintln(w, "  Actions:      none")
	default:
		fmt.Fprintf(w, "  Actions:      %s\n", strings.Join(actions, ", "))
	}
}
