package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/user/orderdesk/internal/model"
	"github.com/user/orderdesk/internal/query"
	"github.com/user/orderdesk/internal/storage"
)

var (
	addCustomer     string
	addProducts     string
	addStart        string
	addEnd          string
	addDistribution string
	addStatus       string
	addDelivery     string
	addPrice        string
	addDepartment   string
	addTag          string
	addNotes        string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new order",
	Long: `Append a new order to the order file.

The order gets a generated ref (two letters and two digits), the next id
and the current time as created. The actor (--actor, $ORDERDESK_ACTOR or
$USER) is recorded as the creator.

Dates accept YYYY-MM-DD, RFC 3339 or the display form "07 Aug 2020 14:00".
A bare number as price is formatted with the configured currency.

Examples:
  orderdesk add --customer "Ola Nordmann" --products "Pinarello Gan Disk" --start 2020-08-07
  orderdesk add --customer Kari --products "Elite Direto XR" --start 2020-08-06T14:00:00Z \
      --status Booked --delivery "Ready to pickup" --price 1600 --department "Avdeling 16"`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addCustomer, "customer", "", "Customer name (required)")
	addCmd.Flags().StringVar(&addProducts, "products", "", "Rented products (required)")
	addCmd.Flags().StringVar(&addStart, "start", "", "Rental start (required)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "Rental end")
	addCmd.Flags().StringVar(&addDistribution, "distribution", "", "Distribution point (default: department)")
	addCmd.Flags().StringVar(&addStatus, "status", "", "Order status (default: Request)")
	addCmd.Flags().StringVar(&addDelivery, "delivery", "", "Delivery status (default: unset)")
	addCmd.Flags().StringVar(&addPrice, "price", "", "Price, e.g. 1600 or '1,600.00 NOK'")
	addCmd.Flags().StringVar(&addDepartment, "department", "", "Department")
	addCmd.Flags().StringVar(&addTag, "tag", "", "Product tag")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-text notes")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	var missing []string
	if strings.TrimSpace(addCustomer) == "" {
		missing = append(missing, "--customer")
	}
	if strings.TrimSpace(addProducts) == "" {
		missing = append(missing, "--products")
	}
	if strings.TrimSpace(addStart) == "" {
		missing = append(missing, "--start")
	}
	if len(missing) > 0 {
		ExitValidationError(fmt.Sprintf("missing required flags: %s", strings.Join(missing, ", ")),
			map[string]interface{}{"missing": missing})
		return nil
	}

	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	req, err := buildNewOrder(e.cfg.Currency, e.cfg.Actor)
	if err != nil {
		exitForError(err)
		return nil
	}

	order, err := e.store.Add(req, time.Now())
	if err != nil {
		exitForError(err)
		return nil
	}
	e.logger.Printf("Appended order %s to %s", order.Ref, e.store.OrdersPath())

	if GetJSONOutput() {
		data, _ := json.Marshal(order)
		fmt.Println(string(data))
	} else if !IsQuiet() {
		fmt.Printf("Added order %s for %s\n", order.Ref, order.Customer)
	}
	return nil
}

// buildNewOrder validates the add flags.
func buildNewOrder(currency, actor string) (storage.NewOrder, error) {
	req := storage.NewOrder{
		Customer:     strings.TrimSpace(addCustomer),
		Products:     strings.TrimSpace(addProducts),
		Distribution: strings.TrimSpace(addDistribution),
		Department:   strings.TrimSpace(addDepartment),
		ProductTag:   strings.TrimSpace(addTag),
		Notes:        addNotes,
		CreatedBy:    actor,
	}

	start, err := query.ParseDate(addStart, false)
	if err != nil {
		return storage.NewOrder{}, err
	}
	req.Start = start

	if addEnd != "" {
		end, err := query.ParseDate(addEnd, false)
		if err != nil {
			return storage.NewOrder{}, err
		}
		if end.Before(start) {
			return storage.NewOrder{}, fmt.Errorf("%w: end %s is before start", model.ErrInvalidDate, addEnd)
		}
		req.End = &end
	}

	if addStatus != "" {
		if req.Status, err = model.ParseStatus(addStatus); err != nil {
			return storage.NewOrder{}, err
		}
	}
	if addDelivery != "" {
		if req.Delivery, err = model.ParseDelivery(addDelivery); err != nil {
			return storage.NewOrder{}, err
		}
	}

	if req.Price, err = formatPrice(addPrice, currency); err != nil {
		return storage.NewOrder{}, err
	}
	return req, nil
}

// formatPrice renders a bare amount as "1600.00 NOK" and keeps already
// formatted prices as given.
func formatPrice(s, currency string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Unset, nil
	}
	if d, err := decimal.NewFromString(s); err == nil {
		if d.IsNegative() {
			return "", fmt.Errorf("%w: %q is negative", model.ErrInvalidPrice, s)
		}
		return d.StringFixed(2) + " " + currency, nil
	}
	if _, ok := model.ParsePrice(s); !ok {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidPrice, s)
	}
	return s, nil
}
