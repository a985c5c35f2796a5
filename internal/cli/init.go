package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/orderdesk/internal/model"
	"github.com/user/orderdesk/internal/storage"
)

var (
	initForce bool
	initEmpty bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the order data directory",
	Long: `Create the data directory with an order file and the saved filter database.

By default the order file is seeded with a demo dataset of 64 orders.

Examples:
  orderdesk init
  orderdesk init --empty
  orderdesk init --force --dir /srv/orders`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing order file")
	initCmd.Flags().BoolVar(&initEmpty, "empty", false, "Create an empty order file instead of demo data")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	orders := []model.Order{}
	if !initEmpty {
		orders = storage.DemoOrders()
	}

	if err := e.store.Init(orders, initForce); err != nil {
		exitForError(err)
		return nil
	}
	e.logger.Printf("Wrote %d orders to %s", len(orders), e.store.OrdersPath())

	if GetJSONOutput() {
		output := map[string]interface{}{
			"path":       e.store.BaseDir(),
			"orders":     len(orders),
			"created_at": time.Now().UTC().Format(time.RFC3339),
			"created_by": e.cfg.Actor,
		}
		data, _ := json.Marshal(output)
		fmt.Println(string(data))
	} else if !IsQuiet() {
		fmt.Printf("Initialized %s with %d order(s)\n", e.store.BaseDir(), len(orders))
	}
	return nil
}
