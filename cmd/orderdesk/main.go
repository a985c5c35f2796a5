// Command orderdesk browses, filters and exports rental orders.
package main

import (
	"github.com/joho/godotenv"
	"github.com/user/orderdesk/internal/cli"
)

func main() {
	// ORDERDESK_DIR and ORDERDESK_ACTOR may come from a local .env file
	_ = godotenv.Load()

	cli.Execute()
}
