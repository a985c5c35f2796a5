package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/orderdesk/internal/export"
)

var (
	exportFlags    viewFlags
	exportFormat   string
	exportOutput   string
	exportSelected []string
	exportForce    bool
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export orders to a file",
	Long: `Export the filtered and sorted orders to CSV, TSV, JSON, JSONL or Excel.

Every matching order is exported, not just one page. With --selected only
the named refs are exported, in display order.

The format defaults to the file extension, or csv when writing to stdout.
Excel workbooks (xlsx) must be written to a file. The .xls extension selects
the tab-separated format.

Filter and sort flags are the same as for 'orderdesk list'.

Examples:
  orderdesk export                                  # All orders to stdout (CSV)
  orderdesk export orders.xlsx --status Booked      # Booked orders as a workbook
  orderdesk export --format json --sort -price
  orderdesk export picked.csv --selected QH29,VB58
  orderdesk export delayed.jsonl --saved "Delayed pickups" --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportFlags.register(exportCmd.Flags(), false)
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: csv, tsv, json, jsonl, xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: stdout)")
	exportCmd.Flags().StringSliceVar(&exportSelected, "selected", nil, "Only export these refs (comma-separated)")
	exportCmd.Flags().BoolVarP(&exportForce, "force", "f", false, "Overwrite existing file without warning")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	// Determine output file
	outputFile := exportOutput
	if len(args) > 0 {
		outputFile = args[0]
	}

	format := export.FormatCSV
	if exportFormat != "" {
		f, err := export.ParseFormat(exportFormat)
		if err != nil {
			ExitValidationError(err.Error(), map[string]interface{}{"format": exportFormat})
			return nil
		}
		format = f
	} else if f, ok := export.FormatFromPath(outputFile); ok {
		format = f
	}

	if outputFile == "" && format.Binary() {
		ExitValidationError(fmt.Sprintf("format %s needs an output file", format), nil)
		return nil
	}

	// Check if output file exists (unless --force)
	if outputFile != "" && !exportForce {
		if _, err := os.Stat(outputFile); err == nil {
			ExitWithError(1, ErrCodeConflict,
				fmt.Sprintf("file '%s' already exists (use --force to overwrite)", outputFile),
				map[string]interface{}{"file": outputFile})
			return nil
		}
	}

	e, ok := openEnv()
	if !ok {
		return nil
	}
	defer e.Close()

	req, err := exportFlags.request(e.store.Filters(), time.Now())
	if err != nil {
		exitForRequestError(err, exportFlags.saved)
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

	for _, ref := range exportSelected {
		ref = strings.ToUpper(strings.TrimSpace(ref))
		if ref == "" {
			continue
		}
		if _, found := engine.Lookup(ref); !found {
			ExitOrderNotFound(ref)
			return nil
		}
		if !engine.Toggle(ref) {
			// listed twice
			engine.Toggle(ref)
		}
	}

	orders := engine.ExportRows()
	e.logger.Printf("Exporting %d orders as %s", len(orders), format)

	if outputFile == "" {
		if err := export.Encode(os.Stdout, format, orders); err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
	} else if err := export.WriteFile(outputFile, format, orders); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if !IsQuiet() && outputFile != "" {
		fmt.Fprintf(os.Stderr, "Exported %d order(s) to %s\n", len(orders), outputFile)
	}
	return nil
}
