// Package export encodes order rows into downloadable formats.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/natefinch/atomic"
	"github.com/user/orderdesk/internal/model"
	"github.com/xuri/excelize/v2"
)

// Format is an export encoding.
type Format string

// Supported formats
const (
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatXLSX  Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatCSV, FormatTSV, FormatJSON, FormatJSONL, FormatXLSX}

// Columns is the fixed header order of tabular exports.
var Columns = []string{
	"ref",
	"created",
	"customer",
	"products",
	"start",
	"end",
	"distribution",
	"status",
	"delivery",
	"price",
	"department",
	"createdBy",
	"productTag",
}

// SheetName is the worksheet holding exported orders in xlsx files.
const SheetName = "Orders"

// ParseFormat resolves a format name case-insensitively. "xls" is accepted
// as the tab-separated legacy spreadsheet download.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatTSV, FormatJSON, FormatJSONL, FormatXLSX:
		return f, nil
	case "xls":
		return FormatTSV, nil
	}
	return "", fmt.Errorf("%w: %q (must be csv, tsv, json, jsonl or xlsx)", model.ErrInvalidFormat, s)
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

// Extension returns the conventional file extension for f.
func (f Format) Extension() string {
	if f == FormatTSV {
		return ".xls"
	}
	return "." + string(f)
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatXLSX
}

// Encode writes orders to w in format f.
func Encode(w io.Writer, f Format, orders []model.Order) error {
	switch f {
	case FormatCSV:
		return encodeDelimited(w, orders, ',')
	case FormatTSV:
		return encodeDelimited(w, orders, '\t')
	case FormatJSON:
		return encodeJSON(w, orders)
	case FormatJSONL:
		return encodeJSONL(w, orders)
	case FormatXLSX:
		return encodeXLSX(w, orders)
	}
	return fmt.Errorf("%w: %q", model.ErrInvalidFormat, f)
}

// WriteFile encodes orders and atomically replaces path with the result.
func WriteFile(path string, f Format, orders []model.Order) error {
	var buf bytes.Buffer
	if err := Encode(&buf, f, orders); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}

// row returns the tabular cells of o in Columns order.
func row(o *model.Order) []string {
	cells := make([]string, len(Columns))
	for i, col := range Columns {
		cells[i] = o.Field(col)
	}
	return cells
}

func encodeDelimited(w io.Writer, orders []model.Order, comma rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range orders {
		if err := writer.Write(row(&orders[i])); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func encodeJSON(w io.Writer, orders []model.Order) error {
	if orders == nil {
		orders = []model.Order{}
	}
	data, err := sonic.MarshalIndent(orders, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal orders: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func encodeJSONL(w io.Writer, orders []model.Order) error {
	for i := range orders {
		data, err := sonic.Marshal(&orders[i])
		if err != nil {
			return fmt.Errorf("failed to marshal order %s: %w", orders[i].Ref, err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func encodeXLSX(w io.Writer, orders []model.Order) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	if err := file.SetSheetName(file.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := file.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range orders {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := row(&orders[i])
		values := make([]interface{}, len(cells))
		for j, v := range cells {
			values[j] = v
		}
		if err := file.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
