package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/user/orderdesk/internal/model"
)

// OrdersFile is the name of the order dataset inside the data directory.
const OrdersFile = "orders.jsonl"

// JSONLStore reads and writes the order dataset as one JSON object per line.
type JSONLStore struct {
	baseDir string // .orderdesk directory
}

// NewJSONLStore creates a new JSONL store.
func NewJSONLStore(baseDir string) *JSONLStore {
	return &JSONLStore{baseDir: baseDir}
}

// Path returns the path to orders.jsonl.
func (s *JSONLStore) Path() string {
	return filepath.Join(s.baseDir, OrdersFile)
}

// Exists reports whether the orders file has been created.
func (s *JSONLStore) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// ReadAll reads every order from the JSONL file.
// Returns an empty slice if the file doesn't exist.
func (s *JSONLStore) ReadAll() ([]model.Order, error) {
	file, err := os.Open(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Order{}, nil
		}
		return nil, fmt.Errorf("failed to open orders file: %w", err)
	}
	defer file.Close()

	orders := []model.Order{}
	seen := make(map[string]int)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue // Skip empty lines
		}

		var order model.Order
		if err := json.Unmarshal(line, &order); err != nil {
			return nil, fmt.Errorf("failed to parse order at line %d: %w", lineNum, err)
		}
		if err := order.Validate(); err != nil {
			return nil, fmt.Errorf("invalid order at line %d: %w", lineNum, err)
		}
		if prev, dup := seen[order.Ref]; dup {
			return nil, fmt.Errorf("%w: %s at lines %d and %d", model.ErrDuplicateRef, order.Ref, prev, lineNum)
		}
		seen[order.Ref] = lineNum
		orders = append(orders, order)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading orders file: %w", err)
	}

	return orders, nil
}

// Append adds an order to the end of the file. The ref must be new.
func (s *JSONLStore) Append(order model.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	orders, err := s.ReadAll()
	if err != nil {
		return err
	}
	for i := range orders {
		if orders[i].Ref == order.Ref {
			return fmt.Errorf("%w: %s", model.ErrDuplicateRef, order.Ref)
		}
	}

	return s.WriteAll(append(orders, order))
}

// WriteAll replaces the file contents with orders.
func (s *JSONLStore) WriteAll(orders []model.Order) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for i := range orders {
		if err := enc.Encode(&orders[i]); err != nil {
			return fmt.Errorf("failed to marshal order %s: %w", orders[i].Ref, err)
		}
	}

	if err := atomic.WriteFile(s.Path(), &buf); err != nil {
		return fmt.Errorf("failed to write orders file: %w", err)
	}
	return nil
}

// Find returns the order with the given ref.
func (s *JSONLStore) Find(ref string) (model.Order, error) {
	orders, err := s.ReadAll()
	if err != nil {
		return model.Order{}, err
	}
	for i := range orders {
		if orders[i].Ref == ref {
			return orders[i], nil
		}
	}
	return model.Order{}, fmt.Errorf("%w: %s", model.ErrOrderNotFound, ref)
}
