package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/user/orderdesk/internal/model"
)

var validate = validator.New()

// Store combines the order file and the saved filter database of one data
// directory.
type Store struct {
	baseDir string // .orderdesk directory
	orders  *JSONLStore
	filters *SQLiteFilterStore
}

// NewStore opens the data directory, creating it if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	filters, err := NewSQLiteFilterStore(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize filter store: %w", err)
	}

	return &Store{
		baseDir: baseDir,
		orders:  NewJSONLStore(baseDir),
		filters: filters,
	}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.filters.Close()
}

// BaseDir returns the data directory path.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// OrdersPath returns the path to the orders file.
func (s *Store) OrdersPath() string {
	return s.orders.Path()
}

// Filters returns the saved filter store.
func (s *Store) Filters() SavedFilterStore {
	return s.filters
}

// Init writes the initial dataset. Existing orders are only replaced with
// force.
func (s *Store) Init(orders []model.Order, force bool) error {
	if s.orders.Exists() && !force {
		return model.ErrAlreadyInitialized
	}
	return s.orders.WriteAll(orders)
}

// ReadAll returns every order. A missing orders file is
// model.ErrNotInitialized.
func (s *Store) ReadAll() ([]model.Order, error) {
	if !s.orders.Exists() {
		return nil, model.ErrNotInitialized
	}
	return s.orders.ReadAll()
}

// Find returns the order with ref.
func (s *Store) Find(ref string) (model.Order, error) {
	if !s.orders.Exists() {
		return model.Order{}, model.ErrNotInitialized
	}
	return s.orders.Find(ref)
}

// NewOrder describes an order to be added; ref, id and created are filled in.
type NewOrder struct {
	Customer     string    `validate:"required"`
	Products     string    `validate:"required"`
	Start        time.Time `validate:"required"`
	End          *time.Time
	Distribution string
	Status       model.OrderStatus
	Delivery     model.DeliveryStatus
	Price        string
	Department   string
	CreatedBy    string
	ProductTag   string
	Notes        string
}

// Add validates req, assigns a fresh ref and appends the order.
func (s *Store) Add(req NewOrder, now time.Time) (model.Order, error) {
	if err := validateNewOrder(req); err != nil {
		return model.Order{}, err
	}

	orders, err := s.ReadAll()
	if err != nil {
		return model.Order{}, err
	}
	taken := make(map[string]bool, len(orders))
	for i := range orders {
		taken[orders[i].Ref] = true
	}
	ref, err := model.GenerateRef(func(r string) bool { return taken[r] })
	if err != nil {
		return model.Order{}, err
	}

	order := model.Order{
		ID:           fmt.Sprintf("%d", len(orders)+1),
		Ref:          ref,
		Created:      model.FormatTimestamp(now),
		Customer:     req.Customer,
		Products:     req.Products,
		Start:        model.FormatTimestamp(req.Start),
		End:          model.Unset,
		Distribution: req.Distribution,
		Status:       req.Status,
		Delivery:     req.Delivery,
		Price:        req.Price,
		Notes:        req.Notes,
		Department:   req.Department,
		CreatedBy:    req.CreatedBy,
		ProductTag:   req.ProductTag,
	}
	if req.End != nil {
		order.End = model.FormatTimestamp(*req.End)
	}
	if order.Status == "" {
		order.Status = model.StatusRequest
	}
	if order.Delivery == "" {
		order.Delivery = model.DeliveryUnset
	}
	if order.Distribution == "" && order.Department != "" {
		order.Distribution = order.Department
	}
	order.Delayed = order.Delivery == model.DeliveryDelayed

	if err := s.orders.Append(order); err != nil {
		return model.Order{}, err
	}
	return order, nil
}

// validateNewOrder reports the first missing required field.
func validateNewOrder(req NewOrder) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fmt.Errorf("%w: %s", model.ErrRequiredField, strings.ToLower(ve[0].Field()))
	}
	return err
}
