package model

import (
	"fmt"
	"strings"
)

// TimestampLayout is the display format used by every order timestamp.
const TimestampLayout = "02 Jan 2006 15:04"

// Unset is the sentinel shown for an unknown end time or an unset delivery.
const Unset = "—"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order statuses
const (
	StatusBooked    OrderStatus = "Booked"
	StatusCancelled OrderStatus = "Cancelled"
	StatusClosed    OrderStatus = "Closed"
	StatusDropped   OrderStatus = "Dropped"
	StatusInCart    OrderStatus = "In Cart"
	StatusRequest   OrderStatus = "Request"
	StatusTest      OrderStatus = "Test"
)

// StatusPriority is the operational sort order of statuses.
var StatusPriority = []OrderStatus{
	StatusBooked,
	StatusInCart,
	StatusCancelled,
	StatusClosed,
	StatusDropped,
	StatusRequest,
	StatusTest,
}

// Priority returns the position of s in StatusPriority.
// Unknown statuses sort after every known one.
func (s OrderStatus) Priority() int {
	for i, st := range StatusPriority {
		if st == s {
			return i
		}
	}
	return len(StatusPriority)
}

// Valid reports whether s is one of the seven known statuses.
func (s OrderStatus) Valid() bool {
	return s.Priority() < len(StatusPriority)
}

// ParseStatus resolves a status name case-insensitively.
func ParseStatus(s string) (OrderStatus, error) {
	for _, st := range StatusPriority {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// DeliveryStatus is the logistics state of an order.
type DeliveryStatus string

// Delivery statuses
const (
	DeliveryReady       DeliveryStatus = "Ready to pickup"
	DeliveryPickedUp    DeliveryStatus = "Picked up"
	DeliveryReturned    DeliveryStatus = "Returned"
	DeliveryDelayed     DeliveryStatus = "Delayed"
	DeliveryCancelled   DeliveryStatus = "Cancelled"
	DeliveryToTransport DeliveryStatus = "To transport"
	DeliveryOnChecking  DeliveryStatus = "On checking"
	DeliveryUnset       DeliveryStatus = Unset
)

// DeliveryStatuses lists every delivery value, the unset sentinel last.
var DeliveryStatuses = []DeliveryStatus{
	DeliveryReady,
	DeliveryPickedUp,
	DeliveryReturned,
	DeliveryDelayed,
	DeliveryCancelled,
	DeliveryToTransport,
	DeliveryOnChecking,
	DeliveryUnset,
}

// ParseDelivery resolves a delivery status case-insensitively.
// "-", "none" and "unset" all map to DeliveryUnset.
func ParseDelivery(s string) (DeliveryStatus, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "-", "none", "unset", Unset:
		return DeliveryUnset, nil
	}
	for _, d := range DeliveryStatuses {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDelivery, s)
}

// Order is a single bookable transaction. Orders are immutable once loaded.
type Order struct {
	ID           string         `json:"id"`
	Ref          string         `json:"ref"`
	Created      string         `json:"created"`
	Customer     string         `json:"customer"`
	Products     string         `json:"products"`
	Start        string         `json:"start"`
	End          string         `json:"end"`
	Distribution string         `json:"distribution"`
	Status       OrderStatus    `json:"status"`
	Delivery     DeliveryStatus `json:"delivery"`
	Price        string         `json:"price"`
	Notes        string         `json:"notes,omitempty"`
	Department   string         `json:"department"`
	CreatedBy    string         `json:"createdBy"`
	ProductTag   string         `json:"productTag,omitempty"`
	Delayed      bool           `json:"delayed,omitempty"`
}

// Locked returns true when the order can no longer be edited.
func (o *Order) Locked() bool {
	switch o.Status {
	case StatusClosed, StatusDropped, StatusTest:
		return true
	}
	return false
}

// CanCancel returns true if the cancel action is allowed.
func (o *Order) CanCancel() bool {
	return !o.Locked() && o.Status != StatusCancelled
}

// CanClose returns true if the close action is allowed.
func (o *Order) CanClose() bool {
	return !o.Locked()
}

// IsDelayed returns true if the order is flagged or its delivery is delayed.
func (o *Order) IsDelayed() bool {
	return o.Delayed || o.Delivery == DeliveryDelayed
}

// Field returns the display value of a named export column.
func (o *Order) Field(name string) string {
	switch name {
	case "id":
		return o.ID
	case "ref":
		return o.Ref
	case "created":
		return o.Created
	case "customer":
		return o.Customer
	case "products":
		return o.Products
	case "start":
		return o.Start
	case "end":
		return o.End
	case "distribution":
		return o.Distribution
	case "status":
		return string(o.Status)
	case "delivery":
		return string(o.Delivery)
	case "price":
		return o.Price
	case "notes":
		return o.Notes
	case "department":
		return o.Department
	case "createdBy":
		return o.CreatedBy
	case "productTag":
		return o.ProductTag
	}
	return ""
}

// Validate checks the fields a stored order must carry.
func (o *Order) Validate() error {
	if o.Ref == "" {
		return fmt.Errorf("%w: ref", ErrRequiredField)
	}
	if !o.Status.Valid() {
		return fmt.Errorf("%w: %q (order %s)", ErrInvalidStatus, o.Status, o.Ref)
	}
	if o.Delivery == "" {
		return fmt.Errorf("%w: delivery (order %s)", ErrRequiredField, o.Ref)
	}
	if _, err := ParseDelivery(string(o.Delivery)); err != nil {
		return fmt.Errorf("%w (order %s)", err, o.Ref)
	}
	return nil
}
