package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Date range preset labels
const (
	PresetToday     = "Today"
	PresetLast7     = "Last 7"
	PresetThisMonth = "This month"
	PresetCustom    = "Custom"
)

// presetOffsets maps a preset label to the number of days it reaches back.
var presetOffsets = map[string]int{
	PresetToday:     0,
	PresetLast7:     7,
	PresetThisMonth: 30,
}

// DateRange bounds the created timestamp. Nil bounds are unbounded.
type DateRange struct {
	Label string     `json:"label"`
	From  *time.Time `json:"from,omitempty"`
	To    *time.Time `json:"to,omitempty"`
}

// Active reports whether at least one bound is set.
func (r *DateRange) Active() bool {
	return r != nil && (r.From != nil || r.To != nil)
}

// DatePreset builds the range for a preset label ending at now.
// Labels are matched case-insensitively.
func DatePreset(label string, now time.Time) (*DateRange, error) {
	for name, days := range presetOffsets {
		if strings.EqualFold(name, strings.TrimSpace(label)) {
			to := now.UTC()
			from := to.AddDate(0, 0, -days)
			return &DateRange{Label: name, From: &from, To: &to}, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidPreset, label)
}

// CustomRange builds a "Custom" range from optional bounds.
func CustomRange(from, to *time.Time) *DateRange {
	return &DateRange{Label: PresetCustom, From: from, To: to}
}

// PriceRange bounds the numeric price. Nil bounds are unbounded.
type PriceRange struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// Active reports whether at least one bound is set.
func (r PriceRange) Active() bool {
	return r.Min != nil || r.Max != nil
}

// FilterState is the complete set of user-chosen constraints.
// Slice fields have set semantics; insertion order drives chip order.
type FilterState struct {
	Search           string           `json:"search"`
	DateRange        *DateRange       `json:"dateRange,omitempty"`
	Statuses         []OrderStatus    `json:"statuses"`
	Departments      []string         `json:"departments"`
	DeliveryStatuses []DeliveryStatus `json:"deliveryStatuses"`
	PriceRange       PriceRange       `json:"priceRange"`
	CreatedBy        []string         `json:"createdBy"`
	ProductTags      []string         `json:"productTags"`
	Distribution     []string         `json:"distribution"`
}

// Clone returns a deep copy of the state.
func (f FilterState) Clone() FilterState {
	out := f
	out.Statuses = slices.Clone(f.Statuses)
	out.Departments = slices.Clone(f.Departments)
	out.DeliveryStatuses = slices.Clone(f.DeliveryStatuses)
	out.CreatedBy = slices.Clone(f.CreatedBy)
	out.ProductTags = slices.Clone(f.ProductTags)
	out.Distribution = slices.Clone(f.Distribution)
	if f.DateRange != nil {
		dr := *f.DateRange
		if f.DateRange.From != nil {
			from := *f.DateRange.From
			dr.From = &from
		}
		if f.DateRange.To != nil {
			to := *f.DateRange.To
			dr.To = &to
		}
		out.DateRange = &dr
	}
	if f.PriceRange.Min != nil {
		v := *f.PriceRange.Min
		out.PriceRange.Min = &v
	}
	if f.PriceRange.Max != nil {
		v := *f.PriceRange.Max
		out.PriceRange.Max = &v
	}
	return out
}

// IsZero reports whether the state carries no constraint at all.
func (f FilterState) IsZero() bool {
	return f.Search == "" &&
		f.DateRange == nil &&
		len(f.Statuses) == 0 &&
		len(f.Departments) == 0 &&
		len(f.DeliveryStatuses) == 0 &&
		!f.PriceRange.Active() &&
		len(f.CreatedBy) == 0 &&
		len(f.ProductTags) == 0 &&
		len(f.Distribution) == 0
}

// Fingerprint returns a deterministic digest of the state.
// Nil and empty slices hash the same.
func (f FilterState) Fingerprint() string {
	c := f.Clone()
	c.Statuses = nonNil(c.Statuses)
	c.Departments = nonNil(c.Departments)
	c.DeliveryStatuses = nonNil(c.DeliveryStatuses)
	c.CreatedBy = nonNil(c.CreatedBy)
	c.ProductTags = nonNil(c.ProductTags)
	c.Distribution = nonNil(c.Distribution)
	if c.DateRange != nil {
		if c.DateRange.From != nil {
			from := c.DateRange.From.UTC()
			c.DateRange.From = &from
		}
		if c.DateRange.To != nil {
			to := c.DateRange.To.UTC()
			c.DateRange.To = &to
		}
	}

	data, err := json.Marshal(c)
	if err != nil {
		// FilterState holds only marshalable fields
		panic(fmt.Sprintf("failed to marshal filter state: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}

// Equal reports whether two states describe the same constraints.
func (f FilterState) Equal(other FilterState) bool {
	return f.Fingerprint() == other.Fingerprint()
}

// WithSearch returns a copy of the state with the search term replaced.
func (f FilterState) WithSearch(term string) FilterState {
	out := f.Clone()
	out.Search = term
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Toggle adds v to set when absent and removes it when present.
func Toggle[T comparable](set []T, v T) []T {
	if i := slices.Index(set, v); i >= 0 {
		return slices.Delete(slices.Clone(set), i, i+1)
	}
	return append(slices.Clone(set), v)
}

// Without returns set with v removed. Absent values leave it unchanged.
func Without[T comparable](set []T, v T) []T {
	i := slices.Index(set, v)
	if i < 0 {
		return set
	}
	return slices.Delete(slices.Clone(set), i, i+1)
}

// AddUnique appends v to set unless already present.
func AddUnique[T comparable](set []T, v T) []T {
	if slices.Contains(set, v) {
		return set
	}
	return append(slices.Clone(set), v)
}
