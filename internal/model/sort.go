package model

import (
	"fmt"
	"strings"
)

// SortKey names a sortable order column.
type SortKey string

// Sortable columns
const (
	SortRef          SortKey = "ref"
	SortCreated      SortKey = "created"
	SortCustomer     SortKey = "customer"
	SortProducts     SortKey = "products"
	SortStart        SortKey = "start"
	SortEnd          SortKey = "end"
	SortDistribution SortKey = "distribution"
	SortStatus       SortKey = "status"
	SortDelivery     SortKey = "delivery"
	SortPrice        SortKey = "price"
)

// SortKeys lists every sortable column in table order.
var SortKeys = []SortKey{
	SortRef, SortCreated, SortCustomer, SortProducts, SortStart,
	SortEnd, SortDistribution, SortStatus, SortDelivery, SortPrice,
}

// ParseSortKey validates a column name.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if strings.EqualFold(string(k), s) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSortKey, s)
}

// SortField is one entry of a SortSpec.
type SortField struct {
	Key        SortKey `json:"id"`
	Descending bool    `json:"desc"`
}

// SortSpec is an ordered list of sort fields; earlier entries win.
type SortSpec []SortField

// ParseSortSpec parses "price,-created" style specs. A leading '-' sorts
// descending. Empty input yields an empty spec.
func ParseSortSpec(s string) (SortSpec, error) {
	var spec SortSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := false
		switch part[0] {
		case '-':
			desc = true
			part = part[1:]
		case '+':
			part = part[1:]
		}
		key, err := ParseSortKey(part)
		if err != nil {
			return nil, err
		}
		if spec.Index(key) >= 0 {
			continue
		}
		spec = append(spec, SortField{Key: key, Descending: desc})
	}
	return spec, nil
}

// String renders the spec in the form ParseSortSpec accepts.
func (s SortSpec) String() string {
	parts := make([]string, len(s))
	for i, f := range s {
		if f.Descending {
			parts[i] = "-" + string(f.Key)
		} else {
			parts[i] = string(f.Key)
		}
	}
	return strings.Join(parts, ",")
}

// Index returns the position of key in the spec, or -1.
func (s SortSpec) Index(key SortKey) int {
	for i, f := range s {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// Toggle cycles a column header: absent, ascending, descending, removed.
// Without multi the column replaces the whole spec.
func (s SortSpec) Toggle(key SortKey, multi bool) SortSpec {
	i := s.Index(key)
	var next *SortField
	switch {
	case i < 0:
		next = &SortField{Key: key}
	case !s[i].Descending:
		next = &SortField{Key: key, Descending: true}
	}

	if !multi {
		if next == nil {
			return SortSpec{}
		}
		return SortSpec{*next}
	}

	out := make(SortSpec, 0, len(s)+1)
	for _, f := range s {
		if f.Key == key {
			if next != nil {
				out = append(out, *next)
			}
			continue
		}
		out = append(out, f)
	}
	if i < 0 {
		out = append(out, *next)
	}
	return out
}
