package view

import (
	"fmt"
	"strconv"

	"github.com/user/orderdesk/internal/model"
)

// ChipKey identifies the filter field a chip was projected from.
type ChipKey string

// Chip keys
const (
	ChipSearch       ChipKey = "search"
	ChipDateRange    ChipKey = "dateRange"
	ChipStatus       ChipKey = "statuses"
	ChipDepartment   ChipKey = "departments"
	ChipDelivery     ChipKey = "deliveryStatuses"
	ChipPriceMin     ChipKey = "priceMin"
	ChipPriceMax     ChipKey = "priceMax"
	ChipCreatedBy    ChipKey = "createdBy"
	ChipProductTag   ChipKey = "productTags"
	ChipDistribution ChipKey = "distribution"
)

// DefaultCurrency is appended to price chips.
const DefaultCurrency = "NOK"

// Chip is one removable label describing an active constraint.
type Chip struct {
	Key   ChipKey `json:"key"`
	Label string  `json:"label"`
	Value string  `json:"value,omitempty"`
}

// Project lists one chip per active constraint, in field order and then in
// the insertion order of each set.
func Project(state model.FilterState, currency string) []Chip {
	if currency == "" {
		currency = DefaultCurrency
	}
	chips := []Chip{}

	if state.Search != "" {
		chips = append(chips, Chip{Key: ChipSearch, Label: "Search: " + state.Search, Value: state.Search})
	}
	if state.DateRange != nil {
		chips = append(chips, Chip{Key: ChipDateRange, Label: "Date: " + state.DateRange.Label, Value: state.DateRange.Label})
	}
	for _, s := range state.Statuses {
		chips = append(chips, Chip{Key: ChipStatus, Label: "Status: " + string(s), Value: string(s)})
	}
	for _, d := range state.Departments {
		chips = append(chips, Chip{Key: ChipDepartment, Label: "Department: " + d, Value: d})
	}
	for _, d := range state.DeliveryStatuses {
		chips = append(chips, Chip{Key: ChipDelivery, Label: "Delivery: " + string(d), Value: string(d)})
	}
	if state.PriceRange.Min != nil {
		v := formatAmount(*state.PriceRange.Min)
		chips = append(chips, Chip{Key: ChipPriceMin, Label: fmt.Sprintf("Min %s %s", v, currency), Value: v})
	}
	if state.PriceRange.Max != nil {
		v := formatAmount(*state.PriceRange.Max)
		chips = append(chips, Chip{Key: ChipPriceMax, Label: fmt.Sprintf("Max %s %s", v, currency), Value: v})
	}
	for _, c := range state.CreatedBy {
		chips = append(chips, Chip{Key: ChipCreatedBy, Label: "Created by: " + c, Value: c})
	}
	for _, tag := range state.ProductTags {
		chips = append(chips, Chip{Key: ChipProductTag, Label: "Tag: " + tag, Value: tag})
	}
	for _, d := range state.Distribution {
		chips = append(chips, Chip{Key: ChipDistribution, Label: "Distribution: " + d, Value: d})
	}

	return chips
}

// Remove returns state without the constraint a chip describes. Scalar
// fields ignore value; set fields drop exactly value. Unknown keys and
// absent values return the state unchanged.
func Remove(state model.FilterState, key ChipKey, value string) model.FilterState {
	out := state.Clone()
	switch key {
	case ChipSearch:
		out.Search = ""
	case ChipDateRange:
		out.DateRange = nil
	case ChipStatus:
		out.Statuses = model.Without(out.Statuses, model.OrderStatus(value))
	case ChipDepartment:
		out.Departments = model.Without(out.Departments, value)
	case ChipDelivery:
		out.DeliveryStatuses = model.Without(out.DeliveryStatuses, model.DeliveryStatus(value))
	case ChipPriceMin:
		out.PriceRange.Min = nil
	case ChipPriceMax:
		out.PriceRange.Max = nil
	case ChipCreatedBy:
		out.CreatedBy = model.Without(out.CreatedBy, value)
	case ChipProductTag:
		out.ProductTags = model.Without(out.ProductTags, value)
	case ChipDistribution:
		out.Distribution = model.Without(out.Distribution, value)
	default:
		return state
	}
	return out
}

// ParseChipKey accepts a chip key or its short alias.
func ParseChipKey(s string) (ChipKey, bool) {
	switch s {
	case "search", "q":
		return ChipSearch, true
	case "dateRange", "date":
		return ChipDateRange, true
	case "statuses", "status":
		return ChipStatus, true
	case "departments", "department", "dept":
		return ChipDepartment, true
	case "deliveryStatuses", "delivery":
		return ChipDelivery, true
	case "priceMin", "min":
		return ChipPriceMin, true
	case "priceMax", "max":
		return ChipPriceMax, true
	case "createdBy", "creator":
		return ChipCreatedBy, true
	case "productTags", "tag":
		return ChipProductTag, true
	case "distribution", "dist":
		return ChipDistribution, true
	}
	return "", false
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
