// Package view implements the list view pipeline over order records:
// filter, sort, page window, selection and filter chips.
package view

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/user/orderdesk/internal/model"
)

// predicate is a single compiled constraint.
type predicate func(o *model.Order) bool

// Predicate is a FilterState compiled into one check per active constraint.
type Predicate struct {
	checks []predicate
}

// Compile turns a FilterState into a Predicate. Inactive fields contribute
// nothing, so the zero state matches every order.
func Compile(state model.FilterState) Predicate {
	var checks []predicate

	if term := strings.ToLower(state.Search); term != "" {
		checks = append(checks, searchPredicate(term))
	}
	if state.DateRange.Active() {
		checks = append(checks, datePredicate(state.DateRange))
	}
	if len(state.Statuses) > 0 {
		statuses := slices.Clone(state.Statuses)
		checks = append(checks, func(o *model.Order) bool {
			return slices.Contains(statuses, o.Status)
		})
	}
	if len(state.Departments) > 0 {
		checks = append(checks, memberPredicate(state.Departments, func(o *model.Order) string { return o.Department }))
	}
	if len(state.DeliveryStatuses) > 0 {
		delivery := slices.Clone(state.DeliveryStatuses)
		checks = append(checks, func(o *model.Order) bool {
			return slices.Contains(delivery, o.Delivery)
		})
	}
	if state.PriceRange.Active() {
		checks = append(checks, pricePredicate(state.PriceRange))
	}
	if len(state.CreatedBy) > 0 {
		checks = append(checks, memberPredicate(state.CreatedBy, func(o *model.Order) string { return o.CreatedBy }))
	}
	if len(state.ProductTags) > 0 {
		tags := slices.Clone(state.ProductTags)
		checks = append(checks, func(o *model.Order) bool {
			return o.ProductTag != "" && slices.Contains(tags, o.ProductTag)
		})
	}
	if len(state.Distribution) > 0 {
		values := slices.Clone(state.Distribution)
		checks = append(checks, func(o *model.Order) bool {
			for _, v := range values {
				if strings.Contains(o.Distribution, v) {
					return true
				}
			}
			return false
		})
	}

	return Predicate{checks: checks}
}

// Active returns the number of constraints in the predicate.
func (p Predicate) Active() int {
	return len(p.checks)
}

// Match reports whether o passes every constraint.
func (p Predicate) Match(o *model.Order) bool {
	for _, check := range p.checks {
		if !check(o) {
			return false
		}
	}
	return true
}

// Matches reports whether o passes the filter state.
func Matches(o *model.Order, state model.FilterState) bool {
	return Compile(state).Match(o)
}

// Filter returns the orders that pass state, preserving input order.
// The input slice is never modified.
func Filter(orders []model.Order, state model.FilterState) []model.Order {
	p := Compile(state)
	out := make([]model.Order, 0, len(orders))
	for i := range orders {
		if p.Match(&orders[i]) {
			out = append(out, orders[i])
		}
	}
	return out
}

func searchPredicate(term string) predicate {
	return func(o *model.Order) bool {
		for _, field := range []string{
			o.Ref,
			o.Customer,
			o.Products,
			string(o.Status),
			string(o.Delivery),
			o.Distribution,
			o.Created,
		} {
			if strings.Contains(strings.ToLower(field), term) {
				return true
			}
		}
		return false
	}
}

// datePredicate fails closed: an unparseable created timestamp never matches.
func datePredicate(r *model.DateRange) predicate {
	var from, to *int64
	if r.From != nil {
		v := r.From.UnixNano()
		from = &v
	}
	if r.To != nil {
		v := r.To.UnixNano()
		to = &v
	}
	return func(o *model.Order) bool {
		created, ok := model.ParseTimestamp(o.Created)
		if !ok {
			return false
		}
		ts := created.UnixNano()
		if from != nil && ts < *from {
			return false
		}
		if to != nil && ts > *to {
			return false
		}
		return true
	}
}

// pricePredicate excludes orders whose price cannot be parsed.
func pricePredicate(r model.PriceRange) predicate {
	var lo, hi *decimal.Decimal
	if r.Min != nil {
		v := decimal.NewFromFloat(*r.Min)
		lo = &v
	}
	if r.Max != nil {
		v := decimal.NewFromFloat(*r.Max)
		hi = &v
	}
	return func(o *model.Order) bool {
		price, ok := model.ParsePrice(o.Price)
		if !ok {
			return false
		}
		if lo != nil && price.LessThan(*lo) {
			return false
		}
		if hi != nil && price.GreaterThan(*hi) {
			return false
		}
		return true
	}
}

func memberPredicate(values []string, field func(o *model.Order) string) predicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(o *model.Order) bool {
		_, ok := set[field(o)]
		return ok
	}
}
