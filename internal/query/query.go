// Package query converts view state to and from URL query strings.
//
// A query string such as
//
//	q=bike&status=Booked&status=Request&price_max=60&sort=-price&page=2
//
// carries a complete filter, sort and page position. The CLI uses it for
// --query and to print shareable forms of saved filters.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
	"github.com/user/orderdesk/internal/model"
)

// Form is the flat query-string representation of a Request.
type Form struct {
	Search       string   `schema:"q,omitempty"`
	Status       []string `schema:"status,omitempty"`
	Department   []string `schema:"department,omitempty"`
	Delivery     []string `schema:"delivery,omitempty"`
	PriceMin     string   `schema:"price_min,omitempty"`
	PriceMax     string   `schema:"price_max,omitempty"`
	Date         string   `schema:"date,omitempty"`
	From         string   `schema:"from,omitempty"`
	To           string   `schema:"to,omitempty"`
	CreatedBy    []string `schema:"created_by,omitempty"`
	Tag          []string `schema:"tag,omitempty"`
	Distribution []string `schema:"distribution,omitempty"`
	Sort         string   `schema:"sort,omitempty"`
	Page         int      `schema:"page,omitempty"`
	Size         int      `schema:"size,omitempty"`
}

// Request is a decoded query. Page is zero-based; a zero Size means the
// query did not choose one.
type Request struct {
	Filter model.FilterState
	Sort   model.SortSpec
	Page   int
	Size   int
}

var (
	decoder = schema.NewDecoder()
	encoder = schema.NewEncoder()
)

func init() {
	decoder.IgnoreUnknownKeys(true)
}

const dateLayout = "2006-01-02"

// Parse decodes a raw query string. A leading '?' is ignored. Date presets
// resolve relative to now.
func Parse(raw string, now time.Time) (Request, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
	if err != nil {
		return Request{}, fmt.Errorf("failed to parse query: %w", err)
	}
	return Decode(values, now)
}

// Decode builds a Request from already-split query values.
func Decode(values url.Values, now time.Time) (Request, error) {
	var form Form
	if err := decoder.Decode(&form, values); err != nil {
		return Request{}, fmt.Errorf("failed to decode query: %w", err)
	}
	return form.Request(now)
}

// Request validates the form and converts it.
func (f Form) Request(now time.Time) (Request, error) {
	var req Request
	state := &req.Filter

	state.Search = strings.TrimSpace(f.Search)

	for _, s := range f.Status {
		st, err := model.ParseStatus(s)
		if err != nil {
			return Request{}, err
		}
		state.Statuses = model.AddUnique(state.Statuses, st)
	}
	for _, s := range f.Delivery {
		d, err := model.ParseDelivery(s)
		if err != nil {
			return Request{}, err
		}
		state.DeliveryStatuses = model.AddUnique(state.DeliveryStatuses, d)
	}
	state.Departments = uniqueStrings(f.Department)
	state.CreatedBy = uniqueStrings(f.CreatedBy)
	state.ProductTags = uniqueStrings(f.Tag)
	state.Distribution = uniqueStrings(f.Distribution)

	var err error
	if state.PriceRange.Min, err = parseAmount(f.PriceMin); err != nil {
		return Request{}, err
	}
	if state.PriceRange.Max, err = parseAmount(f.PriceMax); err != nil {
		return Request{}, err
	}

	if state.DateRange, err = dateRange(f.Date, f.From, f.To, now); err != nil {
		return Request{}, err
	}

	if req.Sort, err = model.ParseSortSpec(f.Sort); err != nil {
		return Request{}, err
	}

	if f.Page < 0 {
		return Request{}, fmt.Errorf("invalid page %d: pages start at 1", f.Page)
	}
	if f.Page > 0 {
		req.Page = f.Page - 1
	}
	if f.Size != 0 {
		if err := model.ValidatePageSize(f.Size); err != nil {
			return Request{}, err
		}
		req.Size = f.Size
	}
	return req, nil
}

// Values renders a request as query values. Preset date ranges are written
// by label so that they re-resolve when parsed later.
func Values(req Request) url.Values {
	form := FormOf(req)
	values := url.Values{}
	if err := encoder.Encode(&form, values); err != nil {
		// Form only holds strings, string slices and ints
		panic(fmt.Sprintf("failed to encode query: %v", err))
	}
	return values
}

// Encode renders a request as a query string with keys in sorted order.
func Encode(req Request) string {
	return Values(req).Encode()
}

// FormOf flattens a request.
func FormOf(req Request) Form {
	state := req.Filter
	form := Form{
		Search:       state.Search,
		Department:   state.Departments,
		CreatedBy:    state.CreatedBy,
		Tag:          state.ProductTags,
		Distribution: state.Distribution,
		Sort:         req.Sort.String(),
		Size:         req.Size,
	}
	for _, s := range state.Statuses {
		form.Status = append(form.Status, string(s))
	}
	for _, d := range state.DeliveryStatuses {
		form.Delivery = append(form.Delivery, string(d))
	}
	if v := state.PriceRange.Min; v != nil {
		form.PriceMin = strconv.FormatFloat(*v, 'f', -1, 64)
	}
	if v := state.PriceRange.Max; v != nil {
		form.PriceMax = strconv.FormatFloat(*v, 'f', -1, 64)
	}
	if r := state.DateRange; r != nil {
		if r.Label != "" && r.Label != model.PresetCustom {
			form.Date = r.Label
		} else {
			if r.From != nil {
				form.From = FormatDate(*r.From, false)
			}
			if r.To != nil {
				form.To = FormatDate(*r.To, true)
			}
		}
	}
	if req.Page > 0 {
		form.Page = req.Page + 1
	}
	return form
}

// ParseDate accepts "2006-01-02" or RFC 3339. A bare date used as an upper
// bound extends to the last instant of that day.
func ParseDate(s string, upper bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		if upper {
			t = endOfDay(t)
		}
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if t, ok := model.ParseTimestamp(s); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q (use YYYY-MM-DD or RFC 3339)", model.ErrInvalidDate, s)
}

// FormatDate is the inverse of ParseDate.
func FormatDate(t time.Time, upper bool) string {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if (!upper && t.Equal(day)) || (upper && t.Equal(endOfDay(day))) {
		return day.Format(dateLayout)
	}
	return t.Format(time.RFC3339Nano)
}

func endOfDay(day time.Time) time.Time {
	return day.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// dateRange resolves the date, from and to parameters. Explicit bounds
// always produce a custom range.
func dateRange(label, from, to string, now time.Time) (*model.DateRange, error) {
	if from != "" || to != "" {
		if label != "" && !strings.EqualFold(label, model.PresetCustom) {
			return nil, fmt.Errorf("%w: date=%s cannot be combined with from/to", model.ErrInvalidPreset, label)
		}
		var lo, hi *time.Time
		if from != "" {
			t, err := ParseDate(from, false)
			if err != nil {
				return nil, err
			}
			lo = &t
		}
		if to != "" {
			t, err := ParseDate(to, true)
			if err != nil {
				return nil, err
			}
			hi = &t
		}
		return model.CustomRange(lo, hi), nil
	}
	switch {
	case label == "":
		return nil, nil
	case strings.EqualFold(label, model.PresetCustom):
		return nil, fmt.Errorf("%w: custom range needs from or to", model.ErrInvalidPreset)
	}
	return model.DatePreset(label, now)
}

func parseAmount(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidPrice, s)
	}
	v := d.InexactFloat64()
	return &v, nil
}

func uniqueStrings(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = model.AddUnique(out, v)
		}
	}
	return out
}
