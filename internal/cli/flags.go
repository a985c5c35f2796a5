package cli

import (
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"github.com/user/orderdesk/internal/model"
	"github.com/user/orderdesk/internal/query"
	"github.com/user/orderdesk/internal/storage"
	"github.com/user/orderdesk/internal/view"
)

// viewFlags are the filter, sort and paging flags shared by list and export.
type viewFlags struct {
	search       string
	statuses     []string
	departments  []string
	deliveries   []string
	createdBy    []string
	tags         []string
	distribution []string
	priceMin     string
	priceMax     string
	date         string
	from         string
	to           string
	query        string
	saved        string
	sort         string
	page         int
	pageSize     int
}

func (f *viewFlags) register(fs *pflag.FlagSet, paging bool) {
	fs.StringVar(&f.search, "search", "", "Search ref, customer, products, status, delivery, distribution and created")
	fs.StringSliceVar(&f.statuses, "status", nil, "Order status (repeatable or comma-separated)")
	fs.StringSliceVar(&f.departments, "department", nil, "Department (repeatable)")
	fs.StringSliceVar(&f.deliveries, "delivery", nil, "Delivery status; '-' for unset (repeatable)")
	fs.StringSliceVar(&f.createdBy, "created-by", nil, "Creator (repeatable)")
	fs.StringSliceVar(&f.tags, "tag", nil, "Product tag (repeatable)")
	fs.StringArrayVar(&f.distribution, "distribution", nil, "Distribution substring (repeatable)")
	fs.StringVar(&f.priceMin, "price-min", "", "Minimum price")
	fs.StringVar(&f.priceMax, "price-max", "", "Maximum price")
	fs.StringVar(&f.date, "date", "", "Created date preset: Today, 'Last 7', 'This month'")
	fs.StringVar(&f.from, "from", "", "Created on or after (YYYY-MM-DD or RFC 3339)")
	fs.StringVar(&f.to, "to", "", "Created on or before (YYYY-MM-DD or RFC 3339)")
	fs.StringVar(&f.query, "query", "", "Filter, sort and page as a query string (e.g. 'status=Booked&sort=-price')")
	fs.StringVar(&f.saved, "saved", "", "Start from a saved filter (id or name)")
	fs.StringVar(&f.sort, "sort", "", "Sort columns, '-' for descending (e.g. 'status,-created')")
	if paging {
		fs.IntVar(&f.page, "page", 0, "Page number, starting at 1")
		fs.IntVar(&f.pageSize, "page-size", 0, "Rows per page (default from config)")
	}
}

func (f *viewFlags) reset() {
	*f = viewFlags{}
}

// values renders the individual flags as query values.
func (f *viewFlags) values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("q", f.search)
	set("price_min", f.priceMin)
	set("price_max", f.priceMax)
	set("date", f.date)
	set("from", f.from)
	set("to", f.to)
	set("sort", f.sort)
	if f.page != 0 {
		v.Set("page", strconv.Itoa(f.page))
	}
	if f.pageSize != 0 {
		v.Set("size", strconv.Itoa(f.pageSize))
	}
	v["status"] = f.statuses
	v["department"] = f.departments
	v["delivery"] = f.deliveries
	v["created_by"] = f.createdBy
	v["tag"] = f.tags
	v["distribution"] = f.distribution
	for k, vals := range v {
		if len(vals) == 0 {
			delete(v, k)
		}
	}
	return v
}

// request resolves the flags into a view request. Layers apply in order:
// saved filter, --query, individual flags. Later layers add to list
// constraints and replace scalar ones.
func (f *viewFlags) request(filters storage.SavedFilterStore, now time.Time) (query.Request, error) {
	var req query.Request

	if f.saved != "" {
		saved, err := filters.Find(f.saved)
		if err != nil {
			return query.Request{}, err
		}
		req.Filter = saved.State.Clone()
	}

	if f.query != "" {
		q, err := query.Parse(f.query, now)
		if err != nil {
			return query.Request{}, err
		}
		req = overlay(req, q)
	}

	q, err := query.Decode(f.values(), now)
	if err != nil {
		return query.Request{}, err
	}
	return overlay(req, q), nil
}

// overlay merges top onto base.
func overlay(base, top query.Request) query.Request {
	out := base
	out.Filter = mergeFilter(base.Filter, top.Filter)
	if len(top.Sort) > 0 {
		out.Sort = top.Sort
	}
	if top.Page != 0 {
		out.Page = top.Page
	}
	if top.Size != 0 {
		out.Size = top.Size
	}
	return out
}

func mergeFilter(base, top model.FilterState) model.FilterState {
	out := base.Clone()
	if top.Search != "" {
		out.Search = top.Search
	}
	if top.DateRange != nil {
		out.DateRange = top.DateRange
	}
	if top.PriceRange.Min != nil {
		out.PriceRange.Min = top.PriceRange.Min
	}
	if top.PriceRange.Max != nil {
		out.PriceRange.Max = top.PriceRange.Max
	}
	for _, s := range top.Statuses {
		out.Statuses = model.AddUnique(out.Statuses, s)
	}
	for _, d := range top.DeliveryStatuses {
		out.DeliveryStatuses = model.AddUnique(out.DeliveryStatuses, d)
	}
	out.Departments = union(out.Departments, top.Departments)
	out.CreatedBy = union(out.CreatedBy, top.CreatedBy)
	out.ProductTags = union(out.ProductTags, top.ProductTags)
	out.Distribution = union(out.Distribution, top.Distribution)
	return out
}

func union(base, extra []string) []string {
	for _, v := range extra {
		base = model.AddUnique(base, v)
	}
	return base
}

// applyRequest pushes a resolved request into the engine.
func applyRequest(engine *view.Engine, req query.Request) error {
	if req.Size != 0 {
		if err := engine.SetPageSize(req.Size); err != nil {
			return err
		}
	}
	engine.SetFilter(req.Filter)
	engine.SetSort(req.Sort)
	engine.SetPage(req.Page)
	return nil
}

// exitForRequestError reports flag resolution failures.
func exitForRequestError(err error, saved string) {
	if errors.Is(err, model.ErrSavedFilterNotFound) {
		ExitFilterNotFound(saved)
		return
	}
	exitForError(err)
}
