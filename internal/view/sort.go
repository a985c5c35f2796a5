package view

import (
	"fmt"
	"math"
	"slices"

	"github.com/user/orderdesk/internal/model"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLanguage is the collation language used when none is configured.
var DefaultLanguage = language.MustParse("nb")

// compareFunc orders two orders on a single column.
type compareFunc func(c *Comparator, a, b *model.Order) int

// Comparator orders records by a SortSpec. It is not safe for concurrent use
// because the collator reuses internal buffers.
type Comparator struct {
	collator *collate.Collator
	table    map[model.SortKey]compareFunc
}

// NewComparator builds a comparator collating strings for tag.
func NewComparator(tag language.Tag) *Comparator {
	return &Comparator{
		collator: collate.New(collationTag(tag)),
		table: map[model.SortKey]compareFunc{
			model.SortRef:          byString(func(o *model.Order) string { return o.Ref }),
			model.SortCustomer:     byString(func(o *model.Order) string { return o.Customer }),
			model.SortProducts:     byString(func(o *model.Order) string { return o.Products }),
			model.SortDistribution: byString(func(o *model.Order) string { return o.Distribution }),
			model.SortDelivery:     byString(func(o *model.Order) string { return string(o.Delivery) }),
			model.SortCreated:      byTime(func(o *model.Order) string { return o.Created }),
			model.SortStart:        byTime(func(o *model.Order) string { return o.Start }),
			model.SortEnd:          byTime(func(o *model.Order) string { return o.End }),
			model.SortStatus:       byStatus,
			model.SortPrice:        byPrice,
		},
	}
}

// ParseLanguage resolves a BCP 47 locale such as "nb" or "en-GB".
func ParseLanguage(locale string) (language.Tag, error) {
	if locale == "" {
		return DefaultLanguage, nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return tag, nil
}

// collationTag maps Bokmål and macrolanguage Norwegian onto Nynorsk, which
// carries the Norwegian æ, ø, å tailoring. The nb table sorts like root.
func collationTag(tag language.Tag) language.Tag {
	switch base, _ := tag.Base(); base.String() {
	case "nb", "no":
		return language.Make("nn")
	}
	return tag
}

// Compare walks spec in order; the first non-zero column decides.
// Unknown keys compare equal.
func (c *Comparator) Compare(a, b *model.Order, spec model.SortSpec) int {
	for _, field := range spec {
		fn, ok := c.table[field.Key]
		if !ok {
			continue
		}
		r := fn(c, a, b)
		if r == 0 {
			continue
		}
		if field.Descending {
			return -r
		}
		return r
	}
	return 0
}

// Sort returns a stably sorted copy of orders. An empty spec returns the
// input slice unchanged.
func (c *Comparator) Sort(orders []model.Order, spec model.SortSpec) []model.Order {
	if len(spec) == 0 {
		return orders
	}
	out := slices.Clone(orders)
	slices.SortStableFunc(out, func(a, b model.Order) int {
		return c.Compare(&a, &b, spec)
	})
	return out
}

func byString(field func(o *model.Order) string) compareFunc {
	return func(c *Comparator, a, b *model.Order) int {
		return c.collator.CompareString(field(a), field(b))
	}
}

// byTime treats the unset sentinel and unparseable values as the earliest
// possible instant.
func byTime(field func(o *model.Order) string) compareFunc {
	instant := func(o *model.Order) int64 {
		t, ok := model.ParseTimestamp(field(o))
		if !ok {
			return math.MinInt64
		}
		return t.Unix()
	}
	return func(_ *Comparator, a, b *model.Order) int {
		return cmpInt64(instant(a), instant(b))
	}
}

func byStatus(_ *Comparator, a, b *model.Order) int {
	return a.Status.Priority() - b.Status.Priority()
}

// byPrice places unparseable prices after every valid one.
func byPrice(_ *Comparator, a, b *model.Order) int {
	pa, okA := model.ParsePrice(a.Price)
	pb, okB := model.ParsePrice(b.Price)
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	}
	return pa.Cmp(pb)
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
