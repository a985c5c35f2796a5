package model

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestOrderStatus(t *testing.T) {
	t.Run("priority follows operational order", func(t *testing.T) {
		assert.Equal(t, 0, StatusBooked.Priority())
		assert.Equal(t, 1, StatusInCart.Priority())
		assert.Equal(t, 6, StatusTest.Priority())
	})

	t.Run("unknown status sorts after every known one", func(t *testing.T) {
		assert.Equal(t, len(StatusPriority), OrderStatus("Archived").Priority())
		assert.False(t, OrderStatus("Archived").Valid())
	})

	t.Run("parse is case-insensitive", func(t *testing.T) {
		st, err := ParseStatus("in cart")
		require.NoError(t, err)
		assert.Equal(t, StatusInCart, st)

		_, err = ParseStatus("shipped")
		assert.True(t, errors.Is(err, ErrInvalidStatus))
	})
}

func TestParseDelivery(t *testing.T) {
	for _, in := range []string{"-", "none", "—", "unset"} {
		t.Run("unset alias "+in, func(t *testing.T) {
			d, err := ParseDelivery(in)
			require.NoError(t, err)
			assert.Equal(t, DeliveryUnset, d)
		})
	}

	t.Run("known value", func(t *testing.T) {
		d, err := ParseDelivery("ready to pickup")
		require.NoError(t, err)
		assert.Equal(t, DeliveryReady, d)
	})

	t.Run("unknown value", func(t *testing.T) {
		_, err := ParseDelivery("Lost")
		assert.ErrorIs(t, err, ErrInvalidDelivery)
	})
}

func TestOrderActions(t *testing.T) {
	tests := []struct {
		status    OrderStatus
		locked    bool
		canCancel bool
	}{
		{StatusBooked, false, true},
		{StatusInCart, false, true},
		{StatusCancelled, false, false},
		{StatusClosed, true, false},
		{StatusDropped, true, false},
		{StatusTest, true, false},
		{StatusRequest, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			o := &Order{Status: tt.status}
			assert.Equal(t, tt.locked, o.Locked())
			assert.Equal(t, tt.canCancel, o.CanCancel())
			assert.Equal(t, !tt.locked, o.CanClose())
		})
	}

	t.Run("delayed by flag or delivery", func(t *testing.T) {
		assert.True(t, (&Order{Delayed: true}).IsDelayed())
		assert.True(t, (&Order{Delivery: DeliveryDelayed}).IsDelayed())
		assert.False(t, (&Order{Delivery: DeliveryReady}).IsDelayed())
	})
}

func TestOrderValidate(t *testing.T) {
	t.Run("missing ref", func(t *testing.T) {
		err := (&Order{Status: StatusBooked, Delivery: DeliveryReady}).Validate()
		assert.ErrorIs(t, err, ErrRequiredField)
	})

	t.Run("bad status", func(t *testing.T) {
		err := (&Order{Ref: "AB12", Status: "Nope", Delivery: DeliveryReady}).Validate()
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("valid", func(t *testing.T) {
		err := (&Order{Ref: "AB12", Status: StatusBooked, Delivery: DeliveryUnset}).Validate()
		assert.NoError(t, err)
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Run("display layout", func(t *testing.T) {
		ts, ok := ParseTimestamp("15 Jul 2020 22:00")
		require.True(t, ok)
		assert.Equal(t, time.Date(2020, 7, 15, 22, 0, 0, 0, time.UTC), ts)
		assert.Equal(t, "15 Jul 2020 22:00", FormatTimestamp(ts))
	})

	t.Run("sentinel and garbage are not ok", func(t *testing.T) {
		_, ok := ParseTimestamp(Unset)
		assert.False(t, ok)
		_, ok = ParseTimestamp("yesterday")
		assert.False(t, ok)
		_, ok = ParseTimestamp("")
		assert.False(t, ok)
	})
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,600.00 NOK", "1600", true},
		{"800.00 NOK", "800", true},
		{"199.99", "199.99", true},
		{"1.600,50 kr", "1600.5", true},
		{"12,5 NOK", "12.5", true},
		{"1,249 NOK", "1249", true},
		{"NOK", "", false},
		{"free", "", false},
		{"1.2.3", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, d.String())
			}
		})
	}
}

func TestFilterState(t *testing.T) {
	t.Run("zero state", func(t *testing.T) {
		assert.True(t, FilterState{}.IsZero())
		assert.False(t, FilterState{Search: "x"}.IsZero())
		assert.False(t, FilterState{PriceRange: PriceRange{Max: ptr(60.0)}}.IsZero())
	})

	t.Run("clone does not share slices or bounds", func(t *testing.T) {
		orig := FilterState{
			Statuses:   []OrderStatus{StatusBooked},
			PriceRange: PriceRange{Min: ptr(10.0)},
		}
		c := orig.Clone()
		c.Statuses[0] = StatusTest
		*c.PriceRange.Min = 99
		assert.Equal(t, StatusBooked, orig.Statuses[0])
		assert.Equal(t, 10.0, *orig.PriceRange.Min)
	})

	t.Run("fingerprint ignores nil versus empty", func(t *testing.T) {
		a := FilterState{Statuses: nil}
		b := FilterState{Statuses: []OrderStatus{}}
		assert.Equal(t, a.Fingerprint(), b.Fingerprint())
		assert.True(t, a.Equal(b))
	})

	t.Run("fingerprint changes with constraints", func(t *testing.T) {
		a := FilterState{Statuses: []OrderStatus{StatusBooked}}
		b := FilterState{Statuses: []OrderStatus{StatusClosed}}
		assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
	})

	t.Run("with search leaves receiver untouched", func(t *testing.T) {
		base := FilterState{Search: "a"}
		next := base.WithSearch("b")
		assert.Equal(t, "a", base.Search)
		assert.Equal(t, "b", next.Search)
	})
}

func TestToggle(t *testing.T) {
	set := []string{"a", "b"}
	assert.Equal(t, []string{"a", "b", "c"}, Toggle(set, "c"))
	assert.Equal(t, []string{"b"}, Toggle(set, "a"))
	assert.Equal(t, []string{"a", "b"}, set)
	assert.Equal(t, []string{"a", "b"}, AddUnique(set, "a"))
	assert.Equal(t, []string{"a"}, Without(set, "b"))
}

func TestDatePreset(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	t.Run("last 7 reaches back seven days", func(t *testing.T) {
		r, err := DatePreset("last 7", now)
		require.NoError(t, err)
		assert.Equal(t, PresetLast7, r.Label)
		assert.Equal(t, now.AddDate(0, 0, -7), *r.From)
		assert.Equal(t, now, *r.To)
		assert.True(t, r.Active())
	})

	t.Run("today starts at now", func(t *testing.T) {
		r, err := DatePreset(PresetToday, now)
		require.NoError(t, err)
		assert.Equal(t, *r.From, *r.To)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := DatePreset("Last decade", now)
		assert.ErrorIs(t, err, ErrInvalidPreset)
	})

	t.Run("custom range without bounds is inactive", func(t *testing.T) {
		assert.False(t, CustomRange(nil, nil).Active())
	})
}

func TestSortSpec(t *testing.T) {
	t.Run("parse and render", func(t *testing.T) {
		spec, err := ParseSortSpec("price, -created")
		require.NoError(t, err)
		want := SortSpec{{Key: SortPrice}, {Key: SortCreated, Descending: true}}
		if diff := cmp.Diff(want, spec); diff != "" {
			t.Errorf("spec mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, "price,-created", spec.String())
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		_, err := ParseSortSpec("price,weight")
		assert.ErrorIs(t, err, ErrInvalidSortKey)
	})

	t.Run("empty input yields empty spec", func(t *testing.T) {
		spec, err := ParseSortSpec("")
		require.NoError(t, err)
		assert.Empty(t, spec)
	})

	t.Run("toggle cycles asc desc removed", func(t *testing.T) {
		var spec SortSpec
		spec = spec.Toggle(SortPrice, false)
		assert.Equal(t, "price", spec.String())
		spec = spec.Toggle(SortPrice, false)
		assert.Equal(t, "-price", spec.String())
		spec = spec.Toggle(SortPrice, false)
		assert.Empty(t, spec)
	})

	t.Run("toggle without multi replaces other keys", func(t *testing.T) {
		spec := SortSpec{{Key: SortPrice}}
		assert.Equal(t, "status", spec.Toggle(SortStatus, false).String())
	})

	t.Run("multi toggle keeps position", func(t *testing.T) {
		spec := SortSpec{{Key: SortStatus}, {Key: SortPrice}}
		spec = spec.Toggle(SortStatus, true)
		assert.Equal(t, "-status,price", spec.String())
		spec = spec.Toggle(SortCreated, true)
		assert.Equal(t, "-status,price,created", spec.String())
		spec = spec.Toggle(SortStatus, true)
		assert.Equal(t, "price,created", spec.String())
	})
}

func TestGenerateRef(t *testing.T) {
	t.Run("shape", func(t *testing.T) {
		ref, err := GenerateRef(nil)
		require.NoError(t, err)
		assert.Regexp(t, `^[A-Z]{2}[0-9]{2}$`, ref)
		assert.NoError(t, ValidateRef(ref))
	})

	t.Run("avoids taken refs", func(t *testing.T) {
		calls := 0
		ref, err := GenerateRef(func(string) bool {
			calls++
			return calls < 3
		})
		require.NoError(t, err)
		assert.NotEmpty(t, ref)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up when everything is taken", func(t *testing.T) {
		_, err := GenerateRef(func(string) bool { return true })
		assert.ErrorIs(t, err, ErrDuplicateRef)
	})

	t.Run("validate rejects lower case", func(t *testing.T) {
		assert.ErrorIs(t, ValidateRef("ab12"), ErrInvalidRef)
	})
}

func TestValidatePageSize(t *testing.T) {
	assert.NoError(t, ValidatePageSize(1))
	assert.ErrorIs(t, ValidatePageSize(0), ErrInvalidPageSize)
	assert.ErrorIs(t, ValidatePageSize(-5), ErrInvalidPageSize)
}
