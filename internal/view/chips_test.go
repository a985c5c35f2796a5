package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/orderdesk/internal/model"
)

func TestProject(t *testing.T) {
	t.Run("one chip per active constraint in field order", func(t *testing.T) {
		now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		dr, err := model.DatePreset(model.PresetLast7, now)
		require.NoError(t, err)

		state := model.FilterState{
			Search:           "bike",
			DateRange:        dr,
			Statuses:         []model.OrderStatus{model.StatusClosed, model.StatusBooked},
			Departments:      []string{"Avdeling 16"},
			DeliveryStatuses: []model.DeliveryStatus{model.DeliveryDelayed},
			PriceRange:       model.PriceRange{Min: ptr(100.0), Max: ptr(60.5)},
			CreatedBy:        []string{"Jonas"},
			ProductTags:      []string{"E-bike"},
			Distribution:     []string{"Oslo"},
		}

		var labels []string
		for _, c := range Project(state, "") {
			labels = append(labels, c.Label)
		}
		assert.Equal(t, []string{
			"Search: bike",
			"Date: Last 7",
			"Status: Closed",
			"Status: Booked",
			"Department: Avdeling 16",
			"Delivery: Delayed",
			"Min 100 NOK",
			"Max 60.5 NOK",
			"Created by: Jonas",
			"Tag: E-bike",
			"Distribution: Oslo",
		}, labels)
	})

	t.Run("zero state has no chips", func(t *testing.T) {
		assert.Empty(t, Project(model.FilterState{}, "NOK"))
	})

	t.Run("currency is configurable", func(t *testing.T) {
		chips := Project(model.FilterState{PriceRange: model.PriceRange{Max: ptr(60.0)}}, "EUR")
		require.Len(t, chips, 1)
		assert.Equal(t, "Max 60 EUR", chips[0].Label)
	})
}

func TestRemove(t *testing.T) {
	t.Run("removing a status chip is the inverse of adding it", func(t *testing.T) {
		base := model.FilterState{Statuses: []model.OrderStatus{model.StatusClosed}}
		added := base.Clone()
		added.Statuses = model.Toggle(added.Statuses, model.StatusBooked)

		chips := Project(added, "")
		require.Len(t, chips, 2)
		assert.Equal(t, "Status: Booked", chips[1].Label)

		got := Remove(added, chips[1].Key, chips[1].Value)
		assert.True(t, base.Equal(got))
		assert.Equal(t, []model.OrderStatus{model.StatusClosed}, got.Statuses)
	})

	t.Run("every chip removal drops exactly one chip", func(t *testing.T) {
		state := model.FilterState{
			Search:      "x",
			DateRange:   model.CustomRange(nil, nil),
			Departments: []string{"A", "B"},
			PriceRange:  model.PriceRange{Min: ptr(1.0), Max: ptr(2.0)},
		}
		chips := Project(state, "")
		for _, c := range chips {
			after := Project(Remove(state, c.Key, c.Value), "")
			assert.Len(t, after, len(chips)-1, "removing %s", c.Label)
			assert.NotContains(t, after, c)
		}
	})

	t.Run("unknown key leaves state unchanged", func(t *testing.T) {
		state := model.FilterState{Search: "x"}
		assert.True(t, state.Equal(Remove(state, "weight", "x")))
	})

	t.Run("absent value leaves state unchanged", func(t *testing.T) {
		state := model.FilterState{Departments: []string{"A"}}
		assert.True(t, state.Equal(Remove(state, ChipDepartment, "B")))
	})

	t.Run("remove does not touch the input", func(t *testing.T) {
		state := model.FilterState{CreatedBy: []string{"Jonas", "Helga"}}
		Remove(state, ChipCreatedBy, "Jonas")
		assert.Equal(t, []string{"Jonas", "Helga"}, state.CreatedBy)
	})
}

func TestParseChipKey(t *testing.T) {
	k, ok := ParseChipKey("status")
	assert.True(t, ok)
	assert.Equal(t, ChipStatus, k)

	k, ok = ParseChipKey("min")
	assert.True(t, ok)
	assert.Equal(t, ChipPriceMin, k)

	_, ok = ParseChipKey("colour")
	assert.False(t, ok)
}
