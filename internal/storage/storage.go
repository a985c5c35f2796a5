// Package storage provides persistent storage for orders and saved filters.
package storage

import (
	"github.com/user/orderdesk/internal/model"
)

// OrderSource supplies the full order dataset.
type OrderSource interface {
	ReadAll() ([]model.Order, error)
}

// SavedFilterStore defines persistence for named filter presets.
type SavedFilterStore interface {
	// Save stores a snapshot of state under name with a fresh id.
	Save(name string, state model.FilterState) (model.SavedFilter, error)
	// List returns saved filters, oldest first.
	List() ([]model.SavedFilter, error)
	// Get returns the filter with the given id.
	Get(id string) (model.SavedFilter, error)
	// Find resolves an id, or else the most recent filter with that name.
	Find(idOrName string) (model.SavedFilter, error)
	// Delete removes the filter with the given id.
	Delete(id string) error
}
