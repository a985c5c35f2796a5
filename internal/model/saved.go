package model

import "time"

// SavedFilter is a named snapshot of a FilterState, search term included.
type SavedFilter struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	State     FilterState `json:"state"`
	CreatedAt time.Time   `json:"createdAt"`
}
