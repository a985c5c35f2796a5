package model

import "fmt"

// PageSizes are the page sizes offered by the table footer.
var PageSizes = []int{10, 20, 50, 100}

// DefaultPageSize is the initial rows-per-page.
const DefaultPageSize = 10

// ValidatePageSize rejects zero and negative sizes.
func ValidatePageSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, size)
	}
	return nil
}
