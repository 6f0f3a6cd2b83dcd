// internal/domain/ticket/source.go
package ticket

import "context"

// Source defines how the current availability of a category is retrieved.
type Source interface {
	Fetch(ctx context.Context, categoryID string) (*Availability, error)
}
