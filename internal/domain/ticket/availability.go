// internal/domain/ticket/availability.go
package ticket

// Group and Offer are opaque resale records. Only their presence matters.
type Group map[string]any
type Offer map[string]any

// Availability is the resale state of a single ticket category.
type Availability struct {
	Groups []Group `json:"groups"`
	Offers []Offer `json:"offers"`
}

// IsAvailable reports whether the category has any group or offer on sale.
func (a *Availability) IsAvailable() bool {
	if a == nil {
		return false
	}
	return len(a.Groups) > 0 || len(a.Offers) > 0
}
