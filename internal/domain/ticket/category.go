// internal/domain/ticket/category.go
package ticket

// Category is one of the ticket classes polled every cycle.
type Category struct {
	Name    string // Used in status lines, e.g. "ordinary"
	ID      string // Resale event id queried on the availability API
	Message string // Norwegian notification text
}

var (
	Ordinary = Category{
		Name:    "ordinary",
		ID:      "703709",
		Message: "😱 Vanlig billett tilgjengelig! Trykk for å komme til Ticketmaster",
	}
	DNT = Category{
		Name:    "DNT",
		ID:      "705713",
		Message: "😱 DNT-billett tilgjengelig! Trykk for å komme til Ticketmaster",
	}
)

// Categories returns the categories checked each cycle, in notification order.
func Categories() []Category {
	return []Category{Ordinary, DNT}
}
