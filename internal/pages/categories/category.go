// Package categories manages the taxonomy shared by articles, services and
// specialties.
package categories

import "time"

// Category statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Category is one taxonomy entry.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
