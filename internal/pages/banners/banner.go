// Package banners manages promotional banners of the patient app.
package banners

import "time"

// Banner statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Banner is an image slot shown in the patient app.
type Banner struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ImageURL  string     `json:"imageUrl"`
	LinkURL   string     `json:"linkUrl,omitempty"`
	Position  string     `json:"position"`
	SortOrder int        `json:"sortOrder"`
	Status    string     `json:"status"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}
