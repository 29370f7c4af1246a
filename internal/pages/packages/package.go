// Package packages manages bookable service packages such as lab panels and
// check-ups.
package packages

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service package statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ServicePackage is a fixed-price bundle of services.
type ServicePackage struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Description     string          `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"durationMinutes"`
	Includes        []string        `json:"includes,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}
