// Package doctors is the doctor directory page.
package doctors

import (
	"time"

	"github.com/shopspring/decimal"
)

// Doctor statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOnLeave  = "on_leave"
)

// Doctor is a practitioner bookable on the platform.
type Doctor struct {
	ID              string          `json:"id"`
	FullName        string          `json:"fullName"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Specialty       string          `json:"specialty"`
	Gender          string          `json:"gender"`
	ExperienceYears int             `json:"experienceYears"`
	LicenseNumber   string          `json:"licenseNumber"`
	ConsultationFee decimal.Decimal `json:"consultationFee"`
	Bio             string          `json:"bio,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"createdAt"`
}
