// Package promotions manages voucher codes.
package promotions

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusExpired  = "expired"
)

// Discount types.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Promotion is a voucher patients apply at checkout.
type Promotion struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	DiscountType   string          `json:"discountType"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	MaxDiscount    decimal.Decimal `json:"maxDiscount"`
	MinTransaction decimal.Decimal `json:"minTransaction"`
	Quota          int             `json:"quota"`
	Used           int             `json:"used"`
	Status         string          `json:"status"`
	StartDate      time.Time       `json:"startDate"`
	EndDate        time.Time       `json:"endDate"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// Remaining is the unused quota. A zero quota means unlimited and reports -1.
func (p Promotion) Remaining() int {
	if p.Quota == 0 {
		return -1
	}
	return max(p.Quota-p.Used, 0)
}

// EndsWithin reports whether an active promotion ends between now and now+d.
func (p Promotion) EndsWithin(now time.Time, d time.Duration) bool {
	if p.Status != StatusActive || p.EndDate.IsZero() {
		return false
	}
	return !p.EndDate.Before(now) && p.EndDate.Before(now.Add(d))
}
