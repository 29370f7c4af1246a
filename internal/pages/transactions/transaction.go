// Package transactions lists manual payment transfers awaiting verification.
package transactions

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusRejected  = "rejected"
	StatusRefunded  = "refunded"
)

// Payment methods.
const (
	MethodBankTransfer   = "bank_transfer"
	MethodVirtualAccount = "virtual_account"
	MethodEWallet        = "e_wallet"
)

// Transaction is a patient payment for a booking.
type Transaction struct {
	ID            string          `json:"id"`
	Reference     string          `json:"reference"`
	PatientName   string          `json:"patientName"`
	BookingID     string          `json:"bookingId"`
	Method        string          `json:"method"`
	BankName      string          `json:"bankName,omitempty"`
	AccountName   string          `json:"accountName,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	ProofURL      string          `json:"proofUrl,omitempty"`
	Status        string          `json:"status"`
	Note          string          `json:"note,omitempty"`
	TransferredAt time.Time       `json:"transferredAt"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Awaiting reports whether the transfer still needs a decision.
func (t Transaction) Awaiting() bool { return t.Status == StatusPending }
