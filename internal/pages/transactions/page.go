package transactions

import (
	"time"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
)

// Page key.
const Name = "transactions"

var (
	statusOptions = admin.Labels(
		StatusPending, "Pending",
		StatusConfirmed, "Confirmed",
		StatusRejected, "Rejected",
		StatusRefunded, "Refunded",
	)
	methodOptions = admin.Labels(
		MethodBankTransfer, "Bank transfer",
		MethodVirtualAccount, "Virtual account",
		MethodEWallet, "E-wallet",
	)
)

// Schema describes how the transaction list is searched, filtered and sorted.
func Schema(loc *time.Location) *listing.Schema[Transaction] {
	return &listing.Schema[Transaction]{
		Page:     Name,
		Defaults: listing.Query{PageSize: listing.DefaultPageSize, SortBy: "transferredAt", SortDir: listing.SortDesc},
		ID:       func(t Transaction) string { return t.ID },
		Search: []func(Transaction) string{
			func(t Transaction) string { return t.Reference },
			func(t Transaction) string { return t.PatientName },
			func(t Transaction) string { return t.BankName },
		},
		Status: func(t Transaction) string { return t.Status },
		Filters: map[string]func(Transaction) string{
			"method": func(t Transaction) string { return t.Method },
		},
		Date: func(t Transaction) (time.Time, bool) { return t.TransferredAt, !t.TransferredAt.IsZero() },
		Sorts: map[string]listing.Comparator[Transaction]{
			"transferredAt": listing.ByTime(func(t Transaction) time.Time { return t.TransferredAt }),
			"amount":        func(a, b Transaction) int { return a.Amount.Cmp(b.Amount) },
			"reference":     listing.ByString(func(t Transaction) string { return t.Reference }),
		},
		Location: loc,
	}
}

// Config builds the page configuration. Transactions are created by the patient
// app, so managers can only move them between statuses.
func Config(res admin.Resource[Transaction], format *view.Formatter) admin.PageConfig[Transaction, struct{}] {
	return admin.PageConfig[Transaction, struct{}]{
		Title:    "Transactions",
		Singular: "Transaction",
		BasePath: "/transactions",
		ViewPerm: shared.PermTransactionsView,
		EditPerm: shared.PermTransactionsEdit,
		Schema:   Schema(format.Location()),
		Resource: res,
		Columns: []admin.Column[Transaction]{
			{Label: "Reference", SortKey: "reference", Value: func(t Transaction) string { return t.Reference }},
			{Label: "Patient", Value: func(t Transaction) string { return t.PatientName }},
			{Label: "Method", Value: func(t Transaction) string { return admin.LabelOf(methodOptions, t.Method) }},
			{Label: "Bank", Value: func(t Transaction) string { return t.BankName }},
			{Label: "Amount", SortKey: "amount", Value: func(t Transaction) string { return format.Money(t.Amount) }},
			{Label: "Status", Badge: true, Value: func(t Transaction) string { return t.Status }},
			{Label: "Transferred", SortKey: "transferredAt", Value: func(t Transaction) string { return format.DateTime(t.TransferredAt) }},
		},
		StatusOptions: statusOptions,
		Filters:       []admin.Filter{{Key: "method", Label: "methods", Options: methodOptions}},
		DateLabel:     "Transferred",
		Details: func(t Transaction) []admin.DetailRow {
			return []admin.DetailRow{
				{Label: "Reference", Value: t.Reference},
				{Label: "Booking", Value: t.BookingID},
				{Label: "Patient", Value: t.PatientName},
				{Label: "Method", Value: admin.LabelOf(methodOptions, t.Method)},
				{Label: "Bank", Value: t.BankName},
				{Label: "Account holder", Value: t.AccountName},
				{Label: "Amount", Value: format.Money(t.Amount)},
				{Label: "Proof", Value: t.ProofURL},
				{Label: "Status", Value: admin.LabelOf(statusOptions, t.Status)},
				{Label: "Note", Value: t.Note},
				{Label: "Transferred", Value: format.DateTime(t.TransferredAt)},
				{Label: "Recorded", Value: format.DateTime(t.CreatedAt)},
			}
		},
		Label: func(t Transaction) string { return t.Reference },
	}
}
