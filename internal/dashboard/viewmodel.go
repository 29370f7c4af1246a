package dashboard

import (
	"maps"
	"slices"
	"strconv"

	"github.com/halocare/halocare-admin/internal/view"
)

// Card is one headline number.
type Card struct {
	Label string
	Value string
	Hint  string
	Link  string
}

// EntityRow is one line of the collections table.
type EntityRow struct {
	Title    string
	Path     string
	Total    string
	Statuses []StatusCount
}

// StatusCount is a status badge with its count.
type StatusCount struct {
	Status string
	Count  string
}

// TransactionRow is a formatted latest transaction.
type TransactionRow struct {
	ID          string
	Reference   string
	PatientName string
	Amount      string
	Status      string
	When        string
}

// PromotionRow is a formatted promotion ending soon.
type PromotionRow struct {
	ID      string
	Code    string
	Name    string
	EndDate string
	EndsIn  string
}

// PageData backs pages/dashboard.html.
type PageData struct {
	Cards        []Card
	Entities     []EntityRow
	Transactions []TransactionRow
	EndingSoon   []PromotionRow
	GeneratedAt  string
	Error        string
}

// NewPageData formats a summary for display.
func NewPageData(sum Summary, f *view.Formatter) PageData {
	rating := "-"
	if sum.RatingCount > 0 {
		rating = f.Decimal(sum.AverageRating) + " / 5"
	}
	data := PageData{
		Cards: []Card{
			{Label: "Pending transfers", Value: f.Number(sum.PendingTransfers), Hint: f.Money(sum.PendingAmount), Link: "/transactions?status=pending"},
			{Label: "Revenue this month", Value: f.Money(sum.MonthRevenue), Hint: "Confirmed transfers", Link: "/transactions?status=confirmed"},
			{Label: "Average rating", Value: rating, Hint: f.Number(sum.RatingCount) + " reviews", Link: "/feedback"},
			{Label: "Active promotions", Value: f.Number(sum.ActivePromotions), Hint: strconv.Itoa(len(sum.EndingSoon)) + " ending within 7 days", Link: "/promotions?status=active"},
		},
		GeneratedAt: f.Ago(sum.GeneratedAt),
	}
	for _, e := range sum.Entities {
		row := EntityRow{Title: e.Title, Path: e.Path, Total: f.Number(e.Total)}
		for _, status := range slices.Sorted(maps.Keys(e.ByStatus)) {
			row.Statuses = append(row.Statuses, StatusCount{Status: status, Count: f.Number(e.ByStatus[status])})
		}
		data.Entities = append(data.Entities, row)
	}
	for _, t := range sum.LatestTransactions {
		data.Transactions = append(data.Transactions, TransactionRow{
			ID:          t.ID,
			Reference:   t.Reference,
			PatientName: t.PatientName,
			Amount:      f.Money(t.Amount),
			Status:      t.Status,
			When:        f.Ago(t.TransferredAt),
		})
	}
	for _, p := range sum.EndingSoon {
		data.EndingSoon = append(data.EndingSoon, PromotionRow{
			ID:      p.ID,
			Code:    p.Code,
			Name:    p.Name,
			EndDate: f.Date(p.EndDate),
			EndsIn:  f.Ago(p.EndDate),
		})
	}
	return data
}
