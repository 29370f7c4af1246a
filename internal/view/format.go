package view

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders numbers, money and times for the configured locale.
type Formatter struct {
	printer  *message.Printer
	location *time.Location
	currency string
}

// NewFormatter builds a Formatter. An unparsable locale falls back to Indonesian.
func NewFormatter(locale string, loc *time.Location) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Indonesian
	}
	if loc == nil {
		loc = time.Local
	}
	return &Formatter{printer: message.NewPrinter(tag), location: loc, currency: "Rp"}
}

// Money formats an amount in rupiah without fraction digits.
func (f *Formatter) Money(amount decimal.Decimal) string {
	return f.currency + " " + f.printer.Sprint(number.Decimal(amount.Round(0).IntPart()))
}

// Number formats an integer with locale grouping.
func (f *Formatter) Number(n int) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Decimal formats a fractional value with at most two digits.
func (f *Formatter) Decimal(v float64) string {
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Percent formats a discount percentage such as 15 as "15%".
func (f *Formatter) Percent(v decimal.Decimal) string {
	return f.Decimal(v.InexactFloat64()) + "%"
}

// Date formats a time as a calendar day in the dashboard location.
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(f.location).Format("02 Jan 2006")
}

// DateTime formats a timestamp in the dashboard location.
func (f *Formatter) DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(f.location).Format("02 Jan 2006 15:04")
}

// Ago renders a relative time such as "3 hours ago".
func (f *Formatter) Ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// Location returns the display time zone.
func (f *Formatter) Location() *time.Location { return f.location }
