package admin

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/halocare/halocare-admin/internal/listing"
)

// FormDecimal parses a money or percentage field. Indonesian notation such as
// "1.250.000,50" is accepted.
func FormDecimal(values url.Values, name string, errs FieldErrors) decimal.Decimal {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(normalizeNumber(raw))
	if err != nil {
		errs.Add(name, "Enter a number.")
		return decimal.Zero
	}
	return d
}

// FormInt parses an integer field.
func FormInt(values url.Values, name string, errs FieldErrors) int {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(name, "Enter a whole number.")
		return 0
	}
	return n
}

// FormDate parses a YYYY-MM-DD field as midnight in loc.
func FormDate(values url.Values, name string, loc *time.Location, errs FieldErrors) *time.Time {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(listing.DateLayout, raw, loc)
	if err != nil {
		errs.Add(name, "Use the YYYY-MM-DD format.")
		return nil
	}
	return &t
}

// FormBool reads a checkbox.
func FormBool(values url.Values, name string) bool {
	v, _ := strconv.ParseBool(values.Get(name))
	return v
}

// FormString trims a text field.
func FormString(values url.Values, name string) string {
	return strings.TrimSpace(values.Get(name))
}

// DateValue formats t for a date input.
func DateValue(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(listing.DateLayout)
}

// Labels turns value/label pairs into Options.
func Labels(pairs ...string) []Option {
	out := make([]Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Option{Value: pairs[i], Label: pairs[i+1]})
	}
	return out
}

// LabelOf returns the label of value in opts, or value itself.
func LabelOf(opts []Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

// Slugify lowercases s and joins its words with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func normalizeNumber(raw string) string {
	raw = strings.ReplaceAll(raw, " ", "")
	switch {
	case strings.Contains(raw, ","):
		// Indonesian notation: dots group, comma separates decimals.
		raw = strings.ReplaceAll(raw, ".", "")
		return strings.Replace(raw, ",", ".", 1)
	case strings.Count(raw, ".") > 1:
		return strings.ReplaceAll(raw, ".", "")
	default:
		return raw
	}
}
