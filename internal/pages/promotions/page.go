package promotions

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
)

// Page key.
const Name = "promotions"

var (
	statusOptions   = admin.Labels(StatusActive, "Active", StatusInactive, "Inactive", StatusExpired, "Expired")
	discountOptions = admin.Labels(DiscountPercentage, "Percentage", DiscountFixed, "Fixed amount")
	hundred         = decimal.NewFromInt(100)
)

// Schema describes how the promotion list is searched, filtered and sorted.
func Schema(loc *time.Location) *listing.Schema[Promotion] {
	return &listing.Schema[Promotion]{
		Page:     Name,
		Defaults: listing.Query{PageSize: listing.DefaultPageSize, SortBy: "startDate", SortDir: listing.SortDesc},
		ID:       func(p Promotion) string { return p.ID },
		Search: []func(Promotion) string{
			func(p Promotion) string { return p.Code },
			func(p Promotion) string { return p.Name },
		},
		Status: func(p Promotion) string { return p.Status },
		Filters: map[string]func(Promotion) string{
			"discountType": func(p Promotion) string { return p.DiscountType },
		},
		Date: func(p Promotion) (time.Time, bool) { return p.StartDate, !p.StartDate.IsZero() },
		Sorts: map[string]listing.Comparator[Promotion]{
			"startDate":     listing.ByTime(func(p Promotion) time.Time { return p.StartDate }),
			"endDate":       listing.ByTime(func(p Promotion) time.Time { return p.EndDate }),
			"discountValue": func(a, b Promotion) int { return a.DiscountValue.Cmp(b.DiscountValue) },
			"code":          listing.ByString(func(p Promotion) string { return p.Code }),
		},
		Location: loc,
	}
}

// Form is the promotion payload.
type Form struct {
	Code           string          `form:"code" json:"code" validate:"required,alphanum,max=32"`
	Name           string          `form:"name" json:"name" validate:"required,max=120"`
	Description    string          `form:"description" json:"description,omitempty" validate:"max=1000"`
	DiscountType   string          `form:"discountType" json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue  decimal.Decimal `form:"discountValue" json:"discountValue"`
	MaxDiscount    decimal.Decimal `form:"maxDiscount" json:"maxDiscount"`
	MinTransaction decimal.Decimal `form:"minTransaction" json:"minTransaction"`
	Quota          int             `form:"quota" json:"quota" validate:"gte=0"`
	StartDate      *time.Time      `form:"startDate" json:"startDate" validate:"required"`
	EndDate        *time.Time      `form:"endDate" json:"endDate" validate:"required"`
}

// Binder reads posted promotion forms with dates in loc. The end date is
// inclusive, so it is stored as the last millisecond of that day.
func Binder(loc *time.Location) func(url.Values) (Form, admin.FieldErrors) {
	return func(values url.Values) (Form, admin.FieldErrors) {
		errs := admin.FieldErrors{}
		f := Form{
			Code:           strings.ToUpper(admin.FormString(values, "code")),
			Name:           admin.FormString(values, "name"),
			Description:    admin.FormString(values, "description"),
			DiscountType:   admin.FormString(values, "discountType"),
			DiscountValue:  admin.FormDecimal(values, "discountValue", errs),
			MaxDiscount:    admin.FormDecimal(values, "maxDiscount", errs),
			MinTransaction: admin.FormDecimal(values, "minTransaction", errs),
			Quota:          admin.FormInt(values, "quota", errs),
			StartDate:      admin.FormDate(values, "startDate", loc, errs),
			EndDate:        admin.FormDate(values, "endDate", loc, errs),
		}
		if f.EndDate != nil {
			end := f.EndDate.AddDate(0, 0, 1).Add(-time.Millisecond)
			f.EndDate = &end
		}
		if !f.DiscountValue.IsPositive() {
			errs.Add("discountValue", "Must be greater than 0.")
		}
		if f.DiscountType == DiscountPercentage && f.DiscountValue.GreaterThan(hundred) {
			errs.Add("discountValue", "A percentage discount cannot exceed 100.")
		}
		if f.MaxDiscount.IsNegative() {
			errs.Add("maxDiscount", "Must be 0 or more.")
		}
		if f.MinTransaction.IsNegative() {
			errs.Add("minTransaction", "Must be 0 or more.")
		}
		if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
			errs.Add("endDate", "End date must not be before the start date.")
		}
		return f, errs
	}
}

// Valuer turns a promotion into form values.
func Valuer(loc *time.Location) func(Promotion) url.Values {
	return func(p Promotion) url.Values {
		return url.Values{
			"code":           {p.Code},
			"name":           {p.Name},
			"description":    {p.Description},
			"discountType":   {p.DiscountType},
			"discountValue":  {p.DiscountValue.String()},
			"maxDiscount":    {p.MaxDiscount.String()},
			"minTransaction": {p.MinTransaction.String()},
			"quota":          {strconv.Itoa(p.Quota)},
			"startDate":      {admin.DateValue(p.StartDate, loc)},
			"endDate":        {admin.DateValue(p.EndDate, loc)},
		}
	}
}

// Discount renders the discount of p.
func Discount(p Promotion, format *view.Formatter) string {
	if p.DiscountType == DiscountPercentage {
		return format.Percent(p.DiscountValue)
	}
	return format.Money(p.DiscountValue)
}

// Config builds the page configuration.
func Config(res admin.Resource[Promotion], format *view.Formatter) admin.PageConfig[Promotion, Form] {
	loc := format.Location()
	quota := func(p Promotion) string {
		if p.Remaining() < 0 {
			return "unlimited"
		}
		return strconv.Itoa(p.Remaining()) + " of " + strconv.Itoa(p.Quota)
	}
	return admin.PageConfig[Promotion, Form]{
		Title:    "Promotions",
		Singular: "Promotion",
		BasePath: "/promotions",
		ViewPerm: shared.PermPromotionsView,
		EditPerm: shared.PermPromotionsEdit,
		Schema:   Schema(loc),
		Resource: res,
		Columns: []admin.Column[Promotion]{
			{Label: "Code", SortKey: "code", Value: func(p Promotion) string { return p.Code }},
			{Label: "Name", Value: func(p Promotion) string { return p.Name }},
			{Label: "Discount", SortKey: "discountValue", Value: func(p Promotion) string { return Discount(p, format) }},
			{Label: "Remaining", Value: quota},
			{Label: "Status", Badge: true, Value: func(p Promotion) string { return p.Status }},
			{Label: "Starts", SortKey: "startDate", Value: func(p Promotion) string { return format.Date(p.StartDate) }},
			{Label: "Ends", SortKey: "endDate", Value: func(p Promotion) string { return format.Date(p.EndDate) }},
		},
		StatusOptions: statusOptions,
		Filters:       []admin.Filter{{Key: "discountType", Label: "discount types", Options: discountOptions}},
		DateLabel:     "Starts",
		Fields: []admin.Field{
			{Name: "code", Label: "Code", Type: "text", Required: true, Help: "Letters and digits, stored in upper case."},
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "description", Label: "Description", Type: "textarea"},
			{Name: "discountType", Label: "Discount type", Type: "select", Options: discountOptions, Required: true},
			{Name: "discountValue", Label: "Discount value", Type: "number", Step: "0.01", Required: true},
			{Name: "maxDiscount", Label: "Maximum discount", Type: "number", Step: "500", Help: "0 means no cap."},
			{Name: "minTransaction", Label: "Minimum transaction", Type: "number", Step: "500"},
			{Name: "quota", Label: "Quota", Type: "number", Help: "0 means unlimited."},
			{Name: "startDate", Label: "Start date", Type: "date", Required: true},
			{Name: "endDate", Label: "End date", Type: "date", Required: true},
		},
		Bind:   Binder(loc),
		Values: Valuer(loc),
		Details: func(p Promotion) []admin.DetailRow {
			return []admin.DetailRow{
				{Label: "Code", Value: p.Code},
				{Label: "Name", Value: p.Name},
				{Label: "Discount", Value: Discount(p, format)},
				{Label: "Maximum discount", Value: format.Money(p.MaxDiscount)},
				{Label: "Minimum transaction", Value: format.Money(p.MinTransaction)},
				{Label: "Remaining quota", Value: quota(p)},
				{Label: "Status", Value: admin.LabelOf(statusOptions, p.Status)},
				{Label: "Period", Value: format.Date(p.StartDate) + " – " + format.Date(p.EndDate)},
				{Label: "Description", Value: p.Description},
			}
		},
		Label:  func(p Promotion) string { return p.Code },
		Create: true,
		Edit:   true,
		Delete: true,
	}
}
