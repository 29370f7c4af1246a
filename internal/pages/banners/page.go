package banners

import (
	"net/url"
	"strconv"
	"time"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
)

// Page key.
const Name = "banners"

var (
	statusOptions   = admin.Labels(StatusActive, "Active", StatusInactive, "Inactive")
	positionOptions = admin.Labels(
		"home_top", "Home top carousel",
		"home_middle", "Home middle",
		"promo_page", "Promotions page",
		"doctor_page", "Doctor directory",
	)
)

// Schema describes how the banner list is searched, filtered and sorted.
func Schema(loc *time.Location) *listing.Schema[Banner] {
	return &listing.Schema[Banner]{
		Page:     Name,
		Defaults: listing.Query{PageSize: listing.DefaultPageSize, SortBy: "startDate", SortDir: listing.SortDesc},
		ID:       func(b Banner) string { return b.ID },
		Search:   []func(Banner) string{func(b Banner) string { return b.Title }},
		Status:   func(b Banner) string { return b.Status },
		Filters: map[string]func(Banner) string{
			"position": func(b Banner) string { return b.Position },
		},
		Date: func(b Banner) (time.Time, bool) { return b.StartDate, !b.StartDate.IsZero() },
		Sorts: map[string]listing.Comparator[Banner]{
			"startDate": listing.ByTime(func(b Banner) time.Time { return b.StartDate }),
			"title":     listing.ByString(func(b Banner) string { return b.Title }),
			"position":  listing.ByString(func(b Banner) string { return b.Position }),
		},
		Location: loc,
	}
}

// Form is the banner payload.
type Form struct {
	Title     string     `form:"title" json:"title" validate:"required,max=120"`
	ImageURL  string     `form:"imageUrl" json:"imageUrl" validate:"required,url"`
	LinkURL   string     `form:"linkUrl" json:"linkUrl,omitempty" validate:"omitempty,url"`
	Position  string     `form:"position" json:"position" validate:"required,oneof=home_top home_middle promo_page doctor_page"`
	SortOrder int        `form:"sortOrder" json:"sortOrder" validate:"gte=0"`
	StartDate *time.Time `form:"startDate" json:"startDate" validate:"required"`
	EndDate   *time.Time `form:"endDate" json:"endDate,omitempty"`
}

// Binder reads posted banner forms with dates in loc.
func Binder(loc *time.Location) func(url.Values) (Form, admin.FieldErrors) {
	return func(values url.Values) (Form, admin.FieldErrors) {
		errs := admin.FieldErrors{}
		f := Form{
			Title:     admin.FormString(values, "title"),
			ImageURL:  admin.FormString(values, "imageUrl"),
			LinkURL:   admin.FormString(values, "linkUrl"),
			Position:  admin.FormString(values, "position"),
			SortOrder: admin.FormInt(values, "sortOrder", errs),
			StartDate: admin.FormDate(values, "startDate", loc, errs),
			EndDate:   admin.FormDate(values, "endDate", loc, errs),
		}
		if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
			errs.Add("endDate", "End date must not be before the start date.")
		}
		return f, errs
	}
}

// Valuer turns a banner into form values.
func Valuer(loc *time.Location) func(Banner) url.Values {
	return func(b Banner) url.Values {
		v := url.Values{
			"title":     {b.Title},
			"imageUrl":  {b.ImageURL},
			"linkUrl":   {b.LinkURL},
			"position":  {b.Position},
			"sortOrder": {strconv.Itoa(b.SortOrder)},
			"startDate": {admin.DateValue(b.StartDate, loc)},
		}
		if b.EndDate != nil {
			v.Set("endDate", admin.DateValue(*b.EndDate, loc))
		}
		return v
	}
}

// Config builds the page configuration.
func Config(res admin.Resource[Banner], format *view.Formatter) admin.PageConfig[Banner, Form] {
	loc := format.Location()
	end := func(b Banner) string {
		if b.EndDate == nil {
			return "open-ended"
		}
		return format.Date(*b.EndDate)
	}
	return admin.PageConfig[Banner, Form]{
		Title:    "Banners",
		Singular: "Banner",
		BasePath: "/banners",
		ViewPerm: shared.PermBannersView,
		EditPerm: shared.PermBannersEdit,
		Schema:   Schema(loc),
		Resource: res,
		Columns: []admin.Column[Banner]{
			{Label: "Title", SortKey: "title", Value: func(b Banner) string { return b.Title }},
			{Label: "Position", SortKey: "position", Value: func(b Banner) string { return admin.LabelOf(positionOptions, b.Position) }},
			{Label: "Order", Value: func(b Banner) string { return strconv.Itoa(b.SortOrder) }},
			{Label: "Status", Badge: true, Value: func(b Banner) string { return b.Status }},
			{Label: "Starts", SortKey: "startDate", Value: func(b Banner) string { return format.Date(b.StartDate) }},
			{Label: "Ends", Value: end},
		},
		StatusOptions: statusOptions,
		Filters:       []admin.Filter{{Key: "position", Label: "positions", Options: positionOptions}},
		DateLabel:     "Starts",
		Fields: []admin.Field{
			{Name: "title", Label: "Title", Type: "text", Required: true},
			{Name: "imageUrl", Label: "Image URL", Type: "url", Required: true},
			{Name: "linkUrl", Label: "Link URL", Type: "url"},
			{Name: "position", Label: "Position", Type: "select", Options: positionOptions, Required: true},
			{Name: "sortOrder", Label: "Order", Type: "number"},
			{Name: "startDate", Label: "Start date", Type: "date", Required: true},
			{Name: "endDate", Label: "End date", Type: "date"},
		},
		Bind:   Binder(loc),
		Values: Valuer(loc),
		Details: func(b Banner) []admin.DetailRow {
			return []admin.DetailRow{
				{Label: "Title", Value: b.Title},
				{Label: "Image", Value: b.ImageURL},
				{Label: "Link", Value: b.LinkURL},
				{Label: "Position", Value: admin.LabelOf(positionOptions, b.Position)},
				{Label: "Order", Value: strconv.Itoa(b.SortOrder)},
				{Label: "Status", Value: admin.LabelOf(statusOptions, b.Status)},
				{Label: "Starts", Value: format.Date(b.StartDate)},
				{Label: "Ends", Value: end(b)},
			}
		},
		Label:  func(b Banner) string { return b.Title },
		Create: true,
		Edit:   true,
		Delete: true,
	}
}
