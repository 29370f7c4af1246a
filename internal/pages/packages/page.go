package packages

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
const Name = "packages"

var (
	statusOptions   = admin.Labels(StatusActive, "Active", StatusInactive, "Inactive")
	categoryOptions = admin.Labels(
		"checkup", "Medical check-up",
		"laboratory", "Laboratory",
		"vaccination", "Vaccination",
		"homecare", "Home care",
		"telemedicine", "Telemedicine",
	)
)

// Schema describes how the package list is searched, filtered and sorted.
func Schema(loc *time.Location) *listing.Schema[ServicePackage] {
	return &listing.Schema[ServicePackage]{
		Page:     Name,
		Defaults: listing.Query{PageSize: listing.DefaultPageSize, SortBy: "createdAt", SortDir: listing.SortDesc},
		ID:       func(p ServicePackage) string { return p.ID },
		Search: []func(ServicePackage) string{
			func(p ServicePackage) string { return p.Name },
			func(p ServicePackage) string { return p.Category },
		},
		Status: func(p ServicePackage) string { return p.Status },
		Filters: map[string]func(ServicePackage) string{
			"category": func(p ServicePackage) string { return p.Category },
		},
		Date: func(p ServicePackage) (time.Time, bool) { return p.CreatedAt, !p.CreatedAt.IsZero() },
		Sorts: map[string]listing.Comparator[ServicePackage]{
			"createdAt": listing.ByTime(func(p ServicePackage) time.Time { return p.CreatedAt }),
			"name":      listing.ByString(func(p ServicePackage) string { return p.Name }),
			"price":     func(a, b ServicePackage) int { return a.Price.Cmp(b.Price) },
		},
		Location: loc,
	}
}

// Form is the service package payload.
type Form struct {
	Name            string          `form:"name" json:"name" validate:"required,max=120"`
	Category        string          `form:"category" json:"category" validate:"required"`
	Description     string          `form:"description" json:"description,omitempty" validate:"max=2000"`
	Price           decimal.Decimal `form:"price" json:"price"`
	DurationMinutes int             `form:"durationMinutes" json:"durationMinutes" validate:"gte=0,lte=1440"`
	Includes        []string        `form:"includes" json:"includes,omitempty" validate:"dive,max=120"`
}

// Bind reads a posted package form. Included services are one per line.
func Bind(values url.Values) (Form, admin.FieldErrors) {
	errs := admin.FieldErrors{}
	f := Form{
		Name:            admin.FormString(values, "name"),
		Category:        admin.FormString(values, "category"),
		Description:     admin.FormString(values, "description"),
		Price:           admin.FormDecimal(values, "price", errs),
		DurationMinutes: admin.FormInt(values, "durationMinutes", errs),
	}
	for _, line := range strings.Split(values.Get("includes"), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			f.Includes = append(f.Includes, line)
		}
	}
	if !f.Price.IsPositive() {
		errs.Add("price", "Must be greater than 0.")
	}
	return f, errs
}

// Values turns a package into form values.
func Values(p ServicePackage) url.Values {
	return url.Values{
		"name":            {p.Name},
		"category":        {p.Category},
		"description":     {p.Description},
		"price":           {p.Price.String()},
		"durationMinutes": {strconv.Itoa(p.DurationMinutes)},
		"includes":        {strings.Join(p.Includes, "\n")},
	}
}

// Config builds the page configuration.
func Config(res admin.Resource[ServicePackage], format *view.Formatter) admin.PageConfig[ServicePackage, Form] {
	duration := func(p ServicePackage) string {
		if p.DurationMinutes == 0 {
			return "-"
		}
		return strconv.Itoa(p.DurationMinutes) + " min"
	}
	return admin.PageConfig[ServicePackage, Form]{
		Title:    "Service packages",
		Singular: "Service package",
		BasePath: "/packages",
		ViewPerm: shared.PermPackagesView,
		EditPerm: shared.PermPackagesEdit,
		Schema:   Schema(format.Location()),
		Resource: res,
		Columns: []admin.Column[ServicePackage]{
			{Label: "Name", SortKey: "name", Value: func(p ServicePackage) string { return p.Name }},
			{Label: "Category", Value: func(p ServicePackage) string { return admin.LabelOf(categoryOptions, p.Category) }},
			{Label: "Price", SortKey: "price", Value: func(p ServicePackage) string { return format.Money(p.Price) }},
			{Label: "Duration", Value: duration},
			{Label: "Status", Badge: true, Value: func(p ServicePackage) string { return p.Status }},
			{Label: "Created", SortKey: "createdAt", Value: func(p ServicePackage) string { return format.Date(p.CreatedAt) }},
		},
		StatusOptions: statusOptions,
		Filters:       []admin.Filter{{Key: "category", Label: "categories", Options: categoryOptions}},
		DateLabel:     "Created",
		Fields: []admin.Field{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "category", Label: "Category", Type: "select", Options: categoryOptions, Required: true},
			{Name: "price", Label: "Price", Type: "number", Step: "500", Required: true},
			{Name: "durationMinutes", Label: "Duration (minutes)", Type: "number"},
			{Name: "includes", Label: "Included services", Type: "textarea", Help: "One service per line."},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
		Bind:   Bind,
		Values: Values,
		Details: func(p ServicePackage) []admin.DetailRow {
			return []admin.DetailRow{
				{Label: "Name", Value: p.Name},
				{Label: "Category", Value: admin.LabelOf(categoryOptions, p.Category)},
				{Label: "Price", Value: format.Money(p.Price)},
				{Label: "Duration", Value: duration(p)},
				{Label: "Includes", Value: strings.Join(p.Includes, ", ")},
				{Label: "Status", Value: admin.LabelOf(statusOptions, p.Status)},
				{Label: "Description", Value: p.Description},
				{Label: "Created", Value: format.DateTime(p.CreatedAt)},
			}
		},
		Label:  func(p ServicePackage) string { return p.Name },
		Create: true,
		Edit:   true,
		Delete: true,
	}
}
