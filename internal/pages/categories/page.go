package categories

import (
	"net/url"
	"time"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
)

// Page key.
const Name = "categories"

var (
	statusOptions = admin.Labels(StatusActive, "Active", StatusInactive, "Inactive")
	typeOptions   = admin.Labels("article", "Article", "service", "Service package", "specialty", "Specialty")
)

// Schema describes how the category list is searched, filtered and sorted.
func Schema(loc *time.Location) *listing.Schema[Category] {
	return &listing.Schema[Category]{
		Page:     Name,
		Defaults: listing.Query{PageSize: listing.DefaultPageSize, SortBy: "name", SortDir: listing.SortAsc},
		ID:       func(c Category) string { return c.ID },
		Search: []func(Category) string{
			func(c Category) string { return c.Name },
			func(c Category) string { return c.Slug },
		},
		Status: func(c Category) string { return c.Status },
		Filters: map[string]func(Category) string{
			"type": func(c Category) string { return c.Type },
		},
		Date: func(c Category) (time.Time, bool) { return c.CreatedAt, !c.CreatedAt.IsZero() },
		Sorts: map[string]listing.Comparator[Category]{
			"createdAt": listing.ByTime(func(c Category) time.Time { return c.CreatedAt }),
			"name":      listing.ByString(func(c Category) string { return c.Name }),
		},
		Location: loc,
	}
}

// Form is the category payload.
type Form struct {
	Name        string `form:"name" json:"name" validate:"required,max=80"`
	Slug        string `form:"slug" json:"slug" validate:"required,max=80"`
	Type        string `form:"type" json:"type" validate:"required,oneof=article service specialty"`
	Description string `form:"description" json:"description,omitempty" validate:"max=500"`
}

// Bind reads a posted category form.
func Bind(values url.Values) (Form, admin.FieldErrors) {
	f := Form{
		Name:        admin.FormString(values, "name"),
		Slug:        admin.FormString(values, "slug"),
		Type:        admin.FormString(values, "type"),
		Description: admin.FormString(values, "description"),
	}
	if f.Slug == "" {
		f.Slug = admin.Slugify(f.Name)
	}
	return f, admin.FieldErrors{}
}

// Values turns a category into form values.
func Values(c Category) url.Values {
	return url.Values{
		"name":        {c.Name},
		"slug":        {c.Slug},
		"type":        {c.Type},
		"description": {c.Description},
	}
}

// Config builds the page configuration.
func Config(res admin.Resource[Category], format *view.Formatter) admin.PageConfig[Category, Form] {
	return admin.PageConfig[Category, Form]{
		Title:    "Categories",
		Singular: "Category",
		BasePath: "/categories",
		ViewPerm: shared.PermCategoriesView,
		EditPerm: shared.PermCategoriesEdit,
		Schema:   Schema(format.Location()),
		Resource: res,
		Columns: []admin.Column[Category]{
			{Label: "Name", SortKey: "name", Value: func(c Category) string { return c.Name }},
			{Label: "Slug", Value: func(c Category) string { return c.Slug }},
			{Label: "Type", Value: func(c Category) string { return admin.LabelOf(typeOptions, c.Type) }},
			{Label: "Status", Badge: true, Value: func(c Category) string { return c.Status }},
			{Label: "Created", SortKey: "createdAt", Value: func(c Category) string { return format.Date(c.CreatedAt) }},
		},
		StatusOptions: statusOptions,
		Filters:       []admin.Filter{{Key: "type", Label: "types", Options: typeOptions}},
		DateLabel:     "Created",
		Fields: []admin.Field{
			{Name: "name", Label: "Name", Type: "text", Required: true},
			{Name: "slug", Label: "Slug", Type: "text", Help: "Leave empty to derive it from the name."},
			{Name: "type", Label: "Type", Type: "select", Options: typeOptions, Required: true},
			{Name: "description", Label: "Description", Type: "textarea"},
		},
		Bind:   Bind,
		Values: Values,
		Details: func(c Category) []admin.DetailRow {
			return []admin.DetailRow{
				{Label: "Name", Value: c.Name},
				{Label: "Slug", Value: c.Slug},
				{Label: "Type", Value: admin.LabelOf(typeOptions, c.Type)},
				{Label: "Status", Value: admin.LabelOf(statusOptions, c.Status)},
				{Label: "Description", Value: c.Description},
				{Label: "Created", Value: format.DateTime(c.CreatedAt)},
			}
		},
		Label:  func(c Category) string { return c.Name },
		Create: true,
		Edit:   true,
		Delete: true,
	}
}
