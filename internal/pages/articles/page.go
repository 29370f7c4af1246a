package articles

import (
	"net/url"
	"time"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
)

// Page key.
const Name = "articles"

var (
	statusOptions   = admin.Labels(StatusDraft, "Draft", StatusPublished, "Published", StatusArchived, "Archived")
	categoryOptions = admin.Labels(
		"general-health", "General health",
		"nutrition", "Nutrition",
		"mental-health", "Mental health",
		"maternity", "Mother & child",
		"lifestyle", "Lifestyle",
		"news", "HaloCare news",
	)
)

// Schema describes how the article list is searched, filtered and sorted.
func Schema(loc *time.Location) *listing.Schema[Article] {
	return &listing.Schema[Article]{
		Page:     Name,
		Defaults: listing.Query{PageSize: listing.DefaultPageSize, SortBy: "createdAt", SortDir: listing.SortDesc},
		ID:       func(a Article) string { return a.ID },
		Search: []func(Article) string{
			func(a Article) string { return a.Title },
			func(a Article) string { return a.Author },
		},
		Status: func(a Article) string { return a.Status },
		Filters: map[string]func(Article) string{
			"category": func(a Article) string { return a.Category },
		},
		Date: func(a Article) (time.Time, bool) { return a.CreatedAt, !a.CreatedAt.IsZero() },
		Sorts: map[string]listing.Comparator[Article]{
			"createdAt":   listing.ByTime(func(a Article) time.Time { return a.CreatedAt }),
			"title":       listing.ByString(func(a Article) string { return a.Title }),
			"publishedAt": listing.ByTime(Article.published),
		},
		Location: loc,
	}
}

// Form is the article payload.
type Form struct {
	Title    string `form:"title" json:"title" validate:"required,max=200"`
	Slug     string `form:"slug" json:"slug" validate:"required,max=200"`
	Author   string `form:"author" json:"author" validate:"required,max=120"`
	Category string `form:"category" json:"category" validate:"required"`
	Excerpt  string `form:"excerpt" json:"excerpt" validate:"max=300"`
	Body     string `form:"body" json:"body" validate:"required"`
	CoverURL string `form:"coverUrl" json:"coverUrl,omitempty" validate:"omitempty,url"`
}

// Bind reads a posted article form. An empty slug is derived from the title.
func Bind(values url.Values) (Form, admin.FieldErrors) {
	f := Form{
		Title:    admin.FormString(values, "title"),
		Slug:     admin.FormString(values, "slug"),
		Author:   admin.FormString(values, "author"),
		Category: admin.FormString(values, "category"),
		Excerpt:  admin.FormString(values, "excerpt"),
		Body:     admin.FormString(values, "body"),
		CoverURL: admin.FormString(values, "coverUrl"),
	}
	if f.Slug == "" {
		f.Slug = admin.Slugify(f.Title)
	}
	return f, admin.FieldErrors{}
}

// Values turns an article into form values.
func Values(a Article) url.Values {
	return url.Values{
		"title":    {a.Title},
		"slug":     {a.Slug},
		"author":   {a.Author},
		"category": {a.Category},
		"excerpt":  {a.Excerpt},
		"body":     {a.Body},
		"coverUrl": {a.CoverURL},
	}
}

// Config builds the page configuration.
func Config(res admin.Resource[Article], format *view.Formatter) admin.PageConfig[Article, Form] {
	published := func(a Article) string {
		if a.PublishedAt == nil {
			return "-"
		}
		return format.Date(*a.PublishedAt)
	}
	return admin.PageConfig[Article, Form]{
		Title:    "Articles",
		Singular: "Article",
		BasePath: "/articles",
		ViewPerm: shared.PermArticlesView,
		EditPerm: shared.PermArticlesEdit,
		Schema:   Schema(format.Location()),
		Resource: res,
		Columns: []admin.Column[Article]{
			{Label: "Title", SortKey: "title", Value: func(a Article) string { return a.Title }},
			{Label: "Author", Value: func(a Article) string { return a.Author }},
			{Label: "Category", Value: func(a Article) string { return admin.LabelOf(categoryOptions, a.Category) }},
			{Label: "Status", Badge: true, Value: func(a Article) string { return a.Status }},
			{Label: "Published", SortKey: "publishedAt", Value: published},
			{Label: "Created", SortKey: "createdAt", Value: func(a Article) string { return format.Date(a.CreatedAt) }},
		},
		StatusOptions: statusOptions,
		Filters:       []admin.Filter{{Key: "category", Label: "categories", Options: categoryOptions}},
		DateLabel:     "Created",
		Fields: []admin.Field{
			{Name: "title", Label: "Title", Type: "text", Required: true},
			{Name: "slug", Label: "Slug", Type: "text", Help: "Leave empty to derive it from the title."},
			{Name: "author", Label: "Author", Type: "text", Required: true},
			{Name: "category", Label: "Category", Type: "select", Options: categoryOptions, Required: true},
			{Name: "excerpt", Label: "Excerpt", Type: "textarea"},
			{Name: "body", Label: "Body", Type: "textarea", Required: true},
			{Name: "coverUrl", Label: "Cover image URL", Type: "url"},
		},
		Bind:   Bind,
		Values: Values,
		Details: func(a Article) []admin.DetailRow {
			return []admin.DetailRow{
				{Label: "Title", Value: a.Title},
				{Label: "Slug", Value: a.Slug},
				{Label: "Author", Value: a.Author},
				{Label: "Category", Value: admin.LabelOf(categoryOptions, a.Category)},
				{Label: "Status", Value: admin.LabelOf(statusOptions, a.Status)},
				{Label: "Published", Value: published(a)},
				{Label: "Created", Value: format.DateTime(a.CreatedAt)},
				{Label: "Excerpt", Value: a.Excerpt},
			}
		},
		Label:  func(a Article) string { return a.Title },
		Create: true,
		Edit:   true,
		Delete: true,
	}
}
