package feedback

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
)

// Page key.
const Name = "feedback"

var (
	statusOptions = admin.Labels(StatusPending, "Pending", StatusResolved, "Resolved", StatusHidden, "Hidden")
	ratingOptions = admin.Labels("5", "★★★★★", "4", "★★★★", "3", "★★★", "2", "★★", "1", "★")
)

// Schema describes how the feedback list is searched, filtered and sorted.
func Schema(loc *time.Location) *listing.Schema[Feedback] {
	return &listing.Schema[Feedback]{
		Page:     Name,
		Defaults: listing.Query{PageSize: listing.DefaultPageSize, Status: StatusPending, SortBy: "createdAt", SortDir: listing.SortDesc},
		ID:       func(f Feedback) string { return f.ID },
		Search: []func(Feedback) string{
			func(f Feedback) string { return f.PatientName },
			func(f Feedback) string { return f.DoctorName },
			func(f Feedback) string { return f.Comment },
		},
		Status: func(f Feedback) string { return f.Status },
		Filters: map[string]func(Feedback) string{
			"rating": func(f Feedback) string { return strconv.Itoa(f.Rating) },
		},
		Date: func(f Feedback) (time.Time, bool) { return f.CreatedAt, !f.CreatedAt.IsZero() },
		Sorts: map[string]listing.Comparator[Feedback]{
			"createdAt": listing.ByTime(func(f Feedback) time.Time { return f.CreatedAt }),
			"rating":    listing.ByOrdered(func(f Feedback) int { return f.Rating }),
		},
		Location: loc,
	}
}

// Form carries the public reply; reviews themselves are written by patients.
type Form struct {
	Reply string `form:"reply" json:"reply" validate:"required,max=1000"`
}

// Bind reads a posted reply.
func Bind(values url.Values) (Form, admin.FieldErrors) {
	return Form{Reply: admin.FormString(values, "reply")}, admin.FieldErrors{}
}

// Values turns a review into form values.
func Values(f Feedback) url.Values {
	return url.Values{"reply": {f.Reply}}
}

// Stars renders a rating as stars.
func Stars(rating int) string {
	rating = min(max(rating, 0), 5)
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// Config builds the page configuration.
func Config(res admin.Resource[Feedback], format *view.Formatter) admin.PageConfig[Feedback, Form] {
	return admin.PageConfig[Feedback, Form]{
		Title:    "Feedback",
		Singular: "Feedback",
		BasePath: "/feedback",
		ViewPerm: shared.PermFeedbackView,
		EditPerm: shared.PermFeedbackEdit,
		Schema:   Schema(format.Location()),
		Resource: res,
		Columns: []admin.Column[Feedback]{
			{Label: "Patient", Value: func(f Feedback) string { return f.PatientName }},
			{Label: "Doctor", Value: func(f Feedback) string { return f.DoctorName }},
			{Label: "Rating", SortKey: "rating", Value: func(f Feedback) string { return Stars(f.Rating) }},
			{Label: "Comment", Value: func(f Feedback) string { return excerpt(f.Comment, 60) }},
			{Label: "Status", Badge: true, Value: func(f Feedback) string { return f.Status }},
			{Label: "Received", SortKey: "createdAt", Value: func(f Feedback) string { return format.Ago(f.CreatedAt) }},
		},
		StatusOptions: statusOptions,
		Filters:       []admin.Filter{{Key: "rating", Label: "ratings", Options: ratingOptions}},
		DateLabel:     "Received",
		Fields: []admin.Field{
			{Name: "reply", Label: "Reply", Type: "textarea", Required: true, Help: "Shown under the review in the patient app."},
		},
		Bind:   Bind,
		Values: Values,
		Details: func(f Feedback) []admin.DetailRow {
			return []admin.DetailRow{
				{Label: "Patient", Value: f.PatientName},
				{Label: "Doctor", Value: f.DoctorName},
				{Label: "Rating", Value: Stars(f.Rating)},
				{Label: "Comment", Value: f.Comment},
				{Label: "Reply", Value: f.Reply},
				{Label: "Status", Value: admin.LabelOf(statusOptions, f.Status)},
				{Label: "Received", Value: format.DateTime(f.CreatedAt)},
			}
		},
		Label:  func(f Feedback) string { return f.PatientName },
		Edit:   true,
		Delete: true,
	}
}
