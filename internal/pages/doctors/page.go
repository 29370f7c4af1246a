package doctors

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
const Name = "doctors"

var (
	statusOptions = admin.Labels(StatusActive, "Active", StatusInactive, "Inactive", StatusOnLeave, "On leave")
	genderOptions = admin.Labels("male", "Male", "female", "Female")
	specialties   = admin.Labels(
		"general", "General practitioner",
		"pediatrics", "Pediatrics",
		"obgyn", "Obstetrics & gynecology",
		"cardiology", "Cardiology",
		"dermatology", "Dermatology",
		"internal", "Internal medicine",
		"dentistry", "Dentistry",
		"psychiatry", "Psychiatry",
	)
)

// Schema describes how the doctor list is searched, filtered and sorted.
func Schema(loc *time.Location) *listing.Schema[Doctor] {
	return &listing.Schema[Doctor]{
		Page:     Name,
		Defaults: listing.Query{PageSize: listing.DefaultPageSize, SortBy: "createdAt", SortDir: listing.SortDesc},
		ID:       func(d Doctor) string { return d.ID },
		Search: []func(Doctor) string{
			func(d Doctor) string { return d.FullName },
			func(d Doctor) string { return d.Specialty },
			func(d Doctor) string { return d.Email },
		},
		Status: func(d Doctor) string { return d.Status },
		Filters: map[string]func(Doctor) string{
			"specialty": func(d Doctor) string { return d.Specialty },
			"gender":    func(d Doctor) string { return d.Gender },
		},
		Date: func(d Doctor) (time.Time, bool) { return d.CreatedAt, !d.CreatedAt.IsZero() },
		Sorts: map[string]listing.Comparator[Doctor]{
			"createdAt":       listing.ByTime(func(d Doctor) time.Time { return d.CreatedAt }),
			"fullName":        listing.ByString(func(d Doctor) string { return d.FullName }),
			"experienceYears": listing.ByOrdered(func(d Doctor) int { return d.ExperienceYears }),
		},
		Location: loc,
	}
}

// Form is the payload sent to the backend on create and update.
type Form struct {
	FullName        string          `form:"fullName" json:"fullName" validate:"required,max=120"`
	Email           string          `form:"email" json:"email" validate:"required,email"`
	Phone           string          `form:"phone" json:"phone" validate:"omitempty,e164"`
	Specialty       string          `form:"specialty" json:"specialty" validate:"required"`
	Gender          string          `form:"gender" json:"gender" validate:"required,oneof=male female"`
	ExperienceYears int             `form:"experienceYears" json:"experienceYears" validate:"gte=0,lte=70"`
	LicenseNumber   string          `form:"licenseNumber" json:"licenseNumber" validate:"required,max=40"`
	ConsultationFee decimal.Decimal `form:"consultationFee" json:"consultationFee"`
	Bio             string          `form:"bio" json:"bio" validate:"max=2000"`
}

// Bind reads a posted doctor form.
func Bind(values url.Values) (Form, admin.FieldErrors) {
	errs := admin.FieldErrors{}
	f := Form{
		FullName:        admin.FormString(values, "fullName"),
		Email:           strings.ToLower(admin.FormString(values, "email")),
		Phone:           admin.FormString(values, "phone"),
		Specialty:       admin.FormString(values, "specialty"),
		Gender:          admin.FormString(values, "gender"),
		ExperienceYears: admin.FormInt(values, "experienceYears", errs),
		LicenseNumber:   admin.FormString(values, "licenseNumber"),
		ConsultationFee: admin.FormDecimal(values, "consultationFee", errs),
		Bio:             admin.FormString(values, "bio"),
	}
	if f.ConsultationFee.IsNegative() {
		errs.Add("consultationFee", "Must be 0 or more.")
	}
	return f, errs
}

// Values turns a doctor into form values.
func Values(d Doctor) url.Values {
	return url.Values{
		"fullName":        {d.FullName},
		"email":           {d.Email},
		"phone":           {d.Phone},
		"specialty":       {d.Specialty},
		"gender":          {d.Gender},
		"experienceYears": {strconv.Itoa(d.ExperienceYears)},
		"licenseNumber":   {d.LicenseNumber},
		"consultationFee": {d.ConsultationFee.String()},
		"bio":             {d.Bio},
	}
}

// Config builds the page configuration.
func Config(res admin.Resource[Doctor], format *view.Formatter) admin.PageConfig[Doctor, Form] {
	return admin.PageConfig[Doctor, Form]{
		Title:    "Doctors",
		Singular: "Doctor",
		BasePath: "/doctors",
		ViewPerm: shared.PermDoctorsView,
		EditPerm: shared.PermDoctorsEdit,
		Schema:   Schema(format.Location()),
		Resource: res,
		Columns: []admin.Column[Doctor]{
			{Label: "Name", SortKey: "fullName", Value: func(d Doctor) string { return d.FullName }},
			{Label: "Specialty", Value: func(d Doctor) string { return admin.LabelOf(specialties, d.Specialty) }},
			{Label: "Experience", SortKey: "experienceYears", Value: func(d Doctor) string { return strconv.Itoa(d.ExperienceYears) + " yrs" }},
			{Label: "Fee", Value: func(d Doctor) string { return format.Money(d.ConsultationFee) }},
			{Label: "Status", Badge: true, Value: func(d Doctor) string { return d.Status }},
			{Label: "Joined", SortKey: "createdAt", Value: func(d Doctor) string { return format.Date(d.CreatedAt) }},
		},
		StatusOptions: statusOptions,
		Filters: []admin.Filter{
			{Key: "specialty", Label: "specialties", Options: specialties},
			{Key: "gender", Label: "genders", Options: genderOptions},
		},
		DateLabel: "Joined",
		Fields: []admin.Field{
			{Name: "fullName", Label: "Full name", Type: "text", Required: true},
			{Name: "email", Label: "Email", Type: "email", Required: true},
			{Name: "phone", Label: "Phone", Type: "tel", Help: "International format, e.g. +6281234567890"},
			{Name: "specialty", Label: "Specialty", Type: "select", Options: specialties, Required: true},
			{Name: "gender", Label: "Gender", Type: "select", Options: genderOptions, Required: true},
			{Name: "experienceYears", Label: "Years of experience", Type: "number"},
			{Name: "licenseNumber", Label: "License number (STR)", Type: "text", Required: true},
			{Name: "consultationFee", Label: "Consultation fee", Type: "number", Step: "500"},
			{Name: "bio", Label: "Biography", Type: "textarea"},
		},
		Bind:   Bind,
		Values: Values,
		Details: func(d Doctor) []admin.DetailRow {
			return []admin.DetailRow{
				{Label: "Full name", Value: d.FullName},
				{Label: "Email", Value: d.Email},
				{Label: "Phone", Value: d.Phone},
				{Label: "Specialty", Value: admin.LabelOf(specialties, d.Specialty)},
				{Label: "Gender", Value: admin.LabelOf(genderOptions, d.Gender)},
				{Label: "Experience", Value: strconv.Itoa(d.ExperienceYears) + " years"},
				{Label: "License number", Value: d.LicenseNumber},
				{Label: "Consultation fee", Value: format.Money(d.ConsultationFee)},
				{Label: "Status", Value: admin.LabelOf(statusOptions, d.Status)},
				{Label: "Joined", Value: format.DateTime(d.CreatedAt)},
				{Label: "Biography", Value: d.Bio},
			}
		},
		Label:  func(d Doctor) string { return d.FullName },
		Create: true,
		Edit:   true,
		Delete: true,
	}
}
