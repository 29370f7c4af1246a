package categories

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/listing"
)

func taxonomy() []Category {
	return []Category{
		{ID: "1", Name: "Nutrisi", Slug: "nutrisi", Type: "article", Status: StatusActive},
		{ID: "2", Name: "Kardiologi", Slug: "kardiologi", Type: "specialty", Status: StatusActive},
		{ID: "3", Name: "Cek Lab", Slug: "cek-lab", Type: "service", Status: StatusInactive},
		{ID: "4", Name: "Anak", Slug: "pediatri", Type: "specialty", Status: StatusActive},
	}
}

func names(items []Category) []string {
	var out []string
	for _, c := range items {
		out = append(out, c.Name)
	}
	return out
}

func TestSchemaDefaultsToNameOrder(t *testing.T) {
	s := Schema(time.UTC)
	q := s.DefaultQuery()
	assert.Equal(t, []string{"Anak", "Cek Lab", "Kardiologi", "Nutrisi"}, names(s.Derive(taxonomy(), q).Items))

	q = s.SetFilter(q, "type", "specialty")
	q = s.SetFilter(q, listing.KeySortDir, "desc")
	assert.Equal(t, []string{"Kardiologi", "Anak"}, names(s.Derive(taxonomy(), q).Items))

	q = s.SetFilter(s.DefaultQuery(), listing.KeySearch, "PEDIATRI")
	assert.Equal(t, []string{"Anak"}, names(s.Derive(taxonomy(), q).Items), "search covers the slug")

	q = s.SetFilter(s.DefaultQuery(), listing.KeyStatus, StatusInactive)
	assert.Equal(t, []string{"Cek Lab"}, names(s.Derive(taxonomy(), q).Items))
}

func TestBind(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
		want   Form
		errs   map[string]string
	}{
		{
			name:   "slug from name",
			values: url.Values{"name": {" Kesehatan Ibu & Anak "}, "type": {"article"}},
			want:   Form{Name: "Kesehatan Ibu & Anak", Slug: "kesehatan-ibu-anak", Type: "article"},
		},
		{
			name:   "unknown type",
			values: url.Values{"name": {"Gigi"}, "type": {"clinic"}},
			want:   Form{Name: "Gigi", Slug: "gigi", Type: "clinic"},
			errs:   map[string]string{"type": "Choose one of: article, service, specialty."},
		},
		{
			name:   "empty form",
			values: url.Values{},
			want:   Form{},
			errs: map[string]string{
				"name": "This field is required.",
				"slug": "This field is required.",
				"type": "This field is required.",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, errs := Bind(tt.values)
			require.NoError(t, admin.Validate(admin.NewValidator(), form, errs))
			assert.Equal(t, tt.want, form)
			if tt.errs == nil {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, admin.FieldErrors(tt.errs), errs)
		})
	}
}

func TestValuesFeedTheEditForm(t *testing.T) {
	c := taxonomy()[2]
	c.Description = "Panel laboratorium"
	form, errs := Bind(Values(c))
	assert.Empty(t, errs)
	assert.Equal(t, Form{Name: c.Name, Slug: c.Slug, Type: c.Type, Description: c.Description}, form)
}
