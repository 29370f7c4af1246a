package feedback

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/listing"
)

func reviews() []Feedback {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 10, 0, 0, 0, time.UTC) }
	return []Feedback{
		{ID: "1", PatientName: "Rina", DoctorName: "dr. Sari", Rating: 5, Comment: "Sangat membantu", Status: StatusPending, CreatedAt: day(1)},
		{ID: "2", PatientName: "Agus", DoctorName: "dr. Budi", Rating: 2, Comment: "Antrian lama", Status: StatusResolved, CreatedAt: day(2)},
		{ID: "3", PatientName: "Dewi", DoctorName: "dr. Sari", Rating: 4, Comment: "Ramah", Status: StatusPending, CreatedAt: day(3)},
		{ID: "4", PatientName: "Tono", DoctorName: "dr. Ayu", Rating: 1, Comment: "spam", Status: StatusHidden, CreatedAt: day(4)},
	}
}

func ids(items []Feedback) []string {
	var out []string
	for _, f := range items {
		out = append(out, f.ID)
	}
	return out
}

func TestSchemaStartsWithPendingReviews(t *testing.T) {
	s := Schema(time.UTC)
	q := s.DefaultQuery()
	assert.Equal(t, StatusPending, q.Status)
	assert.Equal(t, []string{"3", "1"}, ids(s.Derive(reviews(), q).Items))

	q = s.SetFilter(q, listing.KeyStatus, listing.All)
	q = s.SetFilter(q, listing.KeySortBy, "rating")
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids(s.Derive(reviews(), q).Items))

	q = s.SetFilter(q, "rating", "2")
	assert.Equal(t, []string{"2"}, ids(s.Derive(reviews(), q).Items))

	q = s.SetFilter(s.SetFilter(q, "rating", ""), listing.KeySearch, "sari")
	assert.Equal(t, []string{"1", "3"}, ids(s.Derive(reviews(), q).Items))
}

func TestBind(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
		err   string
	}{
		{name: "trimmed", reply: "  Terima kasih atas masukannya.  ", want: "Terima kasih atas masukannya."},
		{name: "blank", reply: "   ", err: "This field is required."},
		{name: "too long", reply: strings.Repeat("a", 1001), err: "Use at most 1000 characters."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, errs := Bind(url.Values{"reply": {tt.reply}})
			require.NoError(t, admin.Validate(admin.NewValidator(), form, errs))
			if tt.err != "" {
				assert.Equal(t, tt.err, errs["reply"])
				return
			}
			assert.Empty(t, errs)
			assert.Equal(t, tt.want, form.Reply)
		})
	}
}

func TestStarsClampsRating(t *testing.T) {
	assert.Equal(t, "★★★☆☆", Stars(3))
	assert.Equal(t, "★★★★★", Stars(9))
	assert.Equal(t, "☆☆☆☆☆", Stars(-1))
	assert.Equal(t, "Sang…", excerpt("Sangat membantu", 4))
	assert.Equal(t, "Ramah", excerpt("Ramah", 5))
}
