package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halocare/halocare-admin/internal/backend"
	"github.com/halocare/halocare-admin/internal/platform/httpx"
)

type doctor struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Status   string `json:"status"`
}

type recordedCall struct {
	method, path, auth, idempotency, contentType string
	body                                         map[string]any
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	record := func(r *http.Request) {
		call := recordedCall{
			method:      r.Method,
			path:        r.URL.RequestURI(),
			auth:        r.Header.Get("Authorization"),
			idempotency: r.Header.Get("Idempotency-Key"),
			contentType: r.Header.Get("Content-Type"),
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&call.body)
		}
		f.mu.Lock()
		f.calls = append(f.calls, call)
		f.mu.Unlock()
	}
	mux.HandleFunc("GET /doctors", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		httpx.JSON(w, http.StatusOK, map[string]any{
			"items": []doctor{{ID: "d1", FullName: "dr. Sari", Status: "active"}, {ID: "d2", FullName: "dr. Budi", Status: "inactive"}},
			"total": 2,
		})
	})
	mux.HandleFunc("GET /doctors/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		if r.PathValue("id") == "missing" {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "doctor missing not found")
			return
		}
		httpx.JSON(w, http.StatusOK, doctor{ID: r.PathValue("id"), FullName: "dr. Sari", Status: "active"})
	})
	mux.HandleFunc("POST /doctors", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		httpx.JSON(w, http.StatusCreated, doctor{ID: "d3", FullName: "dr. Rina", Status: "active"})
	})
	mux.HandleFunc("PUT /doctors/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "fullName is required")
	})
	mux.HandleFunc("PATCH /doctors/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		httpx.JSON(w, http.StatusOK, doctor{ID: r.PathValue("id"), Status: "on_leave"})
	})
	mux.HandleFunc("DELETE /doctors/{id}", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /banners", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	})
	mux.HandleFunc("GET /articles", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		httpx.JSON(w, http.StatusOK, map[string]any{"items": nil})
	})
	return mux
}

type latencyRecorder struct {
	mu       sync.Mutex
	statuses []int
}

func (l *latencyRecorder) ObserveBackend(_, _ string, status int, _ time.Duration) {
	l.mu.Lock()
	l.statuses = append(l.statuses, status)
	l.mu.Unlock()
}

func newClient(t *testing.T) (*backend.Client, *fakeAPI, *latencyRecorder) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	obs := &latencyRecorder{}
	client := backend.NewClient(backend.Config{BaseURL: srv.URL + "/", Token: "s3cret", Timeout: time.Second, Observer: obs})
	return client, api, obs
}

func TestResourceCRUD(t *testing.T) {
	client, api, obs := newClient(t)
	doctors := backend.NewResource[doctor](client, "doctors", "doctors")
	ctx := context.Background()

	list, err := doctors.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Count())

	all, err := doctors.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dr. Sari", all[0].FullName)

	one, err := doctors.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", one.ID)

	created, err := doctors.Create(ctx, map[string]string{"fullName": "dr. Rina"})
	require.NoError(t, err)
	assert.Equal(t, "d3", created.ID)

	toggled, err := doctors.SetStatus(ctx, "d1", "on_leave")
	require.NoError(t, err)
	assert.Equal(t, "on_leave", toggled.Status)

	require.NoError(t, doctors.Remove(ctx, "d2"))

	require.Len(t, api.calls, 6)
	for _, call := range api.calls {
		assert.Equal(t, "Bearer s3cret", call.auth)
	}
	assert.NotEmpty(t, api.calls[3].idempotency, "create carries an idempotency key")
	assert.Equal(t, "application/json", api.calls[3].contentType)
	assert.Equal(t, "dr. Rina", api.calls[3].body["fullName"])
	assert.Empty(t, api.calls[2].idempotency)
	assert.Equal(t, "on_leave", api.calls[4].body["status"])
	assert.Equal(t, "/doctors/d1/status", api.calls[4].path)
	assert.Equal(t, []int{200, 200, 200, 201, 200, 204}, obs.statuses)
}

func TestResourceErrorMapping(t *testing.T) {
	client, _, _ := newClient(t)
	doctors := backend.NewResource[doctor](client, "doctors", "/doctors")
	ctx := context.Background()

	_, err := doctors.Get(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
	var be *backend.Error
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "doctor missing not found", be.Detail)
	assert.False(t, backend.IsUnavailable(err))

	_, err = doctors.Update(ctx, "d1", map[string]string{})
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Contains(t, err.Error(), "fullName is required")

	banners := backend.NewResource[doctor](client, "banners", "/banners")
	_, err = banners.All(ctx)
	require.Error(t, err)
	assert.True(t, backend.IsUnavailable(err))
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestResourceEmptyList(t *testing.T) {
	client, _, _ := newClient(t)
	articles := backend.NewResource[doctor](client, "articles", "/articles")

	res, err := articles.List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Equal(t, 0, res.Count())
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := backend.NewClient(backend.Config{BaseURL: srv.URL, Timeout: time.Second})

	_, err := backend.NewResource[doctor](client, "doctors", "/doctors").All(context.Background())
	require.Error(t, err)
	assert.True(t, backend.IsUnavailable(err))
}
