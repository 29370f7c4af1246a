package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/shared"
)

func TestSessionStore(t *testing.T) {
	sm := shared.NewSessionManager(nil, "sid", time.Hour, false)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	ctx := shared.ContextWithSession(context.Background(), sess)
	store := SessionStore{}

	_, ok, err := store.Get(ctx, "7:doctors")
	require.NoError(t, err)
	assert.False(t, ok)

	q := listing.Query{Page: 2, PageSize: 20, Status: "active", Filters: map[string]string{"specialty": "cardiology"}, SortBy: "fullName", SortDir: listing.SortAsc}
	require.NoError(t, store.Set(ctx, "7:doctors", q))
	got, ok, err := store.Get(ctx, "7:doctors")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, q, got)

	sess.Set("viewstate:7:banners", "{broken")
	_, _, err = store.Get(ctx, "7:banners")
	assert.ErrorIs(t, err, listing.ErrMalformedState)

	require.NoError(t, store.Delete(ctx, "7:doctors"))
	_, ok, err = store.Get(ctx, "7:doctors")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionStoreWithoutSession(t *testing.T) {
	store := SessionStore{}
	_, _, err := store.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, store.Set(context.Background(), "k", listing.Query{}))
	assert.Error(t, store.Delete(context.Background(), "k"))
}

func TestNewViewStateStore(t *testing.T) {
	s, err := NewViewStateStore("", nil, nil, time.Hour)
	require.NoError(t, err)
	assert.IsType(t, SessionStore{}, s)

	s, err = NewViewStateStore(StoreMemory, nil, nil, time.Hour)
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = NewViewStateStore(StoreRedis, nil, nil, time.Hour)
	assert.Error(t, err)
	_, err = NewViewStateStore(StorePostgres, nil, nil, time.Hour)
	assert.Error(t, err)
	_, err = NewViewStateStore("etcd", nil, nil, time.Hour)
	assert.Error(t, err)
}

func TestFlashNotifierHonoursQuiet(t *testing.T) {
	sm := shared.NewSessionManager(nil, "sid", time.Hour, false)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	ctx := shared.ContextWithSession(context.Background(), sess)

	FlashNotifier{}.Notify(Quiet(ctx), shared.FlashError, "hidden")
	FlashNotifier{}.Notify(ctx, shared.FlashError, "shown")
	FlashNotifier{}.Notify(context.Background(), shared.FlashError, "nowhere")

	assert.Equal(t, []shared.FlashMessage{{Kind: shared.FlashError, Message: "shown"}}, sess.PopFlashes())
}
