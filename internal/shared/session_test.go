package shared

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halocare/halocare-admin/internal/platform/httpx"
)

func newManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "halocare_session", time.Hour, false), mr
}

func roundTrip(t *testing.T, sm *SessionManager, cookie *http.Cookie) *Session {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	return sess
}

func TestSessionFlashesSurviveOneRequest(t *testing.T) {
	sm, mr := newManager(t)
	ctx := context.Background()

	sess := roundTrip(t, sm, nil)
	sess.SignIn(CurrentUser{ID: 7, Email: "rina@halocare.id", Role: RoleManager})
	sess.AddFlash(FlashSuccess, "Doctor saved")
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))
	cookie := rec.Result().Cookies()[0]
	assert.True(t, mr.Exists("session:"+cookie.Value))

	next := roundTrip(t, sm, cookie)
	user, ok := next.User()
	require.True(t, ok)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, []FlashMessage{{Kind: FlashSuccess, Message: "Doctor saved"}}, next.PopFlashes())
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), next))

	third := roundTrip(t, sm, cookie)
	assert.Empty(t, third.PopFlashes())
}

func TestSessionExpiredCookieGetsFreshID(t *testing.T) {
	sm, _ := newManager(t)
	sess := roundTrip(t, sm, &http.Cookie{Name: "halocare_session", Value: "gone"})
	assert.NotEqual(t, "gone", sess.ID)
	_, ok := sess.User()
	assert.False(t, ok)
}

func TestSessionDestroyClearsCookie(t *testing.T) {
	sm, mr := newManager(t)
	ctx := context.Background()
	sess := roundTrip(t, sm, nil)
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))
	require.True(t, mr.Exists("session:"+sess.ID))

	sm.Destroy(sess)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, sess))
	assert.False(t, mr.Exists("session:"+sess.ID))
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestSessionSetUnchangedValueStaysClean(t *testing.T) {
	sess := &Session{values: map[string]string{"k": "v"}}
	sess.Set("k", "v")
	assert.False(t, sess.dirty)
	sess.Set("k", "w")
	assert.True(t, sess.dirty)
}

func TestCSRFTokens(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := &Session{ID: "abc", values: map[string]string{}}

	token := m.EnsureToken(sess)
	require.NotEmpty(t, token)
	assert.Equal(t, token, m.EnsureToken(sess))
	assert.NoError(t, m.VerifyToken(sess, token))
	assert.ErrorIs(t, m.VerifyToken(sess, "forged"), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, m.VerifyToken(sess, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, m.VerifyToken(nil, token), ErrCSRFTokenMissing)
}

func TestCSRFTokenBoundToSessionAndSecret(t *testing.T) {
	m := NewCSRFManager("secret")
	sess := &Session{ID: "abc", values: map[string]string{}}
	token := m.EnsureToken(sess)

	moved := &Session{ID: "xyz", values: map[string]string{CSRFSessionKey: token}}
	assert.ErrorIs(t, m.VerifyToken(moved, token), ErrCSRFTokenMismatch, "copied into another session")

	other := NewCSRFManager("rotated")
	assert.ErrorIs(t, other.VerifyToken(sess, token), ErrCSRFTokenMismatch, "signed with an old secret")

	assert.NotEqual(t, token, m.EnsureToken(&Session{ID: "abc", values: map[string]string{}}), "fresh nonce per issue")
}

type detailErr struct{ detail string }

func (e detailErr) Error() string       { return "validation: " + e.detail }
func (e detailErr) UserMessage() string { return e.detail }
func (e detailErr) Unwrap() error       { return httpx.ErrValidation }

func TestUserSafeMessage(t *testing.T) {
	assert.Equal(t, "", UserSafeMessage(nil))
	assert.Contains(t, UserSafeMessage(httpx.ErrNotFound), "no longer exists")
	assert.Equal(t, "price must be positive", UserSafeMessage(detailErr{"price must be positive"}))
	assert.Contains(t, UserSafeMessage(context.DeadlineExceeded), "too long")
	assert.Contains(t, UserSafeMessage(errors.New("dial tcp: refused")), "unavailable")
}

type execRecorder struct {
	sql  string
	args []any
}

func (e *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	e.sql, e.args = sql, args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestAuditLoggerRecord(t *testing.T) {
	db := &execRecorder{}
	logger := NewAuditLogger(db)

	require.NoError(t, logger.Record(context.Background(), AuditLog{ActorID: 7, Action: ActionStatus, Entity: "doctors", EntityID: "d1", Meta: map[string]any{"status": "on_leave"}}))
	assert.Contains(t, db.sql, "INSERT INTO audit_logs")
	assert.Equal(t, int64(7), db.args[0])
	assert.JSONEq(t, `{"status":"on_leave"}`, string(db.args[4].([]byte)))
	assert.Nil(t, db.args[5])

	assert.Error(t, logger.Record(context.Background(), AuditLog{Action: ActionDelete}))
}

func TestRolePermissions(t *testing.T) {
	assert.Contains(t, RolePermissions(RoleFinance), PermTransactionsEdit)
	assert.NotContains(t, RolePermissions(RoleManager), PermTransactionsEdit)
	assert.NotContains(t, RolePermissions(RoleViewer), PermDoctorsEdit)
	assert.Contains(t, RolePermissions(RoleAdmin), PermTransactionsEdit)
	assert.Empty(t, RolePermissions("intern"))
}

func TestSignInRotatesStoredSession(t *testing.T) {
	sm, mr := newManager(t)
	ctx := context.Background()

	anon := roundTrip(t, sm, nil)
	anon.Set("viewstate:anonymous:doctors", "{}")
	NewCSRFManager("secret").EnsureToken(anon)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, anon))
	oldID := anon.ID
	require.True(t, mr.Exists("session:"+oldID))

	sess := roundTrip(t, sm, rec.Result().Cookies()[0])
	sess.SignIn(CurrentUser{ID: 9, Role: RoleFinance})
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), sess))

	assert.NotEqual(t, oldID, sess.ID)
	assert.False(t, mr.Exists("session:"+oldID), "pre-login session is dropped")
	assert.True(t, mr.Exists("session:"+sess.ID))
	assert.Empty(t, sess.Get(CSRFSessionKey))
	assert.Equal(t, "{}", sess.Get("viewstate:anonymous:doctors"))
}
