package admin

import (
	"context"
	"errors"

	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/shared"
)

const sessionStatePrefix = "viewstate:"

var errNoSession = errors.New("admin: no session in context")

// SessionStore keeps list state inside the manager's session, so it lives as
// long as the login does.
type SessionStore struct{}

// Get implements listing.ViewStateStore.
func (SessionStore) Get(ctx context.Context, key string) (listing.Query, bool, error) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return listing.Query{}, false, errNoSession
	}
	raw, ok := sess.Lookup(sessionStatePrefix + key)
	if !ok {
		return listing.Query{}, false, nil
	}
	q, err := listing.DecodeState([]byte(raw))
	if err != nil {
		return listing.Query{}, false, err
	}
	return q, true, nil
}

// Set implements listing.ViewStateStore.
func (SessionStore) Set(ctx context.Context, key string, q listing.Query) error {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return errNoSession
	}
	data, err := listing.EncodeState(q)
	if err != nil {
		return err
	}
	sess.Set(sessionStatePrefix+key, string(data))
	return nil
}

// Delete implements listing.ViewStateStore.
func (SessionStore) Delete(ctx context.Context, key string) error {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return errNoSession
	}
	sess.Delete(sessionStatePrefix + key)
	return nil
}
