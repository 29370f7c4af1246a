package admin

import (
	"context"

	"github.com/halocare/halocare-admin/internal/shared"
)

// FlashNotifier delivers listing notifications as session flashes of the
// request in ctx.
type FlashNotifier struct{}

// Notify implements listing.Notifier.
func (FlashNotifier) Notify(ctx context.Context, kind, message string) {
	if isQuiet(ctx) {
		return
	}
	if sess := shared.SessionFromContext(ctx); sess != nil {
		sess.AddFlash(kind, message)
	}
}
