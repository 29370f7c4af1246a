package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/platform/cache"
	"github.com/halocare/halocare-admin/internal/platform/db"
)

// ErrSessionState is returned when view state lives in browser sessions.
var ErrSessionState = errors.New("view state is kept in manager sessions; it resets when the manager signs out")

// ResetViewState deletes the persisted query of one manager and page.
func ResetViewState(ctx context.Context, store listing.ViewStateStore, scope, page string) (string, error) {
	key := listing.StateKey(scope, page)
	if err := store.Delete(ctx, key); err != nil {
		return key, fmt.Errorf("reset %s: %w", key, err)
	}
	return key, nil
}

func newViewStateCommand() *cobra.Command {
	var backendName string
	cmd := &cobra.Command{
		Use:   "viewstate",
		Short: "Manage persisted list queries",
	}
	reset := &cobra.Command{
		Use:   "reset <scope> <page>",
		Short: "Forget the stored query of a manager (scope is the user id)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			kind := backendName
			if kind == "" {
				kind = cfg.ViewStateBackend
			}
			ctx := cmd.Context()
			var store listing.ViewStateStore
			switch kind {
			case admin.StoreRedis:
				client, err := cache.New(ctx, cfg.Redis())
				if err != nil {
					return err
				}
				defer client.Close()
				store = listing.NewRedisStore(client, cfg.ViewStateTTL)
			case admin.StorePostgres:
				pool, err := db.New(ctx, db.Options{DSN: cfg.PGDSN, MaxConns: 2})
				if err != nil {
					return err
				}
				defer pool.Close()
				store = listing.NewPostgresStore(pool)
			case "", admin.StoreSession:
				return ErrSessionState
			default:
				return fmt.Errorf("unsupported view state backend %q", kind)
			}
			key, err := ResetViewState(ctx, store, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reset %s\n", key)
			return nil
		},
	}
	reset.Flags().StringVar(&backendName, "backend", "", "redis or postgres (defaults to VIEWSTATE_BACKEND)")
	cmd.AddCommand(reset)
	return cmd
}
