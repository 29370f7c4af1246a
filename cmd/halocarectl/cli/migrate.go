package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/halocare/halocare-admin/internal/platform/db"
	"github.com/halocare/halocare-admin/migrations"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			pool, err := db.New(cmd.Context(), db.Options{DSN: cfg.PGDSN, MaxConns: 2})
			if err != nil {
				return err
			}
			defer pool.Close()
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			applied, err := db.Migrate(cmd.Context(), pool, migrations.FS, logger)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, v := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", v)
			}
			return nil
		},
	}
}
