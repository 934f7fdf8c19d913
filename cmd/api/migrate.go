package main

import (
	"github.com/spf13/cobra"

	"github.com/5w1tchy/libapi/internal/config"
	"github.com/5w1tchy/libapi/internal/repository/sqlconnect"
	"github.com/5w1tchy/libapi/internal/store/dbx"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the books, employees and members tables if missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			log := newLogger(cfg)

			db, err := sqlconnect.Connect(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := dbx.Migrate(cmd.Context(), db); err != nil {
				return err
			}
			log.Info().Str("driver", cfg.DB.Driver).Msg("schema up to date")
			return nil
		},
	}
}
