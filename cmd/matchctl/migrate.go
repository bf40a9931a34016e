package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"friender-bender/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded database migrations",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if err := db.Migrate(url); err != nil {
			return err
		}
		logger.Info("migrations applied", zap.String("target", "up"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
