package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"friender-bender/internal/db"
	"friender-bender/internal/repository"
	"friender-bender/internal/service"
)

var rankCmd = &cobra.Command{
	Use:   "rank <user-id>",
	Short: "Print the ranked matches of a user straight from the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := databaseURL()
		if err != nil {
			return err
		}
		logger, err := newLogger()
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
		defer cancel()

		pool, err := db.NewPool(ctx, url)
		if err != nil {
			return err
		}
		defer pool.Close()

		profiles := repository.NewPgProfileRepository(pool)
		matchSvc := service.NewMatchService(
			logger,
			repository.NewPgQuizRepository(pool),
			repository.NewBatchedDisplayLookup(profiles, 0, 0),
			viper.GetInt("match-fanout-limit"),
		)

		start := time.Now()
		matches, err := matchSvc.RankMatches(ctx, args[0])
		if err != nil {
			return err
		}
		logger.Debug("ranking done", zap.Int("matches", len(matches)), zap.Duration("took", time.Since(start)))
		return writeJSON(cmd, matches)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().Duration("timeout", 30*time.Second, "overall timeout for the ranking")
	rankCmd.Flags().Int("fanout", 0, "concurrent candidate lookups (env MATCH_FANOUT_LIMIT)")

	viper.BindPFlag("timeout", rankCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("match-fanout-limit", rankCmd.Flags().Lookup("fanout"))
}
