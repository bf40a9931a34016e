package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"friender-bender/internal/domain"
	"friender-bender/internal/service"
)

var scoreCmd = &cobra.Command{
	Use:   "score <mine.json> <theirs.json>",
	Short: "Score two quiz records read from JSON files",
	Long: "Score two quiz records read from JSON files. A file containing null " +
		"stands for a user without a quiz.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mine, err := readQuizFile(args[0])
		if err != nil {
			return err
		}
		theirs, err := readQuizFile(args[1])
		if err != nil {
			return err
		}

		res := service.DefaultCompatibilityScorer.Evaluate(mine, theirs)
		return writeJSON(cmd, res)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func readQuizFile(path string) (*domain.QuizRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var quiz domain.QuizRecord
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &quiz, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
