package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"friender-bender/internal/domain"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	mine := writeFile(t, dir, "mine.json", `{
		"interests": ["brunch", "hiking", "gaming"],
		"social_style": "depends",
		"friendship_values": ["reliability", "humor"],
		"communication_style": "texter",
		"hangout_vibe": ["chill", "active"]
	}`)
	theirs := writeFile(t, dir, "theirs.json", `{
		"interests": ["brunch", "hiking", "travel"],
		"social_style": "depends",
		"friendship_values": ["reliability", "depth"],
		"communication_style": "spontaneous",
		"hangout_vibe": ["chill"]
	}`)
	none := writeFile(t, dir, "none.json", "null\n")

	run := func(args ...string) domain.CompatibilityResult {
		t.Helper()
		var out bytes.Buffer
		scoreCmd.SetOut(&out)
		require.NoError(t, scoreCmd.RunE(scoreCmd, args))
		var res domain.CompatibilityResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &res))
		return res
	}

	res := run(mine, theirs)
	assert.Equal(t, 65, res.Score)
	assert.Equal(t, []string{"brunch", "hiking"}, res.SharedInterests)
	require.NotNil(t, res.Breakdown)

	res = run(mine, none)
	assert.Equal(t, 50, res.Score)
	assert.Nil(t, res.VibeMatch)
}

func TestReadQuizFile_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := readQuizFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = readQuizFile(writeFile(t, dir, "bad.json", "{not json"))
	assert.Error(t, err)
}
