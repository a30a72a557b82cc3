package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/panel/internal/domain"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRunThenListAndRestore(t *testing.T) {
	t.Setenv("PANEL_MODE", "MOCK")
	t.Setenv("SIM_DELAY_MS", "0")
	t.Setenv("TIMELINE_STEP_MS", "1")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(t.TempDir(), "panel.db"))
	t.Setenv("LOG_LEVEL", "error")

	out := runCLI(t, "run", "--models", "Model A", "3", "*", "5")
	var result domain.RunResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Participants, 1)
	assert.Contains(t, result.Participants[0].FinalOutput, "15")

	out = runCLI(t, "sessions")
	assert.Contains(t, out, "3 * 5")
	assert.Contains(t, out, "[Model A]")

	// The session id is the first column.
	id := out[:bytes.IndexByte([]byte(out), ' ')]
	out = runCLI(t, "restore", id)
	var state domain.RunState
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Equal(t, domain.RunPhaseSucceeded, state.Phase)
	assert.Equal(t, id, state.RestoredFrom)
}

func TestFeedbackCommand(t *testing.T) {
	t.Setenv("PANEL_MODE", "MOCK")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file:"+filepath.Join(t.TempDir(), "panel.db"))
	t.Setenv("LOG_LEVEL", "error")

	runCLI(t, "feedback", "Model E", "more", "jazz")

	out := runCLI(t, "feedback", "--list")
	var entries []domain.FeedbackEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Model E", entries[0].ParticipantID)
	assert.Equal(t, "more jazz", entries[0].Text)
}

func TestRestoreUnknownSessionFails(t *testing.T) {
	t.Setenv("PANEL_MODE", "MOCK")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"restore", "nope"})
	assert.Error(t, cmd.Execute())
}
