package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
db_path = "/tmp/fundflow-test.db"
voting_duration_hours = 24
quorum_bp = 3000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/fundflow-test.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.Governance.VotingDuration)
	assert.Equal(t, uint16(3000), cfg.Governance.QuorumBP)
	assert.Equal(t, uint16(5000), cfg.Governance.ApprovalBP, "unset keys keep defaults")
	assert.Equal(t, "USDC", cfg.TokenMint)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"quorum above max", "quorum_bp = 10001"},
		{"negative approval", "approval_bp = -1"},
		{"zero duration", "voting_duration_hours = 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `db_path = "/from/file.db"`)
	t.Setenv("FUNDFLOW_CONFIG", path)
	t.Setenv("FUNDFLOW_DB", "/from/env.db")

	cfg, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DBPath)
}
