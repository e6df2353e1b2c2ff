// Package config loads fundflow's TOML configuration: where the database
// lives and the governance defaults applied when a proposal does not set
// its own thresholds.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/okoyedan/fundflow/internal/domain"
)

// Governance holds the default proposal parameters.
type Governance struct {
	VotingDuration time.Duration
	QuorumBP       uint16
	ApprovalBP     uint16
}

// Config is the resolved runtime configuration.
type Config struct {
	DBPath     string
	TokenMint  string
	Governance Governance
}

// fileConfig maps config.toml keys onto Config fields.
type fileConfig struct {
	DBPath              string `toml:"db_path"`
	TokenMint           string `toml:"token_mint"`
	VotingDurationHours int    `toml:"voting_duration_hours"`
	QuorumBP            int    `toml:"quorum_bp"`
	ApprovalBP          int    `toml:"approval_bp"`
}

// Default returns the built-in configuration: a three-day voting window
// with 50% quorum and 50% approval.
func Default() Config {
	return Config{
		TokenMint: "USDC",
		Governance: Governance{
			VotingDuration: 72 * time.Hour,
			QuorumBP:       5000,
			ApprovalBP:     5000,
		},
	}
}

// Load reads the TOML file at path over the defaults. Keys absent from
// the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}

	if meta.IsDefined("db_path") {
		cfg.DBPath = strings.TrimSpace(raw.DBPath)
	}
	if meta.IsDefined("token_mint") {
		cfg.TokenMint = strings.TrimSpace(raw.TokenMint)
	}
	if meta.IsDefined("voting_duration_hours") {
		if raw.VotingDurationHours <= 0 {
			return Config{}, fmt.Errorf("loading config %s: voting_duration_hours must be positive", path)
		}
		cfg.Governance.VotingDuration = time.Duration(raw.VotingDurationHours) * time.Hour
	}
	if meta.IsDefined("quorum_bp") {
		if raw.QuorumBP < 0 || raw.QuorumBP > domain.MaxBasisPoints {
			return Config{}, fmt.Errorf("loading config %s: quorum_bp out of range 0-%d", path, domain.MaxBasisPoints)
		}
		cfg.Governance.QuorumBP = uint16(raw.QuorumBP)
	}
	if meta.IsDefined("approval_bp") {
		if raw.ApprovalBP < 0 || raw.ApprovalBP > domain.MaxBasisPoints {
			return Config{}, fmt.Errorf("loading config %s: approval_bp out of range 0-%d", path, domain.MaxBasisPoints)
		}
		cfg.Governance.ApprovalBP = uint16(raw.ApprovalBP)
	}
	return cfg, nil
}

// Resolve builds the effective configuration: FUNDFLOW_CONFIG names an
// explicit file, otherwise ~/.fundflow/config.toml is read if present.
// FUNDFLOW_DB overrides the database path from any source; with nothing
// set the database defaults to ~/.fundflow/fundflow.db.
func Resolve() (Config, error) {
	cfg := Default()

	if path := os.Getenv("FUNDFLOW_CONFIG"); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	} else if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".fundflow", "config.toml")
		if _, statErr := os.Stat(path); statErr == nil {
			loaded, err := Load(path)
			if err != nil {
				return Config{}, err
			}
			cfg = loaded
		}
	}

	if dbPath := os.Getenv("FUNDFLOW_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".fundflow", "fundflow.db")
	}
	return cfg, nil
}
