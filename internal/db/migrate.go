package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent; ALTER
// TABLE additions tolerate re-runs on already-upgraded databases.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Timestamps are stored as INTEGER unix seconds; amounts as INTEGER
// token units (unsigned 64-bit in the domain layer); percentages as
// INTEGER basis points.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS flows (
		id TEXT PRIMARY KEY,
		flow_id TEXT NOT NULL,
		creator TEXT NOT NULL,
		token_mint TEXT NOT NULL,
		goal INTEGER NOT NULL,
		raised INTEGER NOT NULL DEFAULT 0,
		available INTEGER NOT NULL DEFAULT 0,
		withdrawn INTEGER NOT NULL DEFAULT 0,
		total_refunded INTEGER NOT NULL DEFAULT 0,
		refunds_count INTEGER NOT NULL DEFAULT 0,
		contributor_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL CHECK (status IN ('active', 'completed', 'canceled')),
		start_date INTEGER,
		end_date INTEGER,
		proposal_count INTEGER NOT NULL DEFAULT 0,
		voting_power_model TEXT NOT NULL,
		active_proposal_id TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		UNIQUE (creator, flow_id)
	)`,

	`CREATE TABLE IF NOT EXISTS milestones (
		flow_id TEXT NOT NULL REFERENCES flows(id) ON DELETE CASCADE,
		milestone_id INTEGER NOT NULL,
		amount INTEGER NOT NULL,
		deadline INTEGER NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (flow_id, milestone_id)
	)`,

	`CREATE TABLE IF NOT EXISTS contributions (
		id TEXT PRIMARY KEY,
		flow_id TEXT NOT NULL REFERENCES flows(id) ON DELETE CASCADE,
		contributor TEXT NOT NULL,
		token_mint TEXT NOT NULL,
		total_amount INTEGER NOT NULL DEFAULT 0,
		first_contribution INTEGER NOT NULL,
		last_contribution INTEGER NOT NULL,
		contribution_count INTEGER NOT NULL DEFAULT 0,
		refunded INTEGER NOT NULL DEFAULT 0,
		refund_amount INTEGER NOT NULL DEFAULT 0,
		refunded_at INTEGER,
		UNIQUE (flow_id, contributor)
	)`,

	`CREATE TABLE IF NOT EXISTS proposals (
		id TEXT PRIMARY KEY,
		flow_id TEXT NOT NULL REFERENCES flows(id) ON DELETE CASCADE,
		proposer TEXT NOT NULL,
		action_kind TEXT NOT NULL,
		action_payload TEXT NOT NULL DEFAULT '{}',
		status TEXT NOT NULL CHECK (status IN ('active', 'passed', 'failed', 'executed', 'canceled')),
		created_at INTEGER NOT NULL,
		voting_starts_at INTEGER NOT NULL,
		voting_ends_at INTEGER NOT NULL,
		votes_for INTEGER NOT NULL DEFAULT 0,
		votes_against INTEGER NOT NULL DEFAULT 0,
		votes_abstain INTEGER NOT NULL DEFAULT 0,
		total_eligible_votes INTEGER NOT NULL DEFAULT 0,
		quorum_bp INTEGER NOT NULL,
		approval_bp INTEGER NOT NULL,
		executed_at INTEGER,
		last_vote_check INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS votes (
		id TEXT PRIMARY KEY,
		proposal_id TEXT NOT NULL REFERENCES proposals(id) ON DELETE CASCADE,
		voter TEXT NOT NULL,
		vote_type TEXT NOT NULL CHECK (vote_type IN ('for', 'against', 'abstain')),
		voting_power INTEGER NOT NULL,
		cast_at INTEGER NOT NULL,
		UNIQUE (proposal_id, voter)
	)`,

	`CREATE TABLE IF NOT EXISTS treasury_accounts (
		account TEXT NOT NULL,
		token_mint TEXT NOT NULL,
		balance INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (account, token_mint)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_flows_creator ON flows(creator)`,
	`CREATE INDEX IF NOT EXISTS idx_contributions_flow ON contributions(flow_id)`,
	`CREATE INDEX IF NOT EXISTS idx_proposals_flow ON proposals(flow_id)`,
	`CREATE INDEX IF NOT EXISTS idx_votes_proposal ON votes(proposal_id)`,
}
