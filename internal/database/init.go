package database

import (
	"context"
	"fmt"

	"github.com/yourusername/gov-forecast/internal/config"
)

// Schema for the referenda and predictions tables. Token amounts are NUMERIC
// so on-chain values survive round trips without float truncation.
const schema = `
CREATE TABLE IF NOT EXISTS referenda (
	referendum_id BIGINT NOT NULL,
	dao TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	decided_at TIMESTAMPTZ,
	ayes_amount NUMERIC NOT NULL DEFAULT 0,
	total_voted NUMERIC NOT NULL DEFAULT 0,
	participants NUMERIC NOT NULL DEFAULT 0,
	eligible_stake NUMERIC NOT NULL DEFAULT 0,
	sentiment DOUBLE PRECISION NOT NULL DEFAULT 0,
	trending DOUBLE PRECISION NOT NULL DEFAULT 0,
	source_sentiment_avg DOUBLE PRECISION NOT NULL DEFAULT 0,
	comment_turnout_trend DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (referendum_id, dao)
);

CREATE TABLE IF NOT EXISTS predictions (
	id UUID PRIMARY KEY,
	proposal_id BIGINT NOT NULL,
	dao TEXT NOT NULL DEFAULT '',
	predicted TEXT NOT NULL DEFAULT '',
	approval_prob DOUBLE PRECISION NOT NULL DEFAULT 0,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	margin_of_error DOUBLE PRECISION NOT NULL DEFAULT 0,
	prediction_time TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_proposal ON predictions (proposal_id, dao);
CREATE INDEX IF NOT EXISTS idx_referenda_decided_at ON referenda (decided_at);
`

// Initialize creates a database connection pool and ensures the schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if _, err := db.pool.Exec(ctx, schema); err != nil {
		closeErr := db.Close(ctx)
		if closeErr != nil {
			return nil, fmt.Errorf("failed to apply schema: %w (close failed: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}
