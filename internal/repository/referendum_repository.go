package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gov-forecast/internal/database"
	"github.com/yourusername/gov-forecast/internal/models"
)

// ReferendumRepository defines methods for historical referendum data access
type ReferendumRepository interface {
	// Upsert inserts or updates a single referendum record
	Upsert(ctx context.Context, record *models.HistoricalRecord) error

	// UpsertBatch inserts or updates multiple referendum records
	UpsertBatch(ctx context.Context, records []models.HistoricalRecord) (int64, error)

	// GetAll retrieves all referendum records ordered by decision time
	GetAll(ctx context.Context) ([]models.HistoricalRecord, error)

	// GetByDAO retrieves referendum records for a single governance track
	GetByDAO(ctx context.Context, dao string) ([]models.HistoricalRecord, error)

	// GetByTimeRange retrieves referendum records decided within the range
	GetByTimeRange(ctx context.Context, start, end time.Time) ([]models.HistoricalRecord, error)

	// GetRecent retrieves the most recently decided records up to limit
	GetRecent(ctx context.Context, limit int) ([]models.HistoricalRecord, error)

	// Count returns the number of stored referendum records
	Count(ctx context.Context) (int64, error)
}

// PostgresReferendumRepository implements ReferendumRepository using PostgreSQL
type PostgresReferendumRepository struct {
	db *database.DB
}

// NewPostgresReferendumRepository creates a new PostgreSQL referendum repository
func NewPostgresReferendumRepository(db *database.DB) ReferendumRepository {
	return &PostgresReferendumRepository{db: db}
}

const referendumColumns = `referendum_id, dao, title, status, decided_at,
	ayes_amount, total_voted, participants, eligible_stake,
	sentiment, trending, source_sentiment_avg, comment_turnout_trend`

// Upsert inserts or updates a single referendum record
func (r *PostgresReferendumRepository) Upsert(ctx context.Context, record *models.HistoricalRecord) error {
	query := `
		INSERT INTO referenda (` + referendumColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (referendum_id, dao) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			decided_at = EXCLUDED.decided_at,
			ayes_amount = EXCLUDED.ayes_amount,
			total_voted = EXCLUDED.total_voted,
			participants = EXCLUDED.participants,
			eligible_stake = EXCLUDED.eligible_stake,
			sentiment = EXCLUDED.sentiment,
			trending = EXCLUDED.trending,
			source_sentiment_avg = EXCLUDED.source_sentiment_avg,
			comment_turnout_trend = EXCLUDED.comment_turnout_trend`

	_, err := r.db.GetPool().Exec(ctx, query,
		record.ReferendumID,
		record.DAO,
		record.Title,
		record.Status,
		record.DecidedAt,
		record.AyesAmount,
		record.TotalVoted,
		record.Participants,
		record.EligibleStake,
		record.Sentiment,
		record.Trending,
		record.SourceSentimentAvg,
		record.CommentTurnoutTrend,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert referendum: %w", err)
	}

	return nil
}

// UpsertBatch inserts or updates multiple referendum records inside one
// transaction. CopyFrom is not usable here because conflicts must update,
// so the batch reuses the single-row upsert statement.
func (r *PostgresReferendumRepository) UpsertBatch(ctx context.Context, records []models.HistoricalRecord) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO referenda (` + referendumColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (referendum_id, dao) DO UPDATE SET
				title = EXCLUDED.title,
				status = EXCLUDED.status,
				decided_at = EXCLUDED.decided_at,
				ayes_amount = EXCLUDED.ayes_amount,
				total_voted = EXCLUDED.total_voted,
				participants = EXCLUDED.participants,
				eligible_stake = EXCLUDED.eligible_stake,
				sentiment = EXCLUDED.sentiment,
				trending = EXCLUDED.trending,
				source_sentiment_avg = EXCLUDED.source_sentiment_avg,
				comment_turnout_trend = EXCLUDED.comment_turnout_trend`

		for i := range records {
			rec := &records[i]
			if _, err := tx.Exec(ctx, query,
				rec.ReferendumID,
				rec.DAO,
				rec.Title,
				rec.Status,
				rec.DecidedAt,
				rec.AyesAmount,
				rec.TotalVoted,
				rec.Participants,
				rec.EligibleStake,
				rec.Sentiment,
				rec.Trending,
				rec.SourceSentimentAvg,
				rec.CommentTurnoutTrend,
			); err != nil {
				return fmt.Errorf("failed to upsert referendum %d/%s: %w", rec.ReferendumID, rec.DAO, err)
			}
			count++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// GetAll retrieves all referendum records ordered by decision time
func (r *PostgresReferendumRepository) GetAll(ctx context.Context) ([]models.HistoricalRecord, error) {
	query := `SELECT ` + referendumColumns + ` FROM referenda ORDER BY decided_at ASC`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query referenda: %w", err)
	}
	defer rows.Close()

	return scanReferenda(rows)
}

// GetByDAO retrieves referendum records for a single governance track
func (r *PostgresReferendumRepository) GetByDAO(ctx context.Context, dao string) ([]models.HistoricalRecord, error) {
	query := `SELECT ` + referendumColumns + ` FROM referenda WHERE dao = $1 ORDER BY decided_at ASC`

	rows, err := r.db.GetPool().Query(ctx, query, dao)
	if err != nil {
		return nil, fmt.Errorf("failed to query referenda by dao: %w", err)
	}
	defer rows.Close()

	return scanReferenda(rows)
}

// GetByTimeRange retrieves referendum records decided within the range
func (r *PostgresReferendumRepository) GetByTimeRange(ctx context.Context, start, end time.Time) ([]models.HistoricalRecord, error) {
	query := `SELECT ` + referendumColumns + ` FROM referenda
		WHERE decided_at >= $1 AND decided_at <= $2
		ORDER BY decided_at ASC`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query referenda by time range: %w", err)
	}
	defer rows.Close()

	return scanReferenda(rows)
}

// GetRecent retrieves the most recently decided records up to limit
func (r *PostgresReferendumRepository) GetRecent(ctx context.Context, limit int) ([]models.HistoricalRecord, error) {
	query := `SELECT ` + referendumColumns + ` FROM referenda ORDER BY decided_at DESC LIMIT $1`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent referenda: %w", err)
	}
	defer rows.Close()

	return scanReferenda(rows)
}

// Count returns the number of stored referendum records
func (r *PostgresReferendumRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM referenda`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count referenda: %w", err)
	}
	return count, nil
}

func scanReferenda(rows pgx.Rows) ([]models.HistoricalRecord, error) {
	var records []models.HistoricalRecord
	for rows.Next() {
		var rec models.HistoricalRecord
		if err := rows.Scan(
			&rec.ReferendumID,
			&rec.DAO,
			&rec.Title,
			&rec.Status,
			&rec.DecidedAt,
			&rec.AyesAmount,
			&rec.TotalVoted,
			&rec.Participants,
			&rec.EligibleStake,
			&rec.Sentiment,
			&rec.Trending,
			&rec.SourceSentimentAvg,
			&rec.CommentTurnoutTrend,
		); err != nil {
			return nil, fmt.Errorf("failed to scan referendum: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating referenda: %w", err)
	}

	return records, nil
}
