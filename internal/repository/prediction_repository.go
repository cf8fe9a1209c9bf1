package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gov-forecast/internal/database"
	"github.com/yourusername/gov-forecast/internal/models"
)

// PredictionRepository defines methods for stored prediction data access
type PredictionRepository interface {
	// Insert stores a single prediction
	Insert(ctx context.Context, prediction *models.Prediction) error

	// InsertBatch stores multiple predictions using COPY
	InsertBatch(ctx context.Context, predictions []models.Prediction) (int64, error)

	// GetAll retrieves all predictions ordered by prediction time
	GetAll(ctx context.Context) ([]models.Prediction, error)

	// GetByProposal retrieves predictions for a single proposal
	GetByProposal(ctx context.Context, proposalID int64, dao string) ([]models.Prediction, error)

	// GetByTimeRange retrieves predictions made within the range
	GetByTimeRange(ctx context.Context, start, end time.Time) ([]models.Prediction, error)
}

// PostgresPredictionRepository implements PredictionRepository using PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new PostgreSQL prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

const predictionColumns = `id, proposal_id, dao, predicted, approval_prob,
	confidence, margin_of_error, prediction_time`

// Insert stores a single prediction
func (r *PostgresPredictionRepository) Insert(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.GetPool().Exec(ctx, query,
		prediction.ID,
		prediction.ProposalID,
		prediction.DAO,
		prediction.Predicted,
		prediction.ApprovalProb,
		prediction.Confidence,
		prediction.MarginOfError,
		prediction.PredictionTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction: %w", err)
	}

	return nil
}

// InsertBatch stores multiple predictions using COPY
func (r *PostgresPredictionRepository) InsertBatch(ctx context.Context, predictions []models.Prediction) (int64, error) {
	if len(predictions) == 0 {
		return 0, nil
	}

	columns := []string{"id", "proposal_id", "dao", "predicted", "approval_prob",
		"confidence", "margin_of_error", "prediction_time"}

	count, err := r.db.GetPool().CopyFrom(
		ctx,
		pgx.Identifier{"predictions"},
		columns,
		pgx.CopyFromSlice(len(predictions), func(i int) ([]interface{}, error) {
			p := predictions[i]
			return []interface{}{
				p.ID,
				p.ProposalID,
				p.DAO,
				p.Predicted,
				p.ApprovalProb,
				p.Confidence,
				p.MarginOfError,
				p.PredictionTime,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to batch insert predictions: %w", err)
	}

	return count, nil
}

// GetAll retrieves all predictions ordered by prediction time
func (r *PostgresPredictionRepository) GetAll(ctx context.Context) ([]models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions ORDER BY prediction_time ASC`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetByProposal retrieves predictions for a single proposal
func (r *PostgresPredictionRepository) GetByProposal(ctx context.Context, proposalID int64, dao string) ([]models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions
		WHERE proposal_id = $1 AND dao = $2
		ORDER BY prediction_time ASC`

	rows, err := r.db.GetPool().Query(ctx, query, proposalID, dao)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by proposal: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetByTimeRange retrieves predictions made within the range
func (r *PostgresPredictionRepository) GetByTimeRange(ctx context.Context, start, end time.Time) ([]models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions
		WHERE prediction_time >= $1 AND prediction_time <= $2
		ORDER BY prediction_time ASC`

	rows, err := r.db.GetPool().Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by time range: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

func scanPredictions(rows pgx.Rows) ([]models.Prediction, error) {
	var predictions []models.Prediction
	for rows.Next() {
		var p models.Prediction
		if err := rows.Scan(
			&p.ID,
			&p.ProposalID,
			&p.DAO,
			&p.Predicted,
			&p.ApprovalProb,
			&p.Confidence,
			&p.MarginOfError,
			&p.PredictionTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return predictions, nil
}
