// Package repository provides data access for referenda and predictions.
package repository

import (
	"fmt"

	"github.com/yourusername/gov-forecast/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Referendum ReferendumRepository
	Prediction PredictionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Referendum: NewPostgresReferendumRepository(db),
		Prediction: NewPostgresPredictionRepository(db),
	}, nil
}
