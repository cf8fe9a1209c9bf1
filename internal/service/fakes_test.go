package service

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/gov-forecast/internal/datasource"
	"github.com/yourusername/gov-forecast/internal/models"
)

// fakeReferendumRepo is an in-memory ReferendumRepository for service tests.
type fakeReferendumRepo struct {
	records  []models.HistoricalRecord
	failAll  bool
	upserted []models.HistoricalRecord
}

var errRepoDown = errors.New("repository unavailable")

func (f *fakeReferendumRepo) Upsert(_ context.Context, record *models.HistoricalRecord) error {
	if f.failAll {
		return errRepoDown
	}
	f.upserted = append(f.upserted, *record)
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeReferendumRepo) UpsertBatch(_ context.Context, records []models.HistoricalRecord) (int64, error) {
	if f.failAll {
		return 0, errRepoDown
	}
	f.upserted = append(f.upserted, records...)
	f.records = append(f.records, records...)
	return int64(len(records)), nil
}

func (f *fakeReferendumRepo) GetAll(_ context.Context) ([]models.HistoricalRecord, error) {
	if f.failAll {
		return nil, errRepoDown
	}
	return f.records, nil
}

func (f *fakeReferendumRepo) GetByDAO(_ context.Context, dao string) ([]models.HistoricalRecord, error) {
	if f.failAll {
		return nil, errRepoDown
	}
	out := make([]models.HistoricalRecord, 0, len(f.records))
	for _, rec := range f.records {
		if rec.DAO == dao {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeReferendumRepo) GetByTimeRange(_ context.Context, start, end time.Time) ([]models.HistoricalRecord, error) {
	out := make([]models.HistoricalRecord, 0, len(f.records))
	for _, rec := range f.records {
		if !rec.DecidedAt.Before(start) && !rec.DecidedAt.After(end) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeReferendumRepo) GetRecent(_ context.Context, limit int) ([]models.HistoricalRecord, error) {
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[len(f.records)-limit:], nil
}

func (f *fakeReferendumRepo) Count(_ context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

// fakePredictionRepo records inserted predictions.
type fakePredictionRepo struct {
	inserted []models.Prediction
	failAll  bool
}

func (f *fakePredictionRepo) Insert(_ context.Context, prediction *models.Prediction) error {
	if f.failAll {
		return errRepoDown
	}
	f.inserted = append(f.inserted, *prediction)
	return nil
}

func (f *fakePredictionRepo) InsertBatch(_ context.Context, predictions []models.Prediction) (int64, error) {
	if f.failAll {
		return 0, errRepoDown
	}
	f.inserted = append(f.inserted, predictions...)
	return int64(len(predictions)), nil
}

func (f *fakePredictionRepo) GetAll(_ context.Context) ([]models.Prediction, error) {
	return f.inserted, nil
}

func (f *fakePredictionRepo) GetByProposal(_ context.Context, proposalID int64, dao string) ([]models.Prediction, error) {
	out := make([]models.Prediction, 0)
	for _, p := range f.inserted {
		if p.ProposalID == proposalID && p.DAO == dao {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePredictionRepo) GetByTimeRange(_ context.Context, start, end time.Time) ([]models.Prediction, error) {
	out := make([]models.Prediction, 0)
	for _, p := range f.inserted {
		if !p.PredictionTime.Before(start) && !p.PredictionTime.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeGovernanceSource serves canned referendum data.
type fakeGovernanceSource struct {
	name     string
	referenda []datasource.ReferendumData
	fetchErr error
}

func (f *fakeGovernanceSource) FetchReferenda(_ context.Context, _, _ time.Time) ([]datasource.ReferendumData, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.referenda, nil
}

func (f *fakeGovernanceSource) FetchReferendumDetails(_ context.Context, referendumID int64) (*datasource.ReferendumData, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	for _, r := range f.referenda {
		if r.ReferendumID == referendumID {
			data := r
			return &data, nil
		}
	}
	return nil, datasource.ErrNotFound
}

func (f *fakeGovernanceSource) Name() string { return f.name }

func (f *fakeGovernanceSource) IsEnabled() bool { return true }
