package repository

import (
	"context"

	"github.com/alexanderramin/tally/internal/domain"
)

// NarrativeRepo is durable storage for generated narratives.
type NarrativeRepo interface {
	Get(ctx context.Context, key string) (*domain.NarrativeReport, bool, error)
	Put(ctx context.Context, key string, report *domain.NarrativeReport) error
	Count(ctx context.Context) (int, error)
}

var _ NarrativeRepo = (*SQLiteNarrativeRepo)(nil)
