package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/tally/internal/app"
	"github.com/alexanderramin/tally/internal/contract"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/narrative"
)

// ErrEmptyUpload means the request carried no bytes (or only whitespace).
var ErrEmptyUpload = errors.New("empty upload: choose a CSV file")

type ReportService interface {
	Build(ctx context.Context, req contract.ReportRequest) (*contract.ReportResponse, error)
}

// Narrator writes the optional narrative. *narrative.Service implements it.
type Narrator interface {
	Narrate(ctx context.Context, in narrative.Input) (*domain.NarrativeReport, error)
}

var (
	_ app.ReportUseCase = (ReportService)(nil)
	_ Narrator          = (*narrative.Service)(nil)
)
