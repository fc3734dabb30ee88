package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/tally/internal/contract"
	"github.com/alexanderramin/tally/internal/domain"
	"github.com/alexanderramin/tally/internal/importer"
	"github.com/alexanderramin/tally/internal/narrative"
	"github.com/alexanderramin/tally/internal/report"
)

// ReportOptions tunes a ReportService. Zero values are usable.
type ReportOptions struct {
	// NarrativeTimeout bounds the narrative step on top of the caller's
	// context. Zero leaves it to the LLM client's task timeout.
	NarrativeTimeout time.Duration
	Now              func() time.Time
	NewID            func() string
}

type reportService struct {
	narrator Narrator
	opts     ReportOptions
	observer UseCaseObserver
}

// NewReportService builds the report pipeline. narrator may be nil, in which
// case narratives are reported as disabled.
func NewReportService(narrator Narrator, opts ReportOptions, observers ...UseCaseObserver) ReportService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &reportService{
		narrator: narrator,
		opts:     opts,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) Build(ctx context.Context, req contract.ReportRequest) (resp *contract.ReportResponse, err error) {
	startedAt := s.opts.Now().UTC()
	fields := map[string]any{"filename": req.Filename, "bytes": len(req.Data)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "build-report",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if len(bytes.TrimSpace(req.Data)) == 0 {
		return nil, ErrEmptyUpload
	}

	var filter *contract.FilterRequest
	if req.Filter != nil {
		dim, perr := domain.ParseDimension(string(req.Filter.Dimension))
		if perr != nil {
			return nil, fmt.Errorf("%w: %v", report.ErrUnknownDimension, perr)
		}
		filter = &contract.FilterRequest{Dimension: dim, Value: req.Filter.Value}
	}

	table, err := importer.Parse(req.Data)
	if err != nil {
		return nil, err
	}

	summary := report.Summarize(table)
	fields["records"] = summary.RecordCount
	fields["total_hours"] = summary.Total.String()

	resp = &contract.ReportResponse{
		ID:           s.opts.NewID(),
		Filename:     req.Filename,
		GeneratedAt:  startedAt,
		Summary:      summary,
		FilterValues: make(map[domain.Dimension][]string, len(domain.Dimensions)),
		Empty:        summary.Empty,
	}
	for _, dim := range domain.Dimensions {
		resp.FilterValues[dim] = report.Values(table, dim)
	}

	if filter != nil && !summary.Empty {
		sel, ferr := report.Filter(table, filter.Dimension, filter.Value)
		if ferr != nil {
			return nil, ferr
		}
		resp.Selection = &sel
		if len(sel.Records) == 0 {
			resp.Warnings = append(resp.Warnings, contract.Warning{
				Code:    contract.WarnFilterNoMatch,
				Message: fmt.Sprintf("no entries where %s is %q", filter.Dimension, filter.Value),
			})
		}
	}

	s.narrate(ctx, req, table, resp)
	fields["narrative_state"] = string(resp.NarrativeState)
	return resp, nil
}

// narrate fills the narrative fields of resp. Failures become warnings.
func (s *reportService) narrate(ctx context.Context, req contract.ReportRequest, table *domain.Table, resp *contract.ReportResponse) {
	switch {
	case !req.Narrate:
		resp.NarrativeState = domain.NarrativeSkipped
		return
	case s.narrator == nil:
		resp.NarrativeState = domain.NarrativeDisabled
		resp.Warnings = append(resp.Warnings, contract.Warning{
			Code:    contract.WarnNarrativeDisabled,
			Message: "no language model is configured; set TALLY_GEMINI_API_KEY to enable summaries",
		})
		return
	case resp.Empty:
		resp.NarrativeState = domain.NarrativeSkipped
		return
	}

	if s.opts.NarrativeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.NarrativeTimeout)
		defer cancel()
	}

	n, err := s.narrator.Narrate(ctx, narrative.Input{
		Filename: req.Filename,
		Summary:  resp.Summary,
		Table:    table,
	})
	if err != nil {
		resp.NarrativeState = domain.NarrativeFailed
		resp.Warnings = append(resp.Warnings, contract.Warning{
			Code:    contract.WarnNarrativeFailed,
			Message: narrativeFailureMessage(err),
		})
		return
	}
	resp.Narrative = n
	resp.NarrativeState = domain.NarrativeOK
}

func narrativeFailureMessage(err error) string {
	var ext *narrative.ExternalServiceError
	if errors.As(err, &ext) {
		return fmt.Sprintf("summary unavailable (%s): %v", ext.Provider, ext.Err)
	}
	return "summary unavailable: " + err.Error()
}
