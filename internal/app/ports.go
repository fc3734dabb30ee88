package app

import "context"

// ReportUseCase turns an uploaded timesheet into a report.
type ReportUseCase interface {
	Build(ctx context.Context, req ReportRequest) (*ReportResponse, error)
}
