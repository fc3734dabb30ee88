package contract

import "github.com/alexanderramin/tally/internal/app"

type ReportRequest = app.ReportRequest

func NewReportRequest(filename string, data []byte) ReportRequest {
	return app.NewReportRequest(filename, data)
}

type FilterRequest = app.FilterRequest

type ReportResponse = app.ReportResponse

type WarningCode = app.WarningCode

const (
	WarnNarrativeFailed   WarningCode = app.WarnNarrativeFailed
	WarnNarrativeDisabled WarningCode = app.WarnNarrativeDisabled
	WarnFilterNoMatch     WarningCode = app.WarnFilterNoMatch
)

type Warning = app.Warning
