package report

import "errors"

var (
	// ErrNoData indicates a share was requested against a zero total, i.e. the
	// table has no rows or no logged hours. Callers render it as an empty state.
	ErrNoData = errors.New("no data: total hours is zero")

	// ErrUnknownDimension indicates a filter on a column that cannot be grouped.
	ErrUnknownDimension = errors.New("unknown dimension")
)
