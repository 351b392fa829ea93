package query

import (
	"context"
	"io"
)

// Service is the query intake pipeline plus the admin read side.
type Service interface {
	// Submit validates, persists and hands the record to the Dispatcher.
	// Notification outcome never affects the result.
	Submit(ctx context.Context, req SubmitQueryRequest) (*ServiceQuery, error)

	Get(ctx context.Context, id int64) (*ServiceQuery, error)
	List(ctx context.Context, filter ListFilter) ([]ServiceQuery, int, error)

	// Export writes every query as an XLSX workbook.
	Export(ctx context.Context, w io.Writer) error
}

// Dispatcher sends the admin notification and the submitter acknowledgment
// for a stored query without blocking the caller.
type Dispatcher interface {
	Dispatch(q ServiceQuery)

	// Wait blocks until in-flight deliveries finish.
	Wait()
}
