package query

import "context"

// Repository stores service queries. There is no update or delete.
type Repository interface {
	Create(ctx context.Context, q *ServiceQuery) error

	// GetByID returns ErrQueryNotFound when missing.
	GetByID(ctx context.Context, id int64) (*ServiceQuery, error)

	// List returns a page, newest first, and the total count.
	List(ctx context.Context, filter ListFilter) ([]ServiceQuery, int, error)

	// All returns every query, newest first (export).
	All(ctx context.Context) ([]ServiceQuery, error)
}
