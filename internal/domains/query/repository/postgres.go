package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"portfolio-backend/internal/domains/query"
	"portfolio-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	db database.Querier
}

func NewPostgresRepository(db database.Querier) query.Repository {
	return &postgresRepository{db: db}
}

const queryColumns = `id, name, email, subject, message, created_at`

func scanQuery(row pgx.Row) (*query.ServiceQuery, error) {
	var q query.ServiceQuery
	if err := row.Scan(&q.ID, &q.Name, &q.Email, &q.Subject, &q.Message, &q.CreatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

func collect(rows pgx.Rows) ([]query.ServiceQuery, error) {
	defer rows.Close()

	out := make([]query.ServiceQuery, 0)
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service query: %w", err)
		}
		out = append(out, *q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service queries: %w", err)
	}
	return out, nil
}

func (r *postgresRepository) Create(ctx context.Context, q *query.ServiceQuery) error {
	sql := `
		INSERT INTO service_queries (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := r.db.QueryRow(ctx, sql, q.Name, q.Email, q.Subject, q.Message).Scan(&q.ID, &q.CreatedAt); err != nil {
		return fmt.Errorf("insert service query: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*query.ServiceQuery, error) {
	sql := `SELECT ` + queryColumns + ` FROM service_queries WHERE id = $1`

	q, err := scanQuery(r.db.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, query.ErrQueryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get service query: %w", err)
	}
	return q, nil
}

func (r *postgresRepository) List(ctx context.Context, filter query.ListFilter) ([]query.ServiceQuery, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM service_queries`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count service queries: %w", err)
	}

	sql := `
		SELECT ` + queryColumns + `
		FROM service_queries
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, sql, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list service queries: %w", err)
	}
	items, err := collect(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *postgresRepository) All(ctx context.Context) ([]query.ServiceQuery, error) {
	rows, err := r.db.Query(ctx, `SELECT `+queryColumns+` FROM service_queries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("load service queries: %w", err)
	}
	return collect(rows)
}
