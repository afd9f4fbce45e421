package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/patrick-anyanwu/SunProtection/internal/stats"
)

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore reads cancer records from the uv_tracker_cancerdata table.
type PostgresStore struct {
	db querier
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

const recordsQuery = `
	SELECT state, year, data_type, count::text, cancer_type, sex
	FROM uv_tracker_cancerdata
	WHERE year >= $1
	  AND (cardinality($2::text[]) = 0 OR cancer_type = ANY($2::text[]))
	ORDER BY year, data_type
`

func (s *PostgresStore) Records(ctx context.Context, f stats.Filter) ([]stats.CancerRecord, error) {
	types := f.CancerTypes
	if types == nil {
		types = []string{}
	}

	rows, err := s.db.Query(ctx, recordsQuery, f.YearFrom, types)
	if err != nil {
		return nil, fmt.Errorf("query cancer records: %w", err)
	}
	defer rows.Close()

	var out []stats.CancerRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cancer record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cancer records: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (stats.CancerRecord, error) {
	var (
		rec        stats.CancerRecord
		state, sex *string
		count      *string
	)
	if err := row.Scan(&state, &rec.Year, &rec.DataType, &count, &rec.CancerType, &sex); err != nil {
		return stats.CancerRecord{}, err
	}
	if state != nil {
		rec.State = *state
	}
	if sex != nil {
		rec.Sex = *sex
	}
	if count != nil {
		rec.Count = *count
	}
	return rec, nil
}
