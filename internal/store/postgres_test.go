package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-anyanwu/SunProtection/internal/stats"
)

// --- fake pgx rows ---

type fakeRows struct {
	data [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: want %d columns, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case **string:
			if row[i] == nil {
				*p = nil
				continue
			}
			v := row[i].(string)
			*p = &v
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		default:
			return fmt.Errorf("scan: unsupported dest %T", d)
		}
	}
	return nil
}

type fakeQuerier struct {
	rows *fakeRows
	err  error
	args []any
}

func (q *fakeQuerier) Query(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
	q.args = args
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestPostgresStore_Records(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{data: [][]any{
		{"Victoria", 2010, "Incidence", "1000", "Melanoma of the skin", "Males"},
		{nil, 2011, "Mortality", "80", "Melanoma of the skin", nil},
	}}}
	s := &PostgresStore{db: q}

	got, err := s.Records(context.Background(), stats.Filter{YearFrom: 2007, CancerTypes: []string{"Melanoma of the skin"}})

	require.NoError(t, err)
	assert.Equal(t, []any{2007, []string{"Melanoma of the skin"}}, q.args)
	assert.Equal(t, []stats.CancerRecord{
		{State: "Victoria", Year: 2010, DataType: "Incidence", Count: "1000", CancerType: "Melanoma of the skin", Sex: "Males"},
		{Year: 2011, DataType: "Mortality", Count: "80", CancerType: "Melanoma of the skin"},
	}, got)
}

func TestPostgresStore_NilTypesBecomeEmptyArray(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{}}

	_, err := (&PostgresStore{db: q}).Records(context.Background(), stats.Filter{})

	require.NoError(t, err)
	assert.Equal(t, []string{}, q.args[1])
}

func TestPostgresStore_QueryError(t *testing.T) {
	q := &fakeQuerier{err: errors.New("connection refused")}

	_, err := (&PostgresStore{db: q}).Records(context.Background(), stats.Filter{})

	assert.ErrorContains(t, err, "query cancer records")
}

func TestPostgresStore_RowsError(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{err: errors.New("broken pipe")}}

	_, err := (&PostgresStore{db: q}).Records(context.Background(), stats.Filter{})

	assert.ErrorContains(t, err, "iterate cancer records")
}
