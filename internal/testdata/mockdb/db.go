package mockdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// Conn mocks the pgx pool subset the repositories use.
type Conn struct {
	mock.Mock
}

func (m *Conn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	callArgs := []any{ctx, sql}
	callArgs = append(callArgs, args...)
	res := m.Called(callArgs...)
	return res.Get(0).(pgconn.CommandTag), res.Error(1)
}

func (m *Conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	callArgs := []any{ctx, sql}
	callArgs = append(callArgs, args...)
	res := m.Called(callArgs...)
	if v := res.Get(0); v != nil {
		return v.(pgx.Rows), res.Error(1)
	}
	return nil, res.Error(1)
}

func (m *Conn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	callArgs := []any{ctx, sql}
	callArgs = append(callArgs, args...)
	return m.Called(callArgs...).Get(0).(pgx.Row)
}

func (m *Conn) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return m.Called(ctx, b).Get(0).(pgx.BatchResults)
}

// Row mocks a single-row result.
type Row struct {
	mock.Mock
}

var _ pgx.Row = &Row{}

// Scan returns the configured error; ScanFunc, when set, populates dest first.
func (m *Row) Scan(dest ...any) error {
	res := m.Called(dest)
	if fn, ok := res.Get(0).(func(dest ...any)); ok && fn != nil {
		fn(dest...)
	}
	return res.Error(1)
}

// Rows mocks a multi-row result set.
type Rows struct {
	mock.Mock
}

var _ pgx.Rows = &Rows{}

func (m *Rows) Close() {
	m.Called()
}

func (m *Rows) Err() error {
	return m.Called().Error(0)
}

func (m *Rows) CommandTag() pgconn.CommandTag {
	return m.Called().Get(0).(pgconn.CommandTag)
}

func (m *Rows) FieldDescriptions() []pgconn.FieldDescription {
	return m.Called().Get(0).([]pgconn.FieldDescription)
}

func (m *Rows) Next() bool {
	return m.Called().Bool(0)
}

// Scan works like Row.Scan: a configured func populates dest.
func (m *Rows) Scan(dest ...any) error {
	res := m.Called(dest)
	if fn, ok := res.Get(0).(func(dest ...any)); ok && fn != nil {
		fn(dest...)
	}
	return res.Error(1)
}

func (m *Rows) Values() ([]any, error) {
	res := m.Called()
	if v := res.Get(0); v != nil {
		return v.([]any), res.Error(1)
	}
	return nil, res.Error(1)
}

func (m *Rows) RawValues() [][]byte {
	res := m.Called()
	if v := res.Get(0); v != nil {
		return v.([][]byte)
	}
	return nil
}

func (m *Rows) Conn() *pgx.Conn {
	res := m.Called()
	if v := res.Get(0); v != nil {
		return v.(*pgx.Conn)
	}
	return nil
}

// BatchResults mocks the result handle of a queued pgx.Batch.
type BatchResults struct {
	mock.Mock
}

var _ pgx.BatchResults = &BatchResults{}

func (m *BatchResults) Exec() (pgconn.CommandTag, error) {
	res := m.Called()
	return res.Get(0).(pgconn.CommandTag), res.Error(1)
}

func (m *BatchResults) Query() (pgx.Rows, error) {
	res := m.Called()
	if v := res.Get(0); v != nil {
		return v.(pgx.Rows), res.Error(1)
	}
	return nil, res.Error(1)
}

func (m *BatchResults) QueryRow() pgx.Row {
	return m.Called().Get(0).(pgx.Row)
}

func (m *BatchResults) Close() error {
	return m.Called().Error(0)
}
