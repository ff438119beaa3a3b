package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragscope/ragscope/cache"
)

func TestPostgresStorePut(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "results")
	key := cache.Key("crag", "what is the capital of France?")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO results")).
		WithArgs(key, "crag", []byte(`{"answer":"paris"}`), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = s.Put(context.Background(), "crag", "what is the capital of France?", []byte(`{"answer":"paris"}`))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "results")
	key := cache.Key("crag", "q")

	rows := pgxmock.NewRows([]string{"payload"}).AddRow([]byte(`{"answer":"paris"}`))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM results WHERE key = $1")).
		WithArgs(key).
		WillReturnRows(rows)

	payload, ok, err := s.Get(context.Background(), "crag", "q")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"answer":"paris"}`, string(payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMiss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "results")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM results")).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"payload"}))

	_, ok, err := s.Get(context.Background(), "crag", "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresStoreGetError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "results")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM results")).
		WithArgs(pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	_, _, err = s.Get(context.Background(), "crag", "q")
	assert.ErrorContains(t, err, "connection refused")
}

func TestPostgresStoreInitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	s := NewWithPool(mock, "")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS results").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	assert.NoError(t, s.InitSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
