package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Pool{DB: db}, mock
}

func TestTransaction_Commit(t *testing.T) {
	pool, mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
		_, execErr := tx.Exec("UPDATE users SET email = $1", "new@example.com")
		return execErr
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_RollbackOnError(t *testing.T) {
	pool, mock := newMockPool(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("boom")
	err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_BeginFails(t *testing.T) {
	pool, mock := newMockPool(t)

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
		t.Fatal("callback should not run when begin fails")
		return nil
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}

func TestHealthCheck(t *testing.T) {
	pool, mock := newMockPool(t)

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	assert.NoError(t, pool.HealthCheck(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck_QueryFails(t *testing.T) {
	pool, mock := newMockPool(t)

	mock.ExpectPing()
	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("query failed"))

	err := pool.HealthCheck(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database query test failed")
}
