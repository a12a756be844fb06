package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puredent/clinic-api/pkg/security"
)

func seedMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func expectCount(mock sqlmock.Sqlmock, table string, n int) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM ` + table).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

func TestSeedPopulatesEmptyTables(t *testing.T) {
	db, mock := seedMock(t)
	hasher := security.NewBcryptHasher(4)

	expectCount(mock, "staff", 0)
	for range defaultStaff {
		mock.ExpectExec("INSERT INTO staff").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	expectCount(mock, "patients", 0)
	mock.ExpectExec("INSERT INTO patients").WillReturnResult(sqlmock.NewResult(0, 1))
	expectCount(mock, "services", 0)
	for range defaultServices {
		mock.ExpectExec("INSERT INTO services").WillReturnResult(sqlmock.NewResult(0, 1))
	}

	require.NoError(t, Seed(context.Background(), db, hasher))
	require.NoError(t, mock.ExpectationsWereMet())
}

// A populated database gets no new rows: each block is guarded by its
// table's count, so re-running Seed on every boot stays at 4 staff,
// 1 patient and 15 services.
func TestSeedSecondRunInsertsNothing(t *testing.T) {
	db, mock := seedMock(t)
	hasher := security.NewBcryptHasher(4)

	assert.Len(t, defaultStaff, 4)
	assert.Len(t, defaultServices, 15)

	expectCount(mock, "staff", len(defaultStaff))
	expectCount(mock, "patients", 1)
	expectCount(mock, "services", len(defaultServices))

	require.NoError(t, Seed(context.Background(), db, hasher))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedSkipsOnlyPopulatedTables(t *testing.T) {
	db, mock := seedMock(t)
	hasher := security.NewBcryptHasher(4)

	expectCount(mock, "staff", len(defaultStaff))
	expectCount(mock, "patients", 0)
	mock.ExpectExec("INSERT INTO patients").WillReturnResult(sqlmock.NewResult(0, 1))
	expectCount(mock, "services", len(defaultServices))

	require.NoError(t, Seed(context.Background(), db, hasher))
	require.NoError(t, mock.ExpectationsWereMet())
}
