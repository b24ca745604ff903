package testutil

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockDB is a gorm handle backed by sqlmock, for repository tests that
// assert the SQL a call emits without a live database.
type MockDB struct {
	DB   *gorm.DB
	Mock sqlmock.Sqlmock

	sqlDB *sql.DB
}

// NewMockDB opens a gorm connection over sqlmock. The handle is closed
// when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "sqlmock")

	// TranslateError matches the production connection so unique-index
	// violations surface as gorm.ErrDuplicatedKey here too.
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err, "gorm over sqlmock")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return &MockDB{DB: db, Mock: mock, sqlDB: sqlDB}
}

// ExpectationsWereMet fails the test when an expected statement never ran.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet())
}
