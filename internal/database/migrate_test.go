package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigration(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestRunMigrations(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "0002_index.up.sql", "CREATE INDEX IDX_A ON A (B);\n")
	writeMigration(t, dir, "0001_table.up.sql", "CREATE TABLE A (B NUMBER)")
	writeMigration(t, dir, "0001_table.down.sql", "DROP TABLE A")
	writeMigration(t, dir, "README.md", "notes")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE A (B NUMBER)")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IDX_A ON A (B)")).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(context.Background(), db, dir))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_StopsOnError(t *testing.T) {
	dir := t.TempDir()
	writeMigration(t, dir, "0001_table.up.sql", "CREATE TABLE A (B NUMBER)")
	writeMigration(t, dir, "0002_table.up.sql", "CREATE TABLE C (D NUMBER)")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbErr := errors.New("ORA-00955: name is already used by an existing object")
	mock.ExpectExec("CREATE TABLE A").WillReturnError(dbErr)

	err = RunMigrations(context.Background(), db, dir)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "0001_table.up.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_MissingDir(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, RunMigrations(context.Background(), db, filepath.Join(t.TempDir(), "nope")))
}
