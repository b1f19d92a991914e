package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-backend/migrations"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"002_loans.sql":        {Data: []byte("CREATE TABLE loans();")},
		"001_customers.sql":    {Data: []byte("CREATE TABLE customers();")},
		"999_reset_all.sql":    {Data: []byte("DROP TABLE loans;")},
		"README.md":            {Data: []byte("docs")},
		"archive/old.sql":      {Data: []byte("SELECT 1;")},
		"003_loan_version.sql": {Data: []byte("ALTER TABLE loans ADD COLUMN version INT;")},
	}

	files, err := pendingMigrations(fsys, map[string]bool{"001_customers.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_loans.sql", "003_loan_version.sql"}, files)
}

func TestEmbeddedMigrationsAreOrdered(t *testing.T) {
	files, err := pendingMigrations(migrations.FS, nil)
	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "001_create_customers.sql", files[0])
	assert.IsIncreasing(t, files)
}
