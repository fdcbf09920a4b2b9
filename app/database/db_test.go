package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joefazee/settle/models"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		err  error
	}{
		{"Postgres", Config{Driver: DriverPostgres, Host: "db", User: "u", Password: "p", Database: "settle"}, nil},
		{"PostgresMissingPassword", Config{Driver: DriverPostgres, Host: "db", User: "u", Database: "settle"}, models.ErrDatabaseCredentialNotConfigured},
		{"SQLite", Config{Driver: DriverSQLite, Path: ":memory:"}, nil},
		{"SQLiteMissingPath", Config{Driver: DriverSQLite}, models.ErrDatabaseCredentialNotConfigured},
		{"UnknownDriver", Config{Driver: "mysql"}, models.ErrInvalidDatabaseDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), tt.err)
		})
	}
}

func TestNew_SQLite(t *testing.T) {
	db, err := New(&Config{Driver: DriverSQLite, Path: ":memory:", AutoMigrate: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	for _, m := range models.AllModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}
