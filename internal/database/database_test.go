package database_test

import (
	"context"
	"testing"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/logging"
	"catalog/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		uri     string
		name    string
		wantErr bool
	}{
		{uri: config.DefaultDatabaseURI, name: "postgres"},
		{uri: "postgres://u:p@db:5432/catalog", name: "postgres"},
		{uri: "sqlite://catalog.db", name: "sqlite"},
		{uri: "file::memory:?cache=shared", name: "sqlite"},
		{uri: "sqlite://", wantErr: true},
		{uri: "mysql://root:secret@db/catalog", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			d, err := database.Dialector(tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.NotContains(t, err.Error(), "secret")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, d.Name())
		})
	}
}

func TestInitPingClose(t *testing.T) {
	cfg := config.DBConfig{
		URI:          "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		MaxOpenConns: 4,
	}

	db, err := database.Init(cfg, logging.Discard())
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.NoError(t, database.Ping(context.Background(), db))

	require.NoError(t, database.Close(db))
	assert.Error(t, database.Ping(context.Background(), db))
}
