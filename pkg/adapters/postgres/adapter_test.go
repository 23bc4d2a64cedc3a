package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/wildstat/pkg/adapter"
)

func TestBuildPostgresDSN(t *testing.T) {
	tests := []struct {
		name     string
		config   adapter.Config
		expected string
	}{
		{
			name: "basic connection",
			config: adapter.Config{
				Host:     "localhost",
				Port:     5432,
				Database: "wildlife",
				Username: "user",
				Password: "pass",
			},
			expected: "host=localhost port=5432 dbname=wildlife sslmode=disable user=user password=pass",
		},
		{
			name: "with custom sslmode",
			config: adapter.Config{
				Host:     "prod.example.com",
				Port:     5432,
				Database: "park",
				Username: "admin",
				Options:  map[string]string{"sslmode": "require"},
			},
			expected: "host=prod.example.com port=5432 dbname=park sslmode=require user=admin",
		},
		{
			name: "defaults",
			config: adapter.Config{
				Database: "wildlife",
			},
			expected: "host=localhost port=5432 dbname=wildlife sslmode=disable",
		},
		{
			name: "application name",
			config: adapter.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "analytics",
				Username: "analyst",
				Options:  map[string]string{"application_name": "wildstat"},
			},
			expected: "host=db.example.com port=5433 dbname=analytics sslmode=disable user=analyst application_name=wildstat",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildPostgresDSN(tt.config))
		})
	}
}

func TestNew(t *testing.T) {
	adp := New(nil)
	require.NotNil(t, adp)
	assert.NotNil(t, adp.Logger, "nil logger is replaced")
	assert.Equal(t, "postgres", adp.Dialect())
	assert.False(t, adp.IsConnected())
}

func TestAdapter_NotConnected(t *testing.T) {
	adp := New(nil)

	err := adp.Migrate(context.Background())
	assert.ErrorIs(t, err, adapter.ErrNotConnected)
	assert.Nil(t, adp.DB())
	assert.NoError(t, adp.Close())
}

func TestAdapter_Registry(t *testing.T) {
	require.True(t, adapter.IsRegistered("postgres"))

	adp, err := adapter.NewAdapter(adapter.Config{Type: "postgres"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Adapter{}, adp)
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
