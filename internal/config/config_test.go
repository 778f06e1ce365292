package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORE_BACKEND", "SQLITE_PATH", "STORE_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "tasks.db", cfg.SQLitePath)
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "rest")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/rest/v1")
	t.Setenv("SUPABASE_KEY", "anon")
	t.Setenv("STORE_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendREST, cfg.Backend)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"STORE_BACKEND": "mongo"}},
		{name: "rest without key", env: map[string]string{"STORE_BACKEND": "rest", "SUPABASE_URL": "http://x", "SUPABASE_KEY": ""}},
		{name: "bad timeout", env: map[string]string{"STORE_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
