package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":8000", c.EndpointAddr)
	assert.Empty(t, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "json", c.LogFormat)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{"-a", "127.0.0.1:9090", "-d", "postgres://x", "-s", "secret", "-t", "5", "-l", "debug"},
			expected: &Config{
				EndpointAddr:          "127.0.0.1:9090",
				DatabaseDSN:           "postgres://x",
				SecretKey:             "secret",
				TokenValidityDuration: 5 * time.Minute,
				LogLevel:              "debug",
				LogFormat:             "json",
			},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"-c", "cfg.json", "-x", "1"},
			expected: defaults(),
		},
		{
			name:    "bad int",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			err := parseFlags(cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseFlags_KeepsSubMinuteValidityWhenUnset(t *testing.T) {
	cfg := defaults()
	cfg.TokenValidityDuration = 90 * time.Second

	require.NoError(t, parseFlags(cfg, []string{"-a", ":1"}))
	assert.Equal(t, 90*time.Second, cfg.TokenValidityDuration)
}

func TestParseJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devapi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"endpoint_addr": ":7000",
		"database_dsn": "postgres://db",
		"token_validity_duration": "90m",
		"log_format": "text"
	}`), 0o600))

	cfg := defaults()
	require.NoError(t, parseJson(cfg, path))

	want := defaults()
	want.EndpointAddr = ":7000"
	want.DatabaseDSN = "postgres://db"
	want.TokenValidityDuration = 90 * time.Minute
	want.LogFormat = "text"
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseJson_Errors(t *testing.T) {
	require.NoError(t, parseJson(defaults(), ""))

	err := parseJson(defaults(), filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o600))
	require.Error(t, parseJson(defaults(), bad))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devapi.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"endpoint_addr": ":7000", "secret_key": "from-json"}`), 0o600))

	cfg, err := LoadConfig([]string{"-c", path, "-s", "from-flag"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.EndpointAddr)
	assert.Equal(t, "from-flag", cfg.SecretKey)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig([]string{"-s", "", "-t", "0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key is empty")
	assert.Contains(t, err.Error(), "token validity must be positive")
}
