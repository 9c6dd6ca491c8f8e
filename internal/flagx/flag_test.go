package flagx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "short flag with separate value",
			args:    []string{"-c", "conf.json", "-a", "localhost"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-c", "conf.json"},
		},
		{
			name:    "equals form",
			args:    []string{"-config=alt.json", "-a", "localhost"},
			allowed: []string{"-c", "-config"},
			want:    []string{"-config=alt.json"},
		},
		{
			name:    "unknown flags and positionals ignored",
			args:    []string{"-x", "1", "-y=2", "strategies"},
			allowed: []string{"-c"},
			want:    []string{},
		},
		{
			name:    "flag without value at end",
			args:    []string{"-c"},
			allowed: []string{"-c"},
			want:    []string{"-c"},
		},
		{
			name:    "next dash token is not a value",
			args:    []string{"-c", "-api=http://x"},
			allowed: []string{"-c", "-api"},
			want:    []string{"-c", "-api=http://x"},
		},
		{
			name:    "repeated flag kept in order",
			args:    []string{"-c", "one.json", "-c", "two.json"},
			allowed: []string{"-c"},
			want:    []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:    "subcommand arguments after flags",
			args:    []string{"-api", "http://localhost:8080", "strategy", "abc"},
			allowed: []string{"-api"},
			want:    []string{"-api", "http://localhost:8080"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowed))
		})
	}
}

func TestConfigFileFlag(t *testing.T) {
	assert.Equal(t, "/p/short.json", ConfigFileFlag([]string{"-c", "/p/short.json"}))
	assert.Equal(t, "/p/long.json", ConfigFileFlag([]string{"-config", "/p/long.json"}))
	assert.Equal(t, "/p/2.json", ConfigFileFlag([]string{"-c", "/p/1.json", "-config", "/p/2.json"}))
	assert.Empty(t, ConfigFileFlag([]string{"-x", "1", "login"}))
}

func TestEnvFileFlag(t *testing.T) {
	assert.Equal(t, "dev.env", EnvFileFlag([]string{"-env", "dev.env", "status"}))
	assert.Empty(t, EnvFileFlag([]string{"status"}))
}
