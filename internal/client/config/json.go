package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/pvisualizer/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value.
type JsonConfig struct {
	APIBaseURL                  *string         `json:"api_base_url"`
	StoreBackend                *string         `json:"store_backend"`
	StorePath                   *string         `json:"store_path"`
	RedisAddr                   *string         `json:"redis_addr"`
	CredentialKey               *string         `json:"credential_key"`
	HeartbeatInterval           *timex.Duration `json:"heartbeat_interval"`
	RequestTimeout              *timex.Duration `json:"request_timeout"`
	VerifyRetries               *int            `json:"verify_retries"`
	KeepCredentialOnUnreachable *bool           `json:"keep_credential_on_unreachable"`
	LogLevel                    *string         `json:"log_level"`
	LogFormat                   *string         `json:"log_format"`
	Plain                       *bool           `json:"plain"`
	MarkdownStyle               *string         `json:"markdown_style"`
}

// parseJson overlays cfg with the fields present in the JSON file at path.
// An empty path is a no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StoreBackend, jc.StoreBackend)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.CredentialKey, jc.CredentialKey)
	if jc.HeartbeatInterval != nil {
		cfg.HeartbeatInterval = jc.HeartbeatInterval.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.VerifyRetries != nil {
		cfg.VerifyRetries = *jc.VerifyRetries
	}
	if jc.KeepCredentialOnUnreachable != nil {
		cfg.KeepCredentialOnUnreachable = *jc.KeepCredentialOnUnreachable
	}
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	if jc.Plain != nil {
		cfg.Plain = *jc.Plain
	}
	setString(&cfg.MarkdownStyle, jc.MarkdownStyle)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
