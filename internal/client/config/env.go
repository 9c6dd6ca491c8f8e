package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv overlays cfg with PV_* variables. Values come from the dotenv
// file at path (or ./.env if it exists) and then from the process
// environment, which wins.
func parseEnv(cfg *Config, path string) error {
	vars := map[string]string{}

	file := path
	if file == "" {
		file = defaultEnvFile
	}
	fromFile, err := godotenv.Read(file)
	switch {
	case err == nil:
		vars = fromFile
	case path == "" && errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("read env file %s: %w", file, err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	var errs []error
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}

	str("PV_API_URL", &cfg.APIBaseURL)
	str("PV_STORE", &cfg.StoreBackend)
	str("PV_STORE_PATH", &cfg.StorePath)
	str("PV_REDIS_ADDR", &cfg.RedisAddr)
	str("PV_CREDENTIAL_KEY", &cfg.CredentialKey)
	dur("PV_HEARTBEAT_INTERVAL", &cfg.HeartbeatInterval)
	dur("PV_REQUEST_TIMEOUT", &cfg.RequestTimeout)
	if v, ok := lookup("PV_VERIFY_RETRIES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("PV_VERIFY_RETRIES: %w", err))
		} else {
			cfg.VerifyRetries = n
		}
	}
	boolean("PV_KEEP_ON_UNREACHABLE", &cfg.KeepCredentialOnUnreachable)
	str("PV_LOG_LEVEL", &cfg.LogLevel)
	str("PV_LOG_FORMAT", &cfg.LogFormat)
	boolean("PV_PLAIN", &cfg.Plain)
	str("PV_STYLE", &cfg.MarkdownStyle)

	return errors.Join(errs...)
}
