package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"time"

	"github.com/dmitrijs2005/pvisualizer/internal/client/credentials"
	"github.com/dmitrijs2005/pvisualizer/internal/flagx"
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds runtime settings for the CLI.
type Config struct {
	APIBaseURL string

	StoreBackend  string
	StorePath     string
	RedisAddr     string
	CredentialKey string

	HeartbeatInterval time.Duration
	RequestTimeout    time.Duration

	VerifyRetries               int
	KeepCredentialOnUnreachable bool

	LogLevel  string
	LogFormat string

	Plain         bool
	MarkdownStyle string
}

func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.StoreBackend = StoreSQLite
	c.StorePath = "pvisualizer.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.CredentialKey = credentials.DefaultKey
	c.HeartbeatInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.VerifyRetries = 2
	c.KeepCredentialOnUnreachable = false
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.Plain = false
	c.MarkdownStyle = "dark"
}

// Bind applies defaults, environment and the JSON file named in args, then
// registers every flag on fs with the current values as defaults. The load
// is complete once the caller has parsed fs; call Validate afterwards.
func Bind(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, flagx.EnvFileFlag(args)); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, flagx.ConfigFileFlag(args)); err != nil {
		return nil, err
	}
	bindFlags(fs, cfg)
	return cfg, nil
}

// LoadConfig builds a Config from defaults, environment, JSON and the flags
// in args. args must hold only the flags listed in the package docs.
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	cfg, err := Bind(fs, args)
	if err != nil {
		return nil, err
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid api url %q", c.APIBaseURL))
	}
	switch c.StoreBackend {
	case StoreSQLite:
		if c.StorePath == "" {
			errs = append(errs, errors.New("sqlite store needs a file path"))
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis store needs an address"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.StoreBackend))
	}
	if c.CredentialKey == "" {
		errs = append(errs, errors.New("credential key is empty"))
	}
	if c.HeartbeatInterval <= 0 {
		errs = append(errs, errors.New("heartbeat interval must be positive"))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request timeout must not be negative"))
	}
	if c.VerifyRetries < 0 {
		errs = append(errs, errors.New("verify retries must not be negative"))
	}
	return errors.Join(errs...)
}
