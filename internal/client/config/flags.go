package config

import "flag"

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the remote API")
	fs.StringVar(&cfg.StoreBackend, "s", cfg.StoreBackend, "credential store: sqlite, memory or redis")
	fs.StringVar(&cfg.StorePath, "f", cfg.StorePath, "sqlite database file")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address")
	fs.StringVar(&cfg.CredentialKey, "k", cfg.CredentialKey, "credential slot name")
	fs.DurationVar(&cfg.HeartbeatInterval, "i", cfg.HeartbeatInterval, "heartbeat interval")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.IntVar(&cfg.VerifyRetries, "n", cfg.VerifyRetries, "extra verify attempts while the API is unreachable")
	fs.BoolVar(&cfg.KeepCredentialOnUnreachable, "keep", cfg.KeepCredentialOnUnreachable, "keep the credential when the API stays unreachable")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")
	fs.BoolVar(&cfg.Plain, "plain", cfg.Plain, "print raw markdown")
	fs.StringVar(&cfg.MarkdownStyle, "style", cfg.MarkdownStyle, "markdown style")

	// read before parsing; registered so the flag set accepts them
	fs.String("c", "", "JSON config file")
	fs.String("config", "", "JSON config file")
	fs.String("env", "", "dotenv file")
}
