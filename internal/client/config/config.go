// Package config handles configuration for the MiniDrive CLI: defaults,
// an optional JSON file and command-line flags.
package config

import "time"

// Config holds runtime settings for the MiniDrive CLI.
//
// Fields:
//   - ServerURL: base URL of the MiniDrive HTTP API.
//   - DataDir: directory holding the local session database.
//   - RequestTimeout: bound for a single API call; transfers of file bodies
//     are bounded by TransferTimeout instead.
//   - TransferTimeout: bound for uploads and downloads.
type Config struct {
	ServerURL       string
	DataDir         string
	RequestTimeout  time.Duration
	TransferTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:5000"
	c.DataDir = ".minidrive"
	c.RequestTimeout = 10 * time.Second
	c.TransferTimeout = 10 * time.Minute
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
