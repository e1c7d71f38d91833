package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/minidrive/internal/flagx"
	"github.com/dmitrijs2005/minidrive/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// accept either strings like "30s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL       string         `json:"server_url"`
	DataDir         string         `json:"data_dir"`
	RequestTimeout  timex.Duration `json:"request_timeout"`
	TransferTimeout timex.Duration `json:"transfer_timeout"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config or the CONFIG environment variable. Keys absent from the file
// leave the current values untouched. Read or decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.TransferTimeout.Duration > 0 {
		cfg.TransferTimeout = jc.TransferTimeout.Duration
	}
}
