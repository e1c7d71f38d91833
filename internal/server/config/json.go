package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/minidrive/internal/flagx"
	"github.com/dmitrijs2005/minidrive/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration so
// both "12h" and integer nanoseconds are accepted. Pointer fields distinguish
// "absent" from "false"/"0".
type JsonConfig struct {
	HTTPAddr                    string          `json:"http_addr"`
	GRPCHealthAddr              *string         `json:"grpc_health_addr"`
	BaseURL                     string          `json:"base_url"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	ShareLinkTTL                *timex.Duration `json:"share_link_ttl"`
	ShareLinkMaxTTL             *timex.Duration `json:"share_link_max_ttl"`
	DownloadURLTTL              *timex.Duration `json:"download_url_ttl"`
	PublicURLCeiling            *timex.Duration `json:"public_url_ceiling"`
	OperationTimeout            *timex.Duration `json:"operation_timeout"`
	UploadTimeout               *timex.Duration `json:"upload_timeout"`
	MaxUploadSize               *int64          `json:"max_upload_size"`
	S3RootUser                  string          `json:"s3_root_user"`
	S3RootPassword              string          `json:"s3_root_password"`
	S3Bucket                    string          `json:"s3_bucket"`
	S3Region                    string          `json:"s3_region"`
	S3BaseEndpoint              string          `json:"s3_base_endpoint"`
	S3UsePathStyle              *bool           `json:"s3_use_path_style"`
	AuthRateLimit               *float64        `json:"auth_rate_limit"`
	AuthRateBurst               *int            `json:"auth_rate_burst"`
	TrustedProxies              []string        `json:"trusted_proxies"`
	LogLevel                    string          `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config (or the
// CONFIG environment variable). Only keys present in the file are applied.
// A missing or malformed file panics: the server must not start half-configured.
func parseJson(config *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	if c.GRPCHealthAddr != nil {
		config.GRPCHealthAddr = *c.GRPCHealthAddr
	}
	setString(&config.BaseURL, c.BaseURL)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.ShareLinkTTL, c.ShareLinkTTL)
	setDuration(&config.ShareLinkMaxTTL, c.ShareLinkMaxTTL)
	setDuration(&config.DownloadURLTTL, c.DownloadURLTTL)
	setDuration(&config.PublicURLCeiling, c.PublicURLCeiling)
	setDuration(&config.OperationTimeout, c.OperationTimeout)
	setDuration(&config.UploadTimeout, c.UploadTimeout)
	if c.MaxUploadSize != nil {
		config.MaxUploadSize = *c.MaxUploadSize
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.S3UsePathStyle != nil {
		config.S3UsePathStyle = *c.S3UsePathStyle
	}
	if c.AuthRateLimit != nil {
		config.AuthRateLimit = *c.AuthRateLimit
	}
	if c.AuthRateBurst != nil {
		config.AuthRateBurst = *c.AuthRateBurst
	}
	if c.TrustedProxies != nil {
		config.TrustedProxies = c.TrustedProxies
	}
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
