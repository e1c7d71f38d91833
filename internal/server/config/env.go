package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays values from environment variables. Variable names follow
// the deployment conventions of the service (BUCKET_NAME, REGION, JWT_SECRET,
// BASE_URL, PORT, ...). Unparsable numeric values are ignored.
func parseEnv(c *Config) {
	if port := os.Getenv("PORT"); port != "" {
		c.HTTPAddr = ":" + port
	}
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.GRPCHealthAddr = getEnv("GRPC_HEALTH_ADDR", c.GRPCHealthAddr)
	c.BaseURL = getEnv("BASE_URL", c.BaseURL)
	c.DatabaseDSN = getEnv("DATABASE_DSN", c.DatabaseDSN)
	c.SecretKey = getEnv("JWT_SECRET", c.SecretKey)
	c.AccessTokenValidityDuration = getEnvDuration("TOKEN_TTL", c.AccessTokenValidityDuration)
	c.ShareLinkTTL = getEnvDuration("SHARE_TTL", c.ShareLinkTTL)
	c.ShareLinkMaxTTL = getEnvDuration("SHARE_MAX_TTL", c.ShareLinkMaxTTL)
	c.OperationTimeout = getEnvDuration("OPERATION_TIMEOUT", c.OperationTimeout)
	c.UploadTimeout = getEnvDuration("UPLOAD_TIMEOUT", c.UploadTimeout)
	c.MaxUploadSize = getEnvInt64("MAX_UPLOAD_SIZE", c.MaxUploadSize)
	c.S3RootUser = getEnv("S3_ACCESS_KEY", c.S3RootUser)
	c.S3RootPassword = getEnv("S3_SECRET_KEY", c.S3RootPassword)
	c.S3Bucket = getEnv("BUCKET_NAME", c.S3Bucket)
	c.S3Region = getEnv("REGION", c.S3Region)
	c.S3BaseEndpoint = getEnv("S3_ENDPOINT", c.S3BaseEndpoint)
	c.S3UsePathStyle = getEnvBool("S3_PATH_STYLE", c.S3UsePathStyle)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration syntax ("90m", "12h").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
