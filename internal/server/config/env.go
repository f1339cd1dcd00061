package config

import "github.com/dmitrijs2005/umbra/internal/flagx"

// Environment variables read by parseEnv.
const (
	EnvDatabaseURL     = "DATABASE_URL"
	EnvAddr            = "UMBRA_ADDR"
	EnvSecretKey       = "UMBRA_SECRET_KEY"
	EnvSessionValidity = "UMBRA_SESSION_VALIDITY"
	EnvDataDir         = "UMBRA_DATA_DIR"
	EnvLevelsFile      = "UMBRA_LEVELS_FILE"
	EnvWebDir          = "UMBRA_WEB_DIR"
	EnvLogLevel        = "UMBRA_LOG_LEVEL"
	EnvS3RootUser      = "UMBRA_S3_ROOT_USER"
	EnvS3RootPassword  = "UMBRA_S3_ROOT_PASSWORD"
	EnvS3Bucket        = "UMBRA_S3_BUCKET"
	EnvS3Region        = "UMBRA_S3_REGION"
	EnvS3BaseEndpoint  = "UMBRA_S3_BASE_ENDPOINT"
	EnvS3Prefix        = "UMBRA_S3_PREFIX"
	EnvShutdownTimeout = "UMBRA_SHUTDOWN_TIMEOUT"
)

// parseEnv overlays set environment variables onto config.
func parseEnv(config *Config) error {
	flagx.EnvString(&config.DatabaseDSN, EnvDatabaseURL)
	flagx.EnvString(&config.EndpointAddrHTTP, EnvAddr)
	flagx.EnvString(&config.SecretKey, EnvSecretKey)
	flagx.EnvString(&config.DataDir, EnvDataDir)
	flagx.EnvString(&config.LevelsFile, EnvLevelsFile)
	flagx.EnvString(&config.WebDir, EnvWebDir)
	flagx.EnvString(&config.LogLevel, EnvLogLevel)
	flagx.EnvString(&config.S3RootUser, EnvS3RootUser)
	flagx.EnvString(&config.S3RootPassword, EnvS3RootPassword)
	flagx.EnvString(&config.S3Bucket, EnvS3Bucket)
	flagx.EnvString(&config.S3Region, EnvS3Region)
	flagx.EnvString(&config.S3BaseEndpoint, EnvS3BaseEndpoint)
	flagx.EnvString(&config.S3Prefix, EnvS3Prefix)

	if err := flagx.EnvDuration(&config.SessionValidityDuration, EnvSessionValidity); err != nil {
		return err
	}
	return flagx.EnvDuration(&config.ShutdownTimeout, EnvShutdownTimeout)
}
