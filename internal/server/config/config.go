// Package config handles configuration for the game server and the operator
// CLI: defaults, then an optional JSON file, then environment variables, then
// command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds runtime settings for the Umbra server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP endpoint.
//   - DatabaseDSN: PostgreSQL or SQLite DSN. Empty selects the JSON file stores.
//   - SecretKey: HMAC secret for session tokens (HS256). Empty means a random
//     per-process key, so sessions do not survive a restart.
//   - SessionValidityDuration: session cookie and token lifetime.
//   - DataDir: directory of users.json / progress.json for the file stores.
//   - LevelsFile: level catalog (JSON, or YAML by extension). Empty means
//     DataDir/levels.json.
//   - WebDir: local root of pages/ and core/ when no S3 bucket is set.
//   - LogLevel: debug, info, warn or error.
//   - S3*: S3-compatible bucket serving the web assets instead of WebDir.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	EndpointAddrHTTP        string
	DatabaseDSN             string
	SecretKey               string
	SessionValidityDuration time.Duration
	DataDir                 string
	LevelsFile              string
	WebDir                  string
	LogLevel                string
	S3RootUser              string
	S3RootPassword          string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
	S3Prefix                string
	ShutdownTimeout         time.Duration
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5000"
	c.DatabaseDSN = ""
	c.SecretKey = ""
	c.SessionValidityDuration = 7 * 24 * time.Hour
	c.DataDir = "data"
	c.LevelsFile = ""
	c.WebDir = "web"
	c.LogLevel = "info"
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3Prefix = ""
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Args[1:])
}

// LoadConfigFrom is LoadConfig over explicit arguments. Invalid input panics,
// like a bad flag would.
func LoadConfigFrom(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	if err := parseEnv(cfg); err != nil {
		panic(err)
	}
	parseFlags(cfg, args)
	return cfg
}

// LevelsPath resolves the level catalog location.
func (c *Config) LevelsPath() string {
	if c.LevelsFile != "" {
		return c.LevelsFile
	}
	return filepath.Join(c.DataDir, "levels.json")
}

// UseS3 reports whether web assets come from a bucket.
func (c *Config) UseS3() bool {
	return c.S3Bucket != ""
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

// String renders the config for logs with secrets masked.
func (c Config) String() string {
	return fmt.Sprintf(
		"addr=%s dsn=%s secret=%s session=%s data=%s levels=%s web=%s log=%s s3_user=%s s3_password=%s s3_bucket=%s s3_region=%s s3_endpoint=%s s3_prefix=%s shutdown=%s",
		c.EndpointAddrHTTP, maskDSN(c.DatabaseDSN), mask(c.SecretKey), c.SessionValidityDuration,
		c.DataDir, c.LevelsPath(), c.WebDir, c.LogLevel,
		c.S3RootUser, mask(c.S3RootPassword), c.S3Bucket, c.S3Region, c.S3BaseEndpoint, c.S3Prefix,
		c.ShutdownTimeout,
	)
}

// maskDSN hides the password of a URL-style DSN.
func maskDSN(dsn string) string {
	scheme := strings.Index(dsn, "://")
	at := strings.LastIndex(dsn, "@")
	if scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	colon := strings.Index(creds, ":")
	if colon < 0 {
		return dsn
	}
	return dsn[:scheme+3] + creds[:colon] + ":****" + dsn[at:]
}
