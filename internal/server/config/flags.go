package config

import (
	"flag"

	"github.com/dmitrijs2005/umbra/internal/flagx"
)

var serverFlags = []string{
	"-a", "-d", "-s", "-t", "-data", "-levels", "-web", "-log-level",
	"-u", "-p", "-b", "-g", "-e", "-prefix",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g. ":5000")
//	-d string          database DSN (postgres://..., sqlite://...)
//	-s string          session token secret
//	-t duration        session validity (e.g. "168h")
//	-data string       data directory for the file stores
//	-levels string     level catalog file
//	-web string        local web root
//	-log-level string  debug, info, warn or error
//	-u, -p string      S3 access key / secret key
//	-b, -g string      S3 bucket / region
//	-e string          S3 base endpoint (e.g. "http://127.0.0.1:9000")
//	-prefix string     key prefix inside the bucket
//
// Only the flags above are taken from args (flagx.FilterArgs), so the same
// argument list can carry flags meant for other components.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionValidityDuration, "t", config.SessionValidityDuration, "session validity duration")
	fs.StringVar(&config.DataDir, "data", config.DataDir, "data directory")
	fs.StringVar(&config.LevelsFile, "levels", config.LevelsFile, "level catalog file")
	fs.StringVar(&config.WebDir, "web", config.WebDir, "web root directory")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3Prefix, "prefix", config.S3Prefix, "S3 key prefix")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
