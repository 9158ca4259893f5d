package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/newsroom/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names read by parseEnv.
const (
	EnvHTTPAddr       = "HTTP_ADDR"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvJWTSecret      = "JWT_SECRET"
	EnvTokenTTL       = "TOKEN_TTL"
	EnvAdminUsername  = "ADMIN_USERNAME"
	EnvAdminPassword  = "ADMIN_PASSWORD"
	EnvLogBackend     = "LOG_BACKEND"
	EnvDebug          = "DEBUG"
	EnvS3RootUser     = "S3_ROOT_USER"
	EnvS3RootPassword = "S3_ROOT_PASSWORD"
	EnvS3Bucket       = "S3_BUCKET"
	EnvS3Region       = "S3_REGION"
	EnvS3BaseEndpoint = "S3_BASE_ENDPOINT"
)

// loadDotenv is a seam over godotenv.Load.
var loadDotenv = godotenv.Load

// parseEnv loads a dotenv file (the -env flag, or ./.env when present) into
// the process environment and copies every set variable into config.
// Variables already present in the environment win over the file.
//
// A missing default .env is ignored; a missing explicit -env file or a
// malformed value panics, like the JSON and flag layers do.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := loadDotenv(path); err != nil {
			panic(err)
		}
	} else if err := loadDotenv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, EnvHTTPAddr)
	setString(&config.DatabaseDSN, EnvDatabaseURL)
	setString(&config.SecretKey, EnvJWTSecret)
	setString(&config.AdminUsername, EnvAdminUsername)
	setString(&config.AdminPassword, EnvAdminPassword)
	setString(&config.LogBackend, EnvLogBackend)
	setString(&config.S3RootUser, EnvS3RootUser)
	setString(&config.S3RootPassword, EnvS3RootPassword)
	setString(&config.S3Bucket, EnvS3Bucket)
	setString(&config.S3Region, EnvS3Region)
	setString(&config.S3BaseEndpoint, EnvS3BaseEndpoint)

	if v, ok := os.LookupEnv(EnvTokenTTL); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = d
	}

	if v, ok := os.LookupEnv(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.Debug = b
	}
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
