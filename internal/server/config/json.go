package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/newsroom/internal/flagx"
	"github.com/dmitrijs2005/newsroom/internal/timex"
)

// JsonConfig is the on-disk shape of a JSON config file. Durations use
// timex.Duration, so both "5m" and integer nanoseconds are accepted.
// Pointer fields distinguish "absent" from "false".
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	AdminUsername         string         `json:"admin_username"`
	AdminPassword         string         `json:"admin_password"`
	LogBackend            string         `json:"log_backend"`
	Debug                 *bool          `json:"debug"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c / -config.
// Only keys present (non-zero) in the file override config. Unreadable
// or invalid files panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.AdminUsername, c.AdminUsername)
	overlay(&config.AdminPassword, c.AdminPassword)
	overlay(&config.LogBackend, c.LogBackend)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.Debug != nil {
		config.Debug = *c.Debug
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
