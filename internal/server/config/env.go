package config

import "os"

// parseEnv overlays Config fields from environment variables. Only
// variables that are set and non-empty override the current value, so
// the environment can be applied on top of defaults and a JSON file
// without clobbering them.
//
// Recognized variables:
//
//	ADDRESS          HTTP bind address
//	DATABASE_DSN     PostgreSQL DSN
//	SECRET_KEY       session signing secret
//	ADMIN_PASSWORD   admin password
//	S3_ACCESS_KEY    object storage access key
//	S3_SECRET_KEY    object storage secret key
//	S3_BUCKET        bucket name
//	S3_REGION        region
//	S3_BASE_ENDPOINT base endpoint URL
func parseEnv(config *Config) {
	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	overlay(&config.EndpointAddr, "ADDRESS")
	overlay(&config.DatabaseDSN, "DATABASE_DSN")
	overlay(&config.SecretKey, "SECRET_KEY")
	overlay(&config.AdminPassword, "ADMIN_PASSWORD")
	overlay(&config.S3AccessKey, "S3_ACCESS_KEY")
	overlay(&config.S3SecretKey, "S3_SECRET_KEY")
	overlay(&config.S3Bucket, "S3_BUCKET")
	overlay(&config.S3Region, "S3_REGION")
	overlay(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
}
