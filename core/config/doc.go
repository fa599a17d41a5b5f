// Package config provides configuration management for the Load Manager.
//
// It utilizes Viper for loading configuration from environment variables
// and a .env file (via godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings,
// divided into subsections:
//   - Server: status API settings (port, API key)
//   - Database: tracker database (sqlite path or MySQL connection)
//   - Storage: S3/MinIO endpoint, bucket and key prefix
//   - Collector: listing collector behavior (symlink policy)
//   - Staging: local staging tree root
//   - Policy: explicit manifest-overwrite and job-retry switches
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Storage.Bucket)
package config
