package config

import (
	"reflect"
	"strings"

	"load-manager/core/database"
	"load-manager/core/listing"
	"load-manager/core/logger"
	"load-manager/core/server"
	"load-manager/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the status API server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the tracker database.
	Database database.Config `mapstructure:"database"`
	// Collector holds configuration for the listing collectors.
	Collector listing.Config `mapstructure:"collector"`
	// Staging holds configuration for the local staging tree.
	Staging StagingConfig `mapstructure:"staging"`
	// Policy holds the explicit lifecycle policy switches.
	Policy PolicyConfig `mapstructure:"policy"`
}

// StagingConfig describes where the local delivery tree lives.
type StagingConfig struct {
	// Root is the local staging directory holding the delivery files.
	Root string `mapstructure:"root" default:""`
}

// PolicyConfig makes the lifecycle policy decisions explicit configuration
// instead of hidden behavior.
type PolicyConfig struct {
	// ManifestOverwrite allows re-creating a manifest for an existing
	// load_id, replacing the previous one. Default is to reject.
	ManifestOverwrite bool `mapstructure:"manifest_overwrite" default:"false"`
	// JobRetry allows creating a fresh job for a load whose previous job
	// reached a terminal state. Default is to reject.
	JobRetry bool `mapstructure:"job_retry" default:"false"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. STORAGE_BUCKET -> storage.bucket)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
