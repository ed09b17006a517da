package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

type Config struct {
	Port                string
	StorageDriver       string
	DataDir             string
	DatabaseURL         string
	SearchCaseSensitive bool
	Development         bool
}

// Load reads an optional config.yaml from configDir (the working directory
// when empty) and binds the environment on top of the defaults. A missing
// config file is not an error.
func Load(configDir string) (Config, error) {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("database.url", "")
	v.SetDefault("search.case_sensitive", false)
	v.SetDefault("log.development", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(".")
	}

	bindings := map[string]string{
		"port":                  "APP_PORT",
		"storage.driver":        "STORAGE_DRIVER",
		"storage.data_dir":      "DATA_DIR",
		"database.url":          "DATABASE_URL",
		"search.case_sensitive": "SEARCH_CASE_SENSITIVE",
		"log.development":       "LOG_DEVELOPMENT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:                v.GetString("port"),
		StorageDriver:       v.GetString("storage.driver"),
		DataDir:             v.GetString("storage.data_dir"),
		DatabaseURL:         v.GetString("database.url"),
		SearchCaseSensitive: v.GetBool("search.case_sensitive"),
		Development:         v.GetBool("log.development"),
	}

	switch cfg.StorageDriver {
	case DriverFile:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL required when storage driver is %q", DriverPostgres)
		}
	default:
		return Config{}, fmt.Errorf("storage driver must be one of: %s, %s", DriverFile, DriverPostgres)
	}

	return cfg, nil
}
