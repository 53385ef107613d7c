// Package config provides runtime configuration for docker-tags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	// DefaultRegistry is the registry host assumed when an image reference
	// carries no registry of its own.
	DefaultRegistry string `mapstructure:"default_registry"`

	// DefaultNamespace is prefixed to single-segment repositories on the
	// default registry ("alpine" becomes "library/alpine").
	DefaultNamespace string `mapstructure:"default_namespace"`

	// DockerConfigPath is the credential store location.
	DockerConfigPath string `mapstructure:"docker_config_path"`

	// PageSize is the number of tags requested per tag-listing page.
	PageSize int `mapstructure:"page_size"`

	// HTTPTimeout bounds every registry request.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// Debug enables debug-level logging.
	Debug bool `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables.
// When configPath is empty, a .docker-tags.yaml file is searched for in the
// home directory and the current directory; a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("default_registry", "docker.io")
	v.SetDefault("default_namespace", "library")
	v.SetDefault("docker_config_path", filepath.Join(homeDir(), ".docker", "config.json"))
	v.SetDefault("page_size", 100)
	v.SetDefault("http_timeout", 30*time.Second)
	v.SetDefault("debug", false)

	v.SetEnvPrefix("DOCKER_TAGS")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".docker-tags")
		v.SetConfigType("yaml")
		v.AddConfigPath(homeDir())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.PageSize <= 0 {
		return nil, fmt.Errorf("page_size must be positive, got %d", config.PageSize)
	}

	return &config, nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
