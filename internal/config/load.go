package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/persona/internal/domain"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override file values.
const EnvPrefix = "PERSONA"

// requiredKeys must be present in at least one source. Empty values are
// allowed for credentials so that embedded databases can leave them blank.
var requiredKeys = []string{"db.url", "db.user", "db.password"}

// Load reads configuration from persona.properties in the working directory
// or ./config, then from environment variables. Environment variables take
// precedence over values from the file.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit properties file. An empty path searches
// the default locations and tolerates a missing file.
//
// A missing explicit file, a missing required key, or a value that fails
// validation is reported as domain.ErrConfigMissing.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("db.max_open_conns", 1)
	v.SetDefault("db.connect_timeout", "5s")
	v.SetDefault("executor.workers", 4)
	v.SetDefault("executor.drain_on_close", true)
	v.SetDefault("log.level", "info")

	v.SetConfigType("properties")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: failed to read config file %s: %v", domain.ErrConfigMissing, path, err)
		}
	} else {
		v.SetConfigName("persona")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("%w: failed to read config file: %v", domain.ErrConfigMissing, err)
			}
		}
	}

	// Configure environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var missing []string
	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: required keys not set: %s", domain.ErrConfigMissing, strings.Join(missing, ", "))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal configuration: %v", domain.ErrConfigMissing, err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("%w: configuration validation failed: %v", domain.ErrConfigMissing, err)
	}

	return &cfg, nil
}
