// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/tindevelopers/tinadmin-saas-base/internal/permission"
)

const (
	// EnvPrefix prefixes every environment override, e.g. TINADMIN_WEBSERVER_PORT.
	EnvPrefix = "TINADMIN"

	// JSONEnv holds a JSON document merged over the file configuration.
	JSONEnv = EnvPrefix + "_CONFIG_JSON"

	fileName = "main.toml"
)

// ReadConfig reads <path>/main.toml, applies environment overrides and validates the result.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = "./etc/"
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(filepath.Join(path, fileName))
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode main config file")
	}

	if raw := os.Getenv(JSONEnv); raw != "" {
		var err error

		c, err = decodeAndMergeConfig(c, raw)
		if err != nil {
			return c, err
		}
	}

	return c, validate(c)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db.engine", "sqlite")
	v.SetDefault("db.path", "tinadmin.db")
	v.SetDefault("db.port", 0)
	v.SetDefault("db.maxopenconns", 10) //nolint:mnd
	v.SetDefault("db.maxidleconns", 5)  //nolint:mnd
	v.SetDefault("db.slowquerythreshold", 200*time.Millisecond)
	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "tinadmin")
	v.SetDefault("log.servicename", "permissions")
	v.SetDefault("webserver.port", 8080) //nolint:mnd
	v.SetDefault("webserver.shutdowntime", 5)
	v.SetDefault("webserver.checkaliveuri", "/checkalive")
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.backend", "lru")
	v.SetDefault("cache.ttl", 30*time.Second) //nolint:mnd
	v.SetDefault("cache.size", 4096)          //nolint:mnd
	v.SetDefault("cache.redis.prefix", "tinadmin:perm:")
	v.SetDefault("audit.async", true)
	v.SetDefault("audit.buffersize", 1024) //nolint:mnd
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	if err := json.Unmarshal([]byte(configAsJSON), &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+JSONEnv)
	}

	return c, nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// Catalogue returns the built-in permission catalogue extended by permissions.extra.
func (c Config) Catalogue() (*permission.Catalogue, error) {
	catalogue, err := permission.DefaultCatalogue().Extend(c.Permissions.Extra...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPermission, err)
	}

	return catalogue, nil
}

// validate checks the struct tags and the permission catalogue.
func validate(c Config) error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(fmt.Errorf("%w: %w", ErrInvalidConfig, err), "validate")
	}

	if c.Cache.Enabled && c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return errors.Wrap(fmt.Errorf("%w: %w", ErrInvalidConfig, ErrRedisAddrEmpty), "validate")
	}

	if _, err := c.Catalogue(); err != nil {
		return errors.Wrap(fmt.Errorf("%w: %w", ErrInvalidConfig, err), "validate")
	}

	return nil
}
