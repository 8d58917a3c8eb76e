// Package config has specific primitives for loading application configurations.
//
// Primitives:
//   - Application should have struct for containing configuration. E.g. refer
//     internal/config/config.go file.
//   - Application should have a directory holding default file and environment
//     specific file. E.g. refer config/* directory.
//
// Usage:
//   - E.g. NewDefaultConfig().Load("dev", &config), where config is a struct
//     where configuration gets unmarshalled into.
package config

import (
	"os"
	"path"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Default options for configuration loading.
const (
	DefaultConfigType     = "toml"
	DefaultConfigDir      = "./config"
	DefaultConfigFileName = "default"
	DefaultEnvPrefix      = "kafkabench"
	WorkDirEnv            = "WORKDIR"
)

// Options is config options.
type Options struct {
	configType            string
	configPath            string
	defaultConfigFileName string
	envPrefix             string
}

// Config is a wrapper over a underlying config loader implementation.
type Config struct {
	opts  Options
	viper *viper.Viper
}

// NewDefaultOptions returns default options.
// It reads configs from $WORKDIR/config when $WORKDIR is set, otherwise from
// ../../config relative to this file at build time.
func NewDefaultOptions() Options {
	var configPath string
	workDir := os.Getenv(WorkDirEnv)
	if workDir != "" {
		configPath = path.Join(workDir, DefaultConfigDir)
	} else {
		_, thisFile, _, _ := runtime.Caller(1)
		configPath = path.Join(path.Dir(thisFile), "../../"+DefaultConfigDir)
	}
	return NewOptions(DefaultConfigType, configPath, DefaultConfigFileName)
}

// NewOptions returns new Options struct.
func NewOptions(configType string, configPath string, defaultConfigFileName string) Options {
	return Options{configType, configPath, defaultConfigFileName, DefaultEnvPrefix}
}

// WithEnvPrefix returns a copy of the options reading overrides from <PREFIX>_* variables
func (o Options) WithEnvPrefix(prefix string) Options {
	o.envPrefix = prefix
	return o
}

// WithConfigPath returns a copy of the options reading files from dir
func (o Options) WithConfigPath(dir string) Options {
	o.configPath = dir
	return o
}

// NewDefaultConfig returns new config struct with default options.
func NewDefaultConfig() *Config {
	return NewConfig(NewDefaultOptions())
}

// NewConfig returns new config struct.
func NewConfig(opts Options) *Config {
	return &Config{opts, viper.New()}
}

// Load reads environment specific configurations and along with the defaults
// unmarshalls into config.
func (c *Config) Load(env string, config interface{}) error {
	if err := c.loadByConfigName(c.opts.defaultConfigFileName, config); err != nil {
		return err
	}
	return c.loadByConfigName(env, config)
}

// loadByConfigName reads configuration from file and unmarshalls into config.
func (c *Config) loadByConfigName(configName string, config interface{}) error {
	c.viper.SetEnvPrefix(strings.ToUpper(c.opts.envPrefix))
	c.viper.SetConfigName(configName)
	c.viper.SetConfigType(c.opts.configType)
	c.viper.AddConfigPath(c.opts.configPath)
	c.viper.AutomaticEnv()
	c.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := c.viper.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read %s config", configName)
	}
	return errors.Wrapf(c.viper.Unmarshal(config), "failed to unmarshal %s config", configName)
}
