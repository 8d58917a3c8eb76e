//go:build unit
// +build unit

package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type TestConfig struct {
	Title    string
	Producer TestProducerConfig
	Workload TestWorkloadConfig
}

type TestProducerConfig struct {
	FlushTimeout   time.Duration
	PropertiesPath string
	EnableTLS      bool
}

type TestWorkloadConfig struct {
	ThreadCount int
	RecordCount int
}

func TestLoadConfig(t *testing.T) {
	var c TestConfig

	key := strings.ToUpper(DefaultEnvPrefix) + "_PRODUCER_PROPERTIESPATH"
	os.Setenv(key, "/etc/kafka.properties")
	defer os.Unsetenv(key)

	err := NewConfig(NewOptions("toml", "./testdata", "default")).Load("test", &c)
	assert.Nil(t, err)
	// Asserts that default value exists.
	assert.Equal(t, "kafkabench", c.Title)
	assert.Equal(t, 15*time.Second, c.Producer.FlushTimeout)
	assert.Equal(t, 1000, c.Workload.RecordCount)
	// Asserts that application environment specific value got overridden.
	assert.Equal(t, 8, c.Workload.ThreadCount)
	// Asserts that environment variable was honored.
	assert.Equal(t, "/etc/kafka.properties", c.Producer.PropertiesPath)
}

func TestLoadConfig_EnvPrefix(t *testing.T) {
	var c TestConfig

	os.Setenv("BENCH_TITLE", "overridden")
	defer os.Unsetenv("BENCH_TITLE")

	opts := NewOptions("toml", "./testdata", "default").WithEnvPrefix("bench")
	err := NewConfig(opts).Load("test", &c)
	assert.Nil(t, err)
	assert.Equal(t, "overridden", c.Title)
}

func TestLoadConfig_MissingEnvFile(t *testing.T) {
	var c TestConfig
	err := NewConfig(NewOptions("toml", "./testdata", "default")).Load("prod", &c)
	assert.NotNil(t, err)
}

func Test_NewDefaultConfig(t *testing.T) {

	workDir := os.Getenv(WorkDirEnv)
	copy := workDir
	defer func() {
		os.Setenv(WorkDirEnv, copy)
	}()

	confirDir := "configdir"
	os.Setenv(WorkDirEnv, confirDir)

	configPath := confirDir + "/config"
	options := NewDefaultConfig()
	assert.NotNil(t, options)
	assert.Equal(t, options.opts.configPath, configPath)
	assert.Equal(t, options.opts.configType, "toml")
	assert.Equal(t, options.opts.defaultConfigFileName, "default")
	assert.Equal(t, options.opts.envPrefix, DefaultEnvPrefix)

	assert.Equal(t, "/tmp/x", options.opts.WithConfigPath("/tmp/x").configPath)
}
