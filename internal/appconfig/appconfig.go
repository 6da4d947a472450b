// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/tokeneval.yaml"
	// envPrefix namespaces environment overrides, e.g. TOKENEVAL_AGENT_API_KEY.
	envPrefix = "TOKENEVAL"

	defaultQueriesPath    = "data/queries.yaml"
	defaultOutputPath     = "results.json"
	defaultAgentEndpoint  = "https://api.perplexity.ai/chat/completions"
	defaultAgentModel     = "sonar-reasoning"
	defaultJudgeModel     = "gemini-2.5-flash"
	defaultRequestTimeout = 60 * time.Second
	defaultDelay          = 1 * time.Second
	defaultConcurrency    = 1
)

// Config represents the top-level application configuration.
type Config struct {
	QueriesPath string   `mapstructure:"queries_path"`
	OutputPath  string   `mapstructure:"output_path"`
	Tokens      []string `mapstructure:"tokens"`

	Agent AgentConfig `mapstructure:"agent"`
	Judge JudgeConfig `mapstructure:"judge"`

	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
	DelaySeconds   int  `mapstructure:"delay_seconds"`
	Concurrency    int  `mapstructure:"concurrency"`
	Debug          bool `mapstructure:"debug"`
}

// AgentConfig identifies the system under test.
type AgentConfig struct {
	Name     string `mapstructure:"name"`
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
}

// JudgeConfig configures the optional model-based judge.
type JudgeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
	Project string `mapstructure:"project"`
	Region  string `mapstructure:"region"`
}

// Load reads the configuration file at path, or the default locations when
// path is empty. Environment variables prefixed TOKENEVAL_ override file
// values; a missing file is not an error, missing required fields are
// caught at use sites.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("queries_path", defaultQueriesPath)
	v.SetDefault("output_path", defaultOutputPath)
	v.SetDefault("agent.endpoint", defaultAgentEndpoint)
	v.SetDefault("agent.model", defaultAgentModel)
	v.SetDefault("judge.model", defaultJudgeModel)
	v.SetDefault("timeout_seconds", int(defaultRequestTimeout.Seconds()))
	v.SetDefault("delay_seconds", int(defaultDelay.Seconds()))
	v.SetDefault("concurrency", defaultConcurrency)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("tokeneval")
		v.AddConfigPath("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// RequestTimeout returns the per-request timeout, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Delay returns the spacing between agent calls. The loader defaults
// delay_seconds to 1; an explicit zero disables pacing entirely.
func (c Config) Delay() time.Duration {
	if c.DelaySeconds <= 0 {
		return 0
	}
	return time.Duration(c.DelaySeconds) * time.Second
}

// CollectConcurrency returns the bound on in-flight agent calls.
func (c Config) CollectConcurrency() int {
	if c.Concurrency <= 0 {
		return defaultConcurrency
	}
	return c.Concurrency
}

// AgentName returns the display name for the agent under test.
func (c Config) AgentName() string {
	if name := strings.TrimSpace(c.Agent.Name); name != "" {
		return name
	}
	return c.Agent.Model
}
