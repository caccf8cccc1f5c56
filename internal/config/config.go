// Package config loads settings from an optional codetrainer.yaml and
// CODETRAINER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/codetrainer/internal/acquire"
	"github.com/abhisek/codetrainer/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. CODETRAINER_LOG_LEVEL.
const EnvPrefix = "CODETRAINER"

type Config struct {
	// DB is the SQLite path. Empty means the default data directory.
	DB      string
	Log     LogConfig
	LLM     llm.Config
	Acquire acquire.Config
	Server  ServerConfig
	Backend BackendConfig

	// File is the config file that was read, if any.
	File string
}

type LogConfig struct {
	Level string // debug, info, warn, error
	Env   string // "production" selects JSON output
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// BackendConfig points play at a running backend function instead of
// calling the LLM directly.
type BackendConfig struct {
	URL string
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	acqDefaults := acquire.DefaultConfig()

	v.SetDefault("db", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.env", "development")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	for _, vendor := range []struct {
		name  string
		model string
	}{
		{llm.ProviderOpenAI, llmDefaults.OpenAI.Model},
		{llm.ProviderAnthropic, llmDefaults.Anthropic.Model},
		{llm.ProviderGemini, llmDefaults.Gemini.Model},
		{llm.ProviderOpenRouter, llmDefaults.OpenRouter.Model},
	} {
		v.SetDefault("llm."+vendor.name+".api_key", "")
		v.SetDefault("llm."+vendor.name+".model", vendor.model)
		v.SetDefault("llm."+vendor.name+".base_url", "")
	}

	v.SetDefault("acquire.request_timeout", acqDefaults.RequestTimeout)
	v.SetDefault("acquire.start_grace", acqDefaults.StartGrace)
	v.SetDefault("acquire.auto_start_delay", acqDefaults.AutoStartDelay)

	v.SetDefault("server.addr", ":8888")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)

	v.SetDefault("backend.url", "")
}

// Load reads configuration. path names an explicit file, which must exist;
// otherwise codetrainer.yaml is looked for in the working directory and the
// user config directory, and is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("codetrainer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "codetrainer"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DB: v.GetString("db"),
		Log: LogConfig{
			Level: v.GetString("log.level"),
			Env:   v.GetString("log.env"),
		},
		LLM: llmConfig(v),
		Acquire: acquire.Config{
			RequestTimeout: v.GetDuration("acquire.request_timeout"),
			StartGrace:     v.GetDuration("acquire.start_grace"),
			AutoStartDelay: v.GetDuration("acquire.auto_start_delay"),
		},
		Server: ServerConfig{
			Addr:         v.GetString("server.addr"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Backend: BackendConfig{URL: v.GetString("backend.url")},
		File:    v.ConfigFileUsed(),
	}
	return cfg, nil
}

// llmConfig builds the LLM settings. With no provider configured, the
// vendors' own API key variables are tried.
func llmConfig(v *viper.Viper) llm.Config {
	cfg := llm.DefaultConfig()
	provider := v.GetString("llm.provider")
	if provider == "" {
		if found, ok := llm.DiscoverConfig(); ok {
			cfg = found
		} else {
			cfg.Provider = ""
		}
	} else {
		cfg.Provider = provider
	}

	cfg.Timeout = v.GetDuration("llm.timeout")
	cfg.OpenAI = llm.OpenAIConfig(vendorConfig(v, llm.ProviderOpenAI, llm.VendorConfig(cfg.OpenAI)))
	cfg.Anthropic = llm.AnthropicConfig(vendorConfig(v, llm.ProviderAnthropic, llm.VendorConfig(cfg.Anthropic)))
	cfg.Gemini = llm.GeminiConfig(vendorConfig(v, llm.ProviderGemini, llm.VendorConfig(cfg.Gemini)))
	cfg.OpenRouter = llm.OpenRouterConfig(vendorConfig(v, llm.ProviderOpenRouter, llm.VendorConfig(cfg.OpenRouter)))
	return cfg
}

// vendorConfig overlays configured values on base. A discovered API key
// survives when the config leaves the key empty.
func vendorConfig(v *viper.Viper, name string, base llm.VendorConfig) llm.VendorConfig {
	prefix := "llm." + name + "."
	if key := v.GetString(prefix + "api_key"); key != "" {
		base.APIKey = key
	}
	if model := v.GetString(prefix + "model"); model != "" {
		base.Model = model
	}
	if url := v.GetString(prefix + "base_url"); url != "" {
		base.BaseURL = url
	}
	return base
}
