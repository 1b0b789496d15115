package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the shopping assistant
type Config struct {
	General   GeneralConfig    `mapstructure:"general"`
	Server    ServerConfig     `mapstructure:"server"`
	LLM       LLMConfig        `mapstructure:"llm"`
	Search    SearchConfig     `mapstructure:"search"`
	Scrape    ScrapeConfig     `mapstructure:"scrape"`
	Retailers []RetailerConfig `mapstructure:"retailers"`
	Session   SessionConfig    `mapstructure:"session"`
	Telemetry TelemetryConfig  `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LLMConfig configures the chat completion provider and the two model roles.
type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Rewrite  LLMModel      `mapstructure:"rewrite"`
	Answer   LLMModel      `mapstructure:"answer"`
}

// LLMModel represents a specific model configuration
type LLMModel struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

func (m LLMModel) validate(section string) error {
	if strings.TrimSpace(m.Model) == "" {
		return fmt.Errorf("llm.%s.model is required", section)
	}
	if m.Temperature < 0 || m.Temperature > 2 {
		return fmt.Errorf("llm.%s.temperature must be within [0, 2]", section)
	}
	if m.MaxTokens <= 0 {
		return fmt.Errorf("llm.%s.max_tokens must be > 0", section)
	}
	return nil
}

func (l LLMConfig) Validate() error {
	if err := l.Rewrite.validate("rewrite"); err != nil {
		return err
	}
	return l.Answer.validate("answer")
}

// SearchConfig contains web search settings
type SearchConfig struct {
	Provider        string        `mapstructure:"provider"` // tavily, serper, brave
	APIKey          string        `mapstructure:"api_key"`
	Endpoint        string        `mapstructure:"endpoint"`
	MaxResults      int           `mapstructure:"max_results"`
	MaxTotalResults int           `mapstructure:"max_total_results"` // 0 = uncapped
	Depth           string        `mapstructure:"depth"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

func (s SearchConfig) Validate() error {
	switch s.Provider {
	case "tavily", "serper", "brave":
	default:
		return fmt.Errorf("search.provider %q is not supported", s.Provider)
	}
	if s.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be > 0")
	}
	if s.MaxTotalResults < 0 {
		return fmt.Errorf("search.max_total_results cannot be negative")
	}
	return nil
}

// ScrapeConfig contains page content fetching settings
type ScrapeConfig struct {
	Fetcher  string        `mapstructure:"fetcher"` // jina, chromedp
	APIKey   string        `mapstructure:"api_key"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Interval time.Duration `mapstructure:"interval"`
	MaxChars int           `mapstructure:"max_chars"`
}

func (s ScrapeConfig) Validate() error {
	switch s.Fetcher {
	case "jina", "chromedp":
	default:
		return fmt.Errorf("scrape.fetcher %q is not supported", s.Fetcher)
	}
	if s.Interval < 0 {
		return fmt.Errorf("scrape.interval cannot be negative")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("scrape.timeout must be > 0")
	}
	if s.MaxChars < 0 {
		return fmt.Errorf("scrape.max_chars cannot be negative")
	}
	return nil
}

// SessionConfig selects where conversation history lives
type SessionConfig struct {
	Store string        `mapstructure:"store"` // inmemory, redis
	TTL   time.Duration `mapstructure:"ttl"`
	Redis RedisConfig   `mapstructure:"redis"`
}

func (s SessionConfig) Validate() error {
	switch s.Store {
	case "inmemory":
		return nil
	case "redis":
		return s.Redis.Validate()
	default:
		return fmt.Errorf("session.store %q is not supported", s.Store)
	}
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Addr() string { return fmt.Sprintf("%s:%s", r.Host, r.Port) }

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("session.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("session.redis.port required")
	}
	return nil
}

// TelemetryConfig toggles prometheus metrics
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("general.debug", false)
	v.SetDefault("general.log_level", "info")

	v.SetDefault("server.address", ":10001")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.rewrite.model", "gpt-4o-mini")
	v.SetDefault("llm.rewrite.temperature", 0.3)
	v.SetDefault("llm.rewrite.max_tokens", 100)
	v.SetDefault("llm.answer.model", "gpt-4o")
	v.SetDefault("llm.answer.temperature", 0.7)
	v.SetDefault("llm.answer.max_tokens", 800)

	v.SetDefault("search.provider", "tavily")
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.endpoint", "")
	v.SetDefault("search.max_results", 3)
	v.SetDefault("search.max_total_results", 0)
	v.SetDefault("search.depth", "basic")
	v.SetDefault("search.timeout", 15*time.Second)

	v.SetDefault("scrape.fetcher", "jina")
	v.SetDefault("scrape.api_key", "")
	v.SetDefault("scrape.endpoint", "https://r.jina.ai")
	v.SetDefault("scrape.timeout", 20*time.Second)
	v.SetDefault("scrape.interval", 3*time.Second)
	v.SetDefault("scrape.max_chars", 20000)

	v.SetDefault("session.store", "inmemory")
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.redis.host", "localhost")
	v.SetDefault("session.redis.port", "6379")
	v.SetDefault("session.redis.db", 0)
	v.SetDefault("session.redis.timeout", 5*time.Second)

	v.SetDefault("telemetry.enabled", true)
}

// secrets also answer to the names the hosted services document
func bindSecrets(v *viper.Viper) error {
	bindings := map[string][]string{
		"llm.api_key":    {"GROCER_LLM_API_KEY", "OPENAI_API_KEY"},
		"search.api_key": {"GROCER_SEARCH_API_KEY", "TAVILY_API_KEY"},
		"scrape.api_key": {"GROCER_SCRAPE_API_KEY", "JINA_API_KEY"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	return nil
}

// LoadConfig loads config from file and environment. An empty path searches
// the usual locations and falls back to defaults when no file exists.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	setDefaults(v)

	if path == "" {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if exe, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exe)
			v.AddConfigPath(exeDir)
			v.AddConfigPath(filepath.Join(exeDir, "..", "config"))
		}
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("GROCER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindSecrets(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Retailers = NormalizeRetailers(cfg.Retailers)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if err := c.Scrape.Validate(); err != nil {
		return err
	}
	if err := c.Session.Validate(); err != nil {
		return err
	}
	return ValidateRetailers(c.Retailers)
}
