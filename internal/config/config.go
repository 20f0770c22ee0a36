// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	FactCheck  FactCheckConfig  `yaml:"factcheck"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Verify     VerifyConfig     `yaml:"verify"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	RateLimits RateLimitConfig  `yaml:"rate_limits"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port          int           `yaml:"port"`
	RequireAPIKey bool          `yaml:"require_api_key"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite
	Path   string `yaml:"path"`
}

type FactCheckConfig struct {
	APIKey            string        `yaml:"api_key"`
	Endpoint          string        `yaml:"endpoint"`
	LanguageCode      string        `yaml:"language_code"`
	PageSize          int           `yaml:"page_size"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
}

type FetchConfig struct {
	UserAgent      string        `yaml:"user_agent"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxBytes       int64         `yaml:"max_bytes"`
	RespectRobots  bool          `yaml:"respect_robots"`
	RobotsCacheTTL time.Duration `yaml:"robots_cache_ttl"`
	PerHostRPS     float64       `yaml:"per_host_rps"`
	AllowPrivate   bool          `yaml:"allow_private"`
}

type ExtractionConfig struct {
	SentenceSplitter string `yaml:"sentence_splitter"` // uax29, regex
}

type VerifyConfig struct {
	MaxParallel int `yaml:"max_parallel"`
}

type ScoringConfig struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
	Low    float64 `yaml:"low"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"default_requests_per_minute"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         5000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 90 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   "./data/newscred.db",
		},
		FactCheck: FactCheckConfig{
			Endpoint:          "https://factchecktools.googleapis.com/v1alpha1/claims:search",
			Timeout:           10 * time.Second,
			RequestsPerSecond: 5,
		},
		Fetch: FetchConfig{
			UserAgent:      "Mozilla/5.0 (compatible; newscred/1.0; +https://github.com/factchecker/newscred)",
			Timeout:        10 * time.Second,
			MaxBytes:       2 << 20,
			RespectRobots:  true,
			RobotsCacheTTL: time.Hour,
			PerHostRPS:     1,
		},
		Extraction: ExtractionConfig{
			SentenceSplitter: "uax29",
		},
		Verify: VerifyConfig{
			MaxParallel: 3,
		},
		Scoring: ScoringConfig{
			High:   0.8,
			Medium: 0.5,
			Low:    0.3,
		},
		RateLimits: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'newscred config init' to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration on top of the defaults.
func Parse(data []byte) (*Config, error) {
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# newscred configuration

server:
  port: 5000
  require_api_key: false
  read_timeout: 15s
  write_timeout: 90s

database:
  driver: sqlite
  path: ./data/newscred.db

factcheck:
  api_key: ${FACT_CHECK_API_KEY}
  endpoint: https://factchecktools.googleapis.com/v1alpha1/claims:search
  # language_code: en-US
  # page_size: 10
  timeout: 10s
  requests_per_second: 5

fetch:
  user_agent: "Mozilla/5.0 (compatible; newscred/1.0; +https://github.com/factchecker/newscred)"
  timeout: 10s
  max_bytes: 2097152
  respect_robots: true
  robots_cache_ttl: 1h
  per_host_rps: 1
  allow_private: false  # allow loopback and private network addresses

extraction:
  sentence_splitter: uax29  # uax29 or regex

verify:
  max_parallel: 3

scoring:
  high: 0.8
  medium: 0.5
  low: 0.3

rate_limits:
  default_requests_per_minute: 60

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.FactCheck.Endpoint == "" {
		return fmt.Errorf("fact check endpoint is required")
	}
	if c.FactCheck.Timeout <= 0 {
		return fmt.Errorf("fact check timeout must be positive")
	}

	switch c.Extraction.SentenceSplitter {
	case "uax29", "regex":
	default:
		return fmt.Errorf("unsupported sentence splitter: %s", c.Extraction.SentenceSplitter)
	}

	if c.Verify.MaxParallel < 1 {
		return fmt.Errorf("verify.max_parallel must be at least 1")
	}

	s := c.Scoring
	if !(s.High > s.Medium && s.Medium > s.Low && s.Low > 0 && s.High <= 1) {
		return fmt.Errorf("scoring thresholds must satisfy 0 < low < medium < high <= 1")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format: %s", c.Logging.Format)
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return ""
	})
}
