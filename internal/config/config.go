package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "TECHPLUSNEW_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	llmAPIKeyEnv    = "LLM_API_KEY"
	llmEndpointEnv  = "LLM_ENDPOINT"
	llmModelEnv     = "LLM_MODEL"
	logLevelEnv     = "LOG_LEVEL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	LLM       LLMConfig       `yaml:"llm"`
	Logging   LoggingConfig   `yaml:"logging"`
	Sources   []SourceConfig  `yaml:"sources"`
}

// DatabaseConfig describes Postgres connection details. An empty DSN selects
// the in-memory record store (local/dev mode).
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines the pipeline intervals.
type SchedulerConfig struct {
	CycleSeconds  int            `yaml:"cycleSeconds"`
	LinkerSeconds int            `yaml:"linkerSeconds"`
	Timezone      string         `yaml:"timezone"`
	location      *time.Location `yaml:"-"`
}

// CycleInterval resolves the full-cycle (ingest/enrich/trending) period.
func (s SchedulerConfig) CycleInterval() time.Duration {
	if s.CycleSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(s.CycleSeconds) * time.Second
}

// LinkerInterval resolves the related-article linker period.
func (s SchedulerConfig) LinkerInterval() time.Duration {
	if s.LinkerSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(s.LinkerSeconds) * time.Second
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LLMConfig defines how to contact the embeddings API.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SourceConfig describes one bootstrap feed source seeded on first run.
type SourceConfig struct {
	Name            string `yaml:"name"`
	SiteURL         string `yaml:"siteUrl"`
	FeedURL         string `yaml:"feedUrl"`
	IntervalSeconds int    `yaml:"intervalSeconds"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sources) == 0 {
		cfg.Sources = defaultConfig().Sources
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmEndpointEnv); v != "" {
		c.LLM.Endpoint = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.CycleSeconds > 0 {
		base.Scheduler.CycleSeconds = override.Scheduler.CycleSeconds
	}
	if override.Scheduler.LinkerSeconds > 0 {
		base.Scheduler.LinkerSeconds = override.Scheduler.LinkerSeconds
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if len(override.Sources) > 0 {
		base.Sources = override.Sources
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Database: DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{
			CycleSeconds:  300,
			LinkerSeconds: 3600,
			Timezone:      defaultTimezone,
			location:      tz,
		},
		LLM: LLMConfig{
			Endpoint: "https://api.openai.com/v1",
			Model:    "text-embedding-3-small",
			APIKey:   "",
		},
		Logging: LoggingConfig{Level: "info"},
		Sources: []SourceConfig{
			{
				Name:            "TechCrunch",
				SiteURL:         "https://techcrunch.com",
				FeedURL:         "https://techcrunch.com/feed/",
				IntervalSeconds: 300,
			},
			{
				Name:            "The Verge",
				SiteURL:         "https://www.theverge.com",
				FeedURL:         "https://www.theverge.com/rss/index.xml",
				IntervalSeconds: 300,
			},
			{
				Name:            "Wired",
				SiteURL:         "https://www.wired.com",
				FeedURL:         "https://www.wired.com/feed/rss",
				IntervalSeconds: 300,
			},
			{
				Name:            "Ars Technica",
				SiteURL:         "https://arstechnica.com",
				FeedURL:         "https://feeds.arstechnica.com/arstechnica/index",
				IntervalSeconds: 300,
			},
		},
	}
}
