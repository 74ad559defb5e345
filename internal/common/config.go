package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Logging     LoggingConfig   `toml:"logging"`
	Resolver    ResolverConfig  `toml:"resolver"`
	Crawler     CrawlerConfig   `toml:"crawler"`
	Financial   FinancialConfig `toml:"financial"`
	News        NewsConfig      `toml:"news"`
	Wiki        WikiConfig      `toml:"wiki"`
	Research    ResearchConfig  `toml:"research"`
	LLM         LLMConfig       `toml:"llm"`
	Slack       SlackConfig     `toml:"slack"`
	Export      ExportConfig    `toml:"export"`
	Digest      DigestConfig    `toml:"digest"`
	Storage     StorageConfig   `toml:"storage"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// ResolverConfig controls company identity resolution
type ResolverConfig struct {
	SearchURL      string        `toml:"search_url"`       // DuckDuckGo HTML endpoint
	QuoteSearchURL string        `toml:"quote_search_url"` // live ticker search fallback
	RequestTimeout time.Duration `toml:"request_timeout"`
	MinMatchLength int           `toml:"min_match_length"` // minimum key length for substring ticker matching
}

// CrawlerConfig controls the bounded site crawl
type CrawlerConfig struct {
	UserAgent      string        `toml:"user_agent"`
	MaxPages       int           `toml:"max_pages"`        // total page ceiling per crawl
	MaxConcurrency int           `toml:"max_concurrency"`  // concurrent page fetchers
	RequestTimeout time.Duration `toml:"request_timeout"`  // per page fetch
	PageCharLimit  int           `toml:"page_char_limit"`  // text cap per page
	MaxBodySize    int           `toml:"max_body_size"`    // response body cap in bytes
	PDFPageLimit   int           `toml:"pdf_page_limit"`   // pages read per PDF
	PDFCharLimit   int           `toml:"pdf_char_limit"`   // text cap per PDF
}

// FinancialConfig holds provider keys and cascade settings
type FinancialConfig struct {
	MarketDataURL     string        `toml:"market_data_url"`     // premium provider (US cascade)
	MarketDataAPIKey  string        `toml:"market_data_api_key"`
	TimeseriesURL     string        `toml:"timeseries_url"`      // daily close provider (India cascade)
	TimeseriesAPIKey  string        `toml:"timeseries_api_key"`
	SnapshotURL       string        `toml:"snapshot_url"`        // general snapshot provider
	RequestTimeout    time.Duration `toml:"request_timeout"`
	RateLimitPerSec   int           `toml:"rate_limit_per_sec"`
	FundamentalYears  int           `toml:"fundamental_years"`   // annual statements pulled per provider
	PriceHistoryMonths int          `toml:"price_history_months"`
}

// NewsConfig holds news source settings
type NewsConfig struct {
	APIURL         string        `toml:"api_url"` // GNews-style search API
	APIKey         string        `toml:"api_key"`
	RSSSearchURL   string        `toml:"rss_search_url"` // RSS fallback query endpoint
	BulkAPIURL     string        `toml:"bulk_api_url"`   // NewsAPI-style endpoint for the digest
	BulkAPIKey     string        `toml:"bulk_api_key"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	MaxItems       int           `toml:"max_items"`      // simple path cap
	BulkMaxItems   int           `toml:"bulk_max_items"` // per-source cap on the digest path
}

type WikiConfig struct {
	APIURL         string        `toml:"api_url"`     // MediaWiki action API
	SummaryURL     string        `toml:"summary_url"` // REST summary endpoint
	PageURL        string        `toml:"page_url"`    // article HTML base
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// ResearchConfig bounds the aggregation pipeline
type ResearchConfig struct {
	ContextLimit         int           `toml:"context_limit"`    // aggregated context cap
	QAContextLimit       int           `toml:"qa_context_limit"` // interactive Q&A cap
	MinLeadershipEntries int           `toml:"min_leadership_entries"` // below this the model backfill runs
	LeadershipPageLimit  int           `toml:"leadership_page_limit"`  // subpages visited by the site strategy
	RequestTimeout       time.Duration `toml:"request_timeout"`        // leadership page fetches
	CacheTTL             time.Duration `toml:"cache_ttl"`              // context cache lifetime
}

// LLMConfig selects and configures the language model provider
type LLMConfig struct {
	Provider     string        `toml:"provider"` // "gemini" or "claude"
	Model        string        `toml:"model"`
	GeminiAPIKey string        `toml:"gemini_api_key"`
	ClaudeAPIKey string        `toml:"claude_api_key"`
	Temperature  float32       `toml:"temperature"`
	Timeout      time.Duration `toml:"timeout"`
}

// SlackConfig holds chat platform settings
type SlackConfig struct {
	BotToken        string        `toml:"bot_token"`
	BotUserID       string        `toml:"bot_user_id"`
	APIURL          string        `toml:"api_url"`
	DigestChannel   string        `toml:"digest_channel"`
	RequestTimeout  time.Duration `toml:"request_timeout"`
	EventTTL        time.Duration `toml:"event_ttl"`        // dedupe window for inbound event ids
	ConversationCap int           `toml:"conversation_cap"` // bounded conversation state entries
}

type ExportConfig struct {
	DownloadsDir string `toml:"downloads_dir"`
	PublicBase   string `toml:"public_base"` // base URL for served artifacts
}

// DigestConfig controls the scheduled weekly digest
type DigestConfig struct {
	Enabled       bool   `toml:"enabled"`
	Schedule      string `toml:"schedule"` // cron format
	WatchlistFile string `toml:"watchlist_file"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

type BadgerConfig struct {
	Path string `toml:"path"` // empty means in-memory
}

// NewDefaultConfig returns a config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Resolver: ResolverConfig{
			SearchURL:      "https://duckduckgo.com/html/",
			QuoteSearchURL: "https://query2.finance.yahoo.com/v1/finance/search",
			RequestTimeout: 10 * time.Second,
			MinMatchLength: 4,
		},
		Crawler: CrawlerConfig{
			UserAgent:      "Mozilla/5.0 (compatible; indago/1.0)",
			MaxPages:       100,
			MaxConcurrency: 4,
			RequestTimeout: 15 * time.Second,
			PageCharLimit:  5000,
			MaxBodySize:    5 * 1024 * 1024,
			PDFPageLimit:   10,
			PDFCharLimit:   5000,
		},
		Financial: FinancialConfig{
			MarketDataURL:      "https://eodhd.com/api",
			TimeseriesURL:      "https://www.alphavantage.co/query",
			SnapshotURL:        "https://query2.finance.yahoo.com/v10/finance/quoteSummary",
			RequestTimeout:     15 * time.Second,
			RateLimitPerSec:    10,
			FundamentalYears:   3,
			PriceHistoryMonths: 36,
		},
		News: NewsConfig{
			APIURL:         "https://gnews.io/api/v4/search",
			RSSSearchURL:   "https://news.google.com/rss/search",
			BulkAPIURL:     "https://newsapi.org/v2/everything",
			RequestTimeout: 10 * time.Second,
			MaxItems:       5,
			BulkMaxItems:   20,
		},
		Wiki: WikiConfig{
			APIURL:         "https://en.wikipedia.org/w/api.php",
			SummaryURL:     "https://en.wikipedia.org/api/rest_v1/page/summary",
			PageURL:        "https://en.wikipedia.org/wiki",
			RequestTimeout: 10 * time.Second,
		},
		Research: ResearchConfig{
			ContextLimit:         12000,
			QAContextLimit:       8000,
			MinLeadershipEntries: 3,
			LeadershipPageLimit:  3,
			RequestTimeout:       15 * time.Second,
			CacheTTL:             time.Hour,
		},
		LLM: LLMConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Temperature: 0.2,
			Timeout:     60 * time.Second,
		},
		Slack: SlackConfig{
			APIURL:          "https://slack.com/api",
			RequestTimeout:  10 * time.Second,
			EventTTL:        time.Hour,
			ConversationCap: 10,
		},
		Export: ExportConfig{
			DownloadsDir: "downloads",
			PublicBase:   "http://localhost:8085",
		},
		Digest: DigestConfig{
			Enabled:       false,
			Schedule:      "0 9 * * MON",
			WatchlistFile: "companies.yaml",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{Path: "data/indago"},
		},
	}
}

// LoadFromFile loads configuration from a TOML file over the defaults
func LoadFromFile(path string) (*Config, error) {
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple TOML files.
// Later files override earlier ones; env vars override files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if config.Digest.Enabled {
		if err := ValidateSchedule(config.Digest.Schedule); err != nil {
			return nil, fmt.Errorf("invalid digest schedule: %w", err)
		}
	}

	return config, nil
}

// applyEnvOverrides applies INDAGO_* environment variable overrides
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("INDAGO_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("INDAGO_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("INDAGO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("INDAGO_MARKET_DATA_API_KEY"); v != "" {
		config.Financial.MarketDataAPIKey = v
	}
	if v := os.Getenv("INDAGO_TIMESERIES_API_KEY"); v != "" {
		config.Financial.TimeseriesAPIKey = v
	}
	if v := os.Getenv("INDAGO_NEWS_API_KEY"); v != "" {
		config.News.APIKey = v
	}
	if v := os.Getenv("INDAGO_BULK_NEWS_API_KEY"); v != "" {
		config.News.BulkAPIKey = v
	}
	if v := os.Getenv("INDAGO_GEMINI_API_KEY"); v != "" {
		config.LLM.GeminiAPIKey = v
	}
	if v := os.Getenv("INDAGO_CLAUDE_API_KEY"); v != "" {
		config.LLM.ClaudeAPIKey = v
	}
	if v := os.Getenv("INDAGO_SLACK_BOT_TOKEN"); v != "" {
		config.Slack.BotToken = v
	}
	if v := os.Getenv("INDAGO_SLACK_BOT_USER_ID"); v != "" {
		config.Slack.BotUserID = v
	}
	if v := os.Getenv("INDAGO_PUBLIC_BASE"); v != "" {
		config.Export.PublicBase = v
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ValidateSchedule validates a cron schedule expression
func ValidateSchedule(schedule string) error {
	if strings.TrimSpace(schedule) == "" {
		return fmt.Errorf("schedule cannot be empty")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}
	return nil
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
