// Package config holds the immutable run parameters of a crawl.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultHost is the job board crawled when no host is given.
	DefaultHost = "http://www.cyprusjobs.com/"
	// DefaultPageSize is the listing stride when none is configured.
	DefaultPageSize = 20
	// DefaultPageCount bounds how far the listing is enumerated.
	DefaultPageCount = 40
	// DefaultOutputPath is the spreadsheet written when -o is omitted.
	DefaultOutputPath = "jobs.xlsx"
	// DefaultRequestTimeout applies to every page fetch.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultCacheTTL applies to cached pages when a Redis URL is set.
	DefaultCacheTTL = time.Hour
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// ValidationError reports which field failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Config holds everything a crawl needs. Build it with New; it is not
// modified afterwards.
type Config struct {
	Host       string
	Keywords   []string
	PageSize   int
	PageCount  int
	OutputPath string

	RequestTimeout time.Duration
	ProxyURL       string

	RedisURL string
	CacheTTL time.Duration

	TelegramToken  string
	TelegramChatID string
	DiscordWebhook string

	Print     bool
	LogLevel  string
	LogFormat string
}

// Option customizes a Config during construction.
type Option func(*Config)

// WithHost sets the base URL of the job board.
func WithHost(host string) Option { return func(c *Config) { c.Host = host } }

// WithKeywords sets the keywords to scan detail pages for.
func WithKeywords(keywords ...string) Option {
	return func(c *Config) { c.Keywords = keywords }
}

// WithPages sets the pagination stride and the listing bound.
func WithPages(pageSize, pageCount int) Option {
	return func(c *Config) {
		c.PageSize = pageSize
		c.PageCount = pageCount
	}
}

// WithOutputPath sets the spreadsheet path.
func WithOutputPath(path string) Option { return func(c *Config) { c.OutputPath = path } }

// WithRequestTimeout sets the per-fetch timeout. Zero disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) { c.RequestTimeout = d }
}

// WithProxy routes every fetch through proxyURL.
func WithProxy(proxyURL string) Option { return func(c *Config) { c.ProxyURL = proxyURL } }

// WithCache enables the Redis page cache.
func WithCache(redisURL string, ttl time.Duration) Option {
	return func(c *Config) {
		c.RedisURL = redisURL
		c.CacheTTL = ttl
	}
}

// WithTelegram enables the Telegram notification.
func WithTelegram(token, chatID string) Option {
	return func(c *Config) {
		c.TelegramToken = token
		c.TelegramChatID = chatID
	}
}

// WithDiscord enables the Discord webhook notification.
func WithDiscord(webhookURL string) Option {
	return func(c *Config) { c.DiscordWebhook = webhookURL }
}

// WithPrint enables the console table.
func WithPrint(enabled bool) Option { return func(c *Config) { c.Print = enabled } }

// WithLogLevel sets the log level.
func WithLogLevel(level string) Option { return func(c *Config) { c.LogLevel = level } }

// WithLogFormat sets the log encoding, console or json.
func WithLogFormat(format string) Option { return func(c *Config) { c.LogFormat = format } }

// New applies opts over the defaults and validates the result.
func New(opts ...Option) (Config, error) {
	cfg := Config{
		PageSize:       DefaultPageSize,
		PageCount:      DefaultPageCount,
		RequestTimeout: DefaultRequestTimeout,
		CacheTTL:       DefaultCacheTTL,
		LogLevel:       "info",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.OutputPath = strings.TrimSpace(cfg.OutputPath)
	cfg.Keywords = cleanKeywords(cfg.Keywords)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the required fields and numeric bounds.
func (c Config) Validate() error {
	switch {
	case len(c.Keywords) == 0:
		return &ValidationError{Field: "keywords", Reason: "must include at least one keyword"}
	case c.Host == "":
		return &ValidationError{Field: "host", Reason: "must be specified"}
	case c.OutputPath == "":
		return &ValidationError{Field: "output", Reason: "must be specified"}
	case c.PageSize <= 0:
		return &ValidationError{Field: "page-size", Reason: fmt.Sprintf("must be positive, got %d", c.PageSize)}
	case c.PageCount < 0:
		return &ValidationError{Field: "page-count", Reason: fmt.Sprintf("must not be negative, got %d", c.PageCount)}
	case c.RequestTimeout < 0:
		return &ValidationError{Field: "timeout", Reason: "must not be negative"}
	}
	return nil
}

// cleanKeywords trims keywords, drops blanks, and returns a fresh slice so
// the caller's backing array is never shared with the Config.
func cleanKeywords(in []string) []string {
	out := make([]string, 0, len(in))
	for _, k := range in {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
