// Package kastden implements the selca.kastden.org profile spider: page
// extraction, the colly crawl engine, and the run pipeline that resolves,
// validates, and emits the dataset.
package kastden

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob that influences a crawl run. All values
// originate from Viper so the spider can be configured via files, env vars,
// or CLI flags, while staying decoupled from Viper itself.
type Config struct {
	StartURL       string
	AllowedDomains []string
	UserAgent      string
	Concurrency    int
	Delay          time.Duration
	RequestTimeout time.Duration
	MaxDepth       int
	OutputJSON     string
	OutputMinJSON  string
	ThumbDir       string
	ThumbBaseURL   string
	OverridesPath  string
	MetricsAddr    string
}

// Load constructs a Config by reading from Viper.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		StartURL:       v.GetString("crawler.start_url"),
		AllowedDomains: v.GetStringSlice("crawler.allowed_domains"),
		UserAgent:      v.GetString("crawler.user_agent"),
		Concurrency:    v.GetInt("crawler.concurrency"),
		Delay:          v.GetDuration("crawler.delay"),
		RequestTimeout: v.GetDuration("crawler.request_timeout"),
		MaxDepth:       v.GetInt("crawler.max_depth"),
		OutputJSON:     v.GetString("output.json"),
		OutputMinJSON:  v.GetString("output.min_json"),
		ThumbDir:       v.GetString("output.thumb_dir"),
		ThumbBaseURL:   v.GetString("output.thumb_base_url"),
		OverridesPath:  v.GetString("overrides.path"),
		MetricsAddr:    v.GetString("metrics.addr"),
	}
	return cfg, cfg.Validate()
}

// Validate checks for obviously bad configuration combinations.
func (c Config) Validate() error {
	if c.StartURL == "" {
		return fmt.Errorf("crawler.start_url must be set")
	}
	if len(c.AllowedDomains) == 0 {
		return fmt.Errorf("crawler.allowed_domains must include at least one domain")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("crawler.user_agent must be set")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("crawler.concurrency must be > 0")
	}
	if c.Delay < 0 {
		return fmt.Errorf("crawler.delay must be >= 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("crawler.request_timeout must be > 0")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("crawler.max_depth must be >= 0")
	}
	if c.OutputJSON == "" || c.OutputMinJSON == "" {
		return fmt.Errorf("output.json and output.min_json must be set")
	}
	if c.ThumbDir == "" {
		return fmt.Errorf("output.thumb_dir must be set")
	}
	if c.ThumbBaseURL == "" {
		return fmt.Errorf("output.thumb_base_url must be set")
	}
	return nil
}

// SourceBase returns the origin of the start URL, e.g.
// "https://selca.kastden.org". Record source URLs are validated against it.
func (c Config) SourceBase() (string, error) {
	u, err := url.Parse(c.StartURL)
	if err != nil {
		return "", fmt.Errorf("parse start URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("start URL %q is not absolute", c.StartURL)
	}
	return u.Scheme + "://" + u.Host, nil
}
