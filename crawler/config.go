package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"
)

// ErrInvalidConfig is wrapped by every validation failure of CrawlerConfig.
var ErrInvalidConfig = errors.New("invalid crawler config")

const (
	FetcherColly  = "colly"
	FetcherHTTP   = "http"
	FetcherChrome = "chrome"

	ExtractorHeuristic   = "heuristic"
	ExtractorReadability = "readability"
	ExtractorTrafilatura = "trafilatura"
	ExtractorMarkdown    = "markdown"
)

type CrawlerConfig struct {
	BaseURL          string        `yaml:"base_url"`
	AllowedPaths     []string      `yaml:"allowed_paths"`
	Keywords         []string      `yaml:"keywords"`
	ContentHints     []string      `yaml:"content_hints"`
	MinContentLength int           `yaml:"min_content_length"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	RequestDelay     time.Duration `yaml:"request_delay"`
	MaxDepth         int           `yaml:"max_depth"`
	MaxPages         int           `yaml:"max_pages"`
	MaxBodySize      int64         `yaml:"max_body_size"`
	UserAgent        string        `yaml:"user_agent"`
	Dedup            bool          `yaml:"dedup"`
	SameHostOnly     bool          `yaml:"same_host_only"`
	Fetcher          string        `yaml:"fetcher"`
	Extractor        string        `yaml:"extractor"`
}

// DefaultConfig returns a default crawler configuration
func DefaultConfig() *CrawlerConfig {
	return &CrawlerConfig{
		BaseURL: "https://www.glbitm.org",
		AllowedPaths: []string{
			// leadership
			"/about",
			"/about-us",
			"/leadership",
			"/management",
			"/director",
			"/administration",
			// academics
			"/department",
			"/departments",
			"/faculty",
			"/academics",
			"/hod",
			// admissions
			"/admission",
			"/admissions",
			"/apply",
			"/fees",
			"/eligibility",
			// placements
			"/placement",
			"/placements",
			"/training-and-placement",
			"/tpo",
		},
		Keywords: []string{
			"ceo",
			"director",
			"chairman",
			"vice chairman",
			"dean",
			"training and placement",
			"t&p",
			"tpo",
			"department",
			"hod",
			"head of department",
			"faculty",
			"admission",
			"eligibility",
			"fee",
			"fees",
			"apply",
			"entrance",
			"counselling",
			"placement",
			"placements",
			"highest package",
			"average package",
			"ctc",
			"salary",
			"recruiter",
			"company",
			"student",
		},
		ContentHints:     []string{"content", "about", "department", "placement"},
		MinContentLength: 300,
		RequestTimeout:   10 * time.Second,
		MaxDepth:         8,
		MaxPages:         500,
		MaxBodySize:      10 * 1024 * 1024,
		UserAgent:        "CampusRAG-Crawler/1.0",
		Dedup:            true,
		SameHostOnly:     true,
		Fetcher:          FetcherColly,
		Extractor:        ExtractorHeuristic,
	}
}

// Validate checks the configuration and returns an error wrapping ErrInvalidConfig.
func (c *CrawlerConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: base_url %q must be an absolute http(s) URL", ErrInvalidConfig, c.BaseURL)
	}
	if len(c.AllowedPaths) == 0 {
		return fmt.Errorf("%w: allowed_paths is empty", ErrInvalidConfig)
	}
	if len(c.Keywords) == 0 {
		return fmt.Errorf("%w: keywords is empty", ErrInvalidConfig)
	}
	if c.MinContentLength < 0 {
		return fmt.Errorf("%w: min_content_length must not be negative", ErrInvalidConfig)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	if c.MaxDepth < 0 || c.MaxPages < 0 {
		return fmt.Errorf("%w: max_depth and max_pages must not be negative", ErrInvalidConfig)
	}
	if !slices.Contains([]string{FetcherColly, FetcherHTTP, FetcherChrome}, c.Fetcher) {
		return fmt.Errorf("%w: unknown fetcher %q", ErrInvalidConfig, c.Fetcher)
	}
	if !slices.Contains([]string{ExtractorHeuristic, ExtractorReadability, ExtractorTrafilatura, ExtractorMarkdown}, c.Extractor) {
		return fmt.Errorf("%w: unknown extractor %q", ErrInvalidConfig, c.Extractor)
	}
	return nil
}
