package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brogergvhs/baotang/internal/providers"
	"github.com/brogergvhs/baotang/internal/providers/baotang"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SiteURL       string `yaml:"site_url"`
	APIURL        string `yaml:"api_url"`
	SourceName    string `yaml:"source_name"`
	Author        string `yaml:"author"`
	AuthorSite    string `yaml:"author_site"`
	Description   string `yaml:"description"`
	ContentRating string `yaml:"content_rating"`

	RequestsPerSecond float64       `yaml:"requests_per_second"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	UserAgent         string        `yaml:"user_agent"`
	CloudflareBypass  bool          `yaml:"cloudflare_bypass"`
	Cookie            string        `yaml:"cookie"`
	CookieFile        string        `yaml:"cookie_file"`

	Debug          bool   `yaml:"debug"`
	Output         string `yaml:"output"`
	ImageWorkers   int    `yaml:"image_workers"`
	ChapterWorkers int    `yaml:"chapter_workers"`
	KeepFolders    bool   `yaml:"keep_folders"`
	SkipBroken     bool   `yaml:"skip_broken"`
}

type Options struct {
	IgnoreConfig   bool
	Debug          bool
	SiteURL        string
	APIURL         string
	UserAgent      string
	Cookie         string
	CookieFile     string
	Output         string
	ImageWorkers   int
	ChapterWorkers int
	KeepFolders    bool
	SkipBroken     bool
}

func DefaultConfig() *Config {
	return &Config{
		SiteURL:           "https://baotangtruyen36.top/",
		APIURL:            "https://api.chilltruyentranh.site/",
		SourceName:        "BaoTangTruyenTranh",
		Author:            "Dowin",
		AuthorSite:        "https://github.com/luonlu",
		Description:       "bao_tang_truyen_tranh",
		ContentRating:     string(providers.RatingMature),
		RequestsPerSecond: 5,
		RequestTimeout:    20 * time.Second,
		UserAgent:         "",
		CloudflareBypass:  false,
		Debug:             false,
		Output:            ".",
		ImageWorkers:      5,
		ChapterWorkers:    2,
		KeepFolders:       false,
		SkipBroken:        false,
	}
}

// Site returns the adapter configuration described by c.
func (c *Config) Site() baotang.Config {
	return baotang.Config{
		SiteURL:       c.SiteURL,
		APIURL:        c.APIURL,
		SourceName:    c.SourceName,
		Author:        c.Author,
		AuthorSite:    c.AuthorSite,
		Description:   c.Description,
		ContentRating: providers.ContentRating(c.ContentRating),
	}
}

func (c *Config) Validate() error {
	if c.SiteURL == "" {
		return fmt.Errorf("site_url is required")
	}
	if c.APIURL == "" {
		return fmt.Errorf("api_url is required")
	}

	switch providers.ContentRating(c.ContentRating) {
	case providers.RatingEveryone, providers.RatingMature, providers.RatingAdult:
	default:
		return fmt.Errorf("unknown content_rating %q", c.ContentRating)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative")
	}

	return nil
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func loadYAML(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	c := DefaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	return c, nil
}

func LoadMerged(opts Options) (*Config, string, error) {
	if opts.IgnoreConfig {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(ignored config)", cfg.Validate()
	}

	activePath, err := ActiveConfigPath()
	if errors.Is(err, ErrNoConfig) {
		cfg := DefaultConfig()
		mergeConfig(cfg, opts)
		normalizeDefaults(cfg)
		return cfg, "(default config in memory)\nRun `baotang config init` to create an actual config\n", cfg.Validate()
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := loadYAML(activePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config %s: %w", activePath, err)
	}

	mergeConfig(cfg, opts)
	normalizeDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", activePath, err)
	}

	return cfg, activePath, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Debug {
		c.Debug = true
	}
	if o.SiteURL != "" {
		c.SiteURL = o.SiteURL
	}
	if o.APIURL != "" {
		c.APIURL = o.APIURL
	}
	if o.UserAgent != "" {
		c.UserAgent = o.UserAgent
	}
	if o.Cookie != "" {
		c.Cookie = o.Cookie
	}
	if o.CookieFile != "" {
		c.CookieFile = o.CookieFile
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.ImageWorkers != 0 {
		c.ImageWorkers = o.ImageWorkers
	}
	if o.ChapterWorkers != 0 {
		c.ChapterWorkers = o.ChapterWorkers
	}
	if o.KeepFolders {
		c.KeepFolders = true
	}
	if o.SkipBroken {
		c.SkipBroken = true
	}
}

func normalizeDefaults(c *Config) {
	if c.ContentRating == "" {
		c.ContentRating = string(providers.RatingMature)
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 20 * time.Second
	}
	if c.Output == "" {
		c.Output = "."
	}
	if c.ImageWorkers == 0 {
		c.ImageWorkers = 5
	}
	if c.ChapterWorkers == 0 {
		c.ChapterWorkers = 2
	}
}

func (c *Config) Print() {
	fmt.Printf(" -site_url: %s\n", c.SiteURL)
	fmt.Printf(" -api_url: %s\n", c.APIURL)
	fmt.Printf(" -source_name: %s\n", c.SourceName)
	fmt.Printf(" -content_rating: %s\n", c.ContentRating)
	fmt.Printf(" -requests_per_second: %g\n", c.RequestsPerSecond)
	fmt.Printf(" -request_timeout: %s\n", c.RequestTimeout)
	if c.UserAgent != "" {
		fmt.Printf(" -user_agent: %s\n", c.UserAgent)
	}
	if c.CloudflareBypass {
		fmt.Printf(" -cloudflare_bypass: %t\n", c.CloudflareBypass)
	}
	if c.CookieFile != "" {
		fmt.Printf(" -cookie_file: %s\n", c.CookieFile)
	}
	if c.Debug {
		fmt.Printf(" -debug: %t\n", c.Debug)
	}
	fmt.Printf(" -output: %s\n", c.Output)
	fmt.Printf(" -image_workers: %d\n", c.ImageWorkers)
	fmt.Printf(" -chapter_workers: %d\n", c.ChapterWorkers)
	if c.KeepFolders {
		fmt.Printf(" -keep_folders: %t\n", c.KeepFolders)
	}
	if c.SkipBroken {
		fmt.Printf(" -skip_broken: %t\n", c.SkipBroken)
	}
}
