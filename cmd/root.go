package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/brogergvhs/baotang/internal/config"
	"github.com/brogergvhs/baotang/internal/providers/baotang"
	"github.com/brogergvhs/baotang/internal/ui"
	"github.com/brogergvhs/baotang/internal/util"

	"github.com/spf13/cobra"
)

var (
	flagIgnoreConfig bool
	flagDebug        bool
	flagSiteURL      string
	flagAPIURL       string

	// headers/auth
	flagCookie     string
	flagCookieFile string
	flagUserAgent  string
)

var rootCmd = &cobra.Command{
	Use:           "baotang",
	Short:         "Browse and download manga from BaoTangTruyenTranh",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagIgnoreConfig, "ignore-config", false, "ignore config and use only CLI flags")
	rootCmd.PersistentFlags().StringVar(&flagSiteURL, "site-url", "", "override the site base URL (mirror domain)")
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "override the JSON API base URL")

	rootCmd.PersistentFlags().StringVar(&flagCookie, "cookie", "", "cookie string, e.g. \"key=value; other=123\"")
	rootCmd.PersistentFlags().StringVar(&flagCookieFile, "cookie-file", "", "path to a text file with cookies (one header line)")
	rootCmd.PersistentFlags().StringVar(&flagUserAgent, "user-agent", "", "override User-Agent")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		ui.NewLogger(false).Errorf("%v\n", err)
		os.Exit(1)
	}
}

func baseOptions() config.Options {
	return config.Options{
		IgnoreConfig: flagIgnoreConfig,
		Debug:        flagDebug,
		SiteURL:      flagSiteURL,
		APIURL:       flagAPIURL,
		Cookie:       flagCookie,
		CookieFile:   flagCookieFile,
		UserAgent:    flagUserAgent,
	}
}

// session bundles the merged config with an adapter built on one rate
// limited client.
type session struct {
	cfg    *config.Config
	log    *ui.Logger
	client *http.Client
	source *baotang.Source
}

func newSession(opts config.Options) (*session, error) {
	cfg, usedPath, err := config.LoadMerged(opts)
	if err != nil {
		return nil, err
	}

	log := ui.NewLogger(cfg.Debug)
	log.Debugf("config: %s\n", usedPath)

	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		UserAgent:         cfg.UserAgent,
		Referer:           cfg.SiteURL,
		Cookie:            cfg.Cookie,
		CookieFile:        cfg.CookieFile,
		CloudflareBypass:  cfg.CloudflareBypass,
		DebugLogger:       log,
	})
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}

	return &session{
		cfg:    cfg,
		log:    log,
		client: client,
		source: baotang.New(cfg.Site(), client, log),
	}, nil
}
