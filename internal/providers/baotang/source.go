package baotang

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/baotang/internal/providers"
	"github.com/brogergvhs/baotang/internal/ui"
	"github.com/brogergvhs/baotang/internal/util"
)

const (
	Version  = "1.0.0"
	LangCode = "vi"
)

// Config describes the target site. It is read once when the Source is built.
type Config struct {
	SiteURL       string
	APIURL        string
	SourceName    string
	Author        string
	AuthorSite    string
	Description   string
	ContentRating providers.ContentRating
}

type Source struct {
	cfg    Config
	client *http.Client
	log    *ui.Logger
	now    func() time.Time
}

var _ providers.Source = (*Source)(nil)

// New returns a Source that sends every request through client, which is
// expected to carry the shared rate limit and header injection.
func New(cfg Config, client *http.Client, log *ui.Logger) *Source {
	if log == nil {
		log = ui.Discard()
	}

	return &Source{
		cfg:    cfg,
		client: client,
		log:    log,
		now:    time.Now,
	}
}

func (s *Source) Info() providers.SourceInfo {
	return providers.SourceInfo{
		Name:           s.cfg.SourceName,
		Version:        Version,
		Icon:           "icon.png",
		Author:         s.cfg.Author,
		AuthorWebsite:  s.cfg.AuthorSite,
		Description:    s.cfg.Description,
		WebsiteBaseURL: s.cfg.SiteURL,
		ContentRating:  s.cfg.ContentRating,
		SourceTags:     []providers.SourceTag{{Text: "Template", Type: "blue"}},
	}
}

func (s *Source) ShareURL(mangaID string) string {
	return providers.URLPart(mangaID)
}

func (s *Source) fetchDOM(ctx context.Context, target string) (*goquery.Document, error) {
	body, err := util.Get(ctx, s.client, target)
	if err != nil {
		return nil, err
	}

	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

func (s *Source) fetchJSON(ctx context.Context, target string, p payload) error {
	body, err := util.Get(ctx, s.client, target)
	if err != nil {
		return err
	}

	if err := decodePayload(body, p); err != nil {
		return fmt.Errorf("%s: %w", target, err)
	}

	return nil
}

// apiURL joins the API origin with path and an optional query.
func (s *Source) apiURL(path string, query url.Values) string {
	u := strings.TrimRight(s.cfg.APIURL, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}
