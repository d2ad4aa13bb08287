package baotang

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/brogergvhs/baotang/internal/providers"
)

const (
	selTitle       = ".title > h1"
	selAuthor      = ".author"
	selCover       = ".photo img"
	selDescription = ".description .content"
	selStatus      = ".status"
	selCategory    = ".category a"
	selViewerImage = ".viewer img"

	ongoingMarker = "Đang"
)

func (s *Source) FetchMangaDetails(ctx context.Context, mangaID string) (*providers.Manga, error) {
	pageURL := providers.URLPart(mangaID)

	doc, err := s.fetchDOM(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("manga details: %w", err)
	}

	title := strings.TrimSpace(doc.Find(selTitle).Text())
	if title == "" {
		return nil, fmt.Errorf("manga details %s: %w: title", pageURL, providers.ErrParse)
	}

	author := strings.TrimSpace(doc.Find(selAuthor).Text())
	image, _ := doc.Find(selCover).Attr("src")
	desc := strings.TrimSpace(doc.Find(selDescription).Text())

	status := providers.StatusCompleted
	if strings.Contains(doc.Find(selStatus).Text(), ongoingMarker) {
		status = providers.StatusOngoing
	}

	tags := []providers.Tag{}
	doc.Find(selCategory).Each(func(_ int, a *goquery.Selection) {
		label := strings.TrimSpace(a.Text())
		id, ok := a.Attr("href")
		if !ok {
			id = label
		}
		tags = append(tags, providers.Tag{ID: id, Label: label})
	})

	return &providers.Manga{
		ID:          mangaID,
		Titles:      []string{DecodeEntities(title)},
		Author:      author,
		Artist:      author,
		Description: DecodeEntities(desc),
		Image:       EncodeURI(image),
		Status:      status,
		Tags:        []providers.TagSection{{ID: "0", Label: "Genres", Tags: tags}},
		Hentai:      false,
	}, nil
}

func (s *Source) FetchChapterDetails(ctx context.Context, mangaID, chapterID string) (*providers.ChapterDetails, error) {
	doc, err := s.fetchDOM(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("chapter details: %w", err)
	}

	pages := []string{}
	doc.Find(selViewerImage).Each(func(_ int, img *goquery.Selection) {
		link := strings.TrimSpace(img.AttrOr("src", ""))
		if link == "" {
			link = strings.TrimSpace(img.AttrOr("data-src", ""))
		}
		if link == "" {
			return
		}

		pages = append(pages, EncodeURI(resolve(chapterID, link)))
	})

	s.log.Debugf("chapter %s: %d pages\n", chapterID, len(pages))

	return &providers.ChapterDetails{
		ID:        chapterID,
		MangaID:   mangaID,
		Pages:     pages,
		LongStrip: false,
	}, nil
}

func resolve(pageURL, raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u == nil {
		return raw
	}

	if u.IsAbs() {
		return raw
	}

	base, err := url.Parse(pageURL)
	if err != nil || base == nil {
		return raw
	}

	return base.ResolveReference(u).String()
}
