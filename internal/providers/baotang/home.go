package baotang

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/brogergvhs/baotang/internal/providers"
)

const homeSectionSize = 10

type section struct {
	id    string
	title string
	path  string
}

var homeSections = []section{
	{id: "hot", title: "Truyện đề xuất", path: "comic/search/view"},
	{id: "new_updated", title: "Cập nhật gần đây", path: "comic/search/recent"},
	{id: "new_added", title: "Truyện mới", path: "comic/search/new"},
}

func sectionPath(id string) (string, bool) {
	for _, sec := range homeSections {
		if sec.id == id {
			return sec.path, true
		}
	}

	return "", false
}

// FetchHomeSections emits every home section twice: first empty, so the caller
// can lay it out, then again once its items are loaded. Sections are fetched
// one after another.
func (s *Source) FetchHomeSections(ctx context.Context, emit func(providers.HomeSection)) error {
	for _, sec := range homeSections {
		hs := providers.HomeSection{
			ID:       sec.id,
			Title:    sec.title,
			ViewMore: true,
			Items:    []providers.Tile{},
		}
		emit(hs)

		tiles, err := s.fetchListing(ctx, sec.path, 0)
		if err != nil {
			return fmt.Errorf("home section %s: %w", sec.id, err)
		}

		if len(tiles) > homeSectionSize {
			tiles = tiles[:homeSectionSize]
		}
		hs.Items = tiles
		emit(hs)
	}

	return nil
}

func (s *Source) FetchMoreItems(ctx context.Context, sectionID string, meta *providers.PageMetadata) (*providers.PagedResult, error) {
	path, ok := sectionPath(sectionID)
	if !ok {
		s.log.Debugf("unknown section %q\n", sectionID)
		return &providers.PagedResult{Results: []providers.Tile{}}, nil
	}

	page := pageOf(meta)
	tiles, err := s.fetchListing(ctx, path, page)
	if err != nil {
		return nil, fmt.Errorf("section %s page %d: %w", sectionID, page, err)
	}

	return &providers.PagedResult{
		Results:  tiles,
		Metadata: &providers.PageMetadata{Page: page + 1},
	}, nil
}

func (s *Source) fetchListing(ctx context.Context, path string, page int) ([]providers.Tile, error) {
	var resp comicListResponse
	target := s.apiURL(path, url.Values{"p": {strconv.Itoa(page)}})
	if err := s.fetchJSON(ctx, target, &resp); err != nil {
		return nil, err
	}

	return MapTiles(resp.Result.Comics), nil
}

func pageOf(meta *providers.PageMetadata) int {
	if meta == nil {
		return 0
	}

	return meta.Page
}
