package baotang

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/brogergvhs/baotang/internal/providers"
)

// Search looks up comics by name, or by category when no title is given.
// Name search is a single page. Category search pages through results and
// only honours the first included tag.
func (s *Source) Search(ctx context.Context, query providers.SearchRequest, meta *providers.PageMetadata) (*providers.PagedResult, error) {
	if query.Title != "" {
		var resp comicListResponse
		target := s.apiURL("comic/search", url.Values{"name": {query.Title}})
		if err := s.fetchJSON(ctx, target, &resp); err != nil {
			return nil, fmt.Errorf("search %q: %w", query.Title, err)
		}

		return &providers.PagedResult{Results: MapTiles(resp.Result.Comics)}, nil
	}

	if len(query.IncludedTags) == 0 {
		return &providers.PagedResult{Results: []providers.Tile{}}, nil
	}
	if len(query.IncludedTags) > 1 {
		s.log.Debugf("search: only the first of %d tags is used\n", len(query.IncludedTags))
	}

	tag := query.IncludedTags[0]
	page := pageOf(meta)

	var resp comicListResponse
	target := s.apiURL("comic/search/category", url.Values{
		"p":     {strconv.Itoa(page)},
		"value": {tag},
	})
	if err := s.fetchJSON(ctx, target, &resp); err != nil {
		return nil, fmt.Errorf("search tag %q page %d: %w", tag, page, err)
	}

	return &providers.PagedResult{
		Results:  MapTiles(resp.Result.Comics),
		Metadata: &providers.PageMetadata{Page: page + 1},
	}, nil
}

func (s *Source) FetchTags(ctx context.Context) ([]providers.TagSection, error) {
	var resp categoryListResponse
	if err := s.fetchJSON(ctx, s.apiURL("category", nil), &resp); err != nil {
		return nil, fmt.Errorf("tags: %w", err)
	}

	return []providers.TagSection{{
		ID:    "0",
		Label: "Thể loại",
		Tags:  mapTags(resp.Result),
	}}, nil
}
