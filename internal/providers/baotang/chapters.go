package baotang

import (
	"context"
	"fmt"
	"net/url"

	"github.com/brogergvhs/baotang/internal/providers"
)

func (s *Source) FetchChapters(ctx context.Context, mangaID string) ([]providers.Chapter, error) {
	mangaURL, apiID, err := providers.SplitID(mangaID)
	if err != nil {
		return nil, fmt.Errorf("chapters: %w", err)
	}

	target := s.apiURL("comic/"+url.PathEscape(apiID)+"/chapter", url.Values{
		"offset": {"0"},
		"limit":  {"-1"},
	})

	var resp chapterListResponse
	if err := s.fetchJSON(ctx, target, &resp); err != nil {
		return nil, fmt.Errorf("chapters: %w", err)
	}

	now := s.now()
	out := make([]providers.Chapter, 0, len(resp.Result.Chapters))

	for _, c := range resp.Result.Chapters {
		num, ok := chapterNumber(c.NumberChapter.raw)
		if !ok {
			s.log.Warnf("skipping chapter %q of %s: non-numeric number %q\n", c.Name, mangaID, c.NumberChapter.String())
			continue
		}

		out = append(out, providers.Chapter{
			ID:       fmt.Sprintf("%s/chuong-%s", mangaURL, c.NumberChapter.idPart(num)),
			MangaID:  mangaID,
			ChapNum:  num,
			Name:     c.Name,
			LangCode: LangCode,
			Time:     RelativeTime(now, c.StringUpdateTime),
		})
	}

	return out, nil
}
