package providers

import (
	"context"
	"time"
)

type Status int

const (
	StatusCompleted Status = 0
	StatusOngoing   Status = 1
)

func (s Status) String() string {
	if s == StatusOngoing {
		return "ongoing"
	}

	return "completed"
}

type ContentRating string

const (
	RatingEveryone ContentRating = "everyone"
	RatingMature   ContentRating = "mature"
	RatingAdult    ContentRating = "adult"
)

type Manga struct {
	ID          string
	Titles      []string
	Author      string
	Artist      string
	Description string
	Image       string
	Status      Status
	Tags        []TagSection
	Hentai      bool
}

type Chapter struct {
	ID       string
	MangaID  string
	ChapNum  float64
	Name     string
	LangCode string
	Time     time.Time
}

type ChapterDetails struct {
	ID        string
	MangaID   string
	Pages     []string
	LongStrip bool
}

type Tag struct {
	ID    string
	Label string
}

type TagSection struct {
	ID    string
	Label string
	Tags  []Tag
}

// Tile is the summary shown for one entry of a listing.
type Tile struct {
	ID       string
	Image    string
	Title    string
	Subtitle string
}

type HomeSection struct {
	ID       string
	Title    string
	ViewMore bool
	Items    []Tile
}

// PageMetadata is handed back to the caller to request the next page.
type PageMetadata struct {
	Page int
}

// PagedResult carries one page of tiles. A nil Metadata marks the last page.
type PagedResult struct {
	Results  []Tile
	Metadata *PageMetadata
}

type SearchRequest struct {
	Title        string
	IncludedTags []string
}

type SourceTag struct {
	Text string
	Type string
}

type SourceInfo struct {
	Name           string
	Version        string
	Icon           string
	Author         string
	AuthorWebsite  string
	Description    string
	WebsiteBaseURL string
	ContentRating  ContentRating
	SourceTags     []SourceTag
}

type Source interface {
	Info() SourceInfo
	ShareURL(mangaID string) string

	FetchMangaDetails(ctx context.Context, mangaID string) (*Manga, error)
	FetchChapters(ctx context.Context, mangaID string) ([]Chapter, error)
	FetchChapterDetails(ctx context.Context, mangaID, chapterID string) (*ChapterDetails, error)
	FetchHomeSections(ctx context.Context, emit func(HomeSection)) error
	FetchMoreItems(ctx context.Context, sectionID string, meta *PageMetadata) (*PagedResult, error)
	Search(ctx context.Context, query SearchRequest, meta *PageMetadata) (*PagedResult, error)
	FetchTags(ctx context.Context) ([]TagSection, error)
}
