package baotang

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/brogergvhs/baotang/internal/providers"
	"github.com/brogergvhs/baotang/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailsHTML = `<html><body>
<div class="title"><h1> &amp;#68;&amp;#111; Ho&#224;ng </h1></div>
<div class="author"> Tác giả A </div>
<div class="photo"><img src="https://cdn.test/covers/bìa 1.jpg"></div>
<div class="description"><div class="content"> M&amp;#244; tả </div></div>
<div class="status">Đang tiến hành</div>
<div class="category">
  <a href="/the-loai/action">Action</a>
  <a>Drama</a>
</div>
</body></html>`

const chapterHTML = `<html><body>
<div class="viewer">
  <img src="https://cdn.test/p/1.jpg">
  <img data-src="https://cdn.test/p/2 b.jpg">
  <img src="" data-src="/p/3.jpg">
  <img>
  <img src="https://cdn.test/p/1.jpg">
</div>
<img src="https://cdn.test/ads.jpg">
</body></html>`

type fakeSite struct {
	t      *testing.T
	srv    *httptest.Server
	mu     sync.Mutex
	hits   []string
	routes map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeSite(t *testing.T) *fakeSite {
	fs := &fakeSite{t: t, routes: map[string]func(w http.ResponseWriter, r *http.Request){}}
	fs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.hits = append(fs.hits, r.URL.RequestURI())
		h, ok := fs.routes[r.URL.Path]
		fs.mu.Unlock()

		assert.Equal(t, fs.srv.URL+"/", r.Header.Get("Referer"))
		assert.Equal(t, util.DefaultUserAgent, r.Header.Get("User-Agent"))

		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(fs.srv.Close)

	return fs
}

func (fs *fakeSite) handle(path, contentType, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.routes[path] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = fmt.Fprint(w, body)
	}
}

func (fs *fakeSite) requests() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return append([]string(nil), fs.hits...)
}

func (fs *fakeSite) source(t *testing.T) *Source {
	client, err := util.NewHTTPClient(util.HTTPClientOptions{
		Timeout: 5 * time.Second,
		Referer: fs.srv.URL + "/",
	})
	require.NoError(t, err)

	return New(Config{
		SiteURL:       fs.srv.URL + "/",
		APIURL:        fs.srv.URL + "/api/",
		SourceName:    "BaoTangTruyenTranh",
		Author:        "Dowin",
		AuthorSite:    "https://github.com/luonlu",
		Description:   "bao_tang_truyen_tranh",
		ContentRating: providers.RatingMature,
	}, client, nil)
}

func comicsJSON(n int) string {
	body := `{"result":{"comics":[`
	for i := 0; i < n; i++ {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"id":%d,"url":"https://site.test/truyen/%d","thumbUrl":"https://cdn.test/%d.jpg","name":"Comic %d"}`, i, i, i, i)
	}

	return body + `]}}`
}

func TestInfoAndShareURL(t *testing.T) {
	src := newFakeSite(t).source(t)

	info := src.Info()
	assert.Equal(t, "BaoTangTruyenTranh", info.Name)
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, providers.RatingMature, info.ContentRating)
	assert.Equal(t, []providers.SourceTag{{Text: "Template", Type: "blue"}}, info.SourceTags)

	assert.Equal(t, "https://example.com/manga/x", src.ShareURL("https://example.com/manga/x::123"))
	assert.Equal(t, "https://example.com/manga/x", src.ShareURL("https://example.com/manga/x"))
}

func TestFetchMangaDetails(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/truyen/x", "text/html; charset=utf-8", detailsHTML)
	src := fs.source(t)

	id := fs.srv.URL + "/truyen/x::123"
	m, err := src.FetchMangaDetails(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, m.ID)
	assert.Equal(t, []string{"Do Hoàng"}, m.Titles)
	assert.Equal(t, "Tác giả A", m.Author)
	assert.Equal(t, m.Author, m.Artist)
	assert.Equal(t, "Mô tả", m.Description)
	assert.Equal(t, "https://cdn.test/covers/b%C3%ACa%201.jpg", m.Image)
	assert.Equal(t, providers.StatusOngoing, m.Status)
	assert.False(t, m.Hentai)

	require.Len(t, m.Tags, 1)
	assert.Equal(t, "Genres", m.Tags[0].Label)
	assert.Equal(t, []providers.Tag{
		{ID: "/the-loai/action", Label: "Action"},
		{ID: "Drama", Label: "Drama"},
	}, m.Tags[0].Tags)

	assert.Equal(t, []string{"/truyen/x"}, fs.requests())
}

func TestFetchMangaDetailsCompletedAndOptionalFields(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/truyen/y", "text/html", `<div class="title"><h1>Only Title</h1></div><div class="status">Hoàn thành</div>`)
	src := fs.source(t)

	m, err := src.FetchMangaDetails(context.Background(), fs.srv.URL+"/truyen/y::9")
	require.NoError(t, err)

	assert.Equal(t, providers.StatusCompleted, m.Status)
	assert.Empty(t, m.Author)
	assert.Empty(t, m.Description)
	assert.Empty(t, m.Image)
	assert.Empty(t, m.Tags[0].Tags)
}

func TestFetchMangaDetailsMissingTitle(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/truyen/z", "text/html", `<div class="author">A</div>`)
	src := fs.source(t)

	_, err := src.FetchMangaDetails(context.Background(), fs.srv.URL+"/truyen/z::1")
	assert.ErrorIs(t, err, providers.ErrParse)
}

func TestFetchMangaDetailsHTTPError(t *testing.T) {
	fs := newFakeSite(t)
	src := fs.source(t)

	_, err := src.FetchMangaDetails(context.Background(), fs.srv.URL+"/missing::1")
	var se *util.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestFetchChapters(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/api/comic/123/chapter", "application/json", `{"result":{"chapters":[
		{"numberChapter":"10","name":"Chương 10","stringUpdateTime":"5 phút trước"},
		{"numberChapter":10.50,"name":"Chương 10.5","stringUpdateTime":"2 ngày trước"},
		{"numberChapter":"extra","name":"Ngoại truyện","stringUpdateTime":"1 năm"},
		{"numberChapter":"11.0","name":"Chương 11","stringUpdateTime":"1 giờ"}
	]}}`)
	src := fs.source(t)

	now := time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)
	src.now = func() time.Time { return now }

	mangaURL := "https://site.test/truyen/x"
	chapters, err := src.FetchChapters(context.Background(), mangaURL+"::123")
	require.NoError(t, err)
	require.Len(t, chapters, 3)

	assert.Equal(t, providers.Chapter{
		ID:       mangaURL + "/chuong-10",
		MangaID:  mangaURL + "::123",
		ChapNum:  10,
		Name:     "Chương 10",
		LangCode: "vi",
		Time:     now.Add(-5 * time.Minute),
	}, chapters[0])

	assert.Equal(t, mangaURL+"/chuong-10.5", chapters[1].ID)
	assert.Equal(t, 10.5, chapters[1].ChapNum)
	assert.True(t, now.AddDate(0, 0, -2).Equal(chapters[1].Time))

	// quoted numbers keep the site's own spelling
	assert.Equal(t, mangaURL+"/chuong-11.0", chapters[2].ID)
	assert.Equal(t, 11.0, chapters[2].ChapNum)

	require.Len(t, fs.requests(), 1)
	assert.Contains(t, fs.requests()[0], "/api/comic/123/chapter?")
	assert.Contains(t, fs.requests()[0], "limit=-1")
	assert.Contains(t, fs.requests()[0], "offset=0")
}

func TestFetchChaptersInvalidID(t *testing.T) {
	fs := newFakeSite(t)
	src := fs.source(t)

	_, err := src.FetchChapters(context.Background(), "https://site.test/truyen/x")
	assert.ErrorIs(t, err, providers.ErrInvalidID)
	assert.Empty(t, fs.requests())
}

func TestFetchChaptersMalformed(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/api/comic/1/chapter", "application/json", `{"result":{"comics":[]}}`)
	src := fs.source(t)

	_, err := src.FetchChapters(context.Background(), "https://site.test/truyen/x::1")
	assert.ErrorIs(t, err, providers.ErrMalformedPayload)
}

func TestFetchChapterDetails(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/truyen/x/chuong-1", "text/html", chapterHTML)
	src := fs.source(t)

	chapterID := fs.srv.URL + "/truyen/x/chuong-1"
	cd, err := src.FetchChapterDetails(context.Background(), "m::1", chapterID)
	require.NoError(t, err)

	assert.Equal(t, chapterID, cd.ID)
	assert.Equal(t, "m::1", cd.MangaID)
	assert.False(t, cd.LongStrip)
	assert.Equal(t, []string{
		"https://cdn.test/p/1.jpg",
		"https://cdn.test/p/2%20b.jpg",
		fs.srv.URL + "/p/3.jpg",
		"https://cdn.test/p/1.jpg",
	}, cd.Pages)
}

func TestFetchChapterDetailsEmpty(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/c", "text/html", `<div class="viewer"></div>`)
	src := fs.source(t)

	cd, err := src.FetchChapterDetails(context.Background(), "m::1", fs.srv.URL+"/c")
	require.NoError(t, err)
	assert.NotNil(t, cd.Pages)
	assert.Empty(t, cd.Pages)
}

func TestFetchHomeSections(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/api/comic/search/view", "application/json", comicsJSON(12))
	fs.handle("/api/comic/search/recent", "application/json", comicsJSON(3))
	fs.handle("/api/comic/search/new", "application/json", comicsJSON(0))
	src := fs.source(t)

	var got []providers.HomeSection
	err := src.FetchHomeSections(context.Background(), func(hs providers.HomeSection) {
		got = append(got, hs)
	})
	require.NoError(t, err)
	require.Len(t, got, 6)

	wantIDs := []string{"hot", "hot", "new_updated", "new_updated", "new_added", "new_added"}
	wantLens := []int{0, 10, 0, 3, 0, 0}
	for i, hs := range got {
		assert.Equal(t, wantIDs[i], hs.ID)
		assert.True(t, hs.ViewMore)
		assert.Len(t, hs.Items, wantLens[i], "emission %d", i)
	}
	assert.Equal(t, "Truyện đề xuất", got[0].Title)

	assert.Equal(t, []string{
		"/api/comic/search/view?p=0",
		"/api/comic/search/recent?p=0",
		"/api/comic/search/new?p=0",
	}, fs.requests())
}

func TestFetchHomeSectionsStopsOnError(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/api/comic/search/view", "application/json", comicsJSON(1))
	src := fs.source(t)

	var got []providers.HomeSection
	err := src.FetchHomeSections(context.Background(), func(hs providers.HomeSection) {
		got = append(got, hs)
	})
	require.Error(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "new_updated", got[2].ID)
	assert.Empty(t, got[2].Items)
}

func TestFetchMoreItems(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/api/comic/search/recent", "application/json", comicsJSON(2))
	src := fs.source(t)

	res, err := src.FetchMoreItems(context.Background(), "new_updated", nil)
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)
	require.NotNil(t, res.Metadata)
	assert.Equal(t, 1, res.Metadata.Page)

	res, err = src.FetchMoreItems(context.Background(), "new_updated", res.Metadata)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Metadata.Page)

	assert.Equal(t, []string{
		"/api/comic/search/recent?p=0",
		"/api/comic/search/recent?p=1",
	}, fs.requests())
}

func TestFetchMoreItemsUnknownSection(t *testing.T) {
	fs := newFakeSite(t)
	src := fs.source(t)

	res, err := src.FetchMoreItems(context.Background(), "nope", &providers.PageMetadata{Page: 3})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Nil(t, res.Metadata)
	assert.Empty(t, fs.requests())
}

func TestSearchByTitle(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/api/comic/search", "application/json", comicsJSON(2))
	src := fs.source(t)

	res, err := src.Search(context.Background(), providers.SearchRequest{
		Title:        "đảo hải tặc",
		IncludedTags: []string{"1"},
	}, &providers.PageMetadata{Page: 4})
	require.NoError(t, err)

	assert.Len(t, res.Results, 2)
	assert.Nil(t, res.Metadata)
	assert.Equal(t, []string{"/api/comic/search?name=%C4%91%E1%BA%A3o+h%E1%BA%A3i+t%E1%BA%B7c"}, fs.requests())
}

func TestSearchByTag(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/api/comic/search/category", "application/json", comicsJSON(1))
	src := fs.source(t)

	res, err := src.Search(context.Background(), providers.SearchRequest{
		IncludedTags: []string{"7", "8"},
	}, &providers.PageMetadata{Page: 2})
	require.NoError(t, err)

	assert.Len(t, res.Results, 1)
	require.NotNil(t, res.Metadata)
	assert.Equal(t, 3, res.Metadata.Page)
	assert.Equal(t, []string{"/api/comic/search/category?p=2&value=7"}, fs.requests())
}

func TestSearchWithoutCriteria(t *testing.T) {
	fs := newFakeSite(t)
	src := fs.source(t)

	res, err := src.Search(context.Background(), providers.SearchRequest{}, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Results)
	assert.Nil(t, res.Metadata)
	assert.Empty(t, fs.requests())
}

func TestFetchTags(t *testing.T) {
	fs := newFakeSite(t)
	fs.handle("/api/category", "application/json", `{"result":[{"id":1,"name":"Action"},{"id":"tien-hiep","name":"Tiên hiệp"}]}`)
	src := fs.source(t)

	sections, err := src.FetchTags(context.Background())
	require.NoError(t, err)

	require.Len(t, sections, 1)
	assert.Equal(t, "Thể loại", sections[0].Label)
	assert.Equal(t, []providers.Tag{
		{ID: "1", Label: "Action"},
		{ID: "tien-hiep", Label: "Tiên hiệp"},
	}, sections[0].Tags)
}

func TestAPIURLJoin(t *testing.T) {
	src := New(Config{APIURL: "https://api.test/"}, http.DefaultClient, nil)

	assert.Equal(t, "https://api.test/category", src.apiURL("/category", nil))
	assert.Equal(t, "https://api.test/comic/search/new?p=0", src.apiURL("comic/search/new", map[string][]string{"p": {"0"}}))
}
