package baotang

import (
	"testing"

	"github.com/brogergvhs/baotang/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapTiles(t *testing.T) {
	body := []byte(`{"result":{"comics":[
		{"id":123,"url":"https://site.test/truyen/a","thumbUrl":"https://cdn.test/a.jpg","name":"A","lastChapter":{"name":"Chương 10"}},
		{"id":"b-slug","url":"https://site.test/truyen/b","thumbUrl":"https://cdn.test/b.jpg","name":"B"}
	]}}`)

	var resp comicListResponse
	require.NoError(t, decodePayload(body, &resp))

	tiles := MapTiles(resp.Result.Comics)
	require.Len(t, tiles, 2)

	assert.Equal(t, providers.Tile{
		ID:       "https://site.test/truyen/a::123",
		Image:    "https://cdn.test/a.jpg",
		Title:    "A",
		Subtitle: "Chương 10",
	}, tiles[0])

	assert.Equal(t, "https://site.test/truyen/b::b-slug", tiles[1].ID)
	assert.Equal(t, "", tiles[1].Subtitle)
}

func TestDecodePayloadMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		p    payload
	}{
		{"not json", `<html>`, &comicListResponse{}},
		{"no result", `{}`, &comicListResponse{}},
		{"no comics", `{"result":{}}`, &comicListResponse{}},
		{"null chapters", `{"result":{"chapters":null}}`, &chapterListResponse{}},
		{"no categories", `{"status":200}`, &categoryListResponse{}},
		{"bad id type", `{"result":[{"id":true,"name":"x"}]}`, &categoryListResponse{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodePayload([]byte(tt.body), tt.p)
			assert.ErrorIs(t, err, providers.ErrMalformedPayload)
		})
	}
}

func TestDecodePayloadEmptyLists(t *testing.T) {
	var comics comicListResponse
	require.NoError(t, decodePayload([]byte(`{"result":{"comics":[]}}`), &comics))
	assert.Empty(t, MapTiles(comics.Result.Comics))

	var cats categoryListResponse
	require.NoError(t, decodePayload([]byte(`{"result":[]}`), &cats))
	assert.Empty(t, mapTags(cats.Result))
}

func TestChapterNumber(t *testing.T) {
	n, ok := chapterNumber("10.5")
	assert.True(t, ok)
	assert.Equal(t, 10.5, n)

	for _, bad := range []flexString{"", "abc", "10a", "NaN", "Inf"} {
		_, ok := chapterNumber(bad)
		assert.False(t, ok, "value %q", bad)
	}
}
