package baotang

import "github.com/brogergvhs/baotang/internal/providers"

// MapTiles converts the comics of a search or listing payload into tiles.
// Search results and "view more" listings share the same shape.
func MapTiles(comics []comicPayload) []providers.Tile {
	out := make([]providers.Tile, 0, len(comics))
	for _, c := range comics {
		subtitle := ""
		if c.LastChapter != nil {
			subtitle = c.LastChapter.Name
		}

		out = append(out, providers.Tile{
			ID:       providers.ComposeID(c.URL, string(c.ID)),
			Image:    c.ThumbURL,
			Title:    c.Name,
			Subtitle: subtitle,
		})
	}

	return out
}

func mapTags(categories []categoryPayload) []providers.Tag {
	out := make([]providers.Tag, 0, len(categories))
	for _, c := range categories {
		out = append(out, providers.Tag{ID: string(c.ID), Label: c.Name})
	}

	return out
}
