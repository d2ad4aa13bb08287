// Package baotang implements providers.Source for BaoTangTruyenTranh. Manga
// pages and chapter readers are scraped from the site's HTML, while chapter
// lists, listings, search and categories come from its companion JSON API.
package baotang
