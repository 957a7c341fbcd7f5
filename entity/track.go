package entity

import "fmt"

// Track represents a single playable item as parsed
// from a search or recommendation result
type Track struct {
	ID         string `json:"identifier"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Length     int    `json:"length"` // in milliseconds, advisory only
	ArtworkURL string `json:"artworkUrl,omitempty"`
	URI        string `json:"uri"`
}

func NewTrack(id, title, author string, length int) *Track {
	return &Track{
		ID:         id,
		Title:      title,
		Author:     author,
		Length:     length,
		ArtworkURL: fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", id),
		URI:        fmt.Sprintf("https://www.youtube.com/watch?v=%s", id),
	}
}
