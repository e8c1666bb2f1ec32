package model

import (
	"time"
)

// PlaylistEntry represents a single video in a playlist
type PlaylistEntry struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
	URL      string `json:"url"`
}

// Playlist represents a YouTube playlist listing
type Playlist struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	URL       string           `json:"url"`
	Entries   []*PlaylistEntry `json:"entries"`
	CreatedAt time.Time        `json:"created_at"`
}

// Len returns the number of entries in the playlist
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Entries)
}
