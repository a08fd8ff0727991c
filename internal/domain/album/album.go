// Package album provides the Album domain entity.
package album

import (
	"fmt"

	"github.com/yuteki/tunebox/internal/domain/track"
)

// Album groups the catalog tracks that share an album name.
type Album struct {
	Name   string        `json:"name"`
	Tracks []track.Track `json:"tracks"`
}

// New creates an empty album.
func New(name string) *Album {
	return &Album{Name: name}
}

// Append adds a track unless an equal track is already in the album.
func (a *Album) Append(t track.Track) bool {
	for _, existing := range a.Tracks {
		if existing.Equal(t) {
			return false
		}
	}
	a.Tracks = append(a.Tracks, t)
	return true
}

// TrackCount returns the number of tracks in the album.
func (a *Album) TrackCount() int {
	return len(a.Tracks)
}

// TotalDuration formats the cumulative track duration. Albums shorter than
// an hour omit the hour part. Malformed durations count as zero.
func (a *Album) TotalDuration() string {
	total := 0
	for _, t := range a.Tracks {
		secs, err := t.Seconds()
		if err != nil {
			continue
		}
		total += secs
	}

	hrs := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hrs > 0 {
		return fmt.Sprintf("%d hr %d min %d sec", hrs, mins, secs)
	}
	return fmt.Sprintf("%d min %d sec", mins, secs)
}
