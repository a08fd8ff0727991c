// Package playlist provides the Playlist domain entity.
package playlist

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yuteki/tunebox/internal/domain/track"
)

// SortCriteria selects the playlist track ordering.
type SortCriteria string

const (
	SortByDateAdded SortCriteria = "date_added"
	SortByTitle     SortCriteria = "title"
	SortByArtist    SortCriteria = "artist"
	SortByDuration  SortCriteria = "duration"
)

// Entry is one playlist element: a track plus the time it was added.
type Entry struct {
	Track   track.Track `json:"track"`
	AddedAt time.Time   `json:"added_at"`
}

// Playlist keeps tracks in insertion order and rejects duplicates by
// lowercased title+artist identity.
type Playlist struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []Entry   `json:"tracks"`
}

// New creates an empty playlist with a generated ID.
func New(name string) *Playlist {
	return &Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// identity builds the duplicate-detection key for a track.
func identity(t track.Track) string {
	return strings.ToLower(t.Title) + "|" + strings.ToLower(t.ArtistLabel())
}

// Contains reports whether an equivalent track is already listed.
func (p *Playlist) Contains(t track.Track) bool {
	key := identity(t)
	for _, e := range p.Entries {
		if identity(e.Track) == key {
			return true
		}
	}
	return false
}

// Append adds a track with the current timestamp. Returns false when an
// equivalent track is already present.
func (p *Playlist) Append(t track.Track) bool {
	if p.Contains(t) {
		return false
	}
	p.Entries = append(p.Entries, Entry{Track: t, AddedAt: time.Now()})
	return true
}

// Size returns the number of tracks.
func (p *Playlist) Size() int {
	return len(p.Entries)
}

// Tracks returns the tracks in their current order.
func (p *Playlist) Tracks() []track.Track {
	out := make([]track.Track, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.Track
	}
	return out
}

// TotalSeconds sums every track's duration. Malformed durations count as zero.
func (p *Playlist) TotalSeconds() int {
	total := 0
	for _, e := range p.Entries {
		secs, err := e.Track.Seconds()
		if err != nil {
			continue
		}
		total += secs
	}
	return total
}

// TotalDuration formats the cumulative duration, omitting the hour part for
// playlists shorter than an hour.
func (p *Playlist) TotalDuration() string {
	total := p.TotalSeconds()
	hrs := total / 3600
	mins := (total % 3600) / 60
	secs := total % 60
	if hrs > 0 {
		return fmt.Sprintf("%d hr %d min %d sec", hrs, mins, secs)
	}
	return fmt.Sprintf("%d min %d sec", mins, secs)
}

// Sort reorders the tracks in place. Every criteria falls through the full
// tie-break chain (title, primary artist, album, duration, date added) so the
// result is deterministic.
func (p *Playlist) Sort(criteria SortCriteria) {
	sort.SliceStable(p.Entries, func(i, j int) bool {
		return entryLess(p.Entries[i], p.Entries[j], criteria)
	})
}

func entryLess(a, b Entry, criteria SortCriteria) bool {
	titleCmp := strings.Compare(strings.ToLower(a.Track.Title), strings.ToLower(b.Track.Title))
	artistCmp := strings.Compare(strings.ToLower(a.Track.PrimaryArtist()), strings.ToLower(b.Track.PrimaryArtist()))
	albumCmp := strings.Compare(strings.ToLower(a.Track.Album), strings.ToLower(b.Track.Album))
	aSecs, _ := a.Track.Seconds()
	bSecs, _ := b.Track.Seconds()

	durCmp := 0
	if aSecs < bSecs {
		durCmp = -1
	} else if aSecs > bSecs {
		durCmp = 1
	}
	dateCmp := 0
	if a.AddedAt.Before(b.AddedAt) {
		dateCmp = -1
	} else if a.AddedAt.After(b.AddedAt) {
		dateCmp = 1
	}

	var chain []int
	switch criteria {
	case SortByTitle:
		chain = []int{titleCmp, artistCmp, albumCmp, durCmp, dateCmp}
	case SortByArtist:
		chain = []int{artistCmp, titleCmp, albumCmp, durCmp, dateCmp}
	case SortByDuration:
		chain = []int{durCmp, titleCmp, artistCmp, albumCmp, dateCmp}
	default: // SortByDateAdded
		chain = []int{dateCmp, titleCmp, artistCmp, albumCmp, durCmp}
	}

	for _, c := range chain {
		if c != 0 {
			return c < 0
		}
	}
	return false
}
