// Package track provides the Track domain entity.
package track

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Track represents a catalog track entity.
// Treated as an immutable value by every other component.
type Track struct {
	Title    string   // Track title
	Artists  []string // Artist names (one or more performers)
	Album    string   // Album name
	Duration string   // Track length in "mm:ss" format
}

// New creates a track from its four identity fields.
func New(title string, artists []string, album, duration string) Track {
	return Track{
		Title:    title,
		Artists:  artists,
		Album:    album,
		Duration: duration,
	}
}

// Equal reports whether two tracks denote the same recording.
// Title, album and artist names are compared case-insensitively;
// the duration string must match exactly.
func (t Track) Equal(other Track) bool {
	if !strings.EqualFold(t.Title, other.Title) {
		return false
	}
	if !strings.EqualFold(t.Album, other.Album) {
		return false
	}
	if t.Duration != other.Duration {
		return false
	}
	if len(t.Artists) != len(other.Artists) {
		return false
	}
	for i := range t.Artists {
		if !strings.EqualFold(t.Artists[i], other.Artists[i]) {
			return false
		}
	}
	return true
}

// Seconds converts the "mm:ss" duration to total seconds.
func (t Track) Seconds() (int, error) {
	parts := strings.Split(t.Duration, ":")
	if len(parts) != 2 {
		return 0, errors.Newf("invalid duration %q: want mm:ss", t.Duration)
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid minutes in duration %q", t.Duration)
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.Wrapf(err, "invalid seconds in duration %q", t.Duration)
	}
	return mins*60 + secs, nil
}

// PrimaryArtist returns the first listed artist, used for sorting.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// ArtistLabel returns all artists joined for display.
func (t Track) ArtistLabel() string {
	return strings.Join(t.Artists, ", ")
}

// Display formats the track for list rendering.
func (t Track) Display() string {
	return t.Title + " - " + t.ArtistLabel() + " (" + t.Duration + ")"
}

// Compare orders tracks by lowercased title, then primary artist, then album,
// then duration in seconds. Returns negative/zero/positive like strings.Compare.
// A zero result means the two tracks are catalog duplicates.
func (t Track) Compare(other Track) int {
	if c := strings.Compare(strings.ToLower(t.Title), strings.ToLower(other.Title)); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(t.PrimaryArtist()), strings.ToLower(other.PrimaryArtist())); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(t.Album), strings.ToLower(other.Album)); c != 0 {
		return c
	}
	d1, _ := t.Seconds()
	d2, _ := other.Seconds()
	switch {
	case d1 < d2:
		return -1
	case d1 > d2:
		return 1
	default:
		return 0
	}
}

// trackJSON is the wire shape shared by every persisted file and import format.
// The artist field is a bare string for a single performer and an ordered list
// for multiple performers; readers accept both.
type trackJSON struct {
	Title    string          `json:"title"`
	Artist   json.RawMessage `json:"artist"`
	Album    string          `json:"album"`
	Duration string          `json:"duration"`
}

// MarshalJSON implements json.Marshaler.
func (t Track) MarshalJSON() ([]byte, error) {
	var artist any = t.Artists
	if len(t.Artists) == 1 {
		artist = t.Artists[0]
	}
	raw, err := json.Marshal(artist)
	if err != nil {
		return nil, err
	}
	return json.Marshal(trackJSON{
		Title:    t.Title,
		Artist:   raw,
		Album:    t.Album,
		Duration: t.Duration,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Track) UnmarshalJSON(data []byte) error {
	var w trackJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	artists, err := ParseArtists(w.Artist)
	if err != nil {
		return err
	}
	t.Title = w.Title
	t.Artists = artists
	t.Album = w.Album
	t.Duration = w.Duration
	return nil
}

// ParseArtists decodes an artist field that is either a single JSON string or
// an ordered JSON list of strings.
func ParseArtists(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, errors.New("missing artist field")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err != nil {
		return nil, errors.Wrap(err, "artist must be a string or a list of strings")
	}
	return many, nil
}

// SplitArtists turns a comma-separated artist field (CSV import, manual entry)
// into an ordered artist list with surrounding whitespace trimmed.
func SplitArtists(field string) []string {
	parts := strings.Split(field, ",")
	artists := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			artists = append(artists, s)
		}
	}
	return artists
}
