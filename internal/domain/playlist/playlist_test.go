package playlist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuteki/tunebox/internal/domain/track"
)

func TestPlaylist_AppendRejectsDuplicates(t *testing.T) {
	p := New("Road Trip")

	require.True(t, p.Append(track.New("Alpha", []string{"Artist"}, "Album", "03:00")))
	require.True(t, p.Append(track.New("Beta", []string{"Artist"}, "Album", "03:00")))

	// Duplicate identity is lowercased title+artist, album and duration ignored.
	assert.False(t, p.Append(track.New("ALPHA", []string{"ARTIST"}, "Other Album", "09:59")))
	assert.Equal(t, 2, p.Size())

	// Same title by a different artist is a distinct entry.
	assert.True(t, p.Append(track.New("Alpha", []string{"Someone Else"}, "Album", "03:00")))
	assert.Equal(t, 3, p.Size())
}

func TestPlaylist_NewAssignsIdentity(t *testing.T) {
	p := New("Focus")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Focus", p.Name)
	assert.False(t, p.CreatedAt.IsZero())

	other := New("Focus")
	assert.NotEqual(t, p.ID, other.ID)
}

func TestPlaylist_TotalDuration(t *testing.T) {
	tests := []struct {
		name      string
		durations []string
		expected  string
	}{
		{name: "empty", durations: nil, expected: "0 min 0 sec"},
		{name: "under an hour", durations: []string{"03:30", "04:45"}, expected: "8 min 15 sec"},
		{name: "over an hour", durations: []string{"45:00", "20:30"}, expected: "1 hr 5 min 30 sec"},
		{name: "malformed entries count as zero", durations: []string{"03:00", "oops"}, expected: "3 min 0 sec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.name)
			for i, d := range tt.durations {
				p.Append(track.New("T"+string(rune('A'+i)), []string{"X"}, "Y", d))
			}
			assert.Equal(t, tt.expected, p.TotalDuration())
		})
	}
}

func TestPlaylist_Sort(t *testing.T) {
	now := time.Now()
	p := New("Mixed")
	p.Entries = []Entry{
		{Track: track.New("Charlie", []string{"Zeta"}, "A1", "02:00"), AddedAt: now.Add(1 * time.Minute)},
		{Track: track.New("alpha", []string{"Mu"}, "A2", "05:00"), AddedAt: now.Add(3 * time.Minute)},
		{Track: track.New("Bravo", []string{"Kappa"}, "A3", "01:00"), AddedAt: now.Add(2 * time.Minute)},
	}

	titles := func() []string {
		out := make([]string, 0, p.Size())
		for _, tr := range p.Tracks() {
			out = append(out, tr.Title)
		}
		return out
	}

	p.Sort(SortByTitle)
	assert.Equal(t, []string{"alpha", "Bravo", "Charlie"}, titles())

	p.Sort(SortByArtist)
	assert.Equal(t, []string{"Bravo", "alpha", "Charlie"}, titles())

	p.Sort(SortByDuration)
	assert.Equal(t, []string{"Bravo", "Charlie", "alpha"}, titles())

	p.Sort(SortByDateAdded)
	assert.Equal(t, []string{"Charlie", "Bravo", "alpha"}, titles())
}

func TestPlaylist_SortTieBreaksOnArtist(t *testing.T) {
	p := New("Covers")
	p.Entries = []Entry{
		{Track: track.New("Same Song", []string{"Zeta"}, "A", "03:00"), AddedAt: time.Now()},
		{Track: track.New("Same Song", []string{"Alpha"}, "A", "03:00"), AddedAt: time.Now()},
	}

	p.Sort(SortByTitle)
	assert.Equal(t, "Alpha", p.Entries[0].Track.PrimaryArtist())
}
