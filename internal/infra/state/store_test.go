package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuteki/tunebox/internal/app/queue"
	"github.com/yuteki/tunebox/internal/domain/album"
	"github.com/yuteki/tunebox/internal/domain/playlist"
	"github.com/yuteki/tunebox/internal/domain/track"
)

func TestStore_QueueRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	saved := queue.State{
		Tracks: []track.Track{
			track.New("Yesterday", []string{"The Beatles"}, "Help!", "02:05"),
			track.New("Under Pressure", []string{"Queen", "David Bowie"}, "Hot Space", "04:04"),
		},
		CurrentIndex: 1,
		Shuffled:     true,
		Repeat:       true,
		Playing:      true,
		OriginalOrder: []track.Track{
			track.New("Under Pressure", []string{"Queen", "David Bowie"}, "Hot Space", "04:04"),
			track.New("Yesterday", []string{"The Beatles"}, "Help!", "02:05"),
		},
	}
	require.NoError(t, store.SaveQueue(saved))

	loaded, err := store.LoadQueue()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestStore_QueueWireFormat(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	require.NoError(t, store.SaveQueue(queue.State{
		Tracks: []track.Track{
			track.New("Yesterday", []string{"The Beatles"}, "Help!", "02:05"),
			track.New("Under Pressure", []string{"Queen", "David Bowie"}, "Hot Space", "04:04"),
		},
		CurrentIndex: 0,
	}))

	data, err := os.ReadFile(filepath.Join(dir, "queue_state.json"))
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"tracks", "current_index", "is_shuffled", "is_repeat", "is_playing", "original_order"} {
		assert.Contains(t, raw, key)
	}

	// Single artist serializes as a string, multiple as an ordered list.
	var tracks []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["tracks"], &tracks))
	require.Len(t, tracks, 2)
	assert.JSONEq(t, `"The Beatles"`, string(tracks[0]["artist"]))
	assert.JSONEq(t, `["Queen","David Bowie"]`, string(tracks[1]["artist"]))
}

func TestStore_LoadQueueFailsClosed(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)

	_, err := store.LoadQueue()
	assert.Error(t, err, "missing state file is reported, not invented")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "queue_state.json"), []byte("{not json"), 0644))
	_, err = store.LoadQueue()
	assert.Error(t, err, "malformed state file is reported, not fatal")
}

func TestStore_LoadQueueAcceptsBothArtistForms(t *testing.T) {
	dir := t.TempDir()
	payload := `{
        "tracks": [
            {"title": "Yesterday", "artist": "The Beatles", "album": "Help!", "duration": "02:05"},
            {"title": "Under Pressure", "artist": ["Queen", "David Bowie"], "album": "Hot Space", "duration": "04:04"}
        ],
        "current_index": -1,
        "is_shuffled": false,
        "is_repeat": false,
        "is_playing": false,
        "original_order": []
    }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "queue_state.json"), []byte(payload), 0644))

	loaded, err := New(dir).LoadQueue()
	require.NoError(t, err)
	require.Len(t, loaded.Tracks, 2)
	assert.Equal(t, []string{"The Beatles"}, loaded.Tracks[0].Artists)
	assert.Equal(t, []string{"Queen", "David Bowie"}, loaded.Tracks[1].Artists)
	assert.Equal(t, -1, loaded.CurrentIndex)
}

func TestStore_LibraryRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	missing, err := store.LoadLibrary()
	require.NoError(t, err, "missing library file means an empty catalog")
	assert.Empty(t, missing)

	tracks := []track.Track{
		track.New("Angel", []string{"Massive Attack"}, "Mezzanine", "06:18"),
		track.New("Teardrop", []string{"Massive Attack"}, "Mezzanine", "05:29"),
	}
	require.NoError(t, store.SaveLibrary(tracks))

	loaded, err := store.LoadLibrary()
	require.NoError(t, err)
	assert.Equal(t, tracks, loaded)
}

func TestStore_AlbumsAndPlaylistsRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	a := album.New("Mezzanine")
	a.Append(track.New("Angel", []string{"Massive Attack"}, "Mezzanine", "06:18"))
	require.NoError(t, store.SaveAlbums([]*album.Album{a}))

	albums, err := store.LoadAlbums()
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, "Mezzanine", albums[0].Name)
	assert.Equal(t, 1, albums[0].TrackCount())

	p := playlist.New("Night Drive")
	p.Append(track.New("Angel", []string{"Massive Attack"}, "Mezzanine", "06:18"))
	require.NoError(t, store.SavePlaylists([]*playlist.Playlist{p}))

	playlists, err := store.LoadPlaylists()
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, p.ID, playlists[0].ID)
	assert.Equal(t, "Night Drive", playlists[0].Name)
	require.Equal(t, 1, playlists[0].Size())
	assert.True(t, playlists[0].Tracks()[0].Equal(p.Tracks()[0]))
}
