// Package state persists catalog and queue data as JSON files under a
// single storage directory.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/yuteki/tunebox/internal/app/queue"
	"github.com/yuteki/tunebox/internal/domain/album"
	"github.com/yuteki/tunebox/internal/domain/playlist"
	"github.com/yuteki/tunebox/internal/domain/track"
)

// File names inside the storage directory.
const (
	queueStateFile = "queue_state.json"
	libraryFile    = "library_data.json"
	albumsFile     = "album_data.json"
	playlistsFile  = "playlist_data.json"
)

var _ queue.Store = (*Store)(nil)

// Store reads and writes the durable JSON files. Writes replace the whole
// file; with a single process and synchronous operations there is no partial
// state to expose.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// queueStateJSON is the durable queue format. The shape is stable across
// restarts and releases: full sequence head to tail, zero-based active index
// (-1 for none), the three mode flags and the pre-shuffle original order.
type queueStateJSON struct {
	Tracks        []track.Track `json:"tracks"`
	CurrentIndex  int           `json:"current_index"`
	IsShuffled    bool          `json:"is_shuffled"`
	IsRepeat      bool          `json:"is_repeat"`
	IsPlaying     bool          `json:"is_playing"`
	OriginalOrder []track.Track `json:"original_order"`
}

// SaveQueue writes a queue snapshot. Implements queue.Store.
func (s *Store) SaveQueue(st queue.State) error {
	return s.writeFile(queueStateFile, queueStateJSON{
		Tracks:        st.Tracks,
		CurrentIndex:  st.CurrentIndex,
		IsShuffled:    st.Shuffled,
		IsRepeat:      st.Repeat,
		IsPlaying:     st.Playing,
		OriginalOrder: st.OriginalOrder,
	})
}

// LoadQueue reads the persisted queue snapshot. A missing or malformed file
// is an error for the caller to log; it must never be treated as fatal.
func (s *Store) LoadQueue() (queue.State, error) {
	var w queueStateJSON
	if err := s.readFile(queueStateFile, &w); err != nil {
		return queue.State{}, err
	}
	return queue.State{
		Tracks:        w.Tracks,
		CurrentIndex:  w.CurrentIndex,
		Shuffled:      w.IsShuffled,
		Repeat:        w.IsRepeat,
		Playing:       w.IsPlaying,
		OriginalOrder: w.OriginalOrder,
	}, nil
}

// SaveLibrary writes the catalog track list.
func (s *Store) SaveLibrary(tracks []track.Track) error {
	return s.writeFile(libraryFile, tracks)
}

// LoadLibrary reads the catalog track list. A missing file yields an empty
// library rather than an error.
func (s *Store) LoadLibrary() ([]track.Track, error) {
	var tracks []track.Track
	if err := s.readFile(libraryFile, &tracks); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return tracks, nil
}

// SaveAlbums writes the album collection.
func (s *Store) SaveAlbums(albums []*album.Album) error {
	return s.writeFile(albumsFile, albums)
}

// LoadAlbums reads the album collection; missing file yields none.
func (s *Store) LoadAlbums() ([]*album.Album, error) {
	var albums []*album.Album
	if err := s.readFile(albumsFile, &albums); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return albums, nil
}

// SavePlaylists writes the playlist collection.
func (s *Store) SavePlaylists(playlists []*playlist.Playlist) error {
	return s.writeFile(playlistsFile, playlists)
}

// LoadPlaylists reads the playlist collection; missing file yields none.
func (s *Store) LoadPlaylists() ([]*playlist.Playlist, error) {
	var playlists []*playlist.Playlist
	if err := s.readFile(playlistsFile, &playlists); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return playlists, nil
}

func (s *Store) writeFile(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create storage dir %s", s.dir)
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "failed to serialize %s", name)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

func (s *Store) readFile(name string, v any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}
	return nil
}
