// Package library manages the track catalog: a sorted track collection with
// duplicate rejection, title search and automatic album filing.
package library

import (
	"sort"
	"strings"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/yuteki/tunebox/internal/domain/album"
	"github.com/yuteki/tunebox/internal/domain/track"
)

// Store persists the catalog and its album index.
type Store interface {
	SaveLibrary(tracks []track.Track) error
	LoadLibrary() ([]track.Track, error)
	SaveAlbums(albums []*album.Album) error
	LoadAlbums() ([]*album.Album, error)
}

// Library keeps tracks ordered by title, primary artist, album and duration.
// Every added track is also filed into its album.
type Library struct {
	mu     sync.RWMutex
	tracks []track.Track // sorted by track.Compare
	albums *AlbumIndex
	store  Store
}

// Open creates a library backed by the given store and loads any persisted
// catalog. A load failure logs and starts empty rather than failing the tool.
func Open(store Store) *Library {
	l := &Library{albums: newAlbumIndex(), store: store}
	if store == nil {
		return l
	}

	tracks, err := store.LoadLibrary()
	if err != nil {
		zlog.Warn().Err(err).Msg("library: failed to load catalog, starting empty")
		return l
	}
	for _, t := range tracks {
		l.insert(t)
	}

	albums, err := store.LoadAlbums()
	switch {
	case err != nil:
		zlog.Warn().Err(err).Msg("library: failed to load albums, rebuilding")
		l.refileAlbums()
	case len(albums) == 0 && len(l.tracks) > 0:
		l.refileAlbums()
	default:
		for _, a := range albums {
			l.albums.put(a)
		}
	}
	return l
}

// Add inserts a track in sorted position. Returns false without mutation if
// an equivalent track (full four-field tie) is already cataloged.
func (l *Library) Add(t track.Track) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.insert(t) {
		return false
	}
	l.albums.file(t)
	l.persistLocked()
	return true
}

// insert places t in sorted order; false on duplicate.
func (l *Library) insert(t track.Track) bool {
	idx := sort.Search(len(l.tracks), func(i int) bool {
		return l.tracks[i].Compare(t) >= 0
	})
	if idx < len(l.tracks) && l.tracks[idx].Compare(t) == 0 {
		return false
	}
	l.tracks = append(l.tracks, track.Track{})
	copy(l.tracks[idx+1:], l.tracks[idx:])
	l.tracks[idx] = t
	return true
}

// refileAlbums rebuilds the album index from the cataloged tracks.
func (l *Library) refileAlbums() {
	for _, t := range l.tracks {
		l.albums.file(t)
	}
}

// All returns the cataloged tracks in sorted order.
func (l *Library) All() []track.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]track.Track(nil), l.tracks...)
}

// Size returns the number of cataloged tracks.
func (l *Library) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tracks)
}

// TrackAt returns the track at the given sorted position.
func (l *Library) TrackAt(idx int) (track.Track, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if idx < 0 || idx >= len(l.tracks) {
		return track.Track{}, false
	}
	return l.tracks[idx], true
}

// SearchByTitle returns every track whose title contains the query,
// case-insensitively, in catalog order.
func (l *Library) SearchByTitle(query string) []track.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()

	q := strings.ToLower(query)
	var out []track.Track
	for _, t := range l.tracks {
		if strings.Contains(strings.ToLower(t.Title), q) {
			out = append(out, t)
		}
	}
	return out
}

// Albums exposes the album index.
func (l *Library) Albums() *AlbumIndex {
	return l.albums
}

// persistLocked writes the catalog and album files. Failures leave the
// in-memory catalog valid and are only logged.
func (l *Library) persistLocked() {
	if l.store == nil {
		return
	}
	if err := l.store.SaveLibrary(l.tracks); err != nil {
		zlog.Warn().Err(err).Msg("library: failed to persist catalog")
	}
	if err := l.store.SaveAlbums(l.albums.All()); err != nil {
		zlog.Warn().Err(err).Msg("library: failed to persist albums")
	}
}
