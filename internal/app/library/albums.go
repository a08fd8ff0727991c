package library

import (
	"github.com/yuteki/tunebox/internal/domain/album"
	"github.com/yuteki/tunebox/internal/domain/track"
)

// AlbumIndex groups cataloged tracks by album name, preserving the order in
// which albums were first seen. Not safe for concurrent use on its own; the
// owning Library serializes access.
type AlbumIndex struct {
	byName map[string]*album.Album
	names  []string
}

func newAlbumIndex() *AlbumIndex {
	return &AlbumIndex{byName: make(map[string]*album.Album)}
}

// file adds a track to its album, creating the album on first sight.
func (ai *AlbumIndex) file(t track.Track) {
	a, ok := ai.byName[t.Album]
	if !ok {
		a = album.New(t.Album)
		ai.byName[t.Album] = a
		ai.names = append(ai.names, t.Album)
	}
	a.Append(t)
}

// put registers a loaded album, replacing any rebuilt entry.
func (ai *AlbumIndex) put(a *album.Album) {
	if _, ok := ai.byName[a.Name]; !ok {
		ai.names = append(ai.names, a.Name)
	}
	ai.byName[a.Name] = a
}

// Get returns the album with the given name.
func (ai *AlbumIndex) Get(name string) (*album.Album, bool) {
	a, ok := ai.byName[name]
	return a, ok
}

// Names returns the album names in first-seen order.
func (ai *AlbumIndex) Names() []string {
	return append([]string(nil), ai.names...)
}

// All returns the albums in first-seen order.
func (ai *AlbumIndex) All() []*album.Album {
	out := make([]*album.Album, 0, len(ai.names))
	for _, name := range ai.names {
		out = append(out, ai.byName[name])
	}
	return out
}

// AlbumAt returns the album at the given position in first-seen order.
func (ai *AlbumIndex) AlbumAt(idx int) (*album.Album, bool) {
	if idx < 0 || idx >= len(ai.names) {
		return nil, false
	}
	return ai.byName[ai.names[idx]], true
}
