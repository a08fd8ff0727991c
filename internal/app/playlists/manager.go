// Package playlists manages the named playlist collection.
package playlists

import (
	"sort"
	"strings"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/yuteki/tunebox/internal/domain/playlist"
	"github.com/yuteki/tunebox/internal/domain/track"
)

// Store persists the playlist collection.
type Store interface {
	SavePlaylists(playlists []*playlist.Playlist) error
	LoadPlaylists() ([]*playlist.Playlist, error)
}

// Manager owns every playlist, keyed by name, in first-created order.
type Manager struct {
	mu     sync.RWMutex
	byName map[string]*playlist.Playlist
	names  []string
	store  Store
}

// Open creates a manager backed by the given store and loads any persisted
// playlists. Load failures log and start empty.
func Open(store Store) *Manager {
	m := &Manager{byName: make(map[string]*playlist.Playlist), store: store}
	if store == nil {
		return m
	}

	loaded, err := store.LoadPlaylists()
	if err != nil {
		zlog.Warn().Err(err).Msg("playlists: failed to load, starting empty")
		return m
	}
	for _, p := range loaded {
		m.byName[p.Name] = p
		m.names = append(m.names, p.Name)
	}
	return m
}

// Create adds an empty playlist. Returns nil and false on a name conflict.
func (m *Manager) Create(name string) (*playlist.Playlist, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[name]; exists {
		return nil, false
	}
	p := playlist.New(name)
	m.byName[name] = p
	m.names = append(m.names, name)
	m.persistLocked()
	return p, true
}

// Get returns the playlist with the given name.
func (m *Manager) Get(name string) (*playlist.Playlist, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.byName[name]
	return p, ok
}

// Names returns the playlist names in first-created order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.names...)
}

// All returns the playlists in first-created order.
func (m *Manager) All() []*playlist.Playlist {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.allLocked()
}

func (m *Manager) allLocked() []*playlist.Playlist {
	out := make([]*playlist.Playlist, 0, len(m.names))
	for _, name := range m.names {
		out = append(out, m.byName[name])
	}
	return out
}

// Arrange returns the playlists sorted by the given criteria:
// "name", "duration" or "date_created" (the default).
func (m *Manager) Arrange(criteria string) []*playlist.Playlist {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := m.allLocked()
	switch criteria {
	case "name":
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	case "duration":
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].TotalSeconds() < out[j].TotalSeconds()
		})
	default: // date_created
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	}
	return out
}

// AppendTrack adds a track to the named playlist and persists.
// Returns false when the playlist does not exist or already has the track.
func (m *Manager) AppendTrack(name string, t track.Track) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.byName[name]
	if !ok {
		return false
	}
	if !p.Append(t) {
		return false
	}
	m.persistLocked()
	return true
}

// Persist writes the collection; exposed for batch boundaries such as import.
func (m *Manager) Persist() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.store == nil {
		return nil
	}
	return m.store.SavePlaylists(m.allLocked())
}

func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	if err := m.store.SavePlaylists(m.allLocked()); err != nil {
		zlog.Warn().Err(err).Msg("playlists: failed to persist")
	}
}
