// Package queue implements the playback queue engine: an ordered,
// bidirectionally navigable track sequence with an active cursor,
// shuffle/repeat modes and durable state snapshots.
package queue

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/yuteki/tunebox/internal/domain/track"
)

// pageSize is the fixed number of tracks per rendered page.
const pageSize = 10

// Store persists queue state snapshots.
type Store interface {
	SaveQueue(s State) error
}

// State is a serializable snapshot of the queue. CurrentIndex is the
// zero-based position of the active track, -1 when there is none.
type State struct {
	Tracks        []track.Track
	CurrentIndex  int
	Shuffled      bool
	Repeat        bool
	Playing       bool
	OriginalOrder []track.Track
}

// node is one element of the doubly-linked sequence. Nodes are owned
// exclusively by the queue; callers only ever see track values.
type node struct {
	track track.Track
	next  *node
	prev  *node
}

// Queue manages the playback queue. Every public operation acquires the
// mutex for its full mutate-then-persist span, so each operation is atomic
// with respect to the others.
type Queue struct {
	mu sync.RWMutex

	head   *node
	tail   *node
	active *node
	size   int

	shuffled bool
	repeat   bool
	playing  bool

	// original keeps the insertion-order sequence independent of shuffling.
	// It only grows (un-shuffle merges late arrivals) until Clear.
	original []track.Track

	store Store
	rng   *rand.Rand
}

// New creates an empty queue. store may be nil (no persistence).
// rng may be nil, in which case a time-seeded source is used.
func New(store Store, rng *rand.Rand) *Queue {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Queue{store: store, rng: rng}
}

// Add appends a track at the tail unless an equal track is already queued.
// Returns false without mutation on a duplicate. Persistence is the caller's
// responsibility (see Persist), so bulk loads write once.
func (q *Queue) Add(t track.Track) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.addLocked(t)
}

func (q *Queue) addLocked(t track.Track) bool {
	for n := q.head; n != nil; n = n.next {
		if n.track.Equal(t) {
			zlog.Debug().Msgf("queue: track already queued, skipping: %s", t.Display())
			return false
		}
	}

	n := &node{track: t}
	if q.head == nil {
		q.head = n
		q.tail = n
		q.active = n
	} else {
		n.prev = q.tail
		q.tail.next = n
		q.tail = n
	}
	q.size++

	if !q.shuffled {
		q.original = append(q.original, t)
	}
	return true
}

// Load adds each track in order and persists once at the end.
// Returns the number of tracks actually added.
func (q *Queue) Load(tracks []track.Track) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	added := 0
	for _, t := range tracks {
		if q.addLocked(t) {
			added++
		}
	}
	q.persistLocked()
	return added
}

// Play marks playback as active. When repeat is off and the cursor already
// sits on the tail, it rewinds to the head so resuming restarts from the top.
func (q *Queue) Play() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.repeat && q.active != nil && q.active == q.tail {
		q.active = q.head
	}
	q.playing = true
	q.persistLocked()
}

// Pause marks playback as paused.
func (q *Queue) Pause() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.playing = false
	q.persistLocked()
}

// Next advances the cursor to the following track. At the tail it wraps to
// the head when repeat is on; otherwise playback stops and no track is
// returned (end of queue is a defined outcome, not an error).
func (q *Queue) Next() (track.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.active == nil {
		return track.Track{}, false
	}

	switch {
	case q.active.next != nil:
		q.active = q.active.next
	case q.repeat:
		q.active = q.head
	default:
		q.playing = false
		q.persistLocked()
		return track.Track{}, false
	}

	q.persistLocked()
	return q.active.track, true
}

// Prev moves the cursor to the preceding track. At the head it wraps to the
// tail when repeat is on, otherwise it stays put. Returns the (possibly
// unchanged) active track; false only when the queue is empty.
func (q *Queue) Prev() (track.Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.active == nil {
		return track.Track{}, false
	}

	if q.active.prev != nil {
		q.active = q.active.prev
	} else if q.repeat {
		q.active = q.tail
	}

	q.persistLocked()
	return q.active.track, true
}

// Shuffle randomizes the not-yet-played portion of the queue. Tracks before
// the active cursor keep their order (history is never reshuffled), the
// active track stays in place, and only the tracks after it are permuted.
// Without a cursor (a restored snapshot may carry none) the whole queue is
// unplayed, so everything shuffles and the cursor lands on the new head.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shuffled || q.size <= 1 {
		return
	}

	if len(q.original) == 0 {
		for n := q.head; n != nil; n = n.next {
			q.original = append(q.original, n.track)
		}
	}

	var preceding, following []track.Track
	activeSeen := false
	for n := q.head; n != nil; n = n.next {
		switch {
		case q.active != nil && n == q.active:
			activeSeen = true
		case !activeSeen && q.active != nil:
			preceding = append(preceding, n.track)
		default:
			following = append(following, n.track)
		}
	}

	q.rng.Shuffle(len(following), func(i, j int) {
		following[i], following[j] = following[j], following[i]
	})

	rebuilt := make([]track.Track, 0, q.size)
	rebuilt = append(rebuilt, preceding...)
	if q.active != nil {
		rebuilt = append(rebuilt, q.active.track)
	}
	rebuilt = append(rebuilt, following...)
	q.rebuildLocked(rebuilt)
	q.active = q.nodeAtLocked(len(preceding))

	q.shuffled = true
	q.persistLocked()
}

// RestoreOrder rebuilds the queue in original insertion order. Tracks added
// while shuffled are appended to the end, in their current relative order,
// and become part of the original order from then on. The active cursor is
// re-located by track equality, falling back to the head.
func (q *Queue) RestoreOrder() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.shuffled {
		return
	}

	var activeTrack track.Track
	hasActive := q.active != nil
	if hasActive {
		activeTrack = q.active.track
	}

	for n := q.head; n != nil; n = n.next {
		if !containsTrack(q.original, n.track) {
			q.original = append(q.original, n.track)
		}
	}

	q.rebuildLocked(q.original)

	q.active = nil
	if hasActive {
		for n := q.head; n != nil; n = n.next {
			if n.track.Equal(activeTrack) {
				q.active = n
				break
			}
		}
	}
	if q.active == nil {
		q.active = q.head
	}

	q.shuffled = false
	q.persistLocked()
}

// ToggleRepeat flips repeat mode and returns the new value.
func (q *Queue) ToggleRepeat() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.repeat = !q.repeat
	q.persistLocked()
	return q.repeat
}

// Clear resets the queue to its empty state.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.head = nil
	q.tail = nil
	q.active = nil
	q.size = 0
	q.shuffled = false
	q.repeat = false
	q.playing = false
	q.original = nil
	q.persistLocked()
}

// Current returns the active track, if any.
func (q *Queue) Current() (track.Track, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.active == nil {
		return track.Track{}, false
	}
	return q.active.track, true
}

// Size returns the number of queued tracks.
func (q *Queue) Size() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.size
}

// IsPlaying reports the playback transport state.
func (q *Queue) IsPlaying() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.playing
}

// IsShuffled reports whether the queue is in shuffled order.
func (q *Queue) IsShuffled() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.shuffled
}

// IsRepeatOn reports whether repeat mode is enabled.
func (q *Queue) IsRepeatOn() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.repeat
}

// TotalDuration sums every track's duration and formats it as whole hours
// and minutes, seconds truncated. Malformed durations count as zero.
func (q *Queue) TotalDuration() string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.totalDurationLocked()
}

func (q *Queue) totalDurationLocked() string {
	total := 0
	for n := q.head; n != nil; n = n.next {
		secs, err := n.track.Seconds()
		if err != nil {
			zlog.Warn().Err(err).Msgf("queue: unparseable duration for %q", n.track.Title)
			continue
		}
		total += secs
	}
	return fmt.Sprintf("%d hr %d min", total/3600, (total%3600)/60)
}

// CurrentPage returns the 1-based page that contains the active track,
// clamped to the last page. Page 1 when the queue has no active track.
func (q *Queue) CurrentPage() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.active == nil {
		return 1
	}

	pos := 0
	for n := q.head; n != nil && n != q.active; n = n.next {
		pos++
	}

	page := pos/pageSize + 1
	if last := totalPages(q.size); page > last {
		page = last
	}
	return page
}

// Tracks returns a head-to-tail snapshot of the queued tracks.
func (q *Queue) Tracks() []track.Track {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]track.Track, 0, q.size)
	for n := q.head; n != nil; n = n.next {
		out = append(out, n.track)
	}
	return out
}

// Persist writes the current state to the store. Exposed for the Add
// boundary, where the caller decides when a batch is complete.
func (q *Queue) Persist() error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.store == nil {
		return nil
	}
	return q.store.SaveQueue(q.stateLocked())
}

// State returns a snapshot suitable for persistence.
func (q *Queue) State() State {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.stateLocked()
}

func (q *Queue) stateLocked() State {
	s := State{
		Tracks:        make([]track.Track, 0, q.size),
		CurrentIndex:  -1,
		Shuffled:      q.shuffled,
		Repeat:        q.repeat,
		Playing:       q.playing,
		OriginalOrder: append([]track.Track(nil), q.original...),
	}
	pos := 0
	for n := q.head; n != nil; n = n.next {
		s.Tracks = append(s.Tracks, n.track)
		if n == q.active {
			s.CurrentIndex = pos
		}
		pos++
	}
	return s
}

// Restore replaces the queue contents from a persisted snapshot. A stored
// index beyond the track list is clamped to the last valid position; an
// empty track list leaves the queue without an active cursor.
func (q *Queue) Restore(s State) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.rebuildLocked(s.Tracks)

	q.active = nil
	if q.size > 0 && s.CurrentIndex >= 0 {
		idx := s.CurrentIndex
		if idx >= q.size {
			zlog.Warn().Msgf("queue: stored index %d beyond %d tracks, clamping", s.CurrentIndex, q.size)
			idx = q.size - 1
		}
		q.active = q.nodeAtLocked(idx)
	}

	q.shuffled = s.Shuffled
	q.repeat = s.Repeat
	q.playing = s.Playing
	q.original = append([]track.Track(nil), s.OriginalOrder...)
}

// rebuildLocked replaces the linked sequence with the given tracks.
// The active cursor is left unset.
func (q *Queue) rebuildLocked(tracks []track.Track) {
	q.head = nil
	q.tail = nil
	q.active = nil
	q.size = 0

	for _, t := range tracks {
		n := &node{track: t}
		if q.head == nil {
			q.head = n
		} else {
			n.prev = q.tail
			q.tail.next = n
		}
		q.tail = n
		q.size++
	}
}

// nodeAtLocked walks idx steps from the head. idx must be within bounds.
func (q *Queue) nodeAtLocked(idx int) *node {
	n := q.head
	for i := 0; i < idx; i++ {
		n = n.next
	}
	return n
}

// persistLocked writes the state after a mutation. A write failure leaves
// the in-memory queue untouched and is only logged: the tool keeps working
// with stale on-disk state rather than halting.
func (q *Queue) persistLocked() {
	if q.store == nil {
		return
	}
	if err := q.store.SaveQueue(q.stateLocked()); err != nil {
		zlog.Warn().Err(err).Msg("queue: failed to persist state")
	}
}

func containsTrack(list []track.Track, t track.Track) bool {
	for _, o := range list {
		if o.Equal(t) {
			return true
		}
	}
	return false
}

func totalPages(count int) int {
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}
