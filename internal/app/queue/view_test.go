package queue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuteki/tunebox/internal/domain/track"
)

func TestRenderPage_Empty(t *testing.T) {
	q := New(nil, nil)
	assert.Equal(t, []string{"Queue is empty!"}, q.RenderPage(1))
}

func TestRenderPage_UpNextExcludesPlayedTracks(t *testing.T) {
	q := New(nil, nil)
	q.Load([]track.Track{tr("A"), tr("B"), tr("C"), tr("D")})
	q.Next() // active = B

	lines := q.RenderPage(1)

	assert.Contains(t, lines, "Currently Paused:")
	assert.Contains(t, lines, "    "+tr("B").Display())
	assert.Contains(t, lines, "Up Next:")
	assert.Contains(t, lines, "    (1) "+tr("C").Display())
	assert.Contains(t, lines, "    (2) "+tr("D").Display())
	assert.Contains(t, lines, "<Page 1 of 1>")

	// Neither the history nor the active track shows up in the listing.
	for _, line := range lines {
		assert.NotContains(t, line, ") "+tr("A").Display())
		assert.NotContains(t, line, ") "+tr("B").Display())
	}
}

func TestRenderPage_PlayingHeader(t *testing.T) {
	q := New(nil, nil)
	q.Load([]track.Track{tr("A"), tr("B")})
	q.Play()

	lines := q.RenderPage(1)
	assert.Contains(t, lines, "Currently Playing:")
	assert.Contains(t, lines, "Shuffled: No")
	assert.Contains(t, lines, "Repeat: No")
}

func TestRenderPage_RepeatWrapsAroundToFillPage(t *testing.T) {
	q := New(nil, nil)
	q.Load([]track.Track{tr("A"), tr("B"), tr("C"), tr("D"), tr("E")})
	q.ToggleRepeat()
	q.Next()
	q.Next() // active = C

	lines := q.RenderPage(1)

	// D, E follow; then the wrap continues from the head, stopping before C.
	assert.Contains(t, lines, "    (1) "+tr("D").Display())
	assert.Contains(t, lines, "    (2) "+tr("E").Display())
	assert.Contains(t, lines, "    (3) "+tr("A").Display())
	assert.Contains(t, lines, "    (4) "+tr("B").Display())
	for _, line := range lines {
		assert.NotContains(t, line, ") "+tr("C").Display())
	}
}

func TestRenderPage_NoWrapWithoutRepeat(t *testing.T) {
	q := New(nil, nil)
	q.Load([]track.Track{tr("A"), tr("B"), tr("C")})
	q.Next()
	q.Next() // active = C, nothing follows

	lines := q.RenderPage(1)
	assert.Contains(t, lines, "    (No more tracks in queue)")
	assert.Contains(t, lines, "<Page 1 of 1>")
}

func TestRenderPage_NoActiveShowsWholeSequence(t *testing.T) {
	q := New(nil, nil)
	q.Restore(State{Tracks: []track.Track{tr("A"), tr("B")}, CurrentIndex: -1})

	lines := q.RenderPage(1)
	assert.Contains(t, lines, "Queue:")
	assert.Contains(t, lines, "    (1) "+tr("A").Display())
	assert.Contains(t, lines, "    (2) "+tr("B").Display())
}

func TestRenderPage_Pagination(t *testing.T) {
	tracks := make([]track.Track, 24)
	for i := range tracks {
		tracks[i] = tr(fmt.Sprintf("Song %02d", i))
	}
	q := New(nil, nil)
	q.Load(tracks)
	// Active = Song 00, so 23 tracks follow: pages of 10, 10, 3.

	page1 := q.RenderPage(1)
	assert.Contains(t, page1, "    (1) "+tracks[1].Display())
	assert.Contains(t, page1, "    (10) "+tracks[10].Display())
	assert.Contains(t, page1, "<Page 1 of 3>")

	page3 := q.RenderPage(3)
	assert.Contains(t, page3, "    (21) "+tracks[21].Display())
	assert.Contains(t, page3, "    (23) "+tracks[23].Display())
	assert.Contains(t, page3, "<Page 3 of 3>")

	// Out-of-range requests clamp instead of rendering an empty page.
	clampedHigh := q.RenderPage(99)
	assert.Contains(t, clampedHigh, "<Page 3 of 3>")
	clampedLow := q.RenderPage(0)
	assert.Contains(t, clampedLow, "<Page 1 of 3>")
}

func TestRenderPage_HeaderCarriesTotals(t *testing.T) {
	q := New(nil, nil)
	q.Load([]track.Track{
		track.New("One", []string{"X"}, "Y", "31:00"),
		track.New("Two", []string{"X"}, "Y", "30:30"),
	})
	q.ToggleRepeat()
	q.Shuffle()

	lines := q.RenderPage(1)
	require.NotEmpty(t, lines)
	assert.Equal(t, "<----- TRACK QUEUE ----->", lines[0])
	assert.Contains(t, lines, "Total Duration: 1 hr 1 min")
	assert.Contains(t, lines, "Shuffled: Yes")
	assert.Contains(t, lines, "Repeat: Yes")
}
