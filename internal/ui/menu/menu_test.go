package menu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuteki/tunebox/internal/app/importer"
	"github.com/yuteki/tunebox/internal/app/library"
	"github.com/yuteki/tunebox/internal/app/playlists"
	"github.com/yuteki/tunebox/internal/app/queue"
	"github.com/yuteki/tunebox/internal/domain/track"
)

// run scripts a session: each input element is one line the user types.
func run(t *testing.T, lib *library.Library, pls *playlists.Manager, q *queue.Queue, input ...string) string {
	t.Helper()
	var out strings.Builder
	m := New(strings.NewReader(strings.Join(input, "\n")+"\n"), &out,
		lib, pls, q, importer.New(lib, pls))
	m.Run()
	return out.String()
}

func fixture() (*library.Library, *playlists.Manager, *queue.Queue) {
	return library.Open(nil), playlists.Open(nil), queue.New(nil, nil)
}

func TestMenu_Exit(t *testing.T) {
	lib, pls, q := fixture()
	out := run(t, lib, pls, q, "0")
	assert.Contains(t, out, "LISTEN TO THE MUSIC")
	assert.Contains(t, out, "Bye!")
}

func TestMenu_EndOfInputStopsLoop(t *testing.T) {
	lib, pls, q := fixture()
	out := run(t, lib, pls, q) // single blank line, then EOF
	assert.Contains(t, out, "Invalid choice!")
}

func TestMenu_CreateTrackThenQueueIt(t *testing.T) {
	lib, pls, q := fixture()
	out := run(t, lib, pls, q,
		"1", // browse
		"1", // track library
		"1", // create track
		"Angel", "Massive Attack", "Mezzanine", "06:18",
		"2",      // view library
		"a", "1", // add track 1 to queue
		"b",      // back out of view
		"b", "b", "0",
	)

	assert.Contains(t, out, "Track added successfully!")
	assert.Contains(t, out, "Added 'Angel' to queue!")
	assert.Equal(t, 1, q.Size())
}

func TestMenu_CreateTrackRejectsBadDuration(t *testing.T) {
	lib, pls, q := fixture()
	out := run(t, lib, pls, q,
		"1", "1", "1",
		"Angel", "Massive Attack", "Mezzanine", "six minutes",
		"b", "b", "0",
	)

	assert.Contains(t, out, "Invalid duration format! Use mm:ss")
	assert.Equal(t, 0, lib.Size())
}

func TestMenu_PlayerControls(t *testing.T) {
	lib, pls, q := fixture()
	q.Add(track.New("Angel", []string{"Massive Attack"}, "Mezzanine", "06:18"))

	out := run(t, lib, pls, q,
		"2", // music player
		"1", // play
		"4", // repeat on
		"x", "0",
	)

	assert.Contains(t, out, "Playing...")
	assert.Contains(t, out, "Repeat: ON")
	assert.True(t, q.IsPlaying())
	assert.True(t, q.IsRepeatOn())
}

func TestMenu_ClearQueueNeedsConfirmation(t *testing.T) {
	lib, pls, q := fixture()
	q.Add(track.New("Angel", []string{"Massive Attack"}, "Mezzanine", "06:18"))

	out := run(t, lib, pls, q,
		"2",
		"6", "n", // declined
		"6", "y", // confirmed
		"x", "0",
	)

	assert.Contains(t, out, "Queue cleared!")
	assert.Equal(t, 0, q.Size())
	require.Contains(t, out, "Clear queue? (y/n): ")
}

func TestMenu_QueuePlaylistReplacesQueue(t *testing.T) {
	lib, pls, q := fixture()
	q.Add(track.New("Old", []string{"Artist"}, "Album", "03:00"))

	pls.Create("mix")
	pls.AppendTrack("mix", track.New("Angel", []string{"Massive Attack"}, "Mezzanine", "06:18"))
	pls.AppendTrack("mix", track.New("Teardrop", []string{"Massive Attack"}, "Mezzanine", "05:29"))

	out := run(t, lib, pls, q,
		"1", "3", // browse -> playlists
		"4", "1", // queue playlist number 1
		"b", "b", "0",
	)

	assert.Contains(t, out, "Queue created from playlist 'mix'!")
	assert.Equal(t, 2, q.Size())
	cur, ok := q.Current()
	require.True(t, ok)
	assert.Equal(t, "Angel", cur.Title)
}

func TestMenu_PlayerOpensOnFirstUpNextPage(t *testing.T) {
	lib, pls, q := fixture()
	for i := 0; i < 25; i++ {
		q.Add(track.New(fmt.Sprintf("Track %02d", i+1), []string{"Artist"}, "Album", "03:00"))
	}
	// Play deep into the queue; 13 tracks still follow the cursor.
	for i := 0; i < 11; i++ {
		q.Next()
	}

	out := run(t, lib, pls, q, "2", "x", "0")

	assert.Contains(t, out, "<Page 1 of 2>", "the player opens on the first up-next page")
	assert.NotContains(t, out, "<Page 2 of 2>")
}

func TestMenu_SearchTracks(t *testing.T) {
	lib, pls, q := fixture()
	lib.Add(track.New("Paranoid Android", []string{"Radiohead"}, "OK Computer", "06:23"))

	out := run(t, lib, pls, q,
		"1", "1",
		"3", "android",
		"3", "nothing here",
		"b", "b", "0",
	)

	assert.Contains(t, out, "Paranoid Android")
	assert.Contains(t, out, "No tracks found!")
}
