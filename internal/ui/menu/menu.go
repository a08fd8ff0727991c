// Package menu implements the interactive terminal menus.
package menu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/yuteki/tunebox/internal/app/importer"
	"github.com/yuteki/tunebox/internal/app/library"
	"github.com/yuteki/tunebox/internal/app/playlists"
	"github.com/yuteki/tunebox/internal/app/queue"
	"github.com/yuteki/tunebox/internal/domain/album"
	"github.com/yuteki/tunebox/internal/domain/playlist"
	"github.com/yuteki/tunebox/internal/domain/track"
)

const pageSize = 10

// Menu drives the interactive loop. Input and output are injected so tests
// can script a session.
type Menu struct {
	in  *bufio.Scanner
	out io.Writer

	library   *library.Library
	playlists *playlists.Manager
	queue     *queue.Queue
	importer  *importer.Importer
}

// New creates a menu over the given components.
func New(in io.Reader, out io.Writer, lib *library.Library, pls *playlists.Manager, q *queue.Queue, imp *importer.Importer) *Menu {
	return &Menu{
		in:        bufio.NewScanner(in),
		out:       out,
		library:   lib,
		playlists: pls,
		queue:     q,
		importer:  imp,
	}
}

// Run executes the main loop until the user exits or input ends.
func (m *Menu) Run() {
	for {
		m.println("")
		m.println(strings.Repeat("=", 35))
		m.println("======= LISTEN TO THE MUSIC =======")
		m.println(strings.Repeat("=", 35))
		m.println("1: Browse Tracks")
		m.println("2: Music Player")
		m.println("0: Exit")
		m.println(strings.Repeat("=", 35))

		choice, ok := m.prompt()
		if !ok {
			return
		}
		switch choice {
		case "1":
			m.browse()
		case "2":
			m.player()
		case "0":
			m.println("Bye!")
			return
		default:
			m.println("Invalid choice!")
		}
	}
}

func (m *Menu) browse() {
	for {
		m.header("BROWSE TRACKS")
		m.println("1: Track Library")
		m.println("2: Track Albums")
		m.println("3: Track Playlists")
		m.println("b: Back")

		choice, ok := m.prompt()
		if !ok {
			return
		}
		switch strings.ToLower(choice) {
		case "1":
			m.libraryMenu()
		case "2":
			m.albumsMenu()
		case "3":
			m.playlistsMenu()
		case "b":
			return
		default:
			m.println("Invalid choice!")
		}
	}
}

func (m *Menu) libraryMenu() {
	for {
		m.header("TRACK LIBRARY")
		m.println("1: Create Track")
		m.println("2: View Library")
		m.println("3: Search Track")
		m.println("4: Import")
		m.println("b: Back")

		choice, ok := m.prompt()
		if !ok {
			return
		}
		switch strings.ToLower(choice) {
		case "1":
			m.createTrack()
		case "2":
			m.viewLibrary()
		case "3":
			m.searchTracks()
		case "4":
			m.importTracks()
		case "b":
			return
		default:
			m.println("Invalid choice!")
		}
	}
}

func (m *Menu) createTrack() {
	m.header("Add New Track")
	title, ok := m.ask("Title: ")
	if !ok {
		return
	}
	artistField, ok := m.ask("Artist (separate multiple with comma): ")
	if !ok {
		return
	}
	albumName, ok := m.ask("Album: ")
	if !ok {
		return
	}
	duration, ok := m.ask("Duration (mm:ss): ")
	if !ok {
		return
	}

	t := track.New(strings.TrimSpace(title), track.SplitArtists(artistField),
		strings.TrimSpace(albumName), strings.TrimSpace(duration))
	if _, err := t.Seconds(); err != nil {
		m.println("Invalid duration format! Use mm:ss")
		return
	}
	if m.library.Add(t) {
		m.println("Track added successfully!")
	} else {
		m.println("Track already in library!")
	}
}

func (m *Menu) viewLibrary() {
	page := 1
	for {
		tracks := m.library.All()
		if len(tracks) == 0 {
			m.println("Library is empty!")
			return
		}
		total := pageCount(len(tracks))
		page = clampPage(page, total)
		m.trackTable(pageOf(tracks, page), (page-1)*pageSize)
		m.printfln("<Page %d of %d>", page, total)

		var next string
		var ok bool
		if total > 1 {
			next, ok = m.nav("n: Next", "p: Previous", "a: Add to queue", "b: Back")
		} else {
			next, ok = m.nav("a: Add to queue", "b: Back")
		}
		if !ok {
			return
		}
		switch next {
		case "n":
			if page < total {
				page++
			}
		case "p":
			if page > 1 {
				page--
			}
		case "a":
			m.addTrackToQueue()
		case "b":
			return
		}
	}
}

func (m *Menu) addTrackToQueue() {
	idx, ok := m.askInt("Enter track number to add to queue: ")
	if !ok {
		return
	}
	t, found := m.library.TrackAt(idx - 1)
	if !found {
		m.println("Invalid track number!")
		return
	}
	if m.queue.Add(t) {
		if err := m.queue.Persist(); err != nil {
			m.println("Warning: queue state was not saved.")
		}
		m.printfln("Added '%s' to queue!", t.Title)
	} else {
		m.println("Track already in queue!")
	}
}

func (m *Menu) searchTracks() {
	query, ok := m.ask("Enter track title to search: ")
	if !ok {
		return
	}
	hits := m.library.SearchByTitle(query)
	if len(hits) == 0 {
		m.println("No tracks found!")
		return
	}
	m.header("Search Results")
	m.trackTable(hits, 0)
}

func (m *Menu) importTracks() {
	m.header("Import Tracks")
	path, ok := m.ask("Enter filename (.json or .csv): ")
	if !ok {
		return
	}
	rep, err := m.importer.Tracks(strings.TrimSpace(path))
	if err != nil {
		m.printfln("Import failed: %v", err)
		return
	}
	m.reportImport(rep)
}

func (m *Menu) albumsMenu() {
	page := 1
	for {
		albums := m.library.Albums().All()
		if len(albums) == 0 {
			m.println("No albums yet!")
			return
		}
		total := pageCount(len(albums))
		page = clampPage(page, total)
		m.albumTable(pageOf(albums, page))
		m.printfln("<Page %d of %d>", page, total)

		var next string
		var ok bool
		if total > 1 {
			next, ok = m.nav("n: Next", "p: Previous", "v: View", "q: Queue", "b: Back")
		} else {
			next, ok = m.nav("v: View", "q: Queue", "b: Back")
		}
		if !ok {
			return
		}
		switch next {
		case "n":
			if page < total {
				page++
			}
		case "p":
			if page > 1 {
				page--
			}
		case "v":
			if a := m.pickAlbum(); a != nil {
				m.viewAlbum(a)
			}
		case "q":
			if a := m.pickAlbum(); a != nil {
				m.queueTracks(a.Tracks)
				m.printfln("Queue created from album '%s'!", a.Name)
			}
		case "b":
			return
		}
	}
}

func (m *Menu) pickAlbum() *album.Album {
	idx, ok := m.askInt("Enter album number: ")
	if !ok {
		return nil
	}
	a, found := m.library.Albums().AlbumAt(idx - 1)
	if !found {
		m.println("Invalid album number!")
		return nil
	}
	return a
}

func (m *Menu) viewAlbum(a *album.Album) {
	m.header(a.Name)
	m.trackTable(a.Tracks, 0)
	m.printfln("Total Duration: %s", a.TotalDuration())

	next, ok := m.nav("q: Queue", "b: Back")
	if !ok {
		return
	}
	if next == "q" {
		m.queueTracks(a.Tracks)
		m.printfln("Queue created from album '%s'!", a.Name)
	}
}

func (m *Menu) playlistsMenu() {
	for {
		m.header("PLAYLISTS")
		m.println("1: Create Playlist")
		m.println("2: View Playlists")
		m.println("3: Add Track to Playlist")
		m.println("4: Queue Playlist")
		m.println("5: Import")
		m.println("b: Back")

		choice, ok := m.prompt()
		if !ok {
			return
		}
		switch strings.ToLower(choice) {
		case "1":
			m.createPlaylist()
		case "2":
			m.viewPlaylists()
		case "3":
			m.addTrackToPlaylist()
		case "4":
			m.queuePlaylist()
		case "5":
			m.importPlaylists()
		case "b":
			return
		default:
			m.println("Invalid choice!")
		}
	}
}

func (m *Menu) createPlaylist() {
	name, ok := m.ask("Enter playlist name: ")
	if !ok {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		m.println("Playlist name cannot be empty!")
		return
	}
	if _, created := m.playlists.Create(name); created {
		m.printfln("Playlist '%s' created!", name)
	} else {
		m.println("Playlist name already exists!")
	}
}

func (m *Menu) viewPlaylists() {
	page := 1
	listing := m.playlists.All()
	for {
		if len(listing) == 0 {
			m.println("No playlists yet!")
			return
		}
		total := pageCount(len(listing))
		page = clampPage(page, total)
		m.playlistTable(pageOf(listing, page))
		m.printfln("<Page %d of %d>", page, total)

		var next string
		var ok bool
		if total > 1 {
			next, ok = m.nav("n: Next", "p: Previous", "v: View", "q: Queue", "s: Sort", "b: Back")
		} else {
			next, ok = m.nav("v: View", "q: Queue", "s: Sort", "b: Back")
		}
		if !ok {
			return
		}
		switch next {
		case "n":
			if page < total {
				page++
			}
		case "p":
			if page > 1 {
				page--
			}
		case "s":
			listing = m.sortPlaylists(listing)
			page = 1
		case "v":
			if p := m.pickPlaylist(listing); p != nil {
				m.viewPlaylist(p)
			}
		case "q":
			if p := m.pickPlaylist(listing); p != nil {
				m.queueTracks(p.Tracks())
				m.printfln("Queue created from playlist '%s'!", p.Name)
			}
		case "b":
			return
		}
	}
}

func (m *Menu) sortPlaylists(current []*playlist.Playlist) []*playlist.Playlist {
	m.header("Sort Playlists By")
	m.println("1: Date Created")
	m.println("2: Name")
	m.println("3: Duration")
	m.println("4: Back to original order")

	choice, ok := m.prompt()
	if !ok {
		return current
	}
	switch choice {
	case "1":
		m.println("Playlists sorted by date created!")
		return m.playlists.Arrange("date_created")
	case "2":
		m.println("Playlists sorted by name!")
		return m.playlists.Arrange("name")
	case "3":
		m.println("Playlists sorted by duration!")
		return m.playlists.Arrange("duration")
	case "4":
		m.println("Back to original order!")
		return m.playlists.All()
	default:
		return current
	}
}

func (m *Menu) pickPlaylist(listing []*playlist.Playlist) *playlist.Playlist {
	idx, ok := m.askInt("Enter playlist number: ")
	if !ok {
		return nil
	}
	if idx < 1 || idx > len(listing) {
		m.println("Invalid playlist number!")
		return nil
	}
	return listing[idx-1]
}

func (m *Menu) viewPlaylist(p *playlist.Playlist) {
	for {
		m.header(p.Name)
		m.trackTable(p.Tracks(), 0)
		m.printfln("Total Duration: %s", p.TotalDuration())

		next, ok := m.nav("s: Sort", "q: Queue", "b: Back")
		if !ok {
			return
		}
		switch next {
		case "s":
			m.sortPlaylistTracks(p)
		case "q":
			m.queueTracks(p.Tracks())
			m.printfln("Queue created from playlist '%s'!", p.Name)
			return
		case "b":
			return
		}
	}
}

func (m *Menu) sortPlaylistTracks(p *playlist.Playlist) {
	m.header("Sort Tracks By")
	m.println("1: Date added")
	m.println("2: Title")
	m.println("3: Artist")
	m.println("4: Duration")
	m.println("5: Back")

	choice, ok := m.prompt()
	if !ok {
		return
	}
	switch choice {
	case "1":
		p.Sort(playlist.SortByDateAdded)
		m.println("Tracks sorted by date added!")
	case "2":
		p.Sort(playlist.SortByTitle)
		m.println("Tracks sorted by title!")
	case "3":
		p.Sort(playlist.SortByArtist)
		m.println("Tracks sorted by artist!")
	case "4":
		p.Sort(playlist.SortByDuration)
		m.println("Tracks sorted by duration!")
	}
}

func (m *Menu) addTrackToPlaylist() {
	p := m.pickPlaylist(m.playlists.All())
	if p == nil {
		return
	}
	idx, ok := m.askInt("Enter track number to add: ")
	if !ok {
		return
	}
	t, found := m.library.TrackAt(idx - 1)
	if !found {
		m.println("Invalid track number!")
		return
	}
	if m.playlists.AppendTrack(p.Name, t) {
		m.println("Track added to playlist!")
	} else {
		m.println("Track already in playlist!")
	}
}

func (m *Menu) queuePlaylist() {
	p := m.pickPlaylist(m.playlists.All())
	if p == nil {
		return
	}
	m.queueTracks(p.Tracks())
	m.printfln("Queue created from playlist '%s'!", p.Name)
}

func (m *Menu) importPlaylists() {
	m.header("Import Playlists")
	path, ok := m.ask("Enter filename (.json or .csv): ")
	if !ok {
		return
	}
	rep, err := m.importer.Playlists(strings.TrimSpace(path))
	if err != nil {
		m.printfln("Import failed: %v", err)
		return
	}
	m.reportImport(rep)
}

// queueTracks replaces the queue contents with the given sequence.
func (m *Menu) queueTracks(tracks []track.Track) {
	m.queue.Clear()
	m.queue.Load(tracks)
}

func (m *Menu) player() {
	for {
		// Always open on the first up-next page; the view paginates what
		// follows the cursor, not the full sequence.
		for _, line := range m.queue.RenderPage(1) {
			m.println(line)
		}

		if m.queue.IsPlaying() {
			m.println("1: Pause")
		} else {
			m.println("1: Play")
		}
		m.println("2: Next")
		m.println("3: Previous")
		if m.queue.IsRepeatOn() {
			m.println("4: Turn off repeat")
		} else {
			m.println("4: Turn on repeat")
		}
		if m.queue.IsShuffled() {
			m.println("5: Turn off shuffle")
		} else {
			m.println("5: Turn on shuffle")
		}
		m.println("6: Clear queue")
		m.println("x: Exit queue")

		choice, ok := m.prompt()
		if !ok {
			return
		}
		switch strings.ToLower(choice) {
		case "1":
			if m.queue.IsPlaying() {
				m.queue.Pause()
				m.println("Paused.")
			} else {
				m.queue.Play()
				m.println("Playing...")
			}
		case "2":
			if t, ok := m.queue.Next(); ok {
				m.printfln("Now playing: %s", t.Display())
			} else {
				m.println("End of queue!")
			}
		case "3":
			if t, ok := m.queue.Prev(); ok {
				m.printfln("Now playing: %s", t.Display())
			}
		case "4":
			if m.queue.ToggleRepeat() {
				m.println("Repeat: ON")
			} else {
				m.println("Repeat: OFF")
			}
		case "5":
			if m.queue.IsShuffled() {
				m.queue.RestoreOrder()
				m.println("Shuffle turned OFF")
			} else {
				m.queue.Shuffle()
				m.println("Shuffle turned ON")
			}
		case "6":
			confirm, ok := m.ask("Clear queue? (y/n): ")
			if !ok {
				return
			}
			if strings.EqualFold(strings.TrimSpace(confirm), "y") {
				m.queue.Clear()
				m.println("Queue cleared!")
			}
		case "x":
			return
		default:
			m.println("Invalid choice!")
		}
	}
}

func (m *Menu) reportImport(rep importer.Report) {
	m.printfln("Imported: %d, duplicates: %d, skipped: %d", rep.Imported, rep.Duplicates, rep.Skipped)
	for _, msg := range rep.Errors {
		m.printfln("  - %s", msg)
	}
}

// trackTable renders tracks numbered from start+1. The numbering matters: it
// is what track selection prompts index into.
func (m *Menu) trackTable(tracks []track.Track, start int) {
	t := table.NewWriter()
	t.SetOutputMirror(m.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Title", "Artist", "Album", "Duration"})
	for i, tr := range tracks {
		t.AppendRow(table.Row{start + i + 1, tr.Title, tr.ArtistLabel(), tr.Album, tr.Duration})
	}
	t.Render()
}

func (m *Menu) albumTable(albums []*album.Album) {
	t := table.NewWriter()
	t.SetOutputMirror(m.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Album", "Tracks", "Duration"})
	for i, a := range albums {
		t.AppendRow(table.Row{i + 1, a.Name, a.TrackCount(), a.TotalDuration()})
	}
	t.Render()
}

func (m *Menu) playlistTable(listing []*playlist.Playlist) {
	t := table.NewWriter()
	t.SetOutputMirror(m.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Playlist", "Tracks", "Duration", "Created"})
	for i, p := range listing {
		t.AppendRow(table.Row{i + 1, p.Name, p.Size(), p.TotalDuration(), p.CreatedAt.Format("2006-01-02")})
	}
	t.Render()
}

func (m *Menu) header(title string) {
	m.println("")
	m.printfln("_____%s_____", title)
}

// nav prints navigation options between rules and reads the choice.
func (m *Menu) nav(options ...string) (string, bool) {
	m.println(strings.Repeat("-", 35))
	for _, opt := range options {
		m.println(opt)
	}
	m.println(strings.Repeat("-", 35))
	choice, ok := m.prompt()
	return strings.ToLower(choice), ok
}

// prompt reads one trimmed line; false means input ended.
func (m *Menu) prompt() (string, bool) {
	fmt.Fprint(m.out, ">> ")
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *Menu) ask(question string) (string, bool) {
	fmt.Fprint(m.out, question)
	if !m.in.Scan() {
		return "", false
	}
	return m.in.Text(), true
}

func (m *Menu) askInt(question string) (int, bool) {
	raw, ok := m.ask(question)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		m.println("Invalid input!")
		return 0, false
	}
	return n, true
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printfln(format string, args ...any) {
	fmt.Fprintf(m.out, format+"\n", args...)
}

func pageCount(n int) int {
	if n == 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

func clampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// pageOf slices one page out of a listing.
func pageOf[T any](items []T, page int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
