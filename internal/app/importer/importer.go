// Package importer loads tracks and playlists from JSON and CSV files.
package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"

	"github.com/yuteki/tunebox/internal/app/library"
	"github.com/yuteki/tunebox/internal/app/playlists"
	"github.com/yuteki/tunebox/internal/domain/track"
)

// Report summarizes one import run. Row-level problems land in Errors and the
// counters; only an unreadable or unparsable file fails the run itself.
type Report struct {
	Imported   int
	Duplicates int
	Skipped    int
	Errors     []string
}

// Importer feeds catalog and playlist files into the library and the
// playlist manager.
type Importer struct {
	library   *library.Library
	playlists *playlists.Manager
}

// New creates an importer over the given library and playlist manager.
func New(lib *library.Library, pls *playlists.Manager) *Importer {
	return &Importer{library: lib, playlists: pls}
}

// trackRow is one imported track entry. The artist field is either a single
// string or a list of strings, so it decodes as any and is normalized after.
type trackRow struct {
	Title    string `mapstructure:"title"`
	Artist   any    `mapstructure:"artist"`
	Album    string `mapstructure:"album"`
	Duration string `mapstructure:"duration"`
}

// playlistRow is one imported playlist entry with its track rows.
type playlistRow struct {
	Name   string           `mapstructure:"name"`
	Tracks []map[string]any `mapstructure:"tracks"`
}

// Tracks imports a track file into the library, dispatching on the file
// extension (.json or .csv).
func (im *Importer) Tracks(path string) (Report, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		return im.tracksFromJSON(path)
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return im.tracksFromCSV(path)
	default:
		return Report{}, errors.Newf("unsupported file format %s: use .json or .csv", path)
	}
}

// Playlists imports a playlist file, creating playlists and auto-adding every
// imported track to the library.
func (im *Importer) Playlists(path string) (Report, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".json"):
		return im.playlistsFromJSON(path)
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return im.playlistsFromCSV(path)
	default:
		return Report{}, errors.Newf("unsupported file format %s: use .json or .csv", path)
	}
}

func (im *Importer) tracksFromJSON(path string) (Report, error) {
	rows, err := readJSONRows(path)
	if err != nil {
		return Report{}, err
	}

	var rep Report
	for i, row := range rows {
		t, err := decodeTrackRow(row)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("entry %d: %v", i+1, err))
			rep.Skipped++
			continue
		}
		if im.library.Add(t) {
			rep.Imported++
		} else {
			rep.Duplicates++
		}
	}
	return rep, nil
}

func (im *Importer) tracksFromCSV(path string) (Report, error) {
	rows, err := readCSVRows(path)
	if err != nil {
		return Report{}, err
	}

	var rep Report
	for i, row := range rows {
		t, err := trackFromCSVRow(row)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			rep.Skipped++
			continue
		}
		if im.library.Add(t) {
			rep.Imported++
		} else {
			rep.Duplicates++
		}
	}
	return rep, nil
}

func (im *Importer) playlistsFromJSON(path string) (Report, error) {
	rows, err := readJSONRows(path)
	if err != nil {
		return Report{}, err
	}

	var rep Report
	for i, row := range rows {
		var entry playlistRow
		if err := mapstructure.Decode(row, &entry); err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("playlist %d: %v", i+1, err))
			rep.Skipped++
			continue
		}
		if entry.Name == "" {
			rep.Errors = append(rep.Errors, fmt.Sprintf("playlist %d: missing name", i+1))
			rep.Skipped++
			continue
		}
		if _, exists := im.playlists.Get(entry.Name); exists {
			rep.Duplicates++
			continue
		}
		if _, ok := im.playlists.Create(entry.Name); !ok {
			rep.Skipped++
			continue
		}
		for j, trackEntry := range entry.Tracks {
			t, err := decodeTrackRow(trackEntry)
			if err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("playlist %q track %d: %v", entry.Name, j+1, err))
				continue
			}
			im.playlists.AppendTrack(entry.Name, t)
			im.library.Add(t)
		}
		rep.Imported++
	}
	return rep, nil
}

func (im *Importer) playlistsFromCSV(path string) (Report, error) {
	rows, err := readCSVRows(path)
	if err != nil {
		return Report{}, err
	}

	// A playlist can span many rows; remember which names this file already
	// resolved so duplicates count once and rejected names stay rejected.
	accepted := make(map[string]bool)

	var rep Report
	for i, row := range rows {
		name := strings.TrimSpace(fmt.Sprint(row["name"]))
		if row["name"] == nil || name == "" {
			rep.Errors = append(rep.Errors, fmt.Sprintf("row %d: missing playlist name", i+1))
			rep.Skipped++
			continue
		}
		t, err := trackFromCSVRow(row)
		if err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			rep.Skipped++
			continue
		}

		ok, seen := accepted[name]
		if !seen {
			if _, exists := im.playlists.Get(name); exists {
				accepted[name] = false
				rep.Duplicates++
				continue
			}
			if _, created := im.playlists.Create(name); !created {
				accepted[name] = false
				rep.Skipped++
				continue
			}
			accepted[name] = true
			ok = true
			rep.Imported++
		}
		if !ok {
			continue
		}
		im.playlists.AppendTrack(name, t)
		im.library.Add(t)
	}
	return rep, nil
}

// decodeTrackRow turns a generic row into a track, requiring all four fields.
func decodeTrackRow(row map[string]any) (track.Track, error) {
	var r trackRow
	if err := mapstructure.Decode(row, &r); err != nil {
		return track.Track{}, errors.Wrap(err, "malformed track entry")
	}
	artists, err := artistsFromAny(r.Artist)
	if err != nil {
		return track.Track{}, err
	}
	t := track.New(
		strings.TrimSpace(r.Title),
		artists,
		strings.TrimSpace(r.Album),
		strings.TrimSpace(r.Duration),
	)
	if t.Title == "" || len(t.Artists) == 0 || t.Album == "" || t.Duration == "" {
		return track.Track{}, errors.New("missing required fields")
	}
	return t, nil
}

// trackFromCSVRow builds a track from a header-keyed CSV row. A comma in the
// artist cell means multiple performers.
func trackFromCSVRow(row map[string]any) (track.Track, error) {
	get := func(key string) string {
		v, ok := row[key]
		if !ok || v == nil {
			return ""
		}
		return strings.TrimSpace(fmt.Sprint(v))
	}
	t := track.New(get("title"), track.SplitArtists(get("artist")), get("album"), get("duration"))
	if t.Title == "" || len(t.Artists) == 0 || t.Album == "" || t.Duration == "" {
		return track.Track{}, errors.New("missing required fields")
	}
	return t, nil
}

// artistsFromAny normalizes the imported artist field: a single string or an
// ordered list of strings.
func artistsFromAny(v any) ([]string, error) {
	switch artist := v.(type) {
	case string:
		if s := strings.TrimSpace(artist); s != "" {
			return []string{s}, nil
		}
		return nil, errors.New("empty artist field")
	case []any:
		artists := make([]string, 0, len(artist))
		for _, item := range artist {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Newf("artist list holds a non-string value %v", item)
			}
			if s = strings.TrimSpace(s); s != "" {
				artists = append(artists, s)
			}
		}
		if len(artists) == 0 {
			return nil, errors.New("empty artist list")
		}
		return artists, nil
	default:
		return nil, errors.Newf("artist must be a string or a list of strings, got %T", v)
	}
}

// readJSONRows parses a top-level JSON array of objects.
func readJSONRows(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrapf(err, "invalid JSON in %s", path)
	}
	return rows, nil
}

// readCSVRows parses a header-row CSV file into header-keyed rows.
func readCSVRows(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // rows validated per field, not per width
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid CSV in %s", path)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(header))
		for i, key := range header {
			if i < len(record) {
				row[strings.TrimSpace(strings.ToLower(key))] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
