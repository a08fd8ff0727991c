package queue

import (
	"fmt"

	"github.com/yuteki/tunebox/internal/domain/track"
)

// RenderPage assembles the read-only "up next" view of the queue: the tracks
// after the active cursor, wrapping around from the head when repeat is on
// and fewer than a page of upcoming tracks remain. Without an active cursor
// the raw sequence is shown from the head. Returns rendered lines; the
// presentation layer decides how to print them.
func (q *Queue) RenderPage(page int) []string {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.size == 0 {
		return []string{"Queue is empty!"}
	}

	lines := []string{
		"<----- TRACK QUEUE ----->",
		"Total Duration: " + q.totalDurationLocked(),
		"Shuffled: " + yesNo(q.shuffled),
		"Repeat: " + yesNo(q.repeat),
		"Tracks:",
	}

	if q.active != nil {
		status := "Paused"
		if q.playing {
			status = "Playing"
		}
		lines = append(lines,
			"",
			"Currently "+status+":",
			"    "+q.active.track.Display(),
			"",
			"Up Next:",
		)
	} else {
		lines = append(lines, "", "Queue:")
	}

	upcoming := q.upcomingLocked()

	if len(upcoming) == 0 {
		lines = append(lines,
			"    (No more tracks in queue)",
			"",
			"<Page 1 of 1>",
		)
		return lines
	}

	last := totalPages(len(upcoming))
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(upcoming) {
		end = len(upcoming)
	}
	for i := start; i < end; i++ {
		lines = append(lines, fmt.Sprintf("    (%d) %s", i+1, upcoming[i].Display()))
	}

	lines = append(lines, "", fmt.Sprintf("<Page %d of %d>", page, last))
	return lines
}

// upcomingLocked collects the tracks after the active cursor. With repeat on
// and less than a full page remaining, it wraps from the head up to (but
// excluding) the active track. No active cursor means the whole sequence.
func (q *Queue) upcomingLocked() []track.Track {
	var out []track.Track

	if q.active == nil {
		for n := q.head; n != nil; n = n.next {
			out = append(out, n.track)
		}
		return out
	}

	for n := q.active.next; n != nil; n = n.next {
		out = append(out, n.track)
	}
	if q.repeat && len(out) < pageSize {
		for n := q.head; n != nil && n != q.active; n = n.next {
			out = append(out, n.track)
		}
	}
	return out
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
