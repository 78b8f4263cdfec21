// Package recent builds the five-window "Recent" playlist set (spec
// §4.6) from the master playlist's audio tracks. Grounded on the
// teacher's internal/analytics.RunDailyRollup idiom of truncating
// time.Now() to day boundaries and logging each stage with
// log.Printf, generalized from a single UTC-midnight boundary to the
// five half-open windows the spec describes.
package recent

import (
	"log"
	"sort"
	"time"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
)

// DefaultAlbumBudget is the default number of albums placed across all
// windows before allocation stops.
const DefaultAlbumBudget = 50

type window struct {
	label      string
	from, to   time.Time
}

type album struct {
	artist, title string
	timestamp     time.Time
	tracks        []*catalog.Track
}

// windows computes the five label/interval pairs from spec §4.6 step 2,
// anchored at nowFrom truncated to UTC midnight.
func windows(nowFrom time.Time) []window {
	today := time.Date(nowFrom.Year(), nowFrom.Month(), nowFrom.Day(), 0, 0, 0, 0, time.UTC)
	todayEnd := today.Add(24*time.Hour - time.Second)

	lastWkFrom := today.AddDate(0, 0, -1).AddDate(0, 0, -7)
	lastWkTo := today.AddDate(0, 0, -1).Add(24*time.Hour - time.Second)

	lastMthFrom := today.AddDate(0, -1, 0)
	lastMthTo := lastWkFrom.AddDate(0, 0, -1)

	last3MthFrom := today.AddDate(0, -3, 0)
	last3MthTo := lastMthFrom.AddDate(0, 0, -1)

	last6MthFrom := today.AddDate(0, -6, 0)
	last6MthTo := last3MthFrom.AddDate(0, 0, -1)

	return []window{
		{"Recent: 0d", today, todayEnd},
		{"Recent: last wk", lastWkFrom, lastWkTo},
		{"Recent: last mth", lastMthFrom, lastMthTo},
		{"Recent: last 3mth", last3MthFrom, last3MthTo},
		{"Recent: last 6mth", last6MthFrom, last6MthTo},
	}
}

func (w window) contains(t time.Time) bool {
	return !t.Before(w.from) && !t.After(w.to)
}

// albumKey groups tracks per spec §4.6 step 1: (album, artist), falling
// back to artist-only when either field is empty.
func albumKey(t *catalog.Track) (string, string) {
	if t.Album == "" || t.Artist == "" {
		return "", t.Artist
	}
	return t.Album, t.Artist
}

func groupAlbums(tracks []*catalog.Track) []*album {
	index := make(map[[2]string]*album)
	var order []*album
	for _, t := range tracks {
		if t.MediaType != catalog.MediaAudio {
			continue
		}
		albumName, artist := albumKey(t)
		key := [2]string{albumName, artist}
		a, ok := index[key]
		if !ok {
			a = &album{artist: artist, title: albumName}
			index[key] = a
			order = append(order, a)
		}
		a.tracks = append(a.tracks, t)
		if t.TimeAdded.After(a.timestamp) {
			a.timestamp = t.TimeAdded
		}
	}
	return order
}

// Build computes the five Recent playlists from masterTracks (the
// tracks currently on the master playlist). now, if zero, is derived as
// the max TimeAdded across masterTracks (spec §4.6 "Input"). Returns
// one *catalog.Playlist per nonempty window, newest window first
// ("Recent: 0d" before "Recent: last wk" and so on); callers persist
// them via Backend.CreatePlaylist, which replaces any prior playlist of
// the same name.
func Build(masterTracks []*catalog.Track, budget int, now time.Time) []*catalog.Playlist {
	if budget <= 0 {
		budget = DefaultAlbumBudget
	}
	if now.IsZero() {
		for _, t := range masterTracks {
			if t.TimeAdded.After(now) {
				now = t.TimeAdded
			}
		}
	}
	now = now.UTC()

	albums := groupAlbums(masterTracks)
	sort.Slice(albums, func(i, j int) bool {
		return albums[i].timestamp.After(albums[j].timestamp)
	})

	wins := windows(now)
	buckets := make([][]*catalog.Track, len(wins))

	remaining := budget
	placed := 0
	for _, a := range albums {
		if remaining <= 0 {
			break
		}
		for i, w := range wins {
			if w.contains(a.timestamp) {
				buckets[i] = append(buckets[i], a.tracks...)
				remaining--
				placed++
				break
			}
		}
	}
	log.Printf("recent: placed %d albums across %d windows (budget %d)", placed, len(wins), budget)

	var out []*catalog.Playlist
	for i, w := range wins {
		if len(buckets[i]) == 0 {
			continue
		}
		p := &catalog.Playlist{Name: w.label, Timestamp: now}
		for _, t := range buckets[i] {
			p.TrackIDs = append(p.TrackIDs, t.ID)
		}
		out = append(out, p)
	}
	return out
}
