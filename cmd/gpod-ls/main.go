// Command gpod-ls enumerates the catalog as JSON: device identity,
// every playlist with its tracks, and the duplicate-candidate groups
// the Duplicate Index currently holds (spec §6 "Lister output").
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/dupindex"
	"github.com/whatdoineed2do/gpod-utils/internal/errs"
	"github.com/whatdoineed2do/gpod-utils/internal/version"
)

type deviceJSON struct {
	Model      string `json:"model"`
	Capacity   int64  `json:"capacity"`
	Generation int    `json:"generation"`
	UUID       string `json:"uuid"`
	Serial     string `json:"serial"`
}

type trackJSON struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Path   string `json:"path"`
}

type playlistJSON struct {
	Name      string      `json:"name"`
	Type      string      `json:"type"`
	Count     int         `json:"count"`
	SmartPL   bool        `json:"smartpl"`
	Timestamp string      `json:"timestamp"`
	Tracks    []trackJSON `json:"tracks"`
}

type listing struct {
	IpodData struct {
		Device    deviceJSON `json:"device"`
		Playlists struct {
			Items []playlistJSON `json:"items"`
		} `json:"playlists"`
	} `json:"ipod_data"`
	IpodAnalysis struct {
		Duplicates map[string][][]trackJSON `json:"duplicates"`
	} `json:"ipod_analysis"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		mountPoint  = flag.String("M", "", "device root")
		force       = flag.Bool("force", false, "accept an otherwise-unsupported device generation")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Load().Version)
		return errs.ExitOK
	}

	if *mountPoint == "" {
		fmt.Fprintln(os.Stderr, "gpod-ls: -M mount point is required")
		return errs.ExitCatalogOpenFail
	}

	backend, err := catalog.Open(*mountPoint, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gpod-ls: %v\n", err)
		return errs.ExitCatalogOpenFail
	}
	defer backend.Close()

	out := buildListing(backend)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "gpod-ls: encode: %v\n", err)
		return errs.ExitCatalogWriteFail
	}
	return errs.ExitOK
}

func buildListing(backend catalog.Backend) listing {
	var out listing

	dev := backend.DeviceInfo()
	out.IpodData.Device = deviceJSON{
		Model:      dev.Model,
		Capacity:   dev.Capacity,
		Generation: dev.Generation,
		UUID:       dev.UUID,
		Serial:     dev.Serial,
	}

	tracks := backend.Tracks()
	for _, pl := range backend.Playlists() {
		out.IpodData.Playlists.Items = append(out.IpodData.Playlists.Items, toPlaylistJSON(pl, tracks))
	}

	allTracks := make([]*catalog.Track, 0, len(tracks))
	for _, t := range tracks {
		allTracks = append(allTracks, t)
	}
	idx := dupindex.Build(allTracks)

	out.IpodAnalysis.Duplicates = map[string][][]trackJSON{
		"high": toGroupsJSON(idx.HighGroups()),
		"med":  toGroupsJSON(idx.MedGroups()),
		"low":  toGroupsJSON(idx.LowGroups()),
	}
	return out
}

func toPlaylistJSON(pl *catalog.Playlist, tracks map[int64]*catalog.Track) playlistJSON {
	pj := playlistJSON{
		Name:      pl.Name,
		Type:      playlistType(pl),
		Count:     len(pl.TrackIDs),
		SmartPL:   pl.IsSmart,
		Timestamp: pl.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
	}
	for _, id := range pl.TrackIDs {
		if t, ok := tracks[id]; ok {
			pj.Tracks = append(pj.Tracks, toTrackJSON(t))
		}
	}
	return pj
}

func playlistType(pl *catalog.Playlist) string {
	switch {
	case pl.IsMaster:
		return "master"
	case pl.Name == "Podcasts":
		return "podcasts"
	default:
		return "playlist"
	}
}

func toTrackJSON(t *catalog.Track) trackJSON {
	return trackJSON{ID: t.ID, Title: t.Title, Artist: t.Artist, Album: t.Album, Path: t.Path}
}

func toGroupsJSON(groups [][]*catalog.Track) [][]trackJSON {
	out := make([][]trackJSON, 0, len(groups))
	for _, g := range groups {
		group := make([]trackJSON, 0, len(g))
		for _, t := range g {
			group = append(group, toTrackJSON(t))
		}
		out = append(out, group)
	}
	return out
}
