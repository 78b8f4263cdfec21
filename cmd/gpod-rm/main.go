// Command gpod-rm removes tracks from the catalog, either named
// explicitly (by device-relative path or numeric track ID) or
// discovered automatically via the Duplicate Index's high-tier
// fingerprint collisions (spec §4.4, §6 "Remove CLI").
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/config"
	"github.com/whatdoineed2do/gpod-utils/internal/dupindex"
	"github.com/whatdoineed2do/gpod-utils/internal/errs"
	"github.com/whatdoineed2do/gpod-utils/internal/fingerprint"
	"github.com/whatdoineed2do/gpod-utils/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		mountPoint  = flag.String("M", "", "device root")
		autoClean   = flag.Bool("a", false, "autoclean duplicate tracks found by the Duplicate Index")
		interactive = flag.Bool("i", false, "confirm before each removal")
		byPlaylist  = flag.Bool("P", false, "treat positional args as playlist names, not paths/IDs")
		ffmpegPath  = flag.String("ffmpeg", "ffmpeg", "path to ffmpeg")
		force       = flag.Bool("force", false, "accept an otherwise-unsupported device generation")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Load().Version)
		return errs.ExitOK
	}

	if *mountPoint == "" {
		fmt.Fprintln(os.Stderr, "gpod-rm: -M mount point is required")
		return errs.ExitCatalogOpenFail
	}

	backend, err := catalog.Open(*mountPoint, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gpod-rm: %v\n", err)
		return errs.ExitCatalogOpenFail
	}
	defer backend.Close()

	reader := bufio.NewReader(os.Stdin)
	removed := 0

	switch {
	case *autoClean:
		removed = autoCleanDuplicates(backend, *ffmpegPath, *interactive, reader)
	case *byPlaylist:
		removed = removeByPlaylistNames(backend, flag.Args(), *interactive, reader)
	default:
		removed = removeByArgs(backend, flag.Args(), *interactive, reader)
	}

	if err := backend.Write(); err != nil {
		log.Printf("gpod-rm: write_catalog: %v", err)
		return errs.ExitCatalogWriteFail
	}

	log.Printf("gpod-rm: removed %d track(s)", removed)
	return errs.ExitOK
}

// removeByArgs resolves each positional argument via config.ParseIDOrPath
// (an all-digits argument is a track ID, anything else a device-relative
// path) and removes the matching track.
func removeByArgs(backend catalog.Backend, args []string, interactive bool, in *bufio.Reader) int {
	tracks := backend.Tracks()
	removed := 0
	for _, arg := range args {
		var target *catalog.Track
		if id, isID := config.ParseIDOrPath(arg); isID {
			target = tracks[id]
		} else {
			for _, t := range tracks {
				if t.Path == arg {
					target = t
					break
				}
			}
		}
		if target == nil {
			log.Printf("gpod-rm: no track matches %q", arg)
			continue
		}
		if !confirm(interactive, in, target) {
			continue
		}
		backend.RemoveTrack(target.ID)
		backend.Unlink(target.Path)
		removed++
	}
	return removed
}

// removeByPlaylistNames deletes every track belonging to the named
// playlists (but never the master playlist itself).
func removeByPlaylistNames(backend catalog.Backend, names []string, interactive bool, in *bufio.Reader) int {
	tracks := backend.Tracks()
	removed := 0
	for _, pl := range backend.Playlists() {
		if pl.IsMaster || !contains(names, pl.Name) {
			continue
		}
		for _, id := range pl.TrackIDs {
			t, ok := tracks[id]
			if !ok {
				continue
			}
			if !confirm(interactive, in, t) {
				continue
			}
			backend.RemoveTrack(t.ID)
			backend.Unlink(t.Path)
			removed++
		}
	}
	return removed
}

// autoCleanDuplicates builds the Duplicate Index over the whole catalog
// and, for every track that collides on the high tier with an
// earlier-seen track and matches its fingerprint, removes the later one.
func autoCleanDuplicates(backend catalog.Backend, ffmpegPath string, interactive bool, in *bufio.Reader) int {
	mount := backend.DeviceInfo().MountPath
	all := backend.Tracks()

	seen := make([]*catalog.Track, 0, len(all))
	idx := dupindex.Build(nil)
	fp := fingerprint.NewFingerprinter(ffmpegPath)

	removed := 0
	for _, t := range all {
		fsPath := catalog.Demangle(mount, t.Path)
		dup, err := idx.Contains(fp, t, fsPath)
		if err != nil {
			log.Printf("gpod-rm: fingerprint %s: %v", t.Path, err)
			idx.Add(t)
			seen = append(seen, t)
			continue
		}
		if dup {
			if confirm(interactive, in, t) {
				backend.RemoveTrack(t.ID)
				backend.Unlink(t.Path)
				removed++
			}
			continue
		}
		idx.Add(t)
		seen = append(seen, t)
	}
	return removed
}

func confirm(interactive bool, in *bufio.Reader, t *catalog.Track) bool {
	if !interactive {
		return true
	}
	fmt.Printf("remove %q by %q (%s)? [y/N] ", t.Title, t.Artist, t.Path)
	line, _ := in.ReadString('\n')
	return line == "y\n" || line == "Y\n"
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
