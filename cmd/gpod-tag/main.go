// Command gpod-tag edits catalog metadata fields on an already-ingested
// track in place (spec §6 "Tag CLI"). An empty-string flag value clears
// a text field; -1 clears a numeric field. Sort-name fields are
// regenerated from the new value whenever its counterpart changes.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/config"
	"github.com/whatdoineed2do/gpod-utils/internal/errs"
	"github.com/whatdoineed2do/gpod-utils/internal/version"
)

// unsetString is a sentinel distinguishing "flag not given" from
// "flag given as empty string" (which means clear the field).
const unsetString = "\x00unset"

func main() {
	os.Exit(run())
}

func run() int {
	var (
		mountPoint  = flag.String("M", "", "device root")
		title       = flag.String("title", unsetString, "new title, \"\" to clear")
		artist      = flag.String("artist", unsetString, "new artist, \"\" to clear")
		album       = flag.String("album", unsetString, "new album, \"\" to clear")
		albumArtist = flag.String("albumartist", unsetString, "new album-artist, \"\" to clear")
		composer    = flag.String("composer", unsetString, "new composer, \"\" to clear")
		genre       = flag.String("genre", unsetString, "new genre, \"\" to clear")
		year        = flag.Int("year", -2, "new year, -1 to clear")
		trackNum    = flag.Int("track", -2, "new track number, -1 to clear")
		discNum     = flag.Int("disc", -2, "new disc number, -1 to clear")
		rating      = flag.Int("rating", -2, "0-5 star rating, -1 to clear")
		force       = flag.Bool("force", false, "accept an otherwise-unsupported device generation")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Load().Version)
		return errs.ExitOK
	}

	if *mountPoint == "" {
		fmt.Fprintln(os.Stderr, "gpod-tag: -M mount point is required")
		return errs.ExitCatalogOpenFail
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "gpod-tag: expects exactly one track ID or device path")
		return errs.ExitCatalogOpenFail
	}

	backend, err := catalog.Open(*mountPoint, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gpod-tag: %v\n", err)
		return errs.ExitCatalogOpenFail
	}
	defer backend.Close()

	target, ok := resolveTrack(backend, flag.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "gpod-tag: no track matches %q\n", flag.Arg(0))
		return errs.ExitCatalogOpenFail
	}

	applyStringFlag(*title, &target.Title)
	applyStringFlag(*artist, &target.Artist)
	applyStringFlag(*album, &target.Album)
	applyStringFlag(*albumArtist, &target.AlbumArtist)
	applyStringFlag(*composer, &target.Composer)
	applyStringFlag(*genre, &target.Genre)
	applyIntFlag(*year, -2, &target.Year)
	applyIntFlag(*trackNum, -2, &target.TrackNumber)
	applyIntFlag(*discNum, -2, &target.DiscNumber)
	if *rating != -2 {
		if *rating == -1 {
			target.Rating = 0
		} else {
			target.Rating = *rating * catalog.RatingStep
		}
	}

	if *title != unsetString {
		target.SortTitle = catalog.SortName(target.Title)
	}
	if *artist != unsetString {
		target.SortArtist = catalog.SortName(target.Artist)
	}
	if *album != unsetString {
		target.SortAlbum = catalog.SortName(target.Album)
	}

	if err := backend.Write(); err != nil {
		log.Printf("gpod-tag: write_catalog: %v", err)
		return errs.ExitCatalogWriteFail
	}
	return errs.ExitOK
}

func resolveTrack(backend catalog.Backend, arg string) (*catalog.Track, bool) {
	tracks := backend.Tracks()
	if id, isID := config.ParseIDOrPath(arg); isID {
		t, ok := tracks[id]
		return t, ok
	}
	for _, t := range tracks {
		if t.Path == arg {
			return t, true
		}
	}
	return nil, false
}

// applyStringFlag sets *field to the flag's value unless the flag was
// never given (still holding unsetString).
func applyStringFlag(flagVal string, field *string) {
	if flagVal != unsetString {
		*field = flagVal
	}
}

// applyIntFlag sets *field to the flag's value unless it's still at the
// "not given" sentinel; -1 clears the field to 0.
func applyIntFlag(flagVal, unset int, field *int) {
	switch flagVal {
	case unset:
		return
	case -1:
		*field = 0
	default:
		*field = flagVal
	}
}
