// Command gpod-add ingests host-filesystem media files into an
// iPod-format catalog, transcoding unsupported formats, detecting
// duplicates, and maintaining the Recent playlists (spec §4.7, §6).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/whatdoineed2do/gpod-utils/internal/config"
	"github.com/whatdoineed2do/gpod-utils/internal/errs"
	"github.com/whatdoineed2do/gpod-utils/internal/ingest"
	"github.com/whatdoineed2do/gpod-utils/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		mountPoint        = flag.String("mount-point", "", "device root")
		threads           = flag.Int("threads", 0, "worker pool size (0 = online CPUs)")
		disableChecksum   = flag.Bool("disable-tracks-checksum-validate", false, "turn off duplicate detection")
		disableSanitize   = flag.Bool("disable-tracks-sanitize", false, "turn off text sanitization")
		replace           = flag.String("tracks-replace", "N", "Y/N toggle replace-by-identity")
		mediaType         = flag.String("tracks-media-type", "audio", "audio/podcast/audiobook")
		timeAdded         = flag.String("tracks-time-added", "", "ISO-8601 time_added override")
		encoder           = flag.String("encoder", "mp3", "mp3/aac/aac-ffmpeg/alac")
		disableFallback   = flag.Bool("disable-encoder-fallback", false, "disable fallback to mp3")
		quality           = flag.String("encoder-quality", "max", "vbr0..9 or cbr96/128/160/192/256/320")
		syncMeta          = flag.String("encoder-metadata-sync", "Y", "Y/N copy source tags")
		playlistName      = flag.String("playlist-name", "", "custom recent playlist name")
		playlistLimit     = flag.Int("playlist-limit", 50, "recent album cap")
		force             = flag.Bool("force", false, "accept an otherwise-unsupported device generation")
		ffprobePath       = flag.String("ffprobe", "ffprobe", "path to ffprobe")
		ffmpegPath        = flag.String("ffmpeg", "ffmpeg", "path to ffmpeg")
		showVersion       = flag.Bool("version", false, "print version and exit")
		watchDir          = flag.String("watch", "", "run as a long-lived daemon, re-scanning this directory on a schedule")
		watchInterval     = flag.String("interval", "*/15 * * * *", "cron expression for -watch re-scans")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Load().Version)
		return errs.ExitOK
	}

	if *mountPoint == "" {
		fmt.Fprintln(os.Stderr, "gpod-add: -mount-point is required")
		return errs.ExitCatalogOpenFail
	}
	if *watchDir == "" && flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "gpod-add: no input files given")
		return errs.ExitCatalogOpenFail
	}

	opts := ingest.DefaultOptions()
	opts.MountPath = *mountPoint
	opts.Force = *force
	opts.FFprobePath = *ffprobePath
	opts.FFmpegPath = *ffmpegPath
	opts.Checksum = !*disableChecksum
	opts.Sanitize = !*disableSanitize
	opts.Encoder = *encoder
	opts.EncoderFallback = !*disableFallback
	opts.RecentPlaylistName = *playlistName
	opts.RecentPlaylistLimit = *playlistLimit
	opts.MaxThreads = config.ClampThreads(*threads, runtime.NumCPU())

	var err error
	if opts.Replace, err = config.ParseYN(*replace); err != nil {
		fmt.Fprintf(os.Stderr, "gpod-add: -tracks-replace: %v\n", err)
		return errs.ExitCatalogOpenFail
	}
	if opts.SyncMeta, err = config.ParseYN(*syncMeta); err != nil {
		fmt.Fprintf(os.Stderr, "gpod-add: -encoder-metadata-sync: %v\n", err)
		return errs.ExitCatalogOpenFail
	}
	if opts.MediaType, err = config.ParseMediaType(*mediaType); err != nil {
		fmt.Fprintf(os.Stderr, "gpod-add: -tracks-media-type: %v\n", err)
		return errs.ExitCatalogOpenFail
	}
	if opts.Quality, err = config.ParseQuality(*quality); err != nil {
		fmt.Fprintf(os.Stderr, "gpod-add: -encoder-quality: %v\n", err)
		return errs.ExitCatalogOpenFail
	}
	if opts.TimeAdded, err = config.ParseTimeAdded(*timeAdded); err != nil {
		fmt.Fprintf(os.Stderr, "gpod-add: -tracks-time-added: %v\n", err)
		return errs.ExitCatalogOpenFail
	}

	if *watchDir != "" {
		return runWatch(opts, *watchDir, *watchInterval)
	}

	o := ingest.New(opts)
	result, err := o.Run(context.Background(), flag.Args())
	if err != nil {
		log.Printf("gpod-add: %v", err)
		switch {
		case errors.Is(err, errs.ErrLockContention):
			return errs.ExitLockContention
		case errors.Is(err, errs.ErrCatalogOpen):
			return errs.ExitCatalogOpenFail
		case errors.Is(err, errs.ErrCatalogWrite):
			return errs.ExitCatalogWriteFail
		}
		return errs.ExitCatalogWriteFail
	}

	log.Printf("gpod-add: %s", result.String())
	for _, r := range result.Replaced {
		log.Printf("gpod-add: replaced old_path=%s new_path=%s title=%q artist=%q album=%q",
			r.OldPath, r.NewPath, r.Title, r.Artist, r.Album)
	}
	for _, f := range result.Failed {
		log.Printf("gpod-add: failed %s: %v", f.Path, f.Err)
	}
	return errs.ExitOK
}

// runWatch starts a cron-scheduled ingest.Watcher over watchDir and
// blocks until a termination signal arrives.
func runWatch(opts ingest.Options, watchDir, cronExpr string) int {
	w, err := ingest.NewWatcher(opts, []string{watchDir}, cronExpr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gpod-add: -interval: %v\n", err)
		return errs.ExitCatalogOpenFail
	}

	log.Printf("gpod-add: watching %s on schedule %q", watchDir, cronExpr)
	w.Start()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	log.Printf("gpod-add: watch: shutting down")
	w.Stop()
	return errs.ExitOK
}
