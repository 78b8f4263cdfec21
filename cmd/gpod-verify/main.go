// Command gpod-verify reconciles the catalog against the on-device
// filesystem and optionally backfills audio fingerprints (spec §4.8,
// §6 "Verifier CLI").
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/errs"
	"github.com/whatdoineed2do/gpod-utils/internal/lock"
	"github.com/whatdoineed2do/gpod-utils/internal/verify"
	"github.com/whatdoineed2do/gpod-utils/internal/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		mountPoint   = flag.String("M", "", "device root")
		addExtras    = flag.Bool("a", false, "add filesystem extras found on device back into the catalog")
		deleteExtras = flag.Bool("d", false, "delete filesystem extras not present in the catalog")
		fillMissing  = flag.Bool("c", false, "fill in missing audio fingerprints")
		regenAll     = flag.Bool("C", false, "regenerate every audio fingerprint")
		threads      = flag.Int("T", runtime.NumCPU(), "fingerprint worker pool size")
		syncEveryN   = flag.Int("n", 100, "write_catalog checkpoint interval")
		ffprobePath  = flag.String("ffprobe", "ffprobe", "path to ffprobe")
		ffmpegPath   = flag.String("ffmpeg", "ffmpeg", "path to ffmpeg")
		force        = flag.Bool("force", false, "accept an otherwise-unsupported device generation")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Load().Version)
		return errs.ExitOK
	}

	if *mountPoint == "" {
		fmt.Fprintln(os.Stderr, "gpod-verify: -M mount point is required")
		return errs.ExitCatalogOpenFail
	}
	if *addExtras && *deleteExtras {
		fmt.Fprintln(os.Stderr, "gpod-verify: -a and -d are mutually exclusive")
		return errs.ExitCatalogOpenFail
	}

	l, err := lock.Acquire(lock.DefaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gpod-verify: %v\n", err)
		return errs.ExitLockContention
	}
	defer l.Release()

	backend, err := catalog.Open(*mountPoint, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gpod-verify: %v\n", err)
		return errs.ExitCatalogOpenFail
	}
	defer backend.Close()

	v := verify.New(backend, *ffmpegPath)
	result, err := v.Run(verify.Mode{
		AddExtras:     *addExtras,
		DeleteExtras:  *deleteExtras,
		FillMissing:   *fillMissing,
		RegenerateAll: *regenAll,
		Threads:       *threads,
		SyncEveryN:    *syncEveryN,
		FFprobePath:   *ffprobePath,
		FFmpegPath:    *ffmpegPath,
	})
	if err != nil {
		log.Printf("gpod-verify: %v", err)
		return errs.ExitCatalogWriteFail
	}

	log.Printf("gpod-verify: dropped=%d added_back=%d removed_extras=%d orphans=%d fingerprints_set=%d",
		len(result.DroppedDangling), len(result.AddedBack), len(result.RemovedExtras),
		len(result.Orphans), result.FingerprintsSet)
	for _, o := range result.Orphans {
		log.Printf("gpod-verify: orphan %s", o)
	}
	return errs.ExitOK
}
