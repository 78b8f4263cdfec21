// Package verify implements the Verifier (spec §4.8): a three-phase
// catalog/filesystem reconciliation plus optional fingerprint backfill,
// reusing the Ingest Orchestrator's worker-pool shape (buffered
// channel, fixed goroutine pool, wg.Wait, mutex-guarded shared state)
// for its fingerprinting pass.
package verify

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/dupindex"
	"github.com/whatdoineed2do/gpod-utils/internal/fingerprint"
	"github.com/whatdoineed2do/gpod-utils/internal/probe"
)

// Mode selects the Verifier CLI's behavior (spec §6 "Verifier CLI").
type Mode struct {
	AddExtras       bool // -a: add filesystem extras to catalog
	DeleteExtras    bool // -d: delete filesystem extras
	FillMissing     bool // -c: fill missing fingerprints
	RegenerateAll   bool // -C: regenerate all fingerprints
	Threads         int  // -T
	SyncEveryN      int  // -n, default 100
	FFprobePath     string
	FFmpegPath      string
}

// Result summarizes what one verify pass did.
type Result struct {
	DroppedDangling  []string // device paths whose catalog entry was removed
	AddedBack        []string // filesystem extras re-attached to the catalog
	RemovedExtras    []string // filesystem extras deleted from disk
	Orphans          []string // filesystem extras left untouched, reported only
	FingerprintsSet  int
}

// Verifier runs against an already-open catalog Backend.
type Verifier struct {
	backend catalog.Backend
	fp      dupindex.Fingerprinter
}

// New constructs a Verifier.
func New(backend catalog.Backend, ffmpegPath string) *Verifier {
	return &Verifier{backend: backend, fp: fingerprint.NewFingerprinter(ffmpegPath)}
}

// Run executes phases 1-3 and a final write_catalog (spec §4.8).
func (v *Verifier) Run(mode Mode) (*Result, error) {
	if mode.SyncEveryN <= 0 {
		mode.SyncEveryN = 100
	}
	if mode.Threads <= 0 {
		mode.Threads = 1
	}

	result := &Result{}

	indexed := v.phase1DropDangling(result)
	v.phase2ReconcileExtras(mode, indexed, result)

	if mode.FillMissing || mode.RegenerateAll {
		if err := v.phase3Fingerprint(mode, result); err != nil {
			return result, err
		}
	}

	if err := v.backend.Write(); err != nil {
		return result, err
	}
	return result, nil
}

// phase1DropDangling removes any master-playlist track whose
// device-relative file no longer exists, and returns the set of
// filesystem paths that ARE still indexed (so phase 2 can skip them).
func (v *Verifier) phase1DropDangling(result *Result) map[string]bool {
	mount := v.backend.DeviceInfo().MountPath
	master := v.backend.MasterPlaylist()
	tracks := v.backend.Tracks()

	indexed := make(map[string]bool, len(master.TrackIDs))
	var dangling []int64

	for _, id := range master.TrackIDs {
		t, ok := tracks[id]
		if !ok {
			continue
		}
		fsPath := catalog.Demangle(mount, t.Path)
		if _, err := os.Stat(fsPath); err != nil {
			dangling = append(dangling, id)
			result.DroppedDangling = append(result.DroppedDangling, t.Path)
			continue
		}
		indexed[fsPath] = true
	}

	for _, id := range dangling {
		v.backend.RemoveTrack(id)
	}
	return indexed
}

// phase2ReconcileExtras walks the music directory and, for every file
// not already indexed by phase 1, either re-attaches it (AddExtras),
// deletes it (DeleteExtras), or reports it as an orphan (default).
func (v *Verifier) phase2ReconcileExtras(mode Mode, indexed map[string]bool, result *Result) {
	mount := v.backend.DeviceInfo().MountPath
	musicDir := catalog.MusicDir(mount)
	gen := v.backend.DeviceInfo().Generation

	filepath.WalkDir(musicDir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d == nil || d.IsDir() || indexed[path] {
			return nil
		}

		switch {
		case mode.AddExtras:
			info, perr := probe.Probe(mode.FFprobePath, mode.FFmpegPath, path, gen)
			if perr != nil {
				result.Orphans = append(result.Orphans, path)
				return nil
			}
			track := &catalog.Track{
				Title:      info.Meta[probe.MetaTitle],
				Artist:     info.Meta[probe.MetaArtist],
				Album:      info.Meta[probe.MetaAlbum],
				Size:       info.Size,
				DurationMS: info.Audio.DurationMS,
				Bitrate:    info.Audio.Bitrate,
				Samplerate: info.Audio.Samplerate,
				Path:       catalog.Mangle(mount, path),
			}
			v.backend.AddTrack(track)
			result.AddedBack = append(result.AddedBack, path)
		case mode.DeleteExtras:
			if rerr := os.Remove(path); rerr == nil {
				result.RemovedExtras = append(result.RemovedExtras, path)
			}
		default:
			result.Orphans = append(result.Orphans, path)
		}
		return nil
	})
}

// phase3Fingerprint pushes every master-playlist track through a
// worker pool that resolves its on-device path, computes the audio
// fingerprint, and writes it back to the track's stash field (spec
// §4.8 phase 3). A periodic checkpoint flushes every SyncEveryN
// successful fingerprint writes from within the pool, under a mutex
// shared by the pool's workers.
func (v *Verifier) phase3Fingerprint(mode Mode, result *Result) error {
	mount := v.backend.DeviceInfo().MountPath
	master := v.backend.MasterPlaylist()
	tracks := v.backend.Tracks()

	type job struct{ track *catalog.Track }
	jobCh := make(chan job, mode.Threads*4)

	var mu sync.Mutex
	var wg sync.WaitGroup
	var writeErr error
	sinceSync := 0

	for w := 0; w < mode.Threads; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				t := j.track
				if t.UserField != "" && !mode.RegenerateAll {
					continue
				}
				fsPath := catalog.Demangle(mount, t.Path)
				digest, err := v.fp.HashAudio(fsPath)
				if err != nil {
					continue
				}
				checksum := fingerprint.Checksum(digest)

				mu.Lock()
				t.UserField = fingerprint.EncodeStash(checksum)
				result.FingerprintsSet++
				sinceSync++
				if sinceSync >= mode.SyncEveryN {
					if err := v.backend.Write(); err != nil {
						writeErr = err
					}
					sinceSync = 0
				}
				mu.Unlock()
			}
		}()
	}

	for _, id := range master.TrackIDs {
		if t, ok := tracks[id]; ok {
			jobCh <- job{track: t}
		}
	}
	close(jobCh)
	wg.Wait()

	return writeErr
}
