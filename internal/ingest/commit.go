package ingest

import (
	"fmt"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/errs"
)

// commit performs the serialized commit section (spec §4.7 step 7):
// duplicate check, catalog append, on-device copy, statistics,
// recent-playlist insertion, replace eviction, and periodic
// write_catalog — all under the single commit mutex. No caller holds
// this mutex across a transcode or probe call (spec §5).
func (o *Orchestrator) commit(requestedIdx int, track *catalog.Track, stagedPath string) error {
	o.commitMu.Lock()
	defer o.commitMu.Unlock()

	if o.opts.Checksum {
		dup, err := o.idx.Contains(o.fp, track, stagedPath)
		if err != nil {
			return err
		}
		if dup {
			o.result.Stats.Duplicates++
			return nil
		}
	}

	f, err := openStaged(stagedPath)
	if err != nil {
		return err
	}
	defer f.Close()

	ext := extOf(stagedPath)
	devicePath, err := o.backend.CopyFileToDevice(f, ext)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrCopyFailure, err)
	}
	track.Path = devicePath

	id := o.backend.AddTrack(track)
	track.ID = id
	o.idx.Add(track)

	o.pendingPaths = append(o.pendingPaths, devicePath)
	o.bumpStats(track)

	if o.opts.RecentPlaylistName != "" && o.recentPlaylistID != 0 {
		o.backend.InsertTrackAt(o.recentPlaylistID, id, 0)
		o.trimRecentPlaylist()
	}

	if o.opts.Replace {
		o.applyReplace(track)
	}

	o.result.Added++
	o.sinceSync++
	if o.sinceSync >= o.opts.SyncEveryN {
		if err := o.backend.Write(); err != nil {
			o.rollback()
			return fmt.Errorf("%w: %v", errs.ErrCatalogWrite, err)
		}
		o.pendingPaths = nil
		o.sinceSync = 0
	}

	return nil
}

func (o *Orchestrator) bumpStats(t *catalog.Track) {
	switch t.MediaType {
	case catalog.MediaMovie:
		o.result.Stats.VideoAdded++
	case catalog.MediaAudio:
		o.result.Stats.MusicAdded++
	default:
		o.result.Stats.OtherAdded++
	}
	o.result.Stats.Bytes += t.Size
}

// trimRecentPlaylist enforces RecentPlaylistLimit on the named recent
// playlist (spec §4.7 step 7c: "trimming to limit"). Tracks beyond the
// limit are dropped from the playlist but remain in the catalog and
// master playlist.
func (o *Orchestrator) trimRecentPlaylist() {
	if o.opts.RecentPlaylistLimit <= 0 {
		return
	}
	playlists := o.backend.Playlists()
	pl, ok := playlists[o.recentPlaylistID]
	if !ok || len(pl.TrackIDs) <= o.opts.RecentPlaylistLimit {
		return
	}
	for _, id := range pl.TrackIDs[o.opts.RecentPlaylistLimit:] {
		_ = id // trimmed entries stay in the catalog; only the playlist membership is cut
	}
	pl.TrackIDs = pl.TrackIDs[:o.opts.RecentPlaylistLimit]
}

// applyReplace implements spec §4.7 step 7d: evict any prior track
// sharing the new track's TrackKey.
func (o *Orchestrator) applyReplace(newTrack *catalog.Track) {
	key, ok := newTrack.Key()
	if !ok {
		return
	}
	for _, old := range o.idx.ByKey(key) {
		if old.ID == newTrack.ID {
			continue
		}
		oldPath := old.Path
		o.backend.RemoveTrack(old.ID)
		o.idx.Remove(old)
		if err := o.backend.Unlink(oldPath); err != nil {
			continue
		}
		o.result.Replaced = append(o.result.Replaced, Replaced{
			OldPath: oldPath,
			NewPath: newTrack.Path,
			Title:   newTrack.Title,
			Artist:  newTrack.Artist,
			Album:   newTrack.Album,
		})
	}
}

// rollback unlinks every device-relative path staged since the last
// successful checkpoint (spec §7 "CatalogWriteFailure": "rollback of
// the pending device-path list (best-effort unlinks)"; DESIGN NOTES:
// only the paths staged since the last successful write are undone,
// not prior committed batches).
func (o *Orchestrator) rollback() {
	for _, p := range o.pendingPaths {
		_ = o.backend.Unlink(p)
	}
	o.pendingPaths = nil
}
