package ingest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/dupindex"
	"github.com/whatdoineed2do/gpod-utils/internal/fingerprint"
)

// fakeBackend is a minimal in-memory catalog.Backend for exercising the
// commit section without a real device mount.
type fakeBackend struct {
	nextID    int64
	tracks    map[int64]*catalog.Track
	playlists map[int64]*catalog.Playlist
	masterID  int64
	unlinked  []string
	writes    int
	failWrite bool
}

func newFakeBackend() *fakeBackend {
	master := &catalog.Playlist{ID: 1, Name: "iPod", IsMaster: true}
	return &fakeBackend{
		nextID:    2,
		tracks:    make(map[int64]*catalog.Track),
		playlists: map[int64]*catalog.Playlist{1: master},
		masterID:  1,
	}
}

func (b *fakeBackend) DeviceInfo() catalog.Device { return catalog.Device{Generation: 6, WriteCapable: true} }
func (b *fakeBackend) Tracks() map[int64]*catalog.Track {
	out := make(map[int64]*catalog.Track, len(b.tracks))
	for k, v := range b.tracks {
		out[k] = v
	}
	return out
}
func (b *fakeBackend) Playlists() map[int64]*catalog.Playlist {
	out := make(map[int64]*catalog.Playlist, len(b.playlists))
	for k, v := range b.playlists {
		out[k] = v
	}
	return out
}
func (b *fakeBackend) MasterPlaylist() *catalog.Playlist { return b.playlists[b.masterID] }
func (b *fakeBackend) AddTrack(t *catalog.Track) int64 {
	t.ID = b.nextID
	b.nextID++
	b.tracks[t.ID] = t
	m := b.playlists[b.masterID]
	m.TrackIDs = append(m.TrackIDs, t.ID)
	return t.ID
}
func (b *fakeBackend) RemoveTrack(id int64) {
	delete(b.tracks, id)
	for _, pl := range b.playlists {
		out := pl.TrackIDs[:0]
		for _, v := range pl.TrackIDs {
			if v != id {
				out = append(out, v)
			}
		}
		pl.TrackIDs = out
	}
}
func (b *fakeBackend) CreatePlaylist(name string) *catalog.Playlist {
	for id, pl := range b.playlists {
		if !pl.IsMaster && pl.Name == name {
			delete(b.playlists, id)
		}
	}
	id := b.nextID
	b.nextID++
	pl := &catalog.Playlist{ID: id, Name: name}
	b.playlists[id] = pl
	return pl
}
func (b *fakeBackend) InsertTrackAt(playlistID, trackID int64, pos int) {
	pl, ok := b.playlists[playlistID]
	if !ok {
		return
	}
	if pos < 0 || pos > len(pl.TrackIDs) {
		pos = len(pl.TrackIDs)
	}
	pl.TrackIDs = append(pl.TrackIDs, 0)
	copy(pl.TrackIDs[pos+1:], pl.TrackIDs[pos:])
	pl.TrackIDs[pos] = trackID
}
func (b *fakeBackend) CopyFileToDevice(src io.Reader, ext string) (string, error) {
	io.Copy(io.Discard, src)
	return "Music\\F00\\track" + ext, nil
}
func (b *fakeBackend) Unlink(devicePath string) error {
	b.unlinked = append(b.unlinked, devicePath)
	return nil
}
func (b *fakeBackend) Write() error {
	b.writes++
	if b.failWrite {
		return os.ErrInvalid
	}
	return nil
}
func (b *fakeBackend) Close() error { return nil }

func newOrchestratorWithFake(t *testing.T, opts Options) (*Orchestrator, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	o := &Orchestrator{
		opts:    opts,
		backend: fb,
		idx:     dupindex.Build(nil),
		cancel:  &cancelFlag{},
	}
	return o, fb
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staged.mp3")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeTempFile: %v", err)
	}
	return path
}

func TestCommitAddsTrackAndStats(t *testing.T) {
	opts := DefaultOptions()
	opts.Checksum = false
	opts.SyncEveryN = 10
	o, fb := newOrchestratorWithFake(t, opts)

	staged := writeTempFile(t, "fake mp3 bytes")
	track := &catalog.Track{Title: "T", Artist: "A", Album: "Al", MediaType: catalog.MediaAudio, Size: 14}

	if err := o.commit(0, track, staged); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if o.result.Added != 1 {
		t.Errorf("Added = %d, want 1", o.result.Added)
	}
	if o.result.Stats.MusicAdded != 1 {
		t.Errorf("MusicAdded = %d, want 1", o.result.Stats.MusicAdded)
	}
	if len(fb.tracks) != 1 {
		t.Errorf("expected 1 track in backend, got %d", len(fb.tracks))
	}
	master := fb.MasterPlaylist()
	if len(master.TrackIDs) != 1 {
		t.Errorf("expected track added to master playlist, got %v", master.TrackIDs)
	}
}

func TestCommitChecksumSkipsSecondIdenticalInput(t *testing.T) {
	opts := DefaultOptions()
	opts.Checksum = true
	o, _ := newOrchestratorWithFake(t, opts)
	o.fp = fakeFingerprinter{digest: "same"}

	staged := writeTempFile(t, "identical content")
	// processOne stashes the fingerprint on every track before commit.
	stash := fingerprint.EncodeStash(fingerprint.Checksum("same"))
	t1 := &catalog.Track{Title: "T", Artist: "A", Album: "Al", Size: 1, DurationMS: 1, Bitrate: 1, Samplerate: 1, UserField: stash}
	if err := o.commit(0, t1, staged); err != nil {
		t.Fatalf("commit 1: %v", err)
	}

	t2 := &catalog.Track{Title: "T", Artist: "A", Album: "Al", Size: 1, DurationMS: 1, Bitrate: 1, Samplerate: 1, UserField: stash}
	if err := o.commit(1, t2, staged); err != nil {
		t.Fatalf("commit 2: %v", err)
	}

	if o.result.Added != 1 {
		t.Errorf("Added = %d, want 1 (second should be duplicate)", o.result.Added)
	}
	if o.result.Stats.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", o.result.Stats.Duplicates)
	}
}

func TestCommitReplaceEvictsOldTrack(t *testing.T) {
	opts := DefaultOptions()
	opts.Checksum = false
	opts.Replace = true
	o, fb := newOrchestratorWithFake(t, opts)

	staged1 := writeTempFile(t, "old")
	old := &catalog.Track{Title: "X", Artist: "Z", Album: "Y"}
	if err := o.commit(0, old, staged1); err != nil {
		t.Fatalf("commit old: %v", err)
	}

	staged2 := writeTempFile(t, "new")
	newTrack := &catalog.Track{Title: "X", Artist: "Z", Album: "Y"}
	if err := o.commit(1, newTrack, staged2); err != nil {
		t.Fatalf("commit new: %v", err)
	}

	if len(fb.tracks) != 1 {
		t.Errorf("expected old track evicted, %d tracks remain", len(fb.tracks))
	}
	if len(o.result.Replaced) != 1 {
		t.Fatalf("expected 1 Replaced record, got %d", len(o.result.Replaced))
	}
	if len(fb.unlinked) != 1 {
		t.Errorf("expected old device path unlinked, got %v", fb.unlinked)
	}
}

func TestCommitPeriodicCheckpoint(t *testing.T) {
	opts := DefaultOptions()
	opts.Checksum = false
	opts.SyncEveryN = 2
	o, fb := newOrchestratorWithFake(t, opts)

	for i := 0; i < 3; i++ {
		staged := writeTempFile(t, "x")
		track := &catalog.Track{Title: "T", Artist: "A", Album: "Al"}
		if err := o.commit(i, track, staged); err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
	}
	if fb.writes == 0 {
		t.Error("expected at least one checkpoint write_catalog call")
	}
}

func TestRollbackUnlinksPendingPaths(t *testing.T) {
	opts := DefaultOptions()
	o, fb := newOrchestratorWithFake(t, opts)
	o.pendingPaths = []string{"Music\\F00\\a.mp3", "Music\\F00\\b.mp3"}

	o.rollback()

	if len(fb.unlinked) != 2 {
		t.Errorf("expected 2 unlinks, got %d", len(fb.unlinked))
	}
	if len(o.pendingPaths) != 0 {
		t.Errorf("expected pendingPaths cleared, got %v", o.pendingPaths)
	}
}

// fakeFingerprinter always returns the same digest, for exercising
// duplicate-detection without invoking ffmpeg.
type fakeFingerprinter struct {
	digest string
}

func (f fakeFingerprinter) HashAudio(path string) (string, error) {
	return f.digest, nil
}
