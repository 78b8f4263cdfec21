package verify

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
)

type fakeBackend struct {
	mount     string
	nextID    int64
	tracks    map[int64]*catalog.Track
	playlists map[int64]*catalog.Playlist
	masterID  int64
	writes    int
}

func newFakeBackend(mount string) *fakeBackend {
	master := &catalog.Playlist{ID: 1, Name: "iPod", IsMaster: true}
	return &fakeBackend{
		mount:     mount,
		nextID:    2,
		tracks:    make(map[int64]*catalog.Track),
		playlists: map[int64]*catalog.Playlist{1: master},
		masterID:  1,
	}
}

func (b *fakeBackend) DeviceInfo() catalog.Device {
	return catalog.Device{MountPath: b.mount, Generation: 6, WriteCapable: true}
}
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
	id := b.nextID
	b.nextID++
	pl := &catalog.Playlist{ID: id, Name: name}
	b.playlists[id] = pl
	return pl
}
func (b *fakeBackend) InsertTrackAt(playlistID, trackID int64, pos int) {}
func (b *fakeBackend) CopyFileToDevice(src io.Reader, ext string) (string, error) {
	io.Copy(io.Discard, src)
	return "Music\\F00\\new" + ext, nil
}
func (b *fakeBackend) Unlink(devicePath string) error { return nil }
func (b *fakeBackend) Write() error {
	b.writes++
	return nil
}
func (b *fakeBackend) Close() error { return nil }

func TestPhase1DropsDanglingEntries(t *testing.T) {
	mount := t.TempDir()
	musicDir := catalog.MusicDir(mount)
	os.MkdirAll(musicDir, 0o755)

	present := filepath.Join(musicDir, "present.mp3")
	os.WriteFile(present, []byte("x"), 0o644)

	fb := newFakeBackend(mount)
	keep := &catalog.Track{Path: catalog.Mangle(mount, present)}
	gone := &catalog.Track{Path: `Music\F00\gone.mp3`}
	fb.AddTrack(keep)
	fb.AddTrack(gone)

	v := &Verifier{backend: fb}
	result := &Result{}
	indexed := v.phase1DropDangling(result)

	if len(result.DroppedDangling) != 1 {
		t.Fatalf("expected 1 dangling entry dropped, got %d: %v", len(result.DroppedDangling), result.DroppedDangling)
	}
	if !indexed[present] {
		t.Errorf("expected present file marked indexed, got %v", indexed)
	}
	if _, ok := fb.tracks[gone.ID]; ok {
		t.Error("expected dangling track removed from backend")
	}
}

func TestPhase2ReportsOrphansByDefault(t *testing.T) {
	mount := t.TempDir()
	musicDir := catalog.MusicDir(mount)
	os.MkdirAll(musicDir, 0o755)
	extra := filepath.Join(musicDir, "extra.mp3")
	os.WriteFile(extra, []byte("x"), 0o644)

	fb := newFakeBackend(mount)
	v := &Verifier{backend: fb}
	result := &Result{}
	v.phase2ReconcileExtras(Mode{}, map[string]bool{}, result)

	if len(result.Orphans) != 1 || result.Orphans[0] != extra {
		t.Errorf("expected extra file reported as orphan, got %v", result.Orphans)
	}
}

func TestPhase2DeletesExtrasWhenConfigured(t *testing.T) {
	mount := t.TempDir()
	musicDir := catalog.MusicDir(mount)
	os.MkdirAll(musicDir, 0o755)
	extra := filepath.Join(musicDir, "extra.mp3")
	os.WriteFile(extra, []byte("x"), 0o644)

	fb := newFakeBackend(mount)
	v := &Verifier{backend: fb}
	result := &Result{}
	v.phase2ReconcileExtras(Mode{DeleteExtras: true}, map[string]bool{}, result)

	if len(result.RemovedExtras) != 1 {
		t.Fatalf("expected extra removed, got %v", result.RemovedExtras)
	}
	if _, err := os.Stat(extra); !os.IsNotExist(err) {
		t.Error("expected file actually deleted from disk")
	}
}

type fakeFingerprinter struct{ digest string }

func (f fakeFingerprinter) HashAudio(path string) (string, error) { return f.digest, nil }

func TestPhase3FingerprintsMissingOnly(t *testing.T) {
	mount := t.TempDir()
	musicDir := catalog.MusicDir(mount)
	os.MkdirAll(musicDir, 0o755)
	p := filepath.Join(musicDir, "a.mp3")
	os.WriteFile(p, []byte("x"), 0o644)

	fb := newFakeBackend(mount)
	t1 := &catalog.Track{Path: catalog.Mangle(mount, p)}
	fb.AddTrack(t1)
	t2 := &catalog.Track{Path: catalog.Mangle(mount, p), UserField: "999"}
	fb.AddTrack(t2)

	v := &Verifier{backend: fb, fp: fakeFingerprinter{digest: "abc"}}
	result := &Result{}
	if err := v.phase3Fingerprint(Mode{Threads: 2, SyncEveryN: 100}, result); err != nil {
		t.Fatalf("phase3Fingerprint: %v", err)
	}
	if result.FingerprintsSet != 1 {
		t.Errorf("FingerprintsSet = %d, want 1", result.FingerprintsSet)
	}
	if t1.UserField == "" {
		t.Error("expected track UserField stashed")
	}
	if t2.UserField != "999" {
		t.Errorf("expected existing fingerprint left as is, got %q", t2.UserField)
	}
}
