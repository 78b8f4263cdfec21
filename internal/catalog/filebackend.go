package catalog

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// musicSubdirs is the number of "F##" subdirectories the device layout
// rotates new files through, per spec §6.
const musicSubdirs = 40

const (
	relMusicDir   = "iPod_Control/Music"
	relCatalogDir = "iPod_Control/iTunes"
	relCatalog    = "iPod_Control/iTunes/iTunesDB"
)

// fileBackend is the reference Backend implementation: it persists the
// catalog as a gob-encoded snapshot under iPod_Control/iTunes/iTunesDB
// and copies files into iPod_Control/Music/F##/ the way a real device
// lays them out. A production deployment would replace this with a
// cgo binding over libgpod; this implementation exists so the module
// builds, runs, and is testable without one (see DESIGN.md).
type fileBackend struct {
	mu sync.Mutex

	mount  string
	device Device

	nextTrackID    int64
	nextPlaylistID int64
	nextRotation   int

	tracks    map[int64]*Track
	playlists map[int64]*Playlist
	masterID  int64
}

type onDiskCatalog struct {
	Device         Device
	NextTrackID    int64
	NextPlaylistID int64
	NextRotation   int
	Tracks         map[int64]*Track
	Playlists      map[int64]*Playlist
	MasterID       int64
}

// Open loads (or initializes) the catalog at mount. force, if true,
// accepts a device generation that isn't in the known-writable set.
func Open(mount string, force bool) (Backend, error) {
	catalogPath := filepath.Join(mount, relCatalog)

	b := &fileBackend{
		mount:          mount,
		nextTrackID:    1,
		nextPlaylistID: 1,
		tracks:         make(map[int64]*Track),
		playlists:      make(map[int64]*Playlist),
	}

	if data, err := os.Open(catalogPath); err == nil {
		defer data.Close()
		var snap onDiskCatalog
		if err := gob.NewDecoder(data).Decode(&snap); err != nil {
			return nil, fmt.Errorf("decode catalog at %s: %w", catalogPath, err)
		}
		b.device = snap.Device
		b.nextTrackID = snap.NextTrackID
		b.nextPlaylistID = snap.NextPlaylistID
		b.nextRotation = snap.NextRotation
		b.tracks = snap.Tracks
		b.playlists = snap.Playlists
		b.masterID = snap.MasterID
	} else if os.IsNotExist(err) {
		b.device = Device{MountPath: mount, Generation: detectGeneration(mount), WriteCapable: true}
		master := &Playlist{ID: b.nextPlaylistID, Name: "iPod", IsMaster: true, Timestamp: time.Now()}
		b.playlists[master.ID] = master
		b.masterID = master.ID
		b.nextPlaylistID++
	} else {
		return nil, fmt.Errorf("open catalog at %s: %w", catalogPath, err)
	}

	if !b.device.WriteCapable && !force {
		return nil, fmt.Errorf("%s: device generation %d", "device not known-writable", b.device.Generation)
	}
	b.device.WriteCapable = true

	return b, nil
}

// detectGeneration is a placeholder for the device identification a
// real libgpod binding would perform by reading SysInfoExtended on the
// mount. Absent that, every mount is treated as a writable "classic"
// generation, matching the single device class spec §4.1 supports
// writing to.
func detectGeneration(mount string) int {
	return 6 // "classic" ipod generation, the only write-capable class per spec §4.1
}

func (b *fileBackend) DeviceInfo() Device {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.device
}

func (b *fileBackend) Tracks() map[int64]*Track {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[int64]*Track, len(b.tracks))
	for k, v := range b.tracks {
		out[k] = v
	}
	return out
}

func (b *fileBackend) Playlists() map[int64]*Playlist {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[int64]*Playlist, len(b.playlists))
	for k, v := range b.playlists {
		out[k] = v
	}
	return out
}

func (b *fileBackend) MasterPlaylist() *Playlist {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playlists[b.masterID]
}

func (b *fileBackend) AddTrack(t *Track) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	t.ID = b.nextTrackID
	b.nextTrackID++
	b.tracks[t.ID] = t
	master := b.playlists[b.masterID]
	master.TrackIDs = append(master.TrackIDs, t.ID)
	return t.ID
}

func (b *fileBackend) RemoveTrack(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tracks, id)
	for _, pl := range b.playlists {
		pl.TrackIDs = removeID(pl.TrackIDs, id)
	}
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (b *fileBackend) CreatePlaylist(name string) *Playlist {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, pl := range b.playlists {
		if !pl.IsMaster && pl.Name == name {
			delete(b.playlists, id)
		}
	}
	pl := &Playlist{ID: b.nextPlaylistID, Name: name, Timestamp: time.Now()}
	b.nextPlaylistID++
	b.playlists[pl.ID] = pl
	return pl
}

func (b *fileBackend) InsertTrackAt(playlistID, trackID int64, pos int) {
	b.mu.Lock()
	defer b.mu.Unlock()
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

func (b *fileBackend) CopyFileToDevice(src io.Reader, suggestedExt string) (string, error) {
	b.mu.Lock()
	rotation := b.nextRotation
	b.nextRotation = (b.nextRotation + 1) % musicSubdirs
	b.mu.Unlock()

	subdir := fmt.Sprintf("F%02d", rotation)
	dir := filepath.Join(b.mount, relMusicDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	name := fmt.Sprintf("GPOD%04X%s", time.Now().UnixNano()&0xFFFF, suggestedExt)
	dest := filepath.Join(dir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("copy to %s: %w", dest, err)
	}

	return Mangle(b.mount, dest), nil
}

func (b *fileBackend) Unlink(devicePath string) error {
	full := Demangle(b.mount, devicePath)
	err := os.Remove(full)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (b *fileBackend) Write() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	dir := filepath.Join(b.mount, relCatalogDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp := filepath.Join(dir, "iTunesDB.tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	snap := onDiskCatalog{
		Device:         b.device,
		NextTrackID:    b.nextTrackID,
		NextPlaylistID: b.nextPlaylistID,
		NextRotation:   b.nextRotation,
		Tracks:         b.tracks,
		Playlists:      b.playlists,
		MasterID:       b.masterID,
	}
	if err := gob.NewEncoder(f).Encode(&snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	return os.Rename(tmp, filepath.Join(b.mount, relCatalog))
}

func (b *fileBackend) Close() error {
	return nil
}
