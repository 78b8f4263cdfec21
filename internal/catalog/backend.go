package catalog

import "io"

// Backend is the seam between the pipeline and the on-device catalog
// database. Spec §1 treats the binary (de)serializer as an external
// collaborator ("assumed available as a library that parses/writes the
// catalog, exposes tracks and playlists, and copies a file onto the
// device in the device's mangled path layout"); this interface is that
// assumption made concrete so the rest of the module has something to
// compile and test against. See DESIGN.md for the rationale behind
// shipping a reference file-based implementation alongside it.
type Backend interface {
	// DeviceInfo returns the attached device's identity and write
	// capability.
	DeviceInfo() Device

	// Tracks returns every track currently in the catalog, keyed by ID.
	Tracks() map[int64]*Track

	// Playlists returns every playlist currently in the catalog, keyed
	// by ID. The master playlist is reachable via MasterPlaylist.
	Playlists() map[int64]*Playlist

	// MasterPlaylist returns the distinguished playlist containing
	// every track.
	MasterPlaylist() *Playlist

	// AddTrack inserts t into the catalog (assigning an ID) and appends
	// it to the master playlist. It does not write to disk or copy any
	// file.
	AddTrack(t *Track) int64

	// RemoveTrack detaches a track from every playlist and from the
	// catalog itself. It does not unlink the on-device file.
	RemoveTrack(id int64)

	// CreatePlaylist creates a new, empty, non-master playlist,
	// replacing any existing playlist of the same name.
	CreatePlaylist(name string) *Playlist

	// InsertTrackAt inserts trackID into playlist at position pos
	// (0 = front).
	InsertTrackAt(playlistID int64, trackID int64, pos int)

	// CopyFileToDevice stages src onto the device under its mangled
	// path layout (iPod_Control/Music/F##/...) and returns the
	// device-relative path of the copied file. It does not modify the
	// catalog; the caller records the path on the track.
	CopyFileToDevice(src io.Reader, suggestedExt string) (devicePath string, err error)

	// Unlink removes the file at the given device-relative path from
	// the device filesystem. Used for rollback and replace eviction.
	Unlink(devicePath string) error

	// Write flushes all pending catalog mutations to the on-device
	// binary database.
	Write() error

	// Close releases any resources (file handles) held by the backend.
	Close() error
}
