package dupindex

import (
	"errors"
	"testing"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
	"github.com/whatdoineed2do/gpod-utils/internal/fingerprint"
)

func sampleTrack(id int64, artist, title, album string) *catalog.Track {
	return &catalog.Track{
		ID:         id,
		Artist:     artist,
		Title:      title,
		Album:      album,
		Size:       1000,
		DurationMS: 200000,
		Bitrate:    192,
		Samplerate: 44100,
	}
}

func TestBuildAndByKey(t *testing.T) {
	tracks := []*catalog.Track{
		sampleTrack(1, "Artist A", "Song One", "Album X"),
		sampleTrack(2, "", "No Artist", "Album Y"),
	}
	idx := Build(tracks)

	got := idx.ByKey(catalog.TrackKey{Title: "Song One", Album: "Album X", Artist: "Artist A"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("ByKey = %v, want track 1", got)
	}

	missing := idx.ByKey(catalog.TrackKey{Title: "No Artist", Album: "Album Y", Artist: ""})
	if len(missing) != 0 {
		t.Errorf("expected track with empty artist to be unindexed, got %v", missing)
	}
}

type stubFingerprinter struct {
	digest string
	err    error
}

func (s stubFingerprinter) HashAudio(path string) (string, error) {
	return s.digest, s.err
}

func TestContainsNoBucketCollision(t *testing.T) {
	existing := sampleTrack(1, "Artist A", "Song One", "Album X")
	idx := Build([]*catalog.Track{existing})

	candidate := sampleTrack(2, "Different Artist", "Different Title", "Different Album")
	dup, err := idx.Contains(stubFingerprinter{digest: "deadbeef"}, candidate, "/tmp/whatever.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup {
		t.Error("expected no duplicate when med/high keys differ")
	}
}

func TestContainsCollisionFingerprintMatch(t *testing.T) {
	existing := sampleTrack(1, "Artist A", "Song One", "Album X")
	existing.UserField = fingerprint.EncodeStash(fingerprint.Checksum("same-digest"))
	idx := Build([]*catalog.Track{existing})

	candidate := sampleTrack(2, "Artist A", "Song One", "Album X")
	fp := stubFingerprinter{digest: "same-digest"}
	dup, err := idx.Contains(fp, candidate, "/tmp/whatever.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if candidate.UserField == "" {
		t.Error("expected candidate.UserField to be stashed regardless of outcome")
	}
	if !dup {
		t.Error("expected duplicate when the candidate's fingerprint matches the stored one")
	}
}

func TestContainsPropagatesFingerprintError(t *testing.T) {
	existing := sampleTrack(1, "Artist A", "Song One", "Album X")
	idx := Build([]*catalog.Track{existing})

	candidate := sampleTrack(2, "Artist A", "Song One", "Album X")
	wantErr := errors.New("decode failed")
	_, err := idx.Contains(stubFingerprinter{err: wantErr}, candidate, "/tmp/whatever.mp3")
	if !errors.Is(err, wantErr) {
		t.Errorf("expected propagated error, got %v", err)
	}
}

func TestAddAndRemove(t *testing.T) {
	idx := Build(nil)
	t1 := sampleTrack(1, "A", "T", "Al")
	idx.Add(t1)

	got := idx.ByKey(catalog.TrackKey{Title: "T", Album: "Al", Artist: "A"})
	if len(got) != 1 {
		t.Fatalf("expected track registered after Add, got %v", got)
	}

	idx.Remove(t1)
	got = idx.ByKey(catalog.TrackKey{Title: "T", Album: "Al", Artist: "A"})
	if len(got) != 0 {
		t.Errorf("expected track removed, got %v", got)
	}
}
