package probe

import "testing"

func TestAudioNativelySupported(t *testing.T) {
	tests := []struct {
		codec string
		want  bool
	}{
		{"mp3", true},
		{"MP3", true},
		{"aac", true},
		{"alac", true},
		{"flac", false},
		{"vorbis", false},
		{"wmav2", false},
	}
	for _, tt := range tests {
		if got := audioNativelySupported(tt.codec); got != tt.want {
			t.Errorf("audioNativelySupported(%q) = %v, want %v", tt.codec, got, tt.want)
		}
	}
}

func TestVideoAccepted(t *testing.T) {
	tests := []struct {
		name  string
		video VideoStream
		audio AudioStream
		want  bool
	}{
		{
			name:  "fits classic table",
			video: VideoStream{Width: 640, Height: 480, Bitrate: 2_000_000, FPS: 29.97, Profile: "baseline"},
			audio: AudioStream{Samplerate: 44100, Channels: 2},
			want:  true,
		},
		{
			name:  "constrained baseline accepted",
			video: VideoStream{Width: 320, Height: 240, Bitrate: 500_000, FPS: 24, Profile: "constrained baseline"},
			audio: AudioStream{Samplerate: 48000, Channels: 1},
			want:  true,
		},
		{
			name:  "resolution too large",
			video: VideoStream{Width: 1280, Height: 720, Bitrate: 1_000_000, FPS: 24, Profile: "baseline"},
			audio: AudioStream{Samplerate: 44100, Channels: 2},
			want:  false,
		},
		{
			name:  "high profile rejected even within size/bitrate",
			video: VideoStream{Width: 640, Height: 480, Bitrate: 1_000_000, FPS: 24, Profile: "high"},
			audio: AudioStream{Samplerate: 44100, Channels: 2},
			want:  false,
		},
		{
			name:  "audio samplerate too high",
			video: VideoStream{Width: 640, Height: 480, Bitrate: 1_000_000, FPS: 24, Profile: "baseline"},
			audio: AudioStream{Samplerate: 96000, Channels: 2},
			want:  false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := videoAccepted(tt.video, tt.audio)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("videoAccepted() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseSlashPair(t *testing.T) {
	tests := []struct {
		raw       string
		wantN     int
		wantTotal int
	}{
		{"3/12", 3, 12},
		{"3", 3, 0},
		{"", 0, 0},
		{" 5 / 10 ", 5, 10},
	}
	for _, tt := range tests {
		n, total := parseSlashPair(tt.raw)
		if n != tt.wantN || total != tt.wantTotal {
			t.Errorf("parseSlashPair(%q) = (%d,%d), want (%d,%d)", tt.raw, n, total, tt.wantN, tt.wantTotal)
		}
	}
}

func TestTrimAtSemicolon(t *testing.T) {
	tests := []struct{ raw, want string }{
		{"Rock; Pop", "Rock"},
		{"Rock", "Rock"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := trimAtSemicolon(tt.raw); got != tt.want {
			t.Errorf("trimAtSemicolon(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestParseReleaseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"2020-01-02T15:04:05Z", true},
		{"2020-01-02", true},
		{"2020", true},
		{"not-a-date", false},
	}
	for _, tt := range tests {
		_, ok := parseReleaseDate(tt.raw)
		if ok != tt.want {
			t.Errorf("parseReleaseDate(%q) ok = %v, want %v", tt.raw, ok, tt.want)
		}
	}
}

func TestApplyTagRulesGenericVorbisOverride(t *testing.T) {
	dst := make(map[string]string)
	applyTagRules(dst, map[string]string{"album": "Generic Album", "album_artist": "Generic AlbumArtist"}, genericTagRules)
	if dst[MetaAlbum] != "Generic Album" {
		t.Fatalf("expected generic album set, got %q", dst[MetaAlbum])
	}

	applyTagRules(dst, map[string]string{"albumartist": "Vorbis AlbumArtist"}, vorbisTagRules)
	if dst[MetaAlbumArtist] != "Vorbis AlbumArtist" {
		t.Fatalf("expected vorbis album_artist set, got %q", dst[MetaAlbumArtist])
	}
}
