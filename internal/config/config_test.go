package config

import (
	"testing"
	"time"

	"github.com/whatdoineed2do/gpod-utils/internal/catalog"
)

func TestParseYN(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"Y", true, false},
		{"n", false, false},
		{"yes", true, false},
		{"NO", false, false},
		{"true", true, false},
		{"bogus", false, true},
	}
	for _, tt := range tests {
		got, err := ParseYN(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseYN(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseYN(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMediaType(t *testing.T) {
	tests := []struct {
		in      string
		want    catalog.MediaType
		wantErr bool
	}{
		{"", catalog.MediaAudio, false},
		{"audio", catalog.MediaAudio, false},
		{"podcast", catalog.MediaPodcast, false},
		{"audiobook", catalog.MediaAudiobook, false},
		{"nonsense", catalog.MediaAudio, true},
	}
	for _, tt := range tests {
		got, err := ParseMediaType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMediaType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMediaType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"max", -1, false},
		{"", -1, false},
		{"vbr0", 0, false},
		{"vbr9", 9, false},
		{"cbr192", 192000, false},
		{"garbage", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseQuality(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseQuality(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseQuality(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseTimeAdded(t *testing.T) {
	got, err := ParseTimeAdded("2026-07-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseTimeAdded = %v, want %v", got, want)
	}

	zero, err := ParseTimeAdded("")
	if err != nil || !zero.IsZero() {
		t.Errorf("expected zero time for empty string, got %v err=%v", zero, err)
	}

	_, err = ParseTimeAdded("not-a-date")
	if err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestClampThreads(t *testing.T) {
	tests := []struct {
		n, cpus, want int
	}{
		{0, 4, 4},
		{-1, 4, 4},
		{20, 4, 8},
		{3, 4, 3},
	}
	for _, tt := range tests {
		got := ClampThreads(tt.n, tt.cpus)
		if got != tt.want {
			t.Errorf("ClampThreads(%d, %d) = %d, want %d", tt.n, tt.cpus, got, tt.want)
		}
	}
}

func TestParseIDOrPath(t *testing.T) {
	id, isID := ParseIDOrPath("12345")
	if !isID || id != 12345 {
		t.Errorf("ParseIDOrPath(%q) = (%d, %v), want (12345, true)", "12345", id, isID)
	}

	_, isID = ParseIDOrPath("Music/F00/song.mp3")
	if isID {
		t.Error("expected path argument to not be treated as an ID")
	}
}
