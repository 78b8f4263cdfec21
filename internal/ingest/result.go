package ingest

import "fmt"

// Replaced records one replace-by-identity swap (spec §4.7 step 7d).
type Replaced struct {
	OldPath string
	NewPath string
	Title   string
	Artist  string
	Album   string
}

// FailedItem records one per-item failure (spec §7 "Propagation
// policy": per-item errors are recovered locally into this list, never
// fatal).
type FailedItem struct {
	Path string
	Err  error
}

// Stats accumulates the run's counters: music/video/other adds, bytes
// of added tracks, and duplicates skipped. Transcode time is not
// tracked.
type Stats struct {
	MusicAdded int
	VideoAdded int
	OtherAdded int
	Bytes      int64
	Duplicates int
}

// Result is the final summary of an ingest run (spec §7: "the output
// summary always reports ttl added vs ttl requested and lists failed
// inputs").
type Result struct {
	Requested int
	Added     int
	Stats     Stats
	Replaced  []Replaced
	Failed    []FailedItem
}

// String renders a short human-readable summary line.
func (r *Result) String() string {
	return fmt.Sprintf("added %d/%d requested (%d duplicates, %d replaced, %d failed)",
		r.Added, r.Requested, r.Stats.Duplicates, len(r.Replaced), len(r.Failed))
}
