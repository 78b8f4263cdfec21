package transcode

import "github.com/google/uuid"

// randSuffix gives each staged temp file a short unique suffix so
// concurrent workers sharing the same (tempdir, pid) prefix never
// collide, the way the ingest orchestrator's per-file "uuid =
// time-of-day µs" naming (spec §4.7 step 4) disambiguates staged
// transcode outputs.
func randSuffix() string {
	return uuid.New().String()[:8]
}
