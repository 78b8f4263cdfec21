package ingest

import "strings"

// sanitizeReplacer maps the common non-ASCII punctuation ffprobe tags
// carry (curly quotes, en/em dashes) to their ASCII equivalents, per
// spec §4.7's sanitize option ("replace curly quotes / dashes with
// ASCII").
var sanitizeReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"“", "\"", // left double quote
	"”", "\"", // right double quote
	"–", "-", // en dash
	"—", "-", // em dash
	"…", "...", // ellipsis
)

// sanitizeText applies sanitizeReplacer when enabled, otherwise returns
// s unchanged.
func sanitizeText(s string, enabled bool) string {
	if !enabled {
		return s
	}
	return sanitizeReplacer.Replace(s)
}
