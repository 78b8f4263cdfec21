package probe

import (
	"strconv"
	"strings"
	"time"
)

// tagParser normalizes a raw tag value before it's stored under the
// target canonical key.
type tagParser int

const (
	parseIdentity tagParser = iota
	parseTrackNum
	parseDiscNum
	parseDate
	parseGenre
	parseSort
)

// tagRule is the closed-enum replacement for the original's per-field
// handler_function pointers (spec §9 "Dynamic tag dispatch → tagged
// variants"): each rule names the source tag keys to look for (tried in
// order, first hit wins), the canonical target key to populate, and
// which parser to normalize the value with.
type tagRule struct {
	sourceKeys []string
	target     string
	parser     tagParser
}

// genericTagRules is the container-level generic tag map (ffprobe's
// format.tags / stream.tags, as every muxer exposes them under
// roughly-standardized keys).
var genericTagRules = []tagRule{
	{[]string{"title"}, MetaTitle, parseIdentity},
	{[]string{"artist"}, MetaArtist, parseIdentity},
	{[]string{"album"}, MetaAlbum, parseIdentity},
	{[]string{"album_artist"}, MetaAlbumArtist, parseIdentity},
	{[]string{"genre"}, MetaGenre, parseGenre},
	{[]string{"composer"}, MetaComposer, parseIdentity},
	{[]string{"grouping"}, MetaGrouping, parseIdentity},
	{[]string{"comment", "description"}, MetaComment, parseIdentity},
	{[]string{"track"}, MetaTrack, parseTrackNum},
	{[]string{"disc"}, MetaDisc, parseDiscNum},
	{[]string{"date", "year"}, MetaYear, parseDate},
	{[]string{"title-sort", "sort_name"}, MetaTitleSort, parseSort},
	{[]string{"artist-sort", "sort_artist"}, MetaArtistSort, parseSort},
	{[]string{"album-sort", "sort_album"}, MetaAlbumSort, parseSort},
	{[]string{"compilation"}, MetaCompilation, parseIdentity},
}

// id3TagRules maps ID3v2 textual frame IDs; applies only when the
// probed container is MP3.
var id3TagRules = []tagRule{
	{[]string{"TT1", "TIT1"}, MetaGrouping, parseIdentity},
	{[]string{"GP1", "GRP1"}, MetaGrouping, parseIdentity},
	{[]string{"TCM"}, MetaComposer, parseIdentity},
	{[]string{"TPA"}, MetaDisc, parseDiscNum},
	{[]string{"XSOA"}, MetaAlbumSort, parseSort},
	{[]string{"XSOP", "TSOP"}, MetaArtistSort, parseSort},
	{[]string{"XSOT", "TSOT"}, MetaTitleSort, parseSort},
	{[]string{"TS2", "TSO2", "ALBUMARTISTSORT"}, MetaAlbumArtistSort, parseSort},
	{[]string{"TSC", "TSOC"}, MetaComposerSort, parseSort},
}

// vorbisTagRules maps Vorbis-comment field names; applies only when the
// probed container is FLAC or Ogg.
var vorbisTagRules = []tagRule{
	{[]string{"albumartist", "album artist"}, MetaAlbumArtist, parseIdentity},
	{[]string{"tracknumber"}, MetaTrack, parseTrackNum},
	{[]string{"tracktotal", "totaltracks"}, MetaTrackTotal, parseIdentity},
	{[]string{"discnumber"}, MetaDisc, parseDiscNum},
	{[]string{"disctotal", "totaldiscs"}, MetaDiscTotal, parseIdentity},
}

// applyTagRules walks rules against src (case-insensitive key lookup)
// and writes normalized values into dst.
func applyTagRules(dst map[string]string, src map[string]string, rules []tagRule) {
	lower := make(map[string]string, len(src))
	for k, v := range src {
		lower[strings.ToLower(k)] = v
	}

	for _, rule := range rules {
		for _, key := range rule.sourceKeys {
			raw, ok := lower[strings.ToLower(key)]
			if !ok || raw == "" {
				continue
			}
			applyParsed(dst, rule.target, raw, rule.parser)
			break
		}
	}
}

func applyParsed(dst map[string]string, target, raw string, p tagParser) {
	switch p {
	case parseTrackNum:
		n, _ := parseSlashPair(raw)
		if n > 0 {
			dst[target] = strconv.Itoa(n)
		}
		if _, total := parseSlashPair(raw); total > 0 {
			dst[MetaTrackTotal] = strconv.Itoa(total)
		}
	case parseDiscNum:
		n, total := parseSlashPair(raw)
		if n > 0 {
			dst[target] = strconv.Itoa(n)
		}
		if total > 0 {
			dst[MetaDiscTotal] = strconv.Itoa(total)
		}
	case parseDate:
		if ts, ok := parseReleaseDate(raw); ok {
			dst[target] = strconv.FormatInt(ts, 10)
		} else if y, err := strconv.Atoi(raw); err == nil {
			dst[target] = strconv.Itoa(y)
		}
	case parseGenre:
		dst[target] = trimAtSemicolon(raw)
	case parseSort:
		dst[target] = raw
	default:
		dst[target] = raw
	}
}

// parseSlashPair parses an "n/N" tag value into (n, total); either side
// may be absent (returned as 0).
func parseSlashPair(raw string) (n, total int) {
	parts := strings.SplitN(raw, "/", 2)
	n, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	if len(parts) == 2 {
		total, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return n, total
}

// parseReleaseDate accepts ISO-8601 date/time variants and returns a
// Unix release timestamp.
func parseReleaseDate(raw string) (int64, bool) {
	layouts := []string{
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"2006-01",
		"2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Unix(), true
		}
	}
	return 0, false
}

// trimAtSemicolon truncates a genre tag at its first semicolon, per
// spec §4.1.
func trimAtSemicolon(raw string) string {
	if i := strings.IndexByte(raw, ';'); i >= 0 {
		return strings.TrimSpace(raw[:i])
	}
	return raw
}

// ReleaseYear extracts a four-digit year out of a canonicalized
// MetaYear value, which may hold either a bare year or a Unix
// timestamp produced by parseReleaseDate.
func ReleaseYear(meta map[string]string) int {
	raw, ok := meta[MetaYear]
	if !ok {
		return 0
	}
	if len(raw) <= 4 {
		if y, err := strconv.Atoi(raw); err == nil {
			return y
		}
		return 0
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return time.Unix(ts, 0).UTC().Year()
}
