package lrc

import (
	"regexp"
	"strings"
)

// Common LRC ID tags.
const (
	TagTitle  = "ti"
	TagArtist = "ar"
	TagAlbum  = "al"
	TagLength = "length"
	TagOffset = "offset"
)

var idTag = regexp.MustCompile(`^\[([A-Za-z#]+):(.*)\]\s*$`)

// SplitHeader removes ID tag lines such as [ar: Artist] from text and returns
// them keyed by lower-cased tag name together with the remaining lyrics.
//
// Only the leading block of the document is inspected, blank lines included.
// Tags after the first lyric line are left in place.
func SplitHeader(text string) (map[string]string, string) {
	header := make(map[string]string)
	lines := strings.Split(text, "\n")

	i := 0
	for ; i < len(lines); i++ {
		raw := strings.TrimSuffix(lines[i], "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		m := idTag.FindStringSubmatch(raw)
		if m == nil {
			break
		}
		header[strings.ToLower(m[1])] = strings.TrimSpace(m[2])
	}

	if len(header) == 0 {
		return header, text
	}
	return header, strings.Join(lines[i:], "\n")
}
