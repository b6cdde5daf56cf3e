// Package lrc parses and renders the LRC timed-lyrics format.
//
// An LRC document is a sequence of lines of the form
//
//	[MM:SS.xx] text
//
// where MM and SS are two-digit minutes and seconds and xx is a fractional
// second of at least two digits. A document whose every non-blank line carries
// such a timestamp is Synced; anything else is Plain and kept verbatim.
package lrc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Mode distinguishes timestamped lyrics from plain text.
type Mode int

const (
	Plain  Mode = iota // Undifferentiated text, no timing information
	Synced             // Every line carries a timestamp
)

// String returns a human-readable representation of the Mode
func (m Mode) String() string {
	switch m {
	case Plain:
		return "plain"
	case Synced:
		return "synced"
	default:
		return "unknown"
	}
}

// Line is a single timestamped lyric line.
type Line struct {
	Offset int64  // Milliseconds from the start of the track
	Text   string // Lyric text with leading whitespace removed
}

// Document is a parsed lyrics source.
//
// Lines is populated for Synced documents, Text for Plain ones.
type Document struct {
	Mode  Mode
	Lines []Line
	Text  string
}

var (
	// timestampLine is the full grammar of a synced line.
	timestampLine = regexp.MustCompile(`^\[(\d{2}):(\d{2})\.(\d{2,})\](.*)$`)

	// timestampShape has the widths of a timestamp but any characters in
	// its components. Matching it without matching timestampLine means a
	// component is not numeric.
	timestampShape = regexp.MustCompile(`^\[(\w{2}):(\w{2})\.(\w{2,})\]`)
)

// Parse classifies text as Synced or Plain and, when Synced, converts every
// line to a Line in source order.
//
// Blank lines are ignored. A single non-timestamped line makes the whole
// document Plain, in which case Text holds the input unmodified. A line
// shaped like [MM:SS.xx] whose components are not all digits is a
// *ParseError.
func Parse(text string) (Document, error) {
	var lines []Line
	plain := false

	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		line, ok, err := parseLine(raw, i+1)
		if err != nil {
			return Document{}, err
		}
		if !ok {
			plain = true
			continue
		}
		lines = append(lines, line)
	}

	if plain {
		return Document{Mode: Plain, Text: text}, nil
	}

	return Document{Mode: Synced, Lines: lines}, nil
}

// ParseSynced parses text that must be Synced.
//
// A Plain result is reported as a *ParseError naming the first line without
// a timestamp.
func ParseSynced(text string) (Document, error) {
	doc, err := Parse(text)
	if err != nil {
		return Document{}, err
	}
	if doc.Mode == Synced {
		return doc, nil
	}

	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if _, ok, _ := parseLine(raw, i+1); !ok {
			return Document{}, &ParseError{Line: i + 1, Text: raw, Reason: "missing timestamp"}
		}
	}

	return Document{}, &ParseError{Reason: "missing timestamp"}
}

// Classify returns the Mode of text. Text with no lines at all is Plain.
// Malformed timestamps are returned as a *ParseError rather than treated as
// plain text.
func Classify(text string) (Mode, error) {
	doc, err := Parse(text)
	if err != nil {
		return Plain, err
	}
	if doc.Mode == Synced && len(doc.Lines) > 0 {
		return Synced, nil
	}
	return Plain, nil
}

// parseLine converts a single non-blank line. ok is false when the line is
// not a timestamp at all.
func parseLine(raw string, lineNo int) (Line, bool, error) {
	m := timestampLine.FindStringSubmatch(raw)
	if m == nil {
		if isMalformedTimestamp(raw) {
			return Line{}, false, &ParseError{Line: lineNo, Text: raw, Reason: "malformed timestamp"}
		}
		return Line{}, false, nil
	}

	minutes, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Line{}, false, &ParseError{Line: lineNo, Text: raw, Reason: "invalid minutes", Err: err}
	}
	seconds, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Line{}, false, &ParseError{Line: lineNo, Text: raw, Reason: "invalid seconds", Err: err}
	}

	// floor(fraction*1000): keep the first three fractional digits
	frac := m[3]
	if len(frac) > 3 {
		frac = frac[:3]
	}
	frac += strings.Repeat("0", 3-len(frac))
	millis, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return Line{}, false, &ParseError{Line: lineNo, Text: raw, Reason: "invalid fraction", Err: err}
	}

	return Line{
		Offset: minutes*60000 + seconds*1000 + millis,
		Text:   strings.TrimLeft(m[4], " \t"),
	}, true, nil
}

// isMalformedTimestamp reports whether raw opens with something the width of
// a timestamp that holds digits and non-digits. Header tags such as
// [ti:ab.cd] carry no digits and are left alone.
func isMalformedTimestamp(raw string) bool {
	m := timestampShape.FindStringSubmatch(raw)
	if m == nil {
		return false
	}
	return strings.ContainsAny(m[1]+m[2]+m[3], "0123456789")
}

// Dump renders a Synced document back to LRC text.
//
// Offsets are rendered with hundredths precision, so anything below 10ms is
// rounded down. Lines are joined with a single newline and no trailing
// newline is written. A Plain document is returned as its original text.
func Dump(doc Document) string {
	if doc.Mode != Synced {
		return doc.Text
	}

	rendered := make([]string, len(doc.Lines))
	for i, line := range doc.Lines {
		rendered[i] = FormatTimestamp(line.Offset) + " " + line.Text
	}
	return strings.Join(rendered, "\n")
}

// FormatTimestamp renders a millisecond offset as [MM:SS.ff].
func FormatTimestamp(ms int64) string {
	minutes := ms / 60000
	seconds := ms/1000 - minutes*60
	millis := ms - minutes*60000 - seconds*1000
	return fmt.Sprintf("[%02d:%02d.%02d]", minutes, seconds, millis/10)
}

// Normalize keeps only the timestamped lines of text and re-renders them in
// canonical form. Lines without a timestamp, including LRC header tags such
// as [ar:...], are dropped.
func Normalize(text string) string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		m := timestampLine.FindStringSubmatch(strings.TrimSuffix(raw, "\r"))
		if m == nil {
			continue
		}
		out = append(out, fmt.Sprintf("[%s:%s.%s] %s", m[1], m[2], m[3], strings.TrimSpace(m[4])))
	}
	return strings.Join(out, "\n")
}
