package lrc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Offset shifts every line of a Synced document by delta milliseconds.
//
// Only the first line is checked against the start of the track: lines are
// expected in ascending order, so callers holding unsorted input must sort it
// first. The argument is never modified; on error it is returned unchanged
// alongside the error.
func Offset(doc Document, delta int64) (Document, error) {
	if doc.Mode != Synced {
		return doc, ErrNotSynced
	}
	if len(doc.Lines) > 0 && doc.Lines[0].Offset+delta < 0 {
		return doc, &OutOfRangeError{First: doc.Lines[0].Offset, Delta: delta}
	}

	shifted := make([]Line, len(doc.Lines))
	for i, line := range doc.Lines {
		shifted[i] = Line{Offset: line.Offset + delta, Text: line.Text}
	}

	return Document{Mode: Synced, Lines: shifted}, nil
}

var unitDelta = regexp.MustCompile(`^(?:(\d+)m)?(?:(\d+(?:\.\d+)?)s)?$`)

// ParseDelta converts a signed minutes/seconds expression to milliseconds.
//
// The sign is mandatory. Minutes and seconds are both optional:
//
//	+1:30   -0:05   +2:   -:45   +12   -1.5
//	+1m30s  -2m     +45s
func ParseDelta(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("lrc: empty offset")
	}

	var sign int64
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("lrc: offset %q must start with + or -", s)
	}

	body := s[1:]
	if body == "" {
		return 0, fmt.Errorf("lrc: offset %q has no value", s)
	}

	var minutes, seconds string
	switch {
	case strings.Contains(body, ":"):
		minutes, seconds, _ = strings.Cut(body, ":")
		if minutes == "" && seconds == "" {
			return 0, fmt.Errorf("lrc: offset %q has no value", s)
		}
	case strings.ContainsAny(body, "ms"):
		m := unitDelta.FindStringSubmatch(body)
		if m == nil || (m[1] == "" && m[2] == "") {
			return 0, fmt.Errorf("lrc: invalid offset %q", s)
		}
		minutes, seconds = m[1], m[2]
	default:
		seconds = body
	}

	var total int64
	if minutes != "" {
		n, err := strconv.ParseInt(minutes, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("lrc: invalid minutes in offset %q", s)
		}
		total += n * 60000
	}
	if seconds != "" {
		ms, err := parseSeconds(seconds)
		if err != nil {
			return 0, fmt.Errorf("lrc: invalid seconds in offset %q: %w", s, err)
		}
		total += ms
	}

	return sign * total, nil
}

// parseSeconds converts "SS" or "SS.fff" to milliseconds without going
// through floating point.
func parseSeconds(s string) (int64, error) {
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	n, err := strconv.ParseUint(whole, 10, 63)
	if err != nil {
		return 0, err
	}

	var millis int64
	if frac != "" {
		if len(frac) > 3 {
			frac = frac[:3]
		}
		frac += strings.Repeat("0", 3-len(frac))
		f, err := strconv.ParseUint(frac, 10, 16)
		if err != nil {
			return 0, err
		}
		millis = int64(f)
	}

	return int64(n)*1000 + millis, nil
}
