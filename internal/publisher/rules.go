package publisher

import (
	"fmt"
	"strings"

	"github.com/jfmyers9/lrcup/internal/lrc"
	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

// LRCLIB publishing rules
const (
	// DurationTolerance is how far past the track duration, in milliseconds,
	// the last synced timestamp may fall. LRCLIB matches durations within 2s.
	DurationTolerance = 2000
)

// ValidationError describes a submission that LRCLIB would reject.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s %s", e.Field, e.Reason)
}

// Validate checks a submission against the publishing rules:
//  1. Track, artist and album names must be non-empty
//  2. Duration must be positive
//  3. At least one of plain or synced lyrics must be present
//  4. Synced lyrics must parse as timestamped LRC
//  5. The last synced timestamp must not exceed the duration
func Validate(sub lrclib.Submission) error {
	required := []struct {
		field string
		value string
	}{
		{"trackName", sub.TrackName},
		{"artistName", sub.ArtistName},
		{"albumName", sub.AlbumName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Field: r.field, Reason: "is required"}
		}
	}

	if sub.Duration <= 0 {
		return &ValidationError{Field: "duration", Reason: "must be positive"}
	}

	if strings.TrimSpace(sub.PlainLyrics) == "" && strings.TrimSpace(sub.SyncedLyrics) == "" {
		return &ValidationError{Field: "lyrics", Reason: "are empty"}
	}

	if sub.SyncedLyrics == "" {
		return nil
	}

	doc, err := lrc.ParseSynced(sub.SyncedLyrics)
	if err != nil {
		return fmt.Errorf("invalid submission: syncedLyrics: %w", err)
	}
	if n := len(doc.Lines); n > 0 {
		last := doc.Lines[n-1].Offset
		if float64(last) > sub.Duration*1000+DurationTolerance {
			return &ValidationError{
				Field:  "syncedLyrics",
				Reason: fmt.Sprintf("end at %s, past the %.0fs duration", lrc.FormatTimestamp(last), sub.Duration),
			}
		}
	}
	return nil
}

// Prepare fills in the plain lyrics of a synced-only submission with the
// text of its timed lines, since LRCLIB shows plain lyrics to clients that
// cannot sync.
func Prepare(sub lrclib.Submission) lrclib.Submission {
	if sub.PlainLyrics != "" || sub.SyncedLyrics == "" {
		return sub
	}
	doc, err := lrc.Parse(sub.SyncedLyrics)
	if err != nil || doc.Mode != lrc.Synced {
		return sub
	}
	lines := make([]string, len(doc.Lines))
	for i, l := range doc.Lines {
		lines[i] = l.Text
	}
	sub.PlainLyrics = strings.Join(lines, "\n")
	return sub
}

// FromLyrics builds a submission, placing text in the synced or plain
// field depending on whether it carries timestamps. Text with a malformed
// timestamp is rejected with the *lrc.ParseError.
func FromLyrics(track, artist, album string, duration float64, text string) (lrclib.Submission, error) {
	sub := lrclib.Submission{
		TrackName:  track,
		ArtistName: artist,
		AlbumName:  album,
		Duration:   duration,
	}
	mode, err := lrc.Classify(text)
	if err != nil {
		return lrclib.Submission{}, fmt.Errorf("invalid lyrics: %w", err)
	}
	if mode == lrc.Synced {
		sub.SyncedLyrics = text
	} else {
		sub.PlainLyrics = text
	}
	return sub, nil
}
