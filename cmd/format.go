package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jfmyers9/lrcup/internal/lrc"
	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

// padToWidth pads or truncates text to a fixed display width.
// Width is measured in display columns, accounting for Unicode characters.
// If width <= 0, returns text unchanged.
// If text is longer than width, truncates with "..." suffix.
// If text is shorter than width, pads with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text // no padding requested
	}

	currentWidth := runewidth.StringWidth(text)

	if currentWidth > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)

		if width <= ellipsisWidth {
			// If width is too small, just return ellipsis truncated to width
			return runewidth.Truncate(ellipsis, width, "")
		}

		// Truncate to (width - ellipsisWidth) and add ellipsis
		truncated := runewidth.Truncate(text, width-ellipsisWidth, "")
		result := truncated + ellipsis

		// A wide rune cut at the boundary leaves us one column short
		if resultWidth := runewidth.StringWidth(result); resultWidth < width {
			return result + strings.Repeat(" ", width-resultWidth)
		}
		return result
	} else if currentWidth < width {
		return text + strings.Repeat(" ", width-currentWidth)
	}

	return text // exactly the right width
}

// parseDuration reads a track duration given as M:S or as whole seconds
func parseDuration(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("duration is empty")
	}

	if minutes, seconds, ok := strings.Cut(s, ":"); ok {
		m, err := strconv.Atoi(minutes)
		if err != nil || m < 0 {
			return 0, fmt.Errorf("invalid minutes in duration %q", s)
		}
		sec, err := strconv.ParseFloat(seconds, 64)
		if err != nil || sec < 0 || sec >= 60 {
			return 0, fmt.Errorf("invalid seconds in duration %q", s)
		}
		return float64(m*60) + sec, nil
	}

	sec, err := strconv.ParseFloat(s, 64)
	if err != nil || sec < 0 {
		return 0, fmt.Errorf("invalid duration %q (use M:S or seconds)", s)
	}
	return sec, nil
}

// formatSeconds renders a duration in seconds as M:SS
func formatSeconds(seconds float64) string {
	total := int(seconds + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// resultRows renders search results as numbered rows fitted to width columns
func resultRows(records []lrclib.Record, width int) []string {
	rows := make([]string, len(records))
	numWidth := len(strconv.Itoa(len(records)))

	for i, rec := range records {
		num := fmt.Sprintf("%*d) ", numWidth, i+1)
		kind := "plain "
		if rec.SyncedLyrics != "" {
			kind = "synced"
		}
		suffix := fmt.Sprintf("  %5s  %s", formatSeconds(rec.Duration), kind)

		title := artistNames(rec.ArtistName) + " - " + rec.TrackName
		if rec.AlbumName != "" && rec.AlbumName != rec.TrackName {
			title += " (" + rec.AlbumName + ")"
		}

		avail := width - runewidth.StringWidth(num) - runewidth.StringWidth(suffix)
		if width <= 0 || avail < 10 {
			rows[i] = num + title + suffix
			continue
		}
		rows[i] = num + padToWidth(title, avail) + suffix
	}
	return rows
}

// lrcFilename derives a safe .lrc file name from a track name
func lrcFilename(track string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(track))
	if name == "" || name == "." || name == ".." {
		name = "lyrics"
	}
	return name + ".lrc"
}

// siblingLRC returns path with its extension replaced by .lrc
func siblingLRC(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".lrc"
}

// recordLyrics picks the lyrics to save from a record. Synced lyrics are
// normalized to timestamped lines only, which drops any [ar:] style header
// LRCLIB stored with them.
func recordLyrics(rec lrclib.Record, plain bool) string {
	if rec.SyncedLyrics == "" || (plain && rec.PlainLyrics != "") {
		return rec.PlainLyrics
	}
	if text := lrc.Normalize(rec.SyncedLyrics); text != "" {
		return text
	}
	return rec.SyncedLyrics
}
