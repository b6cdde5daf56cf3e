package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/jfmyers9/lrcup/internal/lrc"
	"github.com/jfmyers9/lrcup/internal/tags"
)

// lyricsSource is lyrics text plus whatever track metadata came with it
type lyricsSource struct {
	Path     string
	Text     string
	Track    string
	Artist   string
	Album    string
	Duration float64 // Seconds, 0 when unknown
	Mode     lrc.Mode
}

// Synced reports whether the lyrics are timestamped
func (s *lyricsSource) Synced() bool {
	return s.Mode == lrc.Synced
}

// classify sets Mode from Text. A malformed timestamp fails the load.
func (s *lyricsSource) classify() error {
	mode, err := lrc.Classify(s.Text)
	if err != nil {
		return fmt.Errorf("failed to read lyrics from %s: %w", s.Path, err)
	}
	s.Mode = mode
	return nil
}

// loadSource reads lyrics from an audio file or from an LRC text file
func loadSource(path, language string) (*lyricsSource, error) {
	if _, ok := tags.FormatOf(path); ok {
		return loadContainer(path, language)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lyrics: %w", err)
	}

	header, body := lrc.SplitHeader(string(data))
	src := &lyricsSource{
		Path:   path,
		Text:   strings.TrimRight(body, "\r\n"),
		Track:  header[lrc.TagTitle],
		Artist: header[lrc.TagArtist],
		Album:  header[lrc.TagAlbum],
	}
	if length := header[lrc.TagLength]; length != "" {
		if d, err := parseDuration(length); err == nil {
			src.Duration = d
		}
	}
	if err := src.classify(); err != nil {
		return nil, err
	}
	return src, nil
}

func loadContainer(path, language string) (*lyricsSource, error) {
	c, err := tags.Open(path, tags.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	text, ok, err := c.Lyrics(language)
	if err != nil {
		return nil, fmt.Errorf("failed to read lyrics: %w", err)
	}
	if !ok {
		// Fall back to any language
		text, _, _ = c.Lyrics("")
	}

	src := &lyricsSource{Path: path, Text: text, Duration: c.Duration()}
	src.Track, _ = c.Tag(tags.FieldTitle)
	src.Artist, _ = c.Tag(tags.FieldArtist)
	src.Album, _ = c.Tag(tags.FieldAlbum)
	if err := src.classify(); err != nil {
		return nil, err
	}
	return src, nil
}

// writeLRC writes lyrics text to path atomically
func writeLRC(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if err := atomic.WriteFile(path, strings.NewReader(text)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
