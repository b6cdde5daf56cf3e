package tags

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"

	"github.com/jfmyers9/lrcup/internal/lrc"
)

// vorbisLyricsFields are checked in order by Lyrics. Some taggers write
// UNSYNCEDLYRICS instead of LYRICS.
var vorbisLyricsFields = []string{FieldLyrics, "UNSYNCEDLYRICS"}

// vorbisContainer keeps a FLAC file's Vorbis comments in memory. Names are
// matched case-insensitively.
type vorbisContainer struct {
	path     string
	logger   zerolog.Logger
	duration float64

	vendor   string
	comments []string // NAME=value
}

func openVorbis(path string, logger zerolog.Logger) (*vorbisContainer, error) {
	f, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	c := &vorbisContainer{path: path, logger: logger}

	if si, err := f.GetStreamInfo(); err != nil {
		logger.Warn().Err(err).Msg("Failed to read stream info")
	} else if si.SampleRate > 0 {
		c.duration = float64(si.SampleCount) / float64(si.SampleRate)
	}

	cmt, _, err := findVorbisComment(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Vorbis comments: %w", err)
	}
	if cmt != nil {
		c.vendor = cmt.Vendor
		c.comments = append(c.comments, cmt.Comments...)
	}

	return c, nil
}

func findVorbisComment(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int, error) {
	for i, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		return cmt, i, err
	}
	return nil, -1, nil
}

func (c *vorbisContainer) Path() string      { return c.path }
func (c *vorbisContainer) Format() Format    { return FormatVorbis }
func (c *vorbisContainer) Duration() float64 { return c.duration }

func (c *vorbisContainer) Tag(name string) (string, bool) {
	for _, kv := range c.comments {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}

func (c *vorbisContainer) SetTag(name, value string) error {
	if name == "" || strings.ContainsAny(name, "=~") {
		return fmt.Errorf("invalid Vorbis comment name %q", name)
	}

	kept := c.comments[:0:0]
	for _, kv := range c.comments {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.EqualFold(key, name) {
			kept = append(kept, kv)
		}
	}
	if value != "" {
		kept = append(kept, strings.ToUpper(name)+"="+value)
	}
	c.comments = kept

	return c.save()
}

// Lyrics ignores the language; FLAC files carry a single lyrics field.
func (c *vorbisContainer) Lyrics(string) (string, bool, error) {
	for _, name := range vorbisLyricsFields {
		if text, ok := c.Tag(name); ok {
			return text, true, nil
		}
	}
	return "", false, nil
}

func (c *vorbisContainer) SetLyrics(_ lrc.Mode, payload Payload, _ string) error {
	if payload.IsTimed() {
		return fmt.Errorf("%w: FLAC lyrics are stored as text", ErrPayloadShape)
	}
	return c.SetTag(FieldLyrics, payload.text)
}

// save re-reads the file, swaps in the comment block and replaces the file.
// A missing comment block is inserted right after STREAMINFO.
func (c *vorbisContainer) save() error {
	f, err := flac.ParseFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to parse FLAC file: %w", err)
	}

	cmt := flacvorbis.New()
	if c.vendor != "" {
		cmt.Vendor = c.vendor
	}
	cmt.Comments = append(cmt.Comments[:0], c.comments...)
	block := cmt.Marshal()

	_, idx, err := findVorbisComment(f)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Replacing unreadable Vorbis comment block")
	}
	if idx >= 0 {
		f.Meta[idx] = &block
	} else {
		at := 0
		if len(f.Meta) > 0 {
			at = 1
		}
		f.Meta = append(f.Meta[:at], append([]*flac.MetaDataBlock{&block}, f.Meta[at:]...)...)
	}

	if err := atomic.WriteFile(c.path, bytes.NewReader(f.Marshal())); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.path, err)
	}

	c.logger.Debug().Int("comments", len(c.comments)).Msg("Saved Vorbis comments")
	return nil
}
