// Package tags reads and writes metadata and embedded lyrics in audio files.
//
// Three container formats are supported, each behind the same Container
// interface: ID3v2 tags in MP3 files, Vorbis comments in FLAC files and
// iTunes-style atoms in MP4/M4A files. Field names are canonical
// (TITLE, ARTIST, ALBUM, ALBUMARTIST, LYRICS) and translated per format.
package tags

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/lrcup/internal/lrc"
)

// Format identifies the tag container variant of a file.
type Format int

const (
	FormatID3 Format = iota
	FormatVorbis
	FormatAtom
)

func (f Format) String() string {
	switch f {
	case FormatID3:
		return "id3"
	case FormatVorbis:
		return "vorbis"
	case FormatAtom:
		return "mp4"
	default:
		return "unknown"
	}
}

// Canonical field names.
const (
	FieldTitle       = "TITLE"
	FieldArtist      = "ARTIST"
	FieldAlbum       = "ALBUM"
	FieldAlbumArtist = "ALBUMARTIST"
	FieldLyrics      = "LYRICS"
)

// Fields lists the canonical field names in display order.
var Fields = []string{FieldTitle, FieldArtist, FieldAlbum, FieldAlbumArtist, FieldLyrics}

// DefaultLanguage is the ISO-639-2 code used when a lyrics frame is written
// without a language.
const DefaultLanguage = "XXX"

// Container is an open audio file's tag store.
//
// Reads are served from memory. Every write is persisted to disk before it
// returns, replacing the file atomically.
type Container interface {
	Path() string
	Format() Format

	// Duration returns the audio length in seconds, or 0 when it could not
	// be determined.
	Duration() float64

	// Tag returns the first value of a field. Canonical names are
	// translated for the format; any other name is used as is.
	Tag(name string) (string, bool)
	SetTag(name, value string) error

	// Lyrics returns embedded lyrics as text. An empty language matches
	// any language.
	Lyrics(language string) (string, bool, error)
	SetLyrics(mode lrc.Mode, payload Payload, language string) error
}

// Payload is the lyrics input to SetLyrics: either LRC or plain text, or
// lines that already carry timestamps.
type Payload struct {
	text  string
	lines []lrc.Line
	timed bool
}

// Text returns a Payload holding raw lyrics text.
func Text(s string) Payload {
	return Payload{text: s}
}

// Timed returns a Payload holding timestamped lines.
func Timed(lines []lrc.Line) Payload {
	return Payload{lines: lines, timed: true}
}

// IsTimed reports whether p holds timestamped lines.
func (p Payload) IsTimed() bool {
	return p.timed
}

// String returns the payload as text, rendering timed lines as LRC.
func (p Payload) String() string {
	if p.timed {
		return lrc.Dump(lrc.Document{Mode: lrc.Synced, Lines: p.lines})
	}
	return p.text
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	logger zerolog.Logger
}

// WithLogger sets the logger used for warnings while reading a file.
func WithLogger(l zerolog.Logger) Option {
	return func(o *openOptions) {
		o.logger = l
	}
}

// Extensions maps the supported file extensions to their container format.
var Extensions = map[string]Format{
	".mp3":  FormatID3,
	".flac": FormatVorbis,
	".m4a":  FormatAtom,
	".m4b":  FormatAtom,
	".mp4":  FormatAtom,
}

// FormatOf returns the container format for path based on its extension.
func FormatOf(path string) (Format, bool) {
	f, ok := Extensions[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// Open reads the tags of the audio file at path.
//
// The format is chosen by extension before the file is touched; an
// unsupported extension returns *UnsupportedFormatError.
func Open(path string, opts ...Option) (Container, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, &UnsupportedFormatError{Path: path, Ext: filepath.Ext(path)}
	}

	o := &openOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger.With().Str("component", "tags").Str("path", path).Logger()

	switch format {
	case FormatID3:
		return openID3(path, logger)
	case FormatVorbis:
		return openVorbis(path, logger)
	default:
		return openAtom(path, logger)
	}
}

// firstValue returns the first value of a possibly multi-valued string.
// ID3v2.4 separates values with NUL.
func firstValue(s string) string {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}

func normalizeLanguage(language string) string {
	if language == "" {
		return DefaultLanguage
	}
	return language
}
