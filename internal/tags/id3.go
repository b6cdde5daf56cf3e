package tags

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"

	"github.com/jfmyers9/lrcup/internal/lrc"
)

// Frame kinds addressable through "<kind>::<language>" tag keys.
const (
	frameUnsynced = "USLT"
	frameSynced   = "SYLT"
)

var id3Fields = map[string]string{
	FieldTitle:       "TIT2",
	FieldArtist:      "TPE1",
	FieldAlbum:       "TALB",
	FieldAlbumArtist: "TPE2",
}

// id3Container keeps text and USLT frames in an id3v2.Tag. SYLT frames are
// kept separately since the tag holds at most one frame per ID outside its
// fixed set of repeatable frames.
type id3Container struct {
	path     string
	logger   zerolog.Logger
	duration float64

	tag    *id3v2.Tag
	synced []syncedLyricsFrame

	// first is the kind and language of the first lyrics frame in the file
	first lyricsRef
}

type lyricsRef struct {
	kind, lang string
}

// firstLyricsFrame returns the first USLT or SYLT frame of frames. Both
// bodies start with an encoding byte and a three letter language.
func firstLyricsFrame(frames []rawFrame) lyricsRef {
	for _, f := range frames {
		if (f.id == frameUnsynced || f.id == frameSynced) && len(f.body) >= 4 {
			return lyricsRef{kind: f.id, lang: string(f.body[1:4])}
		}
	}
	return lyricsRef{}
}

func openID3(path string, logger zerolog.Logger) (*id3Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		logger.Warn().Err(err).Msg("Ignoring existing ID3 tag")
		tag = id3v2.NewEmptyTag()
	} else if err != nil {
		return nil, fmt.Errorf("failed to parse ID3 tag: %w", err)
	}

	c := &id3Container{
		path:     path,
		logger:   logger,
		duration: mp3Duration(bytes.NewReader(data[tagSpan(data):])),
		tag:      tag,
	}

	frames := readRawFrames(data)
	c.first = firstLyricsFrame(frames)
	for _, f := range frames {
		if f.id != frameSynced {
			continue
		}
		sf, err := decodeSyncedLyrics(f.body)
		if err != nil {
			logger.Warn().Err(err).Str("language", sf.Language).Msg("Skipping synced lyrics frame")
			continue
		}
		c.synced = append(c.synced, sf)
	}
	c.tag.DeleteFrames(frameSynced)
	c.tag.SetVersion(4)
	c.tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	return c, nil
}

func (c *id3Container) Path() string      { return c.path }
func (c *id3Container) Format() Format    { return FormatID3 }
func (c *id3Container) Duration() float64 { return c.duration }

func (c *id3Container) Tag(name string) (string, bool) {
	if kind, lang, ok := splitLyricsKey(name); ok {
		return c.lyricsOfKind(kind, lang)
	}
	if strings.EqualFold(name, FieldLyrics) {
		text, ok, _ := c.Lyrics("")
		return text, ok
	}

	id := c.frameID(name)
	if !strings.HasPrefix(id, "T") {
		return "", false
	}
	tf := c.tag.GetTextFrame(id)
	if tf.Text == "" {
		return "", false
	}
	return firstValue(tf.Text), true
}

func (c *id3Container) SetTag(name, value string) error {
	if kind, lang, ok := splitLyricsKey(name); ok {
		mode := lrc.Plain
		if kind == frameSynced {
			mode = lrc.Synced
		}
		return c.SetLyrics(mode, Text(value), lang)
	}
	if strings.EqualFold(name, FieldLyrics) {
		mode, err := lrc.Classify(value)
		if err != nil {
			return err
		}
		return c.SetLyrics(mode, Text(value), DefaultLanguage)
	}

	id := c.frameID(name)
	if len(id) != 4 || !strings.HasPrefix(id, "T") || id == "TXXX" {
		return fmt.Errorf("%w: %s", ErrReadOnlyField, name)
	}
	if value == "" {
		c.tag.DeleteFrames(id)
	} else {
		c.tag.AddTextFrame(id, id3v2.EncodingUTF8, value)
	}
	return c.save()
}

// Lyrics looks up SYLT before USLT for a language. Without a language the
// first lyrics frame in the file wins, whatever its kind.
func (c *id3Container) Lyrics(language string) (string, bool, error) {
	if language == "" && c.first.kind != "" {
		if text, ok := c.lyricsOfKind(c.first.kind, c.first.lang); ok {
			return text, true, nil
		}
	}
	if text, ok := c.lyricsOfKind(frameSynced, language); ok {
		return text, true, nil
	}
	text, ok := c.lyricsOfKind(frameUnsynced, language)
	return text, ok, nil
}

func (c *id3Container) lyricsOfKind(kind, language string) (string, bool) {
	if kind == frameSynced {
		for _, f := range c.synced {
			if language == "" || strings.EqualFold(f.Language, language) {
				return f.Text(), true
			}
		}
		return "", false
	}

	for _, f := range c.unsynced() {
		if language == "" || strings.EqualFold(f.Language, language) {
			return f.Lyrics, true
		}
	}
	return "", false
}

func (c *id3Container) SetLyrics(mode lrc.Mode, payload Payload, language string) error {
	lang := fixLanguage(normalizeLanguage(language))

	switch mode {
	case lrc.Plain:
		if payload.IsTimed() {
			return fmt.Errorf("%w: plain lyrics need text, got timed lines", ErrPayloadShape)
		}
		c.setUnsynced(lang, payload.text)

	case lrc.Synced:
		lines := payload.lines
		if !payload.IsTimed() {
			doc, err := lrc.ParseSynced(payload.text)
			if err != nil {
				return err
			}
			lines = doc.Lines
		}
		c.setSynced(lang, lines)

	default:
		return fmt.Errorf("unknown lyrics mode %d", mode)
	}

	return c.save()
}

// setUnsynced replaces the USLT frame for lang and keeps the others.
func (c *id3Container) setUnsynced(lang, text string) {
	frames := c.unsynced()
	c.tag.DeleteFrames(frameUnsynced)
	for _, f := range frames {
		if !strings.EqualFold(f.Language, lang) {
			c.tag.AddUnsynchronisedLyricsFrame(f)
		}
	}
	c.tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: lang,
		Lyrics:   text,
	})
}

// setSynced replaces the SYLT frame for lang and keeps the others.
func (c *id3Container) setSynced(lang string, lines []lrc.Line) {
	frame := syncedLyricsFrame{Language: lang, Lines: append([]lrc.Line(nil), lines...)}
	for i, f := range c.synced {
		if strings.EqualFold(f.Language, lang) {
			c.synced[i] = frame
			return
		}
	}
	c.synced = append(c.synced, frame)
}

func (c *id3Container) unsynced() []id3v2.UnsynchronisedLyricsFrame {
	var out []id3v2.UnsynchronisedLyricsFrame
	for _, f := range c.tag.GetFrames(frameUnsynced) {
		if uf, ok := f.(id3v2.UnsynchronisedLyricsFrame); ok {
			out = append(out, uf)
		}
	}
	return out
}

func (c *id3Container) frameID(name string) string {
	if id, ok := id3Fields[strings.ToUpper(name)]; ok {
		return id
	}
	return name
}

// save writes the tag in front of the file's audio data, replacing the old
// tag, through a temporary file.
func (c *id3Container) save() error {
	var lib bytes.Buffer
	if _, err := c.tag.WriteTo(&lib); err != nil {
		return fmt.Errorf("failed to encode ID3 tag: %w", err)
	}

	// Synced frames go first so a file written here prefers them
	var frames bytes.Buffer
	for _, f := range c.synced {
		if err := writeRawFrame(&frames, frameSynced, f.body()); err != nil {
			return err
		}
	}
	for _, f := range readRawFrames(lib.Bytes()) {
		if err := writeRawFrame(&frames, f.id, f.body); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	audio := data[tagSpan(data):]

	tag := buildID3Tag(frames.Bytes())
	out := append(tag, audio...)
	if err := atomic.WriteFile(c.path, bytes.NewReader(out)); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.path, err)
	}
	c.first = firstLyricsFrame(readRawFrames(tag))

	c.logger.Debug().Int("frames", len(c.synced)+c.tag.Count()).Msg("Saved ID3 tag")
	return nil
}

// splitLyricsKey splits keys of the form "USLT::eng".
func splitLyricsKey(name string) (kind, lang string, ok bool) {
	kind, lang, ok = strings.Cut(name, "::")
	if !ok {
		return "", "", false
	}
	kind = strings.ToUpper(kind)
	if kind != frameUnsynced && kind != frameSynced {
		return "", "", false
	}
	return kind, lang, true
}
