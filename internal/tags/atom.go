package tags

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	mp4tag "github.com/Sorrow446/go-mp4tag"
	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"

	"github.com/jfmyers9/lrcup/internal/lrc"
)

// atomField reads and writes one canonical field of an MP4Tags value.
type atomField struct {
	get    func(t *mp4tag.MP4Tags) string
	set    func(t *mp4tag.MP4Tags, v string)
	delete string // name for MP4.Write's delete list
}

var atomFields = map[string]atomField{
	FieldTitle: {
		get:    func(t *mp4tag.MP4Tags) string { return t.Title },
		set:    func(t *mp4tag.MP4Tags, v string) { t.Title = v },
		delete: "title",
	},
	FieldArtist: {
		get:    func(t *mp4tag.MP4Tags) string { return t.Artist },
		set:    func(t *mp4tag.MP4Tags, v string) { t.Artist = v },
		delete: "artist",
	},
	FieldAlbum: {
		get:    func(t *mp4tag.MP4Tags) string { return t.Album },
		set:    func(t *mp4tag.MP4Tags, v string) { t.Album = v },
		delete: "album",
	},
	FieldAlbumArtist: {
		get:    func(t *mp4tag.MP4Tags) string { return t.AlbumArtist },
		set:    func(t *mp4tag.MP4Tags, v string) { t.AlbumArtist = v },
		delete: "albumartist",
	},
	FieldLyrics: {
		get:    func(t *mp4tag.MP4Tags) string { return t.Lyrics },
		set:    func(t *mp4tag.MP4Tags, v string) { t.Lyrics = v },
		delete: "lyrics",
	},
}

// atomContainer holds the iTunes metadata of an MP4 file. Names outside the
// canonical set are freeform atoms.
type atomContainer struct {
	path     string
	logger   zerolog.Logger
	duration float64

	tags *mp4tag.MP4Tags
}

func openAtom(path string, logger zerolog.Logger) (*atomContainer, error) {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP4 file: %w", err)
	}
	defer mp4.Close()

	tags, err := mp4.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read MP4 tags: %w", err)
	}

	c := &atomContainer{path: path, logger: logger, tags: tags}
	if c.duration, err = mp4Duration(path); err != nil {
		logger.Warn().Err(err).Msg("Failed to read MP4 duration")
	}
	return c, nil
}

func (c *atomContainer) Path() string      { return c.path }
func (c *atomContainer) Format() Format    { return FormatAtom }
func (c *atomContainer) Duration() float64 { return c.duration }

func (c *atomContainer) Tag(name string) (string, bool) {
	if f, ok := atomFields[strings.ToUpper(name)]; ok {
		v := f.get(c.tags)
		return v, v != ""
	}
	for k, v := range c.tags.Custom {
		if strings.EqualFold(k, name) {
			return v, v != ""
		}
	}
	return "", false
}

func (c *atomContainer) SetTag(name, value string) error {
	update := &mp4tag.MP4Tags{}
	var del []string

	if f, ok := atomFields[strings.ToUpper(name)]; ok {
		if value == "" {
			del = append(del, f.delete)
		} else {
			f.set(update, value)
		}
		if err := c.write(update, del); err != nil {
			return err
		}
		f.set(c.tags, value)
		return nil
	}

	key := strings.ToUpper(name)
	if value == "" {
		del = append(del, key)
	} else {
		update.Custom = map[string]string{key: value}
	}
	if err := c.write(update, del); err != nil {
		return err
	}

	if c.tags.Custom == nil {
		c.tags.Custom = map[string]string{}
	}
	for k := range c.tags.Custom {
		if strings.EqualFold(k, name) {
			delete(c.tags.Custom, k)
		}
	}
	if value != "" {
		c.tags.Custom[key] = value
	}
	return nil
}

// Lyrics ignores the language; MP4 files carry a single lyrics atom.
func (c *atomContainer) Lyrics(string) (string, bool, error) {
	text, ok := c.Tag(FieldLyrics)
	return text, ok, nil
}

func (c *atomContainer) SetLyrics(_ lrc.Mode, payload Payload, _ string) error {
	if payload.IsTimed() {
		return fmt.Errorf("%w: MP4 lyrics are stored as text", ErrPayloadShape)
	}
	return c.SetTag(FieldLyrics, payload.text)
}

// write applies update to a copy of the file and moves the copy over the
// original once the tag library has finished with it.
func (c *atomContainer) write(update *mp4tag.MP4Tags, del []string) error {
	tmp, err := copyToTemp(c.path)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	mp4, err := mp4tag.Open(tmp)
	if err != nil {
		return fmt.Errorf("failed to open MP4 file: %w", err)
	}
	if err := mp4.Write(update, del); err != nil {
		mp4.Close()
		return fmt.Errorf("failed to write MP4 tags: %w", err)
	}
	mp4.Close()

	if err := atomic.ReplaceFile(tmp, c.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", c.path, err)
	}

	c.logger.Debug().Strs("deleted", del).Msg("Saved MP4 tags")
	return nil
}

// copyToTemp copies path into a temporary file in the same directory,
// keeping the extension and permissions.
func copyToTemp(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", err
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	dst, err := os.CreateTemp(dir, "."+strings.TrimSuffix(base, filepath.Ext(base))+"-*"+filepath.Ext(base))
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to copy %s: %w", path, err)
	}
	if err := dst.Chmod(info.Mode().Perm()); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}
