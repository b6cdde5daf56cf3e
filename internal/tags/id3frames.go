package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/jfmyers9/lrcup/internal/lrc"
)

const id3HeaderSize = 10

// ID3v2 text encodings.
const (
	encISO88591 byte = 0
	encUTF16    byte = 1
	encUTF16BE  byte = 2
	encUTF8     byte = 3
)

type id3Header struct {
	version byte
	flags   byte
	size    int // excluding the header
}

func parseID3Header(b []byte) (id3Header, bool) {
	if len(b) < id3HeaderSize || string(b[:3]) != "ID3" {
		return id3Header{}, false
	}
	return id3Header{
		version: b[3],
		flags:   b[5],
		size:    int(decodeSynchsafe(b[6:10])),
	}, true
}

// tagSpan returns how many leading bytes of data belong to an ID3v2 tag,
// footer included. It is 0 when data does not start with a tag.
func tagSpan(data []byte) int {
	h, ok := parseID3Header(data)
	if !ok {
		return 0
	}
	n := id3HeaderSize + h.size
	if h.version == 4 && h.flags&0x10 != 0 {
		n += id3HeaderSize
	}
	if n > len(data) {
		n = len(data)
	}
	return n
}

// decodeSynchsafe decodes a 28-bit integer stored 7 bits per byte.
func decodeSynchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

func encodeSynchsafe(n uint32) []byte {
	return []byte{
		byte(n>>21) & 0x7F,
		byte(n>>14) & 0x7F,
		byte(n>>7) & 0x7F,
		byte(n) & 0x7F,
	}
}

type rawFrame struct {
	id   string
	body []byte
}

// readRawFrames walks the frames of the ID3v2.3 or v2.4 tag at the start of
// data. Compressed and encrypted frames are skipped, unsynchronisation is
// undone. Walking stops at padding or at the first truncated frame.
func readRawFrames(data []byte) []rawFrame {
	h, ok := parseID3Header(data)
	if !ok || (h.version != 3 && h.version != 4) {
		return nil
	}
	end := id3HeaderSize + h.size
	if end > len(data) {
		end = len(data)
	}
	tag := data[id3HeaderSize:end]
	unsync := h.flags&0x80 != 0
	if unsync && h.version == 3 {
		tag = removeUnsync(tag)
	}

	off := 0
	if h.flags&0x40 != 0 && len(tag) >= 4 {
		if h.version == 4 {
			off = int(decodeSynchsafe(tag[:4]))
		} else {
			off = int(binary.BigEndian.Uint32(tag[:4])) + 4
		}
	}

	var frames []rawFrame
	for off+id3HeaderSize <= len(tag) {
		hdr := tag[off : off+id3HeaderSize]
		if hdr[0] == 0 {
			break
		}

		var size int
		if h.version == 4 {
			size = int(decodeSynchsafe(hdr[4:8]))
		} else {
			size = int(binary.BigEndian.Uint32(hdr[4:8]))
		}
		flags := binary.BigEndian.Uint16(hdr[8:10])
		off += id3HeaderSize
		if size < 0 || off+size > len(tag) {
			break
		}

		body := tag[off : off+size]
		off += size
		if b, ok := frameBody(h.version, flags, body, unsync); ok {
			frames = append(frames, rawFrame{id: string(hdr[:4]), body: b})
		}
	}
	return frames
}

func frameBody(version byte, flags uint16, body []byte, tagUnsync bool) ([]byte, bool) {
	if version == 3 {
		if flags&0x00C0 != 0 {
			return nil, false
		}
		if flags&0x0020 != 0 {
			if len(body) < 1 {
				return nil, false
			}
			body = body[1:]
		}
		return body, true
	}

	if flags&0x000C != 0 {
		return nil, false
	}
	if flags&0x0040 != 0 {
		if len(body) < 1 {
			return nil, false
		}
		body = body[1:]
	}
	if flags&0x0001 != 0 {
		if len(body) < 4 {
			return nil, false
		}
		body = body[4:]
	}
	if flags&0x0002 != 0 || tagUnsync {
		body = removeUnsync(body)
	}
	return body, true
}

func removeUnsync(b []byte) []byte {
	if !bytes.Contains(b, []byte{0xFF, 0x00}) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}

// writeRawFrame writes a v2.4 frame with no flags.
func writeRawFrame(w io.Writer, id string, body []byte) error {
	hdr := make([]byte, 0, id3HeaderSize)
	hdr = append(hdr, id...)
	hdr = append(hdr, encodeSynchsafe(uint32(len(body)))...)
	hdr = append(hdr, 0, 0)
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// buildID3Tag wraps v2.4 frame bytes in a tag header. No frames means no tag.
func buildID3Tag(frames []byte) []byte {
	if len(frames) == 0 {
		return nil
	}
	out := make([]byte, 0, id3HeaderSize+len(frames))
	out = append(out, 'I', 'D', '3', 4, 0, 0)
	out = append(out, encodeSynchsafe(uint32(len(frames)))...)
	return append(out, frames...)
}

// syncedLyricsFrame is an ID3v2 SYLT frame with millisecond timestamps.
type syncedLyricsFrame struct {
	Language   string
	Descriptor string
	Lines      []lrc.Line
}

func (f syncedLyricsFrame) body() []byte {
	var b bytes.Buffer
	b.WriteByte(encUTF8)
	b.WriteString(fixLanguage(f.Language))
	b.WriteByte(2) // absolute milliseconds
	b.WriteByte(1) // lyrics
	b.WriteString(f.Descriptor)
	b.WriteByte(0)
	for _, l := range f.Lines {
		b.WriteString(l.Text)
		b.WriteByte(0)
		var ts [4]byte
		binary.BigEndian.PutUint32(ts[:], uint32(l.Offset))
		b.Write(ts[:])
	}
	return b.Bytes()
}

// Text renders the frame as LRC.
func (f syncedLyricsFrame) Text() string {
	return lrc.Dump(lrc.Document{Mode: lrc.Synced, Lines: f.Lines})
}

var errFrameTimestampFormat = errors.New("SYLT timestamps are not in milliseconds")

func decodeSyncedLyrics(body []byte) (syncedLyricsFrame, error) {
	if len(body) < 6 {
		return syncedLyricsFrame{}, fmt.Errorf("SYLT frame too short: %d bytes", len(body))
	}
	enc := body[0]
	f := syncedLyricsFrame{Language: string(body[1:4])}
	if body[4] != 2 {
		return f, errFrameTimestampFormat
	}

	desc, rest, ok := cutTerminated(body[6:], enc)
	if !ok {
		return f, fmt.Errorf("SYLT frame has no content descriptor")
	}
	f.Descriptor = decodeID3Text(desc, enc)

	for len(rest) > 0 {
		text, r, ok := cutTerminated(rest, enc)
		if !ok || len(r) < 4 {
			break
		}
		f.Lines = append(f.Lines, lrc.Line{
			Offset: int64(binary.BigEndian.Uint32(r[:4])),
			Text:   strings.TrimLeft(decodeID3Text(text, enc), "\r\n"),
		})
		rest = r[4:]
	}
	return f, nil
}

// cutTerminated splits b at the first string terminator for enc.
func cutTerminated(b []byte, enc byte) (before, after []byte, ok bool) {
	if enc == encUTF16 || enc == encUTF16BE {
		for i := 0; i+1 < len(b); i += 2 {
			if b[i] == 0 && b[i+1] == 0 {
				return b[:i], b[i+2:], true
			}
		}
		return b, nil, false
	}
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}

func decodeID3Text(b []byte, enc byte) string {
	var dec *encoding.Decoder
	switch enc {
	case encISO88591:
		dec = charmap.ISO8859_1.NewDecoder()
	case encUTF16:
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case encUTF16BE:
		dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	default:
		return string(b)
	}
	out, err := dec.Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// fixLanguage forces a language code to the three bytes ID3 requires.
func fixLanguage(s string) string {
	if len(s) >= 3 {
		return s[:3]
	}
	return s + strings.Repeat("X", 3-len(s))
}
