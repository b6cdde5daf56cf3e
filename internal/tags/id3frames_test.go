package tags

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jfmyers9/lrcup/internal/lrc"
)

func TestSynchsafe(t *testing.T) {
	for _, n := range []uint32{0, 1, 127, 128, 255, 16383, 16384, 1<<28 - 1} {
		if got := decodeSynchsafe(encodeSynchsafe(n)); got != n {
			t.Errorf("round trip of %d = %d", n, got)
		}
	}
	if got := decodeSynchsafe([]byte{0x00, 0x00, 0x02, 0x01}); got != 257 {
		t.Errorf("expected 257, got %d", got)
	}
}

func TestTagSpan(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{name: "no tag", data: []byte("fLaC...."), want: 0},
		{name: "short", data: []byte("ID3"), want: 0},
		{
			name: "v2.4",
			data: append([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 5}, make([]byte, 20)...),
			want: 15,
		},
		{
			name: "v2.4 with footer",
			data: append([]byte{'I', 'D', '3', 4, 0, 0x10, 0, 0, 0, 5}, make([]byte, 20)...),
			want: 25,
		},
		{
			name: "truncated",
			data: append([]byte{'I', 'D', '3', 3, 0, 0, 0, 0, 1, 0}, make([]byte, 4)...),
			want: 14,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tagSpan(tt.data); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRemoveUnsync(t *testing.T) {
	got := removeUnsync([]byte{0x01, 0xFF, 0x00, 0xE0, 0xFF, 0x00, 0x00})
	want := []byte{0x01, 0xFF, 0xE0, 0xFF, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %x, got %x", want, got)
	}
}

func TestReadRawFrames(t *testing.T) {
	var frames bytes.Buffer
	if err := writeRawFrame(&frames, "TIT2", []byte("\x03Song")); err != nil {
		t.Fatal(err)
	}
	if err := writeRawFrame(&frames, "SYLT", []byte("body")); err != nil {
		t.Fatal(err)
	}
	frames.Write(make([]byte, 16)) // padding

	got := readRawFrames(buildID3Tag(frames.Bytes()))
	want := []rawFrame{
		{id: "TIT2", body: []byte("\x03Song")},
		{id: "SYLT", body: []byte("body")},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(rawFrame{})); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRawFrames_V23(t *testing.T) {
	// v2.3 sizes are plain big-endian; the second frame is compressed and
	// skipped, the third carries a grouping byte.
	frame := func(id string, flags uint16, body []byte) []byte {
		b := []byte(id)
		b = binary.BigEndian.AppendUint32(b, uint32(len(body)))
		b = binary.BigEndian.AppendUint16(b, flags)
		return append(b, body...)
	}
	var body []byte
	body = append(body, frame("TPE1", 0, []byte("\x00Artist"))...)
	body = append(body, frame("TALB", 0x0080, []byte("zzzzzzzz"))...)
	body = append(body, frame("TIT2", 0x0020, []byte("\x07\x00Title"))...)

	data := []byte{'I', 'D', '3', 3, 0, 0}
	data = append(data, encodeSynchsafe(uint32(len(body)))...)
	data = append(data, body...)

	got := readRawFrames(data)
	want := []rawFrame{
		{id: "TPE1", body: []byte("\x00Artist")},
		{id: "TIT2", body: []byte("\x00Title")},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(rawFrame{})); diff != "" {
		t.Errorf("frames mismatch (-want +got):\n%s", diff)
	}
}

func TestSyncedLyricsFrame_RoundTrip(t *testing.T) {
	f := syncedLyricsFrame{
		Language: "eng",
		Lines: []lrc.Line{
			{Offset: 0, Text: "Start"},
			{Offset: 61230, Text: "Ünïcode"},
		},
	}

	got, err := decodeSyncedLyrics(f.body())
	if err != nil {
		t.Fatalf("decodeSyncedLyrics() error = %v", err)
	}
	if diff := cmp.Diff(f, got); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
	if got.Text() != "[00:00.00] Start\n[01:01.23] Ünïcode" {
		t.Errorf("unexpected text %q", got.Text())
	}
}

func TestDecodeSyncedLyrics_Encodings(t *testing.T) {
	ts := func(ms uint32) []byte {
		return binary.BigEndian.AppendUint32(nil, ms)
	}

	tests := []struct {
		name string
		body []byte
		want []lrc.Line
	}{
		{
			name: "latin1",
			body: bytes.Join([][]byte{
				{encISO88591}, []byte("deu"), {2, 1},
				{0},
				[]byte("Gr\xfc\xdfe"), {0}, ts(1500),
			}, nil),
			want: []lrc.Line{{Offset: 1500, Text: "Grüße"}},
		},
		{
			name: "utf16 with bom",
			body: bytes.Join([][]byte{
				{encUTF16}, []byte("eng"), {2, 1},
				{0xFF, 0xFE, 0, 0},
				{0xFF, 0xFE, 'H', 0, 'i', 0}, {0, 0}, ts(1000),
				{0xFE, 0xFF, 0, 'Y', 0, 'o'}, {0, 0}, ts(2000),
			}, nil),
			want: []lrc.Line{{Offset: 1000, Text: "Hi"}, {Offset: 2000, Text: "Yo"}},
		},
		{
			name: "utf16be",
			body: bytes.Join([][]byte{
				{encUTF16BE}, []byte("eng"), {2, 1},
				{0, 0},
				{0, 'O', 0, 'k'}, {0, 0}, ts(42),
			}, nil),
			want: []lrc.Line{{Offset: 42, Text: "Ok"}},
		},
		{
			name: "leading newline stripped",
			body: bytes.Join([][]byte{
				{encUTF8}, []byte("eng"), {2, 1},
				{0},
				[]byte("\nLine"), {0}, ts(10),
			}, nil),
			want: []lrc.Line{{Offset: 10, Text: "Line"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeSyncedLyrics(tt.body)
			if err != nil {
				t.Fatalf("decodeSyncedLyrics() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Lines); diff != "" {
				t.Errorf("lines mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeSyncedLyrics_Errors(t *testing.T) {
	if _, err := decodeSyncedLyrics([]byte{3, 'e'}); err == nil {
		t.Error("expected error for short frame")
	}
	if _, err := decodeSyncedLyrics([]byte{3, 'e', 'n', 'g', 1, 1, 0}); err != errFrameTimestampFormat {
		t.Errorf("expected errFrameTimestampFormat, got %v", err)
	}
}

func TestFixLanguage(t *testing.T) {
	tests := map[string]string{
		"eng":     "eng",
		"en":      "enX",
		"":        "XXX",
		"english": "eng",
	}
	for in, want := range tests {
		if got := fixLanguage(in); got != want {
			t.Errorf("fixLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitLyricsKey(t *testing.T) {
	tests := []struct {
		in   string
		kind string
		lang string
		ok   bool
	}{
		{"USLT::eng", frameUnsynced, "eng", true},
		{"sylt::deu", frameSynced, "deu", true},
		{"COMM::eng", "", "", false},
		{"TITLE", "", "", false},
	}
	for _, tt := range tests {
		kind, lang, ok := splitLyricsKey(tt.in)
		if kind != tt.kind || lang != tt.lang || ok != tt.ok {
			t.Errorf("splitLyricsKey(%q) = %q, %q, %v", tt.in, kind, lang, ok)
		}
	}
}
