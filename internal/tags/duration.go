package tags

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abema/go-mp4"
	"github.com/tcolgate/mp3"
)

// mp3Duration sums the durations of the MPEG frames in r. Decoding stops at
// the first error, so a truncated stream yields the length decoded so far.
func mp3Duration(r io.Reader) float64 {
	var (
		d       = mp3.NewDecoder(r)
		frame   mp3.Frame
		skipped int
		total   time.Duration
	)
	for {
		if err := d.Decode(&frame, &skipped); err != nil {
			break
		}
		total += frame.Duration()
	}
	return total.Seconds()
}

// mp4Duration reads the movie header duration of the MP4 file at path.
func mp4Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := mp4.Probe(f)
	if err != nil {
		return 0, fmt.Errorf("failed to read MP4: %w", err)
	}
	if info.Timescale == 0 {
		return 0, nil
	}
	return float64(info.Duration) / float64(info.Timescale), nil
}
