package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/lrcup/internal/lrc"
	"github.com/jfmyers9/lrcup/internal/tags"
	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

var embedCmd = &cobra.Command{
	Use:   "embed <audio> [lrc]",
	Short: "Embed lyrics into an audio file",
	Long: `Embed lyrics into an audio file's tags.

With an LRC file the lyrics are read from it. Without one they are fetched
from LRCLIB using the audio file's title, artist, album and duration.

MP3 files get a synced (SYLT) frame for timestamped lyrics and an unsynced
(USLT) frame otherwise, both tagged with --language. FLAC and MP4 files store
the LRC text in their single lyrics field.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().String("language", "", "ID3 lyrics language (default: config language)")
	embedCmd.Flags().Bool("plain", false, "Embed as plain lyrics even when timestamped")
	embedCmd.Flags().Bool("cached", false, "Only look in LRCLIB's own database")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	c, err := tags.Open(args[0], tags.WithLogger(logger))
	if err != nil {
		return err
	}

	var text string
	if len(args) == 2 {
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read lyrics: %w", err)
		}
		_, text = lrc.SplitHeader(string(data))
	} else {
		cached, _ := cmd.Flags().GetBool("cached")
		if text, err = fetchForContainer(c, cached); err != nil {
			return err
		}
	}

	mode, err := lrc.Classify(text)
	if err != nil {
		return fmt.Errorf("failed to read lyrics: %w", err)
	}
	if plain, _ := cmd.Flags().GetBool("plain"); plain && mode == lrc.Synced {
		mode, text = lrc.Plain, plainText(text)
	}

	if err := c.SetLyrics(mode, tags.Text(text), language(cmd)); err != nil {
		return fmt.Errorf("failed to embed lyrics: %w", err)
	}

	color, status := modeColor(mode == lrc.Synced)
	printField("Lyrics", color, status)
	printSuccess("Embedded lyrics into '%s'.", args[0])
	return nil
}

// fetchForContainer looks up lyrics on LRCLIB by the container's tags
func fetchForContainer(c tags.Container, cached bool) (string, error) {
	title, _ := c.Tag(tags.FieldTitle)
	artist, _ := c.Tag(tags.FieldArtist)
	album, _ := c.Tag(tags.FieldAlbum)
	if title == "" || artist == "" {
		return "", fmt.Errorf("%s has no title or artist tag; pass an LRC file instead", c.Path())
	}

	client, err := newClient()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rec, err := client.Get(ctx, lrclib.Signature{
		Track:    title,
		Artist:   artist,
		Album:    album,
		Duration: int(math.Round(c.Duration())),
	}, cached)
	if err != nil {
		return "", fmt.Errorf("lookup failed: %w", err)
	}
	if rec == nil || !rec.HasLyrics() {
		return "", errors.New("no lyrics found on LRCLIB")
	}
	return recordLyrics(*rec, false), nil
}

// plainText strips the timestamps from synced lyrics
func plainText(text string) string {
	doc, err := lrc.Parse(text)
	if err != nil || doc.Mode != lrc.Synced {
		return text
	}
	out := make([]byte, 0, len(text))
	for i, l := range doc.Lines {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, l.Text...)
	}
	return string(out)
}
