package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/lrcup/internal/publisher"
)

var uploadCmd = &cobra.Command{
	Use:     "upload <file>",
	Aliases: []string{"up"},
	Short:   "Publish lyrics to LRCLIB",
	Long: `Publish lyrics from an LRC file or an audio file to LRCLIB.

Track metadata is taken from flags, then from the file itself (LRC ID tags
such as [ar:] and [ti:], or the audio file's tags). Anything still missing is
asked for interactively. The album defaults to the track title.

Publishing requires solving a proof-of-work challenge, which can take a few
seconds. If LRCLIB cannot be reached the submission is saved and can be sent
later with 'lrcup pending retry'.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().String("track", "", "Track title")
	uploadCmd.Flags().String("artist", "", "Artist name")
	uploadCmd.Flags().String("album", "", "Album name")
	uploadCmd.Flags().String("duration", "", "Track duration (M:S or seconds)")
	uploadCmd.Flags().String("language", "", "Lyrics language to read from audio files")
	uploadCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}

func runUpload(cmd *cobra.Command, args []string) error {
	src, err := loadSource(args[0], language(cmd))
	if err != nil {
		return err
	}
	if src.Text == "" {
		return fmt.Errorf("no lyrics found in %s", args[0])
	}

	color, status := modeColor(src.Synced())
	printField("LRC status", color, status)

	for flag, dst := range map[string]*string{"track": &src.Track, "artist": &src.Artist, "album": &src.Album} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*dst = v
		}
	}
	if v, _ := cmd.Flags().GetString("duration"); v != "" {
		if src.Duration, err = parseDuration(v); err != nil {
			return err
		}
	}

	yes, _ := cmd.Flags().GetBool("yes")
	if src.Album == "" {
		src.Album = src.Track
	}

	if !yes || !src.complete() {
		p := newPrompter()
		err := completeMetadata(p, src)
		if err == nil && !yes {
			err = confirmUpload(p)
		}
		p.Close()
		if errors.Is(err, errCancelled) {
			printWarning("Upload cancelled")
			return nil
		}
		if err != nil {
			return err
		}
	}

	sub, err := publisher.FromLyrics(src.Track, src.Artist, src.Album, src.Duration, src.Text)
	if err != nil {
		return err
	}
	if err := publisher.Validate(sub); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Fprintln(stdout, "\nSolving challenge and publishing...")
	err = client.Publish(ctx, sub)
	if err == nil {
		printSuccess("Uploaded to LRCLIB successfully.")
		return nil
	}

	if !publisher.ShouldQueue(err) || errors.Is(err, context.Canceled) {
		printFailure("Failed to upload to LRCLIB.")
		return err
	}

	queue, qerr := openQueue()
	if qerr != nil {
		logger.Error().Err(qerr).Msg("Failed to open pending queue")
		return err
	}
	defer queue.Close()

	id, qerr := queue.Add(context.Background(), sub, src.Path)
	if qerr != nil {
		logger.Error().Err(qerr).Msg("Failed to save pending submission")
		return err
	}

	printWarning("LRCLIB is unavailable (%v)", err)
	printWarning("Saved as pending submission #%d; run 'lrcup pending retry' to send it.", id)
	return nil
}

// errCancelled is returned when the user declines the upload.
var errCancelled = errors.New("cancelled")

// complete reports whether every field needed for a submission is known
func (s *lyricsSource) complete() bool {
	return s.Track != "" && s.Artist != "" && s.Album != "" && s.Duration > 0
}

// completeMetadata prompts for any track metadata src is missing
func completeMetadata(p *prompter, src *lyricsSource) error {
	var err error

	if src.Track == "" {
		if src.Track, err = p.ask("Track title", ""); err != nil {
			return err
		}
	}
	printField("Track title", "green", src.Track)

	if src.Artist == "" {
		if src.Artist, err = p.ask("Artist", ""); err != nil {
			return err
		}
	}
	printField("Artist", "green", src.Artist)

	if src.Album == "" {
		if src.Album, err = p.ask("Album", src.Track); err != nil {
			return err
		}
	}
	printField("Album", "green", src.Album)

	for src.Duration <= 0 {
		answer, err := p.ask("Duration", "")
		if err != nil {
			return err
		}
		d, err := parseDuration(answer)
		if err != nil || d <= 0 {
			printFailure("Enter the duration as M:S or seconds")
			continue
		}
		src.Duration = d
	}
	printField("Duration", "green", fmt.Sprintf("%s second(s)", strconv.FormatFloat(src.Duration, 'f', -1, 64)))
	return nil
}

func confirmUpload(p *prompter) error {
	fmt.Fprintln(stdout)
	ok, err := p.confirm("Confirm upload")
	if err != nil {
		return err
	}
	if !ok {
		return errCancelled
	}
	return nil
}
