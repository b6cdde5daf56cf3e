package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch the lyrics of one track from LRCLIB",
	Long: `Fetch lyrics for an exact track signature, or by LRCLIB record ID.

LRCLIB matches the duration within two seconds. Without --cached, LRCLIB may
look the track up on external sources when it has no record of its own.
Lyrics are printed to stdout unless --output is given.`,
	Args: cobra.NoArgs,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().String("track", "", "Track title")
	getCmd.Flags().String("artist", "", "Artist name")
	getCmd.Flags().String("album", "", "Album name")
	getCmd.Flags().String("duration", "", "Track duration (M:S or seconds)")
	getCmd.Flags().Bool("cached", false, "Only look in LRCLIB's own database")
	getCmd.Flags().Int64("id", 0, "Fetch by LRCLIB record ID")
	getCmd.Flags().Bool("plain", false, "Prefer plain lyrics over synced")
	getCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := newClient()
	if err != nil {
		return err
	}

	var rec *lrclib.Record
	if id, _ := cmd.Flags().GetInt64("id"); id > 0 {
		rec, err = client.GetByID(ctx, id)
	} else {
		var sig lrclib.Signature
		if sig, err = signatureFromFlags(cmd); err != nil {
			return err
		}
		cached, _ := cmd.Flags().GetBool("cached")
		rec, err = client.Get(ctx, sig, cached)
	}
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if rec == nil {
		return errors.New("no lyrics found")
	}
	if rec.Instrumental {
		printWarning("%s - %s is instrumental", artistNames(rec.ArtistName), rec.TrackName)
		return nil
	}

	plain, _ := cmd.Flags().GetBool("plain")
	text := recordLyrics(*rec, plain)
	if text == "" {
		return errors.New("record has no lyrics")
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		fmt.Fprintln(stdout, text)
		return nil
	}
	if err := writeLRC(output, text); err != nil {
		return err
	}
	printSuccess("Lyrics written to '%s'.", output)
	return nil
}

func signatureFromFlags(cmd *cobra.Command) (lrclib.Signature, error) {
	var sig lrclib.Signature
	sig.Track, _ = cmd.Flags().GetString("track")
	sig.Artist, _ = cmd.Flags().GetString("artist")
	sig.Album, _ = cmd.Flags().GetString("album")
	if sig.Track == "" || sig.Artist == "" {
		return sig, errors.New("--track and --artist are required (or use --id)")
	}

	if v, _ := cmd.Flags().GetString("duration"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return sig, err
		}
		sig.Duration = int(math.Round(d))
	}
	return sig, nil
}
