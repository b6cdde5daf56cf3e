package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/lrcup/internal/library"
)

var syncCmd = &cobra.Command{
	Use:   "sync <dir>",
	Short: "Embed LRCLIB lyrics into a music library",
	Long: `Walk a directory and embed lyrics from LRCLIB into every supported audio
file (MP3, FLAC, M4A/M4B/MP4).

Files are looked up by their title, artist, album and duration tags. Files
that already carry lyrics are skipped unless --overwrite is given. Files that
cannot be read or looked up are reported at the end and do not stop the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().Bool("overwrite", false, "Replace lyrics that are already embedded")
	syncCmd.Flags().Int("concurrency", 0, "Files processed at once (default: config sync_concurrency)")
	syncCmd.Flags().String("language", "", "ID3 lyrics language (default: config language)")
	syncCmd.Flags().Bool("cached", false, "Only look in LRCLIB's own database")
}

func runSync(cmd *cobra.Command, args []string) error {
	paths, err := library.Scan(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		printWarning("No audio files found in %s", args[0])
		return nil
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	opts := library.Options{Concurrency: cfg.SyncConcurrency, Language: language(cmd)}
	if n, _ := cmd.Flags().GetInt("concurrency"); n > 0 {
		opts.Concurrency = n
	}
	opts.Overwrite, _ = cmd.Flags().GetBool("overwrite")
	opts.Cached, _ = cmd.Flags().GetBool("cached")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, runErr := library.NewSyncer(client, opts, logger).Run(ctx, paths)
	fmt.Fprintln(stdout)

	for _, res := range report.Failures() {
		printFailure("%s: %v", res.Path, res.Err)
	}
	fmt.Fprintln(stdout, colors.Color(fmt.Sprintf(
		"[green]%d embedded[reset], %d skipped, [yellow]%d missing[reset], [red]%d failed[reset]",
		report.Embedded, report.Skipped, report.Missing, report.Failed)))

	if runErr != nil {
		return fmt.Errorf("sync interrupted: %w", runErr)
	}
	return nil
}
