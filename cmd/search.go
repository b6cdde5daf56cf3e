package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jfmyers9/lrcup/internal/tui"
	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

var searchCmd = &cobra.Command{
	Use:     "search <query...>",
	Aliases: []string{"s"},
	Short:   "Search LRCLIB and download lyrics",
	Long: `Search LRCLIB for lyrics and save the chosen result as an LRC file.

Instrumentals and records without lyrics are left out. Pick a result by
number, or browse the results with a lyrics preview using --tui. Synced
lyrics are written when available, plain lyrics otherwise.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().String("track", "", "Filter by track name")
	searchCmd.Flags().String("artist", "", "Filter by artist name")
	searchCmd.Flags().String("album", "", "Filter by album name")
	searchCmd.Flags().Bool("tui", false, "Pick a result in a full-screen browser")
	searchCmd.Flags().StringP("output", "o", "", "Output file (default: <track name>.lrc)")
	searchCmd.Flags().Int("limit", 20, "Maximum number of results to list (0 for all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := newClient()
	if err != nil {
		return err
	}

	params := lrclib.SearchParams{Query: strings.Join(args, " ")}
	params.Track, _ = cmd.Flags().GetString("track")
	params.Artist, _ = cmd.Flags().GetString("artist")
	params.Album, _ = cmd.Flags().GetString("album")

	results, err := client.Search(ctx, params)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return errors.New("no search results")
	}
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	var idx int
	if useTUI, _ := cmd.Flags().GetBool("tui"); useTUI {
		idx, err = tui.Pick(results)
	} else {
		idx, err = pickResult(results)
	}
	if errors.Is(err, tui.ErrCancelled) || errors.Is(err, errAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	result := results[idx]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = lrcFilename(result.TrackName)
	}
	if err := writeLRC(output, recordLyrics(result, false)); err != nil {
		return err
	}

	printSuccess("Lyrics written to '%s'.", output)
	return nil
}

// pickResult lists results and asks for one by number
func pickResult(results []lrclib.Record) (int, error) {
	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}
	for _, row := range resultRows(results, width) {
		fmt.Fprintln(stdout, row)
	}
	fmt.Fprintln(stdout)

	p := newPrompter()
	defer p.Close()
	return p.choose("ID to download > ", len(results))
}
