package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/lrcup/internal/publisher"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Manage uploads that could not reach LRCLIB",
	Long: `Uploads that fail because LRCLIB is unreachable or overloaded are kept in a
local queue. Nothing is retried automatically; use 'lrcup pending retry' to
send them again.`,
}

var pendingListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List pending uploads",
	Args:    cobra.NoArgs,
	RunE:    runPendingList,
}

var pendingRetryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Publish pending uploads",
	Args:  cobra.NoArgs,
	RunE:  runPendingRetry,
}

var pendingCleanCmd = &cobra.Command{
	Use:   "clean [id...]",
	Short: "Remove published uploads, or specific ones by ID",
	RunE:  runPendingClean,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
	pendingCmd.AddCommand(pendingListCmd, pendingRetryCmd, pendingCleanCmd)

	pendingListCmd.Flags().BoolP("all", "a", false, "Include published uploads")
	pendingRetryCmd.Flags().Int("limit", 0, "Maximum uploads to retry (0 for all)")
	pendingCleanCmd.Flags().Duration("older-than", 7*24*time.Hour, "Remove published uploads older than this")
}

func runPendingList(cmd *cobra.Command, args []string) error {
	queue, err := openQueue()
	if err != nil {
		return err
	}
	defer queue.Close()

	ctx := context.Background()
	all, _ := cmd.Flags().GetBool("all")

	var items []publisher.Pending
	if all {
		items, err = queue.GetAll(ctx)
	} else {
		items, err = queue.GetPending(ctx, 0)
	}
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(stdout, "No pending uploads.")
		return nil
	}

	for _, item := range items {
		status := "[yellow]pending[reset]"
		if item.Published {
			status = "[green]published[reset]"
		}
		fmt.Fprintln(stdout, colors.Color(fmt.Sprintf("#%-4d %s  %s - %s  (%s, %d attempt(s))",
			item.ID, status,
			item.Submission.ArtistName, item.Submission.TrackName,
			item.CreatedAt.Format("2006-01-02 15:04"), item.Attempts)))
		if item.Error != "" && !item.Published {
			fmt.Fprintln(stdout, colors.Color("      [dark_gray]last error: "+item.Error))
		}
	}
	return nil
}

func runPendingRetry(cmd *cobra.Command, args []string) error {
	queue, err := openQueue()
	if err != nil {
		return err
	}
	defer queue.Close()

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	limit, _ := cmd.Flags().GetInt("limit")
	res, err := publisher.Retry(ctx, client, queue, limit, logger)

	if res.Published > 0 {
		printSuccess("Published %d pending upload(s).", res.Published)
	}
	if res.Failed > 0 {
		printFailure("%d upload(s) failed; see 'lrcup pending list'.", res.Failed)
	}
	if res.Published == 0 && res.Failed == 0 && err == nil {
		fmt.Fprintln(stdout, "No pending uploads.")
	}
	return err
}

func runPendingClean(cmd *cobra.Command, args []string) error {
	queue, err := openQueue()
	if err != nil {
		return err
	}
	defer queue.Close()

	ctx := context.Background()

	if len(args) > 0 {
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", arg)
			}
			if err := queue.Remove(ctx, id); err != nil {
				return err
			}
			printSuccess("Removed #%d", id)
		}
		return nil
	}

	olderThan, _ := cmd.Flags().GetDuration("older-than")
	deleted, err := queue.Cleanup(ctx, olderThan)
	if err != nil {
		return err
	}
	printSuccess("Removed %d published upload(s).", deleted)
	return nil
}
