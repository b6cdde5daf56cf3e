package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/lrcup/internal/lrc"
)

var shiftCmd = &cobra.Command{
	Use:     "shift [flags] <lrc> <delta>",
	Aliases: []string{"offset"},
	Short:   "Shift every timestamp of an LRC file",
	Long: `Move every line of a synced LRC file earlier or later.

The delta is signed and takes minutes, seconds or both:

  +1:30   -0:05   +2:   -:45   +12   -1.5   +1m30s   -2m   +45s

Flags must come before the file name so that negative deltas are not read
as flags. The file is rewritten in place unless --output is given. A shift
that would move the first line before 00:00.00 is rejected and nothing is
written.`,
	Args: cobra.ExactArgs(2),
	RunE: runShift,
}

func init() {
	rootCmd.AddCommand(shiftCmd)

	shiftCmd.Flags().StringP("output", "o", "", "Output file (default: overwrite input)")
	shiftCmd.Flags().SetInterspersed(false)
}

func runShift(cmd *cobra.Command, args []string) error {
	delta, err := lrc.ParseDelta(args[1])
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read lyrics: %w", err)
	}

	shifted, err := shiftText(string(data), delta)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = args[0]
	}
	if err := writeLRC(output, shifted); err != nil {
		return err
	}

	printSuccess("Shifted %s by %+.2fs into '%s'.", args[0], float64(delta)/1000, output)
	return nil
}

// shiftText applies delta to LRC text, keeping any ID tag header
func shiftText(text string, delta int64) (string, error) {
	header, body := lrc.SplitHeader(text)

	doc, err := lrc.Parse(body)
	if err != nil {
		return "", err
	}
	shifted, err := lrc.Offset(doc, delta)
	if err != nil {
		return "", err
	}

	out := lrc.Dump(shifted)
	if len(header) > 0 {
		prefix := text[:len(text)-len(body)]
		out = prefix + out
	}
	return out, nil
}
