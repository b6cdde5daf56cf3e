package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <audio>",
	Short: "Write an audio file's embedded lyrics to an LRC file",
	Long: `Read the lyrics embedded in an audio file and write them next to it as
<audio name>.lrc, to --output, or to stdout with --stdout.

For MP3 files the --language frame is used when present, falling back to the
first lyrics frame of any language.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("language", "", "ID3 lyrics language (default: config language)")
	extractCmd.Flags().StringP("output", "o", "", "Output file (default: <audio name>.lrc)")
	extractCmd.Flags().Bool("stdout", false, "Print lyrics instead of writing a file")
}

func runExtract(cmd *cobra.Command, args []string) error {
	src, err := loadContainer(args[0], language(cmd))
	if err != nil {
		return err
	}
	if src.Text == "" {
		return errors.New("no embedded lyrics")
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		fmt.Fprintln(stdout, src.Text)
		return nil
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = siblingLRC(args[0])
	}
	if err := writeLRC(output, src.Text); err != nil {
		return err
	}

	color, status := modeColor(src.Synced())
	printField("Lyrics", color, status)
	printSuccess("Lyrics written to '%s'.", output)
	return nil
}
