package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jfmyers9/lrcup/internal/tags"
)

var tagCmd = &cobra.Command{
	Use:   "tag <audio> [NAME[=VALUE]...]",
	Short: "Read or write audio file tags",
	Long: `Read or write tags of an audio file.

Without names the canonical fields (TITLE, ARTIST, ALBUM, ALBUMARTIST) and the
duration are printed. NAME prints one tag and NAME=VALUE writes it; an empty
VALUE removes it. Names are canonical field names or native keys of the
container (for example TCON for MP3 or GENRE for FLAC).

MP3 lyrics frames can be addressed as USLT::<lang> and SYLT::<lang>.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTag,
}

func init() {
	rootCmd.AddCommand(tagCmd)
}

func runTag(cmd *cobra.Command, args []string) error {
	c, err := tags.Open(args[0], tags.WithLogger(logger))
	if err != nil {
		return err
	}

	if len(args) == 1 {
		printField("Format", "cyan", c.Format().String())
		printField("Duration", "cyan", formatSeconds(c.Duration()))
		for _, field := range tags.Fields {
			if field == tags.FieldLyrics {
				continue
			}
			printTag(c, field)
		}
		if _, ok := c.Tag(tags.FieldLyrics); ok {
			printField(tags.FieldLyrics, "green", "present")
		} else {
			printField(tags.FieldLyrics, "dark_gray", "-")
		}
		return nil
	}

	for _, arg := range args[1:] {
		name, value, set := strings.Cut(arg, "=")
		if !set {
			printTag(c, name)
			continue
		}
		if err := c.SetTag(name, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", name, err)
		}
		if value == "" {
			printSuccess("Removed %s", name)
		} else {
			printSuccess("Set %s", name)
		}
	}
	return nil
}

func printTag(c tags.Container, name string) {
	value, ok := c.Tag(name)
	if !ok {
		printField(name, "dark_gray", "-")
		return
	}
	printField(name, "green", value)
}
