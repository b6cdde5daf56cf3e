package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/colorstring"
)

// colors renders [green]-style markup; NO_COLOR turns it off.
var colors = colorstring.Colorize{
	Colors:  colorstring.DefaultColors,
	Reset:   true,
	Disable: os.Getenv("NO_COLOR") != "",
}

var stdout io.Writer = os.Stdout

// label pads a field name so that values line up
func label(name string) string {
	return padToWidth(name, 13) + ": "
}

// printField prints an aligned "name : value" line with a colored value
func printField(name, color, value string) {
	fmt.Fprintln(stdout, label(name)+colors.Color("["+color+"]"+value))
}

func printSuccess(format string, args ...interface{}) {
	fmt.Fprintln(stdout, colors.Color("[green]✓[reset] ")+fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Fprintln(stdout, colors.Color("[yellow]![reset] ")+fmt.Sprintf(format, args...))
}

func printFailure(format string, args ...interface{}) {
	fmt.Fprintln(stdout, colors.Color("[red]✗[reset] ")+fmt.Sprintf(format, args...))
}

// modeColor is the status color for a lyrics mode name
func modeColor(synced bool) (string, string) {
	if synced {
		return "green", "synced"
	}
	return "red", "unsynced"
}

// artistNames renders LRCLIB's ";"-separated artist lists
func artistNames(s string) string {
	return strings.ReplaceAll(s, ";", ", ")
}
