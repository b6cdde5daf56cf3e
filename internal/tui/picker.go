package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

// ErrCancelled is returned when the user leaves the picker without choosing.
var ErrCancelled = errors.New("selection cancelled")

// ErrNoRecords is returned when there is nothing to pick from.
var ErrNoRecords = errors.New("no records to pick from")

// Picker is a full-screen list of LRCLIB records with a lyrics preview
type Picker struct {
	app     *tview.Application
	list    *tview.List
	preview *tview.TextView
	status  *tview.TextView

	records   []lrclib.Record
	selected  int
	cancelled bool

	// Last-rendered preview for change detection
	lastPreview string
}

// Pick shows records and blocks until one is chosen. It returns the index of
// the chosen record, or ErrCancelled.
func Pick(records []lrclib.Record) (int, error) {
	if len(records) == 0 {
		return -1, ErrNoRecords
	}
	return NewPicker(records).Run()
}

// NewPicker creates a picker for records without starting it
func NewPicker(records []lrclib.Record) *Picker {
	p := &Picker{
		app:      tview.NewApplication(),
		records:  records,
		selected: -1,
	}
	p.setupUI()
	return p
}

// setupUI creates the UI layout
func (p *Picker) setupUI() {
	p.list = tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	p.list.SetBorder(true).
		SetTitle(fmt.Sprintf(" Results (%d) ", len(p.records))).
		SetTitleAlign(tview.AlignLeft)

	for _, rec := range p.records {
		p.list.AddItem(recordLabel(rec), recordDetail(rec), 0, nil)
	}

	p.preview = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetTextAlign(tview.AlignLeft)
	p.preview.SetBorder(true).
		SetTitle(" Lyrics ").
		SetTitleAlign(tview.AlignLeft)

	p.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("[gray]enter:select  j/k:move  q/esc:cancel[-]")

	p.list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		p.show(index)
	})
	p.list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		p.selected = index
		p.app.Stop()
	})

	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(p.list, 0, 2, true).
		AddItem(p.preview, 0, 3, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(p.status, 1, 1, false)

	p.app.SetInputCapture(p.handleKeyEvent)
	p.app.SetRoot(flex, true).SetFocus(p.list)

	p.show(0)
}

// handleKeyEvent processes keyboard input. Enter is left to the list.
func (p *Picker) handleKeyEvent(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		p.cancel()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q', 'Q':
			p.cancel()
			return nil
		case 'j':
			return tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
		case 'k':
			return tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
		}
	}
	return event
}

func (p *Picker) cancel() {
	p.cancelled = true
	p.app.Stop()
}

// Run starts the picker and blocks until a record is chosen or the picker is
// cancelled.
func (p *Picker) Run() (int, error) {
	if err := p.app.Run(); err != nil {
		return -1, fmt.Errorf("TUI error: %w", err)
	}
	if p.cancelled || p.selected < 0 {
		return -1, ErrCancelled
	}
	return p.selected, nil
}

// show renders the preview for the record at index
func (p *Picker) show(index int) {
	if index < 0 || index >= len(p.records) {
		return
	}
	text := recordPreview(p.records[index])
	if text != p.lastPreview {
		p.lastPreview = text
		p.preview.SetText(text)
		p.preview.ScrollToBeginning()
	}
}

// recordLabel is the main list line: track and artist
func recordLabel(rec lrclib.Record) string {
	return fmt.Sprintf("%s [gray]-[-] %s", tview.Escape(rec.TrackName), tview.Escape(rec.ArtistName))
}

// recordDetail is the secondary list line: album, duration and lyric kind
func recordDetail(rec lrclib.Record) string {
	kind := "[yellow]plain[-]"
	if rec.SyncedLyrics != "" {
		kind = "[green]synced[-]"
	}
	album := rec.AlbumName
	if album == "" {
		album = "Unknown album"
	}
	return fmt.Sprintf("  %s  %s  %s", tview.Escape(album), formatDuration(rec.Duration), kind)
}

// recordPreview renders the lyrics of rec, synced when available
func recordPreview(rec lrclib.Record) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[white::b]%s[-:-:-]\n", tview.Escape(rec.TrackName)))
	sb.WriteString(fmt.Sprintf("[yellow]%s[-]\n", tview.Escape(rec.ArtistName)))
	if rec.AlbumName != "" {
		sb.WriteString(fmt.Sprintf("[gray]%s[-]\n", tview.Escape(rec.AlbumName)))
	}
	sb.WriteString("\n")

	lyrics := rec.BestLyrics()
	if lyrics == "" {
		sb.WriteString("[gray]No lyrics[-]")
	} else {
		sb.WriteString(tview.Escape(lyrics))
	}
	return sb.String()
}

// formatDuration formats seconds as MM:SS or HH:MM:SS for longer durations
func formatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds + 0.5)
	hours := total / 3600
	minutes := total / 60 % 60
	secs := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}
