package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/k0kubun/go-ansi"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/jfmyers9/lrcup/internal/lrc"
	"github.com/jfmyers9/lrcup/internal/tags"
	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

// DefaultConcurrency is the number of files synced at once.
const DefaultConcurrency = 4

// ErrNoMatch is recorded for files LRCLIB has no lyrics for.
var ErrNoMatch = errors.New("no lyrics found")

// ErrMissingTags is recorded for files without a title or artist tag.
var ErrMissingTags = errors.New("missing title or artist tag")

// Fetcher looks up lyrics by track signature.
type Fetcher interface {
	Get(ctx context.Context, sig lrclib.Signature, cached bool) (*lrclib.Record, error)
}

// Options configures a Syncer.
type Options struct {
	Concurrency int
	Overwrite   bool   // Replace lyrics that are already embedded
	Language    string // ID3 lyrics language
	Cached      bool   // Only consult LRCLIB's own database
	Progress    io.Writer
}

// Outcome is what happened to a single file.
type Outcome int

const (
	Embedded Outcome = iota
	Skipped
	Missing
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Embedded:
		return "embedded"
	case Skipped:
		return "skipped"
	case Missing:
		return "missing"
	default:
		return "failed"
	}
}

// Result is the outcome for one file.
type Result struct {
	Path    string
	Outcome Outcome
	Synced  bool
	Err     error
}

// Report summarizes a batch.
type Report struct {
	Embedded int
	Skipped  int
	Missing  int
	Failed   int
	Results  []Result
}

// Failures returns the results of files that failed.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome == Failed {
			out = append(out, res)
		}
	}
	return out
}

// Syncer embeds LRCLIB lyrics into audio files.
type Syncer struct {
	fetcher Fetcher
	opts    Options
	logger  zerolog.Logger
}

// NewSyncer creates a Syncer.
func NewSyncer(f Fetcher, opts Options, logger zerolog.Logger) *Syncer {
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Language == "" {
		opts.Language = tags.DefaultLanguage
	}
	return &Syncer{
		fetcher: f,
		opts:    opts,
		logger:  logger.With().Str("component", "sync").Logger(),
	}
}

// Run syncs every path. Each file is handled by exactly one goroutine and a
// failure on one file never stops the others. The returned error is only
// non-nil when ctx is cancelled; results gathered until then are reported.
func (s *Syncer) Run(ctx context.Context, paths []string) (Report, error) {
	bar := s.newBar(len(paths))
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			defer func() { _ = bar.Add(1) }()

			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: path, Outcome: Failed, Err: err}
				return err
			}
			results[i] = s.syncFile(gctx, path)
			return nil
		})
	}

	err := g.Wait()
	_ = bar.Finish()

	report := Report{Results: results}
	for _, res := range results {
		switch res.Outcome {
		case Embedded:
			report.Embedded++
		case Skipped:
			report.Skipped++
		case Missing:
			report.Missing++
		default:
			report.Failed++
		}
	}

	s.logger.Info().
		Int("embedded", report.Embedded).
		Int("skipped", report.Skipped).
		Int("missing", report.Missing).
		Int("failed", report.Failed).
		Msg("Sync complete")

	return report, err
}

func (s *Syncer) syncFile(ctx context.Context, path string) Result {
	log := s.logger.With().Str("path", path).Logger()
	res := Result{Path: path}

	c, err := tags.Open(path, tags.WithLogger(s.logger))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open file")
		res.Outcome, res.Err = Failed, err
		return res
	}

	if !s.opts.Overwrite {
		if _, ok, err := c.Lyrics(s.opts.Language); err == nil && ok {
			log.Debug().Msg("Lyrics already embedded")
			res.Outcome = Skipped
			return res
		}
	}

	title, _ := c.Tag(tags.FieldTitle)
	artist, _ := c.Tag(tags.FieldArtist)
	album, _ := c.Tag(tags.FieldAlbum)
	if title == "" || artist == "" {
		res.Outcome, res.Err = Failed, ErrMissingTags
		return res
	}

	sig := lrclib.Signature{
		Track:    title,
		Artist:   artist,
		Album:    album,
		Duration: int(math.Round(c.Duration())),
	}
	rec, err := s.fetcher.Get(ctx, sig, s.opts.Cached)
	if err != nil {
		log.Warn().Err(err).Msg("Lookup failed")
		res.Outcome, res.Err = Failed, err
		return res
	}
	if rec == nil || rec.Instrumental || !rec.HasLyrics() {
		log.Debug().Msg("No lyrics on LRCLIB")
		res.Outcome, res.Err = Missing, ErrNoMatch
		return res
	}

	mode := lrc.Plain
	if rec.SyncedLyrics != "" {
		mode = lrc.Synced
	}
	err = c.SetLyrics(mode, tags.Text(rec.BestLyrics()), s.opts.Language)
	var pe *lrc.ParseError
	if errors.As(err, &pe) && rec.PlainLyrics != "" {
		log.Debug().Err(err).Msg("Synced lyrics unusable, embedding plain lyrics")
		mode = lrc.Plain
		err = c.SetLyrics(mode, tags.Text(rec.PlainLyrics), s.opts.Language)
	}
	if err != nil {
		log.Warn().Err(err).Msg("Failed to embed lyrics")
		res.Outcome, res.Err = Failed, fmt.Errorf("failed to embed lyrics: %w", err)
		return res
	}

	log.Info().Str("mode", mode.String()).Int64("lrclib_id", rec.ID).Msg("Embedded lyrics")
	res.Outcome, res.Synced = Embedded, mode == lrc.Synced
	return res
}

func (s *Syncer) newBar(n int) *progressbar.ProgressBar {
	w := s.opts.Progress
	if w == nil {
		w = ansi.NewAnsiStdout()
	}
	return progressbar.NewOptions(
		n,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Syncing lyrics...[reset]"),
	)
}
