package publisher

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

// DefaultTimeout bounds each HTTP request to LRCLIB. Solving a challenge
// happens between requests and is not covered.
const DefaultTimeout = 30 * time.Second

// Options configures New.
type Options struct {
	BaseURL   string
	UserAgent string
	Workers   int
	Timeout   time.Duration
}

// Client wraps the LRCLIB API client
type Client struct {
	client *lrclib.Client
	logger zerolog.Logger
}

// New creates a new LRCLIB client that logs through logger
func New(opts Options, logger zerolog.Logger) (*Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger = logger.With().Str("component", "lrclib").Logger()
	client, err := lrclib.NewClient(lrclib.Config{
		BaseURL:    opts.BaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  opts.UserAgent,
		Workers:    opts.Workers,
		Logger:     zerologAdapter{logger: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lrclib client: %w", err)
	}

	return &Client{client: client, logger: logger}, nil
}

// zerologAdapter implements lrclib.Logger.
type zerologAdapter struct {
	logger zerolog.Logger
}

func (a zerologAdapter) Debugf(format string, args ...interface{}) {
	a.logger.Debug().Msgf(format, args...)
}

// Publish validates sub and publishes it, solving the proof-of-work
// challenge on the way.
func (c *Client) Publish(ctx context.Context, sub lrclib.Submission) error {
	sub = Prepare(sub)
	if err := Validate(sub); err != nil {
		return err
	}

	start := time.Now()
	if err := c.client.Publish().PublishWithChallenge(ctx, sub); err != nil {
		return fmt.Errorf("failed to publish lyrics: %w", err)
	}

	c.logger.Info().
		Str("track", sub.TrackName).
		Str("artist", sub.ArtistName).
		Bool("synced", sub.SyncedLyrics != "").
		Dur("elapsed", time.Since(start)).
		Msg("Published lyrics")
	return nil
}

// Search returns records matching query that carry lyrics. Instrumental
// records and records without any lyrics text are dropped.
func (c *Client) Search(ctx context.Context, params lrclib.SearchParams) ([]lrclib.Record, error) {
	records, err := c.client.Lyrics().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search lyrics: %w", err)
	}

	out := records[:0]
	for _, r := range records {
		if !r.Instrumental && r.HasLyrics() {
			out = append(out, r)
		}
	}
	c.logger.Debug().Int("results", len(records)).Int("with_lyrics", len(out)).Msg("Search complete")
	return out, nil
}

// Get looks up a track by signature. With cached set, only LRCLIB's own
// database is consulted. Returns (nil, nil) when nothing matches.
func (c *Client) Get(ctx context.Context, sig lrclib.Signature, cached bool) (*lrclib.Record, error) {
	var (
		rec *lrclib.Record
		err error
	)
	if cached {
		rec, err = c.client.Lyrics().GetCached(ctx, sig)
	} else {
		rec, err = c.client.Lyrics().Get(ctx, sig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lyrics: %w", err)
	}
	return rec, nil
}

// GetByID fetches a record by id. Returns (nil, nil) when it does not exist.
func (c *Client) GetByID(ctx context.Context, id int64) (*lrclib.Record, error) {
	rec, err := c.client.Lyrics().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get lyrics %d: %w", id, err)
	}
	return rec, nil
}

// BaseURL returns the API root in use.
func (c *Client) BaseURL() string {
	return c.client.BaseURL()
}

// ShouldQueue reports whether a failed publish is worth saving for a later
// retry: network failures and temporary LRCLIB errors are, validation and
// other API errors are not.
func ShouldQueue(err error) bool {
	return lrclib.IsTemporary(err)
}
