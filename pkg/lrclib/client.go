// Package lrclib provides a client for the LRCLIB lyrics database API.
//
// Example usage:
//
//	import "github.com/jfmyers9/lrcup/pkg/lrclib"
//
//	client, err := lrclib.NewClient(lrclib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rec, err := client.Lyrics().Get(ctx, lrclib.Signature{
//	    Track:    "Yesterday",
//	    Artist:   "The Beatles",
//	    Album:    "Help!",
//	    Duration: 125,
//	})
package lrclib

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Config holds client configuration.
type Config struct {
	BaseURL    string       // Optional: API root (defaults to DefaultBaseURL, used for testing)
	HTTPClient *http.Client // Optional: HTTP client (defaults to http.DefaultClient)
	UserAgent  string       // Optional: User-Agent header (defaults to DefaultUserAgent)
	Workers    int          // Optional: challenge solver goroutines (defaults to DefaultWorkers)
	Logger     Logger       // Optional: Logger interface for debug logging
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
}

// Client is the main entry point for LRCLIB API operations.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	workers    int
	logger     Logger

	lyrics  *LyricsService
	publish *PublishService
}

const (
	// DefaultBaseURL is the public LRCLIB API root.
	DefaultBaseURL = "https://lrclib.net/api/"

	// DefaultUserAgent identifies lrcup to LRCLIB, as its API guidelines ask.
	DefaultUserAgent = "lrcup (https://github.com/jfmyers9/lrcup)"
)

// NewClient creates a new LRCLIB API client.
//
// Returns an error if BaseURL is set but is not an absolute URL.
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q", ErrInvalidConfig, baseURL)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		userAgent:  userAgent,
		workers:    workers,
		logger:     cfg.Logger,
	}

	c.lyrics = &LyricsService{client: c}
	c.publish = &PublishService{client: c}

	return c, nil
}

// Lyrics returns the lyrics lookup service.
func (c *Client) Lyrics() *LyricsService {
	return c.lyrics
}

// Publish returns the publishing service.
func (c *Client) Publish() *PublishService {
	return c.publish
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// logDebugf logs a debug message if a logger is configured.
func (c *Client) logDebugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}
