// Package lrclib provides a client library for the LRCLIB lyrics API.
//
// # Overview
//
// This package implements a Go client for LRCLIB (https://lrclib.net), an
// open database of synced and plain song lyrics. It covers lookups and
// publishing, including the proof-of-work challenge LRCLIB requires before
// accepting a publish request.
//
// # Installation
//
//	go get github.com/jfmyers9/lrcup/pkg/lrclib
//
// # Quick Start
//
//	client, err := lrclib.NewClient(lrclib.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Lookups
//
//	// Free-text search
//	records, err := client.Lyrics().Search(ctx, lrclib.SearchParams{Query: "yesterday"})
//
//	// Exact signature lookup (nil record when nothing matches)
//	rec, err := client.Lyrics().Get(ctx, lrclib.Signature{
//	    Track:    "Yesterday",
//	    Artist:   "The Beatles",
//	    Album:    "Help!",
//	    Duration: 125,
//	})
//
// # Publishing
//
// Publishing is a three step flow:
//
//  1. Request a challenge (a prefix and a 256-bit target)
//  2. Find a nonce such that sha256(prefix + nonce) < target
//  3. Send the lyrics with the header X-Publish-Token: "{prefix}:{nonce}"
//
// PublishWithChallenge runs all three steps:
//
//	err := client.Publish().PublishWithChallenge(ctx, lrclib.Submission{
//	    TrackName:    "Yesterday",
//	    ArtistName:   "The Beatles",
//	    AlbumName:    "Help!",
//	    Duration:     125,
//	    SyncedLyrics: lrcText,
//	})
//
// The solver is also exposed directly:
//
//	nonce, err := lrclib.Solve(prefix, targetHex)
//	token := lrclib.Token(prefix, nonce)
//
// Solving has no timeout. It spreads candidate nonces across a fixed pool of
// goroutines and returns the first valid nonce any of them finds, so the
// result is not necessarily the smallest and may differ between runs.
//
// # Error Handling
//
// API failures are returned as *Error, transport failures as *NetworkError.
// The client never retries on its own:
//
//	err := client.Publish().PublishWithChallenge(ctx, sub)
//	if lrclib.IsTemporary(err) {
//	    // Save the submission and try again later
//	}
//
// # Context Support
//
// All network methods accept a context.Context for cancellation and
// timeouts. Solve does not, since it performs no I/O.
//
// # Configuration
//
//	client, err := lrclib.NewClient(lrclib.Config{
//	    BaseURL:    "https://lrclib.net/api/",
//	    HTTPClient: &http.Client{Timeout: 30 * time.Second},
//	    UserAgent:  "myapp v1.0 (https://example.com)",
//	    Workers:    8,
//	    Logger:     myLogger, // Implements lrclib.Logger interface
//	})
//
// # API Coverage
//
// Currently implemented:
//   - GET /search, /get, /get-cached, /get/{id}
//   - POST /request-challenge, /publish
//
// # LRCLIB API Documentation
//
// https://lrclib.net/docs
package lrclib
