package lrclib

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// PublishService provides publishing operations for the LRCLIB API.
type PublishService struct {
	client *Client
}

// RequestChallenge asks LRCLIB for a proof-of-work challenge.
func (s *PublishService) RequestChallenge(ctx context.Context) (*Challenge, error) {
	var ch Challenge
	err := s.client.call(ctx, request{method: http.MethodPost, endpoint: "request-challenge"}, http.StatusOK, &ch)
	if err != nil {
		return nil, err
	}
	if ch.Prefix == "" || ch.Target == "" {
		return nil, fmt.Errorf("lrclib: challenge response is missing prefix or target")
	}
	return &ch, nil
}

// Solve computes the publish token for a challenge using the client's
// configured number of solver goroutines.
//
// Solve blocks until a nonce is found.
func (s *PublishService) Solve(ch *Challenge) (string, error) {
	target, err := decodeTarget(ch.Target)
	if err != nil {
		return "", err
	}

	start := time.Now()
	nonce := SolveWorkers(ch.Prefix, target, s.client.workers)
	s.client.logDebugf("lrclib: solved challenge with nonce %d in %s", nonce, time.Since(start))

	return Token(ch.Prefix, nonce), nil
}

// Publish uploads lyrics using an already solved publish token.
//
// LRCLIB answers 201 Created on success; any other status is an *Error.
//
// Example:
//
//	err := client.Publish().Publish(ctx, token, lrclib.Submission{
//	    TrackName:    "Yesterday",
//	    ArtistName:   "The Beatles",
//	    AlbumName:    "Help!",
//	    Duration:     125,
//	    SyncedLyrics: "[00:01.00] Yesterday",
//	})
func (s *PublishService) Publish(ctx context.Context, token string, sub Submission) error {
	if token == "" {
		return fmt.Errorf("lrclib: publish token required")
	}

	return s.client.call(ctx, request{
		method:   http.MethodPost,
		endpoint: "publish",
		body:     sub,
		headers:  map[string]string{"X-Publish-Token": token},
	}, http.StatusCreated, nil)
}

// PublishWithChallenge requests a challenge, solves it and publishes sub.
func (s *PublishService) PublishWithChallenge(ctx context.Context, sub Submission) error {
	ch, err := s.RequestChallenge(ctx)
	if err != nil {
		return fmt.Errorf("failed to request challenge: %w", err)
	}

	token, err := s.Solve(ch)
	if err != nil {
		return fmt.Errorf("failed to solve challenge: %w", err)
	}

	if err := s.Publish(ctx, token, sub); err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	return nil
}
