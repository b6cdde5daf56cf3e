package lrclib

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// LyricsService provides lyrics lookup operations for the LRCLIB API.
type LyricsService struct {
	client *Client
}

// Search finds records matching the given filters.
//
// Example:
//
//	records, err := client.Lyrics().Search(ctx, lrclib.SearchParams{
//	    Query: "beatles yesterday",
//	})
//	if err != nil {
//	    log.Printf("Search failed: %v", err)
//	}
func (s *LyricsService) Search(ctx context.Context, params SearchParams) ([]Record, error) {
	if params.Query == "" && params.Track == "" {
		return nil, fmt.Errorf("lrclib: search requires a query or a track name")
	}

	q := url.Values{}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	if params.Track != "" {
		q.Set("track_name", params.Track)
	}
	if params.Artist != "" {
		q.Set("artist_name", params.Artist)
	}
	if params.Album != "" {
		q.Set("album_name", params.Album)
	}

	var records []Record
	err := s.client.call(ctx, request{method: http.MethodGet, endpoint: "search", query: q}, http.StatusOK, &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Get looks up the best match for a track signature.
//
// LRCLIB may fetch missing tracks from external sources during this call.
// Returns (nil, nil) when no record matches.
func (s *LyricsService) Get(ctx context.Context, sig Signature) (*Record, error) {
	return s.get(ctx, "get", sig)
}

// GetCached is like Get but only consults LRCLIB's own database.
func (s *LyricsService) GetCached(ctx context.Context, sig Signature) (*Record, error) {
	return s.get(ctx, "get-cached", sig)
}

// GetByID fetches a record by its LRCLIB id. Returns (nil, nil) when the id
// does not exist.
func (s *LyricsService) GetByID(ctx context.Context, id int64) (*Record, error) {
	var rec Record
	endpoint := "get/" + strconv.FormatInt(id, 10)
	err := s.client.call(ctx, request{method: http.MethodGet, endpoint: endpoint}, http.StatusOK, &rec)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *LyricsService) get(ctx context.Context, endpoint string, sig Signature) (*Record, error) {
	if sig.Track == "" || sig.Artist == "" {
		return nil, fmt.Errorf("lrclib: track and artist names are required")
	}

	q := url.Values{}
	q.Set("track_name", sig.Track)
	q.Set("artist_name", sig.Artist)
	if sig.Album != "" {
		q.Set("album_name", sig.Album)
	}
	if sig.Duration > 0 {
		q.Set("duration", strconv.Itoa(sig.Duration))
	}

	var rec Record
	err := s.client.call(ctx, request{method: http.MethodGet, endpoint: endpoint, query: q}, http.StatusOK, &rec)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
