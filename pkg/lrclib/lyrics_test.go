package lrclib

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL + "/api"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantURL string
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}, wantURL: DefaultBaseURL},
		{name: "adds trailing slash", cfg: Config{BaseURL: "http://localhost:8080/api"}, wantURL: "http://localhost:8080/api/"},
		{name: "relative url", cfg: Config{BaseURL: "/api"}, wantErr: true},
		{name: "garbage", cfg: Config{BaseURL: "::"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("NewClient() error = %v, want ErrInvalidConfig", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if client.BaseURL() != tt.wantURL {
				t.Errorf("BaseURL() = %q, want %q", client.BaseURL(), tt.wantURL)
			}
		})
	}
}

func TestLyricsService_Search(t *testing.T) {
	tests := []struct {
		name       string
		params     SearchParams
		wantQuery  map[string]string
		response   string
		statusCode int
		want       []Record
		wantErr    bool
	}{
		{
			name:      "free text",
			params:    SearchParams{Query: "hello world"},
			wantQuery: map[string]string{"q": "hello world"},
			response: `[{"id":1,"trackName":"Hello","artistName":"Someone","albumName":"Album",
				"duration":180,"instrumental":false,"plainLyrics":"Hello","syncedLyrics":"[00:01.00] Hello"}]`,
			statusCode: http.StatusOK,
			want: []Record{{
				ID: 1, TrackName: "Hello", ArtistName: "Someone", AlbumName: "Album",
				Duration: 180, PlainLyrics: "Hello", SyncedLyrics: "[00:01.00] Hello",
			}},
		},
		{
			name:       "field filters",
			params:     SearchParams{Track: "Hello", Artist: "Someone", Album: "Album"},
			wantQuery:  map[string]string{"track_name": "Hello", "artist_name": "Someone", "album_name": "Album"},
			response:   `[]`,
			statusCode: http.StatusOK,
			want:       []Record{},
		},
		{
			name:       "server error",
			params:     SearchParams{Query: "x"},
			response:   `{"code":500,"name":"InternalError","message":"boom"}`,
			statusCode: http.StatusInternalServerError,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET request, got %s", r.Method)
				}
				if r.URL.Path != "/api/search" {
					t.Errorf("expected path /api/search, got %s", r.URL.Path)
				}
				for k, v := range tt.wantQuery {
					if got := r.URL.Query().Get(k); got != v {
						t.Errorf("expected %s=%q, got %q", k, v, got)
					}
				}
				if ua := r.Header.Get("User-Agent"); ua != DefaultUserAgent {
					t.Errorf("expected default user agent, got %q", ua)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			})

			got, err := client.Lyrics().Search(context.Background(), tt.params)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLyricsService_Search_RequiresQuery(t *testing.T) {
	client, _ := NewClient(Config{})
	if _, err := client.Lyrics().Search(context.Background(), SearchParams{Artist: "x"}); err == nil {
		t.Error("expected error without query or track")
	}
}

func TestLyricsService_Get(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		statusCode int
		wantNil    bool
		wantErr    bool
	}{
		{
			name:       "found",
			response:   `{"id":42,"trackName":"Hi","artistName":"A","albumName":"B","duration":61,"plainLyrics":"Hi","syncedLyrics":""}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "not found",
			response:   `{"code":404,"name":"TrackNotFound","message":"Failed to find specified track"}`,
			statusCode: http.StatusNotFound,
			wantNil:    true,
		},
		{
			name:       "legacy not found body",
			response:   `{"statusCode":404,"error":"Not Found","message":"Failed to find specified track"}`,
			statusCode: http.StatusNotFound,
			wantNil:    true,
		},
		{
			name:       "bad request",
			response:   `{"code":400,"name":"ValidationError","message":"duration is invalid"}`,
			statusCode: http.StatusBadRequest,
			wantErr:    true,
		},
		{
			name:       "not found in a 200 body",
			response:   `{"statusCode":404,"error":"Not Found","message":"Failed to find specified track"}`,
			statusCode: http.StatusOK,
			wantNil:    true,
		},
		{
			name:       "error code in a 200 body",
			response:   `{"code":400,"name":"ValidationError","message":"duration is invalid"}`,
			statusCode: http.StatusOK,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/get" {
					t.Errorf("expected path /api/get, got %s", r.URL.Path)
				}
				q := r.URL.Query()
				if q.Get("track_name") != "Hi" || q.Get("artist_name") != "A" ||
					q.Get("album_name") != "B" || q.Get("duration") != "61" {
					t.Errorf("unexpected query: %s", r.URL.RawQuery)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			})

			rec, err := client.Lyrics().Get(context.Background(), Signature{
				Track: "Hi", Artist: "A", Album: "B", Duration: 61,
			})
			if tt.wantErr {
				var apiErr *Error
				if !errors.As(err, &apiErr) {
					t.Fatalf("Get() error = %v, want *Error", err)
				}
				if apiErr.Name != "ValidationError" {
					t.Errorf("Error.Name = %q, want ValidationError", apiErr.Name)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if tt.wantNil {
				if rec != nil {
					t.Errorf("expected nil record, got %+v", rec)
				}
				return
			}
			if rec == nil || rec.ID != 42 {
				t.Errorf("unexpected record: %+v", rec)
			}
		})
	}
}

func TestLyricsService_GetCachedAndByID(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if strings.HasSuffix(r.URL.Path, "/999") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":7,"trackName":"T"}`))
	})
	ctx := context.Background()

	if _, err := client.Lyrics().GetCached(ctx, Signature{Track: "T", Artist: "A"}); err != nil {
		t.Fatalf("GetCached() error = %v", err)
	}
	rec, err := client.Lyrics().GetByID(ctx, 7)
	if err != nil || rec == nil || rec.ID != 7 {
		t.Fatalf("GetByID(7) = %+v, %v", rec, err)
	}
	rec, err = client.Lyrics().GetByID(ctx, 999)
	if err != nil || rec != nil {
		t.Fatalf("GetByID(999) = %+v, %v; want nil, nil", rec, err)
	}

	want := []string{"/api/get-cached", "/api/get/7", "/api/get/999"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestLyricsService_Get_RequiresSignature(t *testing.T) {
	client, _ := NewClient(Config{})
	if _, err := client.Lyrics().Get(context.Background(), Signature{Track: "x"}); err == nil {
		t.Error("expected error without artist")
	}
}

func TestLyricsService_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Lyrics().Search(ctx, SearchParams{Query: "x"})
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !IsTemporary(err) {
		t.Errorf("transport failure should be temporary, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded in chain, got %v", err)
	}
}

func TestRecord_BestLyrics(t *testing.T) {
	tests := []struct {
		rec  Record
		want string
		has  bool
	}{
		{rec: Record{SyncedLyrics: "s", PlainLyrics: "p"}, want: "s", has: true},
		{rec: Record{PlainLyrics: "p"}, want: "p", has: true},
		{rec: Record{Instrumental: true}, want: "", has: false},
	}
	for _, tt := range tests {
		if got := tt.rec.BestLyrics(); got != tt.want {
			t.Errorf("BestLyrics() = %q, want %q", got, tt.want)
		}
		if got := tt.rec.HasLyrics(); got != tt.has {
			t.Errorf("HasLyrics() = %v, want %v", got, tt.has)
		}
	}
}
