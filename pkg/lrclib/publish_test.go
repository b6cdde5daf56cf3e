package lrclib

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestPublishService_RequestChallenge(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		statusCode int
		wantErr    bool
	}{
		{
			name:       "success",
			response:   `{"prefix":"abc","target":"` + easyTarget + `"}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "missing target",
			response:   `{"prefix":"abc"}`,
			statusCode: http.StatusOK,
			wantErr:    true,
		},
		{
			name:       "rate limited",
			response:   `{"code":429,"name":"TooManyRequests","message":"slow down"}`,
			statusCode: http.StatusTooManyRequests,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST request, got %s", r.Method)
				}
				if r.URL.Path != "/api/request-challenge" {
					t.Errorf("expected path /api/request-challenge, got %s", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			})

			ch, err := client.Publish().RequestChallenge(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("RequestChallenge() error = %v", err)
			}
			if ch.Prefix != "abc" || ch.Target != easyTarget {
				t.Errorf("unexpected challenge: %+v", ch)
			}
		})
	}
}

func TestPublishService_Solve(t *testing.T) {
	client, _ := NewClient(Config{Workers: 2})

	token, err := client.Publish().Solve(&Challenge{Prefix: "abc", Target: easyTarget})
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	prefix, nonceStr, ok := strings.Cut(token, ":")
	if !ok || prefix != "abc" {
		t.Fatalf("malformed token %q", token)
	}
	var nonce uint64
	if err := json.Unmarshal([]byte(nonceStr), &nonce); err != nil {
		t.Fatalf("token nonce %q is not a number: %v", nonceStr, err)
	}
	target, _ := hex.DecodeString(easyTarget)
	if !Verify(prefix, nonce, target) {
		t.Errorf("token %q does not solve the challenge", token)
	}

	if _, err := client.Publish().Solve(&Challenge{Prefix: "abc", Target: "nope"}); err == nil {
		t.Error("expected error for invalid target")
	}
}

func TestPublishService_Publish(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		response   string
		wantErr    bool
		wantTemp   bool
	}{
		{name: "created", statusCode: http.StatusCreated},
		{
			name:       "bad token",
			statusCode: http.StatusBadRequest,
			response:   `{"code":400,"name":"IncorrectPublishTokenError","message":"The provided publish token is incorrect"}`,
			wantErr:    true,
		},
		{
			name:       "server error",
			statusCode: http.StatusBadGateway,
			response:   `upstream unavailable`,
			wantErr:    true,
			wantTemp:   true,
		},
		{
			// Success is 201 only.
			name:       "plain ok",
			statusCode: http.StatusOK,
			wantErr:    true,
		},
	}

	sub := Submission{
		TrackName:    "Hi",
		ArtistName:   "A",
		AlbumName:    "B",
		Duration:     61,
		PlainLyrics:  "Hi",
		SyncedLyrics: "[00:01.00] Hi",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/publish" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if got := r.Header.Get("X-Publish-Token"); got != "abc:17" {
					t.Errorf("expected X-Publish-Token abc:17, got %q", got)
				}
				if got := r.Header.Get("Content-Type"); got != "application/json" {
					t.Errorf("expected JSON content type, got %q", got)
				}

				var body map[string]interface{}
				if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
					t.Errorf("failed to decode body: %v", err)
				}
				for _, key := range []string{"trackName", "artistName", "albumName", "duration", "plainLyrics", "syncedLyrics"} {
					if _, ok := body[key]; !ok {
						t.Errorf("body missing %q", key)
					}
				}

				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			})

			err := client.Publish().Publish(context.Background(), "abc:17", sub)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Publish() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			if IsTemporary(err) != tt.wantTemp {
				t.Errorf("IsTemporary() = %v, want %v", IsTemporary(err), tt.wantTemp)
			}
		})
	}
}

func TestPublishService_Publish_RequiresToken(t *testing.T) {
	client, _ := NewClient(Config{})
	if err := client.Publish().Publish(context.Background(), "", Submission{}); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestPublishService_PublishWithChallenge(t *testing.T) {
	target, _ := hex.DecodeString(easyTarget)
	var published bool

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/request-challenge":
			_, _ = w.Write([]byte(`{"prefix":"pfx","target":"` + easyTarget + `"}`))
		case "/api/publish":
			token := r.Header.Get("X-Publish-Token")
			prefix, nonceStr, _ := strings.Cut(token, ":")
			var nonce uint64
			if err := json.Unmarshal([]byte(nonceStr), &nonce); err != nil || prefix != "pfx" || !Verify(prefix, nonce, target) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"code":400,"name":"IncorrectPublishTokenError","message":"bad token"}`))
				return
			}
			published = true
			w.WriteHeader(http.StatusCreated)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})

	err := client.Publish().PublishWithChallenge(context.Background(), Submission{
		TrackName: "Hi", ArtistName: "A", AlbumName: "B", Duration: 61, PlainLyrics: "Hi",
	})
	if err != nil {
		t.Fatalf("PublishWithChallenge() error = %v", err)
	}
	if !published {
		t.Error("expected lyrics to be published")
	}
}

func TestPublishService_PublishWithChallenge_ChallengeFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.Publish().PublishWithChallenge(context.Background(), Submission{TrackName: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected wrapped 503 *Error, got %v", err)
	}
	if !IsTemporary(err) {
		t.Error("503 should be temporary")
	}
}
