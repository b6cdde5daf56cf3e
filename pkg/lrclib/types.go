package lrclib

// Record is a lyrics record as stored by LRCLIB.
type Record struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"` // Seconds
	Instrumental bool    `json:"instrumental"`
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}

// HasLyrics reports whether the record carries any lyrics text.
func (r Record) HasLyrics() bool {
	return r.PlainLyrics != "" || r.SyncedLyrics != ""
}

// BestLyrics returns the synced lyrics when present, else the plain ones.
func (r Record) BestLyrics() string {
	if r.SyncedLyrics != "" {
		return r.SyncedLyrics
	}
	return r.PlainLyrics
}

// SearchParams holds the search filters. At least Query or Track must be set.
type SearchParams struct {
	Query  string // Free text across track, artist and album
	Track  string // Optional: track name filter
	Artist string // Optional: artist name filter
	Album  string // Optional: album name filter
}

// Signature identifies a single track for Get lookups.
type Signature struct {
	Track    string // Required: track name
	Artist   string // Required: artist name
	Album    string // Optional: album name
	Duration int    // Optional: duration in seconds (LRCLIB matches within ±2s)
}

// Challenge is a proof-of-work challenge issued before publishing.
type Challenge struct {
	Prefix string `json:"prefix"`
	Target string `json:"target"` // Hex-encoded 32-byte threshold
}

// Submission is the body of a publish request.
type Submission struct {
	TrackName    string  `json:"trackName"`
	ArtistName   string  `json:"artistName"`
	AlbumName    string  `json:"albumName"`
	Duration     float64 `json:"duration"` // Seconds
	PlainLyrics  string  `json:"plainLyrics"`
	SyncedLyrics string  `json:"syncedLyrics"`
}
