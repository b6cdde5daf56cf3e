package publisher

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jfmyers9/lrcup/pkg/lrclib"
)

// Queue manages a persistent queue of submissions that could not be
// published, using SQLite
type Queue struct {
	db *sql.DB
}

// Pending represents a submission in the queue
type Pending struct {
	ID         int64
	Submission lrclib.Submission
	Source     string // File the lyrics were read from
	CreatedAt  time.Time
	Published  bool
	Attempts   int
	Error      string
}

// NewQueue creates a new submission queue backed by SQLite
func NewQueue(dbPath string) (*Queue, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps in-memory databases consistent
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS submissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			track_name TEXT NOT NULL,
			artist_name TEXT NOT NULL,
			album_name TEXT NOT NULL,
			duration REAL NOT NULL,
			plain_lyrics TEXT NOT NULL DEFAULT '',
			synced_lyrics TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL DEFAULT '',
			published BOOLEAN DEFAULT 0,
			attempts INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_published ON submissions(published, created_at);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Queue{db: db}, nil
}

// Close closes the database connection
func (q *Queue) Close() error {
	if q.db != nil {
		return q.db.Close()
	}
	return nil
}

// Add saves a submission for a later retry
func (q *Queue) Add(ctx context.Context, sub lrclib.Submission, source string) (int64, error) {
	query := `
		INSERT INTO submissions (track_name, artist_name, album_name, duration,
			plain_lyrics, synced_lyrics, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := q.db.ExecContext(ctx, query,
		sub.TrackName,
		sub.ArtistName,
		sub.AlbumName,
		sub.Duration,
		sub.PlainLyrics,
		sub.SyncedLyrics,
		source,
		time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get insert id: %w", err)
	}

	return id, nil
}

// MarkPublished marks a submission as successfully published
func (q *Queue) MarkPublished(ctx context.Context, id int64) error {
	query := `
		UPDATE submissions
		SET published = 1, error = NULL, attempts = attempts + 1
		WHERE id = ?
	`
	return q.update(ctx, query, id)
}

// MarkError records a failed publish attempt
func (q *Queue) MarkError(ctx context.Context, id int64, errMsg string) error {
	query := `
		UPDATE submissions
		SET error = ?, attempts = attempts + 1
		WHERE id = ?
	`
	return q.update(ctx, query, errMsg, id)
}

// Remove deletes a submission from the queue
func (q *Queue) Remove(ctx context.Context, id int64) error {
	return q.update(ctx, "DELETE FROM submissions WHERE id = ?", id)
}

func (q *Queue) update(ctx context.Context, query string, args ...interface{}) error {
	id := args[len(args)-1]

	result, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update submission %v: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("submission with id %v not found", id)
	}

	return nil
}

const selectColumns = `
	SELECT id, track_name, artist_name, album_name, duration, plain_lyrics,
		synced_lyrics, source, published, attempts, COALESCE(error, ''), created_at
	FROM submissions
`

// GetPending retrieves unpublished submissions, oldest first
// Optionally limits the number of results
func (q *Queue) GetPending(ctx context.Context, limit int) ([]Pending, error) {
	query := selectColumns + " WHERE published = 0 ORDER BY created_at ASC, id ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	return q.query(ctx, query)
}

// GetAll retrieves all submissions, newest first
func (q *Queue) GetAll(ctx context.Context) ([]Pending, error) {
	return q.query(ctx, selectColumns+" ORDER BY created_at DESC, id DESC")
}

func (q *Queue) query(ctx context.Context, query string) ([]Pending, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var out []Pending
	for rows.Next() {
		var p Pending
		var createdUnix int64

		err := rows.Scan(
			&p.ID,
			&p.Submission.TrackName,
			&p.Submission.ArtistName,
			&p.Submission.AlbumName,
			&p.Submission.Duration,
			&p.Submission.PlainLyrics,
			&p.Submission.SyncedLyrics,
			&p.Source,
			&p.Published,
			&p.Attempts,
			&p.Error,
			&createdUnix,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}

		p.CreatedAt = time.Unix(createdUnix, 0)
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}

	return out, nil
}

// Cleanup removes published submissions older than maxAge
// Unpublished ones are always kept
func (q *Queue) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge).Unix()

	query := `
		DELETE FROM submissions
		WHERE published = 1
		AND created_at < ?
	`

	result, err := q.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old submissions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

// Count returns the number of submissions in the queue
// If includePublished is false, only counts pending submissions
func (q *Queue) Count(ctx context.Context, includePublished bool) (int, error) {
	query := "SELECT COUNT(*) FROM submissions"
	if !includePublished {
		query += " WHERE published = 0"
	}

	var count int
	err := q.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	return count, nil
}
