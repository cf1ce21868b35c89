/*
Package store persists user profiles and mood submissions in PostgreSQL.

All persistence failures surface as a single store error class carrying the raw
underlying message; callers do not distinguish connectivity errors from constraint
errors. Every call runs under a bounded timeout so a stalled database can never
block a request indefinitely.
*/
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	// MatchLimit caps the number of rows a same-mood query returns.
	MatchLimit = 50

	// queryTimeout bounds every statement issued by this package.
	queryTimeout = 5 * time.Second
)

// MatchRow is one same-mood submission joined against its owner's profile.
type MatchRow struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the persistence operations the rest of the application depends on.
type Store interface {
	// UpsertUser replaces the entire profile row for userID; last write wins.
	UpsertUser(ctx context.Context, userID, username, avatar string) error

	// InsertSubmission records a mood reading and returns the generated submission id.
	InsertSubmission(ctx context.Context, userID string, moodLevel int, lat, lon float64) (string, error)

	// QuerySameMood returns submissions with exactly moodLevel, excluding
	// excludeUserID, joined against the user profile table, newest first,
	// capped at MatchLimit rows. Submitters without a profile row never appear.
	QuerySameMood(ctx context.Context, moodLevel int, excludeUserID string) ([]MatchRow, error)
}

// PgStore implements Store on top of a pgx connection pool.
type PgStore struct {
	pool *pgxpool.Pool
}

// New creates a PgStore backed by the given pool.
func New(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// UpsertUser inserts or fully replaces the profile row for userID.
// Absent fields must be supplied as empty strings by the caller; this is a
// whole-row replace, not a partial patch.
func (s *PgStore) UpsertUser(ctx context.Context, userID, username, avatar string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (user_id, username, avatar)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET username = EXCLUDED.username,
		    avatar   = EXCLUDED.avatar`,
		userID, username, avatar,
	)
	if err != nil {
		return fmt.Errorf("upsert user %q: %w", userID, err)
	}

	return nil
}

// InsertSubmission stores a new mood submission. The submission id is a fresh
// UUIDv4; created_at is assigned by the database at insert time.
func (s *PgStore) InsertSubmission(ctx context.Context, userID string, moodLevel int, lat, lon float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	submissionID := uuid.New().String()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO submissions (submission_id, user_id, mood_level, lat, lon)
		VALUES ($1, $2, $3, $4, $5)`,
		submissionID, userID, moodLevel, lat, lon,
	)
	if err != nil {
		return "", fmt.Errorf("insert submission for user %q: %w", userID, err)
	}

	return submissionID, nil
}

// QuerySameMood fetches same-mood submissions joined against user profiles.
// The inner join intentionally drops submissions whose user never set a profile.
// Repeated submissions by the same user are returned as separate rows; there is
// no latest-per-user deduplication.
func (s *PgStore) QuerySameMood(ctx context.Context, moodLevel int, excludeUserID string) ([]MatchRow, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `
		SELECT s.user_id, u.username, u.avatar, s.lat, s.lon, s.created_at
		FROM submissions s
		JOIN users u ON u.user_id = s.user_id
		WHERE s.mood_level = $1
		  AND s.user_id <> $2
		ORDER BY s.created_at DESC
		LIMIT $3`,
		moodLevel, excludeUserID, MatchLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("query same mood %d: %w", moodLevel, err)
	}
	defer rows.Close()

	matches := make([]MatchRow, 0, MatchLimit)
	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.UserID, &m.Username, &m.Avatar, &m.Lat, &m.Lon, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		matches = append(matches, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match rows: %w", err)
	}

	return matches, nil
}
