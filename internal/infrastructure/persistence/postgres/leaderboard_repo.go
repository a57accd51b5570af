// Package postgres implements the PostgreSQL persistence layer.
package postgres

import (
	"context"
	"fmt"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"
	"github.com/purrboard/purrboard-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardRepository implements leaderboard.Repository for PostgreSQL.
// The ranking is derived on read from the current catalog state; there is
// no separate ranking table to keep in sync.
type LeaderboardRepository struct {
	conn *Connection
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(conn *Connection) *LeaderboardRepository {
	return &LeaderboardRepository{conn: conn}
}

var _ leaderboard.Repository = (*LeaderboardRepository)(nil)

// GetTop returns the top-N breeds by like count, count descending with
// identifier ascending on ties.
func (r *LeaderboardRepository) GetTop(ctx context.Context, limit int) ([]*leaderboard.Entry, error) {
	if limit <= 0 {
		return []*leaderboard.Entry{}, nil
	}

	rows, err := r.conn.Query(ctx, `
		SELECT id, name, image_url, like_count
		FROM breeds
		ORDER BY like_count DESC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, shared.WrapError("leaderboard", "GetTop", shared.ErrStoreUnavailable, "query failed", err)
	}
	defer rows.Close()

	entries := make([]*leaderboard.Entry, 0, limit)
	rank := 1
	for rows.Next() {
		var (
			id       string
			name     string
			imageURL string
			count    int
		)
		if err := rows.Scan(&id, &name, &imageURL, &count); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}

		entry, err := leaderboard.NewEntry(leaderboard.Rank(rank), breed.ID(id), count, name)
		if err != nil {
			return nil, err
		}
		entry.ImageURL = imageURL

		entries = append(entries, entry)
		rank++
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("leaderboard", "GetTop", shared.ErrStoreUnavailable, "row iteration failed", err)
	}

	return entries, nil
}
