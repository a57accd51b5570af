// Package postgres implements the PostgreSQL persistence layer.
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
	"github.com/purrboard/purrboard-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENGAGEMENT LEDGER IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EngagementRepository implements engagement.Ledger for PostgreSQL.
//
// Idempotency rests on the UNIQUE(user_id, cat_id) constraint: the insert
// uses ON CONFLICT DO NOTHING and the counter is incremented in the same
// transaction only when a row was actually created. There is no
// read-then-write window anywhere on this path.
type EngagementRepository struct {
	conn *Connection
}

// NewEngagementRepository creates a new EngagementRepository.
func NewEngagementRepository(conn *Connection) *EngagementRepository {
	return &EngagementRepository{conn: conn}
}

var _ engagement.Ledger = (*EngagementRepository)(nil)

// AddLike creates the (userID, catID) edge if absent and increments the
// denormalized counter transactionally. Returns true only when the edge was
// created by this call.
func (r *EngagementRepository) AddLike(ctx context.Context, catID breed.ID, userID engagement.UserID) (bool, error) {
	like, err := engagement.NewLike(uuid.NewString(), userID, catID)
	if err != nil {
		return false, err
	}

	var created bool
	err = r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO likes (id, user_id, cat_id, created_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, cat_id) DO NOTHING
		`,
			like.ID,
			int64(like.UserID),
			like.CatID.String(),
			like.CreatedAt,
		)
		if err != nil {
			if IsForeignKeyViolation(err) {
				return breed.ErrBreedNotFound
			}
			return fmt.Errorf("failed to insert like: %w", err)
		}

		created = tag.RowsAffected() == 1
		if !created {
			return nil // duplicate like, counter stays
		}

		_, err = tx.Exec(ctx, `
			UPDATE breeds SET like_count = like_count + 1 WHERE id = $1
		`, like.CatID.String())
		if err != nil {
			return fmt.Errorf("failed to increment like count: %w", err)
		}

		return nil
	})
	if err != nil {
		if shared.IsNotFound(err) {
			return false, err
		}
		return false, shared.WrapError("engagement", "AddLike", shared.ErrStoreUnavailable, "tx failed", err)
	}

	return created, nil
}

// RemoveLike deletes the edge if present and decrements the counter in the
// same transaction. A repeat like after removal creates a fresh edge.
func (r *EngagementRepository) RemoveLike(ctx context.Context, catID breed.ID, userID engagement.UserID) (bool, error) {
	var removed bool
	err := r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			DELETE FROM likes WHERE user_id = $1 AND cat_id = $2
		`, int64(userID), catID.String())
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}

		removed = tag.RowsAffected() == 1
		if !removed {
			return nil
		}

		// GREATEST keeps the valid_like_count constraint from firing if the
		// counter ever drifted.
		_, err = tx.Exec(ctx, `
			UPDATE breeds SET like_count = GREATEST(like_count - 1, 0) WHERE id = $1
		`, catID.String())
		if err != nil {
			return fmt.Errorf("failed to decrement like count: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, shared.WrapError("engagement", "RemoveLike", shared.ErrStoreUnavailable, "tx failed", err)
	}

	return removed, nil
}

// GetLikes returns the current like count for a breed.
func (r *EngagementRepository) GetLikes(ctx context.Context, catID breed.ID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `
		SELECT like_count FROM breeds WHERE id = $1
	`, catID.String()).Scan(&count)

	if IsNoRows(err) {
		return 0, breed.ErrBreedNotFound
	}
	if err != nil {
		return 0, shared.WrapError("engagement", "GetLikes", shared.ErrStoreUnavailable, "query failed", err)
	}

	return count, nil
}

// HasLike reports whether the (userID, catID) edge exists.
func (r *EngagementRepository) HasLike(ctx context.Context, catID breed.ID, userID engagement.UserID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND cat_id = $2)
	`, int64(userID), catID.String()).Scan(&exists)
	if err != nil {
		return false, shared.WrapError("engagement", "HasLike", shared.ErrStoreUnavailable, "query failed", err)
	}

	return exists, nil
}

// GetUserLikes returns the user's like history, most recent first.
func (r *EngagementRepository) GetUserLikes(ctx context.Context, userID engagement.UserID) ([]*engagement.HistoryEntry, error) {
	rows, err := r.conn.Query(ctx, `
		SELECT l.cat_id, b.name, b.image_url, l.created_at
		FROM likes l
		JOIN breeds b ON b.id = l.cat_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC, l.id DESC
	`, int64(userID))
	if err != nil {
		return nil, shared.WrapError("engagement", "GetUserLikes", shared.ErrStoreUnavailable, "query failed", err)
	}
	defer rows.Close()

	history := make([]*engagement.HistoryEntry, 0)
	for rows.Next() {
		var (
			entry engagement.HistoryEntry
			catID string
		)
		if err := rows.Scan(&catID, &entry.BreedName, &entry.ImageURL, &entry.LikedAt); err != nil {
			return nil, fmt.Errorf("failed to scan like history row: %w", err)
		}
		entry.CatID = breed.ID(catID)
		history = append(history, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("engagement", "GetUserLikes", shared.ErrStoreUnavailable, "row iteration failed", err)
	}

	return history, nil
}
