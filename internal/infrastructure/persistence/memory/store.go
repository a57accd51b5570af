// Package memory implements an in-memory store for tests and local
// development without PostgreSQL. One mutex guards catalog and ledger
// together, so the like-edge uniqueness check and the count increment
// are a single atomic operation, same as the SQL implementation.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
	"github.com/purrboard/purrboard-bot/internal/domain/leaderboard"
)

// likeKey identifies a unique (user, cat) edge.
type likeKey struct {
	userID engagement.UserID
	catID  breed.ID
}

// Store is an in-memory implementation of breed.Repository,
// engagement.Ledger and leaderboard.Repository.
type Store struct {
	mu     sync.RWMutex
	breeds map[breed.ID]*breed.Breed
	likes  map[likeKey]*engagement.Like
	seq    uint64 // insertion order, stable most-recent-first history
	order  map[likeKey]uint64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		breeds: make(map[breed.ID]*breed.Breed),
		likes:  make(map[likeKey]*engagement.Like),
		order:  make(map[likeKey]uint64),
	}
}

// Interface guards.
var (
	_ breed.Repository       = (*Store)(nil)
	_ engagement.Ledger      = (*Store)(nil)
	_ leaderboard.Repository = (*Store)(nil)
)

// ─────────────────────────────────────────────────────────────────────────────
// breed.Repository
// ─────────────────────────────────────────────────────────────────────────────

// Search performs the store-side stage of an attribute query.
// Exact matching recognizes only the known column set; an unknown
// feature matches nothing and returns an empty result, never an error.
func (s *Store) Search(_ context.Context, query breed.AttributeQuery) ([]*breed.Breed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*breed.Breed, 0)
	for _, b := range s.breeds {
		if s.matches(b, query) {
			out = append(out, b.Clone())
		}
	}
	sortByCount(out)
	return out, nil
}

func (s *Store) matches(b *breed.Breed, query breed.AttributeQuery) bool {
	switch query.Kind {
	case breed.QuerySubstring:
		return b.Temperament.Contains(query.Value)
	case breed.QueryRange:
		// Range queries fetch everything; narrowing happens post-filter.
		return true
	default:
		value, ok := exactField(b, query.Feature)
		return ok && value == query.Value
	}
}

// exactField maps a feature name to the breed column it compares against.
func exactField(b *breed.Breed, feature string) (string, bool) {
	switch feature {
	case breed.FeatureOrigin:
		return b.Origin, true
	case "name":
		return b.Name, true
	case "id":
		return b.ID.String(), true
	default:
		return "", false
	}
}

// GetByID returns a breed by ID.
func (s *Store) GetByID(_ context.Context, id breed.ID) (*breed.Breed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.breeds[id]
	if !ok {
		return nil, breed.ErrBreedNotFound
	}
	return b.Clone(), nil
}

// ListAll returns the whole catalog ordered by like count.
func (s *Store) ListAll(_ context.Context) ([]*breed.Breed, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*breed.Breed, 0, len(s.breeds))
	for _, b := range s.breeds {
		out = append(out, b.Clone())
	}
	sortByCount(out)
	return out, nil
}

// Upsert creates or updates a breed, preserving the like count of an
// existing record: the ingestion path never touches engagement state.
func (s *Store) Upsert(_ context.Context, b *breed.Breed) error {
	if err := b.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone := b.Clone()
	if existing, ok := s.breeds[b.ID]; ok {
		clone.LikeCount = existing.LikeCount
		clone.CreatedAt = existing.CreatedAt
	}
	clone.UpdatedAt = time.Now().UTC()
	s.breeds[b.ID] = clone
	return nil
}

// UpsertAll loads a batch of breeds, one Upsert per record.
func (s *Store) UpsertAll(ctx context.Context, breeds []*breed.Breed) error {
	for _, b := range breeds {
		if err := s.Upsert(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the catalog size.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.breeds), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// engagement.Ledger
// ─────────────────────────────────────────────────────────────────────────────

// AddLike creates the (userID, catID) edge if absent. Check and create
// happen under one lock, so concurrent calls for the same pair yield
// exactly one created edge and one true return.
func (s *Store) AddLike(_ context.Context, catID breed.ID, userID engagement.UserID) (bool, error) {
	like, err := engagement.NewLike(uuid.NewString(), userID, catID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.breeds[catID]
	if !ok {
		return false, breed.ErrBreedNotFound
	}

	key := likeKey{userID: userID, catID: catID}
	if _, exists := s.likes[key]; exists {
		return false, nil
	}

	s.likes[key] = like
	s.seq++
	s.order[key] = s.seq
	b.LikeCount++
	return true, nil
}

// RemoveLike deletes the edge if present and decrements the count.
func (s *Store) RemoveLike(_ context.Context, catID breed.ID, userID engagement.UserID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := likeKey{userID: userID, catID: catID}
	if _, exists := s.likes[key]; !exists {
		return false, nil
	}

	delete(s.likes, key)
	delete(s.order, key)
	if b, ok := s.breeds[catID]; ok && b.LikeCount > 0 {
		b.LikeCount--
	}
	return true, nil
}

// GetLikes returns the current like count for a breed.
func (s *Store) GetLikes(_ context.Context, catID breed.ID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.breeds[catID]
	if !ok {
		return 0, breed.ErrBreedNotFound
	}
	return b.LikeCount, nil
}

// HasLike reports whether the edge exists.
func (s *Store) HasLike(_ context.Context, catID breed.ID, userID engagement.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.likes[likeKey{userID: userID, catID: catID}]
	return exists, nil
}

// GetUserLikes returns the user's like history, most recent first.
func (s *Store) GetUserLikes(_ context.Context, userID engagement.UserID) ([]*engagement.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type ordered struct {
		entry *engagement.HistoryEntry
		seq   uint64
	}

	items := make([]ordered, 0)
	for key, like := range s.likes {
		if key.userID != userID {
			continue
		}
		entry := &engagement.HistoryEntry{
			CatID:   like.CatID,
			LikedAt: like.CreatedAt,
		}
		if b, ok := s.breeds[like.CatID]; ok {
			entry.BreedName = b.Name
			entry.ImageURL = b.ImageURL
		}
		items = append(items, ordered{entry: entry, seq: s.order[key]})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].seq > items[j].seq
	})

	out := make([]*engagement.HistoryEntry, len(items))
	for i, item := range items {
		out[i] = item.entry
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// leaderboard.Repository
// ─────────────────────────────────────────────────────────────────────────────

// GetTop returns the top-N breeds by like count.
func (s *Store) GetTop(ctx context.Context, limit int) ([]*leaderboard.Entry, error) {
	if limit <= 0 {
		return []*leaderboard.Entry{}, nil
	}

	breeds, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return leaderboard.BuildRanking(breeds).Top(limit), nil
}

// sortByCount orders breeds by like count descending, ID ascending.
func sortByCount(rows []*breed.Breed) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LikeCount != rows[j].LikeCount {
			return rows[i].LikeCount > rows[j].LikeCount
		}
		return strings.Compare(rows[i].ID.String(), rows[j].ID.String()) < 0
	})
}
