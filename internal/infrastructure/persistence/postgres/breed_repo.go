// Package postgres implements the PostgreSQL persistence layer.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// BREED REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// BreedRepository implements breed.Repository for PostgreSQL.
type BreedRepository struct {
	conn *Connection
}

// NewBreedRepository creates a new BreedRepository.
func NewBreedRepository(conn *Connection) *BreedRepository {
	return &BreedRepository{conn: conn}
}

var _ breed.Repository = (*BreedRepository)(nil)

const breedColumns = `
	id, name, origin, temperament, life_span,
	weight_metric, weight_imperial, description,
	wikipedia_url, image_url, like_count, created_at, updated_at
`

// Results are always ordered for deterministic ranking: count descending,
// identifier ascending on ties.
const breedOrder = ` ORDER BY like_count DESC, id ASC`

// exactColumns maps exact-match features to breed columns. An exact query
// against a feature outside this set matches nothing: the fallback path for
// unknown attributes must yield an empty result, never an SQL error.
var exactColumns = map[string]string{
	breed.FeatureOrigin: "origin",
	"name":              "name",
	"id":                "id",
}

// ─────────────────────────────────────────────────────────────────────────────
// SEARCH
// ─────────────────────────────────────────────────────────────────────────────

// Search performs the store-side stage of an attribute query.
// Exact and substring queries filter in SQL; range queries return the whole
// catalog and leave narrowing to the domain filter.
func (r *BreedRepository) Search(ctx context.Context, query breed.AttributeQuery) ([]*breed.Breed, error) {
	var (
		sql  string
		args []interface{}
	)

	switch query.Kind {
	case breed.QuerySubstring:
		sql = `SELECT ` + breedColumns + ` FROM breeds WHERE temperament ILIKE '%' || $1 || '%'` + breedOrder
		args = []interface{}{query.Value}

	case breed.QueryRange:
		sql = `SELECT ` + breedColumns + ` FROM breeds` + breedOrder

	default:
		column, ok := exactColumns[query.Feature]
		if !ok {
			return []*breed.Breed{}, nil
		}
		sql = `SELECT ` + breedColumns + ` FROM breeds WHERE ` + column + ` = $1` + breedOrder
		args = []interface{}{query.Value}
	}

	rows, err := r.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, shared.WrapError("breed", "Search", shared.ErrStoreUnavailable, "query failed", err)
	}
	defer rows.Close()

	return scanBreeds(rows)
}

// GetByID returns a breed by ID.
func (r *BreedRepository) GetByID(ctx context.Context, id breed.ID) (*breed.Breed, error) {
	row := r.conn.QueryRow(ctx, `SELECT `+breedColumns+` FROM breeds WHERE id = $1`, id.String())

	b, err := scanBreed(row)
	if IsNoRows(err) {
		return nil, breed.ErrBreedNotFound
	}
	if err != nil {
		return nil, shared.WrapError("breed", "GetByID", shared.ErrStoreUnavailable, "query failed", err)
	}

	return b, nil
}

// ListAll returns the whole catalog ordered by like count.
func (r *BreedRepository) ListAll(ctx context.Context) ([]*breed.Breed, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+breedColumns+` FROM breeds`+breedOrder)
	if err != nil {
		return nil, shared.WrapError("breed", "ListAll", shared.ErrStoreUnavailable, "query failed", err)
	}
	defer rows.Close()

	return scanBreeds(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// INGESTION
// ─────────────────────────────────────────────────────────────────────────────

const upsertBreedSQL = `
	INSERT INTO breeds (
		id, name, origin, temperament, life_span,
		weight_metric, weight_imperial, description,
		wikipedia_url, image_url
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		origin = EXCLUDED.origin,
		temperament = EXCLUDED.temperament,
		life_span = EXCLUDED.life_span,
		weight_metric = EXCLUDED.weight_metric,
		weight_imperial = EXCLUDED.weight_imperial,
		description = EXCLUDED.description,
		wikipedia_url = EXCLUDED.wikipedia_url,
		image_url = EXCLUDED.image_url,
		updated_at = NOW()
`

// Upsert creates or updates a breed. The statement never touches like_count:
// catalog ingestion must not clobber engagement state.
func (r *BreedRepository) Upsert(ctx context.Context, b *breed.Breed) error {
	if err := b.Validate(); err != nil {
		return err
	}

	_, err := r.conn.Exec(ctx, upsertBreedSQL, upsertArgs(b)...)
	if err != nil {
		return shared.WrapError("breed", "Upsert", shared.ErrStoreUnavailable, "exec failed", err)
	}

	return nil
}

// UpsertAll loads a batch of breeds in one round trip.
func (r *BreedRepository) UpsertAll(ctx context.Context, breeds []*breed.Breed) error {
	if len(breeds) == 0 {
		return nil
	}

	for _, b := range breeds {
		if err := b.Validate(); err != nil {
			return err
		}
	}

	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, b := range breeds {
			batch.Queue(upsertBreedSQL, upsertArgs(b)...)
		}

		br := tx.SendBatch(ctx, batch)
		defer br.Close()

		for range breeds {
			if _, err := br.Exec(); err != nil {
				return shared.WrapError("breed", "UpsertAll", shared.ErrStoreUnavailable, "batch exec failed", err)
			}
		}

		return nil
	})
}

// Count returns the catalog size.
func (r *BreedRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM breeds`).Scan(&count)
	if err != nil {
		return 0, shared.WrapError("breed", "Count", shared.ErrStoreUnavailable, "query failed", err)
	}

	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SCANNING
// ─────────────────────────────────────────────────────────────────────────────

func upsertArgs(b *breed.Breed) []interface{} {
	return []interface{}{
		b.ID.String(),
		b.Name,
		b.Origin,
		string(b.Temperament),
		b.LifeSpan,
		b.WeightMetric,
		b.WeightImperial,
		b.Description,
		b.WikipediaURL,
		b.ImageURL,
	}
}

func scanBreed(row pgx.Row) (*breed.Breed, error) {
	var (
		b           breed.Breed
		id          string
		temperament string
	)

	err := row.Scan(
		&id,
		&b.Name,
		&b.Origin,
		&temperament,
		&b.LifeSpan,
		&b.WeightMetric,
		&b.WeightImperial,
		&b.Description,
		&b.WikipediaURL,
		&b.ImageURL,
		&b.LikeCount,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.ID = breed.ID(id)
	b.Temperament = breed.Temperament(temperament)
	return &b, nil
}

func scanBreeds(rows pgx.Rows) ([]*breed.Breed, error) {
	breeds := make([]*breed.Breed, 0)
	for rows.Next() {
		b, err := scanBreed(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan breed row: %w", err)
		}
		breeds = append(breeds, b)
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("breed", "Scan", shared.ErrStoreUnavailable, "row iteration failed", err)
	}

	return breeds, nil
}
