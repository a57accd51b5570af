// Package postgres implements the PostgreSQL persistence layer.
package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE BREEDS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create breeds catalog
-- Version: 001

-- Breed catalog mirrored from the upstream cat API. The like_count column
-- is denormalized from the likes table and maintained transactionally.
CREATE TABLE IF NOT EXISTS breeds (
    id VARCHAR(20) PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    origin VARCHAR(100) NOT NULL DEFAULT '',
    temperament TEXT NOT NULL DEFAULT '',
    life_span VARCHAR(30) NOT NULL DEFAULT '',
    weight_metric VARCHAR(30) NOT NULL DEFAULT '',
    weight_imperial VARCHAR(30) NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    wikipedia_url TEXT NOT NULL DEFAULT '',
    image_url TEXT NOT NULL DEFAULT '',
    like_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_like_count CHECK (like_count >= 0)
);

-- Indexes for attribute search
CREATE INDEX IF NOT EXISTS idx_breeds_origin ON breeds(origin);
CREATE INDEX IF NOT EXISTS idx_breeds_name ON breeds(name);

-- Composite index for popularity ranking: count descending, id ascending
CREATE INDEX IF NOT EXISTS idx_breeds_like_count ON breeds(like_count DESC, id ASC);
`

const migration001Down = `
DROP TABLE IF EXISTS breeds;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE LIKES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create likes ledger
-- Version: 002

-- One row per (user, breed) edge. The UNIQUE constraint is the source of
-- truth for at-most-one-like-per-pair; write paths rely on
-- ON CONFLICT DO NOTHING against it.
CREATE TABLE IF NOT EXISTS likes (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id BIGINT NOT NULL,
    cat_id VARCHAR(20) NOT NULL REFERENCES breeds(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT likes_user_cat_unique UNIQUE (user_id, cat_id),
    CONSTRAINT valid_user_id CHECK (user_id > 0)
);

-- User history queries read most recent first
CREATE INDEX IF NOT EXISTS idx_likes_user_created ON likes(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_likes_cat_id ON likes(cat_id);
`

const migration002Down = `
DROP TABLE IF EXISTS likes;
`
