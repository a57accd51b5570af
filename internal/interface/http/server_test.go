package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purrboard/purrboard-bot/internal/application/query"
	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/engagement"
	"github.com/purrboard/purrboard-bot/internal/domain/shared"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/persistence/memory"
)

// failingLedger simulates a store outage on every ledger operation.
type failingLedger struct{}

func (failingLedger) AddLike(context.Context, breed.ID, engagement.UserID) (bool, error) {
	return false, shared.ErrStoreUnavailable
}

func (failingLedger) RemoveLike(context.Context, breed.ID, engagement.UserID) (bool, error) {
	return false, shared.ErrStoreUnavailable
}

func (failingLedger) GetLikes(context.Context, breed.ID) (int, error) {
	return 0, shared.WrapError("engagement", "GetLikes", shared.ErrStoreUnavailable, "query failed", nil)
}

func (failingLedger) HasLike(context.Context, breed.ID, engagement.UserID) (bool, error) {
	return false, shared.ErrStoreUnavailable
}

func (failingLedger) GetUserLikes(context.Context, engagement.UserID) ([]*engagement.HistoryEntry, error) {
	return nil, shared.ErrStoreUnavailable
}

func newTestServer(deps Dependencies) *Server {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	return NewServer(cfg, deps)
}

func serve(s *Server, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, r)
	return rec
}

func TestHandleGetBreedLikes(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Upsert(ctx, &breed.Breed{ID: "beng", Name: "Bengal"}))
	_, err := store.AddLike(ctx, "beng", engagement.UserID(100))
	require.NoError(t, err)

	s := newTestServer(Dependencies{GetBreedLikesHandler: query.NewGetBreedLikesHandler(store)})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/breeds/beng/likes", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"cat_id":"beng"`)
	assert.Contains(t, rec.Body.String(), `"likes":1`)
}

func TestHandleGetBreedLikes_UnknownBreed(t *testing.T) {
	s := newTestServer(Dependencies{GetBreedLikesHandler: query.NewGetBreedLikesHandler(memory.NewStore())})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/breeds/nope/likes", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_found")
}

func TestHandleGetBreedLikes_StoreUnavailable(t *testing.T) {
	s := newTestServer(Dependencies{GetBreedLikesHandler: query.NewGetBreedLikesHandler(failingLedger{})})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/breeds/beng/likes", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "store_unavailable")
}

func TestHandleGetBreedLikes_NotConfigured(t *testing.T) {
	s := newTestServer(Dependencies{})

	rec := serve(s, httptest.NewRequest(http.MethodGet, "/api/v1/breeds/beng/likes", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestTelegramWebhook_TokenValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	cfg.WebhookSecret = "s3cret"
	s := NewServer(cfg, Dependencies{})

	rec := serve(s, httptest.NewRequest(http.MethodPost, "/webhook/telegram/wrong", strings.NewReader("{}")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Missing token on the bare route fails the same way.
	rec = serve(s, httptest.NewRequest(http.MethodPost, "/webhook/telegram", strings.NewReader("{}")))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(s, httptest.NewRequest(http.MethodPost, "/webhook/telegram/s3cret", strings.NewReader("{}")))
	assert.Equal(t, http.StatusOK, rec.Code)
}
