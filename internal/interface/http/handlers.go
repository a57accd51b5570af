// Package http implements REST API and Webhook endpoints for Purrboard Bot.
package http

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/purrboard/purrboard-bot/internal/application/query"
	"github.com/purrboard/purrboard-bot/internal/domain/breed"
	"github.com/purrboard/purrboard-bot/internal/domain/shared"
	"github.com/purrboard/purrboard-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "Purrboard Bot API",
		"version":     "v1",
		"description": "REST API for Purrboard - cat breed catalog and like leaderboard",
		"endpoints": map[string]string{
			"health":      "/health",
			"search":      "/api/v1/breeds/search",
			"breed_likes": "/api/v1/breeds/{id}/likes",
			"leaderboard": "/api/v1/leaderboard",
			"user_likes":  "/api/v1/users/{id}/likes",
			"stats":       "/api/v1/stats",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleMetrics handles the metrics endpoint.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := map[string]interface{}{
		"uptime_seconds": s.Uptime().Seconds(),
		"running":        s.IsRunning(),
	}

	writeJSON(w, http.StatusOK, metrics)
}

// ══════════════════════════════════════════════════════════════════════════════
// BREED SEARCH HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleSearchBreeds handles GET /api/v1/breeds/search
func (s *Server) handleSearchBreeds(w http.ResponseWriter, r *http.Request) {
	if s.deps.SearchBreedsHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Search handler not configured")
		return
	}

	value := getQueryParam(r, "value", "")
	if value == "" {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "value query parameter is required")
		return
	}

	q := query.SearchBreedsQuery{
		Feature: getQueryParam(r, "feature", "origin"),
		Value:   value,
	}

	result, err := s.deps.SearchBreedsHandler.Handle(r.Context(), q)
	if err != nil {
		s.logger.Error("failed to search breeds",
			logger.Err(err),
			logger.String("feature", q.Feature),
			logger.String("value", q.Value),
		)
		if errors.Is(err, shared.ErrStoreUnavailable) {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", "Breed catalog temporarily unavailable")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to search breeds")
		return
	}

	meta := &ResponseMeta{
		TotalCount: len(result.Breeds),
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// ══════════════════════════════════════════════════════════════════════════════
// BREED LIKES HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetBreedLikes handles GET /api/v1/breeds/{id}/likes
func (s *Server) handleGetBreedLikes(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetBreedLikesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Breed likes handler not configured")
		return
	}

	q := query.GetBreedLikesQuery{CatID: r.PathValue("id")}

	result, err := s.deps.GetBreedLikesHandler.Handle(r.Context(), q)
	if err != nil {
		if errors.Is(err, breed.ErrInvalidID) {
			writeJSONError(w, http.StatusBadRequest, "invalid_request", "Breed ID must not be empty")
			return
		}
		if errors.Is(err, breed.ErrBreedNotFound) {
			writeJSONError(w, http.StatusNotFound, "not_found", "Breed not found")
			return
		}
		s.logger.Error("failed to get breed likes", logger.Err(err), logger.String("cat_id", q.CatID))
		if errors.Is(err, shared.ErrStoreUnavailable) {
			writeJSONError(w, http.StatusServiceUnavailable, "store_unavailable", "Like ledger temporarily unavailable")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to get breed likes")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard handles GET /api/v1/leaderboard
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetLeaderboardHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "Leaderboard handler not configured")
		return
	}

	q := query.GetLeaderboardQuery{
		Limit: getQueryParamInt(r, "limit", query.DefaultLeaderboardLimit),
	}

	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
	if err != nil {
		s.logger.Error("failed to get leaderboard", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to get leaderboard")
		return
	}

	meta := &ResponseMeta{
		TotalCount: len(result.Entries),
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// ══════════════════════════════════════════════════════════════════════════════
// USER LIKES HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetUserLikes handles GET /api/v1/users/{id}/likes
func (s *Server) handleGetUserLikes(w http.ResponseWriter, r *http.Request) {
	if s.deps.GetUserLikesHandler == nil {
		writeJSONError(w, http.StatusNotImplemented, "not_implemented", "User likes handler not configured")
		return
	}

	userID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || userID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "User ID must be a positive integer")
		return
	}

	q := query.GetUserLikesQuery{UserID: userID}

	result, err := s.deps.GetUserLikesHandler.Handle(r.Context(), q)
	if err != nil {
		s.logger.Error("failed to get user likes", logger.Err(err), logger.Int64("user_id", userID))
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "Failed to get user likes")
		return
	}

	meta := &ResponseMeta{
		TotalCount: len(result.Likes),
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, meta)
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// handleGetStats handles GET /api/v1/stats
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"server": map[string]interface{}{
			"uptime":  s.Uptime().String(),
			"running": s.IsRunning(),
		},
	}

	// Add leaderboard stats if handler is available
	if s.deps.GetLeaderboardHandler != nil {
		q := query.GetLeaderboardQuery{Limit: 1}
		result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), q)
		if err == nil && len(result.Entries) > 0 {
			top := result.Entries[0]
			stats["leaderboard"] = map[string]interface{}{
				"top_cat_id": top.CatID,
				"top_breed":  top.DisplayName,
				"top_likes":  top.Count,
				"from_cache": result.FromCache,
			}
		}
	}

	writeJSON(w, http.StatusOK, stats)
}

// ══════════════════════════════════════════════════════════════════════════════
// WEBHOOK HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleTelegramWebhook handles POST /webhook/telegram
func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	s.processTelegramWebhook(w, r, "")
}

// handleTelegramWebhookWithToken handles POST /webhook/telegram/{token}
func (s *Server) handleTelegramWebhookWithToken(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	s.processTelegramWebhook(w, r, token)
}

// processTelegramWebhook is the internal implementation for webhook processing.
func (s *Server) processTelegramWebhook(w http.ResponseWriter, r *http.Request, token string) {
	// Validate token if configured. Constant-time comparison keeps the
	// secret from leaking through response timing.
	if s.config.WebhookSecret != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(s.config.WebhookSecret)) != 1 {
		s.logger.Warn("invalid webhook token", logger.String("ip", getClientIP(r)))
		writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid webhook token")
		return
	}

	// Read body
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20)) // 1MB limit
	if err != nil {
		s.logger.Error("failed to read webhook body", logger.Err(err))
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Failed to read request body")
		return
	}
	defer r.Body.Close()

	// Delegate to webhook handler if configured
	if s.deps.WebhookHandler != nil {
		if err := s.deps.WebhookHandler.HandleTelegramUpdate(r.Context(), body); err != nil {
			s.logger.Error("failed to handle telegram update", logger.Err(err))
			// Still return 200 to Telegram to avoid retries
		}
	}

	// Always return 200 to acknowledge receipt
	writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
}
