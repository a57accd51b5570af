// Package handlers contains HTTP handler interfaces and implementations.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/purrboard/purrboard-bot/internal/infrastructure/external/telegram"
)

// ══════════════════════════════════════════════════════════════════════════════
// TELEGRAM WEBHOOK ADAPTER
// Bridges raw webhook payloads to the bot's update pipeline. All routing
// and middleware live in the bot; this adapter only parses and delegates.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateFunc processes a parsed Telegram update.
type UpdateFunc func(ctx context.Context, update *telegram.Update) error

// TelegramWebhookAdapter implements WebhookHandler by delegating
// parsed updates to the bot.
type TelegramWebhookAdapter struct {
	handle       UpdateFunc
	errorHandler func(error)
	mu           sync.RWMutex
}

// NewTelegramWebhookAdapter creates an adapter around the bot's update handler.
func NewTelegramWebhookAdapter(handle UpdateFunc) *TelegramWebhookAdapter {
	return &TelegramWebhookAdapter{handle: handle}
}

// SetErrorHandler sets an optional error callback.
func (a *TelegramWebhookAdapter) SetErrorHandler(handler func(error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errorHandler = handler
}

// HandleTelegramUpdate parses a webhook payload and delegates it.
func (a *TelegramWebhookAdapter) HandleTelegramUpdate(ctx context.Context, payload []byte) error {
	var update telegram.Update
	if err := json.Unmarshal(payload, &update); err != nil {
		return fmt.Errorf("failed to parse update: %w", err)
	}

	err := a.handle(ctx, &update)
	if err != nil {
		a.mu.RLock()
		errorHandler := a.errorHandler
		a.mu.RUnlock()
		if errorHandler != nil {
			errorHandler(err)
		}
	}
	return err
}

// ══════════════════════════════════════════════════════════════════════════════
// WEBHOOK DISPATCHER
// ══════════════════════════════════════════════════════════════════════════════

// WebhookDispatcher dispatches webhooks to multiple handlers.
type WebhookDispatcher struct {
	mu       sync.RWMutex
	handlers map[string]WebhookHandler
}

// NewWebhookDispatcher creates a new webhook dispatcher.
func NewWebhookDispatcher() *WebhookDispatcher {
	return &WebhookDispatcher{
		handlers: make(map[string]WebhookHandler),
	}
}

// Register registers a webhook handler for a specific type.
func (d *WebhookDispatcher) Register(webhookType string, handler WebhookHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[webhookType] = handler
}

// Dispatch dispatches a webhook to the appropriate handler.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, webhookType string, payload []byte) error {
	d.mu.RLock()
	handler, ok := d.handlers[webhookType]
	d.mu.RUnlock()

	if !ok {
		return fmt.Errorf("no handler registered for webhook type: %s", webhookType)
	}

	return handler.HandleTelegramUpdate(ctx, payload)
}

// HandleTelegramUpdate implements WebhookHandler by dispatching to "telegram" handler.
func (d *WebhookDispatcher) HandleTelegramUpdate(ctx context.Context, payload []byte) error {
	return d.Dispatch(ctx, "telegram", payload)
}
