// Package telegram implements the Telegram Bot interface for Purrboard.
// This package is the entry point for all Telegram interactions, handling
// updates, routing them to appropriate handlers, and managing the bot lifecycle.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/purrboard/purrboard-bot/internal/application/command"
	"github.com/purrboard/purrboard-bot/internal/application/query"
	"github.com/purrboard/purrboard-bot/internal/infrastructure/external/telegram"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/handler"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/handler/callback"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/middleware"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOT CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// BotConfig contains configuration for the Telegram bot.
type BotConfig struct {
	// Token is the Telegram Bot API token.
	Token string

	// Mode is the update receiving mode: "polling" or "webhook".
	Mode string

	// WebhookURL is the URL for webhook mode (required if Mode is "webhook").
	WebhookURL string

	// PollingTimeout is the timeout for long polling (in seconds).
	PollingTimeout int

	// Debug enables debug logging.
	Debug bool

	// Logger for structured logging.
	Logger *slog.Logger

	// AllowedUpdates specifies which update types to receive.
	AllowedUpdates []string

	// MaxConcurrentUpdates limits concurrent update processing.
	MaxConcurrentUpdates int

	// GracefulShutdownTimeout is the timeout for graceful shutdown.
	GracefulShutdownTimeout time.Duration
}

// DefaultBotConfig returns sensible defaults.
func DefaultBotConfig(token string) BotConfig {
	return BotConfig{
		Token:                   token,
		Mode:                    "polling",
		PollingTimeout:          30,
		Debug:                   false,
		Logger:                  slog.Default(),
		AllowedUpdates:          []string{"message", "callback_query"},
		MaxConcurrentUpdates:    100,
		GracefulShutdownTimeout: 30 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BOT DEPENDENCIES
// Aggregates all dependencies needed by handlers.
// ══════════════════════════════════════════════════════════════════════════════

// BotDependencies contains all dependencies for the bot handlers.
type BotDependencies struct {
	// Commands
	AddLikeCmd    *command.AddLikeHandler
	RemoveLikeCmd *command.RemoveLikeHandler

	// Queries
	SearchBreedsQuery *query.SearchBreedsHandler
	LeaderboardQuery  *query.GetLeaderboardHandler
	RandomCatQuery    *query.GetRandomCatHandler
	UserLikesQuery    *query.GetUserLikesHandler
}

// ══════════════════════════════════════════════════════════════════════════════
// BOT
// Main bot structure that orchestrates Telegram interactions.
// ══════════════════════════════════════════════════════════════════════════════

// Bot is the main Telegram bot controller.
type Bot struct {
	config BotConfig
	client *telegram.Client
	router *Router
	logger *slog.Logger

	// Middleware chain
	rateLimiter        *middleware.RateLimiter
	recoveryMiddleware *middleware.RecoveryMiddleware

	// Lifecycle management
	running   bool
	runningMu sync.RWMutex
	stopCh    chan struct{}
	updateSem chan struct{} // Semaphore for concurrent update limiting
	wg        sync.WaitGroup

	// Statistics
	stats *BotStats
}

// BotStats holds runtime statistics.
type BotStats struct {
	mu              sync.RWMutex
	StartedAt       time.Time
	UpdatesReceived int64
	UpdatesHandled  int64
	ErrorsCount     int64
	CommandsCount   map[string]int64
}

// NewBot creates a new Telegram bot with all dependencies.
func NewBot(config BotConfig, deps BotDependencies) (*Bot, error) {
	if config.Token == "" {
		return nil, errors.New("telegram token is required")
	}

	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	// Create Telegram client
	clientConfig := telegram.DefaultClientConfig(config.Token)
	clientConfig.Logger = config.Logger
	clientConfig.Debug = config.Debug
	client := telegram.NewClient(clientConfig)

	// Create presenters
	keyboards := presenter.NewKeyboardBuilder()
	cardPresenter := presenter.NewBreedCardPresenter()
	leaderboardPresenter := presenter.NewLeaderboardPresenter()

	// Create handlers
	startHandler := handler.NewStartHandler()
	helpHandler := handler.NewHelpHandler()
	catHandler := handler.NewCatHandler(deps.RandomCatQuery, cardPresenter)
	breedHandler := handler.NewBreedHandler(deps.SearchBreedsQuery, cardPresenter)
	topHandler := handler.NewTopHandler(deps.LeaderboardQuery, leaderboardPresenter)
	myLikesHandler := handler.NewMyLikesHandler(deps.UserLikesQuery, cardPresenter)

	// Create callback handlers
	likeCallback := callback.NewLikeHandler(deps.AddLikeCmd, keyboards)
	unlikeCallback := callback.NewUnlikeHandler(deps.RemoveLikeCmd, keyboards)

	// Create middleware
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())
	recoveryMiddleware := middleware.NewRecoveryMiddleware(middleware.DefaultRecoveryConfig())

	// Create router with all handlers
	router := NewRouter(RouterConfig{
		Logger: config.Logger,
		Debug:  config.Debug,
	})

	// Register command handlers
	router.RegisterCommand("start", startHandler)
	router.RegisterCommand("help", helpHandler)
	router.RegisterCommand("cat", catHandler)
	router.RegisterCommand("breed", breedHandler)
	router.RegisterCommand("top", topHandler)
	router.RegisterCommand("mylikes", myLikesHandler)

	// Register callback handlers
	router.RegisterCallbackPrefix(presenter.CallbackPrefixLike, likeCallback)
	router.RegisterCallbackPrefix(presenter.CallbackPrefixUnlike, unlikeCallback)
	router.RegisterCallbackPrefix(presenter.CallbackPrefixCat, router.createCatCallbackHandler(catHandler))
	router.RegisterCallbackPrefix(presenter.CallbackPrefixTop, router.createTopCallbackHandler(topHandler))

	bot := &Bot{
		config:             config,
		client:             client,
		router:             router,
		logger:             config.Logger,
		rateLimiter:        rateLimiter,
		recoveryMiddleware: recoveryMiddleware,
		stopCh:             make(chan struct{}),
		updateSem:          make(chan struct{}, config.MaxConcurrentUpdates),
		stats: &BotStats{
			CommandsCount: make(map[string]int64),
		},
	}

	return bot, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE MANAGEMENT
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the bot and begins receiving updates.
func (b *Bot) Start(ctx context.Context) error {
	b.runningMu.Lock()
	if b.running {
		b.runningMu.Unlock()
		return errors.New("bot is already running")
	}
	b.running = true
	b.stats.StartedAt = time.Now()
	b.runningMu.Unlock()

	b.logger.Info("starting telegram bot",
		"mode", b.config.Mode,
		"debug", b.config.Debug,
	)

	// Verify bot token with getMe
	if err := b.verifyToken(ctx); err != nil {
		return fmt.Errorf("failed to verify bot token: %w", err)
	}

	switch b.config.Mode {
	case "polling":
		return b.startPolling(ctx)
	case "webhook":
		return b.startWebhook(ctx)
	default:
		return fmt.Errorf("unknown bot mode: %s", b.config.Mode)
	}
}

// Stop gracefully stops the bot.
func (b *Bot) Stop(ctx context.Context) error {
	b.runningMu.Lock()
	if !b.running {
		b.runningMu.Unlock()
		return nil
	}
	b.running = false
	b.runningMu.Unlock()

	b.logger.Info("stopping telegram bot")

	close(b.stopCh)

	// Wait for in-flight handlers with timeout
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(b.config.GracefulShutdownTimeout):
		b.logger.Warn("graceful shutdown timeout exceeded")
	case <-ctx.Done():
		b.logger.Warn("context cancelled during shutdown")
		return ctx.Err()
	}

	return nil
}

// IsRunning returns whether the bot is currently running.
func (b *Bot) IsRunning() bool {
	b.runningMu.RLock()
	defer b.runningMu.RUnlock()
	return b.running
}

// verifyToken verifies the bot token by calling getMe.
func (b *Bot) verifyToken(ctx context.Context) error {
	me, err := b.client.GetMe(ctx)
	if err != nil {
		return err
	}

	b.logger.Info("bot verified",
		"id", me.ID,
		"username", me.Username,
		"first_name", me.FirstName,
	)

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// POLLING MODE
// ══════════════════════════════════════════════════════════════════════════════

// startPolling starts long polling for updates.
func (b *Bot) startPolling(ctx context.Context) error {
	b.logger.Info("starting long polling")

	return b.client.StartPolling(ctx, func(ctx context.Context, update *telegram.Update) error {
		return b.handleUpdate(ctx, update)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// WEBHOOK MODE
// ══════════════════════════════════════════════════════════════════════════════

// startWebhook registers the webhook with Telegram.
func (b *Bot) startWebhook(ctx context.Context) error {
	if b.config.WebhookURL == "" {
		return errors.New("webhook URL is required for webhook mode")
	}

	b.logger.Info("registering webhook", "url", b.config.WebhookURL)

	if err := b.client.SetWebhook(ctx, b.config.WebhookURL, 0, b.config.AllowedUpdates); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	b.logger.Info("webhook mode configured - route incoming updates to HandleUpdate")
	return nil
}

// HandleUpdate processes a single update delivered by an external webhook server.
func (b *Bot) HandleUpdate(ctx context.Context, update *telegram.Update) error {
	return b.handleUpdate(ctx, update)
}

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE HANDLING
// ══════════════════════════════════════════════════════════════════════════════

// handleUpdate processes a single Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update *telegram.Update) error {
	// Acquire semaphore slot
	select {
	case b.updateSem <- struct{}{}:
		defer func() { <-b.updateSem }()
	case <-ctx.Done():
		return ctx.Err()
	}

	b.wg.Add(1)
	defer b.wg.Done()

	b.stats.mu.Lock()
	b.stats.UpdatesReceived++
	b.stats.mu.Unlock()

	startTime := time.Now()

	var err error
	switch {
	case update.Message != nil:
		err = b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.handleCallbackQuery(ctx, update.CallbackQuery)
	default:
		// Unknown update type - ignore
		return nil
	}

	duration := time.Since(startTime)

	if err != nil {
		b.stats.mu.Lock()
		b.stats.ErrorsCount++
		b.stats.mu.Unlock()
		b.logger.Error("failed to handle update",
			"update_id", update.UpdateID,
			"error", err,
			"duration", duration,
		)
	} else {
		b.stats.mu.Lock()
		b.stats.UpdatesHandled++
		b.stats.mu.Unlock()
	}

	return err
}

// handleMessage processes a Telegram message.
func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) error {
	if msg == nil || msg.From == nil {
		return nil
	}

	telegramID := msg.From.ID
	chatID := msg.Chat.ID

	command := telegram.ExtractCommand(msg)
	args := telegram.ExtractCommandArgs(msg)

	if command == "" {
		// Обычный текст без команды бот не обрабатывает.
		return nil
	}

	return b.handleCommand(ctx, telegramID, chatID, int(msg.MessageID), command, args, msg)
}

// handleCommand processes a bot command.
func (b *Bot) handleCommand(
	ctx context.Context,
	telegramID, chatID int64,
	messageID int,
	command, args string,
	msg *telegram.Message,
) error {
	b.stats.mu.Lock()
	b.stats.CommandsCount[command]++
	b.stats.mu.Unlock()

	// Rate limiting
	rateLimitResult := b.rateLimiter.Check(ctx, telegramID)
	if !rateLimitResult.Allowed {
		return b.sendRateLimitMessage(ctx, chatID, rateLimitResult.RetryAfter)
	}

	// Recovery wrapper
	recoveryResult := b.recoveryMiddleware.RecoverWithHandler(ctx, telegramID, command, func() error {
		return b.router.HandleCommand(ctx, command, CommandContext{
			TelegramID: telegramID,
			ChatID:     chatID,
			MessageID:  messageID,
			Args:       args,
			Message:    msg,
			Client:     b.client,
		})
	})

	if recoveryResult.Recovered {
		b.logger.Error("panic recovered in command handler",
			"command", command,
			"telegram_id", telegramID,
		)
		_, err := b.client.SendHTML(ctx, chatID, recoveryResult.UserMessage)
		return err
	}

	return nil
}

// handleCallbackQuery processes a callback query from inline keyboard.
func (b *Bot) handleCallbackQuery(ctx context.Context, cq *telegram.CallbackQuery) error {
	if cq == nil || cq.From == nil {
		return nil
	}

	telegramID := cq.From.ID
	chatID := int64(0)
	messageID := int64(0)

	if cq.Message != nil {
		chatID = cq.Message.Chat.ID
		messageID = cq.Message.MessageID
	}

	// Rate limiting for callbacks
	rateLimitResult := b.rateLimiter.Check(ctx, telegramID)
	if !rateLimitResult.Allowed {
		_ = b.client.AnswerCallbackQuery(ctx, cq.ID, "⏳ Слишком быстро! Подожди немного.", true)
		return nil
	}

	// Recovery wrapper
	recoveryResult := b.recoveryMiddleware.RecoverWithHandler(ctx, telegramID, "callback:"+cq.Data, func() error {
		return b.router.HandleCallback(ctx, cq.Data, CallbackContext{
			TelegramID: telegramID,
			ChatID:     chatID,
			MessageID:  int(messageID),
			QueryID:    cq.ID,
			Data:       cq.Data,
			Query:      cq,
			Client:     b.client,
		})
	})

	if recoveryResult.Recovered {
		b.logger.Error("panic recovered in callback handler",
			"data", cq.Data,
			"telegram_id", telegramID,
		)
		_ = b.client.AnswerCallbackQuery(ctx, cq.ID, "", false)
		if chatID > 0 {
			_, _ = b.client.SendHTML(ctx, chatID, recoveryResult.UserMessage)
		}
	}

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

// sendRateLimitMessage sends a rate limit warning message.
func (b *Bot) sendRateLimitMessage(ctx context.Context, chatID int64, waitTime time.Duration) error {
	text := fmt.Sprintf("⏳ Слишком много запросов!\nПопробуй через %d секунд.", int(waitTime.Seconds()))
	_, err := b.client.SendHTML(ctx, chatID, text)
	return err
}

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// GetStats returns current bot statistics.
func (b *Bot) GetStats() map[string]interface{} {
	b.stats.mu.RLock()
	defer b.stats.mu.RUnlock()

	uptime := time.Since(b.stats.StartedAt)

	commandsCopy := make(map[string]int64)
	for k, v := range b.stats.CommandsCount {
		commandsCopy[k] = v
	}

	return map[string]interface{}{
		"started_at":       b.stats.StartedAt,
		"uptime":           uptime.String(),
		"updates_received": b.stats.UpdatesReceived,
		"updates_handled":  b.stats.UpdatesHandled,
		"errors_count":     b.stats.ErrorsCount,
		"commands_count":   commandsCopy,
		"running":          b.IsRunning(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT ACCESS
// ══════════════════════════════════════════════════════════════════════════════

// Client returns the Telegram client for direct API access.
// Use sparingly - prefer going through handlers.
func (b *Bot) Client() *telegram.Client {
	return b.client
}

// Router returns the router for handler registration.
func (b *Bot) Router() *Router {
	return b.router
}
