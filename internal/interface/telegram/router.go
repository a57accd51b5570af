// Package telegram implements the Telegram Bot interface for Purrboard.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/purrboard/purrboard-bot/internal/infrastructure/external/telegram"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/handler"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/handler/callback"
	"github.com/purrboard/purrboard-bot/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROUTER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// RouterConfig contains configuration for the router.
type RouterConfig struct {
	// Logger for structured logging.
	Logger *slog.Logger

	// Debug enables debug logging for routing decisions.
	Debug bool
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTEXT TYPES
// These types carry context information through the routing process.
// ══════════════════════════════════════════════════════════════════════════════

// CommandContext contains context for command handling.
type CommandContext struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// ChatID is the chat ID where the command was sent.
	ChatID int64

	// MessageID is the ID of the message containing the command.
	MessageID int

	// Args is the command arguments (text after the command).
	Args string

	// Message is the original Telegram message.
	Message *telegram.Message

	// Client is the Telegram client for sending responses.
	Client *telegram.Client
}

// CallbackContext contains context for callback query handling.
type CallbackContext struct {
	// TelegramID is the user's Telegram ID.
	TelegramID int64

	// ChatID is the chat ID where the callback originated.
	ChatID int64

	// MessageID is the ID of the message with the inline keyboard.
	MessageID int

	// QueryID is the callback query ID (for answering).
	QueryID string

	// Data is the callback data string.
	Data string

	// Query is the original callback query.
	Query *telegram.CallbackQuery

	// Client is the Telegram client for sending responses.
	Client *telegram.Client
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTER
// Routes incoming updates to appropriate handlers.
// ══════════════════════════════════════════════════════════════════════════════

// CommandHandler is the interface for generic command handlers.
type CommandHandler interface {
	Handle(ctx context.Context, cmdCtx CommandContext) error
}

// CallbackHandler is the interface for generic callback handlers.
type CallbackHandler interface {
	Handle(ctx context.Context, cbCtx CallbackContext) error
}

// Router routes Telegram updates to appropriate handlers.
type Router struct {
	config RouterConfig
	logger *slog.Logger

	// Command handlers by command name (without /)
	commandHandlers   map[string]interface{}
	commandHandlersMu sync.RWMutex

	// Callback handlers by prefix
	callbackPrefixHandlers   map[string]interface{}
	callbackPrefixHandlersMu sync.RWMutex

	// Default handlers for unknown commands/callbacks
	defaultCommandHandler  func(ctx context.Context, cmdCtx CommandContext) error
	defaultCallbackHandler func(ctx context.Context, cbCtx CallbackContext) error
}

// NewRouter creates a new router.
func NewRouter(config RouterConfig) *Router {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	r := &Router{
		config:                 config,
		logger:                 config.Logger,
		commandHandlers:        make(map[string]interface{}),
		callbackPrefixHandlers: make(map[string]interface{}),
	}

	r.defaultCommandHandler = r.handleUnknownCommand
	r.defaultCallbackHandler = r.handleUnknownCallback

	return r
}

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION METHODS
// ══════════════════════════════════════════════════════════════════════════════

// RegisterCommand registers a handler for a specific command.
// The command should be without the leading "/".
func (r *Router) RegisterCommand(command string, handler interface{}) {
	r.commandHandlersMu.Lock()
	defer r.commandHandlersMu.Unlock()

	r.commandHandlers[command] = handler

	if r.config.Debug {
		r.logger.Debug("registered command handler", "command", command)
	}
}

// RegisterCallbackPrefix registers a handler for callbacks matching a prefix.
// The prefix should include the trailing delimiter (e.g., "like:").
func (r *Router) RegisterCallbackPrefix(prefix string, handler interface{}) {
	r.callbackPrefixHandlersMu.Lock()
	defer r.callbackPrefixHandlersMu.Unlock()

	r.callbackPrefixHandlers[prefix] = handler

	if r.config.Debug {
		r.logger.Debug("registered callback prefix handler", "prefix", prefix)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTING METHODS
// ══════════════════════════════════════════════════════════════════════════════

// HandleCommand routes a command to its handler.
func (r *Router) HandleCommand(ctx context.Context, command string, cmdCtx CommandContext) error {
	r.commandHandlersMu.RLock()
	h, ok := r.commandHandlers[command]
	r.commandHandlersMu.RUnlock()

	if !ok {
		if r.config.Debug {
			r.logger.Debug("no handler for command", "command", command)
		}
		return r.defaultCommandHandler(ctx, cmdCtx)
	}

	return r.executeCommandHandler(ctx, h, command, cmdCtx)
}

// executeCommandHandler executes a command handler based on its type.
func (r *Router) executeCommandHandler(ctx context.Context, h interface{}, command string, cmdCtx CommandContext) error {
	switch handler := h.(type) {
	case *handler.StartHandler:
		return r.handleStartCommand(ctx, handler, cmdCtx)
	case *handler.HelpHandler:
		return r.handleHelpCommand(ctx, handler, cmdCtx)
	case *handler.CatHandler:
		return r.handleCatCommand(ctx, handler, cmdCtx)
	case *handler.BreedHandler:
		return r.handleBreedCommand(ctx, handler, cmdCtx)
	case *handler.TopHandler:
		return r.handleTopCommand(ctx, handler, cmdCtx, false)
	case *handler.MyLikesHandler:
		return r.handleMyLikesCommand(ctx, handler, cmdCtx)
	case CommandHandler:
		return handler.Handle(ctx, cmdCtx)
	default:
		r.logger.Warn("unknown handler type", "command", command, "type", fmt.Sprintf("%T", h))
		return r.defaultCommandHandler(ctx, cmdCtx)
	}
}

// HandleCallback routes a callback to its handler.
func (r *Router) HandleCallback(ctx context.Context, data string, cbCtx CallbackContext) error {
	r.callbackPrefixHandlersMu.RLock()
	var matchedPrefix string
	var matchedHandler interface{}
	for prefix, h := range r.callbackPrefixHandlers {
		if strings.HasPrefix(data, prefix) {
			// Longest matching prefix wins
			if len(prefix) > len(matchedPrefix) {
				matchedPrefix = prefix
				matchedHandler = h
			}
		}
	}
	r.callbackPrefixHandlersMu.RUnlock()

	if matchedHandler == nil {
		if r.config.Debug {
			r.logger.Debug("no handler for callback", "data", data)
		}
		return r.defaultCallbackHandler(ctx, cbCtx)
	}

	return r.executeCallbackHandler(ctx, matchedHandler, matchedPrefix, cbCtx)
}

// executeCallbackHandler executes a callback handler based on its type.
func (r *Router) executeCallbackHandler(ctx context.Context, h interface{}, prefix string, cbCtx CallbackContext) error {
	switch handler := h.(type) {
	case *callback.LikeHandler:
		return r.handleLikeCallback(ctx, handler, cbCtx)
	case *callback.UnlikeHandler:
		return r.handleUnlikeCallback(ctx, handler, cbCtx)
	case CallbackHandler:
		return handler.Handle(ctx, cbCtx)
	case func(ctx context.Context, cbCtx CallbackContext) error:
		return handler(ctx, cbCtx)
	default:
		r.logger.Warn("unknown callback handler type", "prefix", prefix, "type", fmt.Sprintf("%T", h))
		return r.defaultCallbackHandler(ctx, cbCtx)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMAND HANDLER ADAPTERS
// Convert specific handler types to the generic routing interface.
// ══════════════════════════════════════════════════════════════════════════════

func (r *Router) handleStartCommand(ctx context.Context, h *handler.StartHandler, cmdCtx CommandContext) error {
	req := handler.StartRequest{
		TelegramID: cmdCtx.TelegramID,
		ChatID:     cmdCtx.ChatID,
	}

	if cmdCtx.Message != nil && cmdCtx.Message.From != nil {
		req.FirstName = cmdCtx.Message.From.FirstName
	}

	resp, err := h.Handle(ctx, req)
	if err != nil {
		return err
	}

	return r.sendResponse(ctx, cmdCtx.Client, cmdCtx.ChatID, resp.Text, resp.ParseMode, resp.Keyboard)
}

func (r *Router) handleHelpCommand(ctx context.Context, h *handler.HelpHandler, cmdCtx CommandContext) error {
	resp, err := h.Handle(ctx)
	if err != nil {
		return err
	}

	return r.sendResponse(ctx, cmdCtx.Client, cmdCtx.ChatID, resp.Text, resp.ParseMode, nil)
}

func (r *Router) handleCatCommand(ctx context.Context, h *handler.CatHandler, cmdCtx CommandContext) error {
	resp, err := h.Handle(ctx, handler.CatRequest{
		TelegramID: cmdCtx.TelegramID,
		ChatID:     cmdCtx.ChatID,
	})
	if err != nil {
		return err
	}

	// Карточка с фото идёт через sendPhoto, без фото - обычным сообщением.
	if resp.PhotoURL != "" {
		_, err = cmdCtx.Client.SendPhoto(ctx, telegram.SendPhotoParams{
			ChatID:      cmdCtx.ChatID,
			PhotoURL:    resp.PhotoURL,
			Caption:     resp.Text,
			ParseMode:   resp.ParseMode,
			ReplyMarkup: convertKeyboard(resp.Keyboard),
		})
		return err
	}

	return r.sendResponse(ctx, cmdCtx.Client, cmdCtx.ChatID, resp.Text, resp.ParseMode, resp.Keyboard)
}

func (r *Router) handleBreedCommand(ctx context.Context, h *handler.BreedHandler, cmdCtx CommandContext) error {
	resp, err := h.Handle(ctx, handler.BreedRequest{
		TelegramID: cmdCtx.TelegramID,
		ChatID:     cmdCtx.ChatID,
		Args:       cmdCtx.Args,
	})
	if err != nil {
		return err
	}

	return r.sendResponse(ctx, cmdCtx.Client, cmdCtx.ChatID, resp.Text, resp.ParseMode, resp.Keyboard)
}

func (r *Router) handleTopCommand(ctx context.Context, h *handler.TopHandler, cmdCtx CommandContext, edit bool) error {
	resp, err := h.Handle(ctx, handler.TopRequest{
		TelegramID: cmdCtx.TelegramID,
		ChatID:     cmdCtx.ChatID,
		MessageID:  cmdCtx.MessageID,
		IsRefresh:  edit,
	})
	if err != nil {
		return err
	}

	if edit {
		return r.editResponse(ctx, cmdCtx.Client, cmdCtx.ChatID, cmdCtx.MessageID, resp.Text, resp.ParseMode, resp.Keyboard)
	}

	return r.sendResponse(ctx, cmdCtx.Client, cmdCtx.ChatID, resp.Text, resp.ParseMode, resp.Keyboard)
}

func (r *Router) handleMyLikesCommand(ctx context.Context, h *handler.MyLikesHandler, cmdCtx CommandContext) error {
	resp, err := h.Handle(ctx, handler.MyLikesRequest{
		TelegramID: cmdCtx.TelegramID,
		ChatID:     cmdCtx.ChatID,
	})
	if err != nil {
		return err
	}

	return r.sendResponse(ctx, cmdCtx.Client, cmdCtx.ChatID, resp.Text, resp.ParseMode, resp.Keyboard)
}

// ══════════════════════════════════════════════════════════════════════════════
// CALLBACK HANDLER ADAPTERS
// ══════════════════════════════════════════════════════════════════════════════

// handleLikeCallback processes the ❤ button under a breed card.
func (r *Router) handleLikeCallback(ctx context.Context, h *callback.LikeHandler, cbCtx CallbackContext) error {
	resp, err := h.Handle(ctx, callback.LikeRequest{
		TelegramID:      cbCtx.TelegramID,
		CallbackData:    cbCtx.Data,
		CallbackQueryID: cbCtx.QueryID,
		ChatID:          cbCtx.ChatID,
		MessageID:       cbCtx.MessageID,
	})
	if err != nil {
		return err
	}

	if ansErr := cbCtx.Client.AnswerCallbackQuery(ctx, cbCtx.QueryID, resp.AnswerText, resp.ShowAlert); ansErr != nil {
		r.logger.Warn("failed to answer callback query", "error", ansErr)
	}

	if resp.UpdatedKeyboard != nil && cbCtx.ChatID != 0 {
		_, err := cbCtx.Client.EditMessageKeyboard(ctx, cbCtx.ChatID, int64(cbCtx.MessageID), convertKeyboard(resp.UpdatedKeyboard))
		if err != nil {
			// "message is not modified" от Telegram здесь не событие.
			r.logger.Debug("keyboard refresh skipped", "error", err)
		}
	}

	return nil
}

// handleUnlikeCallback processes the 💖 button on an already liked card.
func (r *Router) handleUnlikeCallback(ctx context.Context, h *callback.UnlikeHandler, cbCtx CallbackContext) error {
	resp, err := h.Handle(ctx, callback.UnlikeRequest{
		TelegramID:      cbCtx.TelegramID,
		CallbackData:    cbCtx.Data,
		CallbackQueryID: cbCtx.QueryID,
		ChatID:          cbCtx.ChatID,
		MessageID:       cbCtx.MessageID,
	})
	if err != nil {
		return err
	}

	if ansErr := cbCtx.Client.AnswerCallbackQuery(ctx, cbCtx.QueryID, resp.AnswerText, resp.ShowAlert); ansErr != nil {
		r.logger.Warn("failed to answer callback query", "error", ansErr)
	}

	if resp.UpdatedKeyboard != nil && cbCtx.ChatID != 0 {
		_, err := cbCtx.Client.EditMessageKeyboard(ctx, cbCtx.ChatID, int64(cbCtx.MessageID), convertKeyboard(resp.UpdatedKeyboard))
		if err != nil {
			r.logger.Debug("keyboard refresh skipped", "error", err)
		}
	}

	return nil
}

// createCatCallbackHandler creates a handler for "cat:" callbacks
// (the "show another cat" button).
func (r *Router) createCatCallbackHandler(catHandler *handler.CatHandler) func(ctx context.Context, cbCtx CallbackContext) error {
	return func(ctx context.Context, cbCtx CallbackContext) error {
		if ansErr := cbCtx.Client.AnswerCallbackQuery(ctx, cbCtx.QueryID, "", false); ansErr != nil {
			r.logger.Warn("failed to answer callback query", "error", ansErr)
		}

		return r.handleCatCommand(ctx, catHandler, CommandContext{
			TelegramID: cbCtx.TelegramID,
			ChatID:     cbCtx.ChatID,
			MessageID:  cbCtx.MessageID,
			Client:     cbCtx.Client,
		})
	}
}

// createTopCallbackHandler creates a handler for "top:" callbacks
// (the leaderboard refresh button).
func (r *Router) createTopCallbackHandler(topHandler *handler.TopHandler) func(ctx context.Context, cbCtx CallbackContext) error {
	return func(ctx context.Context, cbCtx CallbackContext) error {
		if ansErr := cbCtx.Client.AnswerCallbackQuery(ctx, cbCtx.QueryID, "", false); ansErr != nil {
			r.logger.Warn("failed to answer callback query", "error", ansErr)
		}

		return r.handleTopCommand(ctx, topHandler, CommandContext{
			TelegramID: cbCtx.TelegramID,
			ChatID:     cbCtx.ChatID,
			MessageID:  cbCtx.MessageID,
			Client:     cbCtx.Client,
		}, true)
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DEFAULT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleUnknownCommand handles commands that don't have a registered handler.
func (r *Router) handleUnknownCommand(ctx context.Context, cmdCtx CommandContext) error {
	text := "❓ <b>Неизвестная команда</b>\n\n" +
		"Доступные команды:\n" +
		"• /cat — случайный котик\n" +
		"• /breed — поиск пород\n" +
		"• /top — рейтинг пород\n" +
		"• /mylikes — твои лайки\n" +
		"• /help — справка"

	_, err := cmdCtx.Client.SendHTML(ctx, cmdCtx.ChatID, text)
	return err
}

// handleUnknownCallback handles callbacks that don't have a registered handler.
func (r *Router) handleUnknownCallback(ctx context.Context, cbCtx CallbackContext) error {
	// Just log it, don't send a message to avoid spam
	r.logger.Warn("unknown callback", "data", cbCtx.Data)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// sendResponse sends a new message with optional inline keyboard.
func (r *Router) sendResponse(
	ctx context.Context,
	client *telegram.Client,
	chatID int64,
	text, parseMode string,
	keyboard *presenter.InlineKeyboard,
) error {
	params := telegram.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	}

	if keyboard != nil {
		params.ReplyMarkup = convertKeyboard(keyboard)
	}

	_, err := client.SendMessage(ctx, params)
	return err
}

// editResponse edits an existing message with optional inline keyboard.
func (r *Router) editResponse(
	ctx context.Context,
	client *telegram.Client,
	chatID int64,
	messageID int,
	text, parseMode string,
	keyboard *presenter.InlineKeyboard,
) error {
	var kb *telegram.InlineKeyboardMarkup
	if keyboard != nil {
		kb = convertKeyboard(keyboard)
	}

	_, err := client.EditMessageText(ctx, chatID, int64(messageID), text, parseMode, kb)
	return err
}

// convertKeyboard converts presenter.InlineKeyboard to telegram.InlineKeyboardMarkup.
func convertKeyboard(kb *presenter.InlineKeyboard) *telegram.InlineKeyboardMarkup {
	if kb == nil || len(kb.Rows) == 0 {
		return nil
	}

	markup := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: make([][]telegram.InlineKeyboardButton, len(kb.Rows)),
	}

	for i, row := range kb.Rows {
		markup.InlineKeyboard[i] = make([]telegram.InlineKeyboardButton, len(row))
		for j, btn := range row {
			markup.InlineKeyboard[i][j] = telegram.InlineKeyboardButton{
				Text:         btn.Text,
				CallbackData: btn.CallbackData,
				URL:          btn.URL,
			}
		}
	}

	return markup
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTE INFO (for introspection)
// ══════════════════════════════════════════════════════════════════════════════

// GetRegisteredCommands returns a list of registered command names.
func (r *Router) GetRegisteredCommands() []string {
	r.commandHandlersMu.RLock()
	defer r.commandHandlersMu.RUnlock()

	commands := make([]string, 0, len(r.commandHandlers))
	for cmd := range r.commandHandlers {
		commands = append(commands, cmd)
	}
	return commands
}

// GetRegisteredCallbackPrefixes returns a list of registered callback prefixes.
func (r *Router) GetRegisteredCallbackPrefixes() []string {
	r.callbackPrefixHandlersMu.RLock()
	defer r.callbackPrefixHandlersMu.RUnlock()

	prefixes := make([]string, 0, len(r.callbackPrefixHandlers))
	for prefix := range r.callbackPrefixHandlers {
		prefixes = append(prefixes, prefix)
	}
	return prefixes
}
