package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
)

type Handler struct {
	bot *Bot
}

func NewHandler(bot *Bot) *Handler {
	return &Handler{bot: bot}
}

const (
	msgGenericError = "Something went wrong. Please try again later."
	msgRateLimited  = "Too many requests. Please wait a minute."
)

func (h *Handler) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}

	fields := []zap.Field{
		zap.Int64("chat_id", msg.Chat.ID),
		zap.Bool("is_command", msg.IsCommand()),
	}
	if msg.From != nil {
		fields = append(fields, zap.String("username", msg.From.UserName))
	}
	h.bot.logger.Info("received message", fields...)

	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			h.handleStart(msg)
			return
		case "help":
			h.handleHelp(msg)
			return
		case "search", "trending":
		default:
			h.send(msg.Chat.ID, "Unknown command. Use /help to see what I can do.")
			return
		}
	}

	query, cmd := ParseQueryCommand(msg.Text)
	if cmd == CommandTrending {
		h.handleTrending(ctx, msg, query)
		return
	}
	h.handleSearch(ctx, msg, query)
}

func (h *Handler) handleStart(msg *tgbotapi.Message) {
	h.send(msg.Chat.ID, "Hi! Send me any query and I will search YouTube, Reddit, the web, X, Instagram, TikTok and LinkedIn at once.\n\nUse /help to see all commands.")
}

func (h *Handler) handleHelp(msg *tgbotapi.Message) {
	helpText := `<b>Commands:</b>

/search query - Search all platforms
/trending query - Popular suggestions from Google and YouTube
/help - Show this help

Plain text works as /search.

<b>Examples:</b>
• golang generics
• /trending home workout`

	h.send(msg.Chat.ID, helpText)
}

func (h *Handler) handleSearch(ctx context.Context, msg *tgbotapi.Message, query string) {
	if query == "" {
		h.send(msg.Chat.ID, "Send me something to search, for example: /search golang generics")
		return
	}
	if !h.allow(msg.Chat.ID) {
		return
	}

	h.bot.SendTyping(msg.Chat.ID)

	res, err := h.bot.search.Search(ctx, query)
	if err != nil {
		h.bot.logger.Error("search failed",
			zap.Error(err),
			zap.Int64("chat_id", msg.Chat.ID),
		)
		h.send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.sendLong(msg.Chat.ID, FormatAggregate(query, res, topPerSource))
}

func (h *Handler) handleTrending(ctx context.Context, msg *tgbotapi.Message, query string) {
	if h.bot.trending == nil {
		h.send(msg.Chat.ID, "Trending suggestions are not available.")
		return
	}
	if query == "" {
		h.send(msg.Chat.ID, "Send me a topic, for example: /trending home workout")
		return
	}
	if !h.allow(msg.Chat.ID) {
		return
	}

	h.bot.SendTyping(msg.Chat.ID)

	out, err := h.bot.trending.Suggest(ctx, query, domain.PlatformAll)
	if err != nil {
		h.bot.logger.Error("trending failed", zap.Error(err))
		h.send(msg.Chat.ID, mapErrorToMessage(err))
		return
	}

	h.sendLong(msg.Chat.ID, FormatSuggestions(query, out))
}

// allow - лимит на чат
func (h *Handler) allow(chatID int64) bool {
	key := strconv.FormatInt(chatID, 10)
	if h.bot.rateLimiter.Allow(key) {
		return true
	}

	h.bot.logger.Warn("rate limit exceeded",
		zap.Int64("chat_id", chatID),
		zap.Time("reset_at", h.bot.rateLimiter.ResetTime(key)),
	)
	h.bot.RecordRateLimitHit()
	h.send(chatID, msgRateLimited)
	return false
}

func (h *Handler) sendLong(chatID int64, text string) {
	for _, m := range SplitMessage(text, maxMessageLen) {
		h.send(chatID, m)
	}
}

func (h *Handler) send(chatID int64, text string) {
	if err := h.bot.Send(chatID, text); err != nil {
		h.bot.logger.Error("failed to send message", zap.Error(err))
	}
}

func mapErrorToMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingQuery):
		return "Send me something to search, for example: /search golang generics"
	case errors.Is(err, domain.ErrInvalidPlatform):
		return "Unknown platform."
	default:
		return msgGenericError
	}
}
