package telegram

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/kitbuilder587/multisearch/internal/domain"
	"github.com/kitbuilder587/multisearch/internal/metrics"
	"github.com/kitbuilder587/multisearch/internal/ratelimit"
)

const limiterCleanupInterval = 5 * time.Minute

type Searcher interface {
	Search(ctx context.Context, query string) (*domain.AggregateResult, error)
}

type Trender interface {
	Suggest(ctx context.Context, query, platform string) (map[string]domain.Suggestions, error)
}

// sender - часть BotAPI, которой хватает обработчику
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type BotConfig struct {
	Token             string
	Debug             bool
	RequestsPerMinute int
}

type Bot struct {
	api         *tgbotapi.BotAPI
	sender      sender
	search      Searcher
	trending    Trender
	logger      *zap.Logger
	metrics     *metrics.Metrics
	handler     *Handler
	rateLimiter *ratelimit.Limiter
	wg          sync.WaitGroup
}

// New авторизуется в Telegram; trending может быть nil
func New(cfg BotConfig, search Searcher, trending Trender, logger *zap.Logger, m *metrics.Metrics) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	api.Debug = cfg.Debug

	bot := newBot(api, search, trending, logger, m, cfg.RequestsPerMinute)
	bot.api = api

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
	)

	return bot, nil
}

func newBot(s sender, search Searcher, trending Trender, logger *zap.Logger, m *metrics.Metrics, rpm int) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	bot := &Bot{
		search:   search,
		trending: trending,
		logger:   logger,
		metrics:  m,
		rateLimiter: ratelimit.New(ratelimit.Config{
			RequestsPerMinute: rpm,
		}),
	}
	if s != nil {
		bot.sender = s
	}
	bot.handler = NewHandler(bot)
	return bot
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	cleanup := time.NewTicker(limiterCleanupInterval)
	defer cleanup.Stop()

	b.logger.Info("bot started, waiting for updates")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("bot stopping, waiting for handlers to finish")
			b.api.StopReceivingUpdates()
			b.wg.Wait()
			b.logger.Info("all handlers finished")
			return ctx.Err()
		case <-cleanup.C:
			b.rateLimiter.Cleanup()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			b.wg.Add(1)
			go func(upd tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdate(ctx, upd)
			}(update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			chatID := int64(0)
			if update.Message != nil && update.Message.Chat != nil {
				chatID = update.Message.Chat.ID
			}
			b.logger.Error("panic in update handler",
				zap.Any("panic", r),
				zap.Int64("chat_id", chatID),
			)
			if b.metrics != nil {
				b.metrics.RecordRequest("telegram", "panic", time.Since(startTime))
			}
		}
	}()

	b.handler.HandleMessage(ctx, update.Message)

	if b.metrics != nil {
		b.metrics.RecordRequest("telegram", "processed", time.Since(startTime))
	}
}

func (b *Bot) Send(chatID int64, text string) error {
	if b.sender == nil {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	_, err := b.sender.Send(msg)
	return err
}

func (b *Bot) SendTyping(chatID int64) {
	if b.sender == nil {
		return
	}
	action := tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)
	_, _ = b.sender.Send(action)
}

func (b *Bot) RecordRateLimitHit() {
	if b.metrics != nil {
		b.metrics.RecordRateLimitHit("telegram")
	}
}
