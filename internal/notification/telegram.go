package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("telegram is not configured")

type TelegramConfig struct {
	BotToken string
	ChatID   int64
	// APIEndpoint overrides the Bot API URL format, e.g. for tests.
	APIEndpoint string
}

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender posts HTML messages to one chat. Three consecutive failures
// open the breaker for 30 seconds.
type TelegramSender struct {
	bot    botAPI
	chatID int64
	cb     *gobreaker.CircuitBreaker[tgbotapi.Message]
	logger logger.ZapLogger
}

func NewTelegramSender(cfg *TelegramConfig, log logger.ZapLogger) (*TelegramSender, error) {
	if cfg.BotToken == "" || cfg.ChatID == 0 {
		return nil, ErrNotConfigured
	}

	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint(cfg.BotToken, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}

	return newTelegramSender(bot, cfg.ChatID, log), nil
}

func newTelegramSender(bot botAPI, chatID int64, log logger.ZapLogger) *TelegramSender {
	settings := gobreaker.Settings{
		Name:        "telegram",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &TelegramSender{
		bot:    bot,
		chatID: chatID,
		cb:     gobreaker.NewCircuitBreaker[tgbotapi.Message](settings),
		logger: log,
	}
}

// Send delivers text once. The Bot API client has no context support, so ctx
// is only checked before the call.
func (s *TelegramSender) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	sent, err := s.cb.Execute(func() (tgbotapi.Message, error) {
		return s.bot.Send(msg)
	})
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}

	s.logger.Debug("telegram message sent", zap.Int("message_id", sent.MessageID))
	return nil
}
