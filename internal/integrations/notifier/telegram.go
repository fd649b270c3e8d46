package notifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSink отправка уведомлений в чат Telegram
type TelegramSink struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramSink создает канал Telegram и проверяет токен запросом getMe
// endpoint можно оставить пустым, тогда используется публичный API
func NewTelegramSink(token string, chatID int64, endpoint string, timeout time.Duration) (*TelegramSink, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramSink{bot: bot, chatID: chatID}, nil
}

// Name имя канала для логов и метрик
func (s *TelegramSink) Name() string {
	return "telegram"
}

// Send отправляет текст в чат
// Клиент бота не принимает контекст, отправка ограничена таймаутом http-клиента
func (s *TelegramSink) Send(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: context done: %v", ErrInternal, err)
	}

	msg := tgbotapi.NewMessage(s.chatID, text)
	if _, err := s.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: send to chat %d: %v", ErrInvalidResponse, s.chatID, err)
	}

	return nil
}
