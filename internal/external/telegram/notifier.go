// Package telegram содержит уведомления администратору через Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"tweettoot/internal/model"
	"tweettoot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// previewLength максимальная длина текста поста в уведомлении
const previewLength = 200

// Sender отправляет сообщения в Telegram
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// AdminNotifier отправляет администратору итог публикации поста
type AdminNotifier struct {
	sender      Sender
	adminChatID int64
	logger      *zap.Logger
}

// NewBot создает клиента Bot API поверх общего HTTP клиента
func NewBot(token string, httpClient *http.Client, logger *zap.Logger) (*tgbotapi.BotAPI, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	bot.Debug = false
	logger.Info("Telegram bot created", zap.String("username", bot.Self.UserName))
	return bot, nil
}

// NewAdminNotifier создает новый уведомитель админа
func NewAdminNotifier(sender Sender, adminChatID int64, logger *zap.Logger) *AdminNotifier {
	return &AdminNotifier{
		sender:      sender,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// Notify отправляет сообщение о публикации или отказе инстанса
func (a *AdminNotifier) Notify(ctx context.Context, post model.Post, outcome service.Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.sender == nil {
		return fmt.Errorf("bot API is not available")
	}
	if a.adminChatID == 0 {
		return fmt.Errorf("admin chat ID is not configured")
	}

	msg := tgbotapi.NewMessage(a.adminChatID, FormatMessage(post, outcome))
	msg.DisableWebPagePreview = true

	if _, err := a.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send admin notification: %w", err)
	}

	a.logger.Debug("Admin notified",
		zap.String("post_id", post.ID),
		zap.String("outcome", outcome.String()))
	return nil
}

// FormatMessage собирает текст уведомления
func FormatMessage(post model.Post, outcome service.Outcome) string {
	var b strings.Builder

	switch outcome {
	case service.OutcomePublished:
		b.WriteString("✅ Mirrored post ")
	case service.OutcomeRejected:
		b.WriteString("⚠️ Instance rejected post ")
	default:
		fmt.Fprintf(&b, "ℹ️ Post %s: ", outcome)
	}
	b.WriteString(post.ID)
	b.WriteString(" (")
	b.WriteString(post.PublishedAt().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString(")\n\n")
	b.WriteString(preview(post.Text))

	return b.String()
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewLength]) + "…"
}
