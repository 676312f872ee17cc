package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tweettoot/internal/model"
	"tweettoot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestAdminNotifier_Notify(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewAdminNotifier(sender, 12345, zap.NewNop())
	post := model.Post{ID: "42", Text: "hello", Time: 1700000000000}

	err := notifier.Notify(context.Background(), post, service.OutcomePublished)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(12345), msg.ChatID)
	assert.Contains(t, msg.Text, "Mirrored post 42")
	assert.Contains(t, msg.Text, "2023-11-14 22:13:20 UTC")
	assert.True(t, strings.HasSuffix(msg.Text, "hello"))
}

func TestAdminNotifier_NotifyErrors(t *testing.T) {
	post := model.Post{ID: "1", Text: "x", Time: 1}

	err := NewAdminNotifier(nil, 1, zap.NewNop()).Notify(context.Background(), post, service.OutcomePublished)
	assert.Error(t, err)

	err = NewAdminNotifier(&fakeSender{}, 0, zap.NewNop()).Notify(context.Background(), post, service.OutcomePublished)
	assert.Error(t, err)

	sendErr := errors.New("forbidden")
	err = NewAdminNotifier(&fakeSender{err: sendErr}, 1, zap.NewNop()).Notify(context.Background(), post, service.OutcomeRejected)
	assert.ErrorIs(t, err, sendErr)
}

func TestFormatMessage(t *testing.T) {
	post := model.Post{ID: "7", Text: strings.Repeat("é", previewLength+10), Time: 1000}

	rejected := FormatMessage(post, service.OutcomeRejected)
	assert.True(t, strings.HasPrefix(rejected, "⚠️ Instance rejected post 7"))
	assert.True(t, strings.HasSuffix(rejected, strings.Repeat("é", previewLength)+"…"))

	short := FormatMessage(model.Post{ID: "8", Text: "hi", Time: 1000}, service.OutcomeSkipped)
	assert.Contains(t, short, "Post skipped: 8")
	assert.True(t, strings.HasSuffix(short, "\n\nhi"))
}
