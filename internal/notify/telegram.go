// Package notify pushes operational alerts to the school's admin Telegram
// channel. Wiring is optional: without a token the app runs without alerts.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/hanamaru-english/class-api/internal/schedule"
	"github.com/hanamaru-english/class-api/internal/service"
)

type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
		logger: logger,
	}, nil
}

// GenerationConflicts reports instances the month generator created on top
// of an unavailable instructor, for manual review.
func (n *TelegramNotifier) GenerationConflicts(ctx context.Context, year int, month time.Month, conflicts []service.GenerationConflict) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ Class generation for %04d-%02d flagged %d conflict(s):\n", year, int(month), len(conflicts))
	for _, c := range conflicts {
		fmt.Fprintf(&sb, "• class %d (instructor %d) at %s: %s\n",
			c.ClassID, c.InstructorID, c.StartsAt.In(schedule.JST).Format("2006-01-02 15:04"), c.Reason)
	}

	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   sb.String(),
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	n.logger.Info("Generation conflicts reported to admin channel",
		zap.Int("conflicts", len(conflicts)),
	)
	return nil
}
