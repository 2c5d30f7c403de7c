package telegramcmder

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"socratic-tutor/internal/adapter/memory"
	"socratic-tutor/internal/adapter/telegram"
	"socratic-tutor/internal/app"
	"socratic-tutor/internal/domain"
	"socratic-tutor/internal/usecase/chat"
)

const telegramLongDesc string = `Serve the tutor as a Telegram bot.

Each Telegram chat gets its own conversation, kept in memory until the bot
stops. Send a question or a photo of a problem; prefix a message with /file
to get the reply as a markdown document.

Requires TELEGRAM_BOT_TOKEN. ALLOWED_TELEGRAM_USER_IDS and ADMIN_USER_IDS
restrict who may talk to the bot.`

const telegramShortDesc string = "Serve the tutor as a Telegram bot"

type telegramCommander struct {
	opts *app.Options
}

func NewTelegramCmd(opts *app.Options) *cobra.Command {
	cmder := &telegramCommander{opts: opts}

	return &cobra.Command{
		Use:   "telegram",
		Short: telegramShortDesc,
		Long:  telegramLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context())
		},
	}
}

func (c *telegramCommander) run(ctx context.Context) error {
	a, err := app.Setup(ctx, *c.opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Config.RequireTelegram(); err != nil {
		return err
	}

	sessions := chat.NewSessions(func() domain.ConversationStore {
		return memory.NewStore()
	}, a.Model, a.Logger)

	bot, err := telegram.NewBot(a.Config, sessions, a.Logger)
	if err != nil {
		return err
	}

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.Logger.Info("telegram bot stopped", zap.Int("conversations", sessions.Len()))
	return nil
}
