package telegram

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"socratic-tutor/internal/config"
	"socratic-tutor/internal/prompts"
	"socratic-tutor/internal/usecase/attachment"
	"socratic-tutor/internal/usecase/chat"
)

const chunkSize = 2048

const (
	noticeDenied      = "access denied"
	noticeEmpty       = "Send me a math question, or a photo of the problem."
	noticeBusy        = "I'm still working on your previous message. Please wait for my reply."
	noticeNotImage    = "Please upload an image file"
	noticeReadFailed  = "I couldn't download that file. Please try sending it again."
	noticeModelFailed = "I couldn't reach the tutor model just now. Please try again in a moment."
	noticeFileFailed  = "could not send file, here is the text"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      config.Config
	sessions *chat.Sessions
	http     *http.Client
	logger   *zap.Logger
}

func NewBot(cfg config.Config, sessions *chat.Sessions, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		cfg:      cfg,
		sessions: sessions,
		http:     &http.Client{Timeout: cfg.RequestTimeout},
		logger:   logger,
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	b.logger.Info("telegram bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			msg := update.Message
			if msg.From == nil {
				continue
			}
			go b.handleMessage(ctx, msg)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	log := b.logger.With(zap.Int64("chat_id", msg.Chat.ID), zap.Int64("user_id", msg.From.ID))

	if !isAllowedUser(msg.From.ID, b.cfg) {
		log.Warn("rejected message from user outside the allowlist")
		b.sendText(msg.Chat.ID, msg.MessageID, noticeDenied)
		return
	}

	if msg.IsCommand() && msg.Command() == "start" {
		b.sendText(msg.Chat.ID, 0, prompts.OpeningLine)
		return
	}

	svc := b.sessions.Get(strconv.FormatInt(msg.Chat.ID, 10))
	if svc.Awaiting() {
		b.sendText(msg.Chat.ID, msg.MessageID, noticeBusy)
		return
	}

	text, respondAsFile := parseText(msg)
	input := chat.Input{Text: text}

	if src, ok := attachmentSource(b.api, b.http, msg); ok {
		image, err := attachment.Encode(ctx, src)
		if err != nil {
			log.Warn("could not encode attachment", zap.String("file", src.Name()), zap.Error(err))
			b.sendText(msg.Chat.ID, msg.MessageID, notice(err))
			return
		}
		input.Image = &image
	} else if hasUnsupportedMedia(msg) {
		b.sendText(msg.Chat.ID, msg.MessageID, noticeNotImage)
		return
	}

	b.sendChatAction(msg.Chat.ID, respondAsFile)

	reply, err := svc.Submit(ctx, input)
	if err != nil {
		if !errors.Is(err, chat.ErrEmptyMessage) && !errors.Is(err, chat.ErrBusy) {
			log.Error("tutor request failed", zap.Error(err))
		}
		b.sendText(msg.Chat.ID, msg.MessageID, notice(err))
		return
	}

	if respondAsFile || shouldSendAsFile(reply.Text) {
		if err := b.sendAsFile(msg.Chat.ID, msg.MessageID, reply.Text); err != nil {
			log.Error("failed to send file", zap.Error(err))
			b.sendText(msg.Chat.ID, msg.MessageID, noticeFileFailed)
			b.sendText(msg.Chat.ID, msg.MessageID, reply.Text)
		}
		return
	}

	b.sendText(msg.Chat.ID, msg.MessageID, reply.Text)
}

func (b *Bot) sendText(chatID int64, replyTo int, text string) {
	chunks := splitText(text, chunkSize)
	for idx, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if idx == 0 {
			msg.ReplyToMessageID = replyTo
		}
		if _, err := b.api.Send(msg); err != nil {
			// Model markdown is not always valid Telegram markdown.
			msg.ParseMode = ""
			if _, err := b.api.Send(msg); err != nil {
				b.logger.Error("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
			}
		}
	}
}

func (b *Bot) sendChatAction(chatID int64, asFile bool) {
	action := tgbotapi.ChatTyping
	if asFile {
		action = tgbotapi.ChatUploadDocument
	}
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		b.logger.Warn("failed to send chat action", zap.Error(err))
	}
}

func (b *Bot) sendAsFile(chatID int64, replyTo int, content string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "response.md",
		Bytes: []byte(content),
	})
	doc.ReplyToMessageID = replyTo

	_, err := b.api.Send(doc)
	return err
}

// parseText returns the user's text, from the message body or the media
// caption, and whether the reply was requested as a file.
func parseText(msg *tgbotapi.Message) (string, bool) {
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	if strings.HasPrefix(strings.ToLower(text), "/file") {
		return strings.TrimSpace(text[len("/file"):]), true
	}
	return strings.TrimSpace(text), false
}

func notice(err error) string {
	var readErr *attachment.ReadError

	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return noticeEmpty
	case errors.Is(err, chat.ErrBusy):
		return noticeBusy
	case errors.Is(err, attachment.ErrUnsupportedMediaType):
		return noticeNotImage
	case errors.As(err, &readErr):
		return noticeReadFailed
	default:
		return noticeModelFailed
	}
}

func shouldSendAsFile(text string) bool {
	return len([]rune(text)) > chunkSize
}

func isAllowedUser(userID int64, cfg config.Config) bool {
	for _, id := range cfg.AdminUserIDs {
		if id == userID {
			return true
		}
	}

	if len(cfg.AllowedUserIDs) == 0 {
		return true
	}

	for _, id := range cfg.AllowedUserIDs {
		if id == userID {
			return true
		}
	}

	return false
}

func splitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/chunkSize+1)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
