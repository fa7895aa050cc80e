package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/worklab/newsdigest/internal/logger"
	"github.com/worklab/newsdigest/internal/retry"
)

// Options configures a Sink.
type Options struct {
	Token  string
	ChatID string // numeric id or @channel name

	// Endpoint overrides tgbotapi.APIEndpoint; it must contain two %s verbs
	// for the token and the method.
	Endpoint string
	Client   *http.Client

	Attempts   int
	RetryDelay time.Duration
}

// Sink delivers HTML messages to one chat.
type Sink struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	channel string
	retry   retry.RetryConfig
}

// NewSink authenticates against the Bot API and returns a Sink bound to the
// configured chat.
func NewSink(opts Options) (*Sink, error) {
	if opts.Token == "" || opts.ChatID == "" {
		return nil, fmt.Errorf("telegram token and chat id are required")
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	api, err := tgbotapi.NewBotAPIWithClient(opts.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}

	s := &Sink{
		api: api,
		retry: retry.RetryConfig{
			MaxAttempts: opts.Attempts,
			Delay:       opts.RetryDelay,
			Backoff:     true,
		},
	}
	chat := strings.TrimSpace(opts.ChatID)
	if strings.HasPrefix(chat, "@") {
		s.channel = chat
	} else {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID %q: expected a number or @channel", chat)
		}
		s.chatID = id
	}
	logger.Debug("Telegram sink ready", "bot", api.Self.UserName)
	return s, nil
}

func (s *Sink) message(text string) tgbotapi.MessageConfig {
	var msg tgbotapi.MessageConfig
	if s.channel != "" {
		msg = tgbotapi.NewMessageToChannel(s.channel, text)
	} else {
		msg = tgbotapi.NewMessage(s.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	return msg
}

// Send delivers text as one HTML message.
func (s *Sink) Send(ctx context.Context, text string) error {
	attempt := 0
	err := retry.WithRetry(ctx, s.retry, func() error {
		attempt++
		if _, err := s.api.Send(s.message(text)); err != nil {
			logger.Warn("Telegram send failed", "attempt", attempt, "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	logger.Info("Message sent to Telegram", "attempt", attempt, "bytes", len(text))
	return nil
}
