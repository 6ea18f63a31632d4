package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/briefbot/internal/core"
	"github.com/sandevgo/briefbot/internal/transport"
	"github.com/sandevgo/briefbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

type Bot struct {
	bot      *tele.Bot
	sender   *sender
	dialogue core.Dialogue
	router   core.CmdRouter
	ownerID  int64
}

func NewBot(
	ctx context.Context,
	cfg core.TelegramConfig,
	dialogue core.Dialogue,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.GetTelegramToken(),
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:      b,
		sender:   newSender(b),
		dialogue: dialogue,
		router:   router,
		ownerID:  cfg.GetTelegramOwnerID(),
	}

	// Use context from Signal with logger
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Middleware: restrict to the owner when one is configured
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if bot.ownerID != 0 && (c.Sender() == nil || c.Sender().ID != bot.ownerID) {
				return nil
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

// UserID maps a chat to its dialogue user.
func UserID(chatID int64) string {
	return fmt.Sprintf("telegram-%d", chatID)
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	return b.sender.sendMarkdown(ctx, c.Chat(), startMessage, false)
}

const startMessage = "안녕! 출시하려는 제품을 알려주면 **Launch Brief**를 같이 만들어줄게.\n\n" +
	"예: `미국 선크림 20~30대 여성 2~3만원대 아마존 민감`\n\n" +
	"/help 로 명령어를 볼 수 있어."

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	userID := UserID(c.Chat().ID)
	ctx = log.WithUser(ctx, userID)
	logger := log.FromCtx(ctx)

	// Notify user we are working
	_ = c.Notify(tele.Typing)

	reply, err := transport.Handle(ctx, b.router, b.dialogue, userID, c.Text())
	if err != nil {
		logger.Error().Err(err).Str("kind", core.ErrorKind(err)).Msg("turn failed")
		return c.Send(transport.ErrorReply(err))
	}
	return b.sender.sendMarkdown(ctx, c.Chat(), transport.OrEmptyReply(reply), false)
}
