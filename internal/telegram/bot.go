// Package telegram adapts the Telegram Bot API to router events: it maps
// commands and keyboard labels to actions, renders keyboards, and delivers
// replies.
package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/chefbot/internal/conversation"
	"github.com/hammamikhairi/chefbot/internal/domain"
	"github.com/hammamikhairi/chefbot/internal/logger"
)

// pollTimeoutSecs is the long-poll timeout passed to getUpdates.
const pollTimeoutSecs = 30

// Bot is the long-polling Telegram front end.
type Bot struct {
	api    *tgbotapi.BotAPI
	router *conversation.Router
	log    *logger.Logger

	mu    sync.Mutex
	users map[int64]*sync.Mutex
}

// New authenticates against the Bot API.
func New(token string, router *conversation.Router, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: auth: %w", err)
	}
	return &Bot{
		api:    api,
		router: router,
		log:    log,
		users:  make(map[int64]*sync.Mutex),
	}, nil
}

// Run polls for updates until ctx is cancelled. Updates from the same user
// are handled strictly in order, even across chats — dialogue state is keyed
// by user, not chat. Different users proceed concurrently.
func (b *Bot) Run(ctx context.Context) error {
	// Drop any webhook so long polling sees fresh updates only.
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		b.log.Warn("delete webhook: %v", err)
	}
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		b.log.Warn("set commands: %v", err)
	}
	b.log.Info("bot @%s is up", b.api.Self.UserName)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeoutSecs
	updates := b.api.GetUpdatesChan(cfg)

	g := new(errgroup.Group)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			err := g.Wait()
			b.log.Info("bot stopped, in-flight handlers drained")
			if err != nil {
				return err
			}
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return g.Wait()
			}
			userID, routable := userOf(upd)
			if !routable {
				continue
			}
			g.Go(func() error {
				lock := b.userLock(userID)
				lock.Lock()
				defer lock.Unlock()
				b.handle(ctx, upd)
				return nil
			})
		}
	}
}

// userOf extracts the user an update belongs to.
func userOf(upd tgbotapi.Update) (int64, bool) {
	switch {
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		return upd.CallbackQuery.From.ID, true
	case upd.Message != nil && upd.Message.From != nil && upd.Message.Text != "":
		return upd.Message.From.ID, true
	}
	return 0, false
}

func (b *Bot) userLock(userID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.users[userID]
	if !ok {
		l = new(sync.Mutex)
		b.users[userID] = l
	}
	return l
}

func (b *Bot) handle(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	ev := conversation.Event{UserID: m.From.ID, Text: m.Text}
	if m.IsCommand() {
		ev.Action = commandActions[m.Command()]
		ev.Command = ev.Action != domain.ActionNone
	} else {
		ev.Action = labelAction(m.Text)
	}

	b.log.Debug("user %d: action=%s", ev.UserID, ev.Action)
	b.send(m.Chat.ID, b.router.HandleText(ctx, ev))
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	recipeID, stepIndex, ok := parseCookData(cq.Data)
	if !ok {
		b.answer(cq.ID)
		return
	}

	reply := b.router.HandleCook(ctx, cq.From.ID, recipeID, stepIndex)
	chat := cq.Message.Chat.ID

	switch {
	case reply.Alert:
		if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(cq.ID, reply.Text)); err != nil {
			b.log.Error("callback alert to %d: %v", chat, err)
		}
		return
	case reply.Edit && reply.Next != nil:
		edit := tgbotapi.NewEditMessageTextAndMarkup(chat, cq.Message.MessageID,
			reply.Text, nextStepMarkup(reply.Next.RecipeID, reply.Next.NextIndex))
		edit.ParseMode = tgbotapi.ModeHTML
		if _, err := b.api.Send(edit); err != nil {
			b.log.Error("edit in %d: %v", chat, err)
		}
	default:
		b.send(chat, reply)
	}
	b.answer(cq.ID)
}

func (b *Bot) answer(callbackID string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		b.log.Debug("answer callback: %v", err)
	}
}

func (b *Bot) send(chatID int64, reply conversation.Reply) {
	if reply.Text == "" {
		return
	}
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	switch {
	case reply.MainMenu:
		msg.ReplyMarkup = mainKeyboard()
	case reply.Cook != nil:
		msg.ReplyMarkup = cookMarkup(reply.Cook.RecipeID)
	case reply.Next != nil:
		msg.ReplyMarkup = nextStepMarkup(reply.Next.RecipeID, reply.Next.NextIndex)
	}
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send to %d: %v", chatID, err)
	}
}
