package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/logger"
)

// Users is the part of the user service the bot calls
type Users interface {
	Register(ctx context.Context, telegramID int64, username string) (*domain.User, bool, error)
	GetProfileByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error)
}

// Updater is the part of *telego.Bot that receives updates
type Updater interface {
	UpdatesViaLongPolling(ctx context.Context, params *telego.GetUpdatesParams, options ...telego.LongPollingOption) (<-chan telego.Update, error)
}

// Client is everything the bot needs from *telego.Bot
type Client interface {
	Sender
	Updater
}

// NewClient creates a telego bot for token. Errors come from token validation.
func NewClient(token string) (*telego.Bot, error) {
	return telego.NewBot(token, telego.WithDiscardLogger())
}

// Bot answers account commands in private chats
type Bot struct {
	client  Client
	users   Users
	printer *message.Printer
	wg      sync.WaitGroup
}

// NewBot creates a command bot
func NewBot(client Client, users Users) *Bot {
	return &Bot{
		client:  client,
		users:   users,
		printer: message.NewPrinter(language.English),
	}
}

// Run polls for updates until ctx is cancelled, then waits for in-flight
// commands to finish.
func (b *Bot) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	updates, err := b.client.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout:        PollTimeoutSeconds,
		AllowedUpdates: []string{"message"},
	})
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}
	log.Info(LogMsgBotStarted)

	for update := range updates {
		b.wg.Add(1)
		go func(u telego.Update) {
			defer b.wg.Done()
			b.HandleUpdate(ctx, u)
		}(update)
	}

	b.wg.Wait()
	log.Info(LogMsgBotStopped)
	return nil
}

// HandleUpdate answers a single update. Non-command messages are ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update telego.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.From.IsBot {
		return
	}

	command := parseCommand(msg.Text)
	if command == "" {
		return
	}

	reply, err := b.execute(ctx, command, msg.From)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgCommandFailed, "command", command, "telegram_id", msg.From.ID, "error", err)
		reply = MsgFailure
	}
	if reply == "" {
		return
	}

	params := tu.Message(tu.ID(msg.Chat.ID), reply).WithParseMode(telego.ModeHTML)
	if _, err := b.client.SendMessage(ctx, params); err != nil {
		logger.FromContext(ctx).Warn(LogMsgReplyFailed, "chat_id", msg.Chat.ID, "error", err)
	}
}

func (b *Bot) execute(ctx context.Context, command string, from *telego.User) (string, error) {
	switch command {
	case CommandStart:
		u, created, err := b.users.Register(ctx, from.ID, usernameOf(from))
		if err != nil {
			return "", err
		}
		tmpl := TmplWelcomeBack
		if created {
			tmpl = TmplWelcome
		}
		return b.printer.Sprintf(tmpl, displayName(u.Username), u.Balance.Stars, u.Balance.Diamonds), nil

	case CommandBalance:
		u, err := b.users.GetProfileByTelegramID(ctx, from.ID)
		if errors.Is(err, domain.ErrNotFound) {
			return MsgNotRegistered, nil
		}
		if err != nil {
			return "", err
		}
		return b.printer.Sprintf(TmplBalance, u.Balance.Stars, u.Balance.Diamonds, u.WeeklySpending), nil

	case CommandHelp:
		return MsgHelp, nil
	}
	return "", nil
}

// parseCommand returns the lower-cased command of text without any @botname
// suffix, or "" if text is not a command.
func parseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	command, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(command)
}

func usernameOf(u *telego.User) string {
	if u.Username != "" {
		return u.Username
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return fmt.Sprintf("user%d", u.ID)
	}
	return name
}
