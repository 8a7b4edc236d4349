// Package telegram connects the economy to Telegram: a notifier that
// announces rare drops in a chat and a bot answering account commands.
package telegram

import (
	"context"
	"fmt"
	"html"
	"sync"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/StarCase_Go/internal/domain"
	"github.com/osse101/StarCase_Go/internal/event"
	"github.com/osse101/StarCase_Go/internal/logger"
	"github.com/osse101/StarCase_Go/internal/metrics"
)

// Sender is the part of *telego.Bot used here
type Sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// NotifierConfig configures the drop notifier
type NotifierConfig struct {
	ChatID      int64
	MinRarity   domain.Rarity
	QueueSize   int
	SendTimeout time.Duration
}

// Notifier announces drops at or above a rarity threshold. Bus handlers only
// enqueue; a single worker does the network calls so openings never wait on
// Telegram.
type Notifier struct {
	sender  Sender
	cfg     NotifierConfig
	printer *message.Printer

	queue     chan string
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewNotifier creates a notifier. Call Start before publishing events.
func NewNotifier(sender Sender, cfg NotifierConfig) *Notifier {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = DefaultSendTimeout
	}
	if !cfg.MinRarity.Valid() {
		cfg.MinRarity = domain.RarityLegendary
	}
	return &Notifier{
		sender:  sender,
		cfg:     cfg,
		printer: message.NewPrinter(language.English),
		queue:   make(chan string, cfg.QueueSize),
		done:    make(chan struct{}),
	}
}

// Subscribe registers the notifier on the bus
func (n *Notifier) Subscribe(bus event.Bus) {
	bus.Subscribe(event.CaseOpened, n.handleCaseOpened)
	bus.Subscribe(event.ItemUpgraded, n.handleItemUpgraded)
}

// Start launches the send worker
func (n *Notifier) Start(ctx context.Context) {
	n.startOnce.Do(func() {
		n.wg.Add(1)
		go n.run(context.WithoutCancel(ctx))
		logger.FromContext(ctx).Info(LogMsgNotifierStarted, "chat_id", n.cfg.ChatID, "min_rarity", n.cfg.MinRarity)
	})
}

// Shutdown stops accepting messages, drains the queue and waits for the
// worker until ctx expires.
func (n *Notifier) Shutdown(ctx context.Context) error {
	n.stopOnce.Do(func() { close(n.done) })

	finished := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		logger.FromContext(ctx).Info(LogMsgNotifierStopped)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) run(ctx context.Context) {
	defer n.wg.Done()
	for {
		select {
		case text := <-n.queue:
			n.send(ctx, text)
		case <-n.done:
			for {
				select {
				case text := <-n.queue:
					n.send(ctx, text)
				default:
					return
				}
			}
		}
	}
}

func (n *Notifier) send(ctx context.Context, text string) {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.SendTimeout)
	defer cancel()

	params := tu.Message(tu.ID(n.cfg.ChatID), text).WithParseMode(telego.ModeHTML)
	if _, err := n.sender.SendMessage(ctx, params); err != nil {
		metrics.TelegramNotifications.WithLabelValues(StatusFailed).Inc()
		logger.FromContext(ctx).Warn(LogMsgNotifyFailed, "chat_id", n.cfg.ChatID, "error", err)
		return
	}
	metrics.TelegramNotifications.WithLabelValues(StatusSent).Inc()
}

func (n *Notifier) enqueue(ctx context.Context, text string) {
	select {
	case <-n.done:
		metrics.TelegramNotifications.WithLabelValues(StatusDropped).Inc()
		return
	default:
	}

	select {
	case n.queue <- text:
	default:
		metrics.TelegramNotifications.WithLabelValues(StatusDropped).Inc()
		logger.FromContext(ctx).Warn(LogMsgNotifyQueueFull, "queue_size", n.cfg.QueueSize)
	}
}

func (n *Notifier) worthy(rarity string) bool {
	return domain.Rarity(rarity).AtLeast(n.cfg.MinRarity)
}

func (n *Notifier) handleCaseOpened(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.CaseOpenedPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "type", evt.Type, "error", err)
		return fmt.Errorf("decode %s: %w", evt.Type, err)
	}
	for _, drop := range payload.Drops {
		if !n.worthy(drop.Rarity) {
			metrics.TelegramNotifications.WithLabelValues(StatusSkipped).Inc()
			continue
		}
		n.enqueue(ctx, n.formatCaseDrop(payload, drop))
	}
	return nil
}

func (n *Notifier) handleItemUpgraded(ctx context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[event.ItemUpgradedPayloadV1](evt.Payload)
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgDecodeFailed, "type", evt.Type, "error", err)
		return fmt.Errorf("decode %s: %w", evt.Type, err)
	}
	if !payload.Success || payload.Drop == nil || !n.worthy(payload.Drop.Rarity) {
		return nil
	}
	n.enqueue(ctx, n.formatUpgrade(payload))
	return nil
}

func (n *Notifier) formatCaseDrop(p event.CaseOpenedPayloadV1, d event.DropV1) string {
	caseName := p.CaseName
	if caseName == "" {
		caseName = p.CaseID
	}
	return n.printer.Sprintf(TmplCaseDrop,
		displayName(p.Username), html.EscapeString(caseName),
		html.EscapeString(d.ItemName), html.EscapeString(d.Rarity), d.StarValue)
}

func (n *Notifier) formatUpgrade(p event.ItemUpgradedPayloadV1) string {
	return n.printer.Sprintf(TmplUpgradeDrop,
		displayName(p.Username), html.EscapeString(p.Drop.ItemName),
		html.EscapeString(p.Drop.Rarity), p.Drop.StarValue, p.Chance*100)
}

func displayName(username string) string {
	if username == "" {
		return AnonymousName
	}
	return html.EscapeString(username)
}
