// Package bus is the in-process publish/request messaging bus that connects
// the panel engine to the rest of the application.
//
// Notifications are fanned out synchronously to subscribers in subscription
// order. Commands have at most one handler each; Request dispatches to it.
package bus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// ErrNoHandler is returned by Request when nothing handles the command.
var ErrNoHandler = errors.New("no handler for command")

// Message is a published notification.
type Message struct {
	Topic     string
	Payload   any
	Timestamp time.Time
}

// CommandHandler handles one inbound command.
type CommandHandler = func(ctx context.Context, payload any) error

type subscription struct {
	id int
	fn func(Message)
}

// Bus routes notifications and commands.
type Bus struct {
	mu       sync.RWMutex
	subs     map[string][]subscription
	commands map[string]CommandHandler
	nextID   int
	log      *slog.Logger
}

// New creates an empty bus. A nil logger discards.
func New(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Bus{
		subs:     make(map[string][]subscription),
		commands: make(map[string]CommandHandler),
		log:      log,
	}
}

// Publish delivers payload to every subscriber of topic.
func (b *Bus) Publish(topic string, payload any) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[topic]...)
	wildcard := append([]subscription(nil), b.subs["*"]...)
	b.mu.RUnlock()

	msg := Message{Topic: topic, Payload: payload, Timestamp: time.Now()}
	b.log.Debug("publish", slog.String("topic", topic), slog.Int("subscribers", len(subs)+len(wildcard)))
	for _, s := range subs {
		s.fn(msg)
	}
	for _, s := range wildcard {
		s.fn(msg)
	}
}

// Subscribe registers fn for topic ("*" receives every topic). The returned
// function removes the subscription.
func (b *Bus) Subscribe(topic string, fn func(Message)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, s := range list {
			if s.id == id {
				b.subs[topic] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// OnCommand registers the handler for name, replacing any previous one.
func (b *Bus) OnCommand(name string, handler func(ctx context.Context, payload any) error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.commands[name]; ok {
		b.log.Warn("replacing command handler", slog.String("command", name))
	}
	b.commands[name] = handler
}

// Request dispatches a command to its handler and returns the handler's error.
func (b *Bus) Request(ctx context.Context, name string, payload any) error {
	b.mu.RLock()
	h, ok := b.commands[name]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrNoHandler)
	}
	if err := h(ctx, payload); err != nil {
		b.log.Warn("command failed", slog.String("command", name), slog.Any("error", err))
		return err
	}
	return nil
}

// Commands returns the registered command names, sorted.
func (b *Bus) Commands() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.commands))
	for k := range b.commands {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
