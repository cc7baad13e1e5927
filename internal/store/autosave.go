package store

import (
	"context"
	"log/slog"
	"sync"

	"panelshell/internal/bus"
	"panelshell/internal/panels"
)

// Autosave persists every panel-layout-changed notification under name. Saves
// run on their own goroutine so the UI loop never waits on disk. The returned
// stop function unsubscribes and waits for the last save.
func (s *Store) Autosave(ctx context.Context, b *bus.Bus, name string, log *slog.Logger) (stop func()) {
	ch := make(chan bus.Message, 16)
	unsubscribe := b.Forward(panels.TopicLayoutChanged, ch)
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				// Flush whatever is queued so the final layout is not lost.
				for {
					select {
					case msg := <-ch:
						s.saveMessage(name, msg, log)
					default:
						return
					}
				}
			case msg := <-ch:
				s.saveMessage(name, msg, log)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			cancel()
			wg.Wait()
		})
	}
}

func (s *Store) saveMessage(name string, msg bus.Message, log *slog.Logger) {
	info, ok := msg.Payload.(panels.LayoutInfo)
	if !ok {
		return
	}
	if err := s.Save(name, info); err != nil && log != nil {
		log.Warn("autosave failed", slog.String("layout", name), slog.Any("error", err))
	}
}
