package bus

import (
	"context"
	"errors"
	"testing"
)

func TestPublish_DeliversInSubscriptionOrder(t *testing.T) {
	b := New(nil)
	var got []string
	b.Subscribe("t", func(m Message) { got = append(got, "first:"+m.Payload.(string)) })
	b.Subscribe("t", func(m Message) { got = append(got, "second:"+m.Payload.(string)) })
	b.Subscribe("other", func(m Message) { got = append(got, "other") })
	b.Subscribe("*", func(m Message) { got = append(got, "wild:"+m.Topic) })

	b.Publish("t", "x")

	want := []string{"first:x", "second:x", "wild:t"}
	if len(got) != len(want) {
		t.Fatalf("Publish: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Publish[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPublish_SetsTimestamp(t *testing.T) {
	b := New(nil)
	var msg Message
	b.Subscribe("t", func(m Message) { msg = m })

	b.Publish("t", 1)

	if msg.Timestamp.IsZero() {
		t.Error("Publish: expected timestamp to be set")
	}
	if msg.Topic != "t" {
		t.Errorf("Publish: topic = %q", msg.Topic)
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	b := New(nil)
	calls := 0
	unsubscribe := b.Subscribe("t", func(Message) { calls++ })

	b.Publish("t", nil)
	unsubscribe()
	unsubscribe()
	b.Publish("t", nil)

	if calls != 1 {
		t.Errorf("Unsubscribe: expected 1 call, got %d", calls)
	}
}

func TestSubscribe_DuringPublish(t *testing.T) {
	b := New(nil)
	calls := 0
	b.Subscribe("t", func(Message) {
		b.Subscribe("t", func(Message) { calls++ })
	})

	b.Publish("t", nil)
	if calls != 0 {
		t.Errorf("Publish: subscriber added mid-publish should not run, got %d calls", calls)
	}
}

func TestRequest(t *testing.T) {
	b := New(nil)
	var got any
	b.OnCommand("do", func(_ context.Context, payload any) error {
		got = payload
		return nil
	})
	boom := errors.New("boom")
	b.OnCommand("fail", func(context.Context, any) error { return boom })

	if err := b.Request(context.Background(), "do", 7); err != nil {
		t.Fatalf("Request do: %v", err)
	}
	if got != 7 {
		t.Errorf("Request do: payload = %v", got)
	}
	if err := b.Request(context.Background(), "fail", nil); !errors.Is(err, boom) {
		t.Errorf("Request fail: expected boom, got %v", err)
	}
	if err := b.Request(context.Background(), "missing", nil); !errors.Is(err, ErrNoHandler) {
		t.Errorf("Request missing: expected ErrNoHandler, got %v", err)
	}
}

func TestOnCommand_Replaces(t *testing.T) {
	b := New(nil)
	which := ""
	b.OnCommand("c", func(context.Context, any) error { which = "old"; return nil })
	b.OnCommand("c", func(context.Context, any) error { which = "new"; return nil })

	_ = b.Request(context.Background(), "c", nil)

	if which != "new" {
		t.Errorf("OnCommand: expected replacement handler, got %q", which)
	}
	if cmds := b.Commands(); len(cmds) != 1 || cmds[0] != "c" {
		t.Errorf("Commands: got %v", cmds)
	}
}

func TestChanEmitter_DropsWhenFull(t *testing.T) {
	ch := make(chan Message, 1)
	emitter := &ChanEmitter{Ch: ch}

	emitter.Emit(Message{Topic: "first"})
	emitter.Emit(Message{Topic: "dropped"})

	got := <-ch
	if got.Topic != "first" {
		t.Errorf("Emit: expected first message, got %q", got.Topic)
	}
	select {
	case m := <-ch:
		t.Errorf("Emit: expected drop, got %q", m.Topic)
	default:
	}
}

func TestForward(t *testing.T) {
	b := New(nil)
	ch := make(chan Message, 4)
	stop := b.Forward("layout", ch)

	b.Publish("layout", 1)
	b.Publish("other", 2)
	stop()
	b.Publish("layout", 3)

	if len(ch) != 1 {
		t.Fatalf("Forward: expected 1 message, got %d", len(ch))
	}
	if m := <-ch; m.Payload != 1 {
		t.Errorf("Forward: payload = %v", m.Payload)
	}
}
