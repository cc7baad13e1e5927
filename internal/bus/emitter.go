package bus

// ChanEmitter forwards messages to a channel without blocking the publisher.
type ChanEmitter struct {
	Ch chan<- Message
}

// Emit sends the message to the channel (non-blocking; drops if full).
func (e *ChanEmitter) Emit(msg Message) {
	select {
	case e.Ch <- msg:
	default:
		// Channel full; drop rather than stall the UI loop
	}
}

// Forward subscribes a ChanEmitter for topic and returns the unsubscribe func.
func (b *Bus) Forward(topic string, ch chan<- Message) func() {
	e := &ChanEmitter{Ch: ch}
	return b.Subscribe(topic, e.Emit)
}
