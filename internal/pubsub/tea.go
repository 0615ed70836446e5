package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// maxBatch bounds how many queued events one Batch carries.
const maxBatch = 64

// Batch is the tea.Msg a ContinuousListener delivers: the event that woke
// it followed by any events already queued behind it, oldest first.
// Delivering a burst as one message costs one Update and one render.
type Batch[T any] struct {
	Events []Event[T]
}

// ContinuousListener keeps one subscription alive across Update calls.
// Call Listen again after handling each Batch to keep receiving.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewContinuousListener subscribes to broker for the lifetime of ctx.
func NewContinuousListener[T any](ctx context.Context, broker *Broker[T]) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx),
	}
}

// Listen returns a tea.Cmd that waits for the next Batch. It is nil on a
// nil listener, and the command yields nil once ctx is done or the broker
// closed the subscription.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		var first Event[T]
		select {
		case <-l.ctx.Done():
			return nil
		case event, ok := <-l.ch:
			if !ok {
				return nil
			}
			first = event
		}

		batch := Batch[T]{Events: []Event[T]{first}}
		for len(batch.Events) < maxBatch {
			select {
			case event, ok := <-l.ch:
				if !ok {
					return batch
				}
				batch.Events = append(batch.Events, event)
			default:
				return batch
			}
		}
		return batch
	}
}
