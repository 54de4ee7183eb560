// Package broker hands streamed chat replies from the goroutine producing them to the HTTP handler serving them.
package broker

import "context"

type publication[TID comparable, TPayload any] struct {
	id      TID
	channel chan TPayload
	claimed chan struct{}
}

type subscription[TID comparable, TPayload any] struct {
	id      TID
	channel chan chan TPayload
}

// ChannelBroker passes a channel with ID from producer to the first consumer.
//
// Later consumers wait until the producer unpublishes and then receive a closed channel. A reconnecting browser
// thus learns that the stream is over instead of seeing a partial reply twice.
type ChannelBroker[TID comparable, TPayload any] struct {
	publish     chan publication[TID, TPayload]
	unpublish   chan TID
	subscribe   chan subscription[TID, TPayload]
	unsubscribe chan subscription[TID, TPayload]
}

func NewChannelBroker[TID comparable, TPayload any]() *ChannelBroker[TID, TPayload] {
	return &ChannelBroker[TID, TPayload]{
		publish:     make(chan publication[TID, TPayload]),
		unpublish:   make(chan TID),
		subscribe:   make(chan subscription[TID, TPayload]),
		unsubscribe: make(chan subscription[TID, TPayload]),
	}
}

// Run dispatches publications to subscribers until ctx is done.
func (b *ChannelBroker[TID, TPayload]) Run(ctx context.Context) {
	published := map[TID]publication[TID, TPayload]{}
	claimed := map[TID]bool{}
	waiting := map[TID][]chan chan TPayload{}
	for {
		select {
		case <-ctx.Done():
			for _, subscribers := range waiting {
				for _, s := range subscribers {
					close(s)
				}
			}
			return

		case s := <-b.subscribe:
			p, ok := published[s.id]
			switch {
			case !ok:
				// Finished or never started.
				close(s.channel)
			case !claimed[s.id]:
				claimed[s.id] = true
				close(p.claimed)
				s.channel <- p.channel
			default:
				waiting[s.id] = append(waiting[s.id], s.channel)
			}

		case s := <-b.unsubscribe:
			subscribers := waiting[s.id]
			for i, c := range subscribers {
				if c == s.channel {
					waiting[s.id] = append(subscribers[:i], subscribers[i+1:]...)
					break
				}
			}

		case p := <-b.publish:
			published[p.id] = p

		case id := <-b.unpublish:
			for _, s := range waiting[id] {
				close(s)
			}
			delete(published, id)
			delete(claimed, id)
			delete(waiting, id)
		}
	}
}

// Subscribe returns the producer's channel for id to the first subscriber. ok is false when the stream is unknown,
// already finished or ctx ended while waiting for another subscriber's stream to finish.
func (b *ChannelBroker[TID, TPayload]) Subscribe(ctx context.Context, id TID) (chan TPayload, bool) {
	s := subscription[TID, TPayload]{id: id, channel: make(chan chan TPayload, 1)}
	select {
	case b.subscribe <- s:
	case <-ctx.Done():
		return nil, false
	}
	select {
	case c, ok := <-s.channel:
		return c, ok
	case <-ctx.Done():
		select {
		case b.unsubscribe <- s:
		case c, ok := <-s.channel:
			if ok {
				// The stream was claimed for us just as we gave up.
				Discard(c)
			}
		}
		return nil, false
	}
}

// Discard drains a claimed channel nobody is going to read so that its producer can finish and unpublish.
func Discard[TPayload any](channel <-chan TPayload) {
	go func() {
		for range channel { //nolint:revive // draining
		}
	}()
}

// Publish makes channel available to the first subscriber of id. The returned channel is closed once a subscriber
// has claimed it, or right away when ctx ends before the stream could be published.
//
// A producer that finishes before anyone subscribed should wait for the claim before calling Unpublish, otherwise the
// reply is lost.
func (b *ChannelBroker[TID, TPayload]) Publish(ctx context.Context, id TID, channel chan TPayload) <-chan struct{} {
	claimed := make(chan struct{})
	select {
	case b.publish <- publication[TID, TPayload]{id: id, channel: channel, claimed: claimed}:
	case <-ctx.Done():
		close(claimed)
	}
	return claimed
}

// Unpublish removes the stream and releases the waiting subscribers. The producer calls it when it is done.
func (b *ChannelBroker[TID, TPayload]) Unpublish(ctx context.Context, id TID) {
	select {
	case b.unpublish <- id:
	case <-ctx.Done():
	}
}
