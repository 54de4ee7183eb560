package broker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nyaya-ai/nyaya/internal/broker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBroker(t *testing.T) {
	t.Parallel()
	type testCase struct {
		name     string
		testFunc func(ctx context.Context, b *broker.ChannelBroker[string, string])
	}
	tests := []testCase{
		{
			name: "subscriber receives content",
			testFunc: func(ctx context.Context, b *broker.ChannelBroker[string, string]) {
				id := "stream-1"
				channel := make(chan string)
				b.Publish(ctx, id, channel)
				go func() {
					channel <- "Namaste"
					close(channel)
					b.Unpublish(ctx, id)
				}()
				subscriptionChan, ok := b.Subscribe(ctx, id)
				require.True(t, ok)
				require.Equal(t, "Namaste", <-subscriptionChan, "subscriber did not receive content")
				msg, ok := <-subscriptionChan
				require.Empty(t, msg, "subscriber received content after producer closed")
				require.False(t, ok, "channel not closed")
			},
		},
		{
			name: "unknown stream",
			testFunc: func(ctx context.Context, b *broker.ChannelBroker[string, string]) {
				c, ok := b.Subscribe(ctx, "missing")
				require.False(t, ok)
				require.Nil(t, c)
			},
		},
		{
			name: "subsequent subscribers block until producer is finished",
			testFunc: func(ctx context.Context, b *broker.ChannelBroker[string, string]) {
				id := "stream-1"
				channel := make(chan string)
				b.Publish(ctx, id, channel)
				producerFinished := atomic.Bool{}

				subscriptionChan, ok := b.Subscribe(ctx, id)
				require.True(t, ok)

				done := make(chan struct{})
				go func() {
					defer close(done)
					next, nextOK := b.Subscribe(ctx, id)
					assert.Nil(t, next, "subsequent subscriber received content")
					assert.False(t, nextOK, "subsequent subscriber not told the producer is finished")
					assert.True(t, producerFinished.Load(), "producer not finished before subsequent subscriber unblocked")
				}()

				// Give the second subscriber time to queue up.
				time.Sleep(10 * time.Millisecond)
				go func() {
					channel <- "Namaste"
					close(channel)
					producerFinished.Store(true)
					b.Unpublish(ctx, id)
				}()
				require.Equal(t, "Namaste", <-subscriptionChan, "subscriber did not receive content")
				<-done

				last, ok := b.Subscribe(ctx, id)
				require.Nil(t, last, "last subscriber received content")
				require.False(t, ok)
			},
		},
		{
			name: "finished stream stays available until claimed",
			testFunc: func(ctx context.Context, b *broker.ChannelBroker[string, string]) {
				id := "stream-1"
				channel := make(chan string, 1)
				claimed := b.Publish(ctx, id, channel)
				channel <- "Namaste"
				close(channel)

				select {
				case <-claimed:
					t.Fatal("claimed before anyone subscribed")
				default:
				}

				subscriptionChan, ok := b.Subscribe(ctx, id)
				require.True(t, ok)
				<-claimed
				b.Unpublish(ctx, id)
				require.Equal(t, "Namaste", <-subscriptionChan, "buffered content lost")
			},
		},
		{
			name: "discarded stream does not block its producer",
			testFunc: func(ctx context.Context, b *broker.ChannelBroker[string, string]) {
				id := "stream-1"
				channel := make(chan string)
				claimed := b.Publish(ctx, id, channel)
				subscriptionChan, ok := b.Subscribe(ctx, id)
				require.True(t, ok)
				broker.Discard(subscriptionChan)

				produced := make(chan struct{})
				go func() {
					defer close(produced)
					for range 10 {
						channel <- "chunk"
					}
					close(channel)
					<-claimed
					b.Unpublish(ctx, id)
				}()
				select {
				case <-produced:
				case <-time.After(time.Second):
					t.Fatal("producer blocked on an abandoned stream")
				}
				_, ok = b.Subscribe(ctx, id)
				require.False(t, ok, "stream still published")
			},
		},
		{
			name: "waiting subscriber gives up when its context ends",
			testFunc: func(ctx context.Context, b *broker.ChannelBroker[string, string]) {
				id := "stream-1"
				b.Publish(ctx, id, make(chan string))
				_, ok := b.Subscribe(ctx, id)
				require.True(t, ok)

				waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
				defer cancel()
				_, ok = b.Subscribe(waitCtx, id)
				require.False(t, ok)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithCancel(t.Context())
			t.Cleanup(cancel)
			br := broker.NewChannelBroker[string, string]()
			go br.Run(ctx)
			tt.testFunc(ctx, br)
		})
	}
}
