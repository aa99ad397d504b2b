package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFeed struct {
	ch     chan *pq.Notification
	mu     sync.Mutex
	closed bool
}

func (f *fakeFeed) NotificationChannel() <-chan *pq.Notification { return f.ch }
func (f *fakeFeed) Ping() error                                  { return nil }
func (f *fakeFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) Broadcast(msg []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, string(msg))
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

func TestEncodeEvent(t *testing.T) {
	msg, err := EncodeEvent(`{"id":"abc","severity":"info"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"notification","data":{"id":"abc","severity":"info"}}`, string(msg))

	_, err = EncodeEvent("not json")
	assert.Error(t, err)
}

func TestListener_ForwardsInOrder(t *testing.T) {
	f := &fakeFeed{ch: make(chan *pq.Notification, 4)}
	out := &recorder{}
	l := newListener(f, out, zap.NewNop(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	f.ch <- &pq.Notification{Channel: DefaultChannel, Extra: `{"n":1}`}
	f.ch <- nil
	f.ch <- &pq.Notification{Channel: DefaultChannel, Extra: `garbage`}
	f.ch <- &pq.Notification{Channel: DefaultChannel, Extra: `{"n":2}`}

	require.Eventually(t, func() bool { return len(out.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)
	msgs := out.snapshot()
	assert.JSONEq(t, `{"event":"notification","data":{"n":1}}`, msgs[0])
	assert.JSONEq(t, `{"event":"notification","data":{"n":2}}`, msgs[1])

	cancel()
	<-done
	f.mu.Lock()
	assert.True(t, f.closed)
	f.mu.Unlock()
}
