package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/retailops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// DefaultChannel is the NOTIFY channel filled by the notifications insert trigger
const DefaultChannel = "notifications_feed"

// Broadcaster receives encoded feed events
type Broadcaster interface {
	Broadcast(msg []byte)
}

// feed is the subset of *pq.Listener the bridge consumes
type feed interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Event is the frame pushed to WebSocket clients
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Listener relays Postgres notifications on one channel to a Broadcaster
type Listener struct {
	feed         feed
	out          Broadcaster
	logger       *zap.Logger
	pingInterval time.Duration
}

// NewListener opens a LISTEN connection on cfg.Channel
func NewListener(dsn string, cfg config.RealtimeConfig, out Broadcaster, logger *zap.Logger) (*Listener, error) {
	channel := cfg.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	minReconnect, maxReconnect := cfg.MinReconnect, cfg.MaxReconnect
	if minReconnect <= 0 {
		minReconnect = time.Second
	}
	if maxReconnect < minReconnect {
		maxReconnect = time.Minute
	}

	log := logger.Named("realtime")
	pl := pq.NewListener(dsn, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed, pq.ListenerEventDisconnected:
			log.Warn("notification feed connection problem", zap.Int("event", int(ev)), zap.Error(err))
		case pq.ListenerEventReconnected:
			log.Info("notification feed reconnected")
		}
	})
	if err := pl.Listen(channel); err != nil {
		_ = pl.Close()
		return nil, fmt.Errorf("listen %s: %w", channel, err)
	}
	log.Info("listening for notifications", zap.String("channel", channel))

	return newListener(pl, out, log, cfg.PingInterval), nil
}

func newListener(f feed, out Broadcaster, logger *zap.Logger, pingInterval time.Duration) *Listener {
	if pingInterval <= 0 {
		pingInterval = 90 * time.Second
	}
	return &Listener{feed: f, out: out, logger: logger, pingInterval: pingInterval}
}

// Run forwards notifications until ctx is done, then closes the connection
func (l *Listener) Run(ctx context.Context) {
	ticker := time.NewTicker(l.pingInterval)
	defer func() {
		ticker.Stop()
		if err := l.feed.Close(); err != nil {
			l.logger.Warn("failed to close notification feed", zap.Error(err))
		}
	}()

	ch := l.feed.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			// nil is sent after a reconnect; rows inserted meanwhile are not replayed
			if n == nil {
				continue
			}
			l.forward(n.Extra)
		case <-ticker.C:
			go func() {
				if err := l.feed.Ping(); err != nil {
					l.logger.Warn("notification feed ping failed", zap.Error(err))
				}
			}()
		}
	}
}

func (l *Listener) forward(payload string) {
	msg, err := EncodeEvent(payload)
	if err != nil {
		l.logger.Warn("discarding malformed feed payload", zap.Error(err))
		return
	}
	l.out.Broadcast(msg)
}

// EncodeEvent wraps a JSON notification row as a "notification" event
func EncodeEvent(payload string) ([]byte, error) {
	if !json.Valid([]byte(payload)) {
		return nil, fmt.Errorf("payload is not JSON: %.64q", payload)
	}
	return json.Marshal(Event{Event: "notification", Data: json.RawMessage(payload)})
}
