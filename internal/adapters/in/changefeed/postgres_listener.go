package changefeed

import (
	"context"
	"log/slog"
	"time"

	"freight/internal/adapters/changefeedwire"
	"freight/internal/core/ports"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = 1 * time.Second
	maxReconnectInterval = 30 * time.Second
	pingInterval         = 90 * time.Second
)

// PostgresListener forwards notifications raised by the cargos and drivers
// triggers into a publisher, usually the Hub.
type PostgresListener struct {
	dsn    string
	target ports.ChangePublisher
	logger *slog.Logger
}

func NewPostgresListener(dsn string, target ports.ChangePublisher, logger *slog.Logger) *PostgresListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresListener{
		dsn:    dsn,
		target: target,
		logger: logger.With("component", "postgres_listener"),
	}
}

// Run listens until ctx is done. After a reconnect it publishes a pool tick,
// since notifications sent while disconnected are lost.
func (l *PostgresListener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, minReconnectInterval, maxReconnectInterval, l.onEvent)
	defer func() { _ = listener.Close() }()

	if err := listener.Listen(changefeedwire.Channel); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "listening for changes", "channel", changefeedwire.Channel)

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			l.forward(ctx, n)
		case <-ping.C:
			go func() {
				if err := listener.Ping(); err != nil {
					l.logger.WarnContext(ctx, "listener ping failed", "error", err)
				}
			}()
		}
	}
}

func (l *PostgresListener) forward(ctx context.Context, n *pq.Notification) {
	var event ports.ChangeEvent
	if n == nil {
		event = ports.ChangeEvent{Kind: ports.PoolChanged}
	} else {
		decoded, err := changefeedwire.Decode([]byte(n.Extra))
		if err != nil {
			l.logger.WarnContext(ctx, "skipping malformed notification", "payload", n.Extra, "error", err)
			return
		}
		event = decoded
	}

	if err := l.target.Publish(ctx, event); err != nil {
		l.logger.WarnContext(ctx, "failed to forward change", "kind", string(event.Kind), "error", err)
	}
}

func (l *PostgresListener) onEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected:
		l.logger.Debug("listener connected")
	case pq.ListenerEventDisconnected:
		l.logger.Warn("listener disconnected", "error", err)
	case pq.ListenerEventReconnected:
		l.logger.Info("listener reconnected")
	case pq.ListenerEventConnectionAttemptFailed:
		l.logger.Error("listener connection attempt failed", "error", err)
	}
}
