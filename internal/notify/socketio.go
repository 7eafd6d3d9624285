package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/gridcalc/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

const (
	// DefaultEvent is the event name used when SocketIOConfig.Event is empty.
	DefaultEvent          = "recalculated"
	defaultConnectTimeout = 15 * time.Second
)

// ErrNotConnected is returned by SocketIO.Notify once the connection is gone.
var ErrNotConnected = errors.New("notify: socket.io client is not connected")

// SocketIOConfig holds the connection settings for a socket.io publisher.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	// ConnectTimeout bounds the wait for the initial connection. Zero means
	// 15 seconds.
	ConnectTimeout time.Duration
}

// SocketIO publishes events to a socket.io server.
type SocketIO struct {
	event     string
	sid       string
	emit      func(event string, payload any)
	connected func() bool
	close     func()
}

// DialSocketIO connects to the server described by cfg and waits until the
// connection is established, the timeout expires or ctx is cancelled.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", cfg.URL)

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid socket.io URL %q: scheme and host are required", cfg.URL)
	}

	event := cfg.Event
	if event == "" {
		event = DefaultEvent
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Connected", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	logger.Debug("Initiating connection...")
	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %v waiting for socket.io connection", timeout)
	}

	return &SocketIO{
		event:     event,
		sid:       string(io.Id()),
		emit:      func(ev string, payload any) { io.Emit(ev, payload) },
		connected: io.Connected,
		close:     func() { io.Disconnect() },
	}, nil
}

// Notify implements Notifier by emitting the event payload.
func (s *SocketIO) Notify(ctx context.Context, ev Event) error {
	if !s.connected() {
		return ErrNotConnected
	}
	ctxlog.FromContext(ctx).Debug("Emitting event", "event", s.event, "sid", s.sid, "cell", ev.Cell)
	s.emit(s.event, ev.Payload())
	return nil
}

// Close disconnects from the server.
func (s *SocketIO) Close() error {
	s.close()
	return nil
}
