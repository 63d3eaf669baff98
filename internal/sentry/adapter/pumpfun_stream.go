package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"

	"golang-token-sentry/internal/sentry/config"
	"golang-token-sentry/internal/sentry/dto"
	"golang-token-sentry/internal/sentry/normalizer"
	"golang-token-sentry/internal/sentry/observability"
	"golang-token-sentry/pkg/backoff"
	"golang-token-sentry/pkg/logger"
	"golang-token-sentry/pkg/utils"
)

const (
	// streamWriteWait is the time allowed to write a message to the peer.
	streamWriteWait = 10 * time.Second

	// streamPongWait is the time allowed to read the next pong message.
	streamPongWait = 60 * time.Second

	// streamPingPeriod sends pings at this interval. Must be less than
	// streamPongWait.
	streamPingPeriod = (streamPongWait * 9) / 10

	// streamFatalCooldown is slept after a close code that signals the
	// server refused us, where hammering reconnects would make it worse.
	streamFatalCooldown = 5 * time.Minute
)

// PumpFunStream holds a persistent websocket subscription to the pump.fun
// portal feed and offers every new token creation to the pipeline.
type PumpFunStream struct {
	cfg  *config.Config
	log  *logger.Logger
	sink Sink
}

// NewPumpFunStream creates a new PumpFunStream.
func NewPumpFunStream(cfg *config.Config, log *logger.Logger, sink Sink) *PumpFunStream {
	return &PumpFunStream{cfg: cfg, log: log, sink: sink}
}

// Kind implements SourceAdapter.
func (s *PumpFunStream) Kind() string {
	return string(dto.SourcePumpFunStream)
}

// Run implements SourceAdapter. It keeps the subscription alive until the
// context is cancelled, reconnecting with exponential backoff. The backoff
// resets once a dial succeeds.
func (s *PumpFunStream) Run(ctx context.Context) {
	attempt := 0

	for {
		if ctx.Err() != nil {
			return
		}

		connected, err := s.session(ctx)
		if ctx.Err() != nil {
			return
		}
		if connected {
			attempt = 0
		}

		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && isFatalClose(closeErr.Code) {
			s.log.Error("pump.fun stream refused, cooling down",
				logger.IntField("close_code", closeErr.Code),
				logger.ErrorField(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(streamFatalCooldown):
			}
			attempt = 0
			continue
		}

		attempt++
		s.log.Warn("pump.fun stream disconnected, reconnecting",
			logger.IntField("attempt", attempt),
			logger.ErrorField(err))
		if err := backoff.Default.Sleep(ctx, attempt); err != nil {
			return
		}
	}
}

// session dials, subscribes and reads until the connection breaks. The
// returned bool reports whether the dial itself succeeded.
func (s *PumpFunStream) session(ctx context.Context) (bool, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 15 * time.Second}

	conn, _, err := dialer.DialContext(ctx, s.cfg.PumpFun.StreamURL, nil)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	if err := conn.WriteJSON(map[string]string{"method": "subscribeNewToken"}); err != nil {
		return true, err
	}

	s.log.Info("pump.fun stream connected", logger.StringField("url", s.cfg.PumpFun.StreamURL))

	conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(streamPongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	utils.GoSafe(func() {
		s.pingLoop(ctx, conn, done)
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return true, err
		}
		s.handleMessage(ctx, raw)
	}
}

func (s *PumpFunStream) pingLoop(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			conn.Close()
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *PumpFunStream) handleMessage(ctx context.Context, raw []byte) {
	var msg dto.NewTokenMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		observability.EventsMalformed.WithLabelValues(s.Kind()).Inc()
		return
	}

	// Subscription acks and service notices have no mint.
	if msg.Mint == "" {
		return
	}

	ev, err := normalizer.FromNewToken(msg)
	if err != nil {
		observability.EventsMalformed.WithLabelValues(s.Kind()).Inc()
		s.log.DebugContext(ctx, "dropping malformed stream message",
			logger.StringField("mint", msg.Mint),
			logger.ErrorField(err))
		return
	}

	observability.EventsIngested.WithLabelValues(s.Kind()).Inc()
	s.sink.Offer(ctx, ev)
}

func isFatalClose(code int) bool {
	switch code {
	case websocket.ClosePolicyViolation, websocket.CloseUnsupportedData, websocket.CloseMandatoryExtension:
		return true
	default:
		return false
	}
}
