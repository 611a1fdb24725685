package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type streamConfig struct {
	pingInterval time.Duration
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

func defaultStreamConfig() streamConfig {
	return streamConfig{
		pingInterval: 30 * time.Second,
		writeTimeout: 10 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// streamAggregates pushes the current aggregates on connect and again
// after every published market snapshot. Bursts of updates collapse into
// one message.
func (s *Server) streamAggregates(w http.ResponseWriter, r *http.Request) {
	conn, err := s.stream.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("stream upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	notify := make(chan struct{}, 1)
	notify <- struct{}{}
	unwatch := s.service.Watch(func() {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	defer unwatch()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(s.stream.pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-s.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.stream.writeTimeout))
			return
		case <-ping.C:
			deadline := time.Now().Add(s.stream.writeTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-notify:
			_ = conn.SetWriteDeadline(time.Now().Add(s.stream.writeTimeout))
			if err := conn.WriteJSON(newAggregatesView(s.service.Aggregates())); err != nil {
				s.logger.Debug("stream write failed", zap.Error(err))
				return
			}
		}
	}
}
