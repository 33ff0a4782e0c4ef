package http

import (
	"context"
	"time"

	"freight/internal/core/application/session"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Stream handles GET /api/v1/ws. It sends the current snapshot, then a fresh
// one after every change that concerns the driver. Incoming messages are
// ignored; the read loop only detects a closed client.
//
//	@Summary	Snapshot stream over a websocket
//	@Tags		stream
//	@Security	BearerAuth
//	@Produce	json
//	@Success	101
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/ws [get]
func (s *Server) Stream(c echo.Context) error {
	sess, release, err := s.sessions.Hold(currentDriver(c))
	if err != nil {
		return s.fail(c, err)
	}
	defer release()

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	go s.readUntilClosed(conn, cancel)

	var (
		out      = make(chan session.Snapshot, 1)
		syncDone = make(chan error, 1)
	)
	go func() {
		syncDone <- sess.Sync(ctx, s.feed, func(snap session.Snapshot) {
			select {
			case <-out:
			default:
			}
			out <- snap
		})
	}()

	if snap, refreshErr := sess.Refresh(ctx); refreshErr == nil {
		if err = writeSnapshot(conn, snap); err != nil {
			return nil
		}
	} else {
		s.logger.WarnContext(ctx, "initial snapshot failed", "error", refreshErr)
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err = <-syncDone:
			if err != nil && ctx.Err() == nil {
				s.logger.WarnContext(ctx, "change feed ended", "error", err)
			}
			return nil
		case snap := <-out:
			if err = writeSnapshot(conn, snap); err != nil {
				return nil
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err = conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

func (s *Server) readUntilClosed(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeSnapshot(conn *websocket.Conn, snap session.Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(toSnapshotResponse(snap))
}
