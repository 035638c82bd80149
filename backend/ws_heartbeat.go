package main

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

const (
	wsIdlePingInterval = 30 * time.Second
	wsWriteTimeout     = 10 * time.Second
)

// writeWSWithHeartbeat drains send into conn until send is closed. A ping
// message goes out whenever nothing was written for idle.
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte, idle time.Duration) error {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping := mustMarshal(wsMessage{Type: "ping"})

	write := func(msg []byte) error {
		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
			return errors.Wrap(err, "set write deadline")
		}
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return errors.Wrap(err, "write message")
		}
		lastWrite = time.Now()
		return nil
	}

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return nil
			}
			if err := write(msg); err != nil {
				return err
			}
		case <-ticker.C:
			if time.Since(lastWrite) < idle {
				continue
			}
			if err := write(ping); err != nil {
				return err
			}
		}
	}
}
