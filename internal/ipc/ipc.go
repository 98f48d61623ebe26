// Package ipc carries voice-engine events into the daemon over a unix
// socket, one JSON-encoded event per connection.
package ipc

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"

	"feeder/internal/voice"
)

// DefaultSocket is where feederd listens for voice events.
const DefaultSocket = "/tmp/feederd.sock"

// Serve listens on the unix socket and hands each decoded event to
// handler. The accept loop runs until the returned listener is closed.
func Serve(path string, handler func(voice.Event)) (net.Listener, error) {
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handleConn(conn, handler)
		}
	}()

	return ln, nil
}

func handleConn(conn net.Conn, handler func(voice.Event)) {
	defer conn.Close()

	var ev voice.Event
	if err := json.NewDecoder(conn).Decode(&ev); err != nil {
		slog.Warn("Dropping malformed event", "err", err)
		return
	}
	handler(ev)
}

// Send delivers one event to a running daemon.
func Send(path string, ev voice.Event) error {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(ev)
}
