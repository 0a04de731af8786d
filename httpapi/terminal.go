package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm/internal/logx"
	"pkt.systems/rhinoterm/internal/shell"
	"pkt.systems/rhinoterm/schema"
)

const (
	pingInterval  = 30 * time.Second
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	// firstSizeWait bounds how long the banner waits for the client size.
	firstSizeWait = 2 * time.Second
	sendBuffer    = 256
)

var errTerminalClosed = errors.New("web terminal closed")

// serverFrame is sent to the page.
type serverFrame struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
}

// clientFrame is received from the page.
type clientFrame struct {
	Type string `json:"type"`
	Data string `json:"data,omitempty"`
	Cols int    `json:"cols,omitempty"`
	Rows int    `json:"rows,omitempty"`
}

// wsTerminal is the shell.Surface of one websocket. Write, Clear and
// ScrollToBottom run on the session goroutine only.
type wsTerminal struct {
	conn *websocket.Conn
	send chan []byte
	dead chan struct{}
	log  pslog.Logger
}

func newWSTerminal(conn *websocket.Conn, log pslog.Logger) *wsTerminal {
	return &wsTerminal{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		dead: make(chan struct{}),
		log:  log,
	}
}

func (t *wsTerminal) Write(p []byte) (int, error) {
	if err := t.push(serverFrame{Type: "output", Data: string(p)}); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (t *wsTerminal) Clear() {
	_ = t.push(serverFrame{Type: "clear"})
}

func (t *wsTerminal) ScrollToBottom() {
	_ = t.push(serverFrame{Type: "scroll"})
}

func (t *wsTerminal) push(frame serverFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	select {
	case t.send <- data:
		return nil
	case <-t.dead:
		return errTerminalClosed
	}
}

// writePump owns all writes to the connection. It drains send until the
// channel is closed, then sends a close frame.
func (t *wsTerminal) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		close(t.dead)
	}()
	for {
		select {
		case message, ok := <-t.send:
			_ = t.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				_ = t.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "logout"))
				return
			}
			if err := t.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				t.log.Debug("websocket write failed", "err", err)
				return
			}
		case <-ticker.C:
			_ = t.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := t.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				t.log.Debug("websocket ping failed", "err", err)
				return
			}
		}
	}
}

// readPump feeds input frames to keys and size frames to resize. The
// first size is also offered on first. keys is closed when the peer goes away.
func (t *wsTerminal) readPump(keys *io.PipeWriter, resize chan shell.Size, first chan<- shell.Size) {
	defer func() { _ = keys.Close() }()
	_ = t.conn.SetReadDeadline(time.Now().Add(readDeadline))
	t.conn.SetPongHandler(func(string) error {
		return t.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})
	sized := false
	for {
		_, message, err := t.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				t.log.Debug("websocket read failed", "err", err)
			}
			return
		}
		var frame clientFrame
		if err := json.Unmarshal(message, &frame); err != nil {
			t.log.Debug("websocket frame rejected", "err", err)
			continue
		}
		switch frame.Type {
		case "input":
			if frame.Data == "" {
				continue
			}
			if _, err := io.WriteString(keys, frame.Data); err != nil {
				return
			}
		case "resize":
			size := shell.Size{Width: frame.Cols, Height: frame.Rows}
			if !sized {
				sized = true
				first <- size
				continue
			}
			offerSize(resize, size)
		default:
			t.log.Debug("websocket frame ignored", "type", frame.Type)
		}
	}
}

// offerSize replaces any undelivered size with the newest one.
func offerSize(resize chan shell.Size, size shell.Size) {
	select {
	case resize <- size:
		return
	default:
	}
	select {
	case <-resize:
	default:
	}
	select {
	case resize <- size:
	default:
	}
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		pslog.Ctx(r.Context()).Warn("websocket upgrade failed", "remote", clientIP(r), "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	id := schema.NewSessionID()
	remote := clientIP(r)
	ctx, release := s.sessions.open(r.Context(), id, remote)
	defer release()
	log := logx.WithRemote(logx.WithSessionSurface(ctx, id, schema.SurfaceWeb), remote)
	ctx = logx.ContextWithSessionLogger(ctx, log, id, schema.SurfaceWeb)
	log.Info("web session opened", "active", s.sessions.count())

	term := newWSTerminal(conn, log)
	pumpDone := make(chan struct{})
	go func() {
		term.writePump()
		close(pumpDone)
	}()

	keys, keysIn := io.Pipe()
	resize := make(chan shell.Size, 1)
	first := make(chan shell.Size, 1)
	go term.readPump(keysIn, resize, first)

	var size shell.Size
	timer := time.NewTimer(firstSizeWait)
	select {
	case size = <-first:
	case <-timer.C:
		log.Debug("web session size unknown, using default")
	case <-ctx.Done():
	}
	timer.Stop()

	session := shell.NewSession(s.content.Current(), term, shell.Options{
		ID:      id,
		Surface: schema.SurfaceWeb,
		Audio:   shell.Bell{W: term},
		Config:  s.shell,
		Size:    size,
	})
	_ = session.Run(ctx, keys, resize)
	_ = keys.Close()

	close(term.send)
	select {
	case <-pumpDone:
	case <-time.After(writeDeadline):
	}
	log.Info("web session closed")
}
