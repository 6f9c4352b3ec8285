package timer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// DefaultWSAddress is where LiveSplit's WebSocket server listens by default.
const DefaultWSAddress = "ws://localhost:16834/livesplit"

// wsPath is the endpoint LiveSplit serves its WebSocket server on.
const wsPath = "/livesplit"

// WSURL turns a settings address into a dialable URL. A bare host:port,
// as used for the TCP server, gets the ws scheme and LiveSplit's path.
func WSURL(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return DefaultWSAddress
	}
	if strings.Contains(addr, "://") {
		return addr
	}
	return "ws://" + strings.TrimSuffix(addr, "/") + wsPath
}

// LiveSplitWS drives LiveSplit through its WebSocket server.
// Commands are sent as text frames without line terminators.
type LiveSplitWS struct {
	client
	url string
}

// NewLiveSplitWS creates a lazily connecting WebSocket client.
func NewLiveSplitWS(url string, timeout time.Duration, logger *log.Logger) *LiveSplitWS {
	url = WSURL(url)
	if logger == nil {
		logger = log.New(io.Discard)
	}
	dialer := &websocket.Dialer{HandshakeTimeout: timeout}

	ls := &LiveSplitWS{url: url}
	ls.logger = logger
	ls.dial = func() (conn, error) {
		wc, _, err := dialer.Dial(url, nil)
		if err != nil {
			return nil, fmt.Errorf("timer: dial %s: %w", url, err)
		}
		return &wsConn{wc: wc, timeout: timeout}, nil
	}
	return ls
}

// URL returns the address the client dials.
func (ls *LiveSplitWS) URL() string {
	return ls.url
}

type wsConn struct {
	wc      *websocket.Conn
	timeout time.Duration
}

func (c *wsConn) send(cmd string) error {
	if c.timeout > 0 {
		c.wc.SetWriteDeadline(time.Now().Add(c.timeout))
	}
	return c.wc.WriteMessage(websocket.TextMessage, []byte(cmd))
}

func (c *wsConn) query(cmd string) (string, error) {
	if err := c.send(cmd); err != nil {
		return "", err
	}
	if c.timeout > 0 {
		c.wc.SetReadDeadline(time.Now().Add(c.timeout))
	}
	_, msg, err := c.wc.ReadMessage()
	if err != nil {
		return "", err
	}
	return string(msg), nil
}

func (c *wsConn) Close() error {
	return c.wc.Close()
}
