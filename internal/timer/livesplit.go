package timer

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/chained-autosplit/internal/engine"
)

// LiveSplit Server commands.
const (
	cmdStart       = "starttimer"
	cmdSplit       = "split"
	cmdReset       = "reset"
	cmdInitGame    = "initgametime"
	cmdSetGameTime = "setgametime"
	cmdGetPhase    = "getcurrenttimerphase"
)

// DefaultTCPAddress is LiveSplit Server's default listen address.
const DefaultTCPAddress = "localhost:16834"

// ParsePhase converts a LiveSplit phase name. Anything unrecognized is Unknown.
func ParsePhase(s string) engine.TimerPhase {
	switch strings.TrimSpace(s) {
	case "NotRunning":
		return engine.PhaseNotRunning
	case "Running":
		return engine.PhaseRunning
	case "Paused":
		return engine.PhasePaused
	case "Ended":
		return engine.PhaseEnded
	default:
		return engine.PhaseUnknown
	}
}

// formatSeconds renders game time the way LiveSplit's parser accepts it.
func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 2, 64)
}

// conn is one live connection to a LiveSplit server.
type conn interface {
	send(cmd string) error
	query(cmd string) (string, error)
	io.Closer
}

// client shares reconnect and error handling between the transports.
// A failed command drops the connection; the next command redials.
type client struct {
	mu       sync.Mutex
	dial     func() (conn, error)
	c        conn
	lastGame string
	logger   *log.Logger
}

func (cl *client) connLocked() (conn, error) {
	if cl.c != nil {
		return cl.c, nil
	}
	c, err := cl.dial()
	if err != nil {
		return nil, err
	}
	if err := c.send(cmdInitGame); err != nil {
		c.Close()
		return nil, err
	}
	cl.c = c
	cl.lastGame = ""
	cl.logger.Info("connected to LiveSplit")
	return c, nil
}

func (cl *client) dropLocked(err error) {
	cl.logger.Warn("LiveSplit connection lost", "error", err)
	if cl.c != nil {
		cl.c.Close()
		cl.c = nil
	}
}

func (cl *client) send(cmd string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	c, err := cl.connLocked()
	if err != nil {
		cl.logger.Debug("LiveSplit unavailable", "error", err)
		return
	}
	if err := c.send(cmd); err != nil {
		cl.dropLocked(err)
	}
}

// Phase asks the server for the current phase. Unknown on any failure.
func (cl *client) Phase() engine.TimerPhase {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	c, err := cl.connLocked()
	if err != nil {
		cl.logger.Debug("LiveSplit unavailable", "error", err)
		return engine.PhaseUnknown
	}
	resp, err := c.query(cmdGetPhase)
	if err != nil {
		cl.dropLocked(err)
		return engine.PhaseUnknown
	}
	return ParsePhase(resp)
}

// Start sends starttimer.
func (cl *client) Start() { cl.send(cmdStart) }

// Split sends split.
func (cl *client) Split() { cl.send(cmdSplit) }

// Reset sends reset.
func (cl *client) Reset() { cl.send(cmdReset) }

// SetGameTime sends setgametime when the value changed since the last send.
func (cl *client) SetGameTime(seconds float64) {
	cmd := cmdSetGameTime + " " + formatSeconds(seconds)

	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cmd == cl.lastGame && cl.c != nil {
		return
	}
	c, err := cl.connLocked()
	if err != nil {
		return
	}
	if err := c.send(cmd); err != nil {
		cl.dropLocked(err)
		return
	}
	cl.lastGame = cmd
}

// Close closes the current connection, if any.
func (cl *client) Close() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.c == nil {
		return nil
	}
	err := cl.c.Close()
	cl.c = nil
	return err
}

// LiveSplitTCP drives LiveSplit through its TCP server component.
type LiveSplitTCP struct {
	client
}

// NewLiveSplitTCP creates a lazily connecting TCP client.
func NewLiveSplitTCP(addr string, timeout time.Duration, logger *log.Logger) *LiveSplitTCP {
	if addr == "" {
		addr = DefaultTCPAddress
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ls := &LiveSplitTCP{}
	ls.logger = logger
	ls.dial = func() (conn, error) {
		nc, err := net.DialTimeout("tcp", addr, timeout)
		if err != nil {
			return nil, fmt.Errorf("timer: dial %s: %w", addr, err)
		}
		return &tcpConn{nc: nc, rd: bufio.NewReader(nc), timeout: timeout}, nil
	}
	return ls
}

// tcpConn speaks the CRLF-terminated line protocol.
type tcpConn struct {
	nc      net.Conn
	rd      *bufio.Reader
	timeout time.Duration
}

func (c *tcpConn) send(cmd string) error {
	if c.timeout > 0 {
		c.nc.SetWriteDeadline(time.Now().Add(c.timeout))
	}
	_, err := io.WriteString(c.nc, cmd+"\r\n")
	return err
}

func (c *tcpConn) query(cmd string) (string, error) {
	if err := c.send(cmd); err != nil {
		return "", err
	}
	if c.timeout > 0 {
		c.nc.SetReadDeadline(time.Now().Add(c.timeout))
	}
	line, err := c.rd.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *tcpConn) Close() error {
	return c.nc.Close()
}
