package network

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/splatview/posebridge/pkg/config"
	customlog "github.com/splatview/posebridge/pkg/log"
	"github.com/splatview/posebridge/pkg/pose"
)

// Common errors
var (
	ErrAlreadyStarted = errors.New("pose listener already started")
	ErrStopped        = errors.New("pose listener stopped and cannot be restarted")
)

// PoseListener receives camera pose datagrams over UDP and publishes them to
// a pose channel. It owns one background goroutine blocked on the socket
// receive; shutdown closes the socket out from under it to force the blocking
// call to return, then joins the goroutine. A listener runs at most once:
// after Stop a fresh instance is required.
type PoseListener struct {
	address    string
	rcvBuf     int
	updateMode string
	channel    *pose.Channel
	logger     customlog.Logger

	conn    *net.UDPConn
	running bool
	started bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// PoseListenerConfig contains configuration options for the pose listener
type PoseListenerConfig struct {
	// ListenAddress is the local UDP address to bind, e.g. "0.0.0.0:4444".
	ListenAddress string
	// ReceiveBuffer is the datagram receive buffer size in bytes. Payloads
	// larger than this are truncated by the kernel and will normally fail to
	// decode (documented limitation of the wire protocol).
	ReceiveBuffer int
	// UpdateMode selects which channel publish path the network feed drives,
	// config.UpdateModeAbsolute or config.UpdateModeRelative.
	UpdateMode string
	Channel    *pose.Channel
	Logger     customlog.Logger
}

// NewPoseListener creates a new pose listener. The socket is not opened and
// no goroutine is started until Start is called.
func NewPoseListener(cfg PoseListenerConfig) (*PoseListener, error) {
	if cfg.Channel == nil {
		return nil, fmt.Errorf("pose listener requires a channel")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("pose listener requires a logger")
	}

	rcvBuf := cfg.ReceiveBuffer
	if rcvBuf <= 0 {
		rcvBuf = 1024
	}
	updateMode := cfg.UpdateMode
	if updateMode == "" {
		updateMode = config.UpdateModeAbsolute
	}

	return &PoseListener{
		address:    cfg.ListenAddress,
		rcvBuf:     rcvBuf,
		updateMode: updateMode,
		channel:    cfg.Channel,
		logger:     cfg.Logger,
	}, nil
}

// Start binds the UDP socket and begins the background receive loop.
func (l *PoseListener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		return ErrAlreadyStarted
	}
	if l.started {
		return ErrStopped
	}

	addr, err := net.ResolveUDPAddr("udp4", l.address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address '%s': %w", l.address, err)
	}

	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP address '%s': %w", l.address, err)
	}

	l.conn = conn
	l.running = true
	l.started = true
	l.wg.Add(1)
	go l.receiveLoop()

	l.logger.Infof("Pose listener started on %s (receive buffer %d bytes)", conn.LocalAddr(), l.rcvBuf)
	return nil
}

// Stop requests loop termination, unblocks the pending receive by closing the
// socket, and blocks until the background goroutine has finished. Safe to
// call more than once.
func (l *PoseListener) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	conn := l.conn
	l.mu.Unlock()

	l.logger.Infof("Pose listener stopping, closing socket to interrupt blocking receive")
	conn.Close()
	l.wg.Wait()
	l.logger.Infof("Pose listener stopped")
}

// LocalAddr returns the bound socket address, or nil before Start.
func (l *PoseListener) LocalAddr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

func (l *PoseListener) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// receiveLoop blocks on the socket receive, decodes each datagram and
// publishes it to the channel. Receive and decode failures are log-only;
// no error from this loop ever reaches the consumer side.
func (l *PoseListener) receiveLoop() {
	defer l.wg.Done()

	buffer := make([]byte, l.rcvBuf)

	for {
		n, sender, err := l.conn.ReadFromUDP(buffer)
		if err != nil {
			if !l.isRunning() || errors.Is(err, net.ErrClosed) {
				// Shutdown-induced unblock, not a transport error
				return
			}
			l.logger.Errorf("Error receiving pose datagram: %v", err)
			continue
		}

		p, err := pose.Decode(buffer[:n])
		if err != nil {
			// Fatal to this packet only; the next receive proceeds
			l.logger.Warnf("Discarding pose datagram from %v: %v", sender, err)
			continue
		}

		if l.updateMode == config.UpdateModeRelative {
			l.channel.PublishRelative(p.Position, p.Rotation)
		} else {
			l.channel.PublishAbsolute(p.Position, p.Rotation)
		}

		l.logger.Debugf("Published pose from %v: position=(%.3f, %.3f, %.3f)",
			sender, p.Position.X, p.Position.Y, p.Position.Z)
	}
}
