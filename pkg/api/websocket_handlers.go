package api

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	customlog "github.com/splatview/posebridge/pkg/log"
	"github.com/splatview/posebridge/pkg/pose"
)

// PoseFeedMessage is the JSON frame sent to websocket subscribers for every
// applied camera pose.
type PoseFeedMessage struct {
	Type      string    `json:"type"`
	Timestamp float64   `json:"timestamp"`
	Pose      pose.Pose `json:"pose"`
}

// Per-write deadline for feed broadcasts. A client that cannot drain a write
// within this window is dropped.
const poseFeedWriteTimeout = 2 * time.Second

// PoseFeedHub fans applied poses out to connected websocket clients. It is a
// frame loop sink: broadcast happens on the frame loop goroutine, and a slow
// or dead client is dropped rather than allowed to stall the feed.
type PoseFeedHub struct {
	logger       customlog.Logger
	writeTimeout time.Duration
	mu           sync.Mutex
	conns        map[*websocket.Conn]struct{}
}

// NewPoseFeedHub creates a hub with no subscribers.
func NewPoseFeedHub(logger customlog.Logger) *PoseFeedHub {
	return &PoseFeedHub{
		logger:       logger,
		writeTimeout: poseFeedWriteTimeout,
		conns:        make(map[*websocket.Conn]struct{}),
	}
}

// RegisterPoseFeedRoutes registers the live pose feed endpoint with the Fiber app.
func RegisterPoseFeedRoutes(app *fiber.App, hub *PoseFeedHub, logger customlog.Logger) {
	app.Get("/ws/pose", websocket.New(hub.handleConnection))
	logger.Infof("Registered pose feed websocket endpoint at /ws/pose")
}

// handleConnection keeps the connection registered until the client closes
// it. Reads are discarded; the feed is one-way.
func (h *PoseFeedHub) handleConnection(conn *websocket.Conn) {
	h.logger.Infof("Pose feed client connected: %s", conn.RemoteAddr())

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.remove(conn)
	h.logger.Infof("Pose feed client disconnected: %s", conn.RemoteAddr())
}

func (h *PoseFeedHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}

// SubscriberCount returns the number of connected feed clients.
func (h *PoseFeedHub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// NotifyPose implements the frame loop's pose sink, broadcasting the applied
// pose to every subscriber. Write failures drop the offending client only.
func (h *PoseFeedHub) NotifyPose(p pose.Pose) {
	msg := PoseFeedMessage{
		Type:      "POSE_UPDATE",
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
		Pose:      p,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Errorf("Failed to marshal pose feed message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		// Without a deadline a stalled client would block the write forever
		// once its send buffer fills, freezing the frame loop for everyone.
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Warnf("Dropping pose feed client %s: %v", conn.RemoteAddr(), err)
			delete(h.conns, conn)
			conn.Close()
		}
	}
}
