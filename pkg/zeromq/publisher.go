package zeromq

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	zmq "github.com/pebbe/zmq4"
	customlog "github.com/splatview/posebridge/pkg/log"
	"github.com/splatview/posebridge/pkg/pose"
)

// Common errors
var ErrPublisherClosed = errors.New("zeromq pose publisher is closed")

// Message types
const MsgTypePoseUpdate = "POSE_UPDATE"

// Topic the pose feed is published under
const PoseTopic = "camera.pose"

// Envelope is the generic message structure for ZeroMQ publications
type Envelope struct {
	Type      string      `json:"type"`
	Timestamp float64     `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// PosePublisher re-emits every applied camera pose on a PUB socket so
// downstream tools (recorders, external visualizers) can subscribe without
// touching the UDP ingest path.
type PosePublisher struct {
	socket  *zmq.Socket
	logger  customlog.Logger
	running bool
	mu      sync.Mutex
}

// NewPosePublisher creates a publisher bound to the given address.
func NewPosePublisher(bindAddress string, logger customlog.Logger) (*PosePublisher, error) {
	socket, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	if err := socket.Bind(bindAddress); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to bind to %s: %w", bindAddress, err)
	}

	if err := socket.SetLinger(0); err != nil {
		socket.Close()
		return nil, fmt.Errorf("failed to set linger option: %w", err)
	}

	logger.Infof("Pose publisher initialized on %s", bindAddress)

	return &PosePublisher{
		socket:  socket,
		logger:  logger,
		running: true,
	}, nil
}

// PublishMessage sends a message with the given topic
func (p *PosePublisher) PublishMessage(topic string, message []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return ErrPublisherClosed
	}

	// Send two messages in sequence (topic first, then message)
	if _, err := p.socket.Send(topic, zmq.SNDMORE); err != nil {
		return fmt.Errorf("failed to send topic: %w", err)
	}
	if _, err := p.socket.SendBytes(message, 0); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// PublishJSON publishes a JSON-serializable message with the given topic
func (p *PosePublisher) PublishJSON(topic string, messageType string, data interface{}) error {
	msg := Envelope{
		Type:      messageType,
		Timestamp: float64(time.Now().Unix()),
		Data:      data,
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	return p.PublishMessage(topic, msgData)
}

// NotifyPose implements the frame loop's pose sink. Publish failures are
// logged and absorbed; they never reach the frame loop.
func (p *PosePublisher) NotifyPose(ps pose.Pose) {
	if err := p.PublishJSON(PoseTopic, MsgTypePoseUpdate, ps); err != nil {
		p.logger.Errorf("Failed to publish pose update: %v", err)
	}
}

// Close cleans up resources
func (p *PosePublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.running = false
	if p.socket != nil {
		p.socket.Close()
		p.socket = nil
	}
}
