package camera

import (
	"sync"
	"time"

	"github.com/splatview/posebridge/pkg/pose"
)

// Controller is the host-side camera surface the frame loop drives. Implementations
// must only be called from the frame loop goroutine; reads for the API side go
// through the tracking controller's own lock.
type Controller interface {
	// ApplyAbsolutePose moves the camera to the given pose.
	ApplyAbsolutePose(p pose.Pose)
}

// Stats summarizes camera feed activity for the status API
type Stats struct {
	AppliedCount  int64     `json:"applied_count"`
	LastAppliedAt time.Time `json:"last_applied_at"`
}

// TrackingController is a Controller that records the last applied pose and
// basic counters. In the viewer process it fronts the renderer's interactive
// camera handler; here it is also what the HTTP API reads from.
type TrackingController struct {
	mu            sync.RWMutex
	current       pose.Pose
	has           bool
	appliedCount  int64
	lastAppliedAt time.Time
}

// NewTrackingController creates a controller with no pose applied yet.
func NewTrackingController() *TrackingController {
	return &TrackingController{}
}

// ApplyAbsolutePose records the pose as the camera's current placement.
func (c *TrackingController) ApplyAbsolutePose(p pose.Pose) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = p
	c.has = true
	c.appliedCount++
	c.lastAppliedAt = time.Now()
}

// CurrentPose returns the last applied pose, and false if none has been
// applied yet.
func (c *TrackingController) CurrentPose() (pose.Pose, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current, c.has
}

// GetStats returns a copy of the current counters.
func (c *TrackingController) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		AppliedCount:  c.appliedCount,
		LastAppliedAt: c.lastAppliedAt,
	}
}
