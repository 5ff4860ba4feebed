package pose

import "sync"

// Channel is a single shared slot holding the most recently published camera
// pose. One producer (the network listener) overwrites it, one consumer (the
// frame loop) drains it once per frame via TryTake. Newer data supersedes
// older data; there is no queue and no backlog. The consumer therefore always
// applies the latest known pose, which is the correctness criterion for a
// real-time camera follow.
//
// Channel is an injectable component rather than process-wide state, so
// independent channels can coexist (and be tested) without hidden coupling.
type Channel struct {
	mu      sync.Mutex
	current Pose
	has     bool
	dirty   bool
}

// NewChannel creates an empty channel. The slot holds no pose until the
// first publish.
func NewChannel() *Channel {
	return &Channel{}
}

// PublishAbsolute replaces the stored pose wholesale and marks the slot dirty.
func (c *Channel) PublishAbsolute(position Vector3, rotation Quaternion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = Pose{Position: position, Rotation: rotation}
	c.has = true
	c.dirty = true
}

// PublishRelative adds delta to the stored position and replaces the rotation
// wholesale. The first relative publish on an empty slot is treated as an
// absolute one.
func (c *Channel) PublishRelative(delta Vector3, rotation Quaternion) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.has {
		c.current = Pose{Position: delta, Rotation: rotation}
		c.has = true
	} else {
		c.current.Position = c.current.Position.Add(delta)
		c.current.Rotation = rotation
	}
	c.dirty = true
}

// TryTake returns the stored pose if an update is pending since the last
// take, clearing the dirty flag. It never blocks beyond the single lock
// acquisition and allocates nothing, so it is safe to call every frame.
func (c *Channel) TryTake() (Pose, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return Pose{}, false
	}
	c.dirty = false
	return c.current, true
}
