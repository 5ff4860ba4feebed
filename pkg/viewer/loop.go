package viewer

import (
	"sync"
	"time"

	"github.com/splatview/posebridge/pkg/camera"
	customlog "github.com/splatview/posebridge/pkg/log"
	"github.com/splatview/posebridge/pkg/pose"
)

// PoseSink receives every pose the frame loop applies, after it has been
// handed to the camera. Sinks must absorb their own failures; a sink error
// never stalls the loop.
type PoseSink interface {
	NotifyPose(p pose.Pose)
}

// FrameLoop stands in for the render loop: one iteration per display frame.
// Each tick it performs a single non-blocking drain of the pose channel and,
// when an update is pending, applies it to the camera controller and fans it
// out to the registered sinks. When no update is pending a tick costs one
// lock acquisition and nothing else.
type FrameLoop struct {
	channel    *pose.Channel
	controller camera.Controller
	sinks      []PoseSink
	interval   time.Duration
	logger     customlog.Logger

	running bool
	started bool
	mu      sync.Mutex
	quit    chan struct{}
	wg      sync.WaitGroup
}

// NewFrameLoop creates a frame loop ticking at the given frame rate.
func NewFrameLoop(channel *pose.Channel, controller camera.Controller, frameRateHz int, logger customlog.Logger) *FrameLoop {
	if frameRateHz < 1 {
		frameRateHz = 60
	}
	return &FrameLoop{
		channel:    channel,
		controller: controller,
		interval:   time.Second / time.Duration(frameRateHz),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// AddSink registers a sink for applied poses. Must be called before Start.
func (f *FrameLoop) AddSink(s PoseSink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, s)
}

// Start begins ticking in a background goroutine. Like the pose listener,
// a loop runs at most once: Start after Stop is a no-op and a fresh instance
// is required to run again.
func (f *FrameLoop) Start() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running || f.started {
		return
	}
	f.running = true
	f.started = true

	f.wg.Add(1)
	go f.run()

	f.logger.Infof("Frame loop started (interval %v)", f.interval)
}

// Stop halts the loop and waits for the goroutine to finish.
func (f *FrameLoop) Stop() {
	f.mu.Lock()
	if !f.running {
		f.mu.Unlock()
		return
	}
	f.running = false
	f.mu.Unlock()

	close(f.quit)
	f.wg.Wait()
	f.logger.Infof("Frame loop stopped")
}

func (f *FrameLoop) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-f.quit:
			return
		case <-ticker.C:
			f.tick()
		}
	}
}

// tick drains at most one pending pose. Intermediate poses published since
// the previous tick have already been superseded inside the channel.
func (f *FrameLoop) tick() {
	p, ok := f.channel.TryTake()
	if !ok {
		return
	}

	f.controller.ApplyAbsolutePose(p)

	f.mu.Lock()
	sinks := f.sinks
	f.mu.Unlock()

	for _, s := range sinks {
		s.NotifyPose(p)
	}
}
