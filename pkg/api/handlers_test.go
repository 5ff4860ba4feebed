package api

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/splatview/posebridge/pkg/camera"
	"github.com/splatview/posebridge/pkg/pose"
)

// testLogger discards all output
type testLogger struct{}

func (testLogger) Debugf(format string, args ...interface{}) {}
func (testLogger) Infof(format string, args ...interface{})  {}
func (testLogger) Warnf(format string, args ...interface{})  {}
func (testLogger) Errorf(format string, args ...interface{}) {}
func (testLogger) Fatalf(format string, args ...interface{}) {}

func newTestApp(controller *camera.TrackingController) *fiber.App {
	app := fiber.New()
	RegisterRoutes(app, controller, nil, NewPoseFeedHub(testLogger{}), testLogger{})
	return app
}

func TestGetPoseBeforeAnyApply(t *testing.T) {
	app := newTestApp(camera.NewTrackingController())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/pose", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 before any pose is applied, got %d", resp.StatusCode)
	}
}

func TestGetPose(t *testing.T) {
	controller := camera.NewTrackingController()
	controller.ApplyAbsolutePose(pose.Pose{
		Position: pose.Vector3{X: 1, Y: 2, Z: 3},
		Rotation: pose.Quaternion{W: 1},
	})

	app := newTestApp(controller)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/pose", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	var payload struct {
		Pose pose.Pose `json:"pose"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if payload.Pose.Position.X != 1 || payload.Pose.Position.Y != 2 || payload.Pose.Position.Z != 3 {
		t.Errorf("Expected position (1, 2, 3), got %+v", payload.Pose.Position)
	}
}

func TestStatusReportsSubscribers(t *testing.T) {
	app := newTestApp(camera.NewTrackingController())

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}

	var payload struct {
		Status      string `json:"status"`
		Subscribers *int   `json:"subscribers"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if payload.Status != "online" {
		t.Errorf("Expected status 'online', got '%s'", payload.Status)
	}
	if payload.Subscribers == nil {
		t.Fatalf("Expected a subscribers field in the status payload")
	}
	if *payload.Subscribers != 0 {
		t.Errorf("Expected 0 subscribers, got %d", *payload.Subscribers)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(camera.NewTrackingController())

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 from /health, got %d", resp.StatusCode)
	}
}
