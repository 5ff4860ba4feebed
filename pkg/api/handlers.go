package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/splatview/posebridge/pkg/camera"
	customlog "github.com/splatview/posebridge/pkg/log"
	"github.com/splatview/posebridge/services"
)

// PoseHandler holds dependencies for the pose and status API endpoints.
type PoseHandler struct {
	controller    *camera.TrackingController
	configService services.BridgeConfigService
	hub           *PoseFeedHub
	logger        customlog.Logger
}

// NewPoseHandler creates a new handler for the pose API endpoints.
func NewPoseHandler(controller *camera.TrackingController, configService services.BridgeConfigService, hub *PoseFeedHub, logger customlog.Logger) *PoseHandler {
	if controller == nil {
		panic("Controller cannot be nil in NewPoseHandler")
	}
	if logger == nil {
		panic("Logger cannot be nil in NewPoseHandler")
	}
	return &PoseHandler{
		controller:    controller,
		configService: configService,
		hub:           hub,
		logger:        logger,
	}
}

// RegisterRoutes registers the status and pose API endpoints with the Fiber app.
func RegisterRoutes(app *fiber.App, controller *camera.TrackingController, configService services.BridgeConfigService, hub *PoseFeedHub, logger customlog.Logger) {
	h := NewPoseHandler(controller, configService, hub, logger)

	app.Get("/", h.handleStatus)
	app.Get("/health", h.handleHealth)

	apiGroup := app.Group("/api/v1")
	apiGroup.Get("/pose", h.handleGetPose)
	apiGroup.Get("/config", h.handleGetConfig)

	logger.Infof("Registered pose API endpoints under /api/v1")
}

// handleStatus reports basic service identity and feed activity.
func (h *PoseHandler) handleStatus(c *fiber.Ctx) error {
	subscribers := 0
	if h.hub != nil {
		subscribers = h.hub.SubscriberCount()
	}
	return c.JSON(fiber.Map{
		"status":      "online",
		"service":     "posebridge",
		"stats":       h.controller.GetStats(),
		"subscribers": subscribers,
	})
}

func (h *PoseHandler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "healthy"})
}

// handleGetPose returns the last camera pose the frame loop applied.
func (h *PoseHandler) handleGetPose(c *fiber.Ctx) error {
	p, ok := h.controller.CurrentPose()
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": "No camera pose has been applied yet.",
		})
	}
	return c.JSON(fiber.Map{
		"pose":  p,
		"stats": h.controller.GetStats(),
	})
}

// handleGetConfig serves the operational configuration as YAML.
func (h *PoseHandler) handleGetConfig(c *fiber.Ctx) error {
	if h.configService == nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": "Configuration service not available.",
		})
	}

	yamlData, err := h.configService.GetCurrentConfigYAML()
	if err != nil {
		h.logger.Errorf("Failed to get current config YAML: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve configuration.",
		})
	}

	c.Set(fiber.HeaderContentType, "application/x-yaml")
	return c.Send(yamlData)
}
