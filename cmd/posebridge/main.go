package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/splatview/posebridge/pkg/api"
	"github.com/splatview/posebridge/pkg/camera"
	"github.com/splatview/posebridge/pkg/config"
	customlog "github.com/splatview/posebridge/pkg/log"
	"github.com/splatview/posebridge/pkg/network"
	"github.com/splatview/posebridge/pkg/pose"
	"github.com/splatview/posebridge/pkg/viewer"
	"github.com/splatview/posebridge/pkg/zeromq"
	"github.com/splatview/posebridge/services"
)

func main() {
	// Resolve config path from environment or use default
	configPath := os.Getenv("POSEBRIDGE_CONFIG")
	if configPath == "" {
		configPath = "config/posebridge.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v\n", err)
	}

	logger, err := customlog.NewLogrusLogger(cfg.Logging.Level, cfg.Logging.LogPath)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}

	// Core bridge components
	channel := pose.NewChannel()
	controller := camera.NewTrackingController()
	frameLoop := viewer.NewFrameLoop(channel, controller, cfg.Viewer.FrameRateHz, logger)

	// Live pose feed for websocket subscribers
	hub := api.NewPoseFeedHub(logger)
	frameLoop.AddSink(hub)

	// Optional ZeroMQ republisher
	var publisher *zeromq.PosePublisher
	if cfg.ZeroMQ.Enabled {
		publisher, err = zeromq.NewPosePublisher(cfg.ZeroMQ.PublishBindAddress, logger)
		if err != nil {
			logger.Fatalf("Failed to start pose publisher: %v", err)
		}
		frameLoop.AddSink(publisher)
	}

	// The UDP bridge is entirely inert unless enabled in configuration
	var listener *network.PoseListener
	if cfg.Bridge.Enabled {
		listener, err = network.NewPoseListener(network.PoseListenerConfig{
			ListenAddress: cfg.Bridge.ListenAddress,
			ReceiveBuffer: cfg.Bridge.ReceiveBuffer,
			UpdateMode:    cfg.Bridge.UpdateMode,
			Channel:       channel,
			Logger:        logger,
		})
		if err != nil {
			logger.Fatalf("Failed to create pose listener: %v", err)
		}
		if err := listener.Start(); err != nil {
			logger.Fatalf("Failed to start pose listener: %v", err)
		}
		logger.Infof("Camera input switched to external pose feed (%s mode)", cfg.Bridge.UpdateMode)
	} else {
		logger.Infof("UDP pose bridge disabled; listener not started")
	}

	frameLoop.Start()

	// Config service backing the HTTP API
	configService, err := services.NewBridgeConfigService(configPath, logger)
	if err != nil {
		logger.Fatalf("Failed to create config service: %v", err)
	}
	if err := configService.LoadConfig(); err != nil {
		logger.Fatalf("Failed to load config service: %v", err)
	}

	// HTTP surface
	app := fiber.New(fiber.Config{
		AppName:      "Posebridge Viewer Agent",
		ErrorHandler: customErrorHandler,
	})
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	api.RegisterRoutes(app, controller, configService, hub, logger)
	api.RegisterPoseFeedRoutes(app, hub, logger)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		logger.Infof("HTTP server starting on %s", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Errorf("HTTP server forced to shutdown: %v", err)
	}

	// Stop the consumer first, then unblock and join the listener. The
	// listener goroutine must be joined before exit; a leaked blocked
	// receive at shutdown is a defect.
	frameLoop.Stop()
	if listener != nil {
		listener.Stop()
	}
	if publisher != nil {
		publisher.Close()
	}

	logger.Infof("Posebridge exited properly")
}

// Custom error handler
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
