package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"fieldserve-backend/controller"
	"fieldserve-backend/middelware"
	"fieldserve-backend/models"
	"fieldserve-backend/utils"
	"fieldserve-backend/utils/logger"
	"fieldserve-backend/worker"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	Init()

	ctx := context.Background()
	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Infof("Starting %s %s (%s)", config.AppName, config.AppVersion, config.AppEnv)

	r := gin.New()

	logging := middelware.NewLoggingMiddleware(appLogger)
	cors := middelware.NewCORSMiddleware(config)
	r.Use(logging.Recovery())
	r.Use(logging.RequestLogger())
	r.Use(cors.CORS())

	c := controller.NewController(ctx, config, appLogger)

	// Start server (this is blocking)
	go func() {
		if err := c.RegisterRoutes(ctx, config, r, config.BasePath); err != nil {
			appLogger.Fatalf("Server stopped: %v", err)
		}
	}()

	// Background worker: table provisioning plus the invoice overdue sweep
	backgroundWorker, err := worker.NewService(ctx, config, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to create background worker: %v", err)
	}

	if err := backgroundWorker.StartInBackground(); err != nil {
		appLogger.Fatalf("Failed to start background worker: %v", err)
	}

	// Keep main goroutine alive
	select {}
}
