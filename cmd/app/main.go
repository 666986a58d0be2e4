package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"

	"fieldservice/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func main() {
	configs := getConfigs()
	logger := cmd.NewLogger(configs)

	gormDB, err := cmd.OpenDatabase(configs)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("composition root: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Errorf("close resources: %v", err)
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("jobs: %v", err)
	}
	defer jobManager.StopAll()

	e, err := app.CreateRouter()
	if err != nil {
		log.Fatalf("router: %v", err)
	}
	startWebServer(e, configs)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("configuration: %v", err)
	}
	return configs
}

func startWebServer(e *echo.Echo, configs cmd.Config) {
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Errorf("http server: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), configs.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Errorf("http shutdown: %v", err)
	}
}
