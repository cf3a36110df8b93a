package main

import (
	"flag"
	"log"
	"runtime"

	"meadow/internal/logger"
	"meadow/pkg/config"
	"meadow/pkg/engine"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, cfgErr := config.LoadConfig(*configPath)

	appLogger := logger.NewLogger(cfg.Log.Level)
	if cfg.Log.File != "" {
		l, err := logger.NewMultiLogger(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		appLogger = l
	}
	defer appLogger.Close()

	if cfgErr != nil {
		appLogger.Warnf("%v", cfgErr)
	}
	appLogger.Info("Starting meadow...")

	app, err := engine.NewEngine(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}

	appLogger.Info("Engine initialized, starting render loop...")
	app.Run()
}
