package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/dmarkhas/lmchat/internal/classifier"
	"github.com/dmarkhas/lmchat/internal/followup"
	"github.com/dmarkhas/lmchat/internal/gateway"
	"github.com/dmarkhas/lmchat/internal/server"
	"github.com/dmarkhas/lmchat/internal/storage"
	"github.com/dmarkhas/lmchat/pkg/config"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory session storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL session storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	// Initialize the LM Studio gateway
	gw := gateway.NewLMStudioClient(
		cfg.LMStudio.BaseURL,
		cfg.LMStudio.Model,
		time.Duration(cfg.LMStudio.TimeoutSeconds)*time.Second,
		logger,
	)

	// Initialize the intent classifier
	var clf classifier.Classifier
	switch cfg.Classifier.Strategy {
	case "pattern":
		logger.Info("Using pattern-based intent classifier")
		clf = classifier.NewPatternClassifier(classifier.PatternConfig{
			MinConfidence:    cfg.Classifier.MinConfidence,
			LengthDecayScale: cfg.Classifier.LengthDecayScale,
			LengthDecayFloor: cfg.Classifier.LengthDecayFloor,
		})
	default:
		logger.Info("Using AI intent classifier")
		clf = classifier.NewAIClassifier(gw, logger)
	}

	// Initialize the follow-up generator
	followups := followup.NewGenerator(gw, logger)

	// Start the HTTP server
	srv := server.New(gw, clf, followups, store, logger)
	if err := srv.Run(cfg.Server.Host, cfg.Server.Port); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
