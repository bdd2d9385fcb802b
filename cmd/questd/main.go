package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawnchairsociety/questkeeper/internal/config"
	"github.com/lawnchairsociety/questkeeper/internal/database"
	"github.com/lawnchairsociety/questkeeper/internal/help"
	"github.com/lawnchairsociety/questkeeper/internal/items"
	"github.com/lawnchairsociety/questkeeper/internal/logger"
	"github.com/lawnchairsociety/questkeeper/internal/quest"
	"github.com/lawnchairsociety/questkeeper/internal/reward"
	"github.com/lawnchairsociety/questkeeper/internal/server"
)

func main() {
	configFile := flag.String("config", "data/questkeeper.yaml", "Path to engine config YAML file")
	addr := flag.String("addr", "", "WebSocket listen address (overrides config)")
	questsPath := flag.String("quests", "", "Quest YAML file or directory (overrides config)")
	itemsFile := flag.String("items", "", "Items YAML file (overrides config)")
	source := flag.String("source", "", "Quest content source: yaml or database (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config %s, using defaults: %v\n", *configFile, err)
	}
	if *addr != "" {
		cfg.WebSocket.Address = *addr
	}
	if *questsPath != "" {
		cfg.Catalog.QuestsPath = *questsPath
	}
	if *itemsFile != "" {
		cfg.Catalog.ItemsPath = *itemsFile
	}
	if *source != "" {
		cfg.Catalog.Source = *source
	}

	// Initialize logger first (before any logging)
	logger.Initialize(cfg.Logging.WithEnvOverrides())
	logger.Info("Starting questkeeper", "config", *configFile)

	itemsConfig := loadItems(cfg.Catalog.ItemsPath)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load quests: %v", err)
	}
	reward.CheckItemRewards(catalog.All(), itemsConfig)

	srv := server.NewServer(cfg, catalog, itemsConfig)
	if cfg.Catalog.HelpPath != "" {
		h, err := help.Load(cfg.Catalog.HelpPath)
		if err != nil {
			logger.Warning("Failed to load help, using built-in help", "path", cfg.Catalog.HelpPath, "error", err)
		} else {
			srv.SetHelp(h)
		}
	}

	if len(cfg.WebSocket.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(cfg.WebSocket.AllowedOrigins) == 1 && cfg.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.WebSocket.AllowedOrigins)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("WebSocket server error: %v", err)
		}
	}()

	logger.Info("Press Ctrl+C to shutdown")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warning("Shutdown did not complete cleanly", "error", err)
	}
	logger.Info("Server stopped")
}

// loadItems falls back to placeholder items when no template file is available
func loadItems(path string) *items.ItemsConfig {
	if path == "" {
		logger.Info("No items file configured, using placeholder items")
		return items.NewItemsConfig()
	}

	itemsConfig, err := items.LoadItemsFromYAML(path)
	if err != nil {
		logger.Warning("Failed to load items config, using placeholder items", "path", path, "error", err)
		return items.NewItemsConfig()
	}
	logger.Info("Items loaded", "path", path, "count", len(itemsConfig.Items))
	return itemsConfig
}

// loadCatalog reads quest definitions from YAML or from the SQL content store
func loadCatalog(cfg *config.EngineConfig) (*quest.Catalog, error) {
	catalog := quest.NewCatalog()

	if cfg.Catalog.Source != "database" {
		if err := catalog.LoadFromPath(cfg.Catalog.QuestsPath); err != nil {
			return nil, err
		}
		logger.Info("Quests loaded", "source", "yaml", "path", cfg.Catalog.QuestsPath, "count", catalog.Count())
		return catalog, nil
	}

	db, err := database.OpenWithConfig(databaseConfig(cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	questsConfig, err := db.LoadQuests()
	if err != nil {
		return nil, err
	}
	if err := catalog.LoadFromConfig(questsConfig); err != nil {
		return nil, err
	}
	logger.Info("Quests loaded", "source", "database", "driver", cfg.Database.Driver, "count", catalog.Count())
	return catalog, nil
}

func databaseConfig(cfg config.DatabaseConfig) database.Config {
	return database.Config{
		Driver:     cfg.Driver,
		SQLitePath: cfg.SQLitePath,
		Postgres: database.PostgresConfig{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			Database:        cfg.Postgres.Database,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime(),
		},
	}
}
