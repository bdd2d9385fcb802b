// migrate-quests copies YAML quest definitions into the SQL content store.
//
// Usage:
//
//	go run ./cmd/migrate-quests -quests data/quests -sqlite data/questkeeper.db
//
//	go run ./cmd/migrate-quests -quests data/quests -driver postgres \
//	    -pg-host localhost -pg-user questkeeper -pg-password questkeeper -pg-database questkeeper
package main

import (
	"flag"
	"log"
	"time"

	"github.com/lawnchairsociety/questkeeper/internal/database"
	"github.com/lawnchairsociety/questkeeper/internal/quest"
)

func main() {
	questsPath := flag.String("quests", "data/quests", "Quest YAML file or directory")
	driver := flag.String("driver", "sqlite", "Target database driver: sqlite or postgres")
	sqlitePath := flag.String("sqlite", "data/questkeeper.db", "Path to SQLite database")
	pgHost := flag.String("pg-host", "localhost", "PostgreSQL host")
	pgPort := flag.Int("pg-port", 5432, "PostgreSQL port")
	pgUser := flag.String("pg-user", "questkeeper", "PostgreSQL user")
	pgPassword := flag.String("pg-password", "questkeeper", "PostgreSQL password")
	pgDatabase := flag.String("pg-database", "questkeeper", "PostgreSQL database name")
	pgSSLMode := flag.String("pg-sslmode", "disable", "PostgreSQL SSL mode")
	dryRun := flag.Bool("dry-run", false, "Validate the YAML and show what would be migrated without making changes")
	prune := flag.Bool("prune", false, "Delete quests from the database that are not in the YAML")
	flag.Parse()

	log.Println("Quest YAML to SQL Migration Tool")
	log.Println("================================")

	log.Printf("Loading quests: %s", *questsPath)
	questsConfig, err := quest.LoadQuests(*questsPath)
	if err != nil {
		log.Fatalf("Failed to load quests: %v", err)
	}
	if err := questsConfig.Validate(); err != nil {
		log.Fatalf("Quest content is invalid: %v", err)
	}
	log.Printf("  Found %d quests", len(questsConfig.Quests))

	if *dryRun {
		log.Println("DRY RUN MODE - No changes will be made")
		for id, def := range questsConfig.Quests {
			log.Printf("  %s: %d objectives, %d rewards", id, len(def.Objectives), len(def.Rewards))
		}
		return
	}

	cfg := database.Config{
		Driver:     *driver,
		SQLitePath: *sqlitePath,
		Postgres: database.PostgresConfig{
			Host:            *pgHost,
			Port:            *pgPort,
			User:            *pgUser,
			Password:        *pgPassword,
			Database:        *pgDatabase,
			SSLMode:         *pgSSLMode,
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
	}

	log.Printf("Opening %s database", *driver)
	db, err := database.OpenWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	saved, err := db.SaveQuests(questsConfig)
	if err != nil {
		log.Fatalf("Failed to save quests (saved %d before the error): %v", saved, err)
	}
	log.Printf("  Saved %d quests", saved)

	if *prune {
		existing, err := db.LoadQuests()
		if err != nil {
			log.Fatalf("Failed to list stored quests: %v", err)
		}
		for id := range existing.Quests {
			if _, keep := questsConfig.Quests[id]; keep {
				continue
			}
			if _, err := db.DeleteQuest(id); err != nil {
				log.Fatalf("Failed to delete %s: %v", id, err)
			}
			log.Printf("  Pruned %s", id)
		}
	}

	total, err := db.CountQuests()
	if err != nil {
		log.Fatalf("Failed to count quests: %v", err)
	}

	log.Println("================================")
	log.Printf("Migration complete! %d quests in the database", total)
}
