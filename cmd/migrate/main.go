// Package main provides the schema migration runner for the platform
// database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/duality-rp/duality/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	migrationsDir := flag.String("migrations", "migrations", "path to migration files")
	command := flag.String("command", "up", "migration command: up, down, or status")
	steps := flag.Int("steps", 0, "number of steps for up/down (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	m, err := migrate.New("file://"+*migrationsDir, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("creating migrator: %v", err)
	}
	defer m.Close()

	switch *command {
	case "status":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return
		}
		if err != nil {
			log.Fatalf("reading schema version: %v", err)
		}
		fmt.Printf("version=%d dirty=%v\n", version, dirty)
	case "up", "down":
		start := time.Now()
		err := apply(m, *command, *steps)
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("schema already up to date")
			return
		}
		if err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		version, dirty, _ := m.Version()
		fmt.Printf("migrated %s to version=%d dirty=%v [%s]\n",
			*command, version, dirty, time.Since(start).Round(time.Millisecond))
	default:
		log.Fatalf("invalid command %q: must be up, down, or status", *command)
	}
}

func apply(m *migrate.Migrate, command string, steps int) error {
	switch {
	case command == "up" && steps > 0:
		return m.Steps(steps)
	case command == "up":
		return m.Up()
	case steps > 0:
		return m.Steps(-steps)
	default:
		return m.Down()
	}
}
