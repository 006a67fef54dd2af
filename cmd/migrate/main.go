// Command migrate manages the freightiq database schema.
//
//	migrate up         apply all pending migrations
//	migrate down       roll back all migrations
//	migrate steps N    apply N migrations; negative N rolls back
//	migrate force V    mark version V clean after a failed migration
//	migrate version    print the current schema version
//
// The migration source defaults to db/migrations relative to the working
// directory and can be overridden with FREIGHTIQ_MIGRATIONS_PATH.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"freightiq/internal/config"
)

const usage = "usage: migrate [up|down|steps N|force V|version]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("migrate: loading config: %v", err)
	}

	source := os.Getenv("FREIGHTIQ_MIGRATIONS_PATH")
	if source == "" {
		source = "db/migrations"
	}

	m, err := migrate.New("file://"+source, cfg.DB.DSN())
	if err != nil {
		log.Fatalf("migrate: opening source %s: %v", source, err)
	}
	defer m.Close()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch cmd := os.Args[1]; cmd {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: up: %v", err)
		}
		log.Printf("migrate: schema is up to date (source %s)", source)

	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: down: %v", err)
		}
		log.Print("migrate: all migrations rolled back")

	case "steps":
		n, err := intArg("steps")
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		if err := m.Steps(n); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("migrate: steps %d: %v", n, err)
		}
		log.Printf("migrate: applied %d steps", n)

	case "force":
		v, err := intArg("force")
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("migrate: force %d: %v", v, err)
		}
		log.Printf("migrate: version forced to %d", v)

	case "version":
		version, dirty, err := m.Version()
		if err == migrate.ErrNilVersion {
			fmt.Println("version: none")
			return
		}
		if err != nil {
			log.Fatalf("migrate: version: %v", err)
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n%s\n", cmd, usage)
		os.Exit(1)
	}
}

func intArg(cmd string) (int, error) {
	if len(os.Args) < 3 {
		return 0, fmt.Errorf("%s requires a number argument", cmd)
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		return 0, fmt.Errorf("%s: invalid argument %q", cmd, os.Args[2])
	}
	return n, nil
}
