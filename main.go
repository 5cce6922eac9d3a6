package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"rankle/internal/back"
	"rankle/internal/config"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
)

// Version holds the build-time version string.
var Version = "unknown" // nolint:gochecknoglobals

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: unable to load .env: %s", err)
	}

	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("error: %s", err)
	}
}

func run(command string) error {
	switch command {
	case "version":
		fmt.Fprintf(os.Stdout, "Rankle %s\n", Version)
		return nil
	case "help":
		fmt.Fprint(os.Stdout, help())
		return nil
	}

	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		return err
	}

	switch command {
	case "migrate":
		return migrate(conf)
	case "serve":
		b, err := back.New("sqlite3", conf.Database)
		if err != nil {
			return err
		}
		return serve(b, conf)
	case "recalculate":
		b, err := back.New("sqlite3", conf.Database)
		if err != nil {
			return err
		}
		return b.Recalculate(flag.Arg(1))
	case "dev:fixtures":
		b, err := back.New("sqlite3", conf.Database)
		if err != nil {
			return err
		}
		return b.LoadFixtures()
	default:
		fmt.Fprint(os.Stderr, help())
		os.Exit(1)
		return nil
	}
}

func help() string {
	return fmt.Sprintf(`
Rankle is a multi-tenant leaderboard backend for daily word-puzzle games,
ranking players with Glicko-2 from their pasted share texts.

Usage: %[1]s COMMAND [ARGS…]

COMMANDS
    serve          run the HTTP API
    migrate        create or update the database schema
    recalculate    wipe and rebuild all ratings from the score log,
                   optionally for a single tenant key given as argument
    dev:fixtures   create default data for quick testing during development
    help           display this help
    version        display the current version
`,
		os.Args[0],
	)
}
