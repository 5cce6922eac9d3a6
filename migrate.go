package main

import (
	"errors"
	"log"
	"rankle/internal/config"

	migratepkg "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrate creates or updates the SQLite schema from the migrations
// directory.
func migrate(conf *config.Config) error {
	m, err := migratepkg.New("file://migrations", "sqlite3://"+conf.Database)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migratepkg.ErrNoChange) {
			log.Print("info: database schema already up to date")
			return nil
		}

		return err
	}

	log.Print("info: database schema migrated")

	return nil
}
