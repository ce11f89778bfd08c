package admin

import (
	"log"

	"github.com/cloo-solutions/chavis/internal/database"
)

func runMigrations(databaseURL, dir string) error {
	result, err := database.Migrate(databaseURL, dir)
	if err != nil {
		return err
	}

	switch {
	case result.Version == 0:
		log.Println("migrations: no migrations applied")
	case result.Changed:
		log.Printf("migrations: applied successfully (version %d)", result.Version)
	default:
		log.Printf("migrations: database is up to date (version %d)", result.Version)
	}
	return nil
}
