package cli

import (
	"fmt"

	"github.com/terraincognita07/flowcast/internal/db"
)

// openRepositories opens the SQLite file for a one-shot command. The returned close
// function releases the connection pool.
func openRepositories(dbPath string) (*db.Repositories, func(), error) {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("database init failed: %w", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("database handle: %w", err)
	}
	return db.NewRepositories(database), func() { _ = sqlDB.Close() }, nil
}
