package db

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/flowcast/internal/logger"
	embeddedmigrations "github.com/terraincognita07/flowcast/migrations"
	"gorm.io/gorm"
)

var (
	migrationFilePattern = regexp.MustCompile(`^(\d+)_[\w-]*\.sql$`)

	errEmptyMigration   = errors.New("migration has no SQL statements")
	errMigrationChanged = errors.New("migration changed after it was applied")
)

type embeddedMigration struct {
	Version  string
	Order    int
	Name     string
	SQL      string
	Checksum string
}

// schemaMigration is one row of the bookkeeping table.
type schemaMigration struct {
	Version   string    `gorm:"column:version;primaryKey"`
	Name      string    `gorm:"column:name"`
	Checksum  string    `gorm:"column:checksum"`
	AppliedAt time.Time `gorm:"column:applied_at"`
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

const createSchemaMigrationsSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  checksum TEXT NOT NULL DEFAULT '',
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// applyEmbeddedMigrations runs every pending migration in version order. Applied
// migrations are never re-run; their recorded checksum must still match the file.
func applyEmbeddedMigrations(database *gorm.DB) error {
	if err := database.Exec(createSchemaMigrationsSQL).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	migrations, err := loadEmbeddedMigrations(embeddedmigrations.Files)
	if err != nil {
		return err
	}

	var applied []schemaMigration
	if err := database.Find(&applied).Error; err != nil {
		return fmt.Errorf("load applied migrations: %w", err)
	}
	appliedByVersion := make(map[string]schemaMigration, len(applied))
	for _, record := range applied {
		appliedByVersion[record.Version] = record
	}

	for _, migration := range migrations {
		record, done := appliedByVersion[migration.Version]
		if done {
			if record.Checksum != "" && record.Checksum != migration.Checksum {
				return fmt.Errorf("%w: %s", errMigrationChanged, migration.Name)
			}
			continue
		}
		if err := applyMigration(database, migration); err != nil {
			return err
		}
		logger.Log.WithField("migration", migration.Name).Info("applied database migration")
	}
	return nil
}

func loadEmbeddedMigrations(files fs.FS) ([]embeddedMigration, error) {
	dirEntries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	migrations := make([]embeddedMigration, 0, len(dirEntries))
	namesByVersion := make(map[string]string, len(dirEntries))
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		matches := migrationFilePattern.FindStringSubmatch(name)
		if dirEntry.IsDir() || matches == nil {
			continue
		}

		version := matches[1]
		if previous, duplicate := namesByVersion[version]; duplicate {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, name)
		}
		namesByVersion[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("migration %s: version: %w", name, err)
		}
		content, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}

		sum := sha256.Sum256(content)
		migrations = append(migrations, embeddedMigration{
			Version:  version,
			Order:    order,
			Name:     name,
			SQL:      string(content),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	slices.SortFunc(migrations, func(a embeddedMigration, b embeddedMigration) int {
		return cmp.Or(cmp.Compare(a.Order, b.Order), strings.Compare(a.Name, b.Name))
	})
	return migrations, nil
}

// applyMigration executes the statements and the bookkeeping row in one transaction.
func applyMigration(database *gorm.DB, migration embeddedMigration) error {
	statements := splitSQLStatements(migration.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("%w: %s", errEmptyMigration, migration.Name)
	}

	return database.Transaction(func(tx *gorm.DB) error {
		for position, statement := range statements {
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("migration %s statement %d: %w", migration.Name, position+1, err)
			}
		}
		record := schemaMigration{
			Version:   migration.Version,
			Name:      migration.Name,
			Checksum:  migration.Checksum,
			AppliedAt: time.Now().UTC(),
		}
		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", migration.Name, err)
		}
		return nil
	})
}

func splitSQLStatements(sqlText string) []string {
	var statements []string
	for part := range strings.SplitSeq(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}
