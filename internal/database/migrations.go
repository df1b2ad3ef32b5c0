package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mailcrate/mailcrate/internal/logging"
)

// DefaultMigrationsDirName is the directory, relative to the working
// directory (or an ancestor of it), holding the ordered .sql migrations.
const DefaultMigrationsDirName = "migrations"

// Migration is one ordered schema change loaded from disk.
type Migration struct {
	Version  string
	Filename string
	SQL      string
	Checksum string
}

// MigrationRunner applies pending migrations in version order, recording
// each applied version with a content checksum in schema_migrations.
type MigrationRunner struct {
	db  *pgxpool.Pool
	dir string
}

// NewMigrationRunner builds a runner reading .sql files from dir.
func NewMigrationRunner(db *pgxpool.Pool, dir string) *MigrationRunner {
	return &MigrationRunner{db: db, dir: dir}
}

// FindMigrationsDir walks upward from the working directory until it finds
// the migrations directory.
func FindMigrationsDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("determine working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, DefaultMigrationsDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s directory found above working directory", DefaultMigrationsDirName)
		}
		dir = parent
	}
}

// Run applies all pending migrations and verifies that previously applied
// migrations still match their recorded checksums.
func (m *MigrationRunner) Run(ctx context.Context) error {
	logger := logging.Global()

	if err := m.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	migrations, err := m.LoadFiles()
	if err != nil {
		return fmt.Errorf("load migration files: %w", err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return fmt.Errorf("read applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if checksum, ok := applied[migration.Version]; ok {
			if checksum != migration.Checksum {
				return fmt.Errorf("migration %s modified after execution (checksum mismatch)", migration.Version)
			}
			continue
		}
		if err := m.apply(ctx, migration); err != nil {
			return fmt.Errorf("apply migration %s: %w", migration.Version, err)
		}
		logger.Info("migration applied",
			"version", migration.Version,
			"checksum", migration.Checksum[:12],
		)
	}
	return nil
}

// LoadFiles reads the .sql files from the migrations directory, sorted by
// version prefix (001_, 002_, ...).
func (m *MigrationRunner) LoadFiles() ([]Migration, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations directory %s: %w", m.dir, err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration file %s: %w", entry.Name(), err)
		}
		sum := sha256.Sum256(content)
		migrations = append(migrations, Migration{
			Version:  strings.TrimSuffix(entry.Name(), ".sql"),
			Filename: entry.Name(),
			SQL:      string(content),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func (m *MigrationRunner) ensureMigrationsTable(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version     VARCHAR(255) PRIMARY KEY,
			checksum    VARCHAR(64) NOT NULL,
			executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	return err
}

func (m *MigrationRunner) appliedVersions(ctx context.Context) (map[string]string, error) {
	rows, err := m.db.Query(ctx, `SELECT version, checksum FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]string)
	for rows.Next() {
		var version, checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		applied[version] = checksum
	}
	return applied, rows.Err()
}

// apply runs one migration and records it inside a single transaction, so a
// half-applied migration never counts as done.
func (m *MigrationRunner) apply(ctx context.Context, migration Migration) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, migration.SQL); err != nil {
		return fmt.Errorf("execute migration SQL: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)`,
		migration.Version, migration.Checksum); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}
	return tx.Commit(ctx)
}
