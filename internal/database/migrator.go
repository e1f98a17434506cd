package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"databinding-hunter/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

var ErrNotInitialized = errors.New("database not initialized")

// Migration 一个内嵌的迁移脚本
type Migration struct {
	Version     string
	Description string
	SQL         string
}

// Migrator 按版本顺序执行未应用的迁移
type Migrator struct {
	db     *sql.DB
	logger logger.Logger
	source fs.FS
}

func NewMigrator(db *sql.DB, logger logger.Logger) *Migrator {
	return &Migrator{db: db, logger: logger, source: migrationFS}
}

const createMigrationTable = `
	CREATE TABLE IF NOT EXISTS migrations (
		version VARCHAR(255) PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// AutoMigrate 执行所有未应用的迁移，每个迁移一个事务
func (m *Migrator) AutoMigrate() error {
	if _, err := m.db.Exec(createMigrationTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	pending, err := m.Pending()
	if err != nil {
		return err
	}
	for _, migration := range pending {
		if err := m.apply(migration); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Description, err)
		}
	}
	m.logger.Debug("Auto migration completed, %d applied", len(pending))
	return nil
}

// Pending 尚未应用的迁移，按版本升序
func (m *Migrator) Pending() ([]Migration, error) {
	applied, err := m.applied()
	if err != nil {
		return nil, err
	}
	all, err := loadMigrations(m.source)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, migration := range all {
		if !applied[migration.Version] {
			pending = append(pending, migration)
		}
	}
	return pending, nil
}

func (m *Migrator) applied() (map[string]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func (m *Migrator) apply(migration Migration) (err error) {
	m.logger.Info("Applying migration %s", migration.Description)

	tx, err := m.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(migration.SQL); err != nil {
		return err
	}
	if _, err = tx.Exec(
		"INSERT INTO migrations (version, description, applied_at) VALUES (?, ?, ?)",
		migration.Version, migration.Description, time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// loadMigrations 读取 migrations/ 下命名合法的脚本，其他文件忽略
func loadMigrations(source fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(source, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		version, ok := parseMigrationName(entry.Name())
		if entry.IsDir() || !ok {
			continue
		}
		content, err := fs.ReadFile(source, path.Join("migrations", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version:     version,
			Description: strings.TrimSuffix(entry.Name(), ".sql"),
			SQL:         string(content),
		})
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// parseMigrationName 文件名格式: <14位时间戳>_<create|update|delete>_<对象>_<说明>.sql
func parseMigrationName(name string) (string, bool) {
	base, ok := strings.CutSuffix(name, ".sql")
	if !ok {
		return "", false
	}
	parts := strings.Split(base, "_")
	if len(parts) < 4 || len(parts[0]) != 14 {
		return "", false
	}
	switch parts[1] {
	case "create", "update", "delete":
		return parts[0], true
	}
	return "", false
}
