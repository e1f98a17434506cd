package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"databinding-hunter/internal/config"
	"databinding-hunter/pkg/logger"

	_ "github.com/mattn/go-sqlite3" // SQLite3驱动
)

// DatabaseManager 运行历史数据库
type DatabaseManager interface {
	Initialize() error
	Close() error
	GetDB() *sql.DB
	BeginTransaction() (*sql.Tx, error)
	// Path 数据库文件路径
	Path() string
}

// SQLiteManager SQLite数据库管理器实现
type SQLiteManager struct {
	db     *sql.DB
	config *config.DatabaseConfig
	logger logger.Logger
	mutex  sync.RWMutex
}

// NewSQLiteManager 创建SQLite数据库管理器
func NewSQLiteManager(config *config.DatabaseConfig, logger logger.Logger) DatabaseManager {
	return &SQLiteManager{
		config: config,
		logger: logger,
	}
}

func (m *SQLiteManager) Path() string {
	return filepath.Join(m.config.DataDir, m.config.DatabaseName)
}

// Initialize 打开数据库并执行迁移；重复调用无副作用
func (m *SQLiteManager) Initialize() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.db != nil {
		return nil
	}

	db, err := m.open()
	if err != nil {
		return err
	}
	if err := NewMigrator(db, m.logger).AutoMigrate(); err != nil {
		db.Close()
		return err
	}

	m.db = db
	m.logger.Info("Database initialized successfully")
	m.logger.Debug("run history database: %s", m.Path())
	return nil
}

func (m *SQLiteManager) open() (*sql.DB, error) {
	if err := os.MkdirAll(m.config.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", m.config.DataDir, err)
	}
	dbPath := m.Path()

	db, err := sql.Open("sqlite3", m.config.DSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	// 单进程 CLI，一个写连接即可避免 SQLITE_BUSY
	db.SetMaxOpenConns(m.config.MaxOpenConns)
	db.SetMaxIdleConns(m.config.MaxIdleConns)
	db.SetConnMaxLifetime(m.config.ConnMaxLifetime())

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", dbPath, err)
	}
	return db, nil
}

// Close 关闭数据库连接，可重复调用
func (m *SQLiteManager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// GetDB 获取数据库连接，未初始化时为 nil
func (m *SQLiteManager) GetDB() *sql.DB {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.db
}

// BeginTransaction 开始事务
func (m *SQLiteManager) BeginTransaction() (*sql.Tx, error) {
	db := m.GetDB()
	if db == nil {
		return nil, ErrNotInitialized
	}
	return db.Begin()
}
