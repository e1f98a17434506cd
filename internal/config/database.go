package config

import (
	"fmt"
	"time"

	"databinding-hunter/internal/utils"
)

// DatabaseConfig 运行记录数据库配置
type DatabaseConfig struct {
	DataDir                string `toml:"dataDir"`                // 数据库文件存储目录
	DatabaseName           string `toml:"databaseName"`           // 数据库文件名
	MaxOpenConns           int    `toml:"maxOpenConns"`           // 最大打开连接数
	MaxIdleConns           int    `toml:"maxIdleConns"`           // 最大空闲连接数
	ConnMaxLifetimeMinutes int    `toml:"connMaxLifetimeMinutes"` // 连接最大生命周期
	EnableWAL              bool   `toml:"enableWAL"`              // 启用WAL模式
	EnableForeignKeys      bool   `toml:"enableForeignKeys"`      // 启用外键约束
	HistoryLimit           int    `toml:"historyLimit"`           // 默认列出的运行记录条数
}

// DefaultDatabaseConfig 默认数据库配置
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		DataDir:                utils.DbDir,
		DatabaseName:           "databinding_hunter.db",
		MaxOpenConns:           1,
		MaxIdleConns:           1,
		ConnMaxLifetimeMinutes: 15,
		EnableWAL:              true,
		EnableForeignKeys:      true,
		HistoryLimit:           20,
	}
}

func (c *DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

func (c *DatabaseConfig) Validate() error {
	if c.DatabaseName == "" {
		return fmt.Errorf("invalid config: database.databaseName is empty")
	}
	if c.MaxOpenConns < 1 {
		return fmt.Errorf("invalid config: database.maxOpenConns must be at least 1")
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("invalid config: database.historyLimit must be at least 1")
	}
	return nil
}

// DSN builds the go-sqlite3 connection string.
func (c *DatabaseConfig) DSN(path string) string {
	dsn := path + "?_busy_timeout=5000"
	if c.EnableForeignKeys {
		dsn += "&_foreign_keys=on"
	}
	if c.EnableWAL {
		dsn += "&_journal_mode=WAL"
	}
	return dsn
}
