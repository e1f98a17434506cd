package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hunter.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "View", cfg.Binding.ViewType)
	assert.Equal(t, "android.view.View", cfg.Binding.ViewImport)
	assert.Equal(t, "layout", cfg.Scan.LayoutDirPrefix)
	assert.Equal(t, "src/main", cfg.Scan.SourceRoot)
	assert.Equal(t, 4, cfg.Run.Workers)
	assert.False(t, cfg.Run.DryRun)
	assert.Contains(t, cfg.Scan.FolderIgnorePatterns, "build/")
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
[binding]
utilityTypes = ["androidx.databinding.DataBindingUtil"]
idPrefix = "com.example.R.id."

[binding.viewPackages]
MapView = "com.google.android.gms.maps"

[run]
dryRun = true
workers = 2

[log]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"androidx.databinding.DataBindingUtil"}, cfg.Binding.UtilityTypes)
	assert.Equal(t, "com.example.R.id.", cfg.Binding.IDPrefix)
	assert.Equal(t, "com.google.android.gms.maps", cfg.Binding.ViewPackages["MapView"])
	assert.True(t, cfg.Run.DryRun)
	assert.Equal(t, 2, cfg.Run.Workers)
	assert.Equal(t, "debug", cfg.Log.Level)

	// 文件未出现的字段保持默认值
	assert.Equal(t, "R.layout.", cfg.Binding.LayoutPrefix)
	assert.Len(t, cfg.Binding.BaseTypes, 2)
	assert.Equal(t, "databinding_hunter.db", cfg.Database.DatabaseName)

	// 默认值不受影响
	assert.Len(t, DefaultHunterConfig().Binding.UtilityTypes, 2)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed toml", content: "[binding\nviewType = "},
		{name: "empty utility types", content: "[binding]\nutilityTypes = []"},
		{name: "unqualified base type", content: "[binding]\nbaseTypes = [\"ViewDataBinding\"]"},
		{name: "qualified view type", content: "[binding]\nviewType = \"android.view.View\""},
		{name: "view import mismatch", content: "[binding]\nviewImport = \"android.widget.TextView\""},
		{name: "prefix without dot", content: "[binding]\nlayoutPrefix = \"R.layout\""},
		{name: "zero workers", content: "[run]\nworkers = 0"},
		{name: "unknown log level", content: "[log]\nlevel = \"trace\""},
		{name: "empty layout dir prefix", content: "[scan]\nlayoutDirPrefix = \"\""},
		{name: "empty database name", content: "[database]\ndatabaseName = \"\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})
}

func TestRewriteOptions(t *testing.T) {
	cfg := DefaultHunterConfig()
	cfg.Binding.FindView = "requireViewById"

	opts := cfg.RewriteOptions()
	assert.Equal(t, "requireViewById", opts.FindView)
	assert.Equal(t, cfg.Binding.UtilityTypes, opts.UtilityTypes)
	assert.Equal(t, "android.webkit", opts.ViewPackages["WebView"])

	// 转换结果与配置互不共享
	opts.ViewPackages["WebView"] = "x"
	assert.Equal(t, "android.webkit", cfg.Binding.ViewPackages["WebView"])
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DefaultDatabaseConfig()
	assert.Equal(t, "a.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL", cfg.DSN("a.db"))

	cfg.EnableWAL = false
	cfg.EnableForeignKeys = false
	assert.Equal(t, "a.db?_busy_timeout=5000", cfg.DSN("a.db"))
	assert.Equal(t, "15m0s", cfg.ConnMaxLifetime().String())
}
