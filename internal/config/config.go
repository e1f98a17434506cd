// config.go - Hunter configuration management

package config

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"databinding-hunter/pkg/binding/rewrite"
	"databinding-hunter/pkg/logger"

	"github.com/pelletier/go-toml/v2"
)

// ConfigBinding 绑定层的类型名与资源前缀
type ConfigBinding struct {
	UtilityTypes  []string          `toml:"utilityTypes"`
	BaseTypes     []string          `toml:"baseTypes"`
	ViewType      string            `toml:"viewType"`
	ViewImport    string            `toml:"viewImport"`
	RootGetter    string            `toml:"rootGetter"`
	FindView      string            `toml:"findView"`
	LayoutPrefix  string            `toml:"layoutPrefix"`
	IDPrefix      string            `toml:"idPrefix"`
	ViewPackages  map[string]string `toml:"viewPackages"`
	WidgetPackage string            `toml:"widgetPackage"`
}

type ConfigScan struct {
	FolderIgnorePatterns []string `toml:"folderIgnorePatterns"`
	SourceRoot           string   `toml:"sourceRoot"`      // 源码根目录的相对路径，如 src/main
	LayoutDirPrefix      string   `toml:"layoutDirPrefix"` // layout、layout-land 等
	MaxFileSizeKB        int      `toml:"maxFileSizeKB"`
}

type ConfigRun struct {
	DryRun        bool `toml:"dryRun"`
	UnwrapLayouts bool `toml:"unwrapLayouts"`
	Workers       int  `toml:"workers"` // 布局解析并发数
}

type ConfigLog struct {
	Dir   string `toml:"dir"`
	Level string `toml:"level"`
}

type ConfigStorage struct {
	JournalDir  string `toml:"journalDir"`
	DatabaseDir string `toml:"databaseDir"`
}

// HunterConfig 配置文件结构
type HunterConfig struct {
	Binding  ConfigBinding  `toml:"binding"`
	Scan     ConfigScan     `toml:"scan"`
	Run      ConfigRun      `toml:"run"`
	Log      ConfigLog      `toml:"log"`
	Storage  ConfigStorage  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
}

var DefaultFolderIgnorePatterns = []string{
	// Filter all directories starting with dot
	".*",
	// Build outputs and generated sources
	"build/", "out/", "bin/", "target/",
	"generated/", "intermediates/",
	"node_modules/", "logs/", "tmp/",
}

// DefaultConfigBinding mirrors rewrite.DefaultOptions
func DefaultConfigBinding() ConfigBinding {
	opts := rewrite.DefaultOptions()
	return ConfigBinding{
		UtilityTypes:  opts.UtilityTypes,
		BaseTypes:     opts.BaseTypes,
		ViewType:      opts.ViewType,
		ViewImport:    opts.ViewImport,
		RootGetter:    opts.RootGetter,
		FindView:      opts.FindView,
		LayoutPrefix:  opts.LayoutPrefix,
		IDPrefix:      opts.IDPrefix,
		ViewPackages:  opts.ViewPackages,
		WidgetPackage: opts.WidgetPackage,
	}
}

// DefaultHunterConfig returns a fresh default configuration; callers may mutate it.
func DefaultHunterConfig() *HunterConfig {
	return &HunterConfig{
		Binding: DefaultConfigBinding(),
		Scan: ConfigScan{
			FolderIgnorePatterns: slices.Clone(DefaultFolderIgnorePatterns),
			SourceRoot:           "src/main",
			LayoutDirPrefix:      "layout",
			MaxFileSizeKB:        2048,
		},
		Run: ConfigRun{
			Workers: 4,
		},
		Log: ConfigLog{
			Level: "info",
		},
		Database: *DefaultDatabaseConfig(),
	}
}

// Load 读取 TOML 配置，文件中出现的字段覆盖默认值；path 为空时返回默认配置
func Load(path string) (*HunterConfig, error) {
	cfg := DefaultHunterConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	// 文件中的数组整体替换默认值
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields the rewrite depends on.
func (c *HunterConfig) Validate() error {
	b := c.Binding
	if len(b.UtilityTypes) == 0 {
		return fmt.Errorf("invalid config: binding.utilityTypes is empty")
	}
	if len(b.BaseTypes) == 0 {
		return fmt.Errorf("invalid config: binding.baseTypes is empty")
	}
	for _, name := range slices.Concat(b.UtilityTypes, b.BaseTypes, []string{b.ViewImport}) {
		if !isQualified(name) {
			return fmt.Errorf("invalid config: %q is not a qualified type name", name)
		}
	}
	if b.ViewType == "" || strings.Contains(b.ViewType, ".") {
		return fmt.Errorf("invalid config: binding.viewType %q must be a simple name", b.ViewType)
	}
	if !strings.HasSuffix(b.ViewImport, "."+b.ViewType) {
		return fmt.Errorf("invalid config: binding.viewImport %q does not name %s", b.ViewImport, b.ViewType)
	}
	if b.RootGetter == "" || b.FindView == "" {
		return fmt.Errorf("invalid config: binding.rootGetter and binding.findView are required")
	}
	for _, prefix := range []string{b.LayoutPrefix, b.IDPrefix} {
		if !strings.HasSuffix(prefix, ".") {
			return fmt.Errorf("invalid config: resource prefix %q must end with '.'", prefix)
		}
	}
	if c.Scan.LayoutDirPrefix == "" {
		return fmt.Errorf("invalid config: scan.layoutDirPrefix is empty")
	}
	if c.Scan.SourceRoot == "" {
		return fmt.Errorf("invalid config: scan.sourceRoot is empty")
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("invalid config: run.workers must be at least 1, got %d", c.Run.Workers)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.Database.Validate()
}

// RewriteOptions converts the binding section for the rewrite engine.
func (c *HunterConfig) RewriteOptions() rewrite.Options {
	b := c.Binding
	return rewrite.Options{
		UtilityTypes:  slices.Clone(b.UtilityTypes),
		BaseTypes:     slices.Clone(b.BaseTypes),
		ViewType:      b.ViewType,
		ViewImport:    b.ViewImport,
		RootGetter:    b.RootGetter,
		FindView:      b.FindView,
		LayoutPrefix:  b.LayoutPrefix,
		IDPrefix:      b.IDPrefix,
		ViewPackages:  maps.Clone(b.ViewPackages),
		WidgetPackage: b.WidgetPackage,
	}
}

func isQualified(name string) bool {
	if !strings.Contains(name, ".") {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" {
			return false
		}
	}
	return true
}
