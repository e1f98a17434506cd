// scanner/scanner.go - 项目文件扫描器
package scanner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"databinding-hunter/internal/config"
	"databinding-hunter/pkg/binding/syntax"
	"databinding-hunter/pkg/logger"

	gitignore "github.com/sabhiram/go-gitignore"
)

// SourceRoot 一个模块的 src/main 目录及其中的布局文件和 Java 文件
type SourceRoot struct {
	Dir     string
	Layouts []string
	Units   []string
}

// ScanResult 扫描结果，路径均为绝对路径并按字典序排列
type ScanResult struct {
	ProjectDir string
	Roots      []*SourceRoot
	Skipped    int
}

func (r *ScanResult) Layouts() []string {
	var all []string
	for _, root := range r.Roots {
		all = append(all, root.Layouts...)
	}
	return all
}

func (r *ScanResult) Units() []string {
	var all []string
	for _, root := range r.Roots {
		all = append(all, root.Units...)
	}
	return all
}

type ScannerInterface interface {
	Scan(ctx context.Context, projectDir string) (*ScanResult, error)
}

type FileScanner struct {
	config config.ConfigScan
	logger logger.Logger
}

func NewFileScanner(cfg config.ConfigScan, logger logger.Logger) ScannerInterface {
	return &FileScanner{
		config: cfg,
		logger: logger,
	}
}

// loadIgnoreRules 默认规则与项目根目录 .gitignore 合并
func (fs *FileScanner) loadIgnoreRules(projectDir string) *gitignore.GitIgnore {
	lines := append([]string(nil), fs.config.FolderIgnorePatterns...)

	ignoreFilePath := filepath.Join(projectDir, ".gitignore")
	if content, err := os.ReadFile(ignoreFilePath); err == nil {
		for _, line := range bytes.Split(content, []byte{'\n'}) {
			line = bytes.TrimSpace(line)
			if len(line) > 0 && !bytes.HasPrefix(line, []byte{'#'}) {
				lines = append(lines, string(line))
			}
		}
	} else if !os.IsNotExist(err) {
		fs.logger.Warn("读取.gitignore文件失败: %v", err)
	}

	return gitignore.CompileIgnoreLines(lines...)
}

// Scan 查找所有源码根目录，收集其中的布局 XML 和 Java 文件
func (fs *FileScanner) Scan(ctx context.Context, projectDir string) (*ScanResult, error) {
	projectDir, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("无法解析项目路径 %s: %w", projectDir, err)
	}
	info, err := os.Stat(projectDir)
	if err != nil {
		return nil, fmt.Errorf("无法访问项目目录 %s: %w", projectDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s 不是目录", projectDir)
	}

	fs.logger.Info("开始扫描项目: %s", projectDir)
	startTime := time.Now()

	ignore := fs.loadIgnoreRules(projectDir)
	sourceRoot := filepath.FromSlash(fs.config.SourceRoot)
	maxSize := int64(fs.config.MaxFileSizeKB) * 1024

	result := &ScanResult{ProjectDir: projectDir}
	var current *SourceRoot

	err = filepath.Walk(projectDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			fs.logger.Warn("访问文件 %s 时出错: %v", path, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		relPath, relErr := filepath.Rel(projectDir, path)
		if relErr != nil {
			fs.logger.Warn("无法获取文件 %s 的相对路径: %v", path, relErr)
			return nil
		}
		slashPath := filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath == "." {
				return nil
			}
			if ignore.MatchesPath(slashPath + "/") {
				return filepath.SkipDir
			}
			if current != nil && isWithin(path, current.Dir) {
				return nil
			}
			if strings.HasSuffix(path, string(filepath.Separator)+sourceRoot) {
				current = &SourceRoot{Dir: path}
				result.Roots = append(result.Roots, current)
				fs.logger.Debug("发现源码目录: %s", relPath)
			}
			return nil
		}

		if current == nil || !isWithin(path, current.Dir) {
			return nil
		}
		if ignore.MatchesPath(slashPath) {
			return nil
		}

		isUnit := syntax.IsSupported(path)
		if !isUnit && !fs.isLayout(path) {
			return nil
		}
		if maxSize > 0 && info.Size() > maxSize {
			fs.logger.Warn("文件 %s 超过大小限制 %dKB，跳过", relPath, fs.config.MaxFileSizeKB)
			result.Skipped++
			return nil
		}

		if isUnit {
			current.Units = append(current.Units, path)
		} else {
			current.Layouts = append(current.Layouts, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("扫描目录失败: %w", err)
	}

	for _, root := range result.Roots {
		sort.Strings(root.Layouts)
		sort.Strings(root.Units)
	}

	fs.logger.Info("项目扫描完成，共 %d 个源码目录，%d 个布局文件，%d 个Java文件，耗时: %v",
		len(result.Roots), len(result.Layouts()), len(result.Units()), time.Since(startTime))
	return result, nil
}

// isLayout 父目录以布局目录前缀开头的 xml 文件，如 res/layout-land/a.xml
func (fs *FileScanner) isLayout(path string) bool {
	if filepath.Ext(path) != ".xml" {
		return false
	}
	return strings.HasPrefix(filepath.Base(filepath.Dir(path)), fs.config.LayoutDirPrefix)
}

func isWithin(path, dir string) bool {
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}
