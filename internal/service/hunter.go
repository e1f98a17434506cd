package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"databinding-hunter/internal/config"
	"databinding-hunter/internal/errs"
	"databinding-hunter/internal/journal"
	"databinding-hunter/internal/model"
	"databinding-hunter/internal/repository"
	"databinding-hunter/internal/scanner"
	"databinding-hunter/internal/utils"
	"databinding-hunter/pkg/binding/layout"
	"databinding-hunter/pkg/binding/resolver"
	"databinding-hunter/pkg/binding/rewrite"
	"databinding-hunter/pkg/binding/syntax"
	"databinding-hunter/pkg/logger"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
)

// LatestRun Undo 接受的特殊运行ID
const LatestRun = "latest"

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrSyntaxError   = errors.New("source has syntax errors")
)

// HunterService 移除 data binding 的服务接口
type HunterService interface {
	Run(ctx context.Context, projectDir string) (*Report, error)
	Undo(ctx context.Context, runID string, force bool) (*journal.RestoreResult, error)
	History(ctx context.Context, limit int) ([]*model.Run, error)
}

// Hunter HunterService 实现
type Hunter struct {
	cfg     *config.HunterConfig
	scanner scanner.ScannerInterface
	journal *journal.Journal
	runs    repository.RunRepository
	logger  logger.Logger
	newID   func() string
}

// NewHunter 创建服务；journal 和 runs 为 nil 时不记录撤销日志和运行历史
func NewHunter(
	cfg *config.HunterConfig,
	fileScanner scanner.ScannerInterface,
	undoJournal *journal.Journal,
	runs repository.RunRepository,
	logger logger.Logger,
) *Hunter {
	return &Hunter{
		cfg:     cfg,
		scanner: fileScanner,
		journal: undoJournal,
		runs:    runs,
		logger:  logger,
		newID:   newRunID,
	}
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// runner 一次运行的状态
type runner struct {
	*Hunter
	report *Report
	writes []pendingWrite
}

type pendingWrite struct {
	path      string
	original  []byte
	rewritten []byte
}

func (h *runner) relPath(path string) string {
	if rel, err := filepath.Rel(h.report.ProjectDir, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// Run 扫描项目、解析布局、逐个重写编译单元。单元之间相互隔离，
// 单个单元的错误或 panic 只记录为失败
func (h *Hunter) Run(ctx context.Context, projectDir string) (*Report, error) {
	report := &Report{
		RunID:     h.newID(),
		DryRun:    h.cfg.Run.DryRun,
		Diffs:     make(map[string]string),
		StartedAt: time.Now(),
	}
	r := &runner{Hunter: h, report: report}

	scanned, err := h.scanner.Scan(ctx, projectDir)
	if err != nil {
		return nil, err
	}
	report.ProjectDir = scanned.ProjectDir
	report.Roots = len(scanned.Roots)
	h.logger.Info("run %s: project %s, dry-run %v", report.RunID, report.ProjectDir, report.DryRun)

	layouts, failures, err := r.loadLayouts(ctx, scanned.Layouts())
	if err != nil {
		return nil, err
	}
	for _, f := range failures {
		report.addFailure(f)
	}
	registry := layout.NewRegistry()
	for _, l := range layouts {
		registry.Register(l.info)
		if l.unwrapped != nil {
			report.Unwrapped = append(report.Unwrapped, r.relPath(l.path))
			r.stage(l.path, l.original, l.unwrapped)
		}
	}
	report.Layouts = len(layouts)

	units := scanned.Units()
	engine := rewrite.NewEngine(h.cfg.RewriteOptions(), r.symbolResolver(units, registry), h.logger)
	for _, path := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Units++
		r.rewriteFile(engine, registry, path)
	}

	stats := registry.LookupStats()
	h.logger.Debug("layout lookups: %d cached, %d resolved", stats.Hits, stats.Misses)

	if err := r.flush(ctx); err != nil {
		return nil, err
	}
	report.FinishedAt = time.Now()

	if h.runs != nil {
		if err := h.runs.CreateRun(report.toRun()); err != nil {
			h.logger.Error("run %s: failed to record history: %v", report.RunID, err)
		}
	}
	h.logger.Info("run %s finished in %v: %d units changed, %d/%d binding calls rewritten, %d failures",
		report.RunID, report.FinishedAt.Sub(report.StartedAt), len(report.Changed), report.Rewritten, report.Sites, len(report.Failures))
	return report, nil
}

// symbolResolver 源码中声明的类优先，其次是构建生成的绑定类
func (h *runner) symbolResolver(units []string, registry *layout.Registry) resolver.SymbolResolver {
	index := resolver.NewClassIndex()
	for _, path := range units {
		if err := index.AddFile(path); err != nil {
			h.logger.Warn("class index: %s: %v", h.relPath(path), err)
		}
	}
	h.logger.Debug("class index: %d classes", index.Len())

	opts := h.cfg.RewriteOptions()
	return resolver.Chain{
		index,
		resolver.NewGeneratedBindings(opts.BaseTypes[0], registry.Has),
	}
}

// rewriteFile 重写单个文件，错误和 panic 转为失败记录
func (h *runner) rewriteFile(engine *rewrite.Engine, registry *layout.Registry, path string) {
	rel := h.relPath(path)
	res, original, err := rewriteUnit(engine, registry, path)
	if err != nil {
		h.logger.Error("%s: %v", rel, err)
		h.report.addFailure(newUnitFailure(rel, err))
		return
	}

	h.report.Sites += res.Sites
	h.report.Rewritten += res.Rewritten
	for _, f := range res.Failures {
		h.report.addFailure(&UnitFailure{
			Path:    rel,
			Line:    f.Line,
			Call:    f.Call,
			Kind:    errs.Kind(f.Err),
			Message: f.Err.Error(),
		})
	}
	if res.Changed {
		h.report.Changed = append(h.report.Changed, rel)
		h.stage(path, original, res.Source)
	}
}

func rewriteUnit(engine *rewrite.Engine, registry *layout.Registry, path string) (res *rewrite.Result, content []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = nil, errs.FromPanic(r)
		}
	}()

	content, err = os.ReadFile(path)
	if err != nil {
		return nil, nil, errs.WithStack(err)
	}
	unit, err := syntax.Parse(path, content)
	if err != nil {
		return nil, nil, errs.WithStack(err)
	}
	defer unit.Close()
	// 语法树有错误时改写位置不可靠，整个文件跳过
	if unit.HasError() {
		return nil, nil, errs.WithStack(ErrSyntaxError)
	}

	res, err = engine.RewriteUnit(unit, registry)
	if err != nil {
		return nil, nil, errs.WithStack(err)
	}
	return res, content, nil
}

// stage 记录待写入的内容
func (h *runner) stage(path string, original, rewritten []byte) {
	h.writes = append(h.writes, pendingWrite{path: path, original: original, rewritten: rewritten})
}

// flush dry-run 只生成差异；否则先写撤销日志再逐个原子写入
func (h *runner) flush(ctx context.Context) error {
	if len(h.writes) == 0 {
		return nil
	}
	if h.report.DryRun {
		for _, w := range h.writes {
			diff, err := unifiedDiff(h.relPath(w.path), w.original, w.rewritten)
			if err != nil {
				return err
			}
			h.report.Diffs[h.relPath(w.path)] = diff
		}
		return nil
	}

	if h.journal != nil {
		entries := make([]journal.Entry, 0, len(h.writes))
		for _, w := range h.writes {
			entries = append(entries, journal.Entry{Path: w.path, Original: w.original, Rewritten: w.rewritten})
		}
		if err := h.journal.Record(ctx, h.report.RunID, entries); err != nil {
			return fmt.Errorf("run %s: %w", h.report.RunID, err)
		}
	}
	for _, w := range h.writes {
		if err := utils.WriteFileAtomic(w.path, w.rewritten); err != nil {
			h.report.addFailure(newUnitFailure(h.relPath(w.path), errs.WithStack(err)))
		}
	}
	return nil
}

func unifiedDiff(rel string, original, rewritten []byte) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(rewritten)),
		FromFile: "a/" + rel,
		ToFile:   "b/" + rel,
		Context:  3,
	})
}

// Undo 恢复运行前的文件内容；runID 为空或 latest 时撤销最近一次运行
func (h *Hunter) Undo(ctx context.Context, runID string, force bool) (*journal.RestoreResult, error) {
	if h.journal == nil {
		return nil, ErrNothingToUndo
	}
	if runID == "" || runID == LatestRun {
		if h.runs == nil {
			return nil, ErrNothingToUndo
		}
		latest, err := h.runs.LatestRun()
		if errors.Is(err, repository.ErrRunNotFound) {
			return nil, ErrNothingToUndo
		}
		if err != nil {
			return nil, err
		}
		runID = latest.ID
	}

	result, err := h.journal.Restore(ctx, runID, force)
	if err != nil {
		return result, err
	}
	if len(result.Conflicts) > 0 {
		h.logger.Warn("undo %s: %d files changed since the run, rerun with force to overwrite", runID, len(result.Conflicts))
		return result, nil
	}

	if err := h.journal.Forget(runID); err != nil {
		h.logger.Warn("undo %s: failed to clear journal: %v", runID, err)
	}
	if h.runs != nil {
		if err := h.runs.MarkUndone(runID); err != nil && !errors.Is(err, repository.ErrRunNotFound) {
			return result, err
		}
	}
	h.logger.Info("undo %s: restored %d files", runID, len(result.Restored))
	return result, nil
}

// History 最近的运行记录；limit 不大于 0 时使用配置的默认条数
func (h *Hunter) History(ctx context.Context, limit int) ([]*model.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if h.runs == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = h.cfg.Database.HistoryLimit
	}
	return h.runs.ListRuns(limit)
}
