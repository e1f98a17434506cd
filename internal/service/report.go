package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"databinding-hunter/internal/errs"
	"databinding-hunter/internal/model"
)

// UnitFailure 一个失败的文件或调用点。Line 为 0 表示整个文件失败
type UnitFailure struct {
	Path    string
	Line    uint
	Call    string
	Kind    string
	Message string
	Frames  []string
}

func (f *UnitFailure) String() string {
	var b strings.Builder
	b.WriteString(f.Path)
	if f.Line > 0 {
		fmt.Fprintf(&b, ":%d", f.Line)
	}
	if f.Call != "" {
		fmt.Fprintf(&b, " %s", f.Call)
	}
	fmt.Fprintf(&b, " [%s] %s", f.Kind, f.Message)
	for _, frame := range f.Frames {
		b.WriteString("\n\t")
		b.WriteString(strings.ReplaceAll(frame, "\n", "\n\t"))
	}
	return b.String()
}

// newUnitFailure 整个文件失败，保留栈帧
func newUnitFailure(path string, err error) *UnitFailure {
	return &UnitFailure{
		Path:    path,
		Kind:    errs.Kind(err),
		Message: err.Error(),
		Frames:  errs.Frames(err, errs.DefaultFrameCount),
	}
}

// Report 一次运行的结果
type Report struct {
	RunID      string
	ProjectDir string
	DryRun     bool
	Roots      int
	Layouts    int
	// Unwrapped 去掉 <layout> 包裹的布局文件
	Unwrapped []string
	Units     int
	// Changed 内容发生变化的 Java 文件，相对项目目录
	Changed    []string
	Diffs      map[string]string
	Sites      int
	Rewritten  int
	Failures   []*UnitFailure
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r *Report) addFailure(f *UnitFailure) {
	r.Failures = append(r.Failures, f)
}

// Summary 运行摘要，列出改动的文件和失败
func (r *Report) Summary() string {
	var b strings.Builder
	mode := "run"
	if r.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(&b, "%s %s: %d source roots, %d layouts, %d units\n", mode, r.RunID, r.Roots, r.Layouts, r.Units)
	fmt.Fprintf(&b, "binding calls: %d found, %d rewritten\n", r.Sites, r.Rewritten)
	if len(r.Unwrapped) > 0 {
		fmt.Fprintf(&b, "unwrapped layouts (%d):\n", len(r.Unwrapped))
		for _, path := range r.Unwrapped {
			fmt.Fprintf(&b, "  %s\n", path)
		}
	}
	fmt.Fprintf(&b, "changed units (%d):\n", len(r.Changed))
	for _, path := range r.Changed {
		fmt.Fprintf(&b, "  %s\n", path)
	}
	if len(r.Failures) > 0 {
		fmt.Fprintf(&b, "failures (%d):\n", len(r.Failures))
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "  %s\n", f)
		}
	}
	return b.String()
}

// DiffText 按路径顺序拼接 dry-run 的差异
func (r *Report) DiffText() string {
	paths := make([]string, 0, len(r.Diffs))
	for path := range r.Diffs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		b.WriteString(r.Diffs[path])
	}
	return b.String()
}

func (r *Report) toRun() *model.Run {
	run := &model.Run{
		ID:          r.RunID,
		ProjectPath: r.ProjectDir,
		DryRun:      r.DryRun,
		Layouts:     r.Layouts,
		Units:       r.Units,
		Changed:     len(r.Changed) + len(r.Unwrapped),
		Sites:       r.Sites,
		Rewritten:   r.Rewritten,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	}
	for _, f := range r.Failures {
		run.Failures = append(run.Failures, &model.RunFailure{
			FilePath: f.Path,
			Line:     int(f.Line),
			Call:     f.Call,
			Message:  fmt.Sprintf("[%s] %s", f.Kind, f.Message),
			Frames:   strings.Join(f.Frames, "\n"),
		})
	}
	return run
}
