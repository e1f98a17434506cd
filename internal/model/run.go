package model

import "time"

// Run 一次重写运行的汇总记录
type Run struct {
	ID          string        `json:"id" db:"id"`
	ProjectPath string        `json:"projectPath" db:"project_path"`
	DryRun      bool          `json:"dryRun" db:"dry_run"`
	Layouts     int           `json:"layouts" db:"layouts"`
	Units       int           `json:"units" db:"units"`
	Changed     int           `json:"changed" db:"changed"`
	Sites       int           `json:"sites" db:"sites"`
	Rewritten   int           `json:"rewritten" db:"rewritten"`
	Undone      bool          `json:"undone" db:"undone"`
	StartedAt   time.Time     `json:"startedAt" db:"started_at"`
	FinishedAt  time.Time     `json:"finishedAt" db:"finished_at"`
	Failures    []*RunFailure `json:"failures,omitempty" db:"-"`
}

// RunFailure 单个失败的调用点或编译单元
type RunFailure struct {
	ID       int64  `json:"id" db:"id"`
	RunID    string `json:"runId" db:"run_id"`
	FilePath string `json:"filePath" db:"file_path"`
	Line     int    `json:"line" db:"line"`
	Call     string `json:"call" db:"call"`
	Message  string `json:"message" db:"message"`
	// Frames 以换行拼接的栈帧，仅单元级失败有
	Frames string `json:"frames,omitempty" db:"frames"`
}

// Duration 运行耗时
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
