package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"databinding-hunter/internal/database"
	"databinding-hunter/internal/model"
	"databinding-hunter/pkg/logger"
)

var ErrRunNotFound = errors.New("run not found")

// RunRepository 运行记录数据访问层
type RunRepository interface {
	// CreateRun 在一个事务中写入运行记录及其失败列表
	CreateRun(run *model.Run) error
	// GetRun 根据ID获取运行记录，包含失败列表
	GetRun(id string) (*model.Run, error)
	// ListRuns 按开始时间倒序列出运行记录，不含失败列表
	ListRuns(limit int) ([]*model.Run, error)
	// LatestRun 最近一次非 dry-run 且未撤销的运行
	LatestRun() (*model.Run, error)
	// MarkUndone 标记运行已撤销
	MarkUndone(id string) error
}

type runRepository struct {
	db     database.DatabaseManager
	logger logger.Logger
}

// NewRunRepository 创建运行记录Repository
func NewRunRepository(db database.DatabaseManager, logger logger.Logger) RunRepository {
	return &runRepository{
		db:     db,
		logger: logger,
	}
}

const runColumns = `id, project_path, dry_run, layouts, units, changed, sites, rewritten, undone, started_at, finished_at`

// CreateRun 创建运行记录
func (r *runRepository) CreateRun(run *model.Run) (err error) {
	tx, err := r.db.BeginTransaction()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec(`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.ProjectPath,
		run.DryRun,
		run.Layouts,
		run.Units,
		run.Changed,
		run.Sites,
		run.Rewritten,
		run.Undone,
		run.StartedAt.UTC(),
		run.FinishedAt.UTC(),
	)
	if err != nil {
		r.logger.Error("Failed to create run %s: %v", run.ID, err)
		return fmt.Errorf("failed to create run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO run_failures (run_id, file_path, line, call, message, frames)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare failure insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range run.Failures {
		f.RunID = run.ID
		result, execErr := stmt.Exec(f.RunID, f.FilePath, f.Line, f.Call, f.Message, f.Frames)
		if execErr != nil {
			err = execErr
			return fmt.Errorf("failed to create run failure: %w", err)
		}
		if id, idErr := result.LastInsertId(); idErr == nil {
			f.ID = id
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun 根据ID获取运行记录
func (r *runRepository) GetRun(id string) (*model.Run, error) {
	row := r.db.GetDB().QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		r.logger.Error("Failed to get run by ID: %v", err)
		return nil, fmt.Errorf("failed to get run by ID: %w", err)
	}

	failures, err := r.failuresOf(id)
	if err != nil {
		return nil, err
	}
	run.Failures = failures
	return run, nil
}

// ListRuns 列出最近的运行记录
func (r *runRepository) ListRuns(limit int) ([]*model.Run, error) {
	rows, err := r.db.GetDB().Query(`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		r.logger.Error("Failed to list runs: %v", err)
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LatestRun 获取最近一次可撤销的运行
func (r *runRepository) LatestRun() (*model.Run, error) {
	row := r.db.GetDB().QueryRow(`
		SELECT ` + runColumns + ` FROM runs
		WHERE dry_run = 0 AND undone = 0 AND changed > 0
		ORDER BY started_at DESC
		LIMIT 1
	`)
	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// MarkUndone 标记运行已撤销
func (r *runRepository) MarkUndone(id string) error {
	result, err := r.db.GetDB().Exec(`UPDATE runs SET undone = 1 WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to mark run %s undone: %v", id, err)
		return fmt.Errorf("failed to mark run undone: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func (r *runRepository) failuresOf(runID string) ([]*model.RunFailure, error) {
	rows, err := r.db.GetDB().Query(`
		SELECT id, run_id, file_path, line, call, message, frames
		FROM run_failures
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run failures: %w", err)
	}
	defer rows.Close()

	var failures []*model.RunFailure
	for rows.Next() {
		var f model.RunFailure
		if err := rows.Scan(&f.ID, &f.RunID, &f.FilePath, &f.Line, &f.Call, &f.Message, &f.Frames); err != nil {
			return nil, fmt.Errorf("failed to scan run failure: %w", err)
		}
		failures = append(failures, &f)
	}
	return failures, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var run model.Run
	err := row.Scan(
		&run.ID,
		&run.ProjectPath,
		&run.DryRun,
		&run.Layouts,
		&run.Units,
		&run.Changed,
		&run.Sites,
		&run.Rewritten,
		&run.Undone,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
