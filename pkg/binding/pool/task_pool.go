package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"databinding-hunter/internal/errs"
	"databinding-hunter/pkg/logger"
)

// ErrPoolClosed 定义包级错误变量，用于错误比较
var ErrPoolClosed = errors.New("task pool is closed")

// Task 任务类型，接收上下文参数和任务ID，返回的错误由 Wait 汇总
type Task func(ctx context.Context, taskID uint64) error

// TaskPool 固定并发数的任务池，任务中的 panic 转换为错误
type TaskPool struct {
	logger         logger.Logger
	maxConcurrency int
	tasks          chan Task
	wg             sync.WaitGroup
	mu             sync.Mutex
	closed         bool
	taskID         uint64

	errMu  sync.Mutex
	errors []error
}

// NewTaskPool 创建任务池
func NewTaskPool(maxConcurrency int, log logger.Logger) *TaskPool {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	p := &TaskPool{
		maxConcurrency: maxConcurrency,
		tasks:          make(chan Task, maxConcurrency*2),
		logger:         log,
	}
	p.startWorkers()
	return p
}

func (p *TaskPool) startWorkers() {
	for i := 0; i < p.maxConcurrency; i++ {
		go func(workerID int) {
			for task := range p.tasks {
				taskID := atomic.AddUint64(&p.taskID, 1)
				p.logger.Debug("worker %d starting task %d", workerID, taskID)
				p.run(task, taskID)
				p.wg.Done()
			}
		}(i)
	}
}

func (p *TaskPool) run(task Task, taskID uint64) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task %d panicked: %v", taskID, r)
			p.record(errs.FromPanic(r))
		}
	}()
	if err := task(context.Background(), taskID); err != nil {
		p.record(err)
	}
}

func (p *TaskPool) record(err error) {
	p.errMu.Lock()
	p.errors = append(p.errors, err)
	p.errMu.Unlock()
}

// Submit 提交任务，ctx 在任务开始执行前取消时任务被跳过
func (p *TaskPool) Submit(ctx context.Context, task Task) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPoolClosed
	}

	wrapped := func(_ context.Context, taskID uint64) error {
		select {
		case <-ctx.Done():
			p.logger.Info("task %d cancelled before execution: %v", taskID, ctx.Err())
			return ctx.Err()
		default:
			return task(ctx, taskID)
		}
	}

	p.wg.Add(1)
	p.tasks <- wrapped
	return nil
}

// Wait 等待已提交的任务完成，返回期间产生的错误并清空
func (p *TaskPool) Wait() []error {
	p.wg.Wait()
	p.errMu.Lock()
	defer p.errMu.Unlock()
	out := p.errors
	p.errors = nil
	return out
}

// Close 关闭任务池
func (p *TaskPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		close(p.tasks)
		p.closed = true
		p.logger.Debug("task pool closed, total tasks processed: %d", atomic.LoadUint64(&p.taskID))
	}
}
