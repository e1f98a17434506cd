package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"databinding-hunter/pkg/logger"
)

// 测试正常提交和执行任务
func TestTaskPool_NormalExecution(t *testing.T) {
	pool := NewTaskPool(2, logger.NewNopLogger())
	defer pool.Close()

	var counter int32
	taskCount := 5
	for i := 0; i < taskCount; i++ {
		err := pool.Submit(context.Background(), func(ctx context.Context, taskID uint64) error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
		require.NoError(t, err)
	}

	assert.Empty(t, pool.Wait())
	assert.Equal(t, int32(taskCount), atomic.LoadInt32(&counter))
}

// 任务错误和 panic 都由 Wait 返回
func TestTaskPool_CollectErrors(t *testing.T) {
	pool := NewTaskPool(3, nil)
	defer pool.Close()

	boom := errors.New("boom")
	require.NoError(t, pool.Submit(context.Background(), func(ctx context.Context, taskID uint64) error {
		return boom
	}))
	require.NoError(t, pool.Submit(context.Background(), func(ctx context.Context, taskID uint64) error {
		panic("bad layout")
	}))
	require.NoError(t, pool.Submit(context.Background(), func(ctx context.Context, taskID uint64) error {
		return nil
	}))

	errs := pool.Wait()
	require.Len(t, errs, 2)
	var sawBoom, sawPanic bool
	for _, err := range errs {
		if errors.Is(err, boom) {
			sawBoom = true
		}
		if err != nil && !errors.Is(err, boom) {
			assert.Contains(t, err.Error(), "bad layout")
			sawPanic = true
		}
	}
	assert.True(t, sawBoom)
	assert.True(t, sawPanic)
	assert.Empty(t, pool.Wait())
}

// 测试任务在等待执行时被取消
func TestTaskPool_CancelBeforeExecution(t *testing.T) {
	pool := NewTaskPool(1, logger.NewNopLogger())
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var executed int32
	require.NoError(t, pool.Submit(ctx, func(ctx context.Context, taskID uint64) error {
		atomic.AddInt32(&executed, 1)
		return nil
	}))

	errs := pool.Wait()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&executed))
}

func TestTaskPool_SubmitAfterClose(t *testing.T) {
	pool := NewTaskPool(1, logger.NewNopLogger())
	pool.Close()
	pool.Close()

	err := pool.Submit(context.Background(), func(ctx context.Context, taskID uint64) error { return nil })
	assert.ErrorIs(t, err, ErrPoolClosed)
}
