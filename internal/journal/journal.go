// Package journal keeps the original content of every file a run rewrites,
// so that the run can be undone.
package journal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"databinding-hunter/internal/utils"
	"databinding-hunter/pkg/logger"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	ErrClosed      = errors.New("journal is closed")
	ErrRunNotFound = errors.New("run not found in journal")
)

// key layout: run/<runID>/orig/<path> -> original bytes
//
//	run/<runID>/sum/<path>  -> sha256 of the rewritten bytes
const (
	origPart = "/orig/"
	sumPart  = "/sum/"
)

// Entry 一个被重写文件的前后内容
type Entry struct {
	Path      string
	Original  []byte
	Rewritten []byte
}

// RestoreResult 撤销结果
type RestoreResult struct {
	Restored []string
	// Conflicts 重写后又被修改过的文件，未覆盖
	Conflicts []string
}

// Journal LevelDB 实现的撤销日志
type Journal struct {
	db        *leveldb.DB
	logger    logger.Logger
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once
}

// Open 打开日志目录，数据库损坏时删除重建
func Open(dir string, log logger.Logger) (*Journal, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := openLevelDB(dir)
	if err != nil {
		log.Warn("journal: open failed, attempting to recreate. dir %s err:%v", dir, err)
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			return nil, fmt.Errorf("failed to open journal %s: %w (and failed to remove corrupted dir: %v)", dir, err, removeErr)
		}
		if db, err = openLevelDB(dir); err != nil {
			return nil, fmt.Errorf("failed to recreate journal %s: %w", dir, err)
		}
	}

	log.Debug("journal: opened %s", dir)
	return &Journal{db: db, logger: log}, nil
}

func openLevelDB(dir string) (*leveldb.DB, error) {
	dbOptions := &opt.Options{
		WriteBuffer:        4 * 1024 * 1024,
		BlockCacheCapacity: 8 * 1024 * 1024,
	}
	db, err := leveldb.OpenFile(dir, dbOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dir, err)
	}
	return db, nil
}

func runPrefix(runID string) string {
	return "run/" + runID
}

// Record 以一个批次写入本次运行的全部原始内容
func (j *Journal) Record(ctx context.Context, runID string, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if runID == "" {
		return fmt.Errorf("journal: empty run id")
	}

	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrClosed
	}

	batch := new(leveldb.Batch)
	prefix := runPrefix(runID)
	for _, e := range entries {
		batch.Put([]byte(prefix+origPart+e.Path), e.Original)
		batch.Put([]byte(prefix+sumPart+e.Path), []byte(utils.ContentHash(e.Rewritten)))
	}
	if err := j.db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return fmt.Errorf("journal: failed to record run %s: %w", runID, err)
	}
	j.logger.Debug("journal: recorded %d files for run %s", len(entries), runID)
	return nil
}

// Files 返回运行中记录的文件路径，按字典序
func (j *Journal) Files(runID string) ([]string, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return nil, ErrClosed
	}

	prefix := runPrefix(runID) + origPart
	iter := j.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	var files []string
	for iter.Next() {
		files = append(files, strings.TrimPrefix(string(iter.Key()), prefix))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Restore 写回原始内容；force 为 false 时跳过重写后被改动的文件
func (j *Journal) Restore(ctx context.Context, runID string, force bool) (*RestoreResult, error) {
	files, err := j.Files(runID)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	prefix := runPrefix(runID)
	result := &RestoreResult{}
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		original, err := j.get(prefix + origPart + path)
		if err != nil {
			return result, err
		}
		if !force {
			sum, err := j.get(prefix + sumPart + path)
			if err != nil {
				return result, err
			}
			current, err := os.ReadFile(path)
			if err != nil && !os.IsNotExist(err) {
				return result, fmt.Errorf("journal: failed to read %s: %w", path, err)
			}
			if err != nil || utils.ContentHash(current) != string(sum) {
				j.logger.Warn("journal: %s changed after run %s, skipped", path, runID)
				result.Conflicts = append(result.Conflicts, path)
				continue
			}
		}

		if err := utils.WriteFileAtomic(path, original); err != nil {
			return result, fmt.Errorf("journal: failed to restore %s: %w", path, err)
		}
		result.Restored = append(result.Restored, path)
	}

	j.logger.Info("journal: run %s restored %d files, %d conflicts", runID, len(result.Restored), len(result.Conflicts))
	return result, nil
}

// Forget 删除运行的全部记录
func (j *Journal) Forget(runID string) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrClosed
	}

	iter := j.db.NewIterator(util.BytesPrefix([]byte(runPrefix(runID)+"/")), nil)
	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return err
	}
	return j.db.Write(batch, nil)
}

func (j *Journal) get(key string) ([]byte, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return nil, ErrClosed
	}
	value, err := j.db.Get([]byte(key), nil)
	if err != nil {
		return nil, fmt.Errorf("journal: failed to read %s: %w", key, err)
	}
	return value, nil
}

// Close 关闭日志，可重复调用
func (j *Journal) Close() error {
	var err error
	j.closeOnce.Do(func() {
		j.mu.Lock()
		defer j.mu.Unlock()
		j.closed = true
		err = j.db.Close()
	})
	return err
}
