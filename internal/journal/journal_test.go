package journal

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"databinding-hunter/test/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal"), mocks.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// rewrite 模拟一次运行：写入新内容并返回日志条目
func rewrite(t *testing.T, path, original, rewritten string) Entry {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(rewritten), 0644))
	return Entry{Path: path, Original: []byte(original), Rewritten: []byte(rewritten)}
}

func TestJournal_RecordAndRestore(t *testing.T) {
	j := openTestJournal(t)
	dir := t.TempDir()
	ctx := context.Background()

	a := filepath.Join(dir, "A.java")
	b := filepath.Join(dir, "B.java")
	entries := []Entry{
		rewrite(t, b, "class B { ActivityBBinding b; }", "class B { View b; }"),
		rewrite(t, a, "class A { ActivityABinding b; }", "class A { View b; }"),
	}
	require.NoError(t, j.Record(ctx, "run-1", entries))

	files, err := j.Files("run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{a, b}, files)

	result, err := j.Restore(ctx, "run-1", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, result.Restored)
	assert.Empty(t, result.Conflicts)

	content, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "class A { ActivityABinding b; }", string(content))
}

func TestJournal_RestoreConflicts(t *testing.T) {
	j := openTestJournal(t)
	dir := t.TempDir()
	ctx := context.Background()

	edited := filepath.Join(dir, "Edited.java")
	deleted := filepath.Join(dir, "Deleted.java")
	require.NoError(t, j.Record(ctx, "run-1", []Entry{
		rewrite(t, edited, "original", "rewritten"),
		rewrite(t, deleted, "original", "rewritten"),
	}))

	// 运行之后用户又修改或删除了文件
	require.NoError(t, os.WriteFile(edited, []byte("edited by hand"), 0644))
	require.NoError(t, os.Remove(deleted))

	result, err := j.Restore(ctx, "run-1", false)
	require.NoError(t, err)
	assert.Empty(t, result.Restored)
	assert.ElementsMatch(t, []string{edited, deleted}, result.Conflicts)

	content, err := os.ReadFile(edited)
	require.NoError(t, err)
	assert.Equal(t, "edited by hand", string(content))

	// force 覆盖冲突
	result, err = j.Restore(ctx, "run-1", true)
	require.NoError(t, err)
	assert.Len(t, result.Restored, 2)
	content, err = os.ReadFile(deleted)
	require.NoError(t, err)
	assert.Equal(t, "original", string(content))
}

func TestJournal_RunsAreIsolated(t *testing.T) {
	j := openTestJournal(t)
	dir := t.TempDir()
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, "run-1", []Entry{rewrite(t, filepath.Join(dir, "A.java"), "a0", "a1")}))
	require.NoError(t, j.Record(ctx, "run-10", []Entry{rewrite(t, filepath.Join(dir, "B.java"), "b0", "b1")}))

	files, err := j.Files("run-1")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	require.NoError(t, j.Forget("run-1"))
	files, err = j.Files("run-1")
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = j.Files("run-10")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = j.Restore(ctx, "run-1", false)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestJournal_Errors(t *testing.T) {
	j := openTestJournal(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, j.Record(ctx, "run-1", nil), context.Canceled)
	assert.Error(t, j.Record(context.Background(), "", nil))

	require.NoError(t, j.Close())
	require.NoError(t, j.Close())
	assert.ErrorIs(t, j.Record(context.Background(), "run-1", nil), ErrClosed)
	_, err := j.Files("run-1")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestJournal_ReopenKeepsRecords(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "journal")
	file := filepath.Join(t.TempDir(), "A.java")

	j, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, j.Record(context.Background(), "run-1", []Entry{rewrite(t, file, "a0", "a1")}))
	require.NoError(t, j.Close())

	j, err = Open(dir, nil)
	require.NoError(t, err)
	defer j.Close()

	files, err := j.Files("run-1")
	require.NoError(t, err)
	assert.Equal(t, []string{file}, files)
}
