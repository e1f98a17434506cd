package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sort"

	"databinding-hunter/internal/errs"
	"databinding-hunter/pkg/binding/layout"
	"databinding-hunter/pkg/binding/pool"
)

// fileError 关联文件路径的错误
type fileError struct {
	Path string
	Err  error
}

func (e *fileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *fileError) Unwrap() error {
	return e.Err
}

// parsedLayout 解析结果；unwrapped 非空表示需要写回去掉 <layout> 的内容
type parsedLayout struct {
	path      string
	original  []byte
	unwrapped []byte
	info      *layout.Info
}

// loadLayouts 并发解析布局文件。单个文件失败不影响其他文件，失败按路径返回
func (h *runner) loadLayouts(ctx context.Context, paths []string) ([]*parsedLayout, []*UnitFailure, error) {
	results := make([]*parsedLayout, len(paths))
	taskPool := pool.NewTaskPool(h.cfg.Run.Workers, h.logger)
	defer taskPool.Close()

	for i, path := range paths {
		err := taskPool.Submit(ctx, func(ctx context.Context, taskID uint64) error {
			parsed, err := h.parseLayout(path)
			if err != nil {
				return &fileError{Path: path, Err: err}
			}
			results[i] = parsed
			return nil
		})
		if err != nil {
			taskPool.Wait()
			return nil, nil, err
		}
	}

	var failures []*UnitFailure
	for _, err := range taskPool.Wait() {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, nil, ctxErr
		}
		var fe *fileError
		if errors.As(err, &fe) {
			failures = append(failures, newUnitFailure(h.relPath(fe.Path), fe.Err))
		} else {
			failures = append(failures, newUnitFailure("", err))
		}
		h.logger.Warn("layout parse failed: %v", err)
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Path < failures[j].Path })

	parsed := make([]*parsedLayout, 0, len(results))
	for _, r := range results {
		if r != nil {
			parsed = append(parsed, r)
		}
	}
	return parsed, failures, nil
}

func (h *runner) parseLayout(path string) (*parsedLayout, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.WithStack(err)
	}
	parsed := &parsedLayout{path: path, original: content}

	source := content
	if h.cfg.Run.UnwrapLayouts {
		unwrapped, changed, err := layout.Unwrap(content)
		switch {
		case errors.Is(err, layout.ErrNoViewRoot):
			h.logger.Warn("%s: <layout> has no view child, kept as is", h.relPath(path))
		case err != nil:
			return nil, errs.Wrapf(err, "unwrap layout")
		case changed:
			parsed.unwrapped = unwrapped
			source = unwrapped
		}
	}

	root, err := layout.ParseTag(bytes.NewReader(source))
	if err != nil {
		return nil, errs.WithStack(err)
	}
	parsed.info = layout.Build(layout.ResourceNameOf(path), root)
	return parsed, nil
}
