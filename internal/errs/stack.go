package errs

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// DefaultFrameCount 每个失败单元展示的栈帧数
const DefaultFrameCount = 5

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// WithStack 为错误附加调用栈，已有栈的错误保持不变
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	var st stackTracer
	if pkgerrors.As(err, &st) {
		return err
	}
	return pkgerrors.WithStack(err)
}

// Wrapf 附加上下文和调用栈
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrapf(err, format, args...)
}

// FromPanic 将 recover 得到的值转换为带栈的错误
func FromPanic(r any) error {
	if err, ok := r.(error); ok {
		return pkgerrors.Wrap(err, "panic")
	}
	return pkgerrors.Errorf("panic: %v", r)
}

// Frames 取出错误链上最深处记录的前 n 个栈帧
func Frames(err error, n int) []string {
	var deepest stackTracer
	for e := err; e != nil; e = pkgerrors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			deepest = st
		}
	}
	if deepest == nil {
		return nil
	}
	trace := deepest.StackTrace()
	if n > len(trace) {
		n = len(trace)
	}
	frames := make([]string, 0, n)
	for _, f := range trace[:n] {
		frames = append(frames, strings.TrimSpace(fmt.Sprintf("%+v", f)))
	}
	return frames
}
