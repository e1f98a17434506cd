package errs

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindingErrorKinds(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind error
		want string
	}{
		{"unresolved layout", NewUnresolvedLayoutErr("FooBinding", "foo"), ErrUnresolvedLayout, "UnresolvedLayout"},
		{"ambiguous rebind", NewAmbiguousRebindErr("View"), ErrAmbiguousRebind, "AmbiguousRebind"},
		{"arity", NewArityMismatchErr("DataBindingUtil.bind(a, b)", "bind(View view)"), ErrArityMismatch, "ArityMismatch"},
		{"unsupported", NewUnsupportedCallErr("DataBindingUtil.setContentView(this, 1)"), ErrUnsupportedCall, "UnsupportedCall"},
		{"wrapped", fmt.Errorf("unit Foo.java: %w", NewAmbiguousRebindErr("Foo")), ErrAmbiguousRebind, "AmbiguousRebind"},
		{"internal", errors.New("boom"), nil, "Internal"},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if tt.kind != nil {
				assert.ErrorIs(t, tt.err, tt.kind)
			}
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
	assert.Equal(t, "", Kind(nil))
}

func TestBindingErrorMessage(t *testing.T) {
	err := NewUnresolvedLayoutErr("Demo01Binding", "demo_0_1")
	assert.Contains(t, err.Error(), "Demo01Binding")
	assert.Contains(t, err.Error(), "demo_0_1.xml")

	var be *BindingError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "Demo01Binding", be.Subject)
}

func TestFrames(t *testing.T) {
	err := WithStack(errors.New("boom"))
	frames := Frames(err, DefaultFrameCount)
	require.NotEmpty(t, frames)
	assert.LessOrEqual(t, len(frames), DefaultFrameCount)
	assert.Contains(t, strings.Join(frames, "\n"), "TestFrames")

	// 已有栈的错误不重复包装
	assert.Same(t, err, WithStack(err))

	assert.Nil(t, Frames(errors.New("plain"), 3))
	assert.Nil(t, WithStack(nil))
}

func TestFromPanic(t *testing.T) {
	err := FromPanic("index out of range")
	assert.Contains(t, err.Error(), "index out of range")
	assert.NotEmpty(t, Frames(err, 2))

	cause := errors.New("nil map")
	assert.ErrorIs(t, FromPanic(cause), cause)
}
