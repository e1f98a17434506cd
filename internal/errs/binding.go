package errs

import (
	"errors"
	"fmt"
)

// 重写过程中的错误类型
var (
	ErrUnresolvedLayout = errors.New("unresolved layout")
	ErrAmbiguousRebind  = errors.New("ambiguous rebind")
	ErrArityMismatch    = errors.New("arity mismatch")
	ErrUnresolvedViewID = errors.New("unresolved view id")
	ErrOverlappingEdit  = errors.New("overlapping edit")
	ErrUnsupportedCall  = errors.New("unsupported binding call")
)

// BindingError 带有出错对象（绑定类型名或调用文本）的结构化错误
type BindingError struct {
	Kind    error
	Subject string
	Message string
}

func (e *BindingError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Subject)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Subject, e.Message)
}

func (e *BindingError) Unwrap() error {
	return e.Kind
}

func NewUnresolvedLayoutErr(bindingType, layoutName string) error {
	return &BindingError{
		Kind:    ErrUnresolvedLayout,
		Subject: bindingType,
		Message: fmt.Sprintf("layout %s.xml not found, rename the layout from xxx02 to xxx_02 if it contains digits", layoutName),
	}
}

func NewAmbiguousRebindErr(bindingType string) error {
	return &BindingError{
		Kind:    ErrAmbiguousRebind,
		Subject: bindingType,
		Message: "type has no Binding suffix, the layout may have been initialized more than once",
	}
}

func NewArityMismatchErr(call string, supported string) error {
	return &BindingError{
		Kind:    ErrArityMismatch,
		Subject: call,
		Message: "only support " + supported,
	}
}

func NewUnsupportedCallErr(call string) error {
	return &BindingError{
		Kind:    ErrUnsupportedCall,
		Subject: call,
	}
}

// Kind 返回错误对应的类型名，未知错误返回 internal
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnresolvedLayout):
		return "UnresolvedLayout"
	case errors.Is(err, ErrAmbiguousRebind):
		return "AmbiguousRebind"
	case errors.Is(err, ErrArityMismatch):
		return "ArityMismatch"
	case errors.Is(err, ErrUnresolvedViewID):
		return "UnresolvedViewId"
	case errors.Is(err, ErrOverlappingEdit):
		return "OverlappingEdit"
	case errors.Is(err, ErrUnsupportedCall):
		return "UnsupportedCall"
	default:
		return "Internal"
	}
}
