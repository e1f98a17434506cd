package syntax

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	sitterjava "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

var (
	ErrNoExtension       = errors.New("file has no extension")
	ErrUnsupportedSource = errors.New("unsupported source file")
)

// Language represents a source language the hunter can rewrite.
type Language string

const (
	Java Language = "java"
)

var javaLanguage = sync.OnceValue(func() *sitter.Language {
	return sitter.NewLanguage(sitterjava.Language())
})

// LanguageOf 根据扩展名判断语言，目前只重写 java 源码
func LanguageOf(path string) (Language, error) {
	switch ext := filepath.Ext(path); ext {
	case "":
		return "", fmt.Errorf("%w: %s", ErrNoExtension, path)
	case ".java":
		return Java, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSource, path)
	}
}

func (l Language) grammar() *sitter.Language {
	switch l {
	case Java:
		return javaLanguage()
	}
	return nil
}

// IsSupported reports whether path is a source file the hunter rewrites.
func IsSupported(path string) bool {
	_, err := LanguageOf(path)
	return err == nil
}
