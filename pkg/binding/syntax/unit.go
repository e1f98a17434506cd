package syntax

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Unit is one parsed compilation unit. The tree is immutable; rewrites are
// queued in a Buffer against byte offsets of Content and applied once.
type Unit struct {
	Path     string
	Content  []byte
	Language Language
	tree     *sitter.Tree
}

// Parse 解析源文件，调用方负责 Close
func Parse(path string, content []byte) (*Unit, error) {
	lang, err := LanguageOf(path)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang.grammar()); err != nil {
		return nil, fmt.Errorf("failed to init %s parser: %w", lang, err)
	}
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file: %s", path)
	}
	return &Unit{
		Path:     path,
		Content:  content,
		Language: lang,
		tree:     tree,
	}, nil
}

func (u *Unit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

func (u *Unit) Root() *sitter.Node {
	return u.tree.RootNode()
}

// HasError reports whether tree-sitter had to recover from syntax errors.
func (u *Unit) HasError() bool {
	return u.Root().HasError()
}

// Text 节点对应的源码文本
func (u *Unit) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(u.Content)
}

// CompactText 去掉所有空白的节点文本，用于比较限定名
func (u *Unit) CompactText(n *sitter.Node) string {
	return strings.Join(strings.Fields(u.Text(n)), "")
}

// LineIndent returns the leading whitespace of the line containing offset.
func (u *Unit) LineIndent(offset uint) string {
	if offset > uint(len(u.Content)) {
		offset = uint(len(u.Content))
	}
	start := strings.LastIndexByte(string(u.Content[:offset]), '\n') + 1
	end := start
	for end < len(u.Content) && (u.Content[end] == ' ' || u.Content[end] == '\t') {
		end++
	}
	return string(u.Content[start:end])
}

// LineEnd returns the offset just past the newline following offset, or the end
// of the content.
func (u *Unit) LineEnd(offset uint) uint {
	for i := offset; i < uint(len(u.Content)); i++ {
		if u.Content[i] == '\n' {
			return i + 1
		}
	}
	return uint(len(u.Content))
}

// NewBuffer 基于当前内容创建编辑缓冲区
func (u *Unit) NewBuffer() *Buffer {
	return NewBuffer(u.Content)
}
