package syntax

import (
	"fmt"
	"sort"

	"databinding-hunter/internal/errs"
)

type edit struct {
	start, end uint
	text       string
	seq        int
}

func (e edit) isInsert() bool {
	return e.start == e.end
}

// A Buffer is a queue of edits to apply to a source text. Edits use byte
// offsets of the original text and must not overlap; inserts at the same
// offset keep the order in which they were queued.
type Buffer struct {
	src   []byte
	edits []edit
	seq   int
}

func NewBuffer(src []byte) *Buffer {
	return &Buffer{src: src}
}

// Edit is a change staged against byte offsets of the original text. An
// empty range is an insertion.
type Edit struct {
	Start, End uint
	Text       string
}

func InsertAt(pos uint, text string) Edit {
	return Edit{Start: pos, End: pos, Text: text}
}

func ReplaceRange(start, end uint, text string) Edit {
	return Edit{Start: start, End: end, Text: text}
}

func (b *Buffer) Insert(pos uint, text string) error {
	return b.Apply(InsertAt(pos, text))
}

func (b *Buffer) Replace(start, end uint, text string) error {
	return b.Apply(ReplaceRange(start, end, text))
}

func (b *Buffer) Delete(start, end uint) error {
	return b.Apply(ReplaceRange(start, end, ""))
}

// Len 已排队的编辑数
func (b *Buffer) Len() int {
	return len(b.edits)
}

// Apply queues all edits or, when any of them conflicts with a queued edit or
// with another one of the batch, none of them.
func (b *Buffer) Apply(edits ...Edit) error {
	queued := b.edits
	seq := b.seq
	for _, e := range edits {
		next, err := b.add(queued, edit{start: e.Start, end: e.End, text: e.Text, seq: seq + 1})
		if err != nil {
			return err
		}
		if len(next) > len(queued) {
			seq++
		}
		queued = next
	}
	b.edits = queued
	b.seq = seq
	return nil
}

func (b *Buffer) add(queued []edit, e edit) ([]edit, error) {
	if e.start > e.end || e.end > uint(len(b.src)) {
		return nil, fmt.Errorf("%w: invalid range [%d,%d) of %d bytes", errs.ErrOverlappingEdit, e.start, e.end, len(b.src))
	}
	for _, x := range queued {
		if x.start == e.start && x.end == e.end && x.text == e.text {
			// 同一处相同的编辑只保留一次
			return queued, nil
		}
		if conflicts(x, e) {
			return nil, fmt.Errorf("%w: [%d,%d) %q conflicts with [%d,%d) %q", errs.ErrOverlappingEdit,
				e.start, e.end, e.text, x.start, x.end, x.text)
		}
	}
	// 复制后追加，失败的批次不会影响已排队的编辑
	next := make([]edit, len(queued), len(queued)+1)
	copy(next, queued)
	return append(next, e), nil
}

func conflicts(x, e edit) bool {
	switch {
	case x.isInsert() && e.isInsert():
		return false
	case e.isInsert():
		return x.start < e.start && e.start < x.end
	case x.isInsert():
		return e.start < x.start && x.start < e.end
	default:
		return e.start < x.end && x.start < e.end
	}
}

// Bytes returns the text with all queued edits applied.
func (b *Buffer) Bytes() []byte {
	if len(b.edits) == 0 {
		return append([]byte(nil), b.src...)
	}
	edits := make([]edit, len(b.edits))
	copy(edits, b.edits)
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start < edits[j].start
		}
		if edits[i].isInsert() != edits[j].isInsert() {
			return edits[i].isInsert()
		}
		return edits[i].seq < edits[j].seq
	})

	out := make([]byte, 0, len(b.src)+64)
	var pos uint
	for _, e := range edits {
		out = append(out, b.src[pos:e.start]...)
		out = append(out, e.text...)
		pos = e.end
	}
	out = append(out, b.src[pos:]...)
	return out
}

func (b *Buffer) String() string {
	return string(b.Bytes())
}
