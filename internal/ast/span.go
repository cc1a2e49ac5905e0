// Package ast defines the abstract syntax tree for MinnieML: the module and
// declaration shapes, the term and type node hierarchies, the stable
// identifier scheme, and the resolvables index that every later pipeline
// phase consults instead of holding direct node pointers.
package ast

import "sort"

// SrcPoint is a single position in source text: 1-based line and column,
// plus the 0-based byte offset used for fast slicing of the original text.
type SrcPoint struct {
	Line  int
	Col   int
	Index int
}

// SrcSpan locates a node in source text. A node produced by a later pipeline
// phase (e.g. a synthesized __free_T call, a witness binding) carries no
// real text range; Synthetic distinguishes that case so tooling (editor
// semantic tokens, the pretty-printer) can skip it rather than render a
// bogus range such as a six-byte "struct" span for a four-byte synthesized
// keyword.
type SrcSpan struct {
	Start     SrcPoint
	End       SrcPoint
	Synthetic bool
}

// NewSpan builds a real span between two points.
func NewSpan(start, end SrcPoint) SrcSpan {
	return SrcSpan{Start: start, End: end}
}

// Synthetic returns the distinguished span for nodes with no source
// provenance.
func Synthetic() SrcSpan {
	return SrcSpan{Synthetic: true}
}

// IsSynthetic reports whether the span has no real source provenance.
func (s SrcSpan) IsSynthetic() bool { return s.Synthetic }

// SourceInfo caches line-start byte offsets for a single source file so
// that converting a byte index into a SrcPoint does not rescan the text.
type SourceInfo struct {
	Path        string
	Text        string
	lineOffsets []int // byte offset of the first byte of each line
}

// NewSourceInfo scans text once, recording the byte offset at which each
// line begins (line 1 always begins at offset 0).
func NewSourceInfo(path, text string) *SourceInfo {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &SourceInfo{Path: path, Text: text, lineOffsets: offsets}
}

// PointFromIndex converts a byte index into a SrcPoint via binary search
// over the cached line offsets.
func (s *SourceInfo) PointFromIndex(index int) SrcPoint {
	if index < 0 {
		index = 0
	}
	if index > len(s.Text) {
		index = len(s.Text)
	}
	// Find the last line offset <= index.
	line := sort.Search(len(s.lineOffsets), func(i int) bool {
		return s.lineOffsets[i] > index
	}) - 1
	if line < 0 {
		line = 0
	}
	col := index - s.lineOffsets[line] + 1
	return SrcPoint{Line: line + 1, Col: col, Index: index}
}

// Line returns the text of the given 1-based line number, or "" if out of
// range. Used by error rendering for the source-snippet contract (§6.4).
func (s *SourceInfo) Line(line int) string {
	if line < 1 || line > len(s.lineOffsets) {
		return ""
	}
	start := s.lineOffsets[line-1]
	end := len(s.Text)
	if line < len(s.lineOffsets) {
		end = s.lineOffsets[line] - 1 // exclude trailing newline
		if end > 0 && s.Text[end-1] == '\r' {
			end--
		}
	} else if end > 0 && s.Text[end-1] == '\n' {
		end--
	}
	if end < start {
		end = start
	}
	return s.Text[start:end]
}
