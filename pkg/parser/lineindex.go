package parser

import "sort"

// LineIndex maps byte offsets in a raw document to 1-based line numbers.
type LineIndex struct {
	raw    []byte
	starts []int
}

// NewLineIndex builds the index for raw. The index holds a reference to
// raw; documents are immutable after loading.
func NewLineIndex(raw []byte) *LineIndex {
	starts := []int{0}
	for i, b := range raw {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{raw: raw, starts: starts}
}

// Count returns the number of lines. A trailing newline does not open a
// new line; an empty document has zero lines.
func (li *LineIndex) Count() int {
	if len(li.raw) == 0 {
		return 0
	}
	if li.starts[len(li.starts)-1] == len(li.raw) {
		return len(li.starts) - 1
	}
	return len(li.starts)
}

// LineOf returns the 1-based line containing the byte at offset. Offsets
// beyond the document clamp to the first or last line.
func (li *LineIndex) LineOf(offset int) int {
	if offset < 0 {
		return 1
	}
	// First start greater than offset; the line is the one before it.
	i := sort.Search(len(li.starts), func(i int) bool {
		return li.starts[i] > offset
	})
	if i == 0 {
		return 1
	}
	line := i
	if count := li.Count(); count > 0 && line > count {
		return count
	}
	return line
}

// Text returns the content of the 1-based line without its newline, or ""
// when line is out of range.
func (li *LineIndex) Text(line int) string {
	if line < 1 || line > li.Count() {
		return ""
	}
	start := li.starts[line-1]
	end := len(li.raw)
	if line < len(li.starts) {
		end = li.starts[line] - 1
	}
	if end > start && li.raw[end-1] == '\r' {
		end--
	}
	return string(li.raw[start:end])
}
