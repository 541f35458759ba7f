package buffer

import "fmt"

// LineCount returns the number of lines: newlines + 1.
func (b *GapBuffer) LineCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lineCount
}

// LineOffset returns the offset where the 1-based line starts.
func (b *GapBuffer) LineOffset(line int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lineOffset(line)
}

func (b *GapBuffer) lineOffset(line int) (int, error) {
	if line < 1 || line > b.lineCount {
		return 0, fmt.Errorf("%w: line %d not in 1-%d", ErrLineOutOfRange, line, b.lineCount)
	}

	l, off := b.cache.nearestLine(line)
	if line-1 < abs(line-l) {
		l, off = 1, 0 // The top of the document is closer.
	}
	for l < line {
		off = b.indexNewline(off) + 1
		l++
	}
	for l > line {
		// off-1 is the newline that ends line l-1.
		off = b.lastIndexNewline(off-1) + 1
		l--
	}

	b.cache.update(line, off)
	return off, nil
}

// lineEnd returns the offset of the newline ending the line that starts
// at start, or the buffer length for the last line.
func (b *GapBuffer) lineEnd(start int) int {
	if nl := b.indexNewline(start); nl >= 0 {
		return nl
	}
	return b.length()
}

// LineLength returns the number of characters on line, without its newline.
func (b *GapBuffer) LineLength(line int) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, err := b.lineOffset(line)
	if err != nil {
		return 0, err
	}
	return b.lineEnd(start) - start, nil
}

// Line returns the text of line, without its newline.
func (b *GapBuffer) Line(line int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	start, err := b.lineOffset(line)
	if err != nil {
		return "", err
	}
	return b.substring(start, b.lineEnd(start)), nil
}

// FindLineNumber returns the 1-based line containing offset. Offsets
// before the text map to line 1 and offsets past it to the last line.
func (b *GapBuffer) FindLineNumber(offset int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	offset = max(0, min(offset, b.length()))

	l, start := b.cache.nearestCharOffset(offset)
	if offset < start && offset <= start-offset {
		l, start = 1, 0
	}
	if offset >= start {
		for {
			nl := b.indexNewline(start)
			if nl < 0 || nl >= offset {
				break
			}
			start = nl + 1
			l++
		}
	} else {
		for start > offset {
			start = b.lastIndexNewline(start-1) + 1
			l--
		}
	}

	b.cache.update(l, start)
	return l
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
