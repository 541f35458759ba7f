package buffer

// lineCache remembers where one line starts so line/offset lookups can
// walk from the last answer instead of from the top of the document.
type lineCache struct {
	line   int // 1-based
	offset int
}

func newLineCache() lineCache {
	return lineCache{line: 1, offset: 0}
}

// nearestLine returns the cached entry to start a walk towards line.
func (c *lineCache) nearestLine(line int) (int, int) {
	return c.line, c.offset
}

// nearestCharOffset returns the cached entry to start a walk towards offset.
func (c *lineCache) nearestCharOffset(offset int) (int, int) {
	return c.line, c.offset
}

func (c *lineCache) update(line, offset int) {
	c.line = line
	c.offset = offset
}

// invalidate drops the entry when an edit at offset may have moved it.
func (c *lineCache) invalidate(offset int) {
	if offset <= c.offset {
		c.line = 1
		c.offset = 0
	}
}
