package core

import (
	"fmt"
	"regexp"

	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/bethropolis/tidecore/internal/utils"
)

// Find searches the text for the regular expression term. Forward searches
// start at from; backward searches only consider matches before it.
// It returns the rune offsets of the match.
func (e *Editor) Find(term string, from int, forward bool) (start, end int, found bool) {
	if term == "" {
		return 0, 0, false
	}
	re, err := regexp.Compile(term)
	if err != nil {
		logger.Warnf("Find: Invalid regex '%s': %v", term, err)
		return 0, 0, false
	}

	text := []byte(e.Buffer().String())
	fromByte := utils.RuneIndexToByteOffset(text, max(from, 0))
	if fromByte < 0 {
		fromByte = len(text)
	}

	var loc []int
	if forward {
		if m := re.FindIndex(text[fromByte:]); m != nil {
			loc = []int{fromByte + m[0], fromByte + m[1]}
		}
	} else if all := re.FindAllIndex(text[:fromByte], -1); len(all) > 0 {
		loc = all[len(all)-1]
	}
	if loc == nil {
		return 0, 0, false
	}
	return utils.ByteOffsetToRuneIndex(text, loc[0]), utils.ByteOffsetToRuneIndex(text, loc[1]), true
}

// FindNext selects the next match after the caret, wrapping to the top.
func (e *Editor) FindNext(term string) bool {
	start, end, ok := e.Find(term, e.caret, true)
	if ok && start == end && start == e.caret {
		start, end, ok = e.Find(term, e.caret+1, true)
	}
	if !ok {
		start, end, ok = e.Find(term, 0, true)
	}
	if !ok {
		return false
	}
	e.ClearSelection()
	e.moveCaret(start, false)
	e.SelectTo(end)
	return true
}

// ReplaceAll replaces every match of pattern as a single undo step and
// returns the number of replacements.
func (e *Editor) ReplaceAll(pattern, replacement string) (int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid pattern '%s': %w", pattern, err)
	}
	buf := e.Buffer()
	text := []byte(buf.String())
	locs := re.FindAllSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return 0, nil
	}

	e.markSelectionBefore(buf)
	buf.BeginBatchEdit()
	// Back to front so earlier offsets stay valid.
	for i := len(locs) - 1; i >= 0; i-- {
		loc := locs[i]
		repl := re.Expand(nil, []byte(replacement), text, loc)
		start := utils.ByteOffsetToRuneIndex(text, loc[0])
		end := utils.ByteOffsetToRuneIndex(text, loc[1])
		buf.Replace(start, end, string(repl), true)
	}
	buf.EndBatchEdit()

	e.ClearSelection()
	e.moveCaret(e.caret, false)
	e.markSelectionAfter(buf)
	logger.Infof("Editor: replaced %d matches of '%s'", len(locs), pattern)
	return len(locs), nil
}
