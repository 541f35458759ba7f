// internal/tui/drawing.go
package tui

import (
	"fmt"
	"math"

	"github.com/bethropolis/tidecore/internal/config"
	"github.com/bethropolis/tidecore/internal/core"
	"github.com/bethropolis/tidecore/internal/highlight"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// gutterWidth is the width of the line number column plus one space of
// padding, or 0 when the screen is too narrow.
func gutterWidth(lineCount, width int) (gutter, digits int) {
	digits = int(math.Log10(float64(max(lineCount, 1)))) + 1
	gutter = digits + 1
	if gutter >= width {
		return 0, digits
	}
	return gutter, digits
}

// clusterWidth is the cell width of a grapheme cluster at visual column col.
func clusterWidth(cluster string, col, tabWidth int) int {
	if cluster == "\t" {
		return tabWidth - col%tabWidth
	}
	if w := runewidth.StringWidth(cluster); w > 0 {
		return w
	}
	return uniseg.StringWidth(cluster)
}

// DrawBuffer draws the visible lines of the editor's buffer, coloured by
// hl when it is non-nil.
func DrawBuffer(t *TUI, editor *core.Editor, theme *Theme, hl *highlight.Highlighter) {
	if theme == nil {
		theme = DefaultTheme
	}
	defaultStyle := theme.GetStyle("Default")
	lineNumberStyle := theme.GetStyle("LineNumber")
	selectionStyle := theme.GetStyle("Selection")

	width, height := t.Size()
	viewHeight := height - config.StatusBarHeight
	if viewHeight <= 0 || width <= 0 {
		return
	}

	buf := editor.Buffer()
	lineCount := buf.LineCount()
	gutter, digits := gutterWidth(lineCount, width)
	textAreaWidth := width - gutter
	cursorLine, _ := editor.CursorLineCol()

	sel := editor.Selection()
	selLo, selHi := sel.Normalized()
	spans := hl.Lines(editor.ViewportY+1, editor.ViewportY+viewHeight)

	for screenY := 0; screenY < viewHeight; screenY++ {
		line := editor.ViewportY + screenY + 1

		for x := 0; x < width; x++ {
			t.screen.SetContent(x, screenY, ' ', nil, defaultStyle)
		}
		if line > lineCount {
			continue
		}

		if gutter > 0 {
			style := lineNumberStyle
			if line == cursorLine {
				style = style.Bold(true)
			}
			for i, r := range fmt.Sprintf("%*d", digits, line) {
				t.screen.SetContent(i, screenY, r, nil, style)
			}
		}

		text, err := buf.Line(line)
		if err != nil {
			logger.Debugf("DrawBuffer: Error getting line %d: %v", line, err)
			continue
		}
		offset, _ := buf.LineOffset(line)
		var lineSpans []highlight.Span
		if screenY < len(spans) {
			lineSpans = spans[screenY]
		}

		visualX, col := 0, 0
		gr := uniseg.NewGraphemes(text)
		for gr.Next() {
			runes := gr.Runes()
			w := clusterWidth(gr.Str(), visualX, editor.TabWidth)
			screenX := visualX - editor.ViewportX + gutter

			if visualX+w > editor.ViewportX && screenX >= gutter && screenX < width {
				style := defaultStyle
				if name := highlight.StyleAt(lineSpans, col); name != "" {
					style = theme.GetStyle(name)
				}
				if sel.IsRange && offset >= selLo && offset < selHi {
					style = selectionStyle
				}
				if runes[0] == '\t' {
					for i := 0; i < w && screenX+i < width; i++ {
						t.screen.SetContent(screenX+i, screenY, ' ', nil, style)
					}
				} else {
					t.screen.SetContent(screenX, screenY, runes[0], runes[1:], style)
					for i := 1; i < w && screenX+i < width; i++ {
						t.screen.SetContent(screenX+i, screenY, ' ', nil, style)
					}
				}
			}

			visualX += w
			col += len(runes)
			offset += len(runes)
			if visualX >= editor.ViewportX+textAreaWidth {
				break
			}
		}
	}
}

// DrawCursor positions the terminal cursor, hiding it when off screen.
func DrawCursor(t *TUI, editor *core.Editor) {
	width, height := t.Size()
	gutter, _ := gutterWidth(editor.Buffer().LineCount(), width)
	line, _ := editor.CursorLineCol()

	screenX := editor.CursorScreenColumn() - editor.ViewportX + gutter
	screenY := line - 1 - editor.ViewportY
	viewHeight := height - config.StatusBarHeight

	if screenX < gutter || screenX >= width || screenY < 0 || screenY >= viewHeight {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(screenX, screenY)
}

// drawText writes s starting at (x, y) and returns the column after it.
func drawText(s tcell.Screen, x, y, maxX int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		w := gr.Width()
		if x+w > maxX {
			break
		}
		runes := gr.Runes()
		s.SetContent(x, y, runes[0], runes[1:], style)
		x += w
	}
	return x
}
