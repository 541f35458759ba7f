package tui

import (
	"strings"

	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Theme maps UI element and syntax capture names to styles.
type Theme struct {
	Name   string
	Styles map[string]tcell.Style
}

// GetStyle returns the named style. A dotted name such as
// "function.builtin" falls back to its base "function", and anything
// unknown falls back to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}
	if dot := strings.Index(name, "."); dot != -1 {
		if style, ok := t.Styles[name[:dot]]; ok {
			return style
		}
	}
	if defStyle, ok := t.Styles["Default"]; ok {
		logger.DebugTagf("draw", "Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		return defStyle
	}
	return tcell.StyleDefault
}

// DefaultTheme is the built-in dark theme.
var DefaultTheme = newDefaultTheme()

func newDefaultTheme() *Theme {
	background := tcell.NewHexColor(0x2a2f38)
	foreground := tcell.NewHexColor(0xc5cdd9)
	comment := tcell.NewHexColor(0x5c6370)
	orange := tcell.NewHexColor(0xd19a66)
	yellow := tcell.NewHexColor(0xe5c07b)
	green := tcell.NewHexColor(0x98c379)
	cyan := tcell.NewHexColor(0x56b6c2)
	blue := tcell.NewHexColor(0x61afef)
	magenta := tcell.NewHexColor(0xc678dd)

	base := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(foreground)
	return &Theme{
		Name: "DevComfort Dark",
		Styles: map[string]tcell.Style{
			"Default":           base,
			"Selection":         base.Reverse(true),
			"SearchHighlight":   tcell.StyleDefault.Background(tcell.ColorOrange).Foreground(tcell.ColorBlack),
			"LineNumber":        base.Foreground(comment),
			"StatusBar":         tcell.StyleDefault.Background(background).Foreground(foreground),
			"StatusBarMessage":  tcell.StyleDefault.Background(background).Foreground(yellow).Bold(true),
			"StatusBarModified": tcell.StyleDefault.Background(background).Foreground(yellow),

			"keyword":          base.Foreground(blue).Bold(true),
			"string":           base.Foreground(green),
			"string.escape":    base.Foreground(magenta),
			"comment":          base.Foreground(comment).Italic(true),
			"number":           base.Foreground(orange),
			"constant":         base.Foreground(orange),
			"type":             base.Foreground(cyan),
			"type.builtin":     base.Foreground(cyan).Bold(true),
			"function":         base.Foreground(yellow),
			"function.builtin": base.Foreground(cyan).Italic(true),
			"namespace":        base.Foreground(cyan),
			"operator":         base,
			"punctuation":      base.Foreground(comment),
		},
	}
}
