// Package highlight colours buffer lines with chroma lexers. It only reads
// the buffer.
package highlight

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/bethropolis/tidecore/internal/buffer"
	"github.com/bethropolis/tidecore/internal/logger"
	"github.com/go-enry/go-enry/v2"
)

// maxContext is how many lines around the requested ones are fed to the
// lexer so multi-line constructs such as block comments are recognised.
const maxContext = 50

// detectSample bounds how much content language detection looks at.
const detectSample = 16 * 1024

// Span styles the rune columns [Start,End) of one line. Style is a theme
// capture name such as "keyword" or "function.builtin".
type Span struct {
	Start, End int
	Style      string
}

type cacheKey struct {
	version     uint64
	first, last int
}

// Highlighter produces spans for ranges of lines of one buffer.
type Highlighter struct {
	reader   buffer.Reader
	lexer    chroma.Lexer
	language string

	mu     sync.Mutex
	key    cacheKey
	cached [][]Span
}

// Detect names the language of a file from its path and content, or ""
// when it cannot tell.
func Detect(path string, content []byte) string {
	if len(content) > detectSample {
		content = content[:detectSample]
	}
	if path == "" {
		if lang, safe := enry.GetLanguageByShebang(content); safe {
			return lang
		}
		return ""
	}
	return enry.GetLanguage(filepath.Base(path), content)
}

// New picks a lexer for the file at path and returns a highlighter over r.
// Files no lexer understands get a highlighter that produces no spans.
func New(path string, r buffer.Reader) *Highlighter {
	sample := r.Substring(0, detectSample)
	h := &Highlighter{reader: r, language: Detect(path, []byte(sample))}

	var lexer chroma.Lexer
	if h.language != "" {
		lexer = lexers.Get(h.language)
	}
	if lexer == nil && path != "" {
		lexer = lexers.Match(filepath.Base(path))
	}
	if lexer == nil && sample != "" {
		lexer = lexers.Analyse(sample)
	}
	if lexer != nil {
		h.lexer = chroma.Coalesce(lexer)
		if h.language == "" {
			h.language = lexer.Config().Name
		}
	}
	logger.DebugTagf("highlight", "Highlighter: '%s' detected as %q (lexer %v)", path, h.language, lexer != nil)
	return h
}

// Language is the detected language name, "" when unknown.
func (h *Highlighter) Language() string {
	if h == nil {
		return ""
	}
	return h.language
}

// Enabled reports whether a lexer was found.
func (h *Highlighter) Enabled() bool {
	return h != nil && h.lexer != nil
}

// Lines returns the spans of lines first..last (1-based, inclusive), one
// slice per line. Lines past the end of the buffer get no entry.
func (h *Highlighter) Lines(first, last int) [][]Span {
	if !h.Enabled() || first < 1 || first > last {
		return nil
	}
	last = min(last, h.reader.LineCount())
	if first > last {
		return nil
	}

	key := cacheKey{version: h.reader.Version(), first: first, last: last}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cached != nil && h.key == key {
		return h.cached
	}

	start := max(1, first-maxContext)
	end := min(h.reader.LineCount(), last+maxContext)
	var sb strings.Builder
	for line := start; line <= end; line++ {
		text, err := h.reader.Line(line)
		if err != nil {
			// The buffer shrank under us; colour what we have.
			last = min(last, line-1)
			break
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	if first > last {
		return nil
	}

	tokens, err := chroma.Tokenise(h.lexer, nil, sb.String())
	if err != nil {
		logger.DebugTagf("highlight", "Highlighter: tokenise failed: %v", err)
		return nil
	}

	out := make([][]Span, last-first+1)
	line, col := start, 0
	for _, tok := range tokens {
		if line > last {
			break
		}
		style := styleFor(tok.Type)
		for _, r := range tok.Value {
			if r == '\n' {
				line++
				col = 0
				continue
			}
			if style != "" && line >= first && line <= last {
				out[line-first] = appendSpan(out[line-first], col, style)
			}
			col++
		}
	}

	h.key, h.cached = key, out
	return out
}

func appendSpan(spans []Span, col int, style string) []Span {
	if n := len(spans); n > 0 && spans[n-1].End == col && spans[n-1].Style == style {
		spans[n-1].End++
		return spans
	}
	return append(spans, Span{Start: col, End: col + 1, Style: style})
}

// StyleAt returns the style covering col in spans, which must be sorted.
func StyleAt(spans []Span, col int) string {
	for _, s := range spans {
		if col < s.Start {
			break
		}
		if col < s.End {
			return s.Style
		}
	}
	return ""
}

// styleFor maps a chroma token type to a theme capture name.
func styleFor(t chroma.TokenType) string {
	switch {
	case t.InCategory(chroma.Comment):
		return "comment"
	case t == chroma.LiteralStringEscape:
		return "string.escape"
	case t.InSubCategory(chroma.LiteralString):
		return "string"
	case t.InSubCategory(chroma.LiteralNumber):
		return "number"
	case t == chroma.KeywordType:
		return "type.builtin"
	case t == chroma.KeywordConstant || t == chroma.NameConstant:
		return "constant"
	case t.InCategory(chroma.Keyword):
		return "keyword"
	case t == chroma.NameFunction:
		return "function"
	case t == chroma.NameBuiltin:
		return "function.builtin"
	case t == chroma.NameClass:
		return "type"
	case t == chroma.NameNamespace:
		return "namespace"
	case t.InCategory(chroma.Operator):
		return "operator"
	case t.InCategory(chroma.Punctuation):
		return "punctuation"
	}
	return ""
}
