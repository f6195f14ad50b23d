package wpblock

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/OVECJOE/wp-block-parser/history"
)

const tokenizerOrigin = "Tokenizer"

// Tokenizer scans block-delimited source into tokens.
//
// Each line is scanned from its first column. At every column the active rules
// are searched, in priority order, over the rest of the line; the first rule
// that matches anywhere wins even when a later rule would match earlier text.
// Text in front of the winning match, or the whole rest of the line when no
// rule matches, becomes one untagged token. Line terminators stay part of
// their line, so the tokens cover the source without gaps or overlaps.
//
// A Tokenizer is safe for concurrent use; calls are serialized.
type Tokenizer struct {
	mu      sync.Mutex
	source  string
	rules   []Rule
	tokens  []Token
	cursor  int
	line    int
	column  int
	history *history.History[Token]
	logger  *zap.Logger
}

// NewTokenizer returns a tokenizer over source. Scanning starts on Tokenize.
func NewTokenizer(source string, opts ...Option) *Tokenizer {
	cfg := newConfig(opts)
	return &Tokenizer{
		source:  source,
		rules:   activeRules(cfg.ignored),
		history: history.New[Token](cfg.historyLimit, cfg.cleanStale),
		logger:  cfg.logger,
	}
}

// Tokens returns the tokens produced by the last Tokenize call.
func (t *Tokenizer) Tokens() []Token {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// History returns the operation log. Every emitted token is recorded as a
// history.Create operation.
func (t *Tokenizer) History() *history.History[Token] {
	return t.history
}

// Rules returns the active rules in priority order.
func (t *Tokenizer) Rules() []Rule {
	out := make([]Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Cursor returns the absolute offset of the start of the current line.
func (t *Tokenizer) Cursor() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor
}

// Line returns the 1-based number of the line being scanned, 0 before any scan.
func (t *Tokenizer) Line() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.line
}

// Column returns the 0-based byte column within the current line.
func (t *Tokenizer) Column() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.column
}

// Reset clears tokens, position and history.
func (t *Tokenizer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reset()
}

func (t *Tokenizer) reset() {
	t.tokens = nil
	t.cursor = 0
	t.line = 0
	t.column = 0
	t.history.Clear()
}

// Tokenize resets the tokenizer and scans the whole source.
func (t *Tokenizer) Tokenize() []Token {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.reset()
	rest := t.source
	for rest != "" {
		end := strings.IndexByte(rest, '\n') + 1
		if end == 0 {
			end = len(rest)
		}
		line := rest[:end]
		rest = rest[end:]

		t.line++
		t.extract(line)
		t.cursor += len(line)
	}

	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

func (t *Tokenizer) extract(line string) {
	t.column = 0
	for t.column < len(line) {
		t.next(line)
	}
}

func (t *Tokenizer) next(line string) {
	rest := line[t.column:]
	for _, rule := range t.rules {
		loc := rule.Pattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			continue
		}
		if loc[0] > 0 {
			t.emitUntagged(rest[:loc[0]])
		}
		tok := Token{
			Kind:   rule.Kind,
			Name:   rest[loc[2]:loc[3]],
			Text:   rest[loc[0]:loc[1]],
			Start:  t.cursor + t.column,
			End:    t.cursor + t.column + loc[1] - loc[0],
			Line:   t.line,
			Column: t.column + 1,
		}
		if len(loc) > 5 && loc[4] >= 0 {
			tok.Attrs = strings.TrimSpace(rest[loc[4]:loc[5]])
		}
		t.emit(tok, rule.Name)
		return
	}
	t.emitUntagged(rest)
}

func (t *Tokenizer) emitUntagged(text string) {
	kind := TokenLiteral
	if t.blockOpen() {
		kind = TokenIdentifiable
	}
	t.emit(Token{
		Kind:   kind,
		Text:   text,
		Start:  t.cursor + t.column,
		End:    t.cursor + t.column + len(text),
		Line:   t.line,
		Column: t.column + 1,
	}, "")
}

func (t *Tokenizer) emit(tok Token, rule string) {
	if !t.history.Push(history.NewOperation(history.Create, tok, tokenizerOrigin)) {
		t.logger.Debug("history full, operation dropped", zap.Int("limit", t.history.Limit()))
	}
	t.tokens = append(t.tokens, tok)
	t.column += tok.End - tok.Start
	t.logger.Debug("token",
		zap.Stringer("kind", tok.Kind),
		zap.String("rule", rule),
		zap.String("name", tok.Name),
		zap.Int("start", tok.Start),
		zap.Int("end", tok.End),
		zap.Int("line", tok.Line),
	)
}

// blockOpen reports whether some emitted opening tag has no later closing tag
// with the same name. Pairing is by name only, so nested blocks sharing a name
// are not told apart from siblings.
func (t *Tokenizer) blockOpen() bool {
	for i, open := range t.tokens {
		if open.Kind != TokenOpeningTag {
			continue
		}
		closed := false
		for _, c := range t.tokens[i+1:] {
			if c.Kind == TokenClosingTag && c.Name == open.Name {
				closed = true
				break
			}
		}
		if !closed {
			return true
		}
	}
	return false
}

// Tokenize scans source with a fresh tokenizer.
func Tokenize(source string, opts ...Option) []Token {
	return NewTokenizer(source, opts...).Tokenize()
}
