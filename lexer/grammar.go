package lexer

import (
	"regexp"
	"unicode/utf8"
)

// Rule is one entry of a lexical grammar: a pattern anchored at the scan
// position plus a classifier mapping the matched text to a token kind.
// Rules are immutable once compiled into a Table.
type Rule struct {
	Name    string
	Pattern string
	// Classify maps the matched text to a token kind.
	Classify func(raw string) Kind
	// Guard, when set, vetoes a match after the fact. It receives the line
	// and the byte offset just past the match. Used where the pattern alone
	// cannot express a trailing boundary.
	Guard func(line string, end int) bool

	re *regexp.Regexp
}

// Table is a compiled lexical grammar: an ordered rule list evaluated
// first-match-wins. Order is load-bearing — the first rule whose pattern
// matches anchored at the scan position produces the token, so earlier rules
// take precedence over later ones regardless of match length. Tables are
// immutable and safe for concurrent use.
type Table struct {
	rules []Rule
}

// Compile builds a Table from an ordered rule list. Panics on an invalid
// pattern; grammars are package-level constants, so this is a programmer
// error, not input-dependent.
func Compile(rules []Rule) *Table {
	t := &Table{rules: make([]Rule, len(rules))}
	for i, r := range rules {
		r.re = regexp.MustCompile("^(?:" + r.Pattern + ")")
		t.rules[i] = r
	}
	return t
}

// Scan returns the next token anchored exactly at start, or ok=false when
// start is at or beyond limit or no rule matches. With the catch-all junk
// rule in place the latter only happens at the limit.
func (t *Table) Scan(line string, start, limit int) (Token, bool) {
	if start >= limit {
		return Token{}, false
	}
	rest := line[start:]
	for _, r := range t.rules {
		loc := r.re.FindStringIndex(rest)
		if loc == nil || loc[1] == 0 {
			continue
		}
		end := start + loc[1]
		if r.Guard != nil && !r.Guard(line, end) {
			continue
		}
		raw := line[start:end]
		return Token{Kind: r.Classify(raw), Raw: raw, Offset: start}, true
	}
	return Token{}, false
}

// Lex positions a LineScanner over line. limit <= 0 means no length cap.
func (t *Table) Lex(line string, limit int) *LineScanner {
	if limit <= 0 || limit > len(line) {
		limit = len(line)
	}
	return &LineScanner{table: t, line: line, limit: limit}
}

// LineScanner walks one line left to right under a single grammar. It is a
// cheap value: switching grammars mid-line is done by discarding the scanner
// and constructing a new one at the same offset, not by resetting internals.
type LineScanner struct {
	table *Table
	line  string
	pos   int
	limit int
}

// Scan yields the next token, or ok=false once the line (or the length cap)
// is exhausted.
func (ls *LineScanner) Scan() (Token, bool) {
	tok, ok := ls.table.Scan(ls.line, ls.pos, ls.limit)
	if !ok {
		return Token{}, false
	}
	ls.pos = tok.End()
	return tok, true
}

// Pos returns the current byte offset in the line.
func (ls *LineScanner) Pos() int {
	return ls.pos
}

// SeekTo moves the scanner to a byte offset. Used when a grammar switch
// resumes scanning at the position where the previous grammar stopped.
func (ls *LineScanner) SeekTo(pos int) {
	ls.pos = pos
}

const (
	// prefixCluster matches a run of quoting/reader-shorthand markers,
	// possibly interleaved with whitespace. These fold into the start of the
	// next real token instead of being emitted on their own.
	prefixCluster = "(?:['`~@^#][\\s,]*)*"

	symbolFirst = "[^\\s,()\\[\\]{};\"'`~@^\\\\#]"
	symbolRest  = "[^\\s,()\\[\\]{};\"`~@^\\\\]*"
	atomBody    = "[^\\s,()\\[\\]{};\"'`~@^\\\\]+"
)

func kind(k Kind) func(string) Kind {
	return func(string) Kind { return k }
}

// atomBoundary rejects matches that run straight into more atom text, so a
// literal like "true" is not carved out of the front of the symbol "truex".
func atomBoundary(line string, end int) bool {
	if end >= len(line) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(line[end:])
	switch r {
	case ' ', '\t', ',', ';', '(', ')', '[', ']', '{', '}', '"':
		return true
	}
	return false
}

// codeGrammar tokenizes ordinary code. Order matters: literals must precede
// the generic symbol rule, the ignore marker must precede reader tags, and
// reader tags must precede the open rule so "#(" still lexes as an open
// delimiter while "#inst" lexes as a reader tag.
var codeGrammar = Compile([]Rule{
	{Name: "ws", Pattern: "[\\t ,]+", Classify: kind(KindWhitespace)},
	{Name: "ws-nl", Pattern: "\\r\\n|\\r|\\n", Classify: kind(KindNewlineWS)},
	{Name: "comment", Pattern: ";.*", Classify: kind(KindComment)},
	{Name: "ignore", Pattern: "#_", Classify: kind(KindIgnore)},
	{Name: "char", Pattern: "\\\\(?:newline|return|space|tab|formfeed|backspace|u[0-9a-fA-F]{4}|o[0-7]{1,3}|.)", Classify: kind(KindChar)},
	{
		Name:     "lit",
		Pattern:  prefixCluster + "(?:true|false|nil|[+-]?(?:0[xX][0-9a-fA-F]+|\\d+/\\d+|\\d+(?:\\.\\d*)?(?:[eE][+-]?\\d+)?[MN]?))",
		Classify: kind(KindLiteral),
		Guard:    atomBoundary,
	},
	{Name: "kw", Pattern: prefixCluster + "::?" + atomBody, Classify: kind(KindKeyword)},
	{Name: "reader", Pattern: prefixCluster + "#" + atomBody, Classify: kind(KindReaderTag)},
	{Name: "open", Pattern: prefixCluster + "[\"(\\[{]", Classify: kind(KindOpen)},
	{Name: "close", Pattern: "[)\\]}]", Classify: kind(KindClose)},
	{Name: "id", Pattern: prefixCluster + symbolFirst + symbolRest, Classify: kind(KindSymbol)},
	{Name: "junk", Pattern: "(?s).", Classify: kind(KindJunk)},
})

// stringGrammar tokenizes string interiors: chunks of content and escape
// sequences until the closing quote hands control back to codeGrammar.
var stringGrammar = Compile([]Rule{
	{Name: "close", Pattern: "\"", Classify: kind(KindClose)},
	{Name: "str-inside", Pattern: "(?:\\\\.|[^\"\\\\\\r\\n])+", Classify: kind(KindStringInside)},
	{Name: "str-backslash", Pattern: "\\\\", Classify: kind(KindStringInside)},
	{Name: "ws-nl", Pattern: "\\r\\n|\\r|\\n", Classify: kind(KindNewlineWS)},
	{Name: "junk", Pattern: "(?s).", Classify: kind(KindJunk)},
})

func grammarFor(s State) *Table {
	if s.InsideString() {
		return stringGrammar
	}
	return codeGrammar
}
