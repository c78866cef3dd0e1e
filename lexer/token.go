package lexer

// Kind classifies a token produced by the lexical grammar.
type Kind int

const (
	// KindWhitespace covers runs of spaces, tabs and commas (commas are
	// whitespace in this language family).
	KindWhitespace Kind = iota
	// KindNewlineWS is a newline matched inside a line. Callers strip line
	// terminators before handing lines to the tokenizer, so this only shows
	// up when a grammar is run over raw multi-line text directly.
	KindNewlineWS
	// KindComment is a line comment from ';' to end of line.
	KindComment
	// KindOpen is an opening delimiter: '(', '[', '{' or '"', possibly with a
	// folded prefix cluster in front (see the grammar rules).
	KindOpen
	// KindClose is a closing delimiter: ')', ']', '}' or, inside a string,
	// the terminating '"'.
	KindClose
	// KindIgnore is the #_ ignore marker.
	KindIgnore
	// KindChar is a character literal such as \a or \newline.
	KindChar
	// KindLiteral covers numbers, booleans and nil, and merged reader-tagged
	// string values.
	KindLiteral
	// KindKeyword is a :keyword or ::keyword.
	KindKeyword
	// KindReaderTag is a #tag marker annotating the next value. The stateful
	// tokenizer never emits this kind directly; it is held pending and merged
	// with the value it annotates.
	KindReaderTag
	// KindSymbol is an identifier.
	KindSymbol
	// KindStringInside is a chunk of string interior.
	KindStringInside
	// KindJunk is a single unrecognized code point.
	KindJunk
	// KindEOL is the synthetic end-of-line sentinel appended after every
	// fully scanned line.
	KindEOL
)

var kindNames = map[Kind]string{
	KindWhitespace:   "ws",
	KindNewlineWS:    "ws-nl",
	KindComment:      "comment",
	KindOpen:         "open",
	KindClose:        "close",
	KindIgnore:       "ignore",
	KindChar:         "char",
	KindLiteral:      "lit",
	KindKeyword:      "kw",
	KindReaderTag:    "reader",
	KindSymbol:       "id",
	KindStringInside: "str-inside",
	KindJunk:         "junk",
	KindEOL:          "eol",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is one classified span of a source line. Tokens are value objects:
// the tokenizer hands them to the caller and never touches them again.
type Token struct {
	Kind Kind
	// Raw is the exact text consumed, including any prefix cluster that was
	// folded into the token.
	Raw string
	// Offset is the byte offset of the token start within its line.
	Offset int
	// State is a snapshot of the tokenizer state after this token was
	// produced, so scanning can resume from any token boundary.
	State State
}

// End returns the byte offset one past the token's raw text.
func (t Token) End() int {
	return t.Offset + len(t.Raw)
}
