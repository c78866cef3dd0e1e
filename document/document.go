// Package document maintains tokenized editor buffers on top of the lexer.
// A Document caches, per line, the tokens and the scanner state at the line
// boundary, so an edit only retokenizes from the edited line until the
// recomputed state converges with the cached state of the following line.
package document

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clojutil/cljlex/lexer"
)

type line struct {
	text   string
	tokens []lexer.Token
	// entry is the scanner state in effect at the start of the line, exit
	// the state after it. entry of line i+1 always equals exit of line i.
	entry lexer.State
	exit  lexer.State
}

// Document is one tokenized buffer. Like the tokenizer it wraps, it is not
// safe for concurrent mutation; keep one logical caller per document.
type Document struct {
	id    uuid.UUID
	lines []line
	tok   *lexer.Tokenizer
}

// New builds a document from full buffer text, tokenizing every line.
// maxLength bounds per-line scan cost; 0 means no cap.
func New(text string, maxLength int) *Document {
	d := &Document{
		id:  uuid.New(),
		tok: lexer.NewTokenizer(maxLength),
	}
	for _, t := range strings.Split(text, "\n") {
		d.lines = append(d.lines, line{text: t})
	}
	d.retokenizeFrom(0)
	return d
}

// ID returns the document's identity, stable across edits.
func (d *Document) ID() uuid.UUID {
	return d.id
}

// LineCount returns the number of lines. Always at least one: an empty
// buffer is a single empty line.
func (d *Document) LineCount() int {
	return len(d.lines)
}

// Line returns the text of line i without its terminator.
func (d *Document) Line(i int) (string, error) {
	if err := d.checkLine(i); err != nil {
		return "", err
	}
	return d.lines[i].text, nil
}

// Text reassembles the full buffer.
func (d *Document) Text() string {
	texts := make([]string, len(d.lines))
	for i, l := range d.lines {
		texts[i] = l.text
	}
	return strings.Join(texts, "\n")
}

// Tokens returns the cached token list of line i, sentinel included. The
// slice is owned by the document; callers must not modify it.
func (d *Document) Tokens(i int) ([]lexer.Token, error) {
	if err := d.checkLine(i); err != nil {
		return nil, err
	}
	return d.lines[i].tokens, nil
}

// StateAfter returns the scanner state after line i, i.e. the resumption
// point for line i+1.
func (d *Document) StateAfter(i int) (lexer.State, error) {
	if err := d.checkLine(i); err != nil {
		return lexer.State{}, err
	}
	return d.lines[i].exit, nil
}

// TokenAt returns the token covering the given byte offset on line i. The
// sentinel covers the end-of-line position.
func (d *Document) TokenAt(i, offset int) (lexer.Token, error) {
	if err := d.checkLine(i); err != nil {
		return lexer.Token{}, err
	}
	for _, tok := range d.lines[i].tokens {
		if tok.Kind == lexer.KindEOL {
			if offset >= tok.Offset {
				return tok, nil
			}
			break
		}
		if offset >= tok.Offset && offset < tok.End() {
			return tok, nil
		}
	}
	return lexer.Token{}, fmt.Errorf("no token at %d:%d", i, offset)
}

// SetLine replaces the text of line i and retokenizes incrementally.
// Returns how many lines were retokenized.
func (d *Document) SetLine(i int, text string) (int, error) {
	if err := d.checkLine(i); err != nil {
		return 0, err
	}
	d.lines[i].text = text
	return d.retokenizeFrom(i), nil
}

// InsertLines inserts lines before index at (at == LineCount appends) and
// retokenizes incrementally. Returns how many lines were retokenized.
func (d *Document) InsertLines(at int, texts ...string) (int, error) {
	if at < 0 || at > len(d.lines) {
		return 0, fmt.Errorf("insert position %d out of range 0..%d", at, len(d.lines))
	}
	if len(texts) == 0 {
		return 0, nil
	}
	inserted := make([]line, len(texts))
	for i, t := range texts {
		inserted[i] = line{text: t}
	}
	d.lines = append(d.lines[:at], append(inserted, d.lines[at:]...)...)
	return d.retokenizeFrom(at), nil
}

// DeleteLines removes n lines starting at index at and retokenizes
// incrementally. Deleting every line leaves a single empty one.
func (d *Document) DeleteLines(at, n int) (int, error) {
	if at < 0 || n < 0 || at+n > len(d.lines) {
		return 0, fmt.Errorf("delete range %d+%d out of range 0..%d", at, n, len(d.lines))
	}
	if n == 0 {
		return 0, nil
	}
	d.lines = append(d.lines[:at], d.lines[at+n:]...)
	if len(d.lines) == 0 {
		d.lines = []line{{}}
		at = 0
	}
	if at >= len(d.lines) {
		// Trailing lines removed; nothing below the edit to reconverge.
		return 0, nil
	}
	return d.retokenizeFrom(at), nil
}

// Sync replaces the whole buffer with text, applied as a minimal line edit:
// unchanged leading and trailing lines keep their cached tokens, only the
// middle is spliced in and retokenized. Returns how many lines were
// retokenized.
func (d *Document) Sync(text string) int {
	fresh := strings.Split(text, "\n")
	old := d.lines

	p := 0
	for p < len(old) && p < len(fresh) && old[p].text == fresh[p] {
		p++
	}
	if p == len(old) && p == len(fresh) {
		return 0
	}
	s := 0
	for s < len(old)-p && s < len(fresh)-p && old[len(old)-1-s].text == fresh[len(fresh)-1-s] {
		s++
	}

	mid := make([]line, len(fresh)-s-p)
	for i, t := range fresh[p : len(fresh)-s] {
		mid[i] = line{text: t}
	}
	lines := make([]line, 0, p+len(mid)+s)
	lines = append(lines, old[:p]...)
	lines = append(lines, mid...)
	lines = append(lines, old[len(old)-s:]...)
	d.lines = lines
	return d.retokenizeFrom(p)
}

// retokenizeFrom rescans lines starting at index from, threading scanner
// state downward, and stops once a line's freshly computed exit state equals
// the entry state the next line was last tokenized with. Everything below
// that point would tokenize identically, which is exactly the resumability
// guarantee the lexer makes.
func (d *Document) retokenizeFrom(from int) int {
	state := lexer.State{}
	if from > 0 {
		state = d.lines[from-1].exit
	}
	count := 0
	for i := from; i < len(d.lines); i++ {
		l := &d.lines[i]
		if i > from && state.Equal(l.entry) && l.tokens != nil {
			break
		}
		l.entry = state
		l.tokens, state = d.tok.ProcessLineFrom(state, l.text)
		l.exit = state
		count++
	}
	return count
}

func (d *Document) checkLine(i int) error {
	if i < 0 || i >= len(d.lines) {
		return fmt.Errorf("line %d out of range 0..%d", i, len(d.lines)-1)
	}
	return nil
}
