package lexer

import "fmt"

// Mode is the scanning mode of a Tokenizer. The modes are mutually
// exclusive by construction: a state is exactly one of them.
type Mode int

const (
	// ModeNormal scans with the code grammar.
	ModeNormal Mode = iota
	// ModeInString scans with the string grammar until a closing '"'.
	ModeInString
	// ModePendingTag holds a reader tag waiting for the value it annotates.
	// Whitespace and comments are absorbed into the pending tag; the first
	// real token merges with it.
	ModePendingTag
	// ModePendingString is a pending reader tag whose value turned out to be
	// a string: the string grammar is active and every string token is
	// absorbed into the pending tag until the closing '"', at which point a
	// single merged token is emitted.
	ModePendingString
)

// State is the cross-line scanner state threaded through ProcessLine. It is
// an immutable value: capture it at any token boundary and resume later.
// The zero value is the normal start-of-file state.
type State struct {
	mode    Mode
	pending *Token
}

// InString makes a state that resumes scanning inside a string literal.
func InString() State {
	return State{mode: ModeInString}
}

// Mode reports the scanning mode.
func (s State) Mode() Mode {
	return s.mode
}

// InsideString reports whether the next line starts inside a string literal.
func (s State) InsideString() bool {
	return s.mode == ModeInString || s.mode == ModePendingString
}

// Pending returns the reader tag accumulated so far, if any.
func (s State) Pending() (Token, bool) {
	if s.pending == nil {
		return Token{}, false
	}
	return *s.pending, true
}

func pendingTag(mode Mode, tok Token) State {
	return State{mode: mode, pending: &tok}
}

func (s State) String() string {
	switch s.mode {
	case ModeInString:
		return "in-string"
	case ModePendingTag:
		return fmt.Sprintf("pending(%q)", s.pending.Raw)
	case ModePendingString:
		return fmt.Sprintf("pending-string(%q)", s.pending.Raw)
	default:
		return "normal"
	}
}

// Equal reports whether two states would tokenize the rest of the buffer
// identically. Used by incremental consumers to decide when retokenization
// after an edit can stop.
func (s State) Equal(o State) bool {
	if s.mode != o.mode {
		return false
	}
	if (s.pending == nil) != (o.pending == nil) {
		return false
	}
	if s.pending == nil {
		return true
	}
	return s.pending.Raw == o.pending.Raw && s.pending.Offset == o.pending.Offset
}
