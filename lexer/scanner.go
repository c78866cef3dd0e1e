package lexer

import "strings"

// Tokenizer is the stateful, resumable lexer. It owns the cross-line state
// (inside a string, pending reader tag) and applies the right grammar to
// each line. One instance per document; not safe for concurrent use. The
// grammars themselves are shared and immutable.
type Tokenizer struct {
	maxLength int
	state     State
}

// NewTokenizer returns a tokenizer in the start-of-file state. maxLength
// bounds how far into a pathological line scanning will go; 0 means no cap.
func NewTokenizer(maxLength int) *Tokenizer {
	return &Tokenizer{maxLength: maxLength}
}

// State returns the state after the last processed line.
func (t *Tokenizer) State() State {
	return t.state
}

// SetState rewinds the tokenizer to a previously captured state, typically
// the state at the boundary of an edited region.
func (t *Tokenizer) SetState(s State) {
	t.state = s
}

// ProcessLine tokenizes one line starting from the retained state. The line
// must not contain its terminator; the caller strips it. Returns the tokens
// in order plus the state to thread into the next line. Never fails: any
// input yields a full token stream, with unrecognized code points classified
// as junk.
func (t *Tokenizer) ProcessLine(line string) ([]Token, State) {
	return t.ProcessLineFrom(t.state, line)
}

// ProcessLineFrom is ProcessLine resuming from an explicit captured state
// instead of the retained one. Resuming from a captured state is equivalent
// to having scanned continuously from the start of the buffer. The retained
// state is updated as well, so sequential calls can keep using ProcessLine.
func (t *Tokenizer) ProcessLineFrom(state State, line string) ([]Token, State) {
	limit := len(line)
	if t.maxLength > 0 && t.maxLength < limit {
		limit = t.maxLength
	}

	tokens := make([]Token, 0, 8)
	st := state
	ls := grammarFor(st).Lex(line, limit)
	truncated := false
	for {
		tok, ok := ls.Scan()
		if !ok {
			// Either the line is done or the length cap was hit. The cap is
			// a clean early return: no partial token, state as of the
			// truncation point, no sentinel for the unfinished line.
			truncated = ls.Pos() < len(line)
			break
		}
		prev := st
		st = step(st, tok, &tokens)
		if grammarFor(st) != grammarFor(prev) {
			pos := ls.Pos()
			ls = grammarFor(st).Lex(line, limit)
			ls.SeekTo(pos)
		}
	}
	if !truncated {
		tokens = append(tokens, Token{Kind: KindEOL, Raw: "\n", Offset: len(line), State: st})
	}
	t.state = st
	return tokens, st
}

// step applies the state-transition rules to one freshly scanned token,
// appending whatever should be emitted (possibly nothing, possibly a merged
// token) and returning the state after the token.
func step(st State, tok Token, out *[]Token) State {
	switch st.mode {
	case ModeInString:
		if tok.Kind == KindClose && tok.Raw == `"` {
			st = State{}
		}
		tok.State = st
		*out = append(*out, tok)
		return st

	case ModePendingTag:
		pending := *st.pending
		switch {
		case tok.Kind == KindWhitespace || tok.Kind == KindNewlineWS || tok.Kind == KindComment:
			// Absorbed: a reader tag reaches across whitespace, comments and
			// blank lines to the value it annotates.
			pending.Raw += tok.Raw
			return pendingTag(ModePendingTag, pending)
		case tok.Kind == KindReaderTag:
			// Stacked tags collapse into one pending tag.
			pending.Raw += "\n" + tok.Raw
			return pendingTag(ModePendingTag, pending)
		case tok.Kind == KindOpen && strings.HasSuffix(tok.Raw, `"`):
			// The tagged value is a string: keep accumulating through the
			// string grammar until its closing quote, then emit one token
			// covering tag and value.
			pending.Raw += "\n" + tok.Raw
			return pendingTag(ModePendingString, pending)
		default:
			// The merged token keeps the value's kind: a tagged collection
			// is still an opening delimiter with the tag folded in front.
			st = State{}
			merged := Token{
				Kind:   tok.Kind,
				Raw:    pending.Raw + "\n" + tok.Raw,
				Offset: pending.Offset,
				State:  st,
			}
			*out = append(*out, merged)
			return st
		}

	case ModePendingString:
		pending := *st.pending
		if tok.Kind == KindClose && tok.Raw == `"` {
			merged := Token{
				Kind:   KindLiteral,
				Raw:    pending.Raw + tok.Raw,
				Offset: pending.Offset,
				State:  State{},
			}
			*out = append(*out, merged)
			return State{}
		}
		pending.Raw += tok.Raw
		return pendingTag(ModePendingString, pending)

	default: // ModeNormal
		switch {
		case tok.Kind == KindReaderTag:
			// Held back: emitted only once merged with the value it tags.
			return pendingTag(ModePendingTag, tok)
		case tok.Kind == KindOpen && strings.HasSuffix(tok.Raw, `"`):
			st = InString()
			tok.State = st
			*out = append(*out, tok)
			return st
		default:
			tok.State = st
			*out = append(*out, tok)
			return st
		}
	}
}
