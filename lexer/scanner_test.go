package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawsOf(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Raw)
	}
	return b.String()
}

func kindsOf(tokens []Token) []Kind {
	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind
	}
	return kinds
}

// assertCoverage checks the full-coverage invariant: raws concatenate back
// to the line plus the sentinel newline, and offsets are gap-free.
func assertCoverage(t *testing.T, line string, tokens []Token) {
	t.Helper()
	require.NotEmpty(t, tokens)
	assert.Equal(t, line+"\n", rawsOf(tokens), "raw concatenation")
	pos := 0
	for i, tok := range tokens[:len(tokens)-1] {
		assert.Equal(t, pos, tok.Offset, "token %d offset", i)
		pos = tok.End()
	}
	last := tokens[len(tokens)-1]
	assert.Equal(t, KindEOL, last.Kind)
	assert.Equal(t, "\n", last.Raw)
	assert.Equal(t, len(line), last.Offset)
}

func TestFullCoverage(t *testing.T) {
	lines := []string{
		"",
		"   ",
		"(defn foo [x] (+ x 1))",
		"{:a 1, :b \"two\"}",
		"; only a comment",
		"'(quoted list)",
		")]}",     // unmatched closers
		"(open [", // unmatched openers
		"\\a \\newline :kw ::другой",
		"1.5e3 0x1F nil true false",
		"#{:a :b} #(inc %)",
		"garbage \x01 mixed in",
	}
	for _, line := range lines {
		tok := NewTokenizer(0)
		tokens, _ := tok.ProcessLine(line)
		assertCoverage(t, line, tokens)
	}
}

func TestEmptyLine(t *testing.T) {
	tok := NewTokenizer(0)
	tokens, state := tok.ProcessLine("")
	require.Len(t, tokens, 1)
	assert.Equal(t, KindEOL, tokens[0].Kind)
	assert.Equal(t, 0, tokens[0].Offset)
	assert.Equal(t, ModeNormal, state.Mode())
}

func TestStringSpansLines(t *testing.T) {
	tok := NewTokenizer(0)

	first, state := tok.ProcessLine(`(println "hello`)
	assert.True(t, state.InsideString())
	require.Equal(t,
		[]Kind{KindOpen, KindSymbol, KindWhitespace, KindOpen, KindStringInside, KindEOL},
		kindsOf(first))
	assert.Equal(t, "hello", first[4].Raw)
	assert.True(t, first[3].State.InsideString(), "open token carries in-string state")

	second, state := tok.ProcessLine(`world")`)
	assert.False(t, state.InsideString())
	require.Equal(t,
		[]Kind{KindStringInside, KindClose, KindClose, KindEOL},
		kindsOf(second))
	assert.Equal(t, "world", second[0].Raw)
	assert.False(t, second[1].State.InsideString(), "close quote switches back")
}

func TestStringOpensAndClosesOnOneLine(t *testing.T) {
	tok := NewTokenizer(0)
	tokens, state := tok.ProcessLine(`(str "ab" x)`)
	assert.Equal(t, ModeNormal, state.Mode())
	require.Equal(t,
		[]Kind{KindOpen, KindSymbol, KindWhitespace, KindOpen, KindStringInside, KindClose, KindWhitespace, KindSymbol, KindClose, KindEOL},
		kindsOf(tokens))
	assertCoverage(t, `(str "ab" x)`, tokens)
	// The in-string flag is raised and lowered within the single call.
	assert.True(t, tokens[3].State.InsideString())
	assert.False(t, tokens[5].State.InsideString())
}

func TestReaderTagMergeAcrossLines(t *testing.T) {
	tok := NewTokenizer(0)

	first, state := tok.ProcessLine("#inst")
	require.Equal(t, []Kind{KindEOL}, kindsOf(first), "tag is held, only the sentinel comes out")
	pending, ok := state.Pending()
	require.True(t, ok)
	assert.Equal(t, "#inst", pending.Raw)

	second, state := tok.ProcessLine(`"2020-01-01"`)
	require.Equal(t, []Kind{KindLiteral, KindEOL}, kindsOf(second))
	merged := second[0]
	assert.Equal(t, "#inst\n\"2020-01-01\"", merged.Raw)
	assert.Equal(t, 0, merged.Offset, "merged token keeps the tag's offset")
	_, ok = state.Pending()
	assert.False(t, ok)
}

func TestReaderTagAbsorbsWhitespaceAndComments(t *testing.T) {
	tok := NewTokenizer(0)

	_, state := tok.ProcessLine("#uuid ; the id follows")
	pending, ok := state.Pending()
	require.True(t, ok)
	assert.Equal(t, "#uuid ; the id follows", pending.Raw)

	_, state = tok.ProcessLine("")
	_, ok = state.Pending()
	assert.True(t, ok, "pending tag survives a blank line")

	tokens, state := tok.ProcessLine("[1 2]")
	require.Equal(t, []Kind{KindOpen, KindLiteral, KindWhitespace, KindLiteral, KindClose, KindEOL}, kindsOf(tokens))
	assert.Equal(t, "#uuid ; the id follows\n[", tokens[0].Raw)
	assert.Equal(t, 0, tokens[0].Offset)
	_, ok = state.Pending()
	assert.False(t, ok)
}

func TestReaderTagMergesWithOpenDelimiter(t *testing.T) {
	tok := NewTokenizer(0)
	tokens, _ := tok.ProcessLine("#js {:a 1}")
	require.Equal(t, []Kind{KindOpen, KindKeyword, KindWhitespace, KindLiteral, KindClose, KindEOL}, kindsOf(tokens))
	assert.Equal(t, "#js \n{", tokens[0].Raw)
	assert.Equal(t, 0, tokens[0].Offset)
	// The merged token still works for bracket matching.
	assert.True(t, ValidPair(tokens[0].Raw, '}'))
}

func TestClusterBeforeReaderTag(t *testing.T) {
	tok := NewTokenizer(0)

	_, state := tok.ProcessLine("'#inst")
	pending, ok := state.Pending()
	require.True(t, ok)
	assert.Equal(t, "'#inst", pending.Raw)

	tokens, _ := tok.ProcessLine("x")
	require.Equal(t, []Kind{KindSymbol, KindEOL}, kindsOf(tokens))
	assert.Equal(t, "'#inst\nx", tokens[0].Raw)
}

func TestResumingFromCapturedStateMatchesSequential(t *testing.T) {
	inputs := [][2]string{
		{`(println "hello`, `world")`},
		{"#inst", `"2020-01-01"`},
		{"(a (b", "c) d)"},
		{`"unterminated`, `still going`},
		{"#tag", "[1 2 3]"},
	}
	for _, in := range inputs {
		seq := NewTokenizer(0)
		_, s1 := seq.ProcessLine(in[0])
		wantTokens, wantState := seq.ProcessLine(in[1])

		resumed := NewTokenizer(0)
		gotTokens, gotState := resumed.ProcessLineFrom(s1, in[1])

		assert.Equal(t, wantTokens, gotTokens, "%q then %q", in[0], in[1])
		assert.True(t, wantState.Equal(gotState))
	}
}

func TestUnterminatedStringIsNotAnError(t *testing.T) {
	tok := NewTokenizer(0)
	tokens, state := tok.ProcessLine(`"never closed`)
	assert.True(t, state.InsideString())
	require.Equal(t, []Kind{KindOpen, KindStringInside, KindEOL}, kindsOf(tokens))
	assertCoverage(t, `"never closed`, tokens)

	// And it stays in-string until a quote ever shows up.
	tokens, state = tok.ProcessLine("more text")
	assert.True(t, state.InsideString())
	require.Equal(t, []Kind{KindStringInside, KindEOL}, kindsOf(tokens))
}

func TestLengthCapTruncatesCleanly(t *testing.T) {
	tok := NewTokenizer(5)
	line := "(abc defgh ijkl)"
	tokens, state := tok.ProcessLine(line)

	// Tokens starting before the cap are produced in full; nothing after.
	require.NotEmpty(t, tokens)
	for _, tk := range tokens {
		assert.NotEqual(t, KindEOL, tk.Kind, "truncated line gets no sentinel")
		assert.Less(t, tk.Offset, 5)
	}
	assert.Equal(t, ModeNormal, state.Mode())
}

func TestSetStateRewindsTheTokenizer(t *testing.T) {
	tok := NewTokenizer(0)
	_, mid := tok.ProcessLine(`(a "open`)
	tok.ProcessLine(`closed" b)`)
	assert.Equal(t, ModeNormal, tok.State().Mode())

	tok.SetState(mid)
	assert.True(t, tok.State().InsideString())
	tokens, _ := tok.ProcessLine(`closed" b)`)
	assert.Equal(t, KindStringInside, tokens[0].Kind)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "normal", State{}.String())
	assert.Equal(t, "in-string", InString().String())
	tok := NewTokenizer(0)
	_, s := tok.ProcessLine("#inst")
	assert.Equal(t, `pending("#inst")`, s.String())
}
