package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/clojutil/cljlex/document"
	"github.com/clojutil/cljlex/lexer"
)

// imbalance is one bracket problem found in a buffer.
type imbalance struct {
	Line   int
	Offset int
	Raw    string
	// Expected is the closer that would have matched, or 0 for a stray
	// close with nothing open.
	Expected rune
}

func (im imbalance) String() string {
	if im.Expected != 0 {
		return fmt.Sprintf("%d:%d: %q does not close %q", im.Line, im.Offset, im.Raw, im.Expected)
	}
	return fmt.Sprintf("%d:%d: unmatched %q", im.Line, im.Offset, im.Raw)
}

func newBracketsCommand() *Command {
	bracketsCmd := &Command{
		Name:        "brackets",
		Description: "Check delimiter balance in source files",
		FlagSet:     flag.NewFlagSet("brackets", flag.ExitOnError),
	}

	bracketsCmd.Run = func() error {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		files := bracketsCmd.FlagSet.Args()
		if len(files) < 1 {
			return fmt.Errorf("no input files specified")
		}

		bad := false
		for _, filename := range files {
			content, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("reading %s: %w", filename, err)
			}
			doc := document.New(string(content), cfg.Lexer.MaxLineLength)
			problems := checkBrackets(doc)
			if len(problems) == 0 {
				fmt.Printf("%s: balanced\n", filename)
				continue
			}
			bad = true
			for _, p := range problems {
				fmt.Printf("%s:%s\n", filename, p)
			}
		}
		if bad {
			return fmt.Errorf("unbalanced delimiters found")
		}
		return nil
	}

	return bracketsCmd
}

type openTok struct {
	line int
	tok  lexer.Token
}

// checkBrackets walks the token stream with a stack of open tokens, pairing
// each closer via ValidPair. String quotes close through the in-string state
// rather than a close token stack entry, so only '(', '[' and '{' openers
// are pushed.
func checkBrackets(doc *document.Document) []imbalance {
	var problems []imbalance
	var stack []openTok

	for i := 0; i < doc.LineCount(); i++ {
		tokens, err := doc.Tokens(i)
		if err != nil {
			// Lines come from LineCount; out of range cannot happen.
			continue
		}
		for _, tk := range tokens {
			switch tk.Kind {
			case lexer.KindOpen:
				if tk.Raw[len(tk.Raw)-1] == '"' {
					continue
				}
				stack = append(stack, openTok{line: i, tok: tk})
			case lexer.KindClose:
				closer := rune(tk.Raw[len(tk.Raw)-1])
				if closer == '"' {
					continue
				}
				if len(stack) == 0 {
					problems = append(problems, imbalance{Line: i, Offset: tk.Offset, Raw: tk.Raw})
					continue
				}
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if !lexer.ValidPair(top.tok.Raw, closer) {
					problems = append(problems, imbalance{
						Line:     i,
						Offset:   tk.Offset,
						Raw:      tk.Raw,
						Expected: matchingClose(top.tok.Raw),
					})
				}
			}
		}
	}

	for _, open := range stack {
		problems = append(problems, imbalance{Line: open.line, Offset: open.tok.Offset, Raw: open.tok.Raw})
	}
	return problems
}

func matchingClose(openRaw string) rune {
	for _, c := range []rune{')', ']', '}', '"'} {
		if lexer.ValidPair(openRaw, c) {
			return c
		}
	}
	return 0
}
