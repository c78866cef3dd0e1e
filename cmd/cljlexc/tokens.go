package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/clojutil/cljlex/lexer"
)

// tokenJSON is the wire shape of one token in `cljlexc tokens -format json`.
type tokenJSON struct {
	Line   int    `json:"line"`
	Kind   string `json:"kind"`
	Raw    string `json:"raw"`
	Offset int    `json:"offset"`
	State  string `json:"state"`
}

func newTokensCommand() *Command {
	tokensCmd := &Command{
		Name:        "tokens",
		Description: "Tokenize source files and dump the token stream",
		FlagSet:     flag.NewFlagSet("tokens", flag.ExitOnError),
	}

	format := tokensCmd.FlagSet.String("format", "text", "Output format: text or json")

	tokensCmd.Run = func() error {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		files := tokensCmd.FlagSet.Args()
		if len(files) < 1 {
			return fmt.Errorf("no input files specified")
		}

		for _, filename := range files {
			content, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("reading %s: %w", filename, err)
			}
			all := tokenizeBuffer(string(content), cfg.Lexer.MaxLineLength)

			switch *format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(all); err != nil {
					return fmt.Errorf("encoding tokens for %s: %w", filename, err)
				}
			case "text":
				fmt.Printf("%s:\n", filename)
				for _, tk := range all {
					fmt.Printf("  %d:%d\t%s\t%q\n", tk.Line, tk.Offset, tk.Kind, tk.Raw)
				}
			default:
				return fmt.Errorf("unknown format: %s", *format)
			}
		}
		return nil
	}

	return tokensCmd
}

// tokenizeBuffer runs the stateful tokenizer over every line of a buffer.
func tokenizeBuffer(text string, maxLength int) []tokenJSON {
	tok := lexer.NewTokenizer(maxLength)
	var out []tokenJSON
	for i, line := range strings.Split(text, "\n") {
		tokens, _ := tok.ProcessLine(line)
		for _, tk := range tokens {
			out = append(out, tokenJSON{
				Line:   i,
				Kind:   tk.Kind.String(),
				Raw:    tk.Raw,
				Offset: tk.Offset,
				State:  tk.State.String(),
			})
		}
	}
	return out
}
