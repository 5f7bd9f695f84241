// Copyright © 2018 The ELPS authors

package repl

import (
	"strings"

	"github.com/flyrain/lispet/lispet"
)

// symbolCompleter implements readline.AutoCompleter by enumerating symbols
// bound in the REPL environment.
type symbolCompleter struct {
	env *lispet.LEnv
}

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Extract the word being typed (backwards from cursor to whitespace or an
	// open bracket).
	start := pos
	for start > 0 {
		ch := line[start-1]
		if ch == ' ' || ch == '\t' || ch == '(' || ch == '{' || ch == '\n' {
			break
		}
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	var result [][]rune
	for _, sym := range c.env.Symbols() {
		if strings.HasPrefix(sym, prefix) {
			result = append(result, []rune(sym[len(prefix):]))
		}
	}
	if len(result) == 0 {
		return nil, 0
	}
	return result, len(prefix)
}
