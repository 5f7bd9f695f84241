// Copyright © 2018 The ELPS authors

package repl

import (
	"io"
	"testing"

	"github.com/flyrain/lispet/lispettest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolCompleter(t *testing.T) {
	env, err := lispettest.NewEnv(io.Discard)
	require.NoError(t, err)
	_, err = lispettest.EvalLine(env, "def {headcount} 3")
	require.NoError(t, err)

	c := &symbolCompleter{env: env}

	candidates, offset := c.Do([]rune("(he"), 3)
	assert.Equal(t, 2, offset)
	assert.Equal(t, [][]rune{[]rune("ad"), []rune("adcount")}, candidates)

	candidates, offset = c.Do([]rune("{1} (jo"), 7)
	assert.Equal(t, 2, offset)
	assert.Equal(t, [][]rune{[]rune("in")}, candidates)

	candidates, _ = c.Do([]rune("(zzz-nonexistent"), 16)
	assert.Empty(t, candidates)

	candidates, offset = c.Do([]rune("( "), 2)
	assert.Empty(t, candidates)
	assert.Equal(t, 0, offset)
}
