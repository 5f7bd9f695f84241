// Copyright © 2018 The ELPS authors

package lispet

import (
	"bytes"
	"fmt"
	"io"
)

// DefaultMaxHeight is the CallStack height used by StandardRuntime.
const DefaultMaxHeight = 10000

// CallStack tracks nested S-expression evaluation.  Every SExpr being
// evaluated holds one frame, so the height bounds the recursion depth of the
// evaluator.
type CallStack struct {
	Frames    []CallFrame
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	// Name is the function being applied, once it is known.
	Name string
}

func (f *CallFrame) String() string {
	if f.Name == "" {
		return "<expr>"
	}
	return f.Name
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	return len(s.Frames)
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push adds a frame to the stack.  An error is returned, and no frame is
// pushed, if the stack is already at its maximum height.
func (s *CallStack) Push() error {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return fmt.Errorf("maximum evaluation depth exceeded: %d", s.MaxHeight)
	}
	s.Frames = append(s.Frames, CallFrame{})
	return nil
}

// Pop removes the top frame from the stack.
func (s *CallStack) Pop() {
	if len(s.Frames) == 0 {
		panic("pop called on empty stack")
	}
	s.Frames = s.Frames[:len(s.Frames)-1]
}

// DebugPrint writes the stack to w, innermost frame first.
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	var buf bytes.Buffer
	buf.WriteString("Stack Trace [")
	fmt.Fprint(&buf, len(s.Frames))
	buf.WriteString(" frames -- entrypoint last]:\n")
	for i := len(s.Frames) - 1; i >= 0; i-- {
		fmt.Fprintf(&buf, "  height %d: %s\n", i, &s.Frames[i])
	}
	return w.Write(buf.Bytes())
}
