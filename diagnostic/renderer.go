// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Renderer writes diagnostics as annotated source snippets.
type Renderer struct {
	Color ColorMode

	// Sources holds source text by name.  Names missing from Sources are
	// read from the filesystem.
	Sources map[string][]byte
}

// Render writes d to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	var p palette
	if f, ok := w.(*os.File); ok {
		p = choosePalette(r.Color, f)
	} else {
		p = choosePalette(r.Color, nil)
	}
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	header := d.Severity.String()
	if d.Code != "" {
		header += "[" + d.Code + "]"
	}
	ew.printf("%s%s%s: %s%s%s\n", p.boldRed, header, p.reset, p.bold, d.Message, p.reset)
	if d.Span != nil {
		r.writeSpan(ew, d.Span, p)
	}
	for _, note := range d.Notes {
		ew.printf("   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, a ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, a...)
}

func (r *Renderer) writeSpan(ew *errWriter, span *Span, p palette) {
	loc := span.Source
	if span.Line > 0 {
		loc += ":" + strconv.Itoa(span.Line)
		if span.Col > 0 {
			loc += ":" + strconv.Itoa(span.Col)
		}
	}
	ew.printf("  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	line, ok := r.sourceLine(span.Source, span.Line)
	if !ok {
		return
	}
	num := strconv.Itoa(span.Line)
	pad := strings.Repeat(" ", len(num))
	ew.printf(" %s%s |%s\n", p.boldBlue, pad, p.reset)
	ew.printf(" %s%s |%s  %s\n", p.boldBlue, num, p.reset, strings.ReplaceAll(line, "\t", "    "))

	col := span.Col
	if col < 1 {
		col = 1
	}
	indent := 0
	for i, c := range line {
		if i >= col-1 {
			break
		}
		if c == '\t' {
			indent += 4
		} else {
			indent++
		}
	}
	ew.printf(" %s%s |%s  %s%s^%s", p.boldBlue, pad, p.reset, strings.Repeat(" ", indent), p.boldRed, p.reset)
	if span.Label != "" {
		ew.printf(" %s%s%s", p.boldRed, span.Label, p.reset)
	}
	ew.printf("\n")
}

func (r *Renderer) sourceLine(name string, line int) (string, bool) {
	if line <= 0 || name == "" {
		return "", false
	}
	src, ok := r.Sources[name]
	if !ok {
		var err error
		src, err = os.ReadFile(name) //#nosec G304
		if err != nil {
			return "", false
		}
	}
	scanner := bufio.NewScanner(bytes.NewReader(src))
	for i := 1; scanner.Scan(); i++ {
		if i == line {
			return scanner.Text(), true
		}
	}
	return "", false
}
