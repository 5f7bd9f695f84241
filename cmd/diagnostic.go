// Copyright © 2024 The ELPS authors

package cmd

import (
	"errors"
	"io"

	"github.com/flyrain/lispet/diagnostic"
	"github.com/flyrain/lispet/lispet"
	"github.com/flyrain/lispet/parser"
	"github.com/spf13/viper"
)

func newRenderer(sources map[string][]byte) (*diagnostic.Renderer, error) {
	mode, err := diagnostic.ParseColorMode(viper.GetString("color"))
	if err != nil {
		return nil, err
	}
	return &diagnostic.Renderer{Color: mode, Sources: sources}, nil
}

// lispErrorToDiagnostic converts an error value produced while evaluating the
// source called name.
func lispErrorToDiagnostic(name string, lerr *lispet.LVal) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     lerr.Kind.String(),
		Message:  lerr.Str,
		Span:     &diagnostic.Span{Source: name},
	}
}

// parseErrorToDiagnostic converts a reader failure.  Errors other than
// *parser.ParseError are reported without a location.
func parseErrorToDiagnostic(err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  err.Error(),
	}
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		d.Message = perr.Msg
		d.Span = &diagnostic.Span{Source: perr.Name, Line: perr.Line, Col: perr.Col}
		if perr.Incomplete() {
			d.Notes = append(d.Notes, "input ended inside an open expression")
		}
	}
	return d
}

// renderDiagnostic writes d to w, falling back to the plain message if the
// renderer fails.
func renderDiagnostic(w io.Writer, r *diagnostic.Renderer, d diagnostic.Diagnostic) {
	if err := r.Render(w, d); err != nil {
		_, _ = io.WriteString(w, d.Message+"\n")
	}
}
