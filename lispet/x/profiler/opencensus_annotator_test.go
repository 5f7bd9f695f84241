// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/flyrain/lispet/lispet/x/profiler"
	"github.com/flyrain/lispet/lispettest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

func TestNewOpenCensusAnnotator(t *testing.T) {
	env, err := lispettest.NewEnv(io.Discard)
	require.NoError(t, err)
	// Let's sample at 100% for the purposes of this test...
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	exporter := &recordingExporter{}
	trace.RegisterExporter(exporter)
	t.Cleanup(func() { trace.UnregisterExporter(exporter) })

	ppa := profiler.NewOpenCensusAnnotator(env.Runtime, context.Background())
	assert.NoError(t, ppa.Enable())
	v := env.LoadString("test.lisp", testLisp)
	assert.Equal(t, "3", v.String())
	assert.NoError(t, ppa.Complete())

	assert.Equal(t, []string{`\`, "def", "+", "lambda"}, exporter.names())
}

// recordingExporter logs spans the way a real exporter would ship them and
// remembers their names.
type recordingExporter struct {
	mut   sync.Mutex
	spans []*trace.SpanData
}

func (e *recordingExporter) ExportSpan(sd *trace.SpanData) {
	log.Printf("Name: %s\n\tTraceID: %x\n\tSpanID: %x\n\tParentSpanID: %x\n\tAnnotations: %+v\n",
		sd.Name, sd.TraceID, sd.SpanID, sd.ParentSpanID, sd.Annotations)
	e.mut.Lock()
	defer e.mut.Unlock()
	e.spans = append(e.spans, sd)
}

func (e *recordingExporter) names() []string {
	e.mut.Lock()
	defer e.mut.Unlock()
	names := make([]string, len(e.spans))
	for i, sd := range e.spans {
		names[i] = sd.Name
	}
	return names
}
