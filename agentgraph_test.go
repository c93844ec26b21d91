package agentgraph

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentgraph-dev/agentgraph/executor"
	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/model"
)

// TestPipelineEndToEnd exercises the full façade: an LLM-backed planner
// delegates to a field-mapping transformer, with a validator gating the
// planner's output.
func TestPipelineEndToEnd(t *testing.T) {
	caller := model.CallerFunc(func(_ context.Context, opts model.CallOptions) (string, error) {
		if strings.Contains(opts.SystemPrompt, "Plan the request") {
			return `{"topic": "haiku", "style": "minimal"}`, nil
		}
		return `{"valid": true, "reason": "ok"}`, nil
	})

	def := graph.Definition{
		Nodes: []graph.Node{
			{ID: "plan", Name: "Planner", Config: graph.Config{
				Type:         graph.TypeExecutor,
				Prompt:       "Plan the request.",
				OutputSchema: &graph.OutputSchema{Type: "json"},
			}},
			{ID: "shape", Name: "Shaper", Config: graph.Config{
				Type:         graph.TypeTransformer,
				FieldMapping: map[string]string{"subject": "topic"},
			}},
			{ID: "gate", Name: "Gate", Config: graph.Config{
				Type:   graph.TypeValidator,
				Prompt: "Is this a sensible plan?",
			}},
		},
		Edges: []graph.RawEdge{
			{ID: "e1", SourceID: "plan", DestinationID: "gate", Type: "Validates"},
			{ID: "e2", SourceID: "plan", DestinationID: "shape", Type: "Delegates To"},
		},
	}

	ag := New(def, func(o *Options) {
		o.Caller = caller
		o.SessionID = "e2e"
	})

	out, err := ag.Execute(context.Background(), "write a haiku")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"subject": "haiku"}, out)

	assert.Equal(t, "e2e", ag.Memory().SessionID())
	assert.Equal(t, map[string]any{"topic": "haiku", "style": "minimal"}, ag.Memory().Get("Planner.output"))

	var stages []executor.Stage
	for _, entry := range ag.Trace() {
		stages = append(stages, entry.Stage)
	}
	assert.NotContains(t, stages, executor.StageError)

	data, err := ag.TraceJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "Planner")
}

func TestSubscribeSeesNodeCompletions(t *testing.T) {
	ag := New(graph.Definition{
		Nodes: []graph.Node{{ID: "a", Name: "Solo"}},
	})

	var completions int
	unsub := ag.Subscribe("node:complete", func(any) { completions++ })

	_, err := ag.Execute(context.Background(), "in")
	require.NoError(t, err)
	assert.Equal(t, 1, completions)

	unsub()
	_, err = ag.Execute(context.Background(), "again")
	require.NoError(t, err)
	assert.Equal(t, 1, completions)
}
