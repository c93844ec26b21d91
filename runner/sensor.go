package runner

import (
	"context"

	"github.com/agentgraph-dev/agentgraph/graph"
	"github.com/agentgraph-dev/agentgraph/memory"
)

// Sensor records its input as an observation and announces it on the event
// bus. Sensors are typically driven by external triggers; their return
// value is an acknowledgment, not pipeline data.
type Sensor struct{}

// Run implements Runner.
func (Sensor) Run(_ context.Context, node graph.Node, input any, mem *memory.WorkingMemory, _ Env) (any, error) {
	mem.Set(node.Name+".observation", input, node.Name)
	mem.Emit("sensor:"+node.Name, input)
	return map[string]any{"observed": true, "data": input}, nil
}
