package runner

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/agentgraph-dev/agentgraph/memory"
)

// stringify renders an arbitrary value for prompt embedding: strings pass
// through, everything else is JSON-encoded.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// parseJSON attempts to decode text as JSON. The second return is false
// when the text is not valid JSON.
func parseJSON(text string) (any, bool) {
	var out any
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &out); err != nil {
		return nil, false
	}
	return out, true
}

// asMap coerces a value to a string-keyed map, JSON round-tripping structs
// and typed maps. The second return is false for values with no object form.
func asMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return m, true
}

// memoryContext serializes the session's working memory for prompt
// embedding, one "key = value" line per entry, sorted by key.
func memoryContext(mem *memory.WorkingMemory) string {
	entries := mem.Entries()
	if len(entries) == 0 {
		return ""
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Key)
		sb.WriteString(" = ")
		sb.WriteString(stringify(e.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}
