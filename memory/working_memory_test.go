package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetIncrementsVersionPerKey(t *testing.T) {
	mem := New()

	for i := 0; i < 5; i++ {
		mem.Set("counter", i, "writer")
	}
	mem.Set("other", "x", "someone-else")

	md, ok := mem.GetMetadata("counter")
	require.True(t, ok)
	assert.Equal(t, 5, md.Version)
	assert.Equal(t, "writer", md.Source)

	md, ok = mem.GetMetadata("other")
	require.True(t, ok)
	assert.Equal(t, 1, md.Version, "versions are tracked per key")
}

func TestSetRecordsLatestSource(t *testing.T) {
	mem := New()
	mem.Set("k", 1, "alpha")
	mem.Set("k", 2, "beta")

	md, ok := mem.GetMetadata("k")
	require.True(t, ok)
	assert.Equal(t, "beta", md.Source)
	assert.Equal(t, 2, mem.Get("k"))
}

func TestSetEmitsKeyAndUpdateEvents(t *testing.T) {
	mem := New()

	var keyed, generic []Entry
	mem.Subscribe("memory:answer", func(data any) { keyed = append(keyed, data.(Entry)) })
	mem.Subscribe("memory:update", func(data any) { generic = append(generic, data.(Entry)) })

	mem.Set("answer", 42, "solver")

	require.Len(t, keyed, 1)
	assert.Equal(t, "answer", keyed[0].Key)
	assert.Equal(t, 42, keyed[0].Value)
	assert.Equal(t, "solver", keyed[0].Source)
	assert.Equal(t, 1, keyed[0].Version)
	require.Len(t, generic, 1)
	assert.Equal(t, keyed[0], generic[0])
}

func TestDeleteAbsentKeyIsSilent(t *testing.T) {
	mem := New()

	events := 0
	mem.Subscribe("memory:delete", func(any) { events++ })

	assert.False(t, mem.Delete("ghost"))
	assert.Zero(t, events)
	assert.Empty(t, mem.History())
}

func TestDeleteEmitsEvents(t *testing.T) {
	mem := New()
	mem.Set("k", 1, "src")

	var deleted, generic bool
	mem.Subscribe("memory:k:deleted", func(any) { deleted = true })
	mem.Subscribe("memory:delete", func(data any) {
		generic = true
		assert.Equal(t, "k", data)
	})

	assert.True(t, mem.Delete("k"))
	assert.True(t, deleted)
	assert.True(t, generic)
	assert.False(t, mem.Has("k"))
	_, ok := mem.GetMetadata("k")
	assert.False(t, ok)
}

func TestClearEmitsPerKeyDeletions(t *testing.T) {
	mem := New()
	mem.Set("a", 1, "s")
	mem.Set("b", 2, "s")

	perKey := map[string]bool{}
	cleared := false
	mem.Subscribe("memory:a:deleted", func(any) { perKey["a"] = true })
	mem.Subscribe("memory:b:deleted", func(any) { perKey["b"] = true })
	mem.Subscribe("memory:clear", func(any) { cleared = true })

	mem.Clear()

	assert.True(t, perKey["a"])
	assert.True(t, perKey["b"])
	assert.True(t, cleared)
	assert.Zero(t, mem.Size())
}

func TestEmitIsRecordedInHistory(t *testing.T) {
	mem := New()

	got := false
	mem.Subscribe("custom:ping", func(data any) {
		got = true
		assert.Equal(t, "pong", data)
	})
	mem.Emit("custom:ping", "pong")

	assert.True(t, got)
	history := mem.History()
	require.Len(t, history, 1)
	assert.Equal(t, "event", history[0].Type)
	assert.Equal(t, "custom:ping", history[0].Event)
}

func TestHandlerMayReenterStore(t *testing.T) {
	mem := New()

	mem.Subscribe("memory:first", func(any) {
		mem.Set("second", "from-handler", "handler")
	})
	mem.Set("first", 1, "caller")

	assert.Equal(t, "from-handler", mem.Get("second"))
}

func TestExportImportRoundTrip(t *testing.T) {
	mem := New(func(o *Options) { o.SessionID = "session-1" })
	mem.Set("a", 1, "s1")
	mem.Set("b", map[string]any{"nested": true}, "s2")
	mem.Set("a", 2, "s3")

	state := mem.Export()
	assert.Equal(t, "session-1", state.SessionID)

	fresh := New()
	fresh.Import(state)

	for _, key := range mem.Keys() {
		assert.Equal(t, mem.Get(key), fresh.Get(key), "context mismatch for %q", key)
	}
	md, ok := fresh.GetMetadata("a")
	require.True(t, ok)
	assert.Equal(t, 2, md.Version)
	assert.Empty(t, fresh.History(), "history is not restored")
}

func TestExportHistoryTail(t *testing.T) {
	mem := New()
	for i := 0; i < ExportHistoryTail+50; i++ {
		mem.Set("k", i, "s")
	}

	state := mem.Export()
	assert.Len(t, state.History, ExportHistoryTail)
}

func TestExportJSONRoundTrip(t *testing.T) {
	mem := New()
	mem.Set("greeting", "hello", "src")

	data, err := mem.ExportJSON()
	require.NoError(t, err)

	fresh := New()
	require.NoError(t, fresh.ImportJSON(data))
	assert.Equal(t, "hello", fresh.Get("greeting"))
	md, ok := fresh.GetMetadata("greeting")
	require.True(t, ok)
	assert.Equal(t, 1, md.Version)
}
