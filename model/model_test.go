package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertions)
var (
	_ Caller = (*MockCaller)(nil)
	_ Caller = CallerFunc(nil)
)

func TestMockCallerCannedResponses(t *testing.T) {
	caller := NewMockCaller()
	caller.AddResponse("ping", "pong")

	out, err := caller.Call(context.Background(), CallOptions{UserPrompt: "ping"})
	require.NoError(t, err)
	assert.Equal(t, "pong", out)

	out, err = caller.Call(context.Background(), CallOptions{UserPrompt: "unmatched"})
	require.NoError(t, err)
	assert.Equal(t, "Mock response to: unmatched", out)

	caller.SetDefaultResponse("fallback")
	out, err = caller.Call(context.Background(), CallOptions{UserPrompt: "unmatched"})
	require.NoError(t, err)
	assert.Equal(t, "fallback", out)

	require.Len(t, caller.Calls(), 3)
	assert.Equal(t, "ping", caller.Calls()[0].UserPrompt)
}

func TestMockCallerFail(t *testing.T) {
	caller := NewMockCaller()
	caller.Fail(errors.New("status 429: rate limited"))

	_, err := caller.Call(context.Background(), CallOptions{UserPrompt: "x"})
	assert.ErrorContains(t, err, "status 429")
}

func TestMockCallerHonorsCancelledContext(t *testing.T) {
	caller := NewMockCaller()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := caller.Call(ctx, CallOptions{UserPrompt: "x"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, caller.Calls())
}

func TestCallerFunc(t *testing.T) {
	var seen CallOptions
	caller := CallerFunc(func(_ context.Context, opts CallOptions) (string, error) {
		seen = opts
		return "ok", nil
	})

	out, err := caller.Call(context.Background(), CallOptions{SystemPrompt: "s", UserPrompt: "u", Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "s", seen.SystemPrompt)
	assert.InDelta(t, 0.3, seen.Temperature, 1e-9)
}
