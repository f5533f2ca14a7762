package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Round hooks
	r := NoopRoundHooks{}
	r.OnGenerateStart(ctx, 5)
	r.OnGenerateComplete(ctx, 5, 10, time.Second, nil)
	r.OnRender(ctx, "svg", 2048, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "round")
	c.OnCacheMiss(ctx, "latest")
	c.OnCacheSet(ctx, "round", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/rounds/latest")
	h.OnResponse(ctx, "GET", "/api/rounds/latest", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Round().(NoopRoundHooks); !ok {
		t.Error("Round() should return NoopRoundHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customRound := &testRoundHooks{}
	SetRoundHooks(customRound)
	if Round() != customRound {
		t.Error("SetRoundHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Round().(NoopRoundHooks); !ok {
		t.Error("Reset() should restore NoopRoundHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRoundHooks{}
	SetRoundHooks(custom)

	// Setting nil should be ignored
	SetRoundHooks(nil)

	if Round() != custom {
		t.Error("SetRoundHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testRoundHooks struct{ NoopRoundHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
