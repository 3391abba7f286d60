package observability

import (
	"context"
	"testing"
	"time"
)

// recorder captures events from every hook kind.
type recorder struct {
	NoopSolverHooks
	NoopCacheHooks
	NoopHTTPHooks
	events []string
}

func (r *recorder) OnGenerateComplete(_ context.Context, method string, _ time.Duration, _ error) {
	r.events = append(r.events, "generate:"+method)
}

func (r *recorder) OnCacheHit(_ context.Context, kind string) {
	r.events = append(r.events, "hit:"+kind)
}

func (r *recorder) OnRequest(_ context.Context, method, route string) {
	r.events = append(r.events, method+" "+route)
}

func TestHooksRegistry(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	// Defaults accept every event.
	Solver().OnOptimizeComplete(ctx, "optimal", 2, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "solution", 512)
	HTTP().OnResponse(ctx, "GET", "/status", 200, time.Millisecond)

	r := &recorder{}
	SetSolverHooks(r)
	SetCacheHooks(r)
	SetHTTPHooks(r)
	SetSolverHooks(nil)

	Solver().OnGenerateComplete(ctx, "penalty", time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "verify")
	HTTP().OnRequest(ctx, "POST", "/solve/")

	want := []string{"generate:penalty", "hit:verify", "POST /solve/"}
	if len(r.events) != len(want) {
		t.Fatalf("events = %v, want %v", r.events, want)
	}
	for i := range want {
		if r.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, r.events[i], want[i])
		}
	}

	Reset()
	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Errorf("after Reset Solver() = %T", Solver())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("after Reset HTTP() = %T", HTTP())
	}
}
