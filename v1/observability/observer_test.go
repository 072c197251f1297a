package observability

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu  sync.Mutex
	ops []OperationContext
}

func (r *recorder) ObserveOperation(ctx OperationContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, ctx)
}

func TestObserverFunc(t *testing.T) {
	var got OperationContext
	var o Observer = ObserverFunc(func(ctx OperationContext) { got = ctx })

	o.ObserveOperation(OperationContext{Component: "messaging", Operation: "encode", Size: 42})

	if got.Component != "messaging" || got.Operation != "encode" || got.Size != 42 {
		t.Fatalf("unexpected operation context: %#v", got)
	}
}

func TestMultiSkipsNilAndFansOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	o := Multi(a, nil, b)

	wantErr := errors.New("boom")
	o.ObserveOperation(OperationContext{Operation: "decode", Duration: time.Millisecond, Error: wantErr})

	for i, r := range []*recorder{a, b} {
		if len(r.ops) != 1 {
			t.Fatalf("observer %d: expected 1 operation, got %d", i, len(r.ops))
		}
		if !errors.Is(r.ops[0].Error, wantErr) {
			t.Fatalf("observer %d: expected error to be propagated", i)
		}
	}
}
