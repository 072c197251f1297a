package rabbit

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// TestObserver is a mock observer for testing
type TestObserver struct {
	mu         sync.Mutex
	operations []observability.OperationContext
}

func (t *TestObserver) ObserveOperation(ctx observability.OperationContext) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operations = append(t.operations, ctx)
}

func (t *TestObserver) GetOperations() []observability.OperationContext {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]observability.OperationContext{}, t.operations...)
}

// TestObserverHelperMethod tests the observeOperation helper method
func TestObserverHelperMethod(t *testing.T) {
	testObserver := &TestObserver{}

	client := &RabbitClient{observer: testObserver}

	client.observeOperation("publish", "test-exchange", "test-key", 100*time.Millisecond, nil, 1024, nil)

	ops := testObserver.GetOperations()
	if len(ops) != 1 {
		t.Fatalf("Expected 1 operation, got %d", len(ops))
	}

	op := ops[0]
	if op.Component != "rabbit" {
		t.Errorf("Expected component 'rabbit', got %s", op.Component)
	}
	if op.Operation != "publish" {
		t.Errorf("Expected operation 'publish', got %s", op.Operation)
	}
	if op.Resource != "test-exchange" {
		t.Errorf("Expected resource 'test-exchange', got %s", op.Resource)
	}
	if op.SubResource != "test-key" {
		t.Errorf("Expected subresource 'test-key', got %s", op.SubResource)
	}
	if op.Duration != 100*time.Millisecond {
		t.Errorf("Expected duration 100ms, got %v", op.Duration)
	}
	if op.Size != 1024 {
		t.Errorf("Expected size 1024, got %d", op.Size)
	}
}

// TestObserverWithError tests that errors are passed through
func TestObserverWithError(t *testing.T) {
	testObserver := &TestObserver{}
	client := &RabbitClient{observer: testObserver}

	testErr := errors.New("publish failed")
	client.observeOperation("publish", "test-exchange", "test-key", 0, testErr, 0, nil)

	ops := testObserver.GetOperations()
	if len(ops) != 1 {
		t.Fatalf("Expected 1 operation, got %d", len(ops))
	}
	if !errors.Is(ops[0].Error, testErr) {
		t.Errorf("Expected error %v, got %v", testErr, ops[0].Error)
	}
}

// TestObserverNil tests that a nil observer doesn't cause panics
func TestObserverNil(t *testing.T) {
	client := &RabbitClient{}
	client.observeOperation("publish", "test-exchange", "test-key", 0, nil, 0, nil)

	var nilClient *RabbitClient
	nilClient.observeOperation("publish", "test-exchange", "test-key", 0, nil, 0, nil)
}
