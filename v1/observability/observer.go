// Package observability defines the hook contract that codec and transport
// packages use to report operations to metrics, tracing or logging backends.
//
// Components never depend on a concrete backend. They accept an optional
// Observer and call it once per completed operation:
//
//	codec := messaging.NewCodec(reg, store).WithObserver(metricsInstance)
//
// A nil Observer disables reporting.
package observability

import "time"

// Observer receives a notification for every completed operation.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// OperationContext describes a single completed operation.
type OperationContext struct {
	// Component is the emitting package, e.g. "messaging", "kafka", "rabbit".
	Component string

	// Operation is the action performed, e.g. "encode", "decode", "fetch".
	Operation string

	// Resource is the primary object operated on (schema id, schema name, topic).
	Resource string

	// SubResource adds optional detail such as a message key or queue name.
	SubResource string

	Duration time.Duration

	// Error is nil on success.
	Error error

	// Size is the number of payload bytes involved, 0 when not applicable.
	Size int64

	Metadata map[string]interface{}
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation calls f(ctx).
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}

// Multi fans an operation out to several observers. Nil entries are skipped.
func Multi(observers ...Observer) Observer {
	return multiObserver(observers)
}

type multiObserver []Observer

func (m multiObserver) ObserveOperation(ctx OperationContext) {
	for _, o := range m {
		if o != nil {
			o.ObserveOperation(ctx)
		}
	}
}
