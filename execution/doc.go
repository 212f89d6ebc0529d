/*
Package execution serializes access to a datastore.Store.

A Context owns the store. Every repository operation goes through Perform,
which admits one unit of work at a time using a weighted semaphore of size
one, so concurrent callers never observe interleaved partial mutations:

	ec := execution.New(store, execution.WithLogger(logger))

	n, err := execution.Perform(ctx, ec, execution.Op{Name: "count", Entity: "Task"},
	    func(ctx context.Context, s datastore.Store) (int, error) {
	        return s.Count(ctx, "Task", nil)
	    })

Only mutual exclusion is guaranteed, not submission order. Errors returned
by the work are passed through untouched; Perform never retries. Each call
opens an OpenTelemetry span named "dataaccess.<op>", which costs nothing
until a tracer provider is installed (see package telemetry).
*/
package execution
