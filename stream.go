package cortex

import "context"

// Stream is a pull-based iterator over protocol events for one exchange.
// Next returns io.EOF when the producer closes the stream; cancellation
// flows through the context passed to Gateway.Stream. Events are yielded
// strictly in arrival order.
type Stream interface {
	Next() (Event, error)
	Close() error
}

// Gateway opens one streaming exchange against the producer.
type Gateway interface {
	Stream(ctx context.Context, req Request) (Stream, error)
}
