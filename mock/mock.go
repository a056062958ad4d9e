// Package mock provides test doubles for the cortex interfaces.
package mock

import (
	"context"
	"io"

	"github.com/cortexhub/cortex"
)

// Gateway is a mock implementation of cortex.Gateway.
type Gateway struct {
	StreamFn func(ctx context.Context, req cortex.Request) (cortex.Stream, error)
}

var _ cortex.Gateway = (*Gateway)(nil)

func (g *Gateway) Stream(ctx context.Context, req cortex.Request) (cortex.Stream, error) {
	return g.StreamFn(ctx, req)
}

// Stream is a mock implementation of cortex.Stream.
type Stream struct {
	NextFn  func() (cortex.Event, error)
	CloseFn func() error
}

var _ cortex.Stream = (*Stream)(nil)

func (s *Stream) Next() (cortex.Event, error) {
	return s.NextFn()
}

func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// NewEventStream returns a Stream that yields the given events in order,
// then io.EOF. It respects ctx cancellation between events.
func NewEventStream(ctx context.Context, events ...cortex.Event) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (cortex.Event, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if i >= len(events) {
				return nil, io.EOF
			}
			ev := events[i]
			i++
			return ev, nil
		},
	}
}
