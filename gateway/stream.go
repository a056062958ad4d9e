package gateway

import (
	"context"
	"io"

	"github.com/cortexhub/cortex"
)

// stream pulls protocol events off an HTTP response body.
type stream struct {
	ctx     context.Context
	body    io.ReadCloser
	dec     decoder
	queue   []cortex.Event
	drained bool
	buf     []byte
}

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	return &stream{ctx: ctx, body: body, buf: make([]byte, 4096)}
}

// Next returns the next event in arrival order. It returns io.EOF once
// the body is exhausted and every buffered event has been yielded, or the
// context's error if the stream was cancelled.
func (s *stream) Next() (cortex.Event, error) {
	for len(s.queue) == 0 {
		if err := s.ctx.Err(); err != nil {
			return nil, err
		}
		if s.drained {
			return nil, io.EOF
		}
		n, err := s.body.Read(s.buf)
		if n > 0 {
			s.queue = append(s.queue, s.dec.Feed(s.buf[:n])...)
		}
		if err == io.EOF {
			s.drained = true
			s.queue = append(s.queue, s.dec.Flush()...)
		} else if err != nil {
			if cerr := s.ctx.Err(); cerr != nil {
				return nil, cerr
			}
			return nil, err
		}
	}
	ev := s.queue[0]
	s.queue = s.queue[1:]
	return ev, nil
}

// Close releases the underlying connection.
func (s *stream) Close() error {
	return s.body.Close()
}
