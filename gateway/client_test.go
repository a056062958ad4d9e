package gateway_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexhub/cortex"
	"github.com/cortexhub/cortex/gateway"
)

func frame(w io.Writer, payload string) {
	fmt.Fprintf(w, "data: %s\n\n", payload)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func collect(t *testing.T, s cortex.Stream) []cortex.Event {
	t.Helper()
	var events []cortex.Event
	for {
		ev, err := s.Next()
		if err == io.EOF {
			return events
		}
		require.NoError(t, err)
		events = append(events, ev)
	}
}

func TestClientStream(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat/stream", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "tenant-1", r.Header.Get("X-Cortex-Tenant-ID"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["query"])
		assert.Equal(t, "tenant-1", body["tenant_id"])
		assert.Equal(t, "cafe", body["business_type"])
		assert.Equal(t, "friendly", body["tone"])
		assert.Equal(t, "rec-7", body["record_id"])
		assert.NotEmpty(t, body["session_id"])

		frame(w, `{"type":"status","message":"Loading context..."}`)
		frame(w, `{"type":"chunk","content":"Hi!"}`)
		frame(w, `{"type":"done","session_id":"s1"}`)
	}))
	defer srv.Close()

	client := gateway.New(srv.URL)
	stream, err := client.Stream(context.Background(), cortex.Request{
		Query:        "hello",
		TenantID:     "tenant-1",
		BusinessType: "cafe",
		RecordID:     "rec-7",
		Tone:         "friendly",
		SessionID:    "sess-abc",
	})
	require.NoError(t, err)
	defer stream.Close()

	events := collect(t, stream)
	require.Len(t, events, 3)
	assert.Equal(t, cortex.EventStatus{Message: "Loading context..."}, events[0])
	assert.Equal(t, cortex.EventChunk{Content: "Hi!"}, events[1])
	assert.Equal(t, cortex.EventDone{SessionID: "s1"}, events[2])
}

func TestClientSendsNullRecordID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		v, present := body["record_id"]
		assert.True(t, present)
		assert.Nil(t, v)
		frame(w, `{"type":"done","session_id":"s1"}`)
	}))
	defer srv.Close()

	client := gateway.New(srv.URL)
	stream, err := client.Stream(context.Background(), cortex.Request{Query: "q", TenantID: "t"})
	require.NoError(t, err)
	stream.Close()
}

func TestClientClassifiesHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		kind   cortex.ErrorKind
	}{
		{http.StatusUnauthorized, cortex.KindAuthExpired},
		{http.StatusForbidden, cortex.KindAccessDenied},
		{http.StatusNotFound, cortex.KindResourceNotFound},
		{http.StatusTooManyRequests, cortex.KindRateLimited},
		{http.StatusBadGateway, cortex.KindUpstreamFailure},
		{http.StatusTeapot, cortex.KindTransportError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := gateway.New(srv.URL)
			_, err := client.Stream(context.Background(), cortex.Request{Query: "q", TenantID: "t"})
			require.Error(t, err)

			var se *cortex.StreamError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.kind, se.Kind)
			assert.Equal(t, tt.status, se.Status)
		})
	}
}

func TestClientStreamCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		frame(w, `{"type":"chunk","content":"partial"}`)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	client := gateway.New(srv.URL)
	stream, err := client.Stream(ctx, cortex.Request{Query: "q", TenantID: "t"})
	require.NoError(t, err)
	defer stream.Close()

	ev, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, cortex.EventChunk{Content: "partial"}, ev)

	cancel()
	_, err = stream.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientEmptyBodyYieldsEOF(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with no frames at all.
	}))
	defer srv.Close()

	client := gateway.New(srv.URL)
	stream, err := client.Stream(context.Background(), cortex.Request{Query: "q", TenantID: "t"})
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Next()
	assert.Equal(t, io.EOF, err)
}

func TestClientSplitFramesAcrossWrites(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f := w.(http.Flusher)
		io.WriteString(w, "data: {\"type\":\"chunk\",\"con")
		f.Flush()
		io.WriteString(w, "tent\":\"ab\"}\n")
		f.Flush()
		io.WriteString(w, "\ndata: {\"type\":\"done\",\"session_id\":\"s1\"}\n\n")
		f.Flush()
	}))
	defer srv.Close()

	client := gateway.New(srv.URL)
	stream, err := client.Stream(context.Background(), cortex.Request{Query: "q", TenantID: "t"})
	require.NoError(t, err)
	defer stream.Close()

	events := collect(t, stream)
	require.Len(t, events, 2)
	assert.Equal(t, cortex.EventChunk{Content: "ab"}, events[0])
	assert.Equal(t, cortex.EventDone{SessionID: "s1"}, events[1])
}
