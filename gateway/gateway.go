// Package gateway implements the Cortex streaming chat protocol over HTTP.
//
// The producer answers POST /api/chat/stream with a newline-delimited
// frame stream: each frame is a "data:" line carrying a JSON payload,
// frames are separated by a blank line. The payload's "type" field
// discriminates the event.
package gateway

const (
	streamPath   = "/api/chat/stream"
	tenantHeader = "X-Cortex-Tenant-ID"
)
