package progress

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSSink publishes each event as JSON on a fixed subject using core NATS
// publish. Progress events are fire-and-forget telemetry, not durable work
// items, so this intentionally does not reach for JetStream the way the
// teacher's entity-change event bus does.
type NATSSink struct {
	nc      *nats.Conn
	subject string
	onError func(error)
}

// NewNATSSink publishes to subject over nc. onError, if non-nil, receives
// publish failures; a nil onError silently drops them, since a progress
// sink must never block or panic the loader over a telemetry failure.
func NewNATSSink(nc *nats.Conn, subject string, onError func(error)) *NATSSink {
	return &NATSSink{nc: nc, subject: subject, onError: onError}
}

func (s *NATSSink) Report(e Event) {
	data, err := json.Marshal(e)
	if err != nil {
		s.fail(fmt.Errorf("progress: encode event: %w", err))
		return
	}
	if err := s.nc.Publish(s.subject, data); err != nil {
		s.fail(fmt.Errorf("progress: publish event: %w", err))
	}
}

func (s *NATSSink) fail(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}
