package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// MeasurementAuthEvent is the measurement for authentication telemetry.
const MeasurementAuthEvent = "auth_event"

// authEventPoint builds one auth_event point. Tags stay low cardinality:
// no account ids or emails.
func authEventPoint(event, outcome, reason string, at time.Time) *write.Point {
	tags := map[string]string{
		"event":   event,
		"outcome": outcome,
	}
	if reason != "" {
		tags["reason"] = reason
	}
	return write.NewPoint(MeasurementAuthEvent, tags, map[string]any{"count": 1}, at)
}

// WriteAuthEvent records one authentication event, e.g.
// ("login", "failure", "invalid_credentials") or ("gate", "rejected", "expired").
func (c *Client) WriteAuthEvent(event, outcome, reason string) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(authEventPoint(event, outcome, reason, time.Now()))
}

// WritePoint writes a custom point stamped now.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]any) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
