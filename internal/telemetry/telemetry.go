// Package telemetry counts authentication outcomes. The counters are
// written to InfluxDB when it is configured and discarded otherwise.
package telemetry

// Events.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventGate     = "gate"
)

// Outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeRejected = "rejected"
)

// Recorder records one authentication event. Implementations must not
// block the caller.
type Recorder interface {
	AuthEvent(event, outcome, reason string)
}

// AuthEventWriter is satisfied by *influxdb.Client.
type AuthEventWriter interface {
	WriteAuthEvent(event, outcome, reason string)
}

type nop struct{}

func (nop) AuthEvent(string, string, string) {}

// Nop returns a Recorder that discards everything.
func Nop() Recorder {
	return nop{}
}

type influxRecorder struct {
	w AuthEventWriter
}

func (r influxRecorder) AuthEvent(event, outcome, reason string) {
	r.w.WriteAuthEvent(event, outcome, reason)
}

// New returns a Recorder backed by w, or Nop when w is nil.
func New(w AuthEventWriter) Recorder {
	if w == nil {
		return Nop()
	}
	return influxRecorder{w: w}
}
