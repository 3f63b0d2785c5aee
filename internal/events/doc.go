// Package events publishes staffgate domain events to MQTT.
//
// Two events exist: an account was registered, and an employee profile was
// saved. Payloads never carry password material or tokens. Publishing is
// best-effort and asynchronous; a full queue or broker failure is logged
// and the event is dropped.
package events
