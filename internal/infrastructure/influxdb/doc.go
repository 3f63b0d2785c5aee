// Package influxdb writes staffgate's authentication telemetry to
// InfluxDB v2.
//
// Writes are non-blocking and batched by the underlying write API
// according to influxdb.batch_size and influxdb.flush_interval. Async write
// failures are delivered to the callback set with SetOnError.
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // telemetry off
//	}
//	defer client.Close()
//
//	client.WriteAuthEvent("login", "failure", "invalid_credentials")
package influxdb
