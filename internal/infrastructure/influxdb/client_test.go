package influxdb

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/staffgate/internal/infrastructure/config"
)

func testConfig() config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           "http://127.0.0.1:8086",
		Token:         "staffgate-dev-token",
		Org:           "staffgate",
		Bucket:        "auth",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

// connectOrSkip needs STAFFGATE_INFLUX_TEST=1 and a local InfluxDB.
func connectOrSkip(t *testing.T) *Client {
	t.Helper()
	if os.Getenv("STAFFGATE_INFLUX_TEST") == "" {
		t.Skip("STAFFGATE_INFLUX_TEST not set, skipping InfluxDB test")
	}
	client, err := Connect(testConfig())
	if err != nil {
		t.Skipf("InfluxDB not available: %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

func TestConnect(t *testing.T) {
	client := connectOrSkip(t)

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	var writeErr error
	client.SetOnError(func(err error) { writeErr = err })
	client.WriteAuthEvent("login", "success", "")
	client.Flush()
	if writeErr != nil {
		t.Errorf("async write error = %v", writeErr)
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false

	if _, err := Connect(cfg); !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := testConfig()
	cfg.URL = "http://127.0.0.1:59999"

	if _, err := Connect(cfg); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestClient_NotConnected(t *testing.T) {
	c := &Client{}

	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	// Writes and flushes on a disconnected client are dropped.
	c.WriteAuthEvent("login", "success", "")
	c.WritePoint("x", nil, map[string]any{"v": 1})
	c.Flush()
}

func TestAuthEventPoint(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	line := write.PointToLineProtocol(authEventPoint("gate", "rejected", "expired", at), time.Second)
	want := "auth_event,event=gate,outcome=rejected,reason=expired count=1i"
	if !strings.HasPrefix(line, want) {
		t.Errorf("line protocol = %q, want prefix %q", line, want)
	}

	line = write.PointToLineProtocol(authEventPoint("register", "success", "", at), time.Second)
	if strings.Contains(line, "reason=") {
		t.Errorf("empty reason should be omitted: %q", line)
	}
}

func TestClientOptions(t *testing.T) {
	tests := []struct {
		name      string
		batch     int
		flush     int
		wantBatch uint
		wantFlush uint
	}{
		{"configured", 10, 2, 10, 2000},
		{"defaults", 0, 0, defaultBatchSize, defaultFlushInterval * 1000},
		{"negative", -5, -1, defaultBatchSize, defaultFlushInterval * 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.BatchSize = tt.batch
			cfg.FlushInterval = tt.flush

			opts := clientOptions(cfg)
			if got := opts.BatchSize(); got != tt.wantBatch {
				t.Errorf("BatchSize() = %d, want %d", got, tt.wantBatch)
			}
			if got := opts.FlushInterval(); got != tt.wantFlush {
				t.Errorf("FlushInterval() = %d, want %d", got, tt.wantFlush)
			}
			if got := opts.WriteOptions().DefaultTags()[serviceTag]; got != serviceValue {
				t.Errorf("default service tag = %q, want %q", got, serviceValue)
			}
		})
	}
}
