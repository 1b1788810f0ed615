package telemetry

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/sweeney/airquality-sensor/internal/logic"
)

func TestFormatPayloadExactJSON(t *testing.T) {
	s := logic.Snapshot{ECO2: 450, TVOC: 120, Temperature: 22.3, Humidity: 41.7}

	payload, err := FormatPayload(s)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	want := `{"eco2":"450","tvoc":"120","temperature":"22.3","humidity":"41.7"}`
	if string(payload) != want {
		t.Errorf("payload = %s, want %s", payload, want)
	}
}

func TestFormatPayloadOneDecimalPlace(t *testing.T) {
	cases := []struct {
		temp, hum         float64
		wantTemp, wantHum string
	}{
		{22.0, 41.0, "22.0", "41.0"},
		{22.25, 41.75, "22.2", "41.8"}, // round half to even
		{-5.06, 99.99, "-5.1", "100.0"},
	}

	for _, c := range cases {
		payload, err := FormatPayload(logic.Snapshot{Temperature: c.temp, Humidity: c.hum})
		if err != nil {
			t.Fatalf("FormatPayload: %v", err)
		}
		var got Payload
		if err := json.Unmarshal(payload, &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Temperature != c.wantTemp {
			t.Errorf("temperature %v -> %q, want %q", c.temp, got.Temperature, c.wantTemp)
		}
		if got.Humidity != c.wantHum {
			t.Errorf("humidity %v -> %q, want %q", c.hum, got.Humidity, c.wantHum)
		}
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	payload, err := FormatPayload(logic.Snapshot{ECO2: 400, TVOC: 0, Temperature: 25.0, Humidity: 50.0})
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.ECO2 != "400" || p.TVOC != "0" || p.Temperature != "25.0" || p.Humidity != "50.0" {
		t.Errorf("round trip mismatch: %+v", p)
	}
}

func TestTopic(t *testing.T) {
	if got := Topic("lab-42"); got != "airquality/lab-42/readings" {
		t.Errorf("Topic = %q", got)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	s := logic.Snapshot{ECO2: 450, TVOC: 120, Temperature: 22.3, Humidity: 41.7}
	if err := f.Publish(s); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := f.Publish(s); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	// Duplicate snapshots are sent as-is: the upload path never dedups.
	if len(f.Snapshots) != 2 {
		t.Fatalf("recorded %d snapshots, want 2", len(f.Snapshots))
	}
	if f.Snapshots[0] != f.Snapshots[1] {
		t.Error("expected identical snapshots")
	}
	if len(f.Payloads) != 2 {
		t.Errorf("recorded %d payloads, want 2", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")

	if err := f.Publish(logic.Snapshot{}); err == nil {
		t.Error("expected error to be returned")
	}
	if len(f.Snapshots) != 0 {
		t.Error("failed publish must not be recorded")
	}
}

func TestFakePublisherCloseAndReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Snapshot{})
	f.DoWork()
	f.Close()

	if !f.Closed || f.DoWorkCalls != 1 {
		t.Errorf("state: closed=%v doWork=%d", f.Closed, f.DoWorkCalls)
	}

	f.Reset()
	if f.Closed || f.DoWorkCalls != 0 || len(f.Snapshots) != 0 {
		t.Error("Reset did not clear state")
	}
}
