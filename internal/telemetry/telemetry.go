// Package telemetry uploads sensor readings to the cloud broker over MQTT,
// with abstraction for testing.
package telemetry

import (
	"encoding/json"
	"strconv"

	"github.com/sweeney/airquality-sensor/internal/logic"
)

// Topic returns the readings topic for a device.
func Topic(deviceID string) string {
	return "airquality/" + deviceID + "/readings"
}

// Publisher uploads reading snapshots.
type Publisher interface {
	// Publish sends (or queues) one snapshot. A send failure must not
	// crash the process; the upload path has no fatal errors.
	Publish(s logic.Snapshot) error

	// DoWork performs periodic client maintenance. It is called once per
	// event-loop iteration regardless of timer activity and must be a
	// no-op when there is nothing pending.
	DoWork()

	// Close disconnects from the broker.
	Close() error
}

// Payload is the upload wire format: four string-valued fields, with
// temperature and humidity rendered to one decimal place.
type Payload struct {
	ECO2        string `json:"eco2"`
	TVOC        string `json:"tvoc"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
}

// FormatPayload serializes a snapshot.
func FormatPayload(s logic.Snapshot) ([]byte, error) {
	p := Payload{
		ECO2:        strconv.Itoa(int(s.ECO2)),
		TVOC:        strconv.Itoa(int(s.TVOC)),
		Temperature: strconv.FormatFloat(s.Temperature, 'f', 1, 64),
		Humidity:    strconv.FormatFloat(s.Humidity, 'f', 1, 64),
	}
	return json.Marshal(p)
}
