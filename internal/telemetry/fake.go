package telemetry

import "github.com/sweeney/airquality-sensor/internal/logic"

// FakePublisher records published snapshots for test assertions.
type FakePublisher struct {
	// Snapshots contains every snapshot passed to Publish.
	Snapshots []logic.Snapshot

	// Payloads contains the serialized payloads.
	Payloads [][]byte

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// DoWorkCalls counts maintenance invocations.
	DoWorkCalls int

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the snapshot.
func (f *FakePublisher) Publish(s logic.Snapshot) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Snapshots = append(f.Snapshots, s)

	payload, err := FormatPayload(s)
	if err != nil {
		return err
	}
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// DoWork counts the call.
func (f *FakePublisher) DoWork() {
	f.DoWorkCalls++
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded state.
func (f *FakePublisher) Reset() {
	f.Snapshots = nil
	f.Payloads = nil
	f.PublishError = nil
	f.DoWorkCalls = 0
	f.Closed = false
}
