package telemetry

import (
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/airquality-sensor/internal/logic"
)

// maxPending caps the offline buffer. At one upload per minute this is
// over eight hours of outage.
const maxPending = 512

// publishWait bounds how long a send may stall the event loop. The same
// accepted-latency budget as a blocking I2C transaction.
const publishWait = 2 * time.Second

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client  paho.Client
	topic   string
	pending *pendingBuffer
}

// NewRealPublisher connects to the given broker. The client reconnects on
// its own; while it is down, Publish queues payloads and DoWork drains
// them after reconnection.
func NewRealPublisher(broker, deviceID string) (*RealPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("airquality-" + deviceID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &RealPublisher{
		client:  client,
		topic:   Topic(deviceID),
		pending: newPendingBuffer(maxPending),
	}, nil
}

// Publish sends one snapshot, or queues it when the broker is unreachable.
func (p *RealPublisher) Publish(s logic.Snapshot) error {
	payload, err := FormatPayload(s)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	if !p.client.IsConnected() {
		p.pending.push(payload)
		return nil
	}
	if err := p.send(payload); err != nil {
		p.pending.push(payload)
		return err
	}
	return nil
}

// DoWork drains queued payloads once the connection is back. No-op when
// the buffer is empty or the broker is still down.
func (p *RealPublisher) DoWork() {
	if p.pending.len() == 0 || !p.client.IsConnected() {
		return
	}

	drained := 0
	for {
		payload := p.pending.pop()
		if payload == nil {
			break
		}
		if err := p.send(payload); err != nil {
			p.pending.requeue(payload)
			log.Printf("telemetry: drain stopped after %d payloads: %v", drained, err)
			return
		}
		drained++
	}
	log.Printf("telemetry: drained %d buffered payloads", drained)
}

func (p *RealPublisher) send(payload []byte) error {
	// QoS 1 (at-least-once): duplicate readings are acceptable, silent
	// loss is not.
	token := p.client.Publish(p.topic, 1, false, payload)
	if !token.WaitTimeout(publishWait) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
