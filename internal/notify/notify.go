// Package notify publishes lifecycle events so passenger apps can react
// to reservation and trip state changes. Delivery is best effort:
// publish failures are logged and never surfaced to the lifecycle
// operation that triggered them.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Topics for lifecycle events.
const (
	TopicReservationAccepted  = "covoiturage/reservations/accepted"
	TopicReservationRefused   = "covoiturage/reservations/refused"
	TopicReservationCancelled = "covoiturage/reservations/cancelled"
	TopicTripArchived         = "covoiturage/trips/archived"
)

// Event is the payload published on every topic.
type Event struct {
	TripID        string    `json:"trip_id"`
	ReservationID string    `json:"reservation_id,omitempty"`
	PassengerID   string    `json:"passenger_id,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher delivers lifecycle events.
type Publisher interface {
	Publish(topic string, event Event)
}

// MQTTPublisher publishes events to an MQTT broker.
type MQTTPublisher struct {
	client mqtt.Client
}

// NewMQTTPublisher connects to the broker and returns a publisher.
func NewMQTTPublisher(brokerURL, clientID string) (*MQTTPublisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if err := waitToken(client.Connect(), 10*time.Second); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", brokerURL, err)
	}
	return &MQTTPublisher{client: client}, nil
}

// waitToken waits for a token to complete. A token that runs out the
// timeout reports no error of its own, so the timeout must be surfaced
// explicitly.
func waitToken(token mqtt.Token, timeout time.Duration) error {
	if !token.WaitTimeout(timeout) {
		return errors.New("timed out")
	}
	return token.Error()
}

// Publish serializes the event and sends it at QoS 0.
func (p *MQTTPublisher) Publish(topic string, event Event) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("topic", topic).Warn("Failed to marshal event")
		return
	}
	if err := waitToken(p.client.Publish(topic, 0, false, data), 5*time.Second); err != nil {
		log.WithError(err).WithField("topic", topic).Warn("Failed to publish event")
	}
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.client.Disconnect(250)
}

// NoopPublisher discards events. Used when no broker is configured and
// in tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(topic string, event Event) {}
