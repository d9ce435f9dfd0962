// Package mqtt publishes analytics events to an MQTT broker.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/aretw0/pageflow/pkg/domain"
)

// Publisher is the subset of paho.Client used by the sink.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Config describes the broker connection.
type Config struct {
	BrokerURL   string
	ClientID    string
	TopicPrefix string
	QoS         byte
	Timeout     time.Duration
}

// Message is the JSON payload published for each event.
type Message struct {
	Event       string    `json:"event"`
	Page        string    `json:"page"`
	SelectionID string    `json:"selection_id"`
	SessionID   string    `json:"session_id,omitempty"`
	Timestamp   time.Time `json:"ts"`
}

// Sink implements ports.AnalyticsSink over MQTT.
// Events are published to <prefix>/<event name>.
type Sink struct {
	pub     Publisher
	prefix  string
	qos     byte
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	client paho.Client
}

// NewSink creates a sink publishing through pub.
func NewSink(pub Publisher, prefix string, qos byte, timeout time.Duration) *Sink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Sink{
		pub:     pub,
		prefix:  strings.TrimSuffix(prefix, "/"),
		qos:     qos,
		timeout: timeout,
		now:     time.Now,
	}
}

// Dial connects to the broker and returns a sink owning the client.
func Dial(cfg Config) (*Sink, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, &ConnectTimeoutError{Broker: cfg.BrokerURL}
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.BrokerURL, err)
	}

	s := NewSink(client, cfg.TopicPrefix, cfg.QoS, cfg.Timeout)
	s.client = client
	return s, nil
}

// Topic returns the topic an event is published to.
func (s *Sink) Topic(event string) string {
	if s.prefix == "" {
		return event
	}
	return s.prefix + "/" + event
}

// Emit implements ports.AnalyticsSink.
func (s *Sink) Emit(ctx context.Context, e domain.AnalyticsEvent) error {
	payload, err := json.Marshal(Message{
		Event:       e.Name,
		Page:        e.Page,
		SelectionID: e.SelectionID,
		SessionID:   e.SessionID,
		Timestamp:   s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}

	topic := s.Topic(e.Name)
	token := s.pub.Publish(topic, s.qos, false, payload)
	if !token.WaitTimeout(timeout) {
		return &PublishTimeoutError{Topic: topic}
	}
	return token.Error()
}

// Close disconnects the client if the sink owns one.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		s.client.Disconnect(1000)
		s.client = nil
	}
	return nil
}

// ConnectTimeoutError indicates the broker connection timed out.
type ConnectTimeoutError struct {
	Broker string
}

func (e *ConnectTimeoutError) Error() string {
	return "mqtt connect timeout: " + e.Broker
}

// PublishTimeoutError indicates a publish was not acknowledged in time.
type PublishTimeoutError struct {
	Topic string
}

func (e *PublishTimeoutError) Error() string {
	return "mqtt publish timeout: " + e.Topic
}
