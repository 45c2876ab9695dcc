package mqtt

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const inboxCapacity = 16

// RealRelay talks to an actual MQTT broker. Reconnection is driven by
// EnsureConnected rather than paho's background reconnect, so the "On"
// announcement and the command subscription happen on the caller's schedule.
type RealRelay struct {
	client    paho.Client
	cfg       Config
	inbox     *inbox
	connected atomic.Bool
}

// NewRealRelay creates a relay and makes a single connection attempt.
// A failure here is returned so the caller can restart the process.
func NewRealRelay(cfg Config) (*RealRelay, error) {
	if cfg.ClientID == "" {
		cfg.ClientID = fmt.Sprintf("iron-timer-%04x", rand.Intn(0x10000))
	}
	r := &RealRelay{cfg: cfg, inbox: newInbox(inboxCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			r.connected.Store(false)
			logrus.Warnf("mqtt: connection lost: %v", err)
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	r.client = paho.NewClient(opts)

	if err := r.connectOnce(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RealRelay) connectOnce() error {
	token := r.client.Connect()
	if !token.WaitTimeout(r.cfg.ConnectTimeout) {
		return errors.Errorf("connect to %s: timeout", r.cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return errors.Wrapf(err, "connect to %s", r.cfg.Broker)
	}
	r.connected.Store(true)
	logrus.Infof("mqtt: connected to %s as %s", r.cfg.Broker, r.cfg.ClientID)
	r.announce()
	return nil
}

// announce publishes "On" and subscribes to the command topic.
func (r *RealRelay) announce() {
	r.client.Publish(r.cfg.StateTopic, 1, false, PayloadOn)

	token := r.client.Subscribe(r.cfg.CommandTopic, 0, func(_ paho.Client, m paho.Message) {
		payload := make([]byte, len(m.Payload()))
		copy(payload, m.Payload())
		r.inbox.push(Message{Topic: m.Topic(), Payload: payload})
	})
	if !token.WaitTimeout(r.cfg.ConnectTimeout) {
		logrus.Warnf("mqtt: subscribe to %s timed out", r.cfg.CommandTopic)
		return
	}
	if err := token.Error(); err != nil {
		logrus.Warnf("mqtt: subscribe to %s: %v", r.cfg.CommandTopic, err)
	}
}

// EnsureConnected blocks until the broker connection is up.
func (r *RealRelay) EnsureConnected(ctx context.Context) error {
	for !r.client.IsConnectionOpen() {
		r.connected.Store(false)
		err := r.connectOnce()
		if err == nil {
			return nil
		}
		logrus.Warnf("mqtt: %v, retrying in %v", err, r.cfg.RetryInterval)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cfg.RetryInterval):
		}
	}
	return nil
}

// PublishState sends payload on the state topic at QoS 1. The returned
// paho token satisfies Ack.
func (r *RealRelay) PublishState(payload string) Ack {
	return r.client.Publish(r.cfg.StateTopic, 1, false, payload)
}

// Poll drains inbound command messages.
func (r *RealRelay) Poll() []Message {
	return r.inbox.drainAll()
}

// IsConnected reports whether the broker connection is up.
func (r *RealRelay) IsConnected() bool {
	return r.connected.Load() && r.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (r *RealRelay) Close() error {
	r.client.Disconnect(1000) // 1 second timeout
	r.connected.Store(false)
	return nil
}
