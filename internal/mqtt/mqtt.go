// Package mqtt connects the timer to the remote relay controller over MQTT,
// with abstraction for testing.
package mqtt

import (
	"context"
	"time"
)

// Default topics used by the relay controller.
const (
	DefaultStateTopic   = "iron_switch"
	DefaultCommandTopic = "iron_cmd"
)

// State payloads published on the state topic.
const (
	PayloadOn  = "On"
	PayloadOff = "Off"
)

// Command is an instruction received on the command topic.
type Command int

const (
	CommandOn Command = iota
	CommandOff
)

func (c Command) String() string {
	if c == CommandOn {
		return "ON"
	}
	return "OFF"
}

// ParseCommand interprets a command payload. Only the first byte matters:
// '1' is on, anything else is off. Empty payloads are ignored.
func ParseCommand(payload []byte) (Command, bool) {
	if len(payload) == 0 {
		return 0, false
	}
	if payload[0] == '1' {
		return CommandOn, true
	}
	return CommandOff, true
}

// Message is an inbound message waiting to be polled.
type Message struct {
	Topic   string
	Payload []byte
}

// Ack reports completion of an outbound publish.
type Ack interface {
	// Done is closed once the broker has acknowledged, or the publish failed.
	Done() <-chan struct{}
	// Error returns the publish error, valid after Done is closed.
	Error() error
}

// Relay is the pub/sub link to the remote relay controller.
type Relay interface {
	// EnsureConnected returns immediately when connected. Otherwise it
	// retries with a fixed delay until connected or ctx ends. Each
	// (re)connect publishes "On" and resubscribes to the command topic.
	EnsureConnected(ctx context.Context) error

	// PublishState sends a state payload and returns its delivery ack.
	PublishState(payload string) Ack

	// Poll returns the messages received since the previous call.
	Poll() []Message

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Config configures a RealRelay.
type Config struct {
	Broker         string
	ClientID       string // empty = random "iron-timer-xxxx"
	Username       string
	Password       string
	StateTopic     string
	CommandTopic   string
	RetryInterval  time.Duration
	ConnectTimeout time.Duration
}

// DefaultConfig returns the stock broker settings.
func DefaultConfig() Config {
	return Config{
		Broker:         "tcp://192.168.0.16:1883",
		StateTopic:     DefaultStateTopic,
		CommandTopic:   DefaultCommandTopic,
		RetryInterval:  5 * time.Second,
		ConnectTimeout: 10 * time.Second,
	}
}
