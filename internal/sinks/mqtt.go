package sinks

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/san-kum/polarctl/internal/logging"
	"github.com/san-kum/polarctl/internal/motion"
)

const (
	DefaultMQTTTopic   = "polarctl/cmd"
	DefaultMQTTTimeout = 2 * time.Second
)

// tokenPublisher is the part of mqtt.Client the sink needs.
type tokenPublisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type MQTTOptions struct {
	Broker    string
	ClientID  string
	Topic     string
	QoS       byte
	KeepAlive time.Duration
	Timeout   time.Duration
}

type mqttPayload struct {
	Seq     uint64  `json:"seq"`
	TS      int64   `json:"ts"`
	Angular float64 `json:"angular"`
	Linear  float64 `json:"linear"`
}

// MQTT publishes commands as JSON to a broker topic.
type MQTT struct {
	client  tokenPublisher
	topic   string
	qos     byte
	timeout time.Duration
	seq     uint64
	now     func() time.Time
	log     *zap.Logger
}

func NewMQTT(client tokenPublisher, opts MQTTOptions, log *zap.Logger) *MQTT {
	topic := opts.Topic
	if topic == "" {
		topic = DefaultMQTTTopic
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultMQTTTimeout
	}
	return &MQTT{
		client:  client,
		topic:   topic,
		qos:     opts.QoS,
		timeout: timeout,
		now:     time.Now,
		log:     logging.OrNop(log).With(zap.String("topic", topic)),
	}
}

func (m *MQTT) Publish(cmd motion.Command) {
	m.seq++
	data, err := json.Marshal(mqttPayload{
		Seq:     m.seq,
		TS:      m.now().UnixMilli(),
		Angular: cmd.Angular,
		Linear:  cmd.Linear,
	})
	if err != nil {
		m.log.Warn("encode command", zap.Uint64("seq", m.seq), zap.Error(err))
		return
	}

	token := m.client.Publish(m.topic, m.qos, false, data)
	if !token.WaitTimeout(m.timeout) {
		m.log.Warn("publish timed out", zap.Uint64("seq", m.seq), zap.Duration("timeout", m.timeout))
		return
	}
	if err := token.Error(); err != nil {
		m.log.Warn("publish failed", zap.Uint64("seq", m.seq), zap.Error(err))
	}
}

// DialMQTT connects to the broker with auto-reconnect and an offline will
// on <topic>/status.
func DialMQTT(opts MQTTOptions) (mqtt.Client, error) {
	if opts.Broker == "" {
		return nil, fmt.Errorf("mqtt: broker address required")
	}
	keepAlive := opts.KeepAlive
	if keepAlive <= 0 {
		keepAlive = 30 * time.Second
	}
	topic := opts.Topic
	if topic == "" {
		topic = DefaultMQTTTopic
	}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetKeepAlive(keepAlive).
		SetAutoReconnect(true).
		SetConnectRetry(true)
	clientOpts.SetWill(topic+"/status", "offline", 1, true)

	client := mqtt.NewClient(clientOpts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt: connect to %s timed out", opts.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect to %s: %w", opts.Broker, err)
	}
	return client, nil
}
