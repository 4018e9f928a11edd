package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/mealplan/core/events"
	coremon "github.com/kilianp07/mealplan/core/monitoring"
	"github.com/kilianp07/mealplan/infra/logger"
	"github.com/kilianp07/mealplan/internal/eventbus"
)

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Notifier publishes plan events to <prefix>/<plan_id>/<action>.
type Notifier struct {
	cli        pahoClient
	prefix     string
	qos        byte
	retain     bool
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewNotifier connects to the broker.
func NewNotifier(cfg Config) (*Notifier, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_notifier")
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Notifier{
		cli:        c,
		prefix:     cfg.TopicPrefix,
		qos:        cfg.QoS,
		retain:     cfg.Retain,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		log:        log,
	}, nil
}

// Topic returns the topic an event is published on.
func (n *Notifier) Topic(ev events.PlanEvent) string {
	return n.prefix + "/" + ev.Topic()
}

// Notify publishes ev as JSON, retrying with exponential backoff. The last
// error is reported to the monitor.
func (n *Notifier) Notify(ev events.PlanEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	topic := n.Topic(ev)
	var publishErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		token := n.cli.Publish(topic, n.qos, n.retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			n.log.Debugf("published %s", topic)
			return nil
		}
		n.log.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < n.maxRetries {
			time.Sleep(n.backoff * time.Duration(1<<attempt))
		}
	}
	err = fmt.Errorf("publish %s: %w", topic, publishErr)
	coremon.CaptureException(err, map[string]string{"module": "mqtt", "plan_id": ev.PlanID, "action": string(ev.Action)})
	return err
}

// Run forwards events received on sub, a subscription on bus, until ctx is
// canceled or the bus is closed.
func (n *Notifier) Run(ctx context.Context, sub <-chan events.PlanEvent, bus *eventbus.Bus[events.PlanEvent]) {
	defer bus.Unsubscribe(sub)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub:
			if !ok {
				return
			}
			_ = n.Notify(ev)
		}
	}
}

// Disconnect gracefully closes the MQTT connection.
func (n *Notifier) Disconnect() {
	if n.cli != nil && n.cli.IsConnected() {
		n.cli.Disconnect(250)
	}
}
