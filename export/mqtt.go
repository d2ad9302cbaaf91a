package export

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/polaris-bench/benchmark"
	"github.com/achilleasa/polaris-bench/log"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// Time allowed for connecting to the broker and for each publish.
	connectTimeout = 5 * time.Second
	publishTimeout = time.Second

	// Time allowed for in-flight work when disconnecting, in milliseconds.
	disconnectQuiesce = 250

	// Snapshots waiting to be published; further ones are dropped.
	queueSize = 16
)

// The subset of mqtt.Client used for publishing.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// A Publisher forwards benchmark snapshots to an MQTT topic as JSON. Each
// snapshot is published to <topic>/<run id> from the publisher's own
// go-routine so a slow broker never holds up the caller.
type Publisher struct {
	logger log.Logger
	client Client
	topic  string
	qos    byte

	mu     sync.Mutex
	closed bool
	queue  chan benchmark.Snapshot
	done   chan struct{}
}

// Connect to an MQTT broker (e.g. tcp://localhost:1883).
func Dial(broker, topic string) (*Publisher, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(fmt.Sprintf("polaris-bench-%s", uuid.NewString())).
		SetConnectTimeout(connectTimeout).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("export: timed out connecting to %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, errors.Wrapf(err, "export: could not connect to %s", broker)
	}

	return NewPublisher(client, topic, 0), nil
}

// Create a publisher using an already connected client.
func NewPublisher(client Client, topic string, qos byte) *Publisher {
	p := &Publisher{
		logger: log.New("mqtt"),
		client: client,
		topic:  topic,
		qos:    qos,
		queue:  make(chan benchmark.Snapshot, queueSize),
		done:   make(chan struct{}),
	}
	go p.loop()
	return p
}

// Queue a snapshot for publishing. It never blocks: when the queue is full
// the snapshot is dropped. Suitable for use as a benchmark.Controller
// subscriber.
func (p *Publisher) Publish(snap benchmark.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	select {
	case p.queue <- snap:
	default:
		p.logger.Warningf("publish queue full; dropping snapshot #%d", snap.Seq)
	}
}

func (p *Publisher) loop() {
	defer close(p.done)
	for snap := range p.queue {
		if err := p.publish(snap); err != nil {
			p.logger.Warning(err)
		}
	}
}

func (p *Publisher) publish(snap benchmark.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "export: could not encode snapshot")
	}

	topic := p.Topic(snap)
	token := p.client.Publish(topic, p.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("export: timed out publishing to %s", topic)
	}
	if err = token.Error(); err != nil {
		return errors.Wrapf(err, "export: could not publish to %s", topic)
	}
	return nil
}

// Get the topic a snapshot is published to.
func (p *Publisher) Topic(snap benchmark.Snapshot) string {
	if snap.RunID == "" {
		return p.topic
	}
	return p.topic + "/" + snap.RunID
}

// Publish the queued snapshots and disconnect from the broker. Safe to call
// more than once.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	p.client.Disconnect(disconnectQuiesce)
}
