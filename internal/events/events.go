package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/nerrad567/staffgate/internal/infrastructure/mqtt"
)

// DefaultBufferSize is the publish queue length.
const DefaultBufferSize = 128

// AccountRegistered is published after a successful registration.
type AccountRegistered struct {
	AccountID string    `json:"account_id"`
	Username  string    `json:"username"`
	At        time.Time `json:"at"`
}

// ProfileSaved is published after a profile create or update.
type ProfileSaved struct {
	AccountID     string    `json:"account_id"`
	EmployeeID    string    `json:"employee_id"`
	DepartmentID  int64     `json:"department_id"`
	DesignationID int64     `json:"designation_id"`
	At            time.Time `json:"at"`
}

// Publisher emits domain events.
type Publisher interface {
	AccountRegistered(e AccountRegistered)
	ProfileSaved(e ProfileSaved)
}

// Nop discards every event.
type Nop struct{}

func (Nop) AccountRegistered(AccountRegistered) {}
func (Nop) ProfileSaved(ProfileSaved)           {}

// EventClient is satisfied by *mqtt.Client.
type EventClient interface {
	PublishEvent(topic string, payload []byte) error
	Topics() mqtt.Topics
}

type message struct {
	topic   string
	payload any
}

// MQTTPublisher queues events and publishes them from one goroutine.
type MQTTPublisher struct {
	client EventClient
	logger *slog.Logger
	ch     chan message

	wg       sync.WaitGroup
	stopOnce sync.Once
	cancel   context.CancelFunc
}

// NewMQTTPublisher creates a publisher. Call Start before use.
func NewMQTTPublisher(client EventClient, logger *slog.Logger, buffer int) *MQTTPublisher {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MQTTPublisher{client: client, logger: logger, ch: make(chan message, buffer)}
}

// Start launches the publish loop.
func (p *MQTTPublisher) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.run(ctx)
	}()
}

// Stop publishes what is queued and waits for the loop to exit.
func (p *MQTTPublisher) Stop() {
	p.stopOnce.Do(func() {
		if p.cancel != nil {
			p.cancel()
		}
		p.wg.Wait()
	})
}

// AccountRegistered implements Publisher.
func (p *MQTTPublisher) AccountRegistered(e AccountRegistered) {
	p.enqueue(p.client.Topics().AccountRegistered(), e)
}

// ProfileSaved implements Publisher.
func (p *MQTTPublisher) ProfileSaved(e ProfileSaved) {
	p.enqueue(p.client.Topics().ProfileSaved(), e)
}

func (p *MQTTPublisher) enqueue(topic string, payload any) {
	select {
	case p.ch <- message{topic: topic, payload: payload}:
	default:
		p.logger.Warn("event queue full, dropping event", "topic", topic)
	}
}

func (p *MQTTPublisher) run(ctx context.Context) {
	for {
		select {
		case m := <-p.ch:
			p.publish(m)
		case <-ctx.Done():
			for {
				select {
				case m := <-p.ch:
					p.publish(m)
				default:
					return
				}
			}
		}
	}
}

func (p *MQTTPublisher) publish(m message) {
	b, err := json.Marshal(m.payload)
	if err != nil {
		p.logger.Error("encoding event", "topic", m.topic, "error", err)
		return
	}
	if err := p.client.PublishEvent(m.topic, b); err != nil {
		p.logger.Warn("publishing event", "topic", m.topic, "error", err)
	}
}
