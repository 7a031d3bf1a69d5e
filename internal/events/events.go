// Package events publishes coverage run outcomes to Kafka. Publishing is
// fire-and-forget: a full queue drops the event rather than blocking the
// request path.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/IBM/sarama"

	"github.com/ZikZak134/Geozona/internal/core/observability"
	"github.com/ZikZak134/Geozona/internal/pipeline"
)

type RunEvent struct {
	Label    string    `json:"label"`
	Packing  string    `json:"packing"`
	RadiusKm float64   `json:"radius_km"`
	Outcome  string    `json:"outcome"`
	Points   int       `json:"points"`
	Batches  int       `json:"batches"`
	Elapsed  float64   `json:"elapsed_seconds"`
	TS       time.Time `json:"ts"`
}

type Publisher struct {
	topic   string
	queue   chan RunEvent
	prod    sarama.AsyncProducer
	logger  *slog.Logger
	stopped chan struct{}
}

func NewPublisher(brokers []string, topic string, queueSize int, logger *slog.Logger) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.Return.Errors = true
	cfg.Producer.Return.Successes = false

	prod, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("events: create async producer: %w", err)
	}
	return newPublisher(prod, topic, queueSize, logger), nil
}

func newPublisher(prod sarama.AsyncProducer, topic string, queueSize int, logger *slog.Logger) *Publisher {
	if queueSize <= 0 {
		queueSize = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Publisher{
		topic:   topic,
		queue:   make(chan RunEvent, queueSize),
		prod:    prod,
		logger:  logger,
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(p.stopped)
		for ev := range p.queue {
			b, err := json.Marshal(ev)
			if err != nil {
				p.logger.Error("marshal run event", "err", err)
				continue
			}
			p.prod.Input() <- &sarama.ProducerMessage{
				Topic: p.topic,
				Key:   sarama.StringEncoder(ev.Label),
				Value: sarama.ByteEncoder(b),
			}
			observability.ObserveRunEvent("ok")
		}
	}()

	go func() {
		for err := range p.prod.Errors() {
			if err != nil {
				observability.ObserveRunEvent("error")
				p.logger.Warn("producer error", "err", err.Err)
			}
		}
	}()

	return p
}

// PublishRun implements pipeline.RunSink.
func (p *Publisher) PublishRun(s pipeline.RunSummary) {
	p.Publish(RunEvent{
		Label:    s.Label,
		Packing:  s.Packing,
		RadiusKm: s.RadiusKm,
		Outcome:  s.Outcome,
		Points:   s.Points,
		Batches:  s.Batches,
		Elapsed:  s.Elapsed.Seconds(),
	})
}

func (p *Publisher) Publish(ev RunEvent) {
	if ev.TS.IsZero() {
		ev.TS = time.Now().UTC()
	}
	select {
	case p.queue <- ev:
	default:
		observability.ObserveRunEvent("dropped")
	}
}

func (p *Publisher) Close() error {
	close(p.queue)
	<-p.stopped

	if err := p.prod.Close(); err != nil {
		return fmt.Errorf("events: close producer: %w", err)
	}
	return nil
}
