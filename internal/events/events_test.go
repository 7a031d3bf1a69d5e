package events

import (
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
)

func TestPublish_DeliversMarshaledEvent(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Errors = true
	mock := mocks.NewAsyncProducer(t, cfg)
	mock.ExpectInputWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev RunEvent
		return json.Unmarshal(val, &ev)
	})

	p := newPublisher(mock, "coverage-runs", 4, nil)
	p.Publish(RunEvent{
		Label:    "test region",
		Packing:  "hex",
		RadiusKm: 2,
		Outcome:  "ok",
		Points:   120,
		Batches:  1,
	})

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPublish_FullQueueDropsWithoutBlocking(t *testing.T) {
	// no consumer goroutine: a filled queue must not block callers
	p := &Publisher{
		topic:  "coverage-runs",
		queue:  make(chan RunEvent, 1),
		logger: slog.Default(),
	}
	p.queue <- RunEvent{Label: "occupant"}

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Publish(RunEvent{Label: "burst", Outcome: "ok"})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on full queue")
	}
}

func TestPublish_StampsTimestamp(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Errors = true
	mock := mocks.NewAsyncProducer(t, cfg)
	mock.ExpectInputWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev RunEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.TS.IsZero() {
			t.Error("timestamp not stamped")
		}
		return nil
	})

	p := newPublisher(mock, "coverage-runs", 4, nil)
	p.Publish(RunEvent{Label: "ts", Outcome: "ok"})
	_ = p.Close()
}
