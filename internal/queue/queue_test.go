package queue

import (
	"context"
	"testing"
	"time"
)

func TestSerializeRoundTrip(t *testing.T) {
	msg := Message{Type: "scan", Body: []byte(`{"log_id":"x"}`)}
	got, err := deserialize(serialize(msg))
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got.Type != msg.Type || string(got.Body) != string(msg.Body) {
		t.Errorf("round trip = %+v", got)
	}
}

func TestDeserializeNoSeparator(t *testing.T) {
	got, err := deserialize("rawpayload")
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got.Type != "" || string(got.Body) != "rawpayload" {
		t.Errorf("got %+v", got)
	}
}

func TestInMemoryPublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	if err := q.Publish(ctx, Message{Type: "scan", Body: []byte("a")}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	select {
	case msg := <-messages:
		if msg.Type != "scan" || string(msg.Body) != "a" {
			t.Errorf("got %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestInMemoryPublishCancelled(t *testing.T) {
	q := NewInMemory(1)
	ctx, cancel := context.WithCancel(context.Background())
	if err := q.Publish(ctx, Message{Type: "scan"}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	cancel()
	// Queue is full and the context is done; Publish must not block.
	if err := q.Publish(ctx, Message{Type: "scan"}); err == nil {
		t.Fatal("publish on cancelled context should fail")
	}
}
