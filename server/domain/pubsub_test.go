package domain

import (
	"context"
	"testing"
)

func TestSimplePubSub_PublishDelivers(t *testing.T) {
	ps := NewSimplePubSub()
	a := ps.Subscribe(BroadcastTopic)
	b := ps.Subscribe(BroadcastTopic)
	other := ps.Subscribe(SessionTopic("s1"))

	n := ps.Publish(context.Background(), BroadcastTopic, Message{Data: []byte("x")})
	if n != 2 {
		t.Fatalf("delivered = %d, want 2", n)
	}
	for _, ch := range []<-chan Message{a, b} {
		if msg := <-ch; string(msg.Data) != "x" {
			t.Errorf("unexpected message %q", msg.Data)
		}
	}
	select {
	case msg := <-other:
		t.Errorf("unrelated topic received %q", msg.Data)
	default:
	}
}

func TestSimplePubSub_UnsubscribeClosesChannel(t *testing.T) {
	ps := NewSimplePubSub()
	ch := ps.Subscribe(BroadcastTopic)
	ps.Unsubscribe(BroadcastTopic, ch)

	if _, ok := <-ch; ok {
		t.Fatal("channel should be closed")
	}
	if n := ps.Publish(context.Background(), BroadcastTopic, Message{}); n != 0 {
		t.Fatalf("delivered = %d after unsubscribe", n)
	}
	// 二重解除は無視される
	ps.Unsubscribe(BroadcastTopic, ch)
}
