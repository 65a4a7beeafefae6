package domain

import (
	"context"
	"log/slog"
	"sync"
)

type Topic string

// BroadcastTopic は接続中の全ページが購読するトピックです。
const BroadcastTopic Topic = "display"

func SessionTopic(id SessionID) Topic {
	return Topic("session:" + id.String())
}

type Message struct {
	SessionID SessionID
	Data      []byte
}

//go:generate go tool mockgen -destination=./mocks/pubsub_mock.go -package=mocks . PubSub

// PubSub はプロセス内のトピック配送です。
type PubSub interface {
	Subscribe(topic Topic) <-chan Message
	Unsubscribe(topic Topic, ch <-chan Message)
	// Publish は購読者に配送し、配送できた数を返します。満杯の購読者には配送しません。
	Publish(ctx context.Context, topic Topic, msg Message) int
}

type simplePubSub struct {
	mu     sync.RWMutex
	subs   map[Topic]map[<-chan Message]chan Message
	buffer int
}

var _ PubSub = (*simplePubSub)(nil)

func NewSimplePubSub() PubSub {
	return &simplePubSub{
		subs:   make(map[Topic]map[<-chan Message]chan Message),
		buffer: 64,
	}
}

func (p *simplePubSub) Subscribe(topic Topic) <-chan Message {
	ch := make(chan Message, p.buffer)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subs[topic] == nil {
		p.subs[topic] = make(map[<-chan Message]chan Message)
	}
	p.subs[topic][ch] = ch
	return ch
}

func (p *simplePubSub) Unsubscribe(topic Topic, ch <-chan Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	subs := p.subs[topic]
	if subs == nil {
		return
	}
	if c, ok := subs[ch]; ok {
		delete(subs, ch)
		close(c)
	}
	if len(subs) == 0 {
		delete(p.subs, topic)
	}
}

func (p *simplePubSub) Publish(ctx context.Context, topic Topic, msg Message) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	delivered := 0
	for _, ch := range p.subs[topic] {
		select {
		case ch <- msg:
			delivered++
		default:
			slog.WarnContext(ctx, "pubsub: subscriber full, message dropped", "topic", topic)
		}
	}
	return delivered
}
