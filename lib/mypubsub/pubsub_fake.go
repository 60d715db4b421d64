package mypubsub

import (
	"context"
	"maps"
	"os"
	"sync"
)

type Message struct {
	Topic string
	Data  string
}

// FakePubSub remembers what was published
type FakePubSub struct {
	sync.Mutex
	topics        map[string]bool
	subscriptions map[string]string
	published     []Message
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newFakePubSub
	}
}

func newFakePubSub(c context.Context) (PubSub, func(), error) {
	return NewFakePubSub(), func() {}, nil
}

func NewFakePubSub() *FakePubSub {
	return &FakePubSub{
		topics:        map[string]bool{},
		subscriptions: map[string]string{},
	}
}

func (ps *FakePubSub) CreateTopic(c context.Context, topic string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.topics[topic] = true

	return nil
}

func (ps *FakePubSub) Publish(c context.Context, topic string, data string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.published = append(ps.published, Message{Topic: topic, Data: data})

	return nil
}

func (ps *FakePubSub) Subscribe(c context.Context, topic string, subscriptionName string, urlToPostTo string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.topics[topic] = true
	ps.subscriptions[subscriptionName] = urlToPostTo

	return nil
}

// Subscriptions returns the push-url per subscription name
func (ps *FakePubSub) Subscriptions() map[string]string {
	ps.Lock()
	defer ps.Unlock()

	return maps.Clone(ps.subscriptions)
}

func (ps *FakePubSub) Published() []Message {
	ps.Lock()
	defer ps.Unlock()

	return append([]Message{}, ps.published...)
}
