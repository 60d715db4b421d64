package myqueue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeQueueName(t *testing.T) {
	assert.Equal(t, "projects/p/locations/europe-west1/queues/default", composeQueueName("p", "europe-west1", ""))
	assert.Equal(t, "projects/p/locations/europe-west1/queues/events", composeQueueName("p", "europe-west1", "events"))
}

func TestFakeTaskQueue(t *testing.T) {
	q := NewFakeTaskQueue()

	err := q.Enqueue(context.Background(), Task{UID: "1", WebhookURLPath: "/pubsub/checkout/1"})
	assert.NoError(t, err)
	err = q.Enqueue(context.Background(), Task{UID: "1", WebhookURLPath: "/pubsub/checkout/1"})
	assert.NoError(t, err)

	assert.Equal(t, []Task{{UID: "1", WebhookURLPath: "/pubsub/checkout/1"}}, q.Tasks())
}
