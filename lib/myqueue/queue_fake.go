package myqueue

import (
	"context"
	"os"
	"sync"
)

// FakeTaskQueue keeps tasks in memory; nothing is ever delivered
type FakeTaskQueue struct {
	sync.Mutex
	tasks []Task
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newFakeQueue
	}
}

func newFakeQueue(c context.Context) (TaskQueuer, func(), error) {
	return NewFakeTaskQueue(), func() {}, nil
}

func NewFakeTaskQueue() *FakeTaskQueue {
	return &FakeTaskQueue{}
}

func (q *FakeTaskQueue) Enqueue(c context.Context, task Task) error {
	q.Lock()
	defer q.Unlock()

	// same semantics as a named cloud task: a second task with the same uid is ignored
	for _, existing := range q.tasks {
		if existing.UID == task.UID {
			return nil
		}
	}

	q.tasks = append(q.tasks, task)

	return nil
}

func (q *FakeTaskQueue) Tasks() []Task {
	q.Lock()
	defer q.Unlock()

	return append([]Task{}, q.tasks...)
}
