package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/libraryshop/lib/mycontext"
	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/myevents"
	"github.com/MarcGrol/libraryshop/lib/myhttp"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/mypubsub"
	"github.com/MarcGrol/libraryshop/lib/myqueue"
	"github.com/MarcGrol/libraryshop/lib/mystore"
	"github.com/MarcGrol/libraryshop/lib/mytime"
)

// transactionalPublisher stores each event in an outbox and lets a task deliver it to pubsub
type transactionalPublisher struct {
	logger    mylog.Logger
	outbox    mystore.Store[myevents.EventEnvelope]
	queue     myqueue.TaskQueuer
	enveloper enveloper
	pubsub    mypubsub.PubSub
}

func New(c context.Context, outbox mystore.Store[myevents.EventEnvelope], pubsub mypubsub.PubSub, queue myqueue.TaskQueuer, nower mytime.Nower) *transactionalPublisher {
	return &transactionalPublisher{
		logger:    mylog.New("publisher"),
		outbox:    outbox,
		queue:     queue,
		enveloper: newEnveloper(nower),
		pubsub:    pubsub,
	}
}

func (p *transactionalPublisher) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/pubsub/{topic}/{uid}", p.processTriggerPage()).Methods("PUT")
}

func (p *transactionalPublisher) CreateTopic(c context.Context, topicName string) error {
	return p.pubsub.CreateTopic(c, topicName)
}

func (p *transactionalPublisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topic, event)
	if err != nil {
		return fmt.Errorf("error creating envelope: %s", err)
	}

	stored, exists, err := p.outbox.Get(c, envelope.UID)
	if err != nil {
		return fmt.Errorf("error fetching envelope: %s", err)
	}
	if exists && stored.Published {
		p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Event %s already published", envelope)
		return nil
	}

	if !exists {
		err = p.outbox.Put(c, envelope.UID, envelope)
		if err != nil {
			return fmt.Errorf("error storing envelope: %s", err)
		}
	}

	// an envelope that is stored but not yet published is enqueued again: the queue ignores duplicate task uids

	err = p.queue.Enqueue(c, myqueue.Task{
		UID:            envelope.UID,
		WebhookURLPath: fmt.Sprintf("/pubsub/%s/%s", envelope.Topic, envelope.UID),
		Payload:        []byte{},
	})
	if err != nil {
		return fmt.Errorf("error queueing publication-trigger %s: %s", envelope.UID, err)
	}

	p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Enqueued event %s", envelope)

	return nil
}

func (p *transactionalPublisher) processTriggerPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(p.logger)

		topicName := mux.Vars(r)["topic"]
		eventUID := mux.Vars(r)["uid"]

		err := p.processTrigger(c, topicName, eventUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed trigger",
		})
	}
}

func (p *transactionalPublisher) processTrigger(c context.Context, topicName string, uid string) error {
	return p.outbox.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		envelope, found, err := p.outbox.Get(c, uid)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching envelope %s: %s", uid, err))
		}
		if !found || envelope.Topic != topicName {
			return myerrors.NewNotFoundError(fmt.Errorf("envelope %s on topic %s not found", uid, topicName))
		}
		if envelope.Published {
			p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Event %s already published", envelope)
			return nil
		}

		jsonBytes, err := json.Marshal(envelope)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error serializing event: %s", err))
		}

		err = p.pubsub.Publish(c, envelope.Topic, string(jsonBytes))
		if err != nil {
			return myerrors.NewUnavailableError(fmt.Errorf("error publishing event: %s", err))
		}

		envelope.Published = true
		err = p.outbox.Put(c, envelope.UID, envelope)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing envelope: %s", err))
		}

		p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Published event %s", envelope)

		return nil
	})
}
