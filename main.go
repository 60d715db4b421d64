package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/MarcGrol/libraryshop/lib/myconfig"
	"github.com/MarcGrol/libraryshop/lib/myevents"
	"github.com/MarcGrol/libraryshop/lib/myhttp"
	"github.com/MarcGrol/libraryshop/lib/myhttpclient"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/mypublisher"
	"github.com/MarcGrol/libraryshop/lib/mypubsub"
	"github.com/MarcGrol/libraryshop/lib/myqueue"
	"github.com/MarcGrol/libraryshop/lib/mystore"
	"github.com/MarcGrol/libraryshop/lib/mytime"
	"github.com/MarcGrol/libraryshop/lib/myuuid"
	"github.com/MarcGrol/libraryshop/services/booking"
	"github.com/MarcGrol/libraryshop/services/cart"
	"github.com/MarcGrol/libraryshop/services/checkout"
	"github.com/MarcGrol/libraryshop/services/checkoutevents"
	"github.com/MarcGrol/libraryshop/services/omise"
	"github.com/MarcGrol/libraryshop/services/orderapi"
	"github.com/MarcGrol/libraryshop/services/warmup"
	"github.com/MarcGrol/libraryshop/services/webhook"
)

func main() {
	c := context.Background()

	cfg, err := myconfig.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %s\n%s", err, myconfig.Usage())
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = fmt.Sprintf("http://localhost:%s", cfg.Port)
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, myhttp.AccessLog(mylog.New("access")))

	nower := mytime.RealNower{}

	publisher, pubsub, cleanup := createPublisher(c, router)
	defer cleanup()

	carts, readinessChecks, cleanup := createCartRepository(c, cfg)
	defer cleanup()

	orderSystem := createOrderSystem(cfg)

	gateway := omise.NewClient(cfg.Omise.URL, myhttpclient.New(myhttpclient.Options{
		Name:     "omise",
		Username: cfg.Omise.SecretKey,
		Timeout:  cfg.Omise.ChargeTimeout,
	}))

	{
		cartService := cart.NewWebService(myuuid.RealUUIDer{}, carts)
		cartService.RegisterEndpoints(c, router)
	}

	{
		attemptStore, attemptStoreCleanup, err := mystore.New[checkout.CheckoutAttempt](c)
		if err != nil {
			log.Fatalf("Error creating checkout-attempt store: %s", err)
		}
		defer attemptStoreCleanup()

		checkoutService := checkout.NewWebService(checkout.Settings{
			BaseURL:             cfg.BaseURL,
			MinimumChargeAmount: cfg.Omise.MinimumChargeAmount,
			ChargeTimeout:       cfg.Omise.ChargeTimeout,
		}, nower, orderSystem, gateway, carts, attemptStore, publisher, pubsub)
		checkoutService.RegisterEndpoints(c, router)

		err = checkoutService.Subscribe(c)
		if err != nil {
			log.Fatalf("Error subscribing checkout service: %s", err)
		}
	}

	{
		webhookService := webhook.NewWebService(cfg.Omise.WebhookSecret, nower, orderSystem, publisher)
		webhookService.RegisterEndpoints(c, router)
	}

	{
		bookingService := booking.NewWebService(cfg.Currency, orderSystem)
		bookingService.RegisterEndpoints(c, router)
	}

	{
		warmupService := warmup.NewService(readinessChecks)
		warmupService.RegisterEndpoints(c, router)
	}

	startWebServerBlocking(cfg.Port, otelhttp.NewHandler(router, "libraryshop"))
}

func createPublisher(c context.Context, router *mux.Router) (mypublisher.Publisher, mypubsub.PubSub, func()) {
	outbox, outboxCleanup, err := mystore.New[myevents.EventEnvelope](c)
	if err != nil {
		log.Fatalf("Error creating outbox store: %s", err)
	}

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		log.Fatalf("Error creating task queue: %s", err)
	}

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		log.Fatalf("Error creating pubsub: %s", err)
	}

	publisher := mypublisher.New(c, outbox, pubsub, queue, mytime.RealNower{})
	publisher.RegisterEndpoints(c, router)

	err = publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		log.Fatalf("Error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	return publisher, pubsub, func() {
		pubsubCleanup()
		queueCleanup()
		outboxCleanup()
	}
}

func createCartRepository(c context.Context, cfg myconfig.Config) (cart.Repository, map[string]warmup.Check, func()) {
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		checks := map[string]warmup.Check{
			"redis": func(c context.Context) error {
				return client.Ping(c).Err()
			},
		}
		return cart.NewRedisRepository(client, cfg.Currency), checks, func() { client.Close() }
	}

	snapshotStore, cleanup, err := mystore.New[cart.Snapshot](c)
	if err != nil {
		log.Fatalf("Error creating cart store: %s", err)
	}
	return cart.NewStoreRepository(snapshotStore, cfg.Currency), map[string]warmup.Check{}, cleanup
}

func createOrderSystem(cfg myconfig.Config) orderapi.OrderSystem {
	if cfg.OrderAPI.Fake {
		log.Printf("Using in-memory order system")
		return orderapi.NewFakeOrderSystem()
	}

	return orderapi.NewClient(cfg.OrderAPI.URL, myhttpclient.New(myhttpclient.Options{
		Name:     "orders",
		Username: cfg.OrderAPI.ConsumerKey,
		Password: cfg.OrderAPI.ConsumerSecret,
		Timeout:  cfg.OrderAPI.Timeout,
	}))
}

func startWebServerBlocking(port string, handler http.Handler) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), handler)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
