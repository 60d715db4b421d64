package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/mystore"
)

const (
	cartKeyPrefix     = "cart:"
	customerKeyPrefix = "customer:"
	snapshotTTL       = 7 * 24 * time.Hour
	maxUpdateAttempts = 10
)

var errConcurrentUpdate = errors.New("snapshot kept changing during update")

// Repository persists the cart and the customer snapshot of a shopping session.
// Absent or unreadable snapshots load as empty defaults.
//
//go:generate mockgen -source=repository.go -package cart -destination repository_mock.go Repository
type Repository interface {
	Load(c context.Context, cartUID string) (Cart, error)
	Save(c context.Context, cartUID string, cart Cart) error
	// Update applies modifier to the stored cart and saves the result atomically.
	// The modifier may run more than once when another writer got in between.
	Update(c context.Context, cartUID string, modifier func(cart *Cart) error) (Cart, error)
	LoadCustomer(c context.Context, cartUID string) (CustomerInfo, error)
	SaveCustomer(c context.Context, cartUID string, customer CustomerInfo) error
	Clear(c context.Context, cartUID string) error
}

type Snapshot struct {
	UID          string
	Payload      string `datastore:",noindex"`
	LastModified time.Time
}

// snapshotter is the raw key-value layer under both repository flavours
type snapshotter interface {
	get(c context.Context, key string) (string, bool, error)
	put(c context.Context, key string, payload string) error
	delete(c context.Context, keys ...string) error
	// update replaces the payload of key with the outcome of mutate without losing concurrent writes
	update(c context.Context, key string, mutate func(payload string, found bool) (string, error)) error
}

type repository struct {
	logger   mylog.Logger
	currency string
	storage  snapshotter
}

func NewStoreRepository(store mystore.Store[Snapshot], currency string) Repository {
	return &repository{
		logger:   mylog.New("cart"),
		currency: currency,
		storage:  &storeSnapshotter{store: store},
	}
}

func NewRedisRepository(client *redis.Client, currency string) Repository {
	return &repository{
		logger:   mylog.New("cart"),
		currency: currency,
		storage:  &redisSnapshotter{client: client},
	}
}

func (r *repository) Load(c context.Context, cartUID string) (Cart, error) {
	key := cartKeyPrefix + cartUID
	payload, found, err := r.storage.get(c, key)
	if err != nil {
		return Cart{}, fmt.Errorf("error loading %s: %w", key, err)
	}
	return r.decodeCart(c, cartUID, payload, found), nil
}

func (r *repository) Save(c context.Context, cartUID string, cart Cart) error {
	return r.save(c, cartKeyPrefix+cartUID, cart)
}

func (r *repository) Update(c context.Context, cartUID string, modifier func(cart *Cart) error) (Cart, error) {
	key := cartKeyPrefix + cartUID
	var updated Cart
	err := r.storage.update(c, key, func(payload string, found bool) (string, error) {
		cart := r.decodeCart(c, cartUID, payload, found)
		err := modifier(&cart)
		if err != nil {
			return "", err
		}
		encoded, err := json.Marshal(cart)
		if err != nil {
			return "", fmt.Errorf("error serializing %s: %w", key, err)
		}
		updated = cart
		return string(encoded), nil
	})
	if err != nil {
		return Cart{}, err
	}
	return updated, nil
}

func (r *repository) decodeCart(c context.Context, cartUID string, payload string, found bool) Cart {
	if !found {
		return NewCart(r.currency)
	}

	cart := NewCart(r.currency)
	err := json.Unmarshal([]byte(payload), &cart)
	if err != nil {
		r.logger.Log(c, cartUID, mylog.SeverityWarn, "Unreadable cart %s is ignored: %s", cartUID, err)
		return NewCart(r.currency)
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	if cart.Currency == "" {
		cart.Currency = r.currency
	}
	cart.recalculate()

	return cart
}

func (r *repository) LoadCustomer(c context.Context, cartUID string) (CustomerInfo, error) {
	customer := CustomerInfo{}
	found, err := r.load(c, cartUID, customerKeyPrefix+cartUID, &customer)
	if err != nil {
		return CustomerInfo{}, err
	}
	if !found {
		return CustomerInfo{}, nil
	}
	return customer, nil
}

func (r *repository) SaveCustomer(c context.Context, cartUID string, customer CustomerInfo) error {
	return r.save(c, customerKeyPrefix+cartUID, customer)
}

func (r *repository) Clear(c context.Context, cartUID string) error {
	err := r.storage.delete(c, cartKeyPrefix+cartUID, customerKeyPrefix+cartUID)
	if err != nil {
		return fmt.Errorf("error clearing cart %s: %w", cartUID, err)
	}
	return nil
}

func (r *repository) load(c context.Context, cartUID string, key string, dest any) (bool, error) {
	payload, found, err := r.storage.get(c, key)
	if err != nil {
		return false, fmt.Errorf("error loading %s: %w", key, err)
	}
	if !found {
		return false, nil
	}

	err = json.Unmarshal([]byte(payload), dest)
	if err != nil {
		r.logger.Log(c, cartUID, mylog.SeverityWarn, "Unreadable snapshot %s is ignored: %s", key, err)
		return false, nil
	}

	return true, nil
}

func (r *repository) save(c context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error serializing %s: %w", key, err)
	}
	err = r.storage.put(c, key, string(payload))
	if err != nil {
		return fmt.Errorf("error saving %s: %w", key, err)
	}
	return nil
}

type storeSnapshotter struct {
	store mystore.Store[Snapshot]
}

func (s *storeSnapshotter) get(c context.Context, key string) (string, bool, error) {
	snapshot, found, err := s.store.Get(c, key)
	if err != nil || !found {
		return "", false, err
	}
	return snapshot.Payload, true, nil
}

func (s *storeSnapshotter) put(c context.Context, key string, payload string) error {
	return s.store.Put(c, key, Snapshot{
		UID:          key,
		Payload:      payload,
		LastModified: time.Now(),
	})
}

func (s *storeSnapshotter) delete(c context.Context, keys ...string) error {
	return s.store.RunInTransaction(c, func(c context.Context) error {
		for _, key := range keys {
			err := s.store.Delete(c, key)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *storeSnapshotter) update(c context.Context, key string, mutate func(payload string, found bool) (string, error)) error {
	return s.store.RunInTransaction(c, func(c context.Context) error {
		payload, found, err := s.get(c, key)
		if err != nil {
			return err
		}
		updated, err := mutate(payload, found)
		if err != nil {
			return err
		}
		return s.put(c, key, updated)
	})
}

type redisSnapshotter struct {
	client *redis.Client
}

func (s *redisSnapshotter) get(c context.Context, key string) (string, bool, error) {
	payload, err := s.client.Get(c, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return payload, true, nil
}

func (s *redisSnapshotter) put(c context.Context, key string, payload string) error {
	return s.client.Set(c, key, payload, snapshotTTL).Err()
}

func (s *redisSnapshotter) delete(c context.Context, keys ...string) error {
	return s.client.Del(c, keys...).Err()
}

// update uses optimistic locking: the write is discarded and retried when key changed after WATCH
func (s *redisSnapshotter) update(c context.Context, key string, mutate func(payload string, found bool) (string, error)) error {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.client.Watch(c, func(tx *redis.Tx) error {
			found := true
			payload, err := tx.Get(c, key).Result()
			if errors.Is(err, redis.Nil) {
				found = false
			} else if err != nil {
				return err
			}

			updated, err := mutate(payload, found)
			if err != nil {
				return err
			}

			_, err = tx.TxPipelined(c, func(pipe redis.Pipeliner) error {
				pipe.Set(c, key, updated, snapshotTTL)
				return nil
			})
			return err
		}, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("error updating %s: %w", key, errConcurrentUpdate)
}
