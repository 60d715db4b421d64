package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcGrol/libraryshop/lib/mystore"
)

var customer = CustomerInfo{
	FirstName: "Somchai",
	LastName:  "Jaidee",
	Email:     "somchai@example.com",
	Phone:     "+66812345678",
	BillingAddress: &Address{
		Address1: "1 Library Road",
		City:     "Bangkok",
		Postcode: "10200",
		Country:  "TH",
	},
}

func TestStoreRepository(t *testing.T) {
	store, _, _ := mystore.NewInMemoryStore[Snapshot](context.Background())

	RepositoryContract{
		repository: NewStoreRepository(store, "THB"),
		corrupt: func(key string) {
			_ = store.Put(context.Background(), key, Snapshot{UID: key, Payload: "{not json"})
		},
	}.Test(t)
}

func TestRedisRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	RepositoryContract{
		repository: NewRedisRepository(client, "THB"),
		corrupt: func(key string) {
			require.NoError(t, mr.Set(key, "{not json"))
		},
	}.Test(t)

	t.Run("Snapshots expire", func(t *testing.T) {
		repo := NewRedisRepository(client, "THB")
		c := context.Background()
		require.NoError(t, repo.Save(c, "cart-ttl", cartWithBook()))

		mr.FastForward(snapshotTTL + 1)

		loaded, err := repo.Load(c, "cart-ttl")
		assert.NoError(t, err)
		assert.True(t, loaded.IsEmpty())
	})

	t.Run("Update retries when another writer got in between", func(t *testing.T) {
		repo := NewRedisRepository(client, "THB")
		c := context.Background()
		require.NoError(t, repo.Save(c, "cart-race", cartWithBook()))

		attempts := 0
		updated, err := repo.Update(c, "cart-race", func(cart *Cart) error {
			attempts++
			if attempts == 1 {
				// a concurrent writer changes the cart after it was read
				other := cartWithBook()
				other.AddItem("item-2", event, 1, nil)
				require.NoError(t, repo.Save(c, "cart-race", other))
			}
			cart.AddItem("item-3", Product{ID: 99, Name: "Atlas", Price: 10}, 1, nil)
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Len(t, updated.Items, 3)
		loaded, err := repo.Load(c, "cart-race")
		assert.NoError(t, err)
		assert.Equal(t, updated, loaded)
	})

	t.Run("Redis down", func(t *testing.T) {
		repo := NewRedisRepository(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "THB")

		_, err := repo.Load(context.Background(), "cart-1")

		assert.Error(t, err)
	})
}

func cartWithBook() Cart {
	cart := NewCart("THB")
	cart.AddItem("item-1", book, 2, map[string]string{"format": "hardcover"})
	return cart
}

type RepositoryContract struct {
	repository Repository
	corrupt    func(key string)
}

func (rc RepositoryContract) Test(t *testing.T) {
	c := context.Background()

	t.Run("Absent cart loads as empty", func(t *testing.T) {
		loaded, err := rc.repository.Load(c, "unknown")
		assert.NoError(t, err)
		assert.Equal(t, NewCart("THB"), loaded)
	})

	t.Run("Save and load cart", func(t *testing.T) {
		require.NoError(t, rc.repository.Save(c, "cart-1", cartWithBook()))

		loaded, err := rc.repository.Load(c, "cart-1")
		assert.NoError(t, err)
		assert.Equal(t, cartWithBook(), loaded)
	})

	t.Run("Save and load customer", func(t *testing.T) {
		require.NoError(t, rc.repository.SaveCustomer(c, "cart-1", customer))

		loaded, err := rc.repository.LoadCustomer(c, "cart-1")
		assert.NoError(t, err)
		assert.Equal(t, customer, loaded)
	})

	t.Run("Unreadable cart loads as empty", func(t *testing.T) {
		rc.corrupt(cartKeyPrefix + "cart-2")

		loaded, err := rc.repository.Load(c, "cart-2")
		assert.NoError(t, err)
		assert.Equal(t, NewCart("THB"), loaded)
	})

	t.Run("Unreadable customer loads as empty", func(t *testing.T) {
		rc.corrupt(customerKeyPrefix + "cart-2")

		loaded, err := rc.repository.LoadCustomer(c, "cart-2")
		assert.NoError(t, err)
		assert.Equal(t, CustomerInfo{}, loaded)
	})

	t.Run("Update applies change to stored cart", func(t *testing.T) {
		require.NoError(t, rc.repository.Save(c, "cart-3", cartWithBook()))

		updated, err := rc.repository.Update(c, "cart-3", func(cart *Cart) error {
			cart.UpdateQuantity("item-1", 5)
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 5, updated.Items[0].Quantity)
		loaded, err := rc.repository.Load(c, "cart-3")
		assert.NoError(t, err)
		assert.Equal(t, updated, loaded)
	})

	t.Run("Rejected update leaves cart untouched", func(t *testing.T) {
		_, err := rc.repository.Update(c, "cart-3", func(cart *Cart) error {
			cart.Clear()
			return fmt.Errorf("not allowed")
		})

		assert.EqualError(t, err, "not allowed")
		loaded, err := rc.repository.Load(c, "cart-3")
		assert.NoError(t, err)
		assert.Equal(t, 5, loaded.Items[0].Quantity)
	})

	t.Run("Update of absent cart starts empty", func(t *testing.T) {
		updated, err := rc.repository.Update(c, "cart-4", func(cart *Cart) error {
			cart.AddItem("item-9", book, 1, nil)
			return nil
		})

		assert.NoError(t, err)
		assert.Len(t, updated.Items, 1)
		assert.Equal(t, "THB", updated.Currency)
	})

	t.Run("Clear removes cart and customer", func(t *testing.T) {
		require.NoError(t, rc.repository.Clear(c, "cart-1"))

		loadedCart, err := rc.repository.Load(c, "cart-1")
		assert.NoError(t, err)
		assert.True(t, loadedCart.IsEmpty())

		loadedCustomer, err := rc.repository.LoadCustomer(c, "cart-1")
		assert.NoError(t, err)
		assert.Equal(t, CustomerInfo{}, loadedCustomer)
	})
}
