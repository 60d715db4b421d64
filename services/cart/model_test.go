package cart

import (
	"fmt"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
)

var (
	book  = Product{ID: 11, Name: "Thai cookbook", Price: 450.50}
	event = Product{ID: 22, Name: "Reading workshop", Price: 200}
)

func TestCart(t *testing.T) {
	t.Run("New cart", func(t *testing.T) {
		cart := NewCart("")
		assert.Equal(t, "THB", cart.Currency)
		assert.Empty(t, cart.Items)
		assert.Equal(t, 0.0, cart.Total)
		assert.True(t, cart.IsEmpty())
	})

	t.Run("Add item twice merges", func(t *testing.T) {
		cart := NewCart("THB")

		cart.AddItem("item-1", book, 1, nil)
		cart.AddItem("item-2", book, 2, map[string]string{})

		assert.Len(t, cart.Items, 1)
		assert.Equal(t, "item-1", cart.Items[0].ID)
		assert.Equal(t, 3, cart.Items[0].Quantity)
		assert.InDelta(t, 1351.50, cart.Total, 0.0001)
	})

	t.Run("Add item with different metadata appends", func(t *testing.T) {
		cart := NewCart("THB")

		cart.AddItem("item-1", event, 1, map[string]string{"date": "2026-11-01"})
		cart.AddItem("item-2", event, 1, map[string]string{"date": "2026-11-08"})
		cart.AddItem("item-3", event, 1, map[string]string{"date": "2026-11-01"})

		assert.Len(t, cart.Items, 2)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.Equal(t, 1, cart.Items[1].Quantity)
		assert.Equal(t, 600.0, cart.Total)
	})

	t.Run("Metadata is copied", func(t *testing.T) {
		cart := NewCart("THB")
		metadata := map[string]string{"date": "2026-11-01"}

		cart.AddItem("item-1", event, 1, metadata)
		metadata["date"] = "changed"

		assert.Equal(t, "2026-11-01", cart.Items[0].Metadata["date"])
	})

	t.Run("Non positive quantity is not added", func(t *testing.T) {
		cart := NewCart("THB")

		cart.AddItem("item-1", book, 0, nil)

		assert.True(t, cart.IsEmpty())
	})

	t.Run("Update quantity", func(t *testing.T) {
		cart := NewCart("THB")
		cart.AddItem("item-1", book, 1, nil)

		cart.UpdateQuantity("item-1", 4)

		assert.Equal(t, 4, cart.Items[0].Quantity)
		assert.InDelta(t, 1802.0, cart.Total, 0.0001)
	})

	t.Run("Update quantity to zero removes", func(t *testing.T) {
		cart := NewCart("THB")
		cart.AddItem("item-1", book, 1, nil)
		cart.AddItem("item-2", event, 1, nil)

		cart.UpdateQuantity("item-1", 0)
		cart.UpdateQuantity("item-2", -3)

		assert.True(t, cart.IsEmpty())
		assert.Equal(t, 0.0, cart.Total)
	})

	t.Run("Remove unknown item is no-op", func(t *testing.T) {
		cart := NewCart("THB")
		cart.AddItem("item-1", book, 1, nil)

		cart.RemoveItem("unknown")

		assert.Len(t, cart.Items, 1)
	})

	t.Run("Clear keeps currency", func(t *testing.T) {
		cart := NewCart("EUR")
		cart.AddItem("item-1", book, 1, nil)

		cart.Clear()

		assert.Equal(t, NewCart("EUR"), cart)
	})
}

func TestCartTotalInvariant(t *testing.T) {
	faker := gofakeit.New(42)

	for run := 0; run < 50; run++ {
		t.Run(fmt.Sprintf("Random operations %d", run), func(t *testing.T) {
			cart := NewCart("THB")
			products := []Product{
				{ID: 1, Name: faker.Word(), Price: faker.Float64Range(0, 2000)},
				{ID: 2, Name: faker.Word(), Price: faker.Float64Range(0, 2000)},
				{ID: 3, Name: faker.Word(), Price: faker.Float64Range(0, 2000)},
			}

			for op := 0; op < 30; op++ {
				switch faker.IntRange(0, 3) {
				case 0:
					metadata := map[string]string{}
					if faker.Bool() {
						metadata["slot"] = fmt.Sprintf("%d", faker.IntRange(1, 2))
					}
					cart.AddItem(faker.UUID(), products[faker.IntRange(0, 2)], faker.IntRange(1, 5), metadata)
				case 1:
					if !cart.IsEmpty() {
						cart.RemoveItem(cart.Items[faker.IntRange(0, len(cart.Items)-1)].ID)
					}
				case 2:
					if !cart.IsEmpty() {
						cart.UpdateQuantity(cart.Items[faker.IntRange(0, len(cart.Items)-1)].ID, faker.IntRange(-1, 6))
					}
				case 3:
					if faker.IntRange(0, 9) == 0 {
						cart.Clear()
					}
				}

				expected := 0.0
				for _, item := range cart.Items {
					assert.GreaterOrEqual(t, item.Quantity, 1)
					expected += item.Price * float64(item.Quantity)
				}
				assert.InDelta(t, expected, cart.Total, 0.001)
			}
		})
	}
}
