package cart

import (
	"maps"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "THB"

type Product struct {
	ID    int64
	Name  string
	Price float64
}

type CartItem struct {
	ID        string            `json:"id"`
	ProductID int64             `json:"product_id" validate:"gt=0"`
	Name      string            `json:"name"`
	Price     float64           `json:"price" validate:"gte=0"`
	Quantity  int               `json:"quantity" validate:"gt=0"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type Cart struct {
	Items    []CartItem `json:"items" validate:"min=1,dive"`
	Total    float64    `json:"total"`
	Currency string     `json:"currency"`
}

type Address struct {
	Address1 string `json:"address_1,omitempty"`
	Address2 string `json:"address_2,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Postcode string `json:"postcode,omitempty"`
	Country  string `json:"country,omitempty"`
}

type CustomerInfo struct {
	FirstName       string   `json:"first_name" validate:"required"`
	LastName        string   `json:"last_name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Phone           string   `json:"phone,omitempty"`
	BillingAddress  *Address `json:"billing_address,omitempty"`
	ShippingAddress *Address `json:"shipping_address,omitempty"`
}

func NewCart(currency string) Cart {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Cart{
		Items:    []CartItem{},
		Total:    0,
		Currency: currency,
	}
}

// AddItem merges into the line with the same product and identical metadata, otherwise appends a line identified by newItemUID
func (c *Cart) AddItem(newItemUID string, product Product, quantity int, metadata map[string]string) {
	if quantity <= 0 {
		return
	}
	for idx, item := range c.Items {
		if item.ProductID == product.ID && maps.Equal(item.Metadata, metadata) {
			c.Items[idx].Quantity += quantity
			c.recalculate()
			return
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:        newItemUID,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Metadata:  maps.Clone(metadata),
	})
	c.recalculate()
}

func (c *Cart) RemoveItem(itemUID string) {
	for idx, item := range c.Items {
		if item.ID == itemUID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			break
		}
	}
	c.recalculate()
}

// UpdateQuantity removes the line when quantity drops to zero or below
func (c *Cart) UpdateQuantity(itemUID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(itemUID)
		return
	}
	for idx, item := range c.Items {
		if item.ID == itemUID {
			c.Items[idx].Quantity = quantity
			break
		}
	}
	c.recalculate()
}

func (c *Cart) Clear() {
	*c = NewCart(c.Currency)
}

func (c Cart) FindItem(itemUID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == itemUID {
			return item, true
		}
	}
	return CartItem{}, false
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) recalculate() {
	c.Total = CalculateTotal(c.Items)
}

func CalculateTotal(items []CartItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.InexactFloat64()
}
