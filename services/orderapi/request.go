package orderapi

import (
	"slices"
	"sort"

	"github.com/MarcGrol/libraryshop/services/cart"
)

const (
	PaymentMethod      = "omise"
	PaymentMethodTitle = "Credit Card (Omise)"
)

// NewOrderRequest creates an unpaid order: one line per cart line, cart metadata as line meta
func NewOrderRequest(shoppingCart cart.Cart, customer cart.CustomerInfo, idempotencyKey string) CreateOrderRequest {
	billing := toAddress(customer, customer.BillingAddress)
	shipping := billing
	if customer.ShippingAddress != nil {
		shipping = toAddress(customer, customer.ShippingAddress)
		shipping.Email = ""
	}

	req := CreateOrderRequest{
		PaymentMethod:      PaymentMethod,
		PaymentMethodTitle: PaymentMethodTitle,
		SetPaid:            false,
		Status:             StatusPending,
		Currency:           shoppingCart.Currency,
		Billing:            billing,
		Shipping:           shipping,
		LineItems:          make([]LineItem, 0, len(shoppingCart.Items)),
	}

	for _, item := range shoppingCart.Items {
		req.LineItems = append(req.LineItems, LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			MetaData:  toMetaData(item.Metadata),
		})
	}

	if idempotencyKey != "" {
		req.MetaData = append(req.MetaData, MetaData{Key: MetaIdempotencyKey, Value: idempotencyKey})
	}

	return req
}

func toAddress(customer cart.CustomerInfo, address *cart.Address) Address {
	result := Address{
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Email:     customer.Email,
		Phone:     customer.Phone,
	}
	if address != nil {
		result.Address1 = address.Address1
		result.Address2 = address.Address2
		result.City = address.City
		result.State = address.State
		result.Postcode = address.Postcode
		result.Country = address.Country
	}
	return result
}

func toMetaData(metadata map[string]string) []MetaData {
	if len(metadata) == 0 {
		return nil
	}
	keys := make([]string, 0, len(metadata))
	for key := range metadata {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]MetaData, 0, len(keys))
	for _, key := range keys {
		result = append(result, MetaData{Key: key, Value: metadata[key]})
	}
	return result
}

// MergeMetaData replaces entries with the same key and appends the rest
func MergeMetaData(existing []MetaData, updates []MetaData) []MetaData {
	result := slices.Clone(existing)
	for _, update := range updates {
		idx := slices.IndexFunc(result, func(m MetaData) bool { return m.Key == update.Key })
		if idx >= 0 {
			result[idx].Value = update.Value
			continue
		}
		result = append(result, MetaData{Key: update.Key, Value: update.Value})
	}
	return result
}
