package orderapi

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/mystore"
)

const firstFakeOrderID = 1000

// FakeOrderSystem is an in-memory order system for tests and local development
type FakeOrderSystem struct {
	sync.Mutex
	lastOrderID int64
	Orders      *mystore.InMemoryStore[Order]
	Notes       *mystore.InMemoryStore[[]OrderNote]
	Products    *mystore.InMemoryStore[Product]
}

func NewFakeOrderSystem() *FakeOrderSystem {
	c := context.Background()
	orders, _, _ := mystore.NewInMemoryStore[Order](c)
	notes, _, _ := mystore.NewInMemoryStore[[]OrderNote](c)
	products, _, _ := mystore.NewInMemoryStore[Product](c)
	return &FakeOrderSystem{
		lastOrderID: firstFakeOrderID - 1,
		Orders:      orders,
		Notes:       notes,
		Products:    products,
	}
}

func (f *FakeOrderSystem) AddProduct(c context.Context, product Product) error {
	return f.Products.Put(c, uid(product.ID), product)
}

func (f *FakeOrderSystem) CreateOrder(c context.Context, req CreateOrderRequest) (Order, error) {
	f.Lock()
	f.lastOrderID++
	orderID := f.lastOrderID
	f.Unlock()

	total := decimal.Zero
	lineItems := make([]LineItem, 0, len(req.LineItems))
	for idx, item := range req.LineItems {
		product, found, err := f.Products.Get(c, uid(item.ProductID))
		if err != nil {
			return Order{}, myerrors.NewInternalError(err)
		}
		if !found {
			return Order{}, myerrors.NewInvalidInputErrorf("invalid product id %d", item.ProductID)
		}
		price, _ := decimal.NewFromString(product.Price)
		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(lineTotal)

		item.ID = int64(idx + 1)
		item.Name = product.Name
		item.Total = lineTotal.StringFixed(2)
		lineItems = append(lineItems, item)
	}

	status := req.Status
	if status == "" {
		status = StatusPending
	}

	order := Order{
		ID:                 orderID,
		Status:             status,
		Currency:           req.Currency,
		Total:              total.StringFixed(2),
		PaymentMethod:      req.PaymentMethod,
		PaymentMethodTitle: req.PaymentMethodTitle,
		Billing:            req.Billing,
		Shipping:           req.Shipping,
		LineItems:          lineItems,
		MetaData:           MergeMetaData(nil, req.MetaData),
	}

	err := f.Orders.Put(c, uid(order.ID), order)
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}

	return order, nil
}

func (f *FakeOrderSystem) GetOrder(c context.Context, orderID int64) (Order, error) {
	order, found, err := f.Orders.Get(c, uid(orderID))
	if err != nil {
		return Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Order{}, myerrors.NewNotFoundError(fmt.Errorf("order %d not found", orderID))
	}
	return order, nil
}

func (f *FakeOrderSystem) UpdateOrder(c context.Context, orderID int64, req UpdateOrderRequest) (Order, error) {
	var updated Order
	err := f.Orders.RunInTransaction(c, func(c context.Context) error {
		order, err := f.GetOrder(c, orderID)
		if err != nil {
			return err
		}
		if req.Status != "" {
			order.Status = req.Status
		}
		if req.TransactionID != "" {
			order.TransactionID = req.TransactionID
		}
		order.MetaData = MergeMetaData(order.MetaData, req.MetaData)

		updated = order
		return f.Orders.Put(c, uid(orderID), order)
	})
	if err != nil {
		return Order{}, err
	}
	return updated, nil
}

func (f *FakeOrderSystem) AddOrderNote(c context.Context, orderID int64, note string, customerNote bool) error {
	_, err := f.GetOrder(c, orderID)
	if err != nil {
		return err
	}

	return f.Notes.RunInTransaction(c, func(c context.Context) error {
		notes, _, err := f.Notes.Get(c, uid(orderID))
		if err != nil {
			return err
		}
		notes = append(notes, OrderNote{ID: int64(len(notes) + 1), Note: note, CustomerNote: customerNote})
		return f.Notes.Put(c, uid(orderID), notes)
	})
}

func (f *FakeOrderSystem) ListOrders(c context.Context, filter OrderFilter) ([]Order, error) {
	all, err := f.Orders.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	result := []Order{}
	for _, order := range all {
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, order.Status) {
			continue
		}
		if filter.ProductID != 0 && !slices.ContainsFunc(order.LineItems, func(li LineItem) bool { return li.ProductID == filter.ProductID }) {
			continue
		}
		result = append(result, order)
	}
	return paginate(result, filter.Page, filter.PerPage), nil
}

func (f *FakeOrderSystem) GetProduct(c context.Context, productID int64) (Product, error) {
	product, found, err := f.Products.Get(c, uid(productID))
	if err != nil {
		return Product{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Product{}, myerrors.NewNotFoundError(fmt.Errorf("product %d not found", productID))
	}
	return product, nil
}

func (f *FakeOrderSystem) NotesOf(c context.Context, orderID int64) []OrderNote {
	notes, _, _ := f.Notes.Get(c, uid(orderID))
	return notes
}

func paginate(orders []Order, page int, perPage int) []Order {
	if perPage <= 0 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(orders) {
		return []Order{}
	}
	end := min(start+perPage, len(orders))
	return orders[start:end]
}

func uid(id int64) string {
	return strconv.FormatInt(id, 10)
}
