package orderapi

import "context"

//go:generate mockgen -source=api.go -package orderapi -destination ordersystem_mock.go OrderSystem
type OrderSystem interface {
	CreateOrder(c context.Context, req CreateOrderRequest) (Order, error)
	GetOrder(c context.Context, orderID int64) (Order, error)
	UpdateOrder(c context.Context, orderID int64, req UpdateOrderRequest) (Order, error)
	AddOrderNote(c context.Context, orderID int64, note string, customerNote bool) error
	ListOrders(c context.Context, filter OrderFilter) ([]Order, error)
	GetProduct(c context.Context, productID int64) (Product, error)
}
