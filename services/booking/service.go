package booking

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/myvalidation"
	"github.com/MarcGrol/libraryshop/services/cart"
	"github.com/MarcGrol/libraryshop/services/orderapi"
)

const ordersPerPage = 100

var bookedStatuses = []string{orderapi.StatusProcessing, orderapi.StatusOnHold, orderapi.StatusCompleted}

type AvailabilityQuery struct {
	ProductID int64 `form:"product_id"`
}

type Availability struct {
	ProductID        int64  `json:"product_id"`
	Name             string `json:"name"`
	MaxAttendees     int    `json:"max_attendees"`
	CurrentAttendees int    `json:"current_attendees"`
	AvailableSpots   int    `json:"available_spots"`
	Available        bool   `json:"available"`
}

type BookingRequest struct {
	ProductID int64             `json:"product_id" validate:"gt=0"`
	Quantity  int               `json:"quantity" validate:"gt=0"`
	Customer  cart.CustomerInfo `json:"customer"`
}

type BookingResponse struct {
	Success        bool  `json:"success"`
	OrderID        int64 `json:"order_id"`
	AvailableSpots int   `json:"available_spots"`
}

type service struct {
	logger      mylog.Logger
	currency    string
	orderSystem orderapi.OrderSystem
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(logger mylog.Logger, currency string, orderSystem orderapi.OrderSystem) *service {
	return &service{
		logger:      logger,
		currency:    currency,
		orderSystem: orderSystem,
	}
}

func (s *service) availability(c context.Context, productID int64) (Availability, orderapi.Product, error) {
	if productID <= 0 {
		return Availability{}, orderapi.Product{}, myerrors.NewInvalidInputErrorf("missing product_id")
	}

	product, err := s.orderSystem.GetProduct(c, productID)
	if err != nil {
		return Availability{}, orderapi.Product{}, err
	}

	maxAttendees, err := strconv.Atoi(product.Meta(orderapi.MetaMaxAttendees))
	if err != nil || maxAttendees <= 0 {
		return Availability{}, orderapi.Product{}, myerrors.NewInvalidInputErrorf("product %d is not a bookable event", productID)
	}

	current, err := s.countAttendees(c, productID)
	if err != nil {
		return Availability{}, orderapi.Product{}, err
	}

	spots := max(maxAttendees-current, 0)
	return Availability{
		ProductID:        productID,
		Name:             product.Name,
		MaxAttendees:     maxAttendees,
		CurrentAttendees: current,
		AvailableSpots:   spots,
		Available:        spots > 0,
	}, product, nil
}

// countAttendees sums the booked quantities of the event over all pages of matching orders
func (s *service) countAttendees(c context.Context, productID int64) (int, error) {
	count := 0
	for page := 1; ; page++ {
		orders, err := s.orderSystem.ListOrders(c, orderapi.OrderFilter{
			Statuses:  bookedStatuses,
			ProductID: productID,
			Page:      page,
			PerPage:   ordersPerPage,
		})
		if err != nil {
			return 0, err
		}

		for _, order := range orders {
			if !orderapi.CountsAsBooked(order.Status) {
				continue
			}
			for _, item := range order.LineItems {
				if item.ProductID == productID {
					count += item.Quantity
				}
			}
		}

		if len(orders) < ordersPerPage {
			return count, nil
		}
	}
}

func (s *service) book(c context.Context, req BookingRequest) (BookingResponse, error) {
	err := myvalidation.Validate(req)
	if err != nil {
		return BookingResponse{}, err
	}

	availability, product, err := s.availability(c, req.ProductID)
	if err != nil {
		return BookingResponse{}, err
	}
	if availability.CurrentAttendees+req.Quantity > availability.MaxAttendees {
		return BookingResponse{}, myerrors.NewConflictError(fmt.Errorf("only %d spots left for %s", availability.AvailableSpots, product.Name))
	}

	// the order system prices the line itself
	price, _ := decimal.NewFromString(product.Price)
	booking := cart.NewCart(s.currency)
	booking.AddItem(strconv.FormatInt(product.ID, 10), cart.Product{ID: product.ID, Name: product.Name, Price: price.InexactFloat64()}, req.Quantity, nil)

	order, err := s.orderSystem.CreateOrder(c, orderapi.NewOrderRequest(booking, req.Customer, ""))
	if err != nil {
		return BookingResponse{}, err
	}
	s.logger.Log(c, strconv.FormatInt(order.ID, 10), mylog.SeverityInfo, "Booked %d x %s for %s in order %d", req.Quantity, product.Name, req.Customer.Email, order.ID)

	return BookingResponse{
		Success:        true,
		OrderID:        order.ID,
		AvailableSpots: availability.AvailableSpots - req.Quantity,
	}, nil
}
