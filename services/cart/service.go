package cart

import (
	"context"
	"fmt"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/mylog"
	"github.com/MarcGrol/libraryshop/lib/myuuid"
	"github.com/MarcGrol/libraryshop/lib/myvalidation"
)

type AddItemRequest struct {
	ProductID int64             `json:"product_id" validate:"gt=0"`
	Name      string            `json:"name" validate:"required"`
	Price     float64           `json:"price" validate:"gte=0"`
	Quantity  int               `json:"quantity" validate:"gt=0"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (r AddItemRequest) product() Product {
	return Product{ID: r.ProductID, Name: r.Name, Price: r.Price}
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

type service struct {
	logger     mylog.Logger
	uuider     myuuid.UUIDer
	repository Repository
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(logger mylog.Logger, uuider myuuid.UUIDer, repository Repository) *service {
	return &service{
		logger:     logger,
		uuider:     uuider,
		repository: repository,
	}
}

func (s *service) getCart(c context.Context, cartUID string) (Cart, error) {
	cart, err := s.repository.Load(c, cartUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}
	return cart, nil
}

func (s *service) addItem(c context.Context, cartUID string, req AddItemRequest) (Cart, error) {
	err := myvalidation.Validate(req)
	if err != nil {
		return Cart{}, err
	}

	return s.modify(c, cartUID, func(cart *Cart) error {
		cart.AddItem(s.uuider.Create(), req.product(), req.Quantity, req.Metadata)
		s.logger.Log(c, cartUID, mylog.SeverityInfo, "Added %d x product %d to cart %s", req.Quantity, req.ProductID, cartUID)
		return nil
	})
}

func (s *service) updateItem(c context.Context, cartUID string, itemUID string, quantity int) (Cart, error) {
	return s.modify(c, cartUID, func(cart *Cart) error {
		_, found := cart.FindItem(itemUID)
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("item %s not in cart %s", itemUID, cartUID))
		}
		cart.UpdateQuantity(itemUID, quantity)
		return nil
	})
}

func (s *service) removeItem(c context.Context, cartUID string, itemUID string) (Cart, error) {
	return s.modify(c, cartUID, func(cart *Cart) error {
		cart.RemoveItem(itemUID)
		return nil
	})
}

func (s *service) clearCart(c context.Context, cartUID string) (Cart, error) {
	cart, err := s.getCart(c, cartUID)
	if err != nil {
		return Cart{}, err
	}

	err = s.repository.Clear(c, cartUID)
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}

	cart.Clear()

	return cart, nil
}

func (s *service) getCustomer(c context.Context, cartUID string) (CustomerInfo, error) {
	customer, err := s.repository.LoadCustomer(c, cartUID)
	if err != nil {
		return CustomerInfo{}, myerrors.NewInternalError(err)
	}
	return customer, nil
}

func (s *service) putCustomer(c context.Context, cartUID string, customer CustomerInfo) (CustomerInfo, error) {
	err := myvalidation.Validate(customer)
	if err != nil {
		return CustomerInfo{}, err
	}

	err = s.repository.SaveCustomer(c, cartUID, customer)
	if err != nil {
		return CustomerInfo{}, myerrors.NewInternalError(err)
	}
	return customer, nil
}

// modify runs load, change and save as one atomic update so concurrent edits of a session cart are not lost
func (s *service) modify(c context.Context, cartUID string, modifier func(cart *Cart) error) (Cart, error) {
	var rejected error
	cart, err := s.repository.Update(c, cartUID, func(cart *Cart) error {
		rejected = modifier(cart)
		return rejected
	})
	if rejected != nil {
		return Cart{}, rejected
	}
	if err != nil {
		return Cart{}, myerrors.NewInternalError(err)
	}

	return cart, nil
}
