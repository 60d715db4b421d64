package orderapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/myhttpclient"
)

const apiPath = "/wp-json/wc/v3"

type orderClient struct {
	baseURL string
	sender  myhttpclient.HTTPSender
}

func NewClient(baseURL string, sender myhttpclient.HTTPSender) OrderSystem {
	return &orderClient{
		baseURL: strings.TrimSuffix(baseURL, "/") + apiPath,
		sender:  sender,
	}
}

func (oc *orderClient) CreateOrder(c context.Context, req CreateOrderRequest) (Order, error) {
	order := Order{}
	err := oc.call(c, http.MethodPost, "/orders", req, &order)
	if err != nil {
		return Order{}, err
	}
	if order.ID == 0 {
		return Order{}, myerrors.NewInternalError(fmt.Errorf("order system returned order without id"))
	}
	return order, nil
}

func (oc *orderClient) GetOrder(c context.Context, orderID int64) (Order, error) {
	order := Order{}
	err := oc.call(c, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

func (oc *orderClient) UpdateOrder(c context.Context, orderID int64, req UpdateOrderRequest) (Order, error) {
	order := Order{}
	err := oc.call(c, http.MethodPut, fmt.Sprintf("/orders/%d", orderID), req, &order)
	if err != nil {
		return Order{}, err
	}
	return order, nil
}

func (oc *orderClient) AddOrderNote(c context.Context, orderID int64, note string, customerNote bool) error {
	return oc.call(c, http.MethodPost, fmt.Sprintf("/orders/%d/notes", orderID), OrderNote{Note: note, CustomerNote: customerNote}, &OrderNote{})
}

func (oc *orderClient) ListOrders(c context.Context, filter OrderFilter) ([]Order, error) {
	params := url.Values{}
	if len(filter.Statuses) > 0 {
		params.Set("status", strings.Join(filter.Statuses, ","))
	}
	if filter.ProductID != 0 {
		params.Set("product", strconv.FormatInt(filter.ProductID, 10))
	}
	if filter.Page > 0 {
		params.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(filter.PerPage))
	}

	path := "/orders"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	orders := []Order{}
	err := oc.call(c, http.MethodGet, path, nil, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (oc *orderClient) GetProduct(c context.Context, productID int64) (Product, error) {
	product := Product{}
	err := oc.call(c, http.MethodGet, fmt.Sprintf("/products/%d", productID), nil, &product)
	if err != nil {
		return Product{}, err
	}
	return product, nil
}

func (oc *orderClient) call(c context.Context, method string, path string, req any, resp any) error {
	var body []byte
	if req != nil {
		var err error
		body, err = json.Marshal(req)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error marshalling request for %s %s: %s", method, path, err))
		}
	}

	status, respBody, err := oc.sender.Send(c, method, oc.baseURL+path, body)
	if err != nil {
		if myerrors.GetHTTPStatus(err) == http.StatusServiceUnavailable {
			return err
		}
		return myerrors.NewInternalError(fmt.Errorf("error calling order system %s %s: %w", method, path, err))
	}

	if status == http.StatusNotFound {
		return myerrors.NewNotFoundError(fmt.Errorf("order system %s %s: %s", method, path, upstreamMessage(respBody)))
	}
	if status < 200 || status >= 300 {
		return myerrors.NewInternalError(fmt.Errorf("order system %s %s returned %d: %s", method, path, status, upstreamMessage(respBody)))
	}

	err = json.Unmarshal(respBody, resp)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error parsing response of %s %s: %s", method, path, err))
	}

	return nil
}

func upstreamMessage(body []byte) string {
	errResp := errorResponse{}
	err := json.Unmarshal(body, &errResp)
	if err != nil || errResp.Message == "" {
		return string(body)
	}
	return fmt.Sprintf("%s (%s)", errResp.Message, errResp.Code)
}
