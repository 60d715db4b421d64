package omise

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/MarcGrol/libraryshop/lib/myerrors"
	"github.com/MarcGrol/libraryshop/lib/myhttpclient"
)

const DefaultURL = "https://api.omise.co"

type gatewayClient struct {
	baseURL string
	sender  myhttpclient.HTTPSender
}

// NewClient expects a sender that authenticates with the secret key as basic-auth username
func NewClient(baseURL string, sender myhttpclient.HTTPSender) Gateway {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &gatewayClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		sender:  sender,
	}
}

func (gc *gatewayClient) CreateCharge(c context.Context, req ChargeRequest) (Charge, error) {
	charge := Charge{}
	err := gc.call(c, "/charges", req, &charge)
	if err != nil {
		return Charge{}, err
	}
	if charge.ID == "" {
		return Charge{}, myerrors.NewBadGatewayError(fmt.Errorf("gateway returned charge without id"))
	}
	return charge, nil
}

func (gc *gatewayClient) CreateCustomer(c context.Context, email string, description string, metadata map[string]any) (string, error) {
	cust := customer{}
	err := gc.call(c, "/customers", customerRequest{
		Email:       email,
		Description: description,
		Metadata:    metadata,
	}, &cust)
	if err != nil {
		return "", err
	}
	if cust.ID == "" {
		return "", myerrors.NewBadGatewayError(fmt.Errorf("gateway returned customer without id"))
	}
	return cust.ID, nil
}

func (gc *gatewayClient) call(c context.Context, path string, req any, resp any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error marshalling %s request: %s", path, err))
	}

	status, respBody, err := gc.sender.Send(c, http.MethodPost, gc.baseURL+path, body)
	if err != nil {
		return myerrors.NewBadGatewayError(fmt.Errorf("error calling gateway %s: %w", path, err))
	}
	if status < 200 || status >= 300 {
		return myerrors.NewBadGatewayError(fmt.Errorf("gateway %s returned %d: %s", path, status, gatewayMessage(respBody)))
	}

	err = json.Unmarshal(respBody, resp)
	if err != nil {
		return myerrors.NewBadGatewayError(fmt.Errorf("error parsing gateway %s response: %s", path, err))
	}
	return nil
}

func gatewayMessage(body []byte) string {
	errResp := errorResponse{}
	err := json.Unmarshal(body, &errResp)
	if err != nil || errResp.Message == "" {
		return string(body)
	}
	return fmt.Sprintf("%s: %s", errResp.Code, errResp.Message)
}
