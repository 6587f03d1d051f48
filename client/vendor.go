package client

import (
	"context"
	"net/http"

	"github.com/viant/exchange/schema"
)

func (c *Client) Vendors(ctx context.Context, query *VendorQuery) ([]schema.Vendor, error) {
	result, err := send[any, []schema.Vendor](ctx, c.http, http.MethodGet, c.endpoint(vendorsPath), query.values(), nil)
	if err != nil {
		return nil, err
	}
	return *result, nil
}

func (c *Client) MyVendor(ctx context.Context) (*schema.Vendor, error) {
	return send[any, schema.Vendor](ctx, c.http, http.MethodGet, c.endpoint(myVendorPath), nil, nil)
}

func (c *Client) AddFruit(ctx context.Context, fruitID, quantity int) (*schema.AddFruitResult, error) {
	request := &schema.AddFruitRequest{FruitID: fruitID, Quantity: quantity}
	return send[schema.AddFruitRequest, schema.AddFruitResult](ctx, c.http, http.MethodPost, c.endpoint(addFruitPath), nil, request)
}
