package client

import (
	"context"
	"net/http"

	"github.com/viant/exchange/schema"
)

func (c *Client) Fruits(ctx context.Context, query *FruitQuery) ([]schema.Fruit, error) {
	result, err := send[any, []schema.Fruit](ctx, c.http, http.MethodGet, c.endpoint(fruitsPath), query.values(), nil)
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// Prices returns matching prices, newest first. The exchange answers 404 when
// nothing matches; that surfaces as an *Error like any other status.
func (c *Client) Prices(ctx context.Context, query *PriceQuery) ([]schema.Price, error) {
	result, err := send[any, schema.PriceList](ctx, c.http, http.MethodGet, c.endpoint(pricesPath), query.values(), nil)
	if err != nil {
		return nil, err
	}
	return result.Prices, nil
}
