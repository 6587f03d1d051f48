package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/viant/exchange/schema"
)

// Trade executes a trade initiated from params.FromVendorID, which must be the
// authenticated user's vendor.
func (c *Client) Trade(ctx context.Context, params *schema.TradeRequestParams) (*schema.TradeResult, error) {
	if params == nil {
		return nil, fmt.Errorf("%w: request was nil", ErrInvalidTrade)
	}
	if !params.TradeType.IsValid() {
		return nil, fmt.Errorf("%w: unsupported trade type %q", ErrInvalidTrade, params.TradeType)
	}
	if params.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidTrade)
	}
	return send[schema.TradeRequestParams, schema.TradeResult](ctx, c.http, http.MethodPost, c.endpoint(tradePath), nil, params)
}
