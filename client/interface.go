package client

import (
	"context"

	"github.com/viant/exchange/client/auth/session"
	"github.com/viant/exchange/schema"
)

// Interface defines the exchange operations exposed by Client
type Interface interface {
	// Register creates an account, the password must satisfy the exchange rule
	Register(ctx context.Context, username, password string) (*schema.User, error)

	// Login obtains a credential pair and begins a session
	Login(ctx context.Context, username, password string) error

	// Logout ends the session locally
	Logout(ctx context.Context) error

	// State reports whether a credential pair is stored
	State(ctx context.Context) session.State

	// Me returns the authenticated user
	Me(ctx context.Context) (*schema.User, error)

	// Fruits lists fruits
	Fruits(ctx context.Context, query *FruitQuery) ([]schema.Fruit, error)

	// Prices lists fruit prices, newest first
	Prices(ctx context.Context, query *PriceQuery) ([]schema.Price, error)

	// Vendors lists vendors with their inventory
	Vendors(ctx context.Context, query *VendorQuery) ([]schema.Vendor, error)

	// MyVendor returns the authenticated user's vendor
	MyVendor(ctx context.Context) (*schema.Vendor, error)

	// AddFruit adds fruit to the authenticated user's inventory
	AddFruit(ctx context.Context, fruitID, quantity int) (*schema.AddFruitResult, error)

	// Trade executes a trade from the authenticated user's vendor
	Trade(ctx context.Context, params *schema.TradeRequestParams) (*schema.TradeResult, error)
}

// Ensure Client implements Interface
var _ Interface = (*Client)(nil)
