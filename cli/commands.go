package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/viant/exchange/client"
	"github.com/viant/exchange/client/auth/mock"
	"github.com/viant/exchange/schema"
)

func (c *Login) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	if err = cli.Login(ctx, c.Username, c.Password); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.rt.out, "logged in as %v\n", c.Username)
	return err
}

func (c *Register) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	user, err := cli.Register(ctx, c.Username, c.Password)
	if err != nil {
		return err
	}
	return c.rt.print(user)
}

func (c *Logout) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	if err = cli.Logout(ctx); err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.rt.out, "logged out")
	return err
}

func (c *WhoAmI) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	user, err := cli.Me(ctx)
	if err != nil {
		return err
	}
	return c.rt.print(user)
}

func (c *Fruits) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	fruits, err := cli.Fruits(ctx, &client.FruitQuery{Page: c.Page, Limit: c.Limit, Rarity: c.Rarity})
	if err != nil {
		return err
	}
	return c.rt.print(fruits)
}

func (c *Prices) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	prices, err := cli.Prices(ctx, &client.PriceQuery{FruitID: c.FruitID, StartDate: c.StartDate, EndDate: c.EndDate, Limit: c.Limit})
	if err != nil {
		return err
	}
	return c.rt.print(prices)
}

func (c *Vendors) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	vendors, err := cli.Vendors(ctx, &client.VendorQuery{Page: c.Page, Limit: c.Limit, Species: c.Species})
	if err != nil {
		return err
	}
	return c.rt.print(vendors)
}

func (c *Vendor) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	vendor, err := cli.MyVendor(ctx)
	if err != nil {
		return err
	}
	return c.rt.print(vendor)
}

func (c *AddFruit) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	result, err := cli.AddFruit(ctx, c.FruitID, c.Quantity)
	if err != nil {
		return err
	}
	return c.rt.print(result)
}

func (c *Trade) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	result, err := cli.Trade(ctx, &schema.TradeRequestParams{
		FromVendorID:  c.FromVendorID,
		ToVendorID:    c.ToVendorID,
		FruitID:       c.FruitID,
		Quantity:      c.Quantity,
		TradeType:     c.TradeType,
		AlienCurrency: c.AlienCurrency,
	})
	if err != nil {
		return err
	}
	return c.rt.print(result)
}

// Execute prints the raw response body; non-2xx statuses are reported as errors.
func (c *Get) Execute(_ []string) error {
	ctx := context.Background()
	cli, err := c.rt.client(ctx)
	if err != nil {
		return err
	}
	resp, err := cli.Do(ctx, http.MethodGet, c.Args.Path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintln(c.rt.out, strings.TrimSpace(string(body))); err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %v: %v", c.Args.Path, resp.Status)
	}
	return nil
}

func (c *Mock) Execute(_ []string) error {
	c.rt.log.WithField("addr", c.Addr).Info("serving mock exchange")
	return http.ListenAndServe(c.Addr, c.handler())
}

func (c *Mock) handler() http.Handler {
	var mws []mock.Middleware
	if c.rt != nil {
		mws = append(mws, mock.Logging(c.rt.log))
	}
	if len(c.Origins) > 0 {
		mws = append(mws, mock.NewCors(c.Origins...).Middleware)
	}
	return mock.Chain(&mock.Handler{Service: c.service()}, mws...)
}

func (c *Mock) service() *mock.Service {
	ret := mock.NewService()
	if c.Username != "" {
		ret.AddUser(c.Username, c.Password)
	}
	return ret
}
