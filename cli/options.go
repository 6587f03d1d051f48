package cli

import (
	"github.com/viant/exchange"
	"github.com/viant/exchange/schema"
)

// Options are the command line options, global flags apply to every command.
type Options struct {
	Verbose   bool   `short:"V" long:"verbose" description:"enable debug logging"`
	ConfigURL string `short:"c" long:"config" description:"client options YAML URL"`
	exchange.ClientOptions

	Login    Login    `command:"login" description:"log in and store the credential pair"`
	Register Register `command:"register" description:"create an account"`
	Logout   Logout   `command:"logout" description:"erase stored credentials"`
	WhoAmI   WhoAmI   `command:"whoami" description:"show the authenticated user"`
	Fruits   Fruits   `command:"fruits" description:"list fruits"`
	Prices   Prices   `command:"prices" description:"list fruit prices, newest first"`
	Vendors  Vendors  `command:"vendors" description:"list vendors"`
	Vendor   Vendor   `command:"vendor" description:"show your vendor and inventory"`
	AddFruit AddFruit `command:"add-fruit" description:"add fruit to your inventory"`
	Trade    Trade    `command:"trade" description:"trade fruit with another vendor"`
	Get      Get      `command:"get" description:"GET any path through the authenticated gateway"`
	Mock     Mock     `command:"mock" description:"serve an in-memory exchange"`
}

type Login struct {
	command
	Username string `short:"n" long:"username" description:"username" required:"true"`
	Password string `short:"p" long:"password" description:"password" required:"true"`
}

type Register struct {
	command
	Username string `short:"n" long:"username" description:"username" required:"true"`
	Password string `short:"p" long:"password" description:"password" required:"true"`
}

type Logout struct{ command }

type WhoAmI struct{ command }

type Fruits struct {
	command
	Page   int  `long:"page" description:"page number"`
	Limit  int  `long:"limit" description:"page size"`
	Rarity *int `long:"rarity" description:"rarity level"`
}

type Prices struct {
	command
	FruitID   int    `short:"f" long:"fruit" description:"fruit id"`
	StartDate string `long:"from" description:"start date (YYYY-MM-DD)"`
	EndDate   string `long:"to" description:"end date (YYYY-MM-DD)"`
	Limit     int    `long:"limit" description:"max prices"`
}

type Vendors struct {
	command
	Page    int    `long:"page" description:"page number"`
	Limit   int    `long:"limit" description:"page size"`
	Species string `long:"species" description:"vendor species"`
}

type Vendor struct{ command }

type AddFruit struct {
	command
	FruitID  int `short:"f" long:"fruit" description:"fruit id" required:"true"`
	Quantity int `short:"q" long:"quantity" description:"quantity" required:"true"`
}

type Trade struct {
	command
	FromVendorID  int              `long:"from" description:"your vendor id" required:"true"`
	ToVendorID    int              `long:"to" description:"counterparty vendor id" required:"true"`
	FruitID       int              `short:"f" long:"fruit" description:"fruit id" required:"true"`
	Quantity      int              `short:"q" long:"quantity" description:"quantity" required:"true"`
	TradeType     schema.TradeType `short:"t" long:"type" description:"trade type" choice:"send" choice:"request" choice:"buy" choice:"sell" default:"send"`
	AlienCurrency bool             `long:"alien" description:"settle in alien currency"`
}

type Get struct {
	command
	Args struct {
		Path string `positional-arg-name:"path" description:"API path, e.g. /vendors/me"`
	} `positional-args:"yes" required:"yes"`
}

type Mock struct {
	command
	Addr     string   `short:"a" long:"addr" description:"listen address" default:":8000"`
	Origins  []string `short:"o" long:"origin" description:"frontend origin allowed by CORS, repeatable"`
	Username string   `short:"n" long:"username" description:"seed account username"`
	Password string   `short:"p" long:"password" description:"seed account password"`
}
