package schema

// TradeType selects the direction of a trade.
type TradeType string

const (
	// TradeSend moves fruit from the initiator to the counterparty.
	TradeSend TradeType = "send"
	// TradeRequest moves fruit from the counterparty to the initiator.
	TradeRequest TradeType = "request"
	// TradeBuy moves fruit to the initiator for currency.
	TradeBuy TradeType = "buy"
	// TradeSell moves fruit from the initiator for currency.
	TradeSell TradeType = "sell"
)

// AlienExchangeRate converts base values into alien currency.
const AlienExchangeRate = 3.14

func (t TradeType) IsValid() bool {
	switch t {
	case TradeSend, TradeRequest, TradeBuy, TradeSell:
		return true
	}
	return false
}

type (
	// TradeRequestParams represents a trade initiated from the caller's vendor.
	TradeRequestParams struct {
		FromVendorID   int       `json:"from_vendor_id"`
		ToVendorID     int       `json:"to_vendor_id"`
		FruitID        int       `json:"fruit_id"`
		Quantity       int       `json:"quantity"`
		TradeType      TradeType `json:"trade_type"`
		CurrencyAmount *float64  `json:"currency_amount,omitempty"`
		AlienCurrency  bool      `json:"alien_currency"`
	}

	// TradeDetails represents the computed cost of a trade.
	TradeDetails struct {
		Fruit          string    `json:"fruit"`
		Quantity       int       `json:"quantity"`
		BaseValue      float64   `json:"base_value"`
		Tax            float64   `json:"tax"`
		TotalCost      float64   `json:"total_cost"`
		AlienCurrency  bool      `json:"alien_currency"`
		TradeType      TradeType `json:"trade_type"`
		CurrencyAmount *float64  `json:"currency_amount,omitempty"`
	}

	// TradeResult represents the trade endpoint response.
	TradeResult struct {
		Status         string        `json:"status"`
		TradeType      TradeType     `json:"trade_type"`
		FromVendorID   int           `json:"from_vendor_id"`
		ToVendorID     int           `json:"to_vendor_id"`
		FruitID        int           `json:"fruit_id"`
		Quantity       int           `json:"quantity"`
		CurrencyAmount *float64      `json:"currency_amount,omitempty"`
		AlienCurrency  bool          `json:"alien_currency"`
		Details        *TradeDetails `json:"details,omitempty"`
	}
)

// NewTradeDetails computes value, rarity tax and total of a trade.
func NewTradeDetails(fruit *Fruit, quantity int, tradeType TradeType, alienCurrency bool) *TradeDetails {
	baseValue := fruit.BaseValue
	if alienCurrency {
		baseValue *= AlienExchangeRate
	}
	subtotal := baseValue * float64(quantity)
	tax := subtotal * (float64(fruit.RarityLevel) / 10.0)
	ret := &TradeDetails{
		Fruit:         fruit.Name,
		Quantity:      quantity,
		BaseValue:     baseValue,
		Tax:           tax,
		TotalCost:     subtotal + tax,
		AlienCurrency: alienCurrency,
		TradeType:     tradeType,
	}
	if tradeType == TradeBuy || tradeType == TradeSell {
		total := ret.TotalCost
		ret.CurrencyAmount = &total
	}
	return ret
}
