package mock

import (
	"encoding/json"
	"net/http"

	"github.com/viant/exchange/schema"
)

func (s *Service) tradeHandler(w http.ResponseWriter, r *http.Request) {
	anAccount, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	var request schema.TradeRequestParams
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid trade request")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if request.FromVendorID != anAccount.vendorID {
		writeDetail(w, http.StatusForbidden, "You can only initiate trades from your own vendor")
		return
	}
	fruit := s.fruitByID(request.FruitID)
	if fruit == nil {
		writeDetail(w, http.StatusBadRequest, "Fruit not found")
		return
	}
	from, to := s.vendorByID(request.FromVendorID), s.vendorByID(request.ToVendorID)
	if to == nil {
		writeDetail(w, http.StatusBadRequest, "Counterparty vendor not found")
		return
	}
	source, target, shortage := from, to, "Insufficient stock to send"
	switch request.TradeType {
	case schema.TradeSend:
	case schema.TradeSell:
		shortage = "Seller has insufficient stock"
	case schema.TradeRequest:
		source, target, shortage = to, from, "Requested vendor has insufficient stock"
	case schema.TradeBuy:
		source, target, shortage = to, from, "Seller has insufficient stock"
	default:
		writeDetail(w, http.StatusBadRequest, "Invalid trade type")
		return
	}
	if request.Quantity <= 0 || source.inventory[fruit.ID] < request.Quantity {
		writeDetail(w, http.StatusBadRequest, shortage)
		return
	}
	source.inventory[fruit.ID] -= request.Quantity
	target.inventory[fruit.ID] += request.Quantity

	details := schema.NewTradeDetails(fruit, request.Quantity, request.TradeType, request.AlienCurrency)
	writeJSON(w, http.StatusOK, &schema.TradeResult{
		Status:         "success",
		TradeType:      request.TradeType,
		FromVendorID:   request.FromVendorID,
		ToVendorID:     request.ToVendorID,
		FruitID:        request.FruitID,
		Quantity:       request.Quantity,
		CurrencyAmount: details.CurrencyAmount,
		AlienCurrency:  request.AlienCurrency,
		Details:        details,
	})
}
