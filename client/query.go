package client

import (
	"net/url"
	"strconv"
)

type (
	// FruitQuery filters the fruit listing; zero values are omitted.
	FruitQuery struct {
		Page   int
		Limit  int
		Rarity *int
	}

	// PriceQuery filters the price history; dates use YYYY-MM-DD.
	PriceQuery struct {
		FruitID   int
		StartDate string
		EndDate   string
		Limit     int
	}

	// VendorQuery filters the vendor listing.
	VendorQuery struct {
		Page    int
		Limit   int
		Species string
	}
)

func (q *FruitQuery) values() url.Values {
	ret := url.Values{}
	if q == nil {
		return ret
	}
	setInt(ret, "page", q.Page)
	setInt(ret, "limit", q.Limit)
	if q.Rarity != nil {
		ret.Set("rarity", strconv.Itoa(*q.Rarity))
	}
	return ret
}

func (q *PriceQuery) values() url.Values {
	ret := url.Values{}
	if q == nil {
		return ret
	}
	setInt(ret, "fruit_id", q.FruitID)
	setString(ret, "start_date", q.StartDate)
	setString(ret, "end_date", q.EndDate)
	setInt(ret, "limit", q.Limit)
	return ret
}

func (q *VendorQuery) values() url.Values {
	ret := url.Values{}
	if q == nil {
		return ret
	}
	setInt(ret, "page", q.Page)
	setInt(ret, "limit", q.Limit)
	setString(ret, "species", q.Species)
	return ret
}

func setInt(values url.Values, key string, value int) {
	if value != 0 {
		values.Set(key, strconv.Itoa(value))
	}
}

func setString(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}
