package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

type HotelListQuery struct {
	CityCode   string
	Radius     int
	RadiusUnit string
	Ratings    []string
	Amenities  []string
}

type HotelRef struct {
	HotelID  string `json:"hotelId"`
	Name     string `json:"name"`
	IataCode string `json:"iataCode"`
}

type HotelOffersQuery struct {
	HotelIDs     []string
	Adults       int
	CheckInDate  string
	CheckOutDate string
	RoomQuantity int
	Currency     string
}

func (c *Client) ListHotelsByCity(ctx context.Context, q HotelListQuery) ([]HotelRef, error) {
	v := url.Values{}
	v.Set("cityCode", q.CityCode)
	if q.Radius > 0 {
		v.Set("radius", strconv.Itoa(q.Radius))
		unit := q.RadiusUnit
		if unit == "" {
			unit = "KM"
		}
		v.Set("radiusUnit", unit)
	}
	if len(q.Ratings) > 0 {
		v.Set("ratings", commaJoin(q.Ratings))
	}
	if len(q.Amenities) > 0 {
		v.Set("amenities", commaJoin(q.Amenities))
	}

	var resp envelope[[]HotelRef]
	err := c.do(ctx, apiRequest{
		op:     OpHotelList,
		method: http.MethodGet,
		path:   "/v1/reference-data/locations/hotels/by-city",
		query:  v,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Data), nil
}

func (c *Client) SearchHotelOffers(ctx context.Context, q HotelOffersQuery) ([]json.RawMessage, error) {
	v := url.Values{}
	v.Set("hotelIds", commaJoin(q.HotelIDs))
	if q.Adults > 0 {
		v.Set("adults", strconv.Itoa(q.Adults))
	}
	if q.CheckInDate != "" {
		v.Set("checkInDate", q.CheckInDate)
	}
	if q.CheckOutDate != "" {
		v.Set("checkOutDate", q.CheckOutDate)
	}
	if q.RoomQuantity > 0 {
		v.Set("roomQuantity", strconv.Itoa(q.RoomQuantity))
	}
	if q.Currency != "" {
		v.Set("currency", q.Currency)
	}

	var resp envelope[[]json.RawMessage]
	err := c.do(ctx, apiRequest{
		op:     OpHotelOffers,
		method: http.MethodGet,
		path:   "/v3/shopping/hotel-offers",
		query:  v,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Data), nil
}
