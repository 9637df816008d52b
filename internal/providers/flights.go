package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dharmasatrya/travelhub/internal/models"
)

const methodOverrideGet = "GET"

type FlightOffersQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Children      int
	Infants       int
	TravelClass   models.CabinClass
	Currency      string
	Max           int
}

func (q FlightOffersQuery) values() url.Values {
	v := url.Values{}
	v.Set("originLocationCode", q.Origin)
	v.Set("destinationLocationCode", q.Destination)
	v.Set("departureDate", q.DepartureDate)
	if q.ReturnDate != "" {
		v.Set("returnDate", q.ReturnDate)
	}
	v.Set("adults", strconv.Itoa(q.Adults))
	if q.Children > 0 {
		v.Set("children", strconv.Itoa(q.Children))
	}
	if q.Infants > 0 {
		v.Set("infants", strconv.Itoa(q.Infants))
	}
	if q.TravelClass != "" {
		v.Set("travelClass", string(q.TravelClass))
	}
	if q.Currency != "" {
		v.Set("currencyCode", q.Currency)
	}
	if q.Max > 0 {
		v.Set("max", strconv.Itoa(q.Max))
	}
	return v
}

// MultiCitySearch is the structured body of a multi-city offers search.
type MultiCitySearch struct {
	CurrencyCode       string                     `json:"currencyCode,omitempty"`
	OriginDestinations []models.OriginDestination `json:"originDestinations"`
	Travelers          []models.Traveler          `json:"travelers"`
	Sources            []string                   `json:"sources"`
	SearchCriteria     SearchCriteria             `json:"searchCriteria"`
}

type SearchCriteria struct {
	MaxFlightOffers int            `json:"maxFlightOffers,omitempty"`
	FlightFilters   *FlightFilters `json:"flightFilters,omitempty"`
}

type FlightFilters struct {
	CabinRestrictions []CabinRestriction `json:"cabinRestrictions,omitempty"`
}

// CoverageMostSegments asks for the cabin on most, not necessarily all,
// segments of the itinerary.
const CoverageMostSegments = "MOST_SEGMENTS"

type CabinRestriction struct {
	Cabin                string   `json:"cabin"`
	Coverage             string   `json:"coverage"`
	OriginDestinationIDs []string `json:"originDestinationIds"`
}

type FlightDatesQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
}

func (c *Client) SearchFlightOffers(ctx context.Context, q FlightOffersQuery) ([]models.FlightOffer, error) {
	var resp envelope[[]models.FlightOffer]
	err := c.do(ctx, apiRequest{
		op:     OpFlightOffers,
		method: http.MethodGet,
		path:   "/v2/shopping/flight-offers",
		query:  q.values(),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Data), nil
}

func (c *Client) SearchFlightOffersMultiCity(ctx context.Context, body MultiCitySearch) ([]models.FlightOffer, error) {
	var resp envelope[[]models.FlightOffer]
	err := c.do(ctx, apiRequest{
		op:      OpFlightOffersMultiCity,
		method:  http.MethodPost,
		path:    "/v2/shopping/flight-offers",
		body:    body,
		headers: map[string]string{"X-HTTP-Method-Override": methodOverrideGet},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Data), nil
}

// PriceFlightOffers confirms the live price of offers and returns the
// provider's pricing object.
func (c *Client) PriceFlightOffers(ctx context.Context, offers []models.FlightOffer) (json.RawMessage, error) {
	body := map[string]any{
		"data": map[string]any{
			"type":         "flight-offers-pricing",
			"flightOffers": offers,
		},
	}

	var resp envelope[json.RawMessage]
	err := c.do(ctx, apiRequest{
		op:      OpFlightPrice,
		method:  http.MethodPost,
		path:    "/v1/shopping/flight-offers/pricing",
		body:    body,
		headers: map[string]string{"X-HTTP-Method-Override": methodOverrideGet},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) SearchFlightDates(ctx context.Context, q FlightDatesQuery) ([]json.RawMessage, error) {
	v := url.Values{}
	v.Set("origin", q.Origin)
	v.Set("destination", q.Destination)
	if q.DepartureDate != "" {
		v.Set("departureDate", q.DepartureDate)
	}

	var resp envelope[[]json.RawMessage]
	err := c.do(ctx, apiRequest{
		op:     OpFlightDates,
		method: http.MethodGet,
		path:   "/v1/shopping/flight-dates",
		query:  v,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Data), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
