// Package aggregator runs flight searches against the upstream provider
// behind a shared result cache.
package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/dharmasatrya/travelhub/internal/cache"
	"github.com/dharmasatrya/travelhub/internal/filter"
	"github.com/dharmasatrya/travelhub/internal/logging"
	"github.com/dharmasatrya/travelhub/internal/models"
	"github.com/dharmasatrya/travelhub/internal/normalize"
	"github.com/dharmasatrya/travelhub/internal/providers"
)

const (
	DefaultMaxOffers = 20

	datesKeyPrefix = "flights:dates:"
)

type Config struct {
	MaxOffers int
	SearchTTL time.Duration
	DatesTTL  time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxOffers: DefaultMaxOffers,
		SearchTTL: cache.FlightSearchTTL,
		DatesTTL:  cache.DefaultTTL,
	}
}

type Engine struct {
	flights providers.FlightSearcher
	store   cache.Store
	config  Config
	group   singleflight.Group
	logger  zerolog.Logger
}

func NewEngine(flights providers.FlightSearcher, store cache.Store, config Config) *Engine {
	if config.MaxOffers <= 0 {
		config.MaxOffers = DefaultMaxOffers
	}
	if config.SearchTTL <= 0 {
		config.SearchTTL = cache.FlightSearchTTL
	}
	if config.DatesTTL <= 0 {
		config.DatesTTL = cache.DefaultTTL
	}
	return &Engine{
		flights: flights,
		store:   store,
		config:  config,
		logger:  logging.NewLogger("aggregator"),
	}
}

// Search returns the offers matching req with its post filters applied.
// Unfiltered offers are cached per search key, so requests that differ only
// in post filters share one upstream call. Concurrent misses on the same key
// wait for a single fetch.
func (e *Engine) Search(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, error) {
	key := normalize.CacheKey(req)

	if offers, ok := e.cached(ctx, key); ok {
		return filter.Baggage(offers, req.PostFilters.MinCheckedBags), nil
	}

	v, err, shared := e.group.Do(key, func() (any, error) {
		return e.fetch(context.WithoutCancel(ctx), key, req)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		e.logger.Debug().Str("key", key).Msg("Joined in-flight search")
	}

	return filter.Baggage(v.([]models.FlightOffer), req.PostFilters.MinCheckedBags), nil
}

func (e *Engine) cached(ctx context.Context, key string) ([]models.FlightOffer, bool) {
	var offers []models.FlightOffer
	err := cache.GetJSON(ctx, e.store, key, &offers)
	switch {
	case err == nil:
		e.logger.Debug().Str("key", key).Int("offers", len(offers)).Msg("Cache hit")
		return offers, true
	case errors.Is(err, cache.ErrCacheMiss):
		e.logger.Debug().Str("key", key).Msg("Cache miss")
	default:
		e.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, fetching from provider")
	}
	return nil, false
}

func (e *Engine) fetch(ctx context.Context, key string, req models.SearchRequest) ([]models.FlightOffer, error) {
	var (
		offers []models.FlightOffer
		err    error
	)
	switch req.Mode {
	case models.ModeMultiCity:
		offers, err = e.flights.SearchFlightOffersMultiCity(ctx, e.multiCityBody(req))
	default:
		offers, err = e.flights.SearchFlightOffers(ctx, e.simpleQuery(req))
	}
	if err != nil {
		return nil, err
	}

	if offers == nil {
		offers = []models.FlightOffer{}
	}
	if len(offers) > e.config.MaxOffers {
		offers = offers[:e.config.MaxOffers]
	}

	if err := cache.SetJSON(ctx, e.store, key, offers, e.config.SearchTTL); err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache search results")
	}
	return offers, nil
}

func (e *Engine) simpleQuery(req models.SearchRequest) providers.FlightOffersQuery {
	return providers.FlightOffersQuery{
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Adults:        req.Travelers.Adults,
		Children:      req.Travelers.Children,
		Infants:       req.Travelers.Infants,
		TravelClass:   req.CabinClass,
		Currency:      req.Currency,
		Max:           e.config.MaxOffers,
	}
}

func (e *Engine) multiCityBody(req models.SearchRequest) providers.MultiCitySearch {
	legs := normalize.OriginDestinations(req.Segments)
	body := providers.MultiCitySearch{
		CurrencyCode:       req.Currency,
		OriginDestinations: legs,
		Travelers:          normalize.ExpandTravelers(req.Travelers),
		Sources:            []string{"GDS"},
		SearchCriteria: providers.SearchCriteria{
			MaxFlightOffers: e.config.MaxOffers,
		},
	}

	if req.CabinClass != "" {
		ids := make([]string, len(legs))
		for i, leg := range legs {
			ids[i] = leg.ID
		}
		body.SearchCriteria.FlightFilters = &providers.FlightFilters{
			CabinRestrictions: []providers.CabinRestriction{{
				Cabin:                string(req.CabinClass),
				Coverage:             providers.CoverageMostSegments,
				OriginDestinationIDs: ids,
			}},
		}
	}
	return body
}

// ConfirmPrice asks the provider for the current price of offers. Prices
// are never served from or written to the cache.
func (e *Engine) ConfirmPrice(ctx context.Context, offers []models.FlightOffer) (json.RawMessage, error) {
	if len(offers) == 0 {
		return nil, models.NewValidationError("flightOffers", models.MsgRequired)
	}
	return e.flights.PriceFlightOffers(ctx, offers)
}

// CheapestDates lists the cheapest travel dates for a route. Provider
// failures yield an empty list; only non-empty results are cached.
func (e *Engine) CheapestDates(ctx context.Context, origin, destination, departureDate string) ([]json.RawMessage, error) {
	origin = strings.ToUpper(strings.TrimSpace(origin))
	destination = strings.ToUpper(strings.TrimSpace(destination))

	verr := &models.ValidationError{}
	if origin == "" {
		verr.Add("origin", models.MsgRequired)
	}
	if destination == "" {
		verr.Add("destination", models.MsgRequired)
	}
	if verr.HasErrors() {
		return nil, verr
	}

	key := datesKeyPrefix + origin + ":" + destination + ":" + departureDate

	var dates []json.RawMessage
	err := cache.GetJSON(ctx, e.store, key, &dates)
	if err == nil {
		return dates, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		e.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, fetching from provider")
	}

	dates, err = e.flights.SearchFlightDates(ctx, providers.FlightDatesQuery{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departureDate,
	})
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return []json.RawMessage{}, nil
	}

	if err := cache.SetJSON(ctx, e.store, key, dates, e.config.DatesTTL); err != nil {
		e.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache flight dates")
	}
	return dates, nil
}
