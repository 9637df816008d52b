package travel

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/dharmasatrya/travelhub/internal/cache"
	"github.com/dharmasatrya/travelhub/internal/normalize"
	"github.com/dharmasatrya/travelhub/internal/providers"
)

const (
	// MaxHotelIDs caps how many hotels from the city listing are priced.
	MaxHotelIDs = 20

	hotelKeyPrefix = "hotels:search:"
)

type HotelQuery struct {
	CityCode  string   `json:"cityCode" query:"cityCode" validate:"required,alpha,len=3"`
	CheckIn   string   `json:"checkInDate" query:"checkInDate" validate:"omitempty,datetime=2006-01-02"`
	CheckOut  string   `json:"checkOutDate" query:"checkOutDate" validate:"omitempty,datetime=2006-01-02"`
	Adults    int      `json:"adults" query:"adults" validate:"min=0,max=9"`
	Rooms     int      `json:"roomQuantity" query:"roomQuantity" validate:"min=0,max=9"`
	Radius    int      `json:"radius" query:"radius" validate:"min=0,max=300"`
	Ratings   []string `json:"ratings" query:"ratings" validate:"omitempty,dive,oneof=1 2 3 4 5"`
	Amenities []string `json:"amenities" query:"amenities"`
	Currency  string   `json:"currency" query:"currency" validate:"omitempty,alpha,len=3"`
}

// canonical normalizes case and list order so equivalent queries share a
// cache entry.
func (q HotelQuery) canonical() HotelQuery {
	q.CityCode = strings.ToUpper(strings.TrimSpace(q.CityCode))
	q.Currency = strings.ToUpper(strings.TrimSpace(q.Currency))
	q.Ratings = sortedUpper(q.Ratings)
	q.Amenities = sortedUpper(q.Amenities)
	return q
}

func sortedUpper(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToUpper(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// SearchHotels lists the hotels of a city and prices the first MaxHotelIDs
// of them. The combined result is cached under HotelSearch TTL.
func (s *Service) SearchHotels(ctx context.Context, q HotelQuery) ([]json.RawMessage, error) {
	if verr := normalize.FieldErrors(s.validate.Struct(q)); verr.HasErrors() {
		return nil, verr
	}
	q = q.canonical()
	key := hashKey(hotelKeyPrefix, q)

	var offers []json.RawMessage
	err := cache.GetJSON(ctx, s.store, key, &offers)
	if err == nil {
		s.logger.Debug().Str("key", key).Msg("Cache hit")
		return offers, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, fetching from provider")
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.fetchHotels(context.WithoutCancel(ctx), key, q)
	})
	if err != nil {
		return nil, err
	}
	return v.([]json.RawMessage), nil
}

func (s *Service) fetchHotels(ctx context.Context, key string, q HotelQuery) ([]json.RawMessage, error) {
	hotels, err := s.upstream.ListHotelsByCity(ctx, providers.HotelListQuery{
		CityCode:  q.CityCode,
		Radius:    q.Radius,
		Ratings:   q.Ratings,
		Amenities: q.Amenities,
	})
	if err != nil {
		return nil, err
	}

	offers := []json.RawMessage{}
	if len(hotels) > 0 {
		ids := make([]string, 0, min(len(hotels), MaxHotelIDs))
		for _, h := range hotels {
			if h.HotelID == "" {
				continue
			}
			ids = append(ids, h.HotelID)
			if len(ids) == MaxHotelIDs {
				break
			}
		}

		if len(ids) > 0 {
			offers, err = s.upstream.SearchHotelOffers(ctx, providers.HotelOffersQuery{
				HotelIDs:     ids,
				Adults:       q.Adults,
				CheckInDate:  q.CheckIn,
				CheckOutDate: q.CheckOut,
				RoomQuantity: q.Rooms,
				Currency:     q.Currency,
			})
			if err != nil {
				return nil, err
			}
		}
	}

	if err := cache.SetJSON(ctx, s.store, key, offers, s.ttl.HotelSearch); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache hotel offers")
	}
	return offers, nil
}
