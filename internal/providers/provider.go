package providers

import (
	"context"
	"encoding/json"

	"github.com/dharmasatrya/travelhub/internal/models"
)

// FlightSearcher is the flight side of the upstream API.
type FlightSearcher interface {
	SearchFlightOffers(ctx context.Context, q FlightOffersQuery) ([]models.FlightOffer, error)
	SearchFlightOffersMultiCity(ctx context.Context, body MultiCitySearch) ([]models.FlightOffer, error)
	PriceFlightOffers(ctx context.Context, offers []models.FlightOffer) (json.RawMessage, error)
	SearchFlightDates(ctx context.Context, q FlightDatesQuery) ([]json.RawMessage, error)
}

type HotelSearcher interface {
	ListHotelsByCity(ctx context.Context, q HotelListQuery) ([]HotelRef, error)
	SearchHotelOffers(ctx context.Context, q HotelOffersQuery) ([]json.RawMessage, error)
}

type TransferSearcher interface {
	SearchTransferOffers(ctx context.Context, body json.RawMessage) ([]json.RawMessage, error)
}

type LocationSearcher interface {
	SearchLocations(ctx context.Context, keyword string, subTypes []string) ([]json.RawMessage, error)
}

type TripParser interface {
	ParseTrip(ctx context.Context, doc TripDocument) (json.RawMessage, error)
}

type ActivitySearcher interface {
	SearchActivities(ctx context.Context, q GeoQuery) ([]json.RawMessage, error)
}

type SafetyRater interface {
	SafetyRating(ctx context.Context, q GeoQuery) (json.RawMessage, error)
}
