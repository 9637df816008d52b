package travel

import (
	"context"
	"encoding/json"

	"github.com/dharmasatrya/travelhub/internal/models"
	"github.com/dharmasatrya/travelhub/internal/providers"
)

const maxRadiusKm = 20

// SearchTransfers forwards a transfer search body unchanged.
func (s *Service) SearchTransfers(ctx context.Context, body json.RawMessage) ([]json.RawMessage, error) {
	var probe map[string]json.RawMessage
	if len(body) == 0 || json.Unmarshal(body, &probe) != nil || len(probe) == 0 {
		return nil, models.NewValidationError("body", "must be a non-empty JSON object")
	}
	return s.upstream.SearchTransferOffers(ctx, body)
}

func (s *Service) ParseTripDocument(ctx context.Context, doc providers.TripDocument) (json.RawMessage, error) {
	if len(doc.Content) == 0 {
		return nil, models.NewValidationError("file", models.MsgRequired)
	}
	return s.upstream.ParseTrip(ctx, doc)
}

// Activities lists tours and activities around a point. It never fails on
// provider errors; the list is simply empty.
func (s *Service) Activities(ctx context.Context, lat, lon float64, radiusKm int) ([]json.RawMessage, error) {
	if verr := validateGeo(lat, lon, radiusKm); verr.HasErrors() {
		return nil, verr
	}
	activities, err := s.upstream.SearchActivities(ctx, providers.GeoQuery{Latitude: lat, Longitude: lon, RadiusKm: radiusKm})
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []json.RawMessage{}
	}
	return activities, nil
}

// SafetyScore returns the safety rating closest to a point, or nil when the
// provider has none or fails.
func (s *Service) SafetyScore(ctx context.Context, lat, lon float64, radiusKm int) (json.RawMessage, error) {
	if verr := validateGeo(lat, lon, radiusKm); verr.HasErrors() {
		return nil, verr
	}
	return s.upstream.SafetyRating(ctx, providers.GeoQuery{Latitude: lat, Longitude: lon, RadiusKm: radiusKm})
}

func validateGeo(lat, lon float64, radiusKm int) *models.ValidationError {
	verr := &models.ValidationError{}
	if lat < -90 || lat > 90 {
		verr.Add("latitude", "must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		verr.Add("longitude", "must be between -180 and 180")
	}
	if radiusKm < 0 || radiusKm > maxRadiusKm {
		verr.Add("radius", "must be between 0 and 20")
	}
	return verr
}
