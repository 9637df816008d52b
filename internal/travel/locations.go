package travel

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"

	"github.com/dharmasatrya/travelhub/internal/cache"
	"github.com/dharmasatrya/travelhub/internal/models"
)

const (
	minKeywordLength  = 2
	locationKeyPrefix = "locations:"
)

var locationSubTypes = []string{"AIRPORT", "CITY"}

// Autocomplete looks up cities and airports by keyword. Results are cached
// under the Location TTL.
func (s *Service) Autocomplete(ctx context.Context, keyword string, subTypes []string) ([]json.RawMessage, error) {
	keyword = strings.ToUpper(strings.TrimSpace(keyword))
	if len([]rune(keyword)) < minKeywordLength {
		return nil, models.NewValidationError("keyword", "must be at least 2 characters")
	}

	subTypes = sortedUpper(subTypes)
	for _, st := range subTypes {
		if !slices.Contains(locationSubTypes, st) {
			return nil, models.NewValidationError("subType", "must be one of AIRPORT, CITY")
		}
	}
	if len(subTypes) == 0 {
		subTypes = locationSubTypes
	}

	key := locationKeyPrefix + strings.Join(subTypes, ",") + ":" + keyword

	var locations []json.RawMessage
	err := cache.GetJSON(ctx, s.store, key, &locations)
	if err == nil {
		return locations, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, fetching from provider")
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		found, err := s.upstream.SearchLocations(fetchCtx, keyword, subTypes)
		if err != nil {
			return nil, err
		}
		if found == nil {
			found = []json.RawMessage{}
		}
		if err := cache.SetJSON(fetchCtx, s.store, key, found, s.ttl.Location); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache locations")
		}
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]json.RawMessage), nil
}
