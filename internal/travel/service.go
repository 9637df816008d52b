// Package travel serves the non-flight lookups: hotels, locations,
// transfers, trip documents, activities and safety ratings.
package travel

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/dharmasatrya/travelhub/internal/cache"
	"github.com/dharmasatrya/travelhub/internal/logging"
	"github.com/dharmasatrya/travelhub/internal/normalize"
	"github.com/dharmasatrya/travelhub/internal/providers"
)

// Upstream is the slice of the provider API this package depends on.
type Upstream interface {
	providers.HotelSearcher
	providers.TransferSearcher
	providers.LocationSearcher
	providers.TripParser
	providers.ActivitySearcher
	providers.SafetyRater
}

type Service struct {
	upstream Upstream
	store    cache.Store
	ttl      cache.TTLPolicy
	validate *validator.Validate
	group    singleflight.Group
	logger   zerolog.Logger
}

func NewService(upstream Upstream, store cache.Store, ttl cache.TTLPolicy) *Service {
	return &Service{
		upstream: upstream,
		store:    store,
		ttl:      ttl,
		validate: normalize.NewValidator(),
		logger:   logging.NewLogger("travel"),
	}
}

// hashKey derives a fixed-length cache key from the JSON encoding of v.
func hashKey(prefix string, v any) string {
	data, _ := json.Marshal(v)
	sum := sha256.Sum256(data)
	return prefix + hex.EncodeToString(sum[:])
}
