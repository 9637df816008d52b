package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/dharmasatrya/travelhub/internal/models"
)

const searchKeyPrefix = "flights:search:"

// CacheKey derives the cache key of a normalized search. The key covers
// every parameter sent upstream. Post filters are left out because the
// cache holds unfiltered offers and filters are re-applied on each read.
func CacheKey(req models.SearchRequest) string {
	keyData := struct {
		Mode          models.Mode       `json:"mode"`
		Origin        string            `json:"origin"`
		Destination   string            `json:"destination"`
		DepartureDate string            `json:"departureDate"`
		ReturnDate    string            `json:"returnDate"`
		Segments      []models.Segment  `json:"segments"`
		Adults        int               `json:"adults"`
		Children      int               `json:"children"`
		Infants       int               `json:"infants"`
		CabinClass    models.CabinClass `json:"cabinClass"`
		Currency      string            `json:"currency"`
	}{
		Mode:          req.Mode,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Segments:      req.Segments,
		Adults:        req.Travelers.Adults,
		Children:      req.Travelers.Children,
		Infants:       req.Travelers.Infants,
		CabinClass:    req.CabinClass,
		Currency:      req.Currency,
	}

	data, _ := json.Marshal(keyData)
	hash := sha256.Sum256(data)
	return searchKeyPrefix + hex.EncodeToString(hash[:])
}
