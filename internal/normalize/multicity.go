package normalize

import (
	"strconv"

	"github.com/dharmasatrya/travelhub/internal/models"
)

// ExpandTravelers lists one traveler per adult, then one per child, with ids
// "1".."n". Infants are not listed for multi-city searches.
func ExpandTravelers(counts models.TravelerCounts) []models.Traveler {
	travelers := make([]models.Traveler, 0, counts.Adults+counts.Children)
	for i := 0; i < counts.Adults; i++ {
		travelers = append(travelers, models.Traveler{
			ID:           strconv.Itoa(len(travelers) + 1),
			TravelerType: models.TravelerAdult,
		})
	}
	for i := 0; i < counts.Children; i++ {
		travelers = append(travelers, models.Traveler{
			ID:           strconv.Itoa(len(travelers) + 1),
			TravelerType: models.TravelerChild,
		})
	}
	return travelers
}

// OriginDestinations builds one leg per segment, ids "1".."n" in travel order.
func OriginDestinations(segments []models.Segment) []models.OriginDestination {
	legs := make([]models.OriginDestination, len(segments))
	for i, s := range segments {
		legs[i] = models.OriginDestination{
			ID:                      strconv.Itoa(i + 1),
			OriginLocationCode:      s.Origin,
			DestinationLocationCode: s.Destination,
			DepartureDateTimeRange:  models.DateTimeRange{Date: s.Date},
		}
	}
	return legs
}
