// Package filter applies constraints the upstream search API cannot take as
// request parameters.
package filter

import "github.com/dharmasatrya/travelhub/internal/models"

// Baggage keeps the offers that include at least minCheckedBags checked
// bags. With minCheckedBags <= 0 the input slice is returned as is.
//
// An offer qualifies when any traveler has any segment whose allowance
// meets the count or is expressed as a positive weight. This does not prove
// the allowance covers every segment of the journey.
func Baggage(offers []models.FlightOffer, minCheckedBags int) []models.FlightOffer {
	if minCheckedBags <= 0 {
		return offers
	}

	result := make([]models.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if includesCheckedBags(o, minCheckedBags) {
			result = append(result, o)
		}
	}
	return result
}

func includesCheckedBags(o models.FlightOffer, min int) bool {
	for _, tp := range o.TravelerPricings {
		for _, fd := range tp.FareDetailsBySegment {
			bags := fd.IncludedCheckedBags
			if bags == nil {
				continue
			}
			if bags.Quantity >= min || bags.Weight > 0 {
				return true
			}
		}
	}
	return false
}
