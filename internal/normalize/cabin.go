package normalize

import (
	"strings"

	"github.com/dharmasatrya/travelhub/internal/models"
)

var cabinClasses = map[string]models.CabinClass{
	"economy":         models.CabinEconomy,
	"premium_economy": models.CabinPremiumEconomy,
	"business":        models.CabinBusiness,
	"first":           models.CabinFirst,
}

// MapCabinClass maps a client travel class to the provider cabin. Unknown
// non-empty values are passed through upper-cased rather than rejected;
// clients depend on that.
func MapCabinClass(travelClass string) models.CabinClass {
	s := strings.TrimSpace(travelClass)
	if s == "" {
		return ""
	}
	if cabin, ok := cabinClasses[strings.ToLower(s)]; ok {
		return cabin
	}
	return models.CabinClass(strings.ToUpper(s))
}
