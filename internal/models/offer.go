package models

import "encoding/json"

// FlightOffer is a provider flight offer. Only the fields read by the
// baggage filter are decoded; the original JSON is kept and written back
// unchanged.
type FlightOffer struct {
	ID               string            `json:"id"`
	Price            OfferPrice        `json:"price"`
	Itineraries      []Itinerary       `json:"itineraries"`
	TravelerPricings []TravelerPricing `json:"travelerPricings"`

	raw json.RawMessage
}

type offerFields FlightOffer

func (o *FlightOffer) UnmarshalJSON(data []byte) error {
	var f offerFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*o = FlightOffer(f)
	o.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (o FlightOffer) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	return json.Marshal(offerFields(o))
}

type OfferPrice struct {
	Currency   string `json:"currency,omitempty"`
	Total      string `json:"total"`
	Base       string `json:"base,omitempty"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

type Itinerary struct {
	Duration string          `json:"duration,omitempty"`
	Segments []FlightSegment `json:"segments"`
}

type FlightSegment struct {
	CarrierCode string      `json:"carrierCode"`
	Number      string      `json:"number,omitempty"`
	Departure   FlightPoint `json:"departure"`
	Arrival     FlightPoint `json:"arrival"`
	Duration    string      `json:"duration,omitempty"`
}

type FlightPoint struct {
	IataCode string `json:"iataCode"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at"`
}

type TravelerPricing struct {
	TravelerID           string       `json:"travelerId,omitempty"`
	TravelerType         string       `json:"travelerType,omitempty"`
	FareDetailsBySegment []FareDetail `json:"fareDetailsBySegment"`
}

type FareDetail struct {
	SegmentID           string       `json:"segmentId,omitempty"`
	Cabin               string       `json:"cabin,omitempty"`
	IncludedCheckedBags *CheckedBags `json:"includedCheckedBags,omitempty"`
}

type CheckedBags struct {
	Quantity   int     `json:"quantity,omitempty"`
	Weight     float64 `json:"weight,omitempty"`
	WeightUnit string  `json:"weightUnit,omitempty"`
}
