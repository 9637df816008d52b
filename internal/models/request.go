package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Mode string

const (
	ModeSimple    Mode = "SIMPLE"
	ModeMultiCity Mode = "MULTI_CITY"
)

type CabinClass string

const (
	CabinEconomy        CabinClass = "ECONOMY"
	CabinPremiumEconomy CabinClass = "PREMIUM_ECONOMY"
	CabinBusiness       CabinClass = "BUSINESS"
	CabinFirst          CabinClass = "FIRST"
)

// FlexInt accepts a JSON number, a numeric string, an empty string or null.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", s)
		}
		*f = FlexInt(n)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected an integer, got %s", data)
	}
	if n != float64(int(n)) {
		return fmt.Errorf("expected an integer, got %s", data)
	}
	*f = FlexInt(n)
	return nil
}

type SegmentPayload struct {
	Origin      string `json:"origin" validate:"required,alphanum,min=2,max=8"`
	Destination string `json:"destination" validate:"required,alphanum,min=2,max=8"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
}

type FilterPayload struct {
	CheckedBags FlexInt `json:"checkedBags" validate:"min=0"`
}

// SearchPayload is the search body as sent by the client, before normalization.
type SearchPayload struct {
	Origin        string           `json:"origin" validate:"omitempty,alphanum,min=2,max=8"`
	Destination   string           `json:"destination" validate:"omitempty,alphanum,min=2,max=8"`
	Date          string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DepartureDate string           `json:"departureDate" validate:"omitempty,datetime=2006-01-02"`
	ReturnDate    string           `json:"returnDate" validate:"omitempty,datetime=2006-01-02"`
	Adults        FlexInt          `json:"adults" validate:"min=0,max=9"`
	Children      FlexInt          `json:"children" validate:"min=0,max=9"`
	Infants       FlexInt          `json:"infants" validate:"min=0,max=9"`
	TravelClass   string           `json:"travelClass"`
	CurrencyCode  string           `json:"currencyCode" validate:"omitempty,alpha,len=3"`
	Segments      []SegmentPayload `json:"segments" validate:"omitempty,dive"`
	Filters       *FilterPayload   `json:"filters,omitempty"`
}

type Segment struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

type TravelerCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type PostFilters struct {
	MinCheckedBags int `json:"minCheckedBags"`
}

// SearchRequest is the canonical flight search. Origin, Destination and the
// dates are set in ModeSimple; Segments is set in ModeMultiCity.
type SearchRequest struct {
	Mode          Mode
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Segments      []Segment
	Travelers     TravelerCounts
	CabinClass    CabinClass
	Currency      string
	PostFilters   PostFilters
}

type TravelerType string

const (
	TravelerAdult TravelerType = "ADULT"
	TravelerChild TravelerType = "CHILD"
)

type Traveler struct {
	ID           string       `json:"id"`
	TravelerType TravelerType `json:"travelerType"`
}

type DateTimeRange struct {
	Date string `json:"date"`
}

type OriginDestination struct {
	ID                      string        `json:"id"`
	OriginLocationCode      string        `json:"originLocationCode"`
	DestinationLocationCode string        `json:"destinationLocationCode"`
	DepartureDateTimeRange  DateTimeRange `json:"departureDateTimeRange"`
}
