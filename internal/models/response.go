package models

import "encoding/json"

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

type PriceRequest struct {
	FlightOffers []FlightOffer `json:"flightOffers"`
}

// SearchResponse wraps flight offers with request level metadata.
type SearchResponse struct {
	Data []FlightOffer `json:"data"`
	Meta SearchMeta    `json:"meta"`
}

type SearchMeta struct {
	Mode           Mode  `json:"mode"`
	Count          int   `json:"count"`
	MinCheckedBags int   `json:"minCheckedBags,omitempty"`
	SearchTimeMs   int64 `json:"searchTimeMs"`
}

// ListResponse carries provider records passed through unchanged.
type ListResponse struct {
	Data []json.RawMessage `json:"data"`
}

// ObjectResponse carries a single provider record, or null.
type ObjectResponse struct {
	Data json.RawMessage `json:"data"`
}
