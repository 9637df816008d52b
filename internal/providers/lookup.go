package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
)

type GeoQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  int
}

func (q GeoQuery) values() url.Values {
	v := url.Values{}
	v.Set("latitude", formatFloat(q.Latitude))
	v.Set("longitude", formatFloat(q.Longitude))
	if q.RadiusKm > 0 {
		v.Set("radius", strconv.Itoa(q.RadiusKm))
	}
	return v
}

type TripDocument struct {
	Name        string
	ContentType string
	Content     []byte
}

type tripParserBody struct {
	Payload  string           `json:"payload"`
	Metadata tripParserFields `json:"metadata"`
}

type tripParserFields struct {
	DocumentType string `json:"documentType"`
	Name         string `json:"name"`
	Encoding     string `json:"encoding"`
}

// documentType picks the parser document type from the MIME type, falling
// back to the file extension.
func (d TripDocument) documentType() string {
	switch ct := strings.ToLower(d.ContentType); {
	case strings.Contains(ct, "pdf"):
		return "pdf"
	case strings.Contains(ct, "html"):
		return "html"
	case strings.Contains(ct, "rfc822"):
		return "eml"
	case strings.HasPrefix(ct, "image/"):
		return strings.TrimPrefix(ct, "image/")
	}
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(d.Name)), "."); ext != "" {
		return ext
	}
	return "pdf"
}

func (c *Client) SearchTransferOffers(ctx context.Context, body json.RawMessage) ([]json.RawMessage, error) {
	var resp envelope[[]json.RawMessage]
	err := c.do(ctx, apiRequest{
		op:     OpTransferOffers,
		method: http.MethodPost,
		path:   "/v1/shopping/transfer-offers",
		body:   body,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Data), nil
}

func (c *Client) SearchLocations(ctx context.Context, keyword string, subTypes []string) ([]json.RawMessage, error) {
	v := url.Values{}
	v.Set("keyword", keyword)
	if len(subTypes) == 0 {
		subTypes = []string{"CITY", "AIRPORT"}
	}
	v.Set("subType", commaJoin(subTypes))

	var resp envelope[[]json.RawMessage]
	err := c.do(ctx, apiRequest{
		op:     OpLocations,
		method: http.MethodGet,
		path:   "/v1/reference-data/locations",
		query:  v,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Data), nil
}

func (c *Client) ParseTrip(ctx context.Context, doc TripDocument) (json.RawMessage, error) {
	name := doc.Name
	if name == "" {
		name = "BOOKING_DOCUMENT"
	}
	body := tripParserBody{
		Payload: base64.StdEncoding.EncodeToString(doc.Content),
		Metadata: tripParserFields{
			DocumentType: doc.documentType(),
			Name:         name,
			Encoding:     "BASE64",
		},
	}

	var resp envelope[json.RawMessage]
	err := c.do(ctx, apiRequest{
		op:     OpTripParser,
		method: http.MethodPost,
		path:   "/v3/travel/trip-parser",
		body:   body,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) SearchActivities(ctx context.Context, q GeoQuery) ([]json.RawMessage, error) {
	var resp envelope[[]json.RawMessage]
	err := c.do(ctx, apiRequest{
		op:     OpActivities,
		method: http.MethodGet,
		path:   "/v1/shopping/activities",
		query:  q.values(),
	}, &resp)
	if err != nil {
		return nil, err
	}
	return nonNil(resp.Data), nil
}

// SafetyRating returns the closest safety-rated location, or nil when the
// provider has none for the area.
func (c *Client) SafetyRating(ctx context.Context, q GeoQuery) (json.RawMessage, error) {
	var resp envelope[[]json.RawMessage]
	err := c.do(ctx, apiRequest{
		op:     OpSafety,
		method: http.MethodGet,
		path:   "/v1/safety/safety-rated-locations",
		query:  q.values(),
	}, &resp)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return resp.Data[0], nil
}
