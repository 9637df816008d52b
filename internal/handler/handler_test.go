package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/travelhub/internal/models"
	"github.com/dharmasatrya/travelhub/internal/normalize"
	"github.com/dharmasatrya/travelhub/internal/providers"
	"github.com/dharmasatrya/travelhub/internal/travel"
)

type stubEngine struct {
	lastReq   models.SearchRequest
	offers    []models.FlightOffer
	err       error
	lastDates [3]string
}

func (s *stubEngine) Search(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, error) {
	s.lastReq = req
	return s.offers, s.err
}

func (s *stubEngine) ConfirmPrice(ctx context.Context, offers []models.FlightOffer) (json.RawMessage, error) {
	if len(offers) == 0 {
		return nil, models.NewValidationError("flightOffers", models.MsgRequired)
	}
	return json.RawMessage(`{"priced":true}`), s.err
}

func (s *stubEngine) CheapestDates(ctx context.Context, origin, destination, departureDate string) ([]json.RawMessage, error) {
	s.lastDates = [3]string{origin, destination, departureDate}
	return []json.RawMessage{}, s.err
}

type stubTravel struct {
	lastHotel    travel.HotelQuery
	lastKeyword  string
	lastSubTypes []string
	lastTrip     providers.TripDocument
	lastGeo      [2]float64
	lastRadius   int
	err          error
}

func (s *stubTravel) SearchHotels(ctx context.Context, q travel.HotelQuery) ([]json.RawMessage, error) {
	s.lastHotel = q
	return []json.RawMessage{json.RawMessage(`{"hotel":1}`)}, s.err
}

func (s *stubTravel) Autocomplete(ctx context.Context, keyword string, subTypes []string) ([]json.RawMessage, error) {
	s.lastKeyword = keyword
	s.lastSubTypes = subTypes
	return []json.RawMessage{}, s.err
}

func (s *stubTravel) SearchTransfers(ctx context.Context, body json.RawMessage) ([]json.RawMessage, error) {
	return []json.RawMessage{body}, s.err
}

func (s *stubTravel) ParseTripDocument(ctx context.Context, doc providers.TripDocument) (json.RawMessage, error) {
	s.lastTrip = doc
	return json.RawMessage(`{"trip":true}`), s.err
}

func (s *stubTravel) Activities(ctx context.Context, lat, lon float64, radiusKm int) ([]json.RawMessage, error) {
	s.lastGeo = [2]float64{lat, lon}
	s.lastRadius = radiusKm
	return []json.RawMessage{}, s.err
}

func (s *stubTravel) SafetyScore(ctx context.Context, lat, lon float64, radiusKm int) (json.RawMessage, error) {
	s.lastGeo = [2]float64{lat, lon}
	return nil, s.err
}

func newTestServer(engine *stubEngine, svc *stubTravel) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	RegisterRoutes(e, NewFlightHandler(engine, normalize.New("MUC")), NewTravelHandler(svc))
	return e
}

func do(e *echo.Echo, method, target, contentType string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSearch_NormalizesAndResponds(t *testing.T) {
	engine := &stubEngine{offers: []models.FlightOffer{{ID: "1"}}}
	e := newTestServer(engine, &stubTravel{})

	rec := do(e, http.MethodPost, "/api/v1/flights/search", echo.MIMEApplicationJSON,
		[]byte(`{"destination":"lis","date":"2025-06-01","adults":"2","travelClass":"business","filters":{"checkedBags":"1"}}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	req := engine.lastReq
	if req.Origin != "MUC" || req.Destination != "LIS" || req.DepartureDate != "2025-06-01" {
		t.Errorf("request = %+v", req)
	}
	if req.Travelers.Adults != 2 || req.CabinClass != models.CabinBusiness || req.PostFilters.MinCheckedBags != 1 {
		t.Errorf("request = %+v", req)
	}

	var resp models.SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Meta.Count != 1 || resp.Meta.Mode != models.ModeSimple || len(resp.Data) != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestSearch_ValidationError(t *testing.T) {
	e := newTestServer(&stubEngine{}, &stubTravel{})

	rec := do(e, http.MethodPost, "/api/v1/flights/search", echo.MIMEApplicationJSON, []byte(`{"date":"2025-06-01"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeError(t, rec)
	details, ok := body.Details.(map[string]any)
	if body.Error != errValidation || !ok || details["destination"] == nil {
		t.Errorf("body = %+v", body)
	}
}

func TestSearch_MalformedBody(t *testing.T) {
	e := newTestServer(&stubEngine{}, &stubTravel{})

	for _, payload := range []string{`{"destination":`, `{"destination":"LIS","adults":1.5}`} {
		rec := do(e, http.MethodPost, "/api/v1/flights/search", echo.MIMEApplicationJSON, []byte(payload))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %s: status = %d", payload, rec.Code)
		}
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"upstream", providers.NewUpstreamError(providers.OpFlightOffers, 500, providers.ErrorClassServer, errors.New("secret upstream detail")), http.StatusBadGateway, errUpstream},
		{"timeout", providers.NewUpstreamError(providers.OpFlightOffers, 0, providers.ErrorClassTimeout, context.DeadlineExceeded), http.StatusGatewayTimeout, errUpstreamTimeout},
		{"wrapped", fmt.Errorf("search: %w", providers.NewUpstreamError(providers.OpFlightOffers, 401, providers.ErrorClassAuth, errors.New("bad"))), http.StatusBadGateway, errUpstream},
		{"internal", errors.New("boom"), http.StatusInternalServerError, errInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(&stubEngine{err: tt.err}, &stubTravel{})
			rec := do(e, http.MethodPost, "/api/v1/flights/search", echo.MIMEApplicationJSON,
				[]byte(`{"origin":"MUC","destination":"LIS","departureDate":"2025-06-01"}`))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if body := decodeError(t, rec); body.Error != tt.code {
				t.Errorf("error = %q, want %q", body.Error, tt.code)
			}
			if strings.Contains(rec.Body.String(), "secret upstream detail") {
				t.Error("upstream detail leaked to client")
			}
		})
	}
}

func TestPrice(t *testing.T) {
	e := newTestServer(&stubEngine{}, &stubTravel{})

	rec := do(e, http.MethodPost, "/api/v1/flights/price", echo.MIMEApplicationJSON, []byte(`{"flightOffers":[{"id":"1"}]}`))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"priced":true`) {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodPost, "/api/v1/flights/price", echo.MIMEApplicationJSON, []byte(`{"flightOffers":[]}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty offers status = %d", rec.Code)
	}
}

func TestCheapestDates_Query(t *testing.T) {
	engine := &stubEngine{}
	e := newTestServer(engine, &stubTravel{})

	rec := do(e, http.MethodGet, "/api/v1/flights/cheapest-dates?origin=MAD&destination=MUC&departureDate=2025-06-01", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if engine.lastDates != [3]string{"MAD", "MUC", "2025-06-01"} {
		t.Errorf("args = %v", engine.lastDates)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"data":[]}` {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHotels_QueryBinding(t *testing.T) {
	svc := &stubTravel{}
	e := newTestServer(&stubEngine{}, svc)

	rec := do(e, http.MethodGet, "/api/v1/hotels?cityCode=PAR&adults=2&ratings=4,5&amenities=SPA&amenities=WIFI", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	q := svc.lastHotel
	if q.CityCode != "PAR" || q.Adults != 2 {
		t.Errorf("query = %+v", q)
	}
	if fmt.Sprint(q.Ratings) != "[4 5]" || fmt.Sprint(q.Amenities) != "[SPA WIFI]" {
		t.Errorf("lists = %v %v", q.Ratings, q.Amenities)
	}

	rec = do(e, http.MethodGet, "/api/v1/hotels?cityCode=PAR&adults=two", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad adults status = %d", rec.Code)
	}
}

func TestLocations(t *testing.T) {
	svc := &stubTravel{}
	e := newTestServer(&stubEngine{}, svc)

	rec := do(e, http.MethodGet, "/api/v1/locations?keyword=mun&subType=CITY,AIRPORT", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.lastKeyword != "mun" || fmt.Sprint(svc.lastSubTypes) != "[CITY AIRPORT]" {
		t.Errorf("keyword=%q subTypes=%v", svc.lastKeyword, svc.lastSubTypes)
	}
}

func TestTransfers_PassesBody(t *testing.T) {
	e := newTestServer(&stubEngine{}, &stubTravel{})

	rec := do(e, http.MethodPost, "/api/v1/transfers/search", echo.MIMEApplicationJSON, []byte(`{"startLocationCode":"CDG"}`))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "CDG") {
		t.Errorf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestParseTrip_Multipart(t *testing.T) {
	svc := &stubTravel{}
	e := newTestServer(&stubEngine{}, svc)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "booking.pdf")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte("%PDF-1.4"))
	_ = w.Close()

	rec := do(e, http.MethodPost, "/api/v1/trips/parse", w.FormDataContentType(), buf.Bytes())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if svc.lastTrip.Name != "booking.pdf" || string(svc.lastTrip.Content) != "%PDF-1.4" {
		t.Errorf("doc = %+v", svc.lastTrip)
	}

	rec = do(e, http.MethodPost, "/api/v1/trips/parse", echo.MIMEApplicationJSON, []byte(`{}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing file status = %d", rec.Code)
	}
}

func TestGeoEndpoints(t *testing.T) {
	svc := &stubTravel{}
	e := newTestServer(&stubEngine{}, svc)

	rec := do(e, http.MethodGet, "/api/v1/activities?latitude=41.39&longitude=2.17", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if svc.lastGeo != [2]float64{41.39, 2.17} || svc.lastRadius != 1 {
		t.Errorf("geo = %v radius = %d", svc.lastGeo, svc.lastRadius)
	}

	rec = do(e, http.MethodGet, "/api/v1/safety?latitude=41.39&longitude=2.17", "", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"data":null}` {
		t.Errorf("safety status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = do(e, http.MethodGet, "/api/v1/activities?longitude=2.17", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing latitude status = %d", rec.Code)
	}
	body := decodeError(t, rec)
	if details, _ := body.Details.(map[string]any); details["latitude"] == nil {
		t.Errorf("details = %v", body.Details)
	}

	rec = do(e, http.MethodGet, "/api/v1/safety?latitude=north&longitude=2.17", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad latitude status = %d", rec.Code)
	}
}

func TestHealthAndUnknownRoute(t *testing.T) {
	e := newTestServer(&stubEngine{}, &stubTravel{})

	if rec := do(e, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
	if rec := do(e, http.MethodGet, "/api/v1/nope", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d", rec.Code)
	}
}
