package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/travelhub/internal/models"
	"github.com/dharmasatrya/travelhub/internal/providers"
	"github.com/dharmasatrya/travelhub/internal/travel"
)

// MaxTripDocumentBytes bounds uploaded trip documents.
const MaxTripDocumentBytes = 5 << 20

// TravelService is implemented by travel.Service.
type TravelService interface {
	SearchHotels(ctx context.Context, q travel.HotelQuery) ([]json.RawMessage, error)
	Autocomplete(ctx context.Context, keyword string, subTypes []string) ([]json.RawMessage, error)
	SearchTransfers(ctx context.Context, body json.RawMessage) ([]json.RawMessage, error)
	ParseTripDocument(ctx context.Context, doc providers.TripDocument) (json.RawMessage, error)
	Activities(ctx context.Context, lat, lon float64, radiusKm int) ([]json.RawMessage, error)
	SafetyScore(ctx context.Context, lat, lon float64, radiusKm int) (json.RawMessage, error)
}

type TravelHandler struct {
	service TravelService
}

func NewTravelHandler(service TravelService) *TravelHandler {
	return &TravelHandler{service: service}
}

func (h *TravelHandler) Hotels(c echo.Context) error {
	var q travel.HotelQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return bindError("query", err)
	}
	q.Ratings = splitList(q.Ratings)
	q.Amenities = splitList(q.Amenities)

	offers, err := h.service.SearchHotels(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ListResponse{Data: offers})
}

func (h *TravelHandler) Locations(c echo.Context) error {
	locations, err := h.service.Autocomplete(
		c.Request().Context(),
		c.QueryParam("keyword"),
		splitList(c.QueryParams()["subType"]),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ListResponse{Data: locations})
}

func (h *TravelHandler) Transfers(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return bindError("body", err)
	}

	offers, err := h.service.SearchTransfers(c.Request().Context(), body)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ListResponse{Data: offers})
}

func (h *TravelHandler) ParseTrip(c echo.Context) error {
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, MaxTripDocumentBytes+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return models.NewValidationError("file", "must not exceed 5 MB")
		}
		return models.NewValidationError("file", models.MsgRequired)
	}
	if fh.Size > MaxTripDocumentBytes {
		return models.NewValidationError("file", "must not exceed 5 MB")
	}

	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, MaxTripDocumentBytes))
	if err != nil {
		return err
	}

	trip, err := h.service.ParseTripDocument(c.Request().Context(), providers.TripDocument{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Content:     content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ObjectResponse{Data: trip})
}

func (h *TravelHandler) Activities(c echo.Context) error {
	lat, lon, radius, err := geoParams(c)
	if err != nil {
		return err
	}

	activities, err := h.service.Activities(c.Request().Context(), lat, lon, radius)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ListResponse{Data: activities})
}

func (h *TravelHandler) Safety(c echo.Context) error {
	lat, lon, radius, err := geoParams(c)
	if err != nil {
		return err
	}

	rating, err := h.service.SafetyScore(c.Request().Context(), lat, lon, radius)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ObjectResponse{Data: rating})
}

func geoParams(c echo.Context) (lat, lon float64, radius int, err error) {
	radius = 1
	err = echo.QueryParamsBinder(c).
		MustFloat64("latitude", &lat).
		MustFloat64("longitude", &lon).
		Int("radius", &radius).
		BindError()
	if err != nil {
		var bindErr *echo.BindingError
		if errors.As(err, &bindErr) && bindErr.Field != "" {
			if len(bindErr.Values) == 0 {
				return 0, 0, 0, models.NewValidationError(bindErr.Field, models.MsgRequired)
			}
			return 0, 0, 0, models.NewValidationError(bindErr.Field, "must be a number")
		}
		return 0, 0, 0, bindError("query", err)
	}
	return lat, lon, radius, nil
}

// splitList accepts both repeated parameters and comma separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
