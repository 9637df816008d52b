package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/travelhub/internal/models"
)

// FlightEngine is implemented by aggregator.Engine.
type FlightEngine interface {
	Search(ctx context.Context, req models.SearchRequest) ([]models.FlightOffer, error)
	ConfirmPrice(ctx context.Context, offers []models.FlightOffer) (json.RawMessage, error)
	CheapestDates(ctx context.Context, origin, destination, departureDate string) ([]json.RawMessage, error)
}

// RequestNormalizer is implemented by normalize.Normalizer.
type RequestNormalizer interface {
	Normalize(p models.SearchPayload) (models.SearchRequest, error)
}

type FlightHandler struct {
	engine     FlightEngine
	normalizer RequestNormalizer
}

func NewFlightHandler(engine FlightEngine, normalizer RequestNormalizer) *FlightHandler {
	return &FlightHandler{
		engine:     engine,
		normalizer: normalizer,
	}
}

func (h *FlightHandler) Search(c echo.Context) error {
	startTime := time.Now()

	var payload models.SearchPayload
	if err := c.Bind(&payload); err != nil {
		return bindError("body", err)
	}

	req, err := h.normalizer.Normalize(payload)
	if err != nil {
		return err
	}

	offers, err := h.engine.Search(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.SearchResponse{
		Data: offers,
		Meta: models.SearchMeta{
			Mode:           req.Mode,
			Count:          len(offers),
			MinCheckedBags: req.PostFilters.MinCheckedBags,
			SearchTimeMs:   time.Since(startTime).Milliseconds(),
		},
	})
}

func (h *FlightHandler) Price(c echo.Context) error {
	var payload models.PriceRequest
	if err := c.Bind(&payload); err != nil {
		return bindError("body", err)
	}

	priced, err := h.engine.ConfirmPrice(c.Request().Context(), payload.FlightOffers)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ObjectResponse{Data: priced})
}

func (h *FlightHandler) CheapestDates(c echo.Context) error {
	dates, err := h.engine.CheapestDates(
		c.Request().Context(),
		c.QueryParam("origin"),
		c.QueryParam("destination"),
		c.QueryParam("departureDate"),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, models.ListResponse{Data: dates})
}
