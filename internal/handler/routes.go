package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo, flights *FlightHandler, travel *TravelHandler) {
	e.GET("/health", HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	v1.POST("/flights/search", flights.Search)
	v1.POST("/flights/price", flights.Price)
	v1.GET("/flights/cheapest-dates", flights.CheapestDates)

	v1.GET("/hotels", travel.Hotels)
	v1.POST("/transfers/search", travel.Transfers)
	v1.GET("/locations", travel.Locations)
	v1.POST("/trips/parse", travel.ParseTrip)
	v1.GET("/activities", travel.Activities)
	v1.GET("/safety", travel.Safety)
}
