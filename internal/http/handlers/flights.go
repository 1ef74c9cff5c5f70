package handlers

import (
	"net/http"

	"swiftlink/internal/domain"
	"swiftlink/internal/services"

	"github.com/gin-gonic/gin"
)

type addFlightRequest struct {
	From          string        `json:"from"`
	To            string        `json:"to"`
	DepartureDate string        `json:"departureDate"`
	AvailableKg   domain.Grams  `json:"availableKg"`
	PricePerKg    *domain.Cents `json:"pricePerKg"`
}

type updateFlightStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) AddFlight(c *gin.Context) {
	var req addFlightRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	f, err := h.flights(c).Add(c.Request.Context(), caller(c), services.AddFlightInput{
		From:          req.From,
		To:            req.To,
		DepartureDate: req.DepartureDate,
		AvailableKg:   req.AvailableKg,
		PricePerKg:    req.PricePerKg,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Flight added successfully", "flight": f})
}

func (h *Handler) ListFlights(c *gin.Context) {
	list, err := h.flights(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) ListAvailableFlights(c *gin.Context) {
	list, err := h.flights(c).ListAvailable(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) UpdateFlightStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req updateFlightStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	f, err := h.flights(c).UpdateStatus(c.Request.Context(), caller(c), id, req.Status)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Flight status updated", "flight": f})
}
