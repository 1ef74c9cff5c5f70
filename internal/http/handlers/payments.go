package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type initializePaymentRequest struct {
	TrackingCode string `json:"trackingCode"`
}

func (h *Handler) InitializePayment(c *gin.Context) {
	var req initializePaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := h.payments(c).Initialize(c.Request.Context(), caller(c), req.TrackingCode)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ListShipmentPayments(c *gin.Context) {
	list, err := h.payments(c).ListByShipment(c.Request.Context(), c.Param("trackingCode"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
