package handlers

import (
	"net/http"

	"swiftlink/internal/domain"
	"swiftlink/internal/domain/models"
	"swiftlink/internal/services"

	"github.com/gin-gonic/gin"
)

type createShipmentRequest struct {
	FlightID           domain.ID    `json:"flightId"`
	ItemWeight         domain.Grams `json:"itemWeight"`
	AcceptorName       string       `json:"acceptorName"`
	AcceptorPhone      string       `json:"acceptorPhone"`
	AcceptorNationalID string       `json:"acceptorNationalId"`
}

type verifyAcceptorRequest struct {
	NationalID string `json:"nationalId"`
}

func (h *Handler) CreateShipment(c *gin.Context) {
	var req createShipmentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	rc := caller(c)
	sh, err := h.shipments(c).Create(c.Request.Context(), services.CreateShipmentInput{
		FlightID:   req.FlightID,
		SenderID:   rc.UserID,
		ItemWeight: req.ItemWeight,
		Acceptor: models.Acceptor{
			Name:       req.AcceptorName,
			Phone:      req.AcceptorPhone,
			NationalID: req.AcceptorNationalID,
		},
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Shipment created", "shipment": sh})
}

// TrackShipment is public; the view carries no credentials or ID numbers.
func (h *Handler) TrackShipment(c *gin.Context) {
	v, err := h.tracking.Lookup(c.Request.Context(), c.Param("trackingCode"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) ConfirmDelivery(c *gin.Context) {
	res, err := h.shipments(c).ConfirmDelivery(c.Request.Context(), c.Param("trackingCode"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Delivery confirmed and payment released",
		"shipment":       res.Shipment,
		"amountReleased": res.AmountReleased,
		"platformFee":    res.PlatformFee,
		"payment":        res.Payment,
	})
}

func (h *Handler) PickupShipment(c *gin.Context) {
	sh, err := h.shipments(c).Pickup(c.Request.Context(), c.Param("trackingCode"), caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shipment picked up", "shipment": sh})
}

func (h *Handler) CancelShipment(c *gin.Context) {
	sh, err := h.shipments(c).Cancel(c.Request.Context(), c.Param("trackingCode"), caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Shipment cancelled", "shipment": sh})
}

func (h *Handler) VerifyAcceptor(c *gin.Context) {
	var req verifyAcceptorRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	sh, err := h.shipments(c).VerifyAcceptor(c.Request.Context(), c.Param("trackingCode"), req.NationalID, caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Acceptor verified", "shipment": sh})
}

func (h *Handler) MyShipments(c *gin.Context) {
	list, err := h.shipments(c).ListMine(c.Request.Context(), caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) ShipmentWaybill(c *gin.Context) {
	sh, err := h.shipments(c).GetForParty(c.Request.Context(), c.Param("trackingCode"), caller(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdf, filename, err := h.docs(c).GenerateWaybill(c.Request.Context(), sh)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, pdf, filename)
}

func (h *Handler) ShipmentReceipt(c *gin.Context) {
	rc := caller(c)
	sh, err := h.shipments(c).GetForParty(c.Request.Context(), c.Param("trackingCode"), rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if sh.SenderID == rc.UserID && sh.CarrierID != rc.UserID {
		RespondDomainError(c, domain.ForbiddenError{Msg: "payout receipts are for the carrier"})
		return
	}
	pdf, filename, err := h.docs(c).GenerateReceipt(c.Request.Context(), sh)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, pdf, filename)
}
