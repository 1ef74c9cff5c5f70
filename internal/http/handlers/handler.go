package handlers

import (
	"database/sql"

	"swiftlink/internal/auth"
	"swiftlink/internal/gateway"
	"swiftlink/internal/http/middleware"
	"swiftlink/internal/notify"
	"swiftlink/internal/repositories"
	"swiftlink/internal/services"

	"github.com/gin-gonic/gin"
)

// Deps is everything the handlers need. Nothing is read from globals.
type Deps struct {
	DB                       *sql.DB
	Tokens                   *auth.TokenIssuer
	Notify                   notify.Dispatcher
	Gateway                  gateway.Gateway
	Currency                 string
	RequirePhoneVerification bool
}

type Handler struct {
	deps     Deps
	tracking services.TrackingService
}

func New(d Deps) *Handler {
	return &Handler{
		deps:     d,
		tracking: services.NewTrackingService(repositories.ShipmentRepository{DB: d.DB}),
	}
}

func (h *Handler) shipments(c *gin.Context) services.ShipmentService {
	svc := services.NewShipmentService(h.deps.DB, h.deps.Notify)
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}

func (h *Handler) flights(c *gin.Context) services.FlightService {
	return services.FlightService{
		Flights:   repositories.FlightRepository{DB: h.deps.DB},
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) accounts(c *gin.Context) services.AuthService {
	return services.AuthService{
		Users:                    repositories.UserRepository{DB: h.deps.DB},
		Tokens:                   h.deps.Tokens,
		Notify:                   h.deps.Notify,
		RequirePhoneVerification: h.deps.RequirePhoneVerification,
		RequestID:                middleware.GetRequestID(c),
	}
}

func (h *Handler) payments(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Shipments: repositories.ShipmentRepository{DB: h.deps.DB},
		Payments:  repositories.PaymentRepository{DB: h.deps.DB},
		Users:     repositories.UserRepository{DB: h.deps.DB},
		Gateway:   h.deps.Gateway,
		Currency:  h.deps.Currency,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h *Handler) docs(c *gin.Context) services.DocsService {
	return services.DocsService{
		Shipments: repositories.ShipmentRepository{DB: h.deps.DB},
		Payments:  repositories.PaymentRepository{DB: h.deps.DB},
		Currency:  h.deps.Currency,
		RequestID: middleware.GetRequestID(c),
	}
}
