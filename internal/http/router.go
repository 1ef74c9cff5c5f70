package api

import (
	"log"
	stdhttp "net/http"

	"swiftlink/internal/auth"
	h "swiftlink/internal/http/handlers"
	"swiftlink/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route. corsOrigins is the browser allow-list.
func NewRouter(deps h.Deps, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hd := h.New(deps)
	authn := middleware.Authenticate(deps.Tokens)
	can := middleware.RequireCapability

	api := r.Group("/api")
	{
		api.GET("/health", hd.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", hd.Routes)

		// Auth
		authGroup := api.Group("/auth")
		authGroup.POST("/register", hd.Register)
		authGroup.POST("/verify-otp", hd.VerifyOTP)
		authGroup.POST("/login", hd.Login)
		authGroup.GET("/me", authn, can(auth.CapProfileRead), hd.Me)

		api.GET("/users/:id", authn, can(auth.CapUserLookup), hd.GetUser)

		// Flights
		flights := api.Group("/flights")
		flights.GET("", hd.ListFlights)
		flights.GET("/available", hd.ListAvailableFlights)
		flights.POST("", authn, can(auth.CapFlightCreate), hd.AddFlight)
		flights.PUT("/:id/status", authn, can(auth.CapFlightUpdateStatus), hd.UpdateFlightStatus)

		// Shipments
		shipments := api.Group("/shipments")
		shipments.POST("", authn, can(auth.CapShipmentCreate), hd.CreateShipment)
		shipments.GET("/mine", authn, can(auth.CapShipmentListOwn), hd.MyShipments)
		shipments.GET("/:trackingCode", hd.TrackShipment)
		shipments.POST("/:trackingCode/deliver", authn, can(auth.CapShipmentDeliver), hd.ConfirmDelivery)
		shipments.POST("/:trackingCode/pickup", authn, can(auth.CapShipmentPickup), hd.PickupShipment)
		shipments.POST("/:trackingCode/cancel", authn, can(auth.CapShipmentCancel), hd.CancelShipment)
		shipments.POST("/:trackingCode/verify-acceptor", authn, can(auth.CapShipmentVerify), hd.VerifyAcceptor)
		shipments.GET("/:trackingCode/waybill", authn, can(auth.CapShipmentDocuments), hd.ShipmentWaybill)
		shipments.GET("/:trackingCode/receipt", authn, can(auth.CapShipmentDocuments), hd.ShipmentReceipt)
		shipments.GET("/:trackingCode/payments", authn, can(auth.CapPaymentList), hd.ListShipmentPayments)

		// Payments
		api.POST("/payments/initialize", authn, can(auth.CapPaymentInitialize), hd.InitializePayment)
	}

	h.SetRouter(r)
	return r
}
