package routes

import (
	"net/http"

	"geoserv-bknd/internal/auth"
	"geoserv-bknd/internal/config"
	"geoserv-bknd/internal/geocoder"
	"geoserv-bknd/internal/handlers"
	"geoserv-bknd/internal/logger"
	mdlwr "geoserv-bknd/internal/middleware"
	"geoserv-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// init JWT manager
	jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, "geoserv")
	if err != nil {
		logr.Fatal("failed to init jwt manager", zap.Error(err))
	}

	geocoderClient := geocoder.NewNominatim(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cfg.GeocoderTimeout, logr.Logger)

	// auth service handles DB checks like token_version
	authSvc := services.NewAuthService(db, jwtMgr, cfg, logr)
	companySvc := services.NewCompanyService(db)
	offeringSvc := services.NewOfferingService(db)
	areaSvc := services.NewServiceAreaService(db)
	bookingSvc := services.NewBookingService(db)
	availSvc := services.NewAvailabilityService(areaSvc, bookingSvc, geocoderClient, logr.Logger)

	authMW := mdlwr.NewAuthMiddleware(jwtMgr.PublicKey(), authSvc, logr.Logger)

	authHandler := handlers.NewAuthHandler(authSvc, logr, cfg)
	companyHandler := handlers.NewCompanyHandler(companySvc, logr.Logger)
	offeringHandler := handlers.NewOfferingHandler(offeringSvc, logr.Logger)
	areaHandler := handlers.NewServiceAreaHandler(areaSvc, logr.Logger)
	availHandler := handlers.NewAvailabilityHandler(availSvc, cfg, logr.Logger)
	bookingHandler := handlers.NewBookingHandler(bookingSvc, availSvc, geocoderClient, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			// Public routes
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/companies/{companyID}", func(r chi.Router) {

			// Customer-facing routes stay public: availability lookups
			// and booking intake happen before any account exists.
			r.Route("/availability", func(r chi.Router) {
				r.Get("/", availHandler.GetDaySlots)
				r.Get("/days", availHandler.GetOpenDays)
				r.Post("/address", availHandler.GetOpenDaysByAddress)
			})
			r.Post("/bookings", bookingHandler.CreateBooking)

			r.Get("/offerings", offeringHandler.ListOfferings)
			r.Get("/offerings/{offeringID}", offeringHandler.GetOffering)

			// Tenant-facing routes require a valid access token for the
			// same company.
			r.Group(func(r chi.Router) {
				r.Use(authMW.JWTAuth)

				r.Get("/", companyHandler.GetCompany)
				r.Put("/", companyHandler.UpdateCompany)

				r.Post("/offerings", offeringHandler.CreateOffering)
				r.Put("/offerings/{offeringID}", offeringHandler.UpdateOffering)
				r.Delete("/offerings/{offeringID}", offeringHandler.DeleteOffering)

				r.Route("/areas", func(r chi.Router) {
					r.Post("/", areaHandler.CreateArea)
					r.Get("/", areaHandler.ListAreas)
					r.Get("/{areaID}", areaHandler.GetArea)
					r.Put("/{areaID}", areaHandler.UpdateArea)
					r.Delete("/{areaID}", areaHandler.DeleteArea)
				})

				r.Get("/bookings", bookingHandler.ListBookings)
				r.Get("/bookings/{bookingID}", bookingHandler.GetBooking)
				r.Patch("/bookings/{bookingID}/status", bookingHandler.UpdateBookingStatus)
			})
		})
	})

	return r
}
