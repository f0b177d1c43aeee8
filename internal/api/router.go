package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/estatefolio/investor-dashboard/internal/api/handlers"
	custommiddleware "github.com/estatefolio/investor-dashboard/internal/api/middleware"
	"github.com/estatefolio/investor-dashboard/internal/config"
	"github.com/estatefolio/investor-dashboard/internal/service"
)

// Services bundles the services the HTTP layer depends on.
type Services struct {
	System      *service.SystemService
	Investor    *service.InvestorService
	Location    *service.LocationService
	Property    *service.PropertyService
	Dashboard   *service.DashboardService
	Aggregation *service.AggregationService
	Import      *service.ImportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	requireAdmin := custommiddleware.RequireAPIKey(cfg.Auth.TimeTokenTTL)

	systemHandler := handlers.NewSystemHandler(services.System)
	investorHandler := handlers.NewInvestorHandler(services.Investor)
	locationHandler := handlers.NewLocationHandler(services.Location)
	propertyHandler := handlers.NewPropertyHandler(services.Property)
	dashboardHandler := handlers.NewDashboardHandler(services.Dashboard, services.Aggregation)
	importHandler := handlers.NewImportHandler(services.Import)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/location", func(r chi.Router) {
			r.Get("/", locationHandler.Locations)
			r.With(requireAdmin).Post("/", locationHandler.CreateLocation)
		})

		r.Route("/investor", func(r chi.Router) {
			r.Get("/", investorHandler.Investors)
			r.With(requireAdmin).Post("/", investorHandler.CreateInvestor)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", investorHandler.GetInvestor)
				r.Get("/dashboard", dashboardHandler.Dashboard)
				r.Get("/properties", propertyHandler.InvestorProperties)
				r.Get("/allocation", dashboardHandler.Allocation)
				r.Get("/growth", dashboardHandler.Growth)
				r.Get("/ledger", dashboardHandler.Ledger)
				r.With(requireAdmin).Post("/recompute", dashboardHandler.Recompute)
			})
		})

		r.Route("/property", func(r chi.Router) {
			r.With(requireAdmin).Post("/", propertyHandler.CreateProperty)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", propertyHandler.GetProperty)
				r.With(requireAdmin).Put("/", propertyHandler.UpdateProperty)
			})
		})

		r.Route("/import", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/properties", importHandler.ImportProperties)
		})
	})

	return r
}
