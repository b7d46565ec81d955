package rest

import (
	"context"
	"net/http"

	core_port "marketplace-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(port string,
	listingsHandler *ListingsHandler,
	providersHandler *ProvidersHandler,
	baseLogger core_port.LoggerPort) *Server {

	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger), middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/listings", listingsHandler.FindListings)
		r.Get("/listings/viewport", listingsHandler.GetMapViewport)
		r.Get("/listings/{listingID}", listingsHandler.GetListingDetails)

		// каталог услуг
		r.Get("/providers", providersHandler.FindProviders)
		r.Get("/providers/{providerID}", providersHandler.GetProvider)
		r.Post("/providers/{providerID}/reviews", providersHandler.SubmitReview)
		r.Post("/providers/{providerID}/stats/recalculate", providersHandler.RecalculateStats)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST server", core_port.Fields{"address": s.httpServer.Addr})
	return s.httpServer.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST server...", nil)
	return s.httpServer.Shutdown(ctx)
}
