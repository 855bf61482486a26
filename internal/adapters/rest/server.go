package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	core_port "listing-service/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers - все обработчики, которые монтирует роутер
type Handlers struct {
	Search    *SearchHandler
	Listings  *ListingHandler
	Favorites *FavoritesHandler
	Leads     *LeadHandler
	Admin     *AdminHandler
	Reports   *ReportsHandler
	Reviews   *ReviewHandler
}

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter собирает chi-роутер. Вынесен отдельно, чтобы тесты ходили в него через httptest.
func NewRouter(handlers Handlers, allowedOrigins []string, baseLogger core_port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Trace-ID", headerUserID, headerUserRole},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/listings", func(r chi.Router) {
			r.Get("/nearby", handlers.Search.Nearby)
			r.Get("/recent", handlers.Listings.Recent)
			r.Get("/neighborhood", handlers.Listings.ByNeighborhood)
			r.Get("/status/{status}", handlers.Search.ByStatus)
			r.Get("/{listingID}", handlers.Listings.GetDetails)
			r.Get("/{listingID}/similar", handlers.Listings.Similar)

			r.Get("/{listingID}/reviews", handlers.Reviews.ListByListing)
			r.Get("/{listingID}/reviews/stats", handlers.Reviews.Stats)
			r.With(UserMiddleware).Put("/{listingID}/reviews", handlers.Reviews.Upsert)
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(UserMiddleware)

			r.Get("/mine", handlers.Reviews.Mine)
			r.Delete("/{reviewID}", handlers.Reviews.Delete)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", handlers.Search.Advanced)
			r.Get("/text", handlers.Search.Text)
			r.Get("/suggestions", handlers.Search.Suggestions)
			r.Get("/filters", handlers.Search.Filters)
		})

		r.Post("/leads", handlers.Leads.CreateLead)

		r.Route("/favorites", func(r chi.Router) {
			r.Use(UserMiddleware)

			r.Get("/", handlers.Favorites.GetUserFavorites)
			r.Get("/{listingID}", handlers.Favorites.IsFavorite)
			r.Post("/{listingID}", handlers.Favorites.AddToFavorites)
			r.Delete("/{listingID}", handlers.Favorites.RemoveFromFavorites)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminMiddleware)

			r.Post("/listings", handlers.Admin.CreateListing)
			r.Patch("/listings/{listingID}", handlers.Admin.UpdateListing)
			r.Delete("/listings/{listingID}", handlers.Admin.DeleteListing)
			r.Put("/listings/{listingID}/promotion", handlers.Admin.ConfigurePromotion)
			r.Get("/stats", handlers.Admin.DashboardStats)

			r.Get("/leads", handlers.Leads.ListLeads)
			r.Patch("/leads/{leadID}", handlers.Leads.UpdateLeadStatus)
			r.Delete("/leads/{leadID}", handlers.Leads.DeleteLead)

			r.Route("/reports", func(r chi.Router) {
				r.Get("/views", handlers.Reports.Views)
				r.Get("/leads", handlers.Reports.Leads)
				r.Get("/neighborhoods", handlers.Reports.Neighborhoods)
				r.Get("/revenue", handlers.Reports.Revenue)
			})
		})
	})

	return r
}

func NewServer(port string, handlers Handlers, allowedOrigins []string, baseLogger core_port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           NewRouter(handlers, allowedOrigins, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// Start блокируется до остановки сервера
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
