package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/caretap/staffing-platform/internal/dashboard"
	"github.com/caretap/staffing-platform/internal/http/handlers"
	httpmiddleware "github.com/caretap/staffing-platform/internal/http/middleware"
	"github.com/caretap/staffing-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	DirectoryHandler   *handlers.DirectoryHandler
	SearchHandler      *handlers.SearchHandler
	PitchHandler       *handlers.PitchHandler
	ConnectionHandler  *handlers.ConnectionHandler
	DashboardHandler   *dashboard.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		// Registration runs before the actor exists, so it stays public;
		// the gateway verifies the identity-provider token upstream.
		if cfg.DirectoryHandler != nil {
			public.Post("/doctors", cfg.DirectoryHandler.RegisterDoctor)
			public.Post("/clinics", cfg.DirectoryHandler.RegisterClinic)
		}
		// The chat gate is service-to-service; the messaging collaborator
		// calls it without an end-user actor.
		if cfg.ConnectionHandler != nil {
			public.Get("/connections/eligibility", cfg.ConnectionHandler.Eligibility)
		}
	})

	// Actor-scoped endpoints
	r.Group(func(private chi.Router) {
		private.Use(httpmiddleware.RequireActor)

		if cfg.SearchHandler != nil {
			private.Route("/search", func(r chi.Router) {
				r.Get("/doctors", cfg.SearchHandler.SearchDoctors)
				r.Get("/clinics", cfg.SearchHandler.SearchClinics)
				r.Get("/jobs", cfg.SearchHandler.SearchJobs)
			})
		}

		if cfg.DirectoryHandler != nil {
			private.Put("/doctors/{doctorID}", cfg.DirectoryHandler.UpdateDoctor)
			private.Put("/clinics/{clinicID}", cfg.DirectoryHandler.UpdateClinic)
			private.Post("/clinics/{clinicID}/jobs", cfg.DirectoryHandler.CreateJob)
			private.Get("/clinics/{clinicID}/jobs", cfg.DirectoryHandler.ListClinicJobs)
			private.Get("/jobs/{jobID}", cfg.DirectoryHandler.GetJob)
			private.Post("/jobs/{jobID}:close", cfg.DirectoryHandler.CloseJob)
		}

		if cfg.PitchHandler != nil {
			private.Post("/jobs/{jobID}/pitches", cfg.PitchHandler.Create)
			private.Get("/jobs/{jobID}/pitches", cfg.PitchHandler.ListForJob)
			private.Get("/pitches", cfg.PitchHandler.ListMine)
			private.Get("/pitches/{pitchID}", cfg.PitchHandler.Get)
			private.Post("/pitches/{pitchID}:accept", cfg.PitchHandler.Accept)
			private.Post("/pitches/{pitchID}:reject", cfg.PitchHandler.Reject)
			private.Post("/pitches/{pitchID}:withdraw", cfg.PitchHandler.Withdraw)
		}

		if cfg.ConnectionHandler != nil {
			private.Get("/doctors/{doctorID}/connections", cfg.ConnectionHandler.ListForDoctor)
			private.Get("/clinics/{clinicID}/connections", cfg.ConnectionHandler.ListForClinic)
		}

		if cfg.DashboardHandler != nil {
			private.Get("/clinics/{clinicID}/dashboard", cfg.DashboardHandler.GetClinicStats)
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
