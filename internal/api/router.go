package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lmoretti/referral-api/internal/api/handlers"
	"github.com/lmoretti/referral-api/internal/auth"
	"github.com/lmoretti/referral-api/internal/services"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(db *sql.DB, userService services.UserServiceProvider, tokens *auth.TokenService) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	userHandler := handlers.NewUserHandler(userService)
	guard := auth.NewGuard(tokens, userService)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "store unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Route names follow the original public API of this service.
	r.Post("/Authorisation", authHandler.Login)
	r.Post("/register/", authHandler.Register)

	r.Group(func(r chi.Router) {
		r.Use(guard.Middleware)
		r.Get("/users_details/", userHandler.GetDetails)
		r.Get("/referral_details/", userHandler.GetReferralDetails)
	})

	return r
}
