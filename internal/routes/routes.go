package routes

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"NOTEHUB_BACK-END/internal/config"
	"NOTEHUB_BACK-END/internal/handlers"
	"NOTEHUB_BACK-END/internal/middleware"
)

// Handlers groups everything SetupRoutes needs to wire the route table
type Handlers struct {
	Auth           *handlers.AuthHandler
	Notes          *handlers.NotesHandler
	AI             *handlers.AIHandler
	Health         *handlers.HealthHandler
	GoogleAuth     *handlers.GoogleAuthHandler
	ForgotPassword *handlers.ForgotPasswordHandler
}

// SetupRoutes configures all application routes
func SetupRoutes(mux *http.ServeMux, h Handlers, jwtCfg *config.JWTConfig) {
	// Health check routes
	mux.HandleFunc("/healthz", h.Health.Health)
	mux.HandleFunc("/livez", h.Health.Liveness)
	mux.HandleFunc("/readyz", h.Health.Readiness)

	// Authentication routes
	mux.HandleFunc("/api/auth/register", h.Auth.Register)
	mux.HandleFunc("/api/auth/login", h.Auth.Login)
	mux.HandleFunc("/api/auth/user", middleware.AuthMiddleware(h.Auth.User, jwtCfg))
	mux.HandleFunc("/api/auth/password", middleware.AuthMiddleware(h.Auth.ChangePassword, jwtCfg))

	// Password reset routes
	mux.HandleFunc("/api/auth/forgot-password", h.ForgotPassword.ForgotPassword)
	mux.HandleFunc("/api/auth/verify-reset-code", h.ForgotPassword.VerifyResetCode)
	mux.HandleFunc("/api/auth/reset-password", h.ForgotPassword.ResetPassword)

	// Google OAuth routes
	mux.HandleFunc("/api/auth/google", h.GoogleAuth.GoogleLogin)
	mux.HandleFunc("/api/auth/google/callback", h.GoogleAuth.GoogleCallback)

	// Note routes (collection and detail share one dispatcher)
	mux.HandleFunc("/api/notes", middleware.AuthMiddleware(h.Notes.Notes, jwtCfg))
	mux.HandleFunc("/api/notes/", middleware.AuthMiddleware(h.Notes.Notes, jwtCfg))

	// AI analysis route
	mux.HandleFunc("/api/ai/analyze", middleware.AuthMiddleware(h.AI.Analyze, jwtCfg))

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Root route
	mux.HandleFunc("/", rootHandler)
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("NoteHub backend is running."))
}
