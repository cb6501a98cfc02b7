package handler

import (
	"github.com/gorilla/mux"

	"github.com/finplan/advisor-service/internal/config"
	"github.com/finplan/advisor-service/internal/middleware"
)

// NewRouter wires the full HTTP surface: public auth routes plus the
// session-gated API subrouter.
func NewRouter(h *Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/auth/signup", h.SignUp).Methods("POST")
	r.HandleFunc("/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/auth/oauth/{provider}", h.OAuthRedirect).Methods("GET")
	r.HandleFunc("/auth/callback", h.OAuthCallback).Methods("GET")
	r.HandleFunc("/auth/logout", h.Logout).Methods("POST")

	// Protected routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg))
	api.HandleFunc("/session", h.Session).Methods("GET")
	api.HandleFunc("/personas", h.Personas).Methods("GET")
	api.HandleFunc("/profile", h.Profile).Methods("GET")
	api.HandleFunc("/profile/fields", h.SetField).Methods("PUT")
	api.HandleFunc("/profile/client", h.SetClient).Methods("PUT")
	api.HandleFunc("/profile/persona", h.SelectPersona).Methods("POST")
	api.HandleFunc("/profile/persona/confirm", h.ResolvePersona).Methods("POST")
	api.HandleFunc("/profile/goals", h.AddGoal).Methods("POST")
	api.HandleFunc("/profile/goals/{index}", h.UpdateGoal).Methods("PUT")
	api.HandleFunc("/profile/goals/{index}", h.RemoveGoal).Methods("DELETE")
	api.HandleFunc("/plan/generate", h.GeneratePlan).Methods("POST")
	api.HandleFunc("/plan/results", h.PlanResults).Methods("GET")
	api.HandleFunc("/plan/report", h.DownloadReport).Methods("POST")
	api.HandleFunc("/plan/report/email", h.EmailReport).Methods("POST")

	return r
}
