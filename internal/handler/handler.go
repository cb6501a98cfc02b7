package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/finplan/advisor-service/internal/auth"
	"github.com/finplan/advisor-service/internal/config"
	"github.com/finplan/advisor-service/internal/handoff"
	"github.com/finplan/advisor-service/internal/middleware"
	"github.com/finplan/advisor-service/internal/models"
	"github.com/finplan/advisor-service/internal/planner"
	"github.com/finplan/advisor-service/internal/service"
)

// noPlanMessage is what the results endpoints answer when the handoff
// buffer holds nothing for the session.
const noPlanMessage = "No plan data found. Please generate a plan first."

type Handler struct {
	svc      *service.Service
	provider auth.Provider
	cfg      *config.Config
	log      *logrus.Logger
}

func NewHandler(svc *service.Service, provider auth.Provider, cfg *config.Config, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, provider: provider, cfg: cfg, log: log}
}

// SignUp registers a new email/password identity with the provider.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sess, err := h.provider.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Errorf("Sign-up failed for %s: %v", req.Email, err)
		respondError(w, http.StatusBadGateway, "sign-up failed")
		return
	}

	// Providers that require email confirmation return no tokens yet.
	if sess.AccessToken == "" {
		respondJSON(w, http.StatusCreated, map[string]string{
			"message": "Check your email to confirm your account",
		})
		return
	}

	if err := h.setSessionCookie(w, sess); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to establish session")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"user": sess.User})
}

// Login exchanges credentials for a session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	sess, err := h.provider.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		h.log.Warnf("Login failed for %s: %v", req.Email, err)
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := h.setSessionCookie(w, sess); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to establish session")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": sess.User})
}

// OAuthRedirect bounces the browser to the provider's authorize page.
func (h *Handler) OAuthRedirect(w http.ResponseWriter, r *http.Request) {
	provider := mux.Vars(r)["provider"]
	redirectTo := h.cfg.SiteURL + "/auth/callback"
	http.Redirect(w, r, h.provider.OAuthURL(provider, redirectTo), http.StatusFound)
}

// OAuthCallback finishes the OAuth flow: trades the code for a session,
// sets the cookie and sends the browser to the dashboard. Every failure
// lands on the error page with a message, never on a broken view.
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, "No authorization code received")
		return
	}

	sess, err := h.provider.ExchangeCode(r.Context(), code)
	if err != nil {
		h.log.Errorf("Code exchange failed: %v", err)
		h.redirectError(w, r, "Sign-in failed. Please try again.")
		return
	}

	if err := h.setSessionCookie(w, sess); err != nil {
		h.redirectError(w, r, "Sign-in failed. Please try again.")
		return
	}
	http.Redirect(w, r, h.cfg.SiteURL+"/dashboard", http.StatusFound)
}

// Logout revokes the provider session when possible and always clears the
// cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookie); err == nil {
		if claims, err := auth.ParseSession(h.cfg.JWTSecret, cookie.Value); err == nil {
			if err := h.provider.SignOut(r.Context(), claims.AccessToken); err != nil {
				h.log.Warnf("Provider sign-out failed: %v", err)
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// Session reports the authenticated user behind the cookie.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"user": auth.User{
			ID:    middleware.UserID(r.Context()),
			Email: middleware.UserEmail(r.Context()),
		},
	})
}

// Personas lists the selectable catalog personas.
func (h *Handler) Personas(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"personas": h.svc.Personas()})
}

// Profile returns the session's form state.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.Profile(sessionID(r))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// SetField updates one profile field.
func (h *Handler) SetField(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value any    `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.svc.SetField(sessionID(r), req.Field, req.Value)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// SetClient replaces the client name and email.
func (h *Handler) SetClient(w http.ResponseWriter, r *http.Request) {
	var req models.ClientInfo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.svc.SetClient(sessionID(r), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// SelectPersona requests a persona selection change. The response state's
// pending field signals that confirmation is required before the switch
// takes effect.
func (h *Handler) SelectPersona(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag string `json:"tag"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.svc.SelectPersona(sessionID(r), req.Tag)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// ResolvePersona applies or discards a staged persona switch.
func (h *Handler) ResolvePersona(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.svc.ResolvePending(sessionID(r), req.Accept)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// AddGoal appends a blank goal.
func (h *Handler) AddGoal(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.AddGoal(sessionID(r))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// UpdateGoal updates one field of the goal at {index}.
func (h *Handler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	index, err := goalIndex(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Field string `json:"field"`
		Value any    `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	state, err := h.svc.UpdateGoal(sessionID(r), index, req.Field, req.Value)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// RemoveGoal deletes the goal at {index}.
func (h *Handler) RemoveGoal(w http.ResponseWriter, r *http.Request) {
	index, err := goalIndex(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.svc.RemoveGoal(sessionID(r), index)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// GeneratePlan validates the draft, calls the planning engine and parks
// the result for the results view.
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.GeneratePlan(r.Context(), sessionID(r))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":  "Plan generated",
		"success":  plan.Success,
		"redirect": "/results",
	})
}

// PlanResults consumes the session's generated plan.
func (h *Handler) PlanResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Results(sessionID(r))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

type reportRequest struct {
	Plan   *models.PlanResponse `json:"plan"`
	Client models.ClientInfo    `json:"client"`
}

// DownloadReport streams the composed PDF. The results view posts back the
// plan and client it is holding, so a download still works after the
// handoff entry has been deleted.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	filename, pdf, err := h.svc.BuildReport(sessionID(r), req.Plan, req.Client)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Write(pdf)
}

// EmailReport mails the composed PDF to the client's address.
func (h *Handler) EmailReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.EmailReport(sessionID(r), req.Plan, req.Client); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Report sent to %s", req.Client.Email),
	})
}

// respondServiceError maps service-layer failures onto the HTTP surface.
// None of them crash the view: every case answers JSON the client can
// render.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	var requestFailed *planner.RequestFailedError
	var transport *planner.TransportError

	switch {
	case errors.As(err, &validation):
		respondError(w, http.StatusUnprocessableEntity, validation.Message)
	case errors.Is(err, service.ErrPlanInFlight):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnknownPersona):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrMailNotConfigured):
		respondError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, handoff.ErrEmptyHandoff), errors.Is(err, handoff.ErrMalformedHandoff):
		respondError(w, http.StatusNotFound, noPlanMessage)
	case errors.As(err, &requestFailed):
		respondError(w, http.StatusBadGateway, fmt.Sprintf("Failed to generate plan: %s", requestFailed.Status))
	case errors.As(err, &transport):
		respondError(w, http.StatusBadGateway, "Failed to reach the planning engine. Please try again.")
	default:
		h.log.Errorf("Unhandled service error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sess *auth.Session) error {
	token, err := auth.IssueSession(h.cfg.JWTSecret, sess.User, sess.AccessToken)
	if err != nil {
		h.log.Errorf("Failed to issue session token: %v", err)
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(auth.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, message string) {
	target := fmt.Sprintf("%s/error?message=%s", h.cfg.SiteURL, url.QueryEscape(message))
	http.Redirect(w, r, target, http.StatusFound)
}

// sessionID keys the per-session stores by the authenticated user.
func sessionID(r *http.Request) string {
	return middleware.UserID(r.Context())
}

func goalIndex(r *http.Request) (int, error) {
	raw := mux.Vars(r)["index"]
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid goal index %q", raw)
	}
	return index, nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
