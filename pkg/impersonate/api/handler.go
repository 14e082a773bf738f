package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-admin/pkg/impersonate"
)

// Handler handles HTTP requests for impersonation
type Handler struct {
	service *impersonate.Service
}

// NewHandler creates a new impersonation handler
func NewHandler(service *impersonate.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the impersonation routes. The surrounding router
// must already authenticate the caller as an admin (jwtauth verifier).
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/impersonate", func(r chi.Router) {
		r.Post("/{targetId}", h.StartImpersonation)
		r.Post("/end", h.EndImpersonation)
	})
}

// EndImpersonationRequest is the body of POST /impersonate/end
type EndImpersonationRequest struct {
	TargetID uuid.UUID `json:"target_id"`
}

// ErrorResponse is the JSON shape of every error reply
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StartImpersonation handles POST /impersonate/{targetId}
func (h *Handler) StartImpersonation(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Message: "missing or invalid admin identity"})
		return
	}

	targetID, err := uuid.Parse(chi.URLParam(r, "targetId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "invalid target user id"})
		return
	}

	result, err := h.service.Start(r.Context(), adminID, targetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// EndImpersonation handles POST /impersonate/end
func (h *Handler) EndImpersonation(w http.ResponseWriter, r *http.Request) {
	adminID, ok := adminIDFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, ErrorResponse{Code: "unauthorized", Message: "missing or invalid admin identity"})
		return
	}

	var req EndImpersonationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "unable to parse body"})
		return
	}
	if req.TargetID == uuid.Nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Code: "invalid_request", Message: "target_id is required"})
		return
	}

	result, err := h.service.End(r.Context(), adminID, req.TargetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// adminIDFromContext extracts the authenticated admin's id from the JWT
// subject claim set by the jwtauth middleware.
func adminIDFromContext(r *http.Request) (uuid.UUID, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		slog.Error("Failed to get token claims", "err", err)
		return uuid.Nil, false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, false
	}
	adminID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false
	}
	return adminID, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *impersonate.Error
	if errors.As(err, &svcErr) {
		writeError(w, svcErr.HTTPStatus(), ErrorResponse{Code: svcErr.Code, Message: svcErr.Message})
		return
	}
	slog.Error("Unclassified impersonation error", "err", err)
	writeError(w, http.StatusInternalServerError, ErrorResponse{Code: "internal_error", Message: "internal error"})
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
