package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/careerhub/careerhub/internal/auth"
	"github.com/careerhub/careerhub/internal/handler/dto"
	"github.com/careerhub/careerhub/internal/middleware"
	"github.com/careerhub/careerhub/internal/model"
	"github.com/careerhub/careerhub/internal/service"
)

// ApplicationHandler serves job applications.
type ApplicationHandler struct {
	svc    *service.ApplicationService
	logger *slog.Logger
}

// NewApplicationHandler creates a new ApplicationHandler.
func NewApplicationHandler(svc *service.ApplicationService, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, logger: logger}
}

// List handles GET /applications?email=. The token cookie must name the
// same email; each application comes back with its job under "job".
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	var credential string
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		credential = cookie.Value
	}

	merged, err := h.svc.ListForUser(r.Context(), r.URL.Query().Get("email"), credential)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, merged)
	case errors.Is(err, service.ErrUnauthenticated):
		writeMessage(w, http.StatusUnauthorized, "Unauthorized access")
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Forbidden access")
	default:
		h.logger.Error("list applications failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Apply handles POST /apply.
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	app, err := h.svc.Submit(r.Context(), service.SubmitApplicationInput{
		JobID:     req.JobID,
		UserEmail: req.UserEmail,
		LinkedIn:  req.LinkedIn,
		GitHub:    req.GitHub,
		Resume:    req.Resume,
	})
	if err != nil {
		if errors.Is(err, model.ErrMissingJobID) || errors.Is(err, model.ErrMissingUserEmail) {
			writeMessage(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("submit application failed",
			"error", err,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("application_submitted", "application_id", app.ID, "job_id", app.JobID)
	writeJSON(w, http.StatusCreated, dto.ApplyResponse{InsertedID: app.ID})
}
