package handler

import (
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/careerhub/careerhub/internal/auth"
	"github.com/careerhub/careerhub/internal/handler/dto"
	"github.com/careerhub/careerhub/internal/metrics"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(email string) (string, time.Time, error)
}

// AuthHandler sets and clears the token cookie.
type AuthHandler struct {
	issuer     TokenIssuer
	production bool
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. In production the cookie is
// Secure and SameSite=None so a client on another site can send it; in
// development it is SameSite=Strict over plain HTTP.
func NewAuthHandler(issuer TokenIssuer, production bool, recorder metrics.Recorder, logger *slog.Logger) *AuthHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthHandler{issuer: issuer, production: production, metrics: recorder, logger: logger}
}

// Issue handles POST /jwt.
func (h *AuthHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.TrimSpace(req.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		writeMessage(w, http.StatusBadRequest, "A valid email is required")
		return
	}

	token, expiresAt, err := h.issuer.Issue(email)
	if err != nil {
		h.logger.Error("issue token failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	cookie := h.cookie(token)
	cookie.Expires = expiresAt
	cookie.MaxAge = int(time.Until(expiresAt).Seconds())
	http.SetCookie(w, cookie)

	h.metrics.IncTokenIssued()
	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := h.cookie("")
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Success: true})
}

func (h *AuthHandler) cookie(value string) *http.Cookie {
	c := &http.Cookie{
		Name:     auth.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if h.production {
		c.Secure = true
		c.SameSite = http.SameSiteNoneMode
	}
	return c
}
