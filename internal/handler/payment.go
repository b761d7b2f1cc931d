package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/careerhub/careerhub/internal/handler/dto"
	"github.com/careerhub/careerhub/internal/payment"
	"github.com/careerhub/careerhub/internal/service"
)

// PaymentHandler creates checkout payment intents.
type PaymentHandler struct {
	svc    *service.PaymentService
	logger *slog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{svc: svc, logger: logger}
}

// CreateIntent handles POST /create-payment-intent.
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentIntentRequest
	if err := decodeJSON(r, &req); err != nil || req.Price == nil {
		writeMessage(w, http.StatusBadRequest, "price is required")
		return
	}

	intent, err := h.svc.CreateIntent(r.Context(), *req.Price)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, dto.PaymentIntentResponse{ClientSecret: intent.ClientSecret})
	case errors.Is(err, service.ErrInvalidPrice):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPaymentsDisabled):
		writeMessage(w, http.StatusServiceUnavailable, "Payments are not available")
	case errors.Is(err, payment.ErrDeclined):
		writeMessage(w, http.StatusPaymentRequired, "Payment was declined")
	default:
		h.logger.Error("create payment intent failed", "error", err)
		writeMessage(w, http.StatusBadGateway, "Payment provider unavailable")
	}
}
