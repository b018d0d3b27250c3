package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/autocare-booking/internal/booking"
	"github.com/wolfman30/autocare-booking/internal/cart"
	"github.com/wolfman30/autocare-booking/internal/observability/metrics"
	"github.com/wolfman30/autocare-booking/internal/storefront"
	"github.com/wolfman30/autocare-booking/internal/vehicle"
	"github.com/wolfman30/autocare-booking/pkg/logging"
)

// TokenHeader carries a renewed session token on every successful response
// under /session. Clients replace their token with it, so the token expiry
// slides with activity the same way the idle TTL does.
const TokenHeader = "X-Session-Token"

// Handler serves the session endpoints. Routes under /session expect the
// session id in the request context (see middleware.SessionToken).
type Handler struct {
	manager *Manager
	tokens  *Tokens
	metrics *metrics.WidgetMetrics
	logger  *logging.Logger
}

// NewHandler creates the session HTTP handler.
func NewHandler(manager *Manager, tokens *Tokens, m *metrics.WidgetMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{manager: manager, tokens: tokens, metrics: m, logger: logger}
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
}

// CreateResponse is returned by POST /sessions.
type CreateResponse struct {
	Token   string   `json:"token"`
	Session Snapshot `json:"session"`
}

// Create handles POST /sessions.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.manager.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create session", "error", err)
		h.writeError(w, err)
		return
	}
	token, err := h.tokens.Issue(s.ID())
	if err != nil {
		h.logger.Error("failed to issue session token", "error", err, "session_id", s.ID())
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateResponse{Token: token, Session: s.Snapshot()})
}

// Get handles GET /session.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Touch(); err != nil {
		h.writeError(w, err)
		return
	}
	// Saving refreshes the store TTL for clients that only poll.
	_ = h.manager.Save(r.Context(), s)
	h.renewToken(w, s)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// End handles DELETE /session.
func (h *Handler) End(w http.ResponseWriter, r *http.Request) {
	id, ok := IDFromContext(r.Context())
	if !ok {
		h.writeError(w, ErrInvalidToken)
		return
	}
	if err := h.manager.End(r.Context(), id); err != nil {
		h.logger.Error("failed to end session", "error", err, "session_id", id)
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type navRequest struct {
	Option string `json:"option"`
}

type categoryRequest struct {
	CategoryID string `json:"category_id"`
}

type itemRequest struct {
	ItemID string `json:"item_id"`
}

type brandRequest struct {
	Brand string `json:"brand"`
}

type modelRequest struct {
	Model string `json:"model"`
}

type manualRequest struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
}

type fuelRequest struct {
	FuelType string `json:"fuel_type"`
}

// Navigate handles POST /session/nav.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navRequest
	h.mutate(w, r, &req, func(s *Session) error { return s.Navigate(req.Option) })
}

// OpenCategory handles POST /session/catalog/open.
func (h *Handler) OpenCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	h.mutate(w, r, &req, func(s *Session) error { return s.OpenCategory(req.CategoryID) })
}

// CloseCategory handles POST /session/catalog/close.
func (h *Handler) CloseCategory(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(s *Session) error { return s.CloseCategory() })
}

// AddToCart handles POST /session/cart/items.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	h.mutate(w, r, &req, func(s *Session) error {
		item, err := s.AddToCart(req.ItemID)
		switch {
		case err == nil:
			h.metrics.ObserveCartAdd(item.CategoryID, "added")
		case errors.Is(err, cart.ErrDuplicateItem):
			h.metrics.ObserveCartAdd(s.Snapshot().Catalog.Selected, "duplicate")
		}
		return err
	})
}

// RemoveFromCart handles DELETE /session/cart/items/{itemID}.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	h.mutate(w, r, nil, func(s *Session) error {
		_, err := s.RemoveFromCart(itemID)
		return err
	})
}

// OpenCart handles POST /session/cart/open.
func (h *Handler) OpenCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(s *Session) error { return s.SetCartOpen(true) })
}

// CloseCart handles POST /session/cart/close.
func (h *Handler) CloseCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(s *Session) error { return s.SetCartOpen(false) })
}

// OpenVehicle handles POST /session/vehicle/open.
func (h *Handler) OpenVehicle(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(s *Session) error { return s.SetVehicleDialogOpen(true) })
}

// CloseVehicle handles POST /session/vehicle/close.
func (h *Handler) CloseVehicle(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(s *Session) error { return s.SetVehicleDialogOpen(false) })
}

// SelectBrand handles POST /session/vehicle/brand.
func (h *Handler) SelectBrand(w http.ResponseWriter, r *http.Request) {
	var req brandRequest
	h.mutate(w, r, &req, func(s *Session) error { return s.SelectBrand(req.Brand) })
}

// SelectModel handles POST /session/vehicle/model.
func (h *Handler) SelectModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	h.mutate(w, r, &req, func(s *Session) error { return s.SelectModel(req.Model) })
}

// EnterManual handles POST /session/vehicle/manual.
func (h *Handler) EnterManual(w http.ResponseWriter, r *http.Request) {
	var req manualRequest
	h.mutate(w, r, &req, func(s *Session) error { return s.EnterManualVehicle(req.Brand, req.Model) })
}

// ToggleFuel handles POST /session/vehicle/fuel.
func (h *Handler) ToggleFuel(w http.ResponseWriter, r *http.Request) {
	var req fuelRequest
	h.mutate(w, r, &req, func(s *Session) error {
		_, err := s.ToggleFuel(req.FuelType)
		return err
	})
}

// ResolveVehicle handles POST /session/vehicle/resolve.
func (h *Handler) ResolveVehicle(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(s *Session) error {
		car, err := s.ResolveVehicle()
		if err == nil {
			h.metrics.ObserveVehicleResolved(car.Manual)
		}
		return err
	})
}

// UpdateBooking handles PATCH /session/booking.
func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	var req BookingPatch
	h.mutate(w, r, &req, func(s *Session) error { return s.UpdateBooking(req) })
}

// SubmitBooking handles POST /session/booking/submit.
func (h *Handler) SubmitBooking(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(s *Session) error {
		_, err := h.manager.SubmitBooking(r.Context(), s)
		return err
	})
}

// ToggleFAQ handles POST /session/faq/{index}/toggle.
func (h *Handler) ToggleFAQ(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "faq index must be a number"})
		return
	}
	h.mutate(w, r, nil, func(s *Session) error { return s.ToggleFAQ(index) })
}

// OpenBookNow handles POST /session/book-now/open.
func (h *Handler) OpenBookNow(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(s *Session) error { return s.SetBookNowOpen(true) })
}

// CloseBookNow handles POST /session/book-now/close.
func (h *Handler) CloseBookNow(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, nil, func(s *Session) error { return s.SetBookNowOpen(false) })
}

// mutate decodes req (when non-nil), applies op and answers with the new
// snapshot. Successful transitions are saved and published.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, req any, op func(*Session) error) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if req != nil {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "invalid request body"})
			return
		}
	}
	if err := op(s); err != nil {
		h.logger.Debug("session transition rejected", "session_id", s.ID(), "path", r.URL.Path, "error", err)
		h.writeError(w, err)
		return
	}
	// The transition already happened; a store failure is logged by Save.
	_ = h.manager.Save(r.Context(), s)
	h.renewToken(w, s)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

func (h *Handler) renewToken(w http.ResponseWriter, s *Session) {
	token, err := h.tokens.Issue(s.ID())
	if err != nil {
		// The caller's current token is still valid.
		h.logger.Warn("failed to renew session token", "session_id", s.ID(), "error", err)
		return
	}
	w.Header().Set(TokenHeader, token)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, ok := IDFromContext(r.Context())
	if !ok {
		h.writeError(w, ErrInvalidToken)
		return nil, false
	}
	s, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return nil, false
	}
	return s, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status, body := errorResponse(err)
	writeJSON(w, status, body)
}

// errorResponse maps transition errors to HTTP statuses and error codes.
func errorResponse(err error) (int, ErrorResponse) {
	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "validation_failed", Message: verr.Error(), Missing: verr.Missing}
	}

	switch {
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "missing or invalid session token"}
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrClosed):
		return http.StatusNotFound, ErrorResponse{Error: "session_not_found", Message: "session not found or expired"}
	case errors.Is(err, cart.ErrDuplicateItem):
		return http.StatusConflict, ErrorResponse{Error: "duplicate_item", Message: "This service is already in your cart"}
	case errors.Is(err, booking.ErrNotCollecting):
		return http.StatusConflict, ErrorResponse{Error: "booking_locked", Message: err.Error()}
	case errors.Is(err, vehicle.ErrIncomplete):
		return http.StatusUnprocessableEntity, ErrorResponse{Error: "vehicle_incomplete", Message: err.Error()}
	case errors.Is(err, storefront.ErrNoCategory):
		return http.StatusConflict, ErrorResponse{Error: "no_category", Message: err.Error()}
	case errors.Is(err, booking.ErrDateInPast),
		errors.Is(err, booking.ErrInvalidDate):
		return http.StatusBadRequest, ErrorResponse{Error: "invalid_date", Message: err.Error()}
	case errors.Is(err, storefront.ErrUnknownNavOption),
		errors.Is(err, storefront.ErrUnknownCategory),
		errors.Is(err, storefront.ErrUnknownItem),
		errors.Is(err, storefront.ErrUnknownFAQ),
		errors.Is(err, vehicle.ErrUnknownBrand),
		errors.Is(err, vehicle.ErrUnknownModel),
		errors.Is(err, vehicle.ErrUnknownFuelType),
		errors.Is(err, booking.ErrUnknownServiceType),
		errors.Is(err, booking.ErrUnknownSlot):
		return http.StatusBadRequest, ErrorResponse{Error: "unknown_id", Message: err.Error()}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "internal server error"}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
