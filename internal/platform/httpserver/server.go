package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	admissionservice "bazar/contexts/marketplace/admission-service"
	admissionerrors "bazar/contexts/marketplace/admission-service/domain/errors"
	admissionports "bazar/contexts/marketplace/admission-service/ports"
	admissionhttp "bazar/contexts/marketplace/admission-service/transport/http"
	listingservice "bazar/contexts/marketplace/listing-service"
	listingerrors "bazar/contexts/marketplace/listing-service/domain/errors"
	listingports "bazar/contexts/marketplace/listing-service/ports"
	listinghttp "bazar/contexts/marketplace/listing-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "bazar/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	jwtSecret string
	listings  listingservice.Module
	admission admissionservice.Module
}

func New(
	listings listingservice.Module,
	admission admissionservice.Module,
	logger *slog.Logger,
	addr string,
	jwtSecret string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		jwtSecret: jwtSecret,
		listings:  listings,
		admission: admission,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/listings", s.handleCreateListing)
	s.mux.HandleFunc("GET /v1/listings", s.handleListListings)
	s.mux.HandleFunc("GET /v1/listings/{listing_id}", s.handleGetListing)
	s.mux.HandleFunc("GET /v1/me/daily-count", s.handleDailyCount)
	s.mux.HandleFunc("GET /v1/posting-status", s.handlePostingStatus)

	s.mux.HandleFunc("POST /v1/admin/listings/{listing_id}/approve", s.handleApproveListing)
	s.mux.HandleFunc("POST /v1/admin/listings/{listing_id}/reject", s.handleRejectListing)
	s.mux.HandleFunc("POST /v1/admin/listings/{listing_id}/cancel", s.handleCancelListing)
	s.mux.HandleFunc("POST /v1/admin/listings/{listing_id}/reapprove", s.handleReapproveListing)
	s.mux.HandleFunc("POST /v1/admin/listings/{listing_id}/extend", s.handleExtendListing)
	s.mux.HandleFunc("DELETE /v1/admin/listings/{listing_id}", s.handleDeleteListing)

	s.mux.HandleFunc("GET /v1/admin/schedule", s.handleGetSchedule)
	s.mux.HandleFunc("PUT /v1/admin/schedule", s.handleReplaceSchedule)
	s.mux.HandleFunc("GET /v1/admin/quota-limit", s.handleGetQuotaLimit)
	s.mux.HandleFunc("PUT /v1/admin/quota-limit", s.handleSetQuotaLimit)
	s.mux.HandleFunc("POST /v1/admin/quota/reset/{user_id}", s.handleResetUserCount)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveActor(r)
	if caller.UserID == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "caller identity is required", nil)
		return
	}

	var req listinghttp.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeListingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	resp, err := s.listings.Handler.CreateHandler(r.Context(), listingActor(caller), req)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := listingports.ListFilter{
		OwnerID: query.Get("owner_id"),
		Kind:    query.Get("kind"),
		Status:  query.Get("status"),
	}
	if limitRaw := query.Get("limit"); limitRaw != "" {
		limit, err := strconv.Atoi(limitRaw)
		if err != nil {
			writeListingError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer", nil)
			return
		}
		filter.Limit = limit
	}
	if offsetRaw := query.Get("offset"); offsetRaw != "" {
		offset, err := strconv.Atoi(offsetRaw)
		if err != nil {
			writeListingError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer", nil)
			return
		}
		filter.Offset = offset
	}

	resp, err := s.listings.Handler.ListHandler(r.Context(), filter)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	resp, err := s.listings.Handler.GetHandler(r.Context(), r.PathValue("listing_id"))
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDailyCount(w http.ResponseWriter, r *http.Request) {
	caller := s.resolveActor(r)
	if caller.UserID == "" {
		writeAdmissionError(w, http.StatusUnauthorized, "missing_user", "caller identity is required", nil)
		return
	}

	resp, err := s.admission.Handler.DailyUsageHandler(r.Context(), admissionActor(caller))
	if err != nil {
		writeAdmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePostingStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.admission.Handler.PostingStatusHandler(r.Context())
	if err != nil {
		writeAdmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproveListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	resp, err := s.listings.Handler.ApproveHandler(r.Context(), listingActor(caller), r.PathValue("listing_id"))
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRejectListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}

	var req listinghttp.RejectListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeListingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	resp, err := s.listings.Handler.RejectHandler(r.Context(), listingActor(caller), r.PathValue("listing_id"), req)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}

	req := listinghttp.CancelListingRequest{}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeListingError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
			return
		}
	}

	resp, err := s.listings.Handler.CancelHandler(r.Context(), listingActor(caller), r.PathValue("listing_id"), req)
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReapproveListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	resp, err := s.listings.Handler.ReapproveHandler(r.Context(), listingActor(caller), r.PathValue("listing_id"))
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExtendListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	resp, err := s.listings.Handler.ExtendHandler(r.Context(), listingActor(caller), r.PathValue("listing_id"))
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	resp, err := s.listings.Handler.DeleteHandler(r.Context(), listingActor(caller), r.PathValue("listing_id"))
	if err != nil {
		writeListingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.admission.Handler.ScheduleHandler(r.Context())
	if err != nil {
		writeAdmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReplaceSchedule(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}

	var req admissionhttp.ReplaceScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAdmissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	resp, err := s.admission.Handler.ReplaceScheduleHandler(r.Context(), admissionActor(caller), req)
	if err != nil {
		writeAdmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetQuotaLimit(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireAdmin(w, r); !ok {
		return
	}
	resp, err := s.admission.Handler.QuotaLimitHandler(r.Context())
	if err != nil {
		writeAdmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetQuotaLimit(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}

	var req admissionhttp.SetQuotaLimitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAdmissionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}

	resp, err := s.admission.Handler.SetQuotaLimitHandler(r.Context(), admissionActor(caller), req)
	if err != nil {
		writeAdmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetUserCount(w http.ResponseWriter, r *http.Request) {
	caller, ok := s.requireAdmin(w, r)
	if !ok {
		return
	}
	resp, err := s.admission.Handler.ResetUserCountHandler(r.Context(), admissionActor(caller), r.PathValue("user_id"))
	if err != nil {
		writeAdmissionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) (actor, bool) {
	caller := s.resolveActor(r)
	if caller.UserID == "" {
		writeListingError(w, http.StatusUnauthorized, "missing_user", "caller identity is required", nil)
		return actor{}, false
	}
	if caller.Role != "admin" {
		writeListingError(w, http.StatusForbidden, "forbidden", "admin role is required", nil)
		return actor{}, false
	}
	return caller, true
}

func writeListingDomainError(w http.ResponseWriter, err error) {
	var transition listingerrors.TransitionError
	var scheduleClosed listingerrors.ScheduleClosedError
	var quotaExceeded listingerrors.QuotaExceededError

	switch {
	case errors.As(err, &scheduleClosed):
		details := map[string]any{}
		if scheduleClosed.NextAllowedAt != nil {
			details["next_allowed_at"] = scheduleClosed.NextAllowedAt.UTC().Format(time.RFC3339)
		}
		writeListingError(w, http.StatusForbidden, "schedule_closed", err.Error(), details)
	case errors.As(err, &quotaExceeded):
		writeListingError(w, http.StatusForbidden, "quota_exceeded", err.Error(), map[string]any{
			"current":   quotaExceeded.Current,
			"limit":     quotaExceeded.Limit,
			"remaining": quotaExceeded.Remaining,
		})
	case errors.As(err, &transition):
		writeListingError(w, http.StatusConflict, "invalid_transition", err.Error(), map[string]any{
			"status": transition.Status,
			"event":  transition.Event,
		})
	case errors.Is(err, listingerrors.ErrInvalidTransition):
		writeListingError(w, http.StatusConflict, "invalid_transition", err.Error(), nil)
	case errors.Is(err, listingerrors.ErrListingNotFound):
		writeListingError(w, http.StatusNotFound, "listing_not_found", err.Error(), nil)
	case errors.Is(err, listingerrors.ErrForbidden):
		writeListingError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, listingerrors.ErrInvalidListing),
		errors.Is(err, listingerrors.ErrUnsupportedKind),
		errors.Is(err, listingerrors.ErrReasonRequired),
		errors.Is(err, listingerrors.ErrOwnerRequired):
		writeListingError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error(), nil)
	default:
		writeListingError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

func writeAdmissionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, admissionerrors.ErrForbidden):
		writeAdmissionError(w, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, admissionerrors.ErrInvalidWindow),
		errors.Is(err, admissionerrors.ErrOvernightWindow),
		errors.Is(err, admissionerrors.ErrDuplicateWeekday),
		errors.Is(err, admissionerrors.ErrInvalidLimit),
		errors.Is(err, admissionerrors.ErrInvalidUserID):
		writeAdmissionError(w, http.StatusUnprocessableEntity, "validation_failed", err.Error(), nil)
	default:
		writeAdmissionError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

func writeListingError(w http.ResponseWriter, status int, code string, message string, details map[string]any) {
	writeJSON(w, status, listinghttp.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func writeAdmissionError(w http.ResponseWriter, status int, code string, message string, details map[string]any) {
	writeJSON(w, status, admissionhttp.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func listingActor(caller actor) listingports.Actor {
	return listingports.Actor{UserID: caller.UserID, Role: caller.Role}
}

func admissionActor(caller actor) admissionports.Actor {
	return admissionports.Actor{UserID: caller.UserID, Role: caller.Role}
}
