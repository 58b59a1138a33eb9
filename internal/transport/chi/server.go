// Package chi is the HTTP transport: routing, request decoding, and the
// mapping of domain sentinel errors to response statuses.
package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/domain"
	"github.com/campusfind/refound/internal/metrics"
	claimuc "github.com/campusfind/refound/internal/usecase/claim"
	dismissaluc "github.com/campusfind/refound/internal/usecase/dismissal"
	healthuc "github.com/campusfind/refound/internal/usecase/health"
	ingestuc "github.com/campusfind/refound/internal/usecase/ingest"
	itemsuc "github.com/campusfind/refound/internal/usecase/items"
	matchinguc "github.com/campusfind/refound/internal/usecase/matching"
	notifyuc "github.com/campusfind/refound/internal/usecase/notify"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the engine over HTTP.
type Server struct {
	ingest        *ingestuc.Service
	items         *itemsuc.Service
	matching      *matchinguc.Service
	dismissals    *dismissaluc.Service
	claims        *claimuc.Service
	notifications *notifyuc.Service
	health        *healthuc.Service
	logger        *zap.Logger

	maxUploadBytes int64
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. maxUploadMB caps item photo uploads.
func NewServer(
	ingest *ingestuc.Service,
	items *itemsuc.Service,
	matching *matchinguc.Service,
	dismissals *dismissaluc.Service,
	claims *claimuc.Service,
	notifications *notifyuc.Service,
	health *healthuc.Service,
	maxUploadMB int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:         ingest,
		items:          items,
		matching:       matching,
		dismissals:     dismissals,
		claims:         claims,
		notifications:  notifications,
		health:         health,
		logger:         logger,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeItemNotFound),
		sentinelHandler(domain.ErrNotificationNotFound, http.StatusNotFound, CodeNotificationNotFound),
		sentinelHandler(domain.ErrUnauthorized, http.StatusForbidden, CodeForbidden),
		sentinelHandler(domain.ErrConflict, http.StatusConflict, CodeClaimConflict),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidVector, http.StatusUnprocessableEntity, CodeValidationFailed),
		sentinelHandler(domain.ErrEmbeddingUnavailable, http.StatusServiceUnavailable, CodeEmbeddingUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProvider),
	}
	return s
}

// Routes mounts all API routes on a router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.healthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/items", s.createItem)
		r.Get("/items/mine", s.myItems)
		r.Get("/items/matched", s.myMatchedItems)
		r.Get("/items/{id}/image", s.itemImage)
		r.Delete("/items/{id}", s.deleteItem)
		r.Post("/items/{id}/claim", s.claimItem)

		r.Get("/matches", s.findMatches)
		r.Post("/matches/{id}/dismiss", s.dismissMatch)

		r.Get("/notifications", s.listNotifications)
		r.Patch("/notifications/read-all", s.markAllNotificationsRead)
		r.Patch("/notifications/{id}/read", s.markNotificationRead)
		r.Delete("/notifications/{id}", s.deleteNotification)
	})
}

// createItem handles POST /api/items (multipart form).
func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "image file is required")
		return
	}
	defer func() { _ = file.Close() }()

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "failed to read image: "+err.Error())
		return
	}

	params := ingestuc.Params{
		Owner:       identity,
		Type:        domain.ItemType(r.FormValue("type")),
		Category:    r.FormValue("category"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
		Image:       image,
	}
	if v := r.FormValue("reported_at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "reported_at must be RFC 3339")
			return
		}
		params.ReportedAt = t
	}

	it, best, err := s.ingest.Ingest(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := IngestResponse{Item: itemToDTO(it)}
	if best != nil {
		m := matchToDTO(*best)
		resp.BestMatch = &m
	}
	writeJSON(w, http.StatusCreated, resp)
}

// myItems handles GET /api/items/mine.
func (s *Server) myItems(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	list, err := s.items.Mine(r.Context(), identity)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]ItemResponse, len(list))
	for i, it := range list {
		out[i] = itemToDTO(it)
	}
	writeJSON(w, http.StatusOK, out)
}

// myMatchedItems handles GET /api/items/matched.
func (s *Server) myMatchedItems(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	pairs, err := s.items.MatchedPairs(r.Context(), identity)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]MatchedPairResponse, len(pairs))
	for i, p := range pairs {
		out[i] = pairToDTO(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// itemImage handles GET /api/items/{id}/image.
func (s *Server) itemImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	data, mime, err := s.items.Image(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// deleteItem handles DELETE /api/items/{id}.
func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.items.Delete(r.Context(), id, identity); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// claimItem handles POST /api/items/{id}/claim. {id} is the matched item;
// the body names the caller's own item backing the claim.
func (s *Server) claimItem(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	matchedID := chi.URLParam(r, "id")

	var req ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.OwnedItemID == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "owned_item_id is required")
		return
	}

	if err := s.claims.Claim(r.Context(), matchedID, req.OwnedItemID, identity); err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "claimed"})
}

// findMatches handles GET /api/matches.
func (s *Server) findMatches(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	matches, err := s.matching.FindMatches(r.Context(), identity)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]MatchResponse, len(matches))
	for i, m := range matches {
		out[i] = matchToDTO(m)
	}
	writeJSON(w, http.StatusOK, MatchListResponse{Matches: out, Total: len(out)})
}

// dismissMatch handles POST /api/matches/{id}/dismiss. {id} is the caller's
// owned item; the body names the candidate to suppress.
func (s *Server) dismissMatch(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	ownedID := chi.URLParam(r, "id")

	var req DismissRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.dismissals.Dismiss(r.Context(), identity, ownedID, req.DismissedItemID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listNotifications handles GET /api/notifications.
func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	limit := notifyuc.DefaultListLimit
	if r.URL.Query().Has("limit") {
		if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
			writeError(w, http.StatusBadRequest, CodeValidationFailed, "limit must be an integer")
			return
		}
	}

	inbox, err := s.notifications.List(r.Context(), identity, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	out := make([]NotificationResponse, len(inbox.Notifications))
	for i, n := range inbox.Notifications {
		out[i] = notificationToDTO(n)
	}
	writeJSON(w, http.StatusOK, InboxResponse{Notifications: out, UnreadCount: inbox.UnreadCount})
}

// markNotificationRead handles PATCH /api/notifications/{id}/read.
func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.notifications.MarkRead(r.Context(), identity, id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// markAllNotificationsRead handles PATCH /api/notifications/read-all.
func (s *Server) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())

	if err := s.notifications.MarkAllRead(r.Context(), identity); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteNotification handles DELETE /api/notifications/{id}.
func (s *Server) deleteNotification(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.notifications.Delete(r.Context(), identity, id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Middleware returns the HTTP metrics middleware, re-exported so the
// composition root wires a single transport package.
func Middleware() func(http.Handler) http.Handler {
	return metrics.Middleware()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrNotificationNotFound,
		domain.ErrUnauthorized,
		domain.ErrConflict,
		domain.ErrInvalidInput,
		domain.ErrInvalidVector,
		domain.ErrEmbeddingUnavailable,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
