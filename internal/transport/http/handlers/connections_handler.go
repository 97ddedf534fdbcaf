package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	connsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/connections"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/dto"
	httperrors "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/errors"
)

type ConnectionsHandler struct {
	service *connsvc.Service
}

func NewConnectionsHandler(service *connsvc.Service) *ConnectionsHandler {
	return &ConnectionsHandler{service: service}
}

func (h *ConnectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONNECTIONS_SERVICE_UNAVAILABLE", "connections service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)

	records, err := h.service.List(r.Context(), identity.UserID, limit)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load connections")
		return
	}

	items := make([]dto.ConnectionResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.ConnectionResponse{
			ID:           rec.ID,
			TargetUserID: rec.TargetUserID,
			DisplayName:  rec.DisplayName,
			Age:          rec.Age,
			City:         rec.City,
			MatchedAt:    rec.MatchedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.ConnectionsResponse{Items: items})
}

func (h *ConnectionsHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "CONNECTIONS_SERVICE_UNAVAILABLE", "connections service is unavailable")
		return
	}

	var req dto.UnmatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.Unmatch(r.Context(), identity.UserID, req.TargetUserID); err != nil {
		switch {
		case errors.Is(err, connsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid unmatch request")
		case errors.Is(err, connsvc.ErrNotFound):
			writeNotFound(w, "CONNECTION_NOT_FOUND", "connection not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to unmatch")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}
