package handlers

import (
	"net/http"

	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	likessvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/likes"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/dto"
	httperrors "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/errors"
)

type QuotaHandler struct {
	service *likessvc.Service
}

func NewQuotaHandler(service *likessvc.Service) *QuotaHandler {
	return &QuotaHandler{service: service}
}

func (h *QuotaHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "QUOTA_SERVICE_UNAVAILABLE", "quota service is unavailable")
		return
	}

	snapshot, err := h.service.GetSnapshot(r.Context(), identity.UserID, timezoneFromRequest(r))
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load quota")
		return
	}

	httperrors.Write(w, http.StatusOK, mapQuotaSnapshot(snapshot))
}

func mapQuotaSnapshot(snapshot likessvc.Snapshot) dto.QuotaResponse {
	return dto.QuotaResponse{
		DailyLikeCount: snapshot.DailyLikeCount,
		RemainingLikes: snapshot.RemainingLikes,
		ResetAt:        snapshot.ResetAt.UTC(),
	}
}
