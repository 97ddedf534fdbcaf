package handlers

import (
	"errors"
	"net/http"

	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/domain/enums"
	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
	adminsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/admin"
	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/dto"
	httperrors "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/errors"
)

type AdminHandler struct {
	service *adminsvc.Service
}

func NewAdminHandler(service *adminsvc.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) PendingProfiles(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)

	records, err := h.service.PendingProfiles(r.Context(), limit)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load pending profiles")
		return
	}

	items := make([]dto.ProfileResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, mapProfile(rec))
	}

	httperrors.Write(w, http.StatusOK, struct {
		Items []dto.ProfileResponse `json:"items"`
	}{Items: items})
}

func (h *AdminHandler) ApproveProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	userID := pathID(r, "userID")
	if err := h.service.ApproveProfile(r.Context(), userID); err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) RejectProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	userID := pathID(r, "userID")

	var req dto.RejectProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.RejectProfile(r.Context(), userID, req.Reason); err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) Invite(w http.ResponseWriter, r *http.Request) {
	identity, ok := adminIdentity(w, r)
	if !ok {
		return
	}

	var req dto.InviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rec, err := h.service.Invite(r.Context(), req.Email, identity.UserID)
	if err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, mapInvitation(rec))
}

func (h *AdminHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)

	records, err := h.service.Invitations(r.Context(), limit)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load invitations")
		return
	}

	items := make([]dto.InvitationResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, mapInvitation(rec))
	}

	httperrors.Write(w, http.StatusOK, dto.InvitationsResponse{Items: items})
}

func (h *AdminHandler) PreapproveEmail(w http.ResponseWriter, r *http.Request) {
	identity, ok := adminIdentity(w, r)
	if !ok {
		return
	}

	var req dto.PreapproveEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.PreapproveEmail(r.Context(), req.Email, identity.UserID); err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) RevokePreapproval(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}

	var req dto.PreapproveEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	removed, err := h.service.RevokePreapproval(r.Context(), req.Email)
	if err != nil {
		handleAdminError(w, err)
		return
	}
	if !removed {
		writeNotFound(w, "EMAIL_NOT_FOUND", "email is not preapproved")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func adminIdentity(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	if identity.Role != string(enums.RoleAdmin) {
		writeForbidden(w, "FORBIDDEN", "admin role required")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func handleAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid admin request")
	case errors.Is(err, adminsvc.ErrProfileNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process admin request")
	}
}

func mapInvitation(rec pgrepo.InvitationRecord) dto.InvitationResponse {
	return dto.InvitationResponse{
		ID:        rec.ID,
		Email:     rec.Email,
		Token:     rec.Token,
		ExpiresAt: rec.ExpiresAt,
		UsedAt:    rec.UsedAt,
		CreatedAt: rec.CreatedAt,
	}
}
