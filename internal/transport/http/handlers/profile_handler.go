package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/repo/postgres"
	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	profilesvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/profiles"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/dto"
	httperrors "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	rec, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrNotFound) {
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile is not filled in yet")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(rec))
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rec, err := h.service.Save(r.Context(), identity.UserID, profilesvc.ProfileInput{
		DisplayName: req.DisplayName,
		Birthdate:   req.Birthdate,
		Gender:      req.Gender,
		City:        req.City,
		Religion:    req.Religion,
		Education:   req.Education,
		Occupation:  req.Occupation,
		Bio:         req.Bio,
	})
	if err != nil {
		if errors.Is(err, profilesvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "profile validation failed")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		return
	}

	httperrors.Write(w, http.StatusOK, mapProfile(rec))
}

func mapProfile(rec pgrepo.ProfileRecord) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:         rec.UserID,
		DisplayName:    rec.DisplayName,
		Age:            rec.Age,
		Gender:         rec.Gender,
		City:           rec.City,
		Religion:       rec.Religion,
		Education:      rec.Education,
		Occupation:     rec.Occupation,
		Bio:            rec.Bio,
		ApprovalStatus: rec.ApprovalStatus,
		RejectReason:   rec.RejectReason,
		UpdatedAt:      rec.UpdatedAt,
	}
}
