package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	discoverysvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/discovery"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/dto"
	httperrors "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/errors"
)

type FeedHandler struct {
	service *discoverysvc.Service
}

func NewFeedHandler(service *discoverysvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)

	candidates, err := h.service.Feed(r.Context(), identity.UserID, limit)
	if err != nil {
		switch {
		case errors.Is(err, discoverysvc.ErrProfileRequired):
			writeForbidden(w, "PROFILE_NOT_APPROVED", "an approved profile is required to browse")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load feed")
		}
		return
	}

	items := make([]dto.FeedItemResponse, 0, len(candidates))
	for _, c := range candidates {
		items = append(items, dto.FeedItemResponse{
			UserID:      c.Profile.UserID,
			DisplayName: c.Profile.DisplayName,
			Age:         c.Profile.Age,
			City:        c.Profile.City,
			Religion:    c.Profile.Religion,
			Education:   c.Profile.Education,
			Occupation:  c.Profile.Occupation,
			Bio:         c.Profile.Bio,
			Score:       c.Score,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.FeedResponse{Items: items})
}

func parseIntOrDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
