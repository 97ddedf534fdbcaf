package handlers

import (
	"errors"
	"net/http"
	"strings"

	authsvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/auth"
	likessvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/likes"
	swipesvc "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/services/swipes"
	"github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/dto"
	httperrors "github.com/IAM-Nitesh/Shaadi-Mantrana-sub002/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "LIKE")
}

func (h *SwipeHandler) SuperLike(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "SUPER_LIKE")
}

func (h *SwipeHandler) Pass(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, "PASS")
}

func (h *SwipeHandler) handle(w http.ResponseWriter, r *http.Request, action string) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.TargetID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id is required")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.TargetID, action, timezoneFromRequest(r))
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrSelfAction):
			writeBadRequest(w, "VALIDATION_ERROR", "cannot swipe on yourself")
		case errors.Is(err, swipesvc.ErrUnsupportedAction):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported action")
		case errors.Is(err, likessvc.ErrDailyLimit):
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.QuotaError{
				Code:    "LIKE_LIMIT_REACHED",
				Message: "daily likes limit reached",
			})
		default:
			if tf, ok := likessvc.IsTooFast(err); ok {
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
					Code:          "TOO_FAST",
					Message:       "too many like actions, slow down",
					RetryAfterSec: tf.RetryAfter(),
				})
				return
			}
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, swipeResponse(result, action))
}

// A repeated pass is a plain ok; already_liked is reported only when the
// duplicate request was like-class.
func swipeResponse(result swipesvc.SwipeResult, action string) dto.SwipeResponse {
	return dto.SwipeResponse{
		OK:             true,
		IsMutualMatch:  result.MatchCreated,
		AlreadyLiked:   result.AlreadySwiped && action != "PASS",
		MatchedAt:      result.MatchedAt,
		ConnectionID:   result.ConnectionID,
		DailyLikeCount: result.Quota.DailyLikeCount,
		RemainingLikes: result.Quota.RemainingLikes,
		ResetAt:        result.Quota.ResetAt.UTC(),
	}
}

func timezoneFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if v := strings.TrimSpace(r.Header.Get("X-Timezone")); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("tz")); v != "" {
		return v
	}
	return ""
}
