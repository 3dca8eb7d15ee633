package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/chanchalmahajan01/GKT/internal/account"
	"github.com/chanchalmahajan01/GKT/internal/logger"
	"github.com/chanchalmahajan01/GKT/internal/menu"
	"github.com/chanchalmahajan01/GKT/internal/order"
	"github.com/chanchalmahajan01/GKT/internal/utils"

	"go.uber.org/zap"
)

// writeServiceError maps domain errors onto HTTP statuses. Anything
// unrecognized is logged and surfaced as a generic failure so internals
// never leak to the caller.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		verr *order.ValidationError
		terr *order.TransitionError
	)

	switch {
	case errors.As(err, &verr):
		utils.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"message": "Validation error",
			"fields":  verr.Fields,
		})

	case errors.As(err, &terr):
		utils.WriteJSON(w, http.StatusConflict, map[string]any{
			"message":          terr.Error(),
			"current_status":   terr.From,
			"requested_status": terr.To,
			"valid_next":       order.ValidNext(terr.From),
		})

	case errors.Is(err, order.ErrMalformedReference):
		utils.WriteJSONError(w, "Invalid ID format", http.StatusBadRequest)

	case errors.Is(err, order.ErrNotDelivered),
		errors.Is(err, order.ErrAlreadyReviewed):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)

	case errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, order.ErrProviderNotFound),
		errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, menu.ErrMenuNotFound):
		utils.WriteJSONError(w, err.Error(), http.StatusNotFound)

	case errors.Is(err, account.ErrEmailExists),
		errors.Is(err, account.ErrMissingFields),
		errors.Is(err, account.ErrInvalidOTP),
		errors.Is(err, account.ErrOTPExpired),
		errors.Is(err, menu.ErrMissingFields),
		errors.Is(err, menu.ErrInvalidPrice),
		errors.Is(err, menu.ErrUnnamedItem):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)

	case errors.Is(err, account.ErrInvalidCredentials):
		utils.WriteJSONError(w, err.Error(), http.StatusUnauthorized)

	case errors.Is(err, account.ErrNotVerified):
		utils.WriteJSONError(w, "Please verify your email. A new OTP has been sent.", http.StatusForbidden)

	case errors.Is(err, account.ErrEmailDelivery):
		utils.WriteJSONError(w, err.Error(), http.StatusInternalServerError)

	default:
		logger.FromCtx(ctx).Error("unhandled service error", zap.Error(err))
		utils.WriteJSONError(w, "Something went wrong!", http.StatusInternalServerError)
	}
}
