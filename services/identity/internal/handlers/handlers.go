package handlers

import (
	"errors"
	"net/http"

	"github.com/voyago/travelbook/pkg/logger"
	"github.com/voyago/travelbook/pkg/response"
	"github.com/voyago/travelbook/services/identity/internal/domain"
	"github.com/voyago/travelbook/services/identity/internal/service"
)

type Handlers struct {
	identity service.IdentityService
}

func New(identity service.IdentityService) *Handlers {
	return &Handlers{identity: identity}
}

// writeServiceError maps the service's failure classes onto the status
// table. Anything unrecognized is logged in full and surfaced as a generic
// 500 with no internal detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		response.NotFound(w, domain.ErrUserNotFound.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(w, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrDuplicateUser):
		response.Conflict(w, domain.ErrDuplicateUser.Error())
	case errors.Is(err, domain.ErrPasswordMismatch):
		response.BadRequest(w, domain.ErrPasswordMismatch.Error())
	case errors.Is(err, domain.ErrInvalidResetToken):
		response.BadRequest(w, domain.ErrInvalidResetToken.Error())
	default:
		logger.ErrorContext(r.Context(), "Unexpected error", "error", err, "path", r.URL.Path)
		response.InternalError(w, "An unexpected error occurred")
	}
}
