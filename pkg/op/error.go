package op

import (
	"errors"
	"net/http"

	"golang.org/x/exp/slog"

	httphelper "github.com/idpkit/clientreg/pkg/http"
	"github.com/idpkit/clientreg/pkg/oidc"
)

// ErrMalformedRequest marks a registration request whose body or parameters
// could not be parsed. RequestError answers it with an
// invalid_client_metadata error response.
var ErrMalformedRequest = errors.New("malformed registration request")

// ErrUnauthorized marks a request carrying no or an unacceptable access
// token. Authorizers wrap it to have RequestError answer with status 401.
var ErrUnauthorized = errors.New("unauthorized")

// RequestError writes the client registration error response defined by
// RFC 7591, section 3.2.2 for err and logs it.
//
// Metadata validation errors map to their registration error code with
// status 400. An unknown client maps to status 404 with an empty body, as
// the management protocol demands. Anything else is a server error.
func RequestError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var regErr *oidc.RegistrationError
	switch {
	case errors.As(err, &regErr):
		logger.WarnContext(r.Context(), "client metadata rejected",
			"field", regErr.FieldName, "reason", regErr.Reason, "oidc_error", err)
		resp := &oidc.ClientRegistrationErrorResponse{
			Error:            regErr.Code,
			ErrorDescription: regErr.Description(),
		}
		httphelper.MarshalJSONWithStatus(w, resp, regErr.StatusCode())
	case errors.Is(err, ErrUnauthorized):
		logger.WarnContext(r.Context(), "request not authorized", "oidc_error", err)
		w.Header().Set("www-authenticate", "Bearer")
		w.WriteHeader(http.StatusUnauthorized)
	case errors.Is(err, ErrClientNotFound):
		logger.WarnContext(r.Context(), "client not found", "oidc_error", err)
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, ErrMalformedRequest):
		logger.WarnContext(r.Context(), "malformed registration request", "oidc_error", err)
		resp := &oidc.ClientRegistrationErrorResponse{
			Error:            oidc.InvalidClientMetadata,
			ErrorDescription: err.Error(),
		}
		httphelper.MarshalJSONWithStatus(w, resp, http.StatusBadRequest)
	default:
		logger.ErrorContext(r.Context(), "registration request failed", "oidc_error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
