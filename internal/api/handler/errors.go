package handler

import (
	"errors"
	"net/http"

	"github.com/fluxuro/uro-client-template-api/internal/api/response"
	"github.com/fluxuro/uro-client-template-api/internal/jobrun"
	"github.com/fluxuro/uro-client-template-api/internal/params"
	"github.com/fluxuro/uro-client-template-api/internal/store"
)

// writeError maps domain errors to HTTP responses. Validation and provider
// errors carry their message to the client; anything unrecognized is
// genericized to avoid leaking internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, params.ErrMissingRequired),
		errors.Is(err, params.ErrTypeMismatch),
		errors.Is(err, params.ErrInvalidJSON),
		errors.Is(err, params.ErrValueNotAllowed),
		errors.Is(err, params.ErrOutOfRange),
		errors.Is(err, params.ErrNoValidParameters),
		errors.Is(err, params.ErrUnknownDataType):
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	case errors.Is(err, jobrun.ErrInsufficientBalance):
		response.Error(w, http.StatusPaymentRequired, "INSUFFICIENT_BALANCE",
			"Insufficient balance for this model", nil)
	case errors.Is(err, jobrun.ErrModelNotFound):
		response.Error(w, http.StatusNotFound, "MODEL_NOT_FOUND", "Model not found", nil)
	case errors.Is(err, jobrun.ErrJobNotFound), errors.Is(err, store.ErrNotFound):
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, jobrun.ErrProvider):
		response.Error(w, http.StatusBadRequest, "PROVIDER_ERROR", err.Error(), nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}
