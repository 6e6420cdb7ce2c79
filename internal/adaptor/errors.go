package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"whats-poppin/internal/usecase"
	"whats-poppin/pkg/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrUnauthorized), errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrConflict), errors.Is(err, usecase.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func logFailure(log *zap.Logger, err error, operation string, code int) {
	if code >= http.StatusInternalServerError {
		log.Error(operation+" failed", zap.Error(err), zap.String("operation", operation))
		return
	}
	log.Warn(operation+" rejected", zap.Error(err), zap.String("operation", operation), zap.Int("status", code))
}

// handleServiceError writes the standard response envelope.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	code := statusFor(err)
	logFailure(log, err, operation, code)

	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.ResponseBadRequest(w, verr.Message, verr.Fields)
	case code == http.StatusInternalServerError:
		utils.ResponseInternalError(w, "Internal server error")
	default:
		utils.ResponseJSON(w, code, false, err.Error(), nil, nil)
	}
}

// handleFlatError writes {"error": ...}, the shape the booking payment
// endpoints promise to the browser client.
func handleFlatError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	code := statusFor(err)
	logFailure(log, err, operation, code)
	utils.WriteError(w, code, err.Error())
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", usecase.ErrValidation)
	}
	return nil
}

// decodeStrict also rejects fields the target struct does not declare.
func decodeStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %s", usecase.ErrValidation, err.Error())
	}
	return nil
}

func identityOrFail(w http.ResponseWriter, r *http.Request) (utils.Identity, bool) {
	identity, ok := utils.GetIdentityFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return identity, ok
}
