package transport

import (
	"errors"
	"net/http"

	"product-catalog/internal/cart"
	"product-catalog/internal/database"
	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"

	"go.uber.org/zap"
)

// Messages sent in the error envelope for each domain failure
const (
	msgProductNotFound   = "Product not found"
	msgInsufficientStock = "Insufficient product quantity"
	msgProductExists     = "Product already exists"
	msgCartFailed        = "Failed to add item to cart"
	msgDatabaseDown      = "Database unavailable"
	msgInternal          = "Internal server error"
)

// errorStatus maps a domain error to its status code and public message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		return http.StatusNotFound, msgProductNotFound
	case errors.Is(err, repository.ErrInsufficientStock):
		return http.StatusBadRequest, msgInsufficientStock
	case errors.Is(err, repository.ErrProductAlreadyExists):
		return http.StatusConflict, msgProductExists
	case errors.Is(err, cart.ErrUpstream):
		return http.StatusInternalServerError, msgCartFailed
	case errors.Is(err, database.ErrConnection):
		return http.StatusServiceUnavailable, msgDatabaseDown
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// respondWithDomainError writes the envelope for err and logs it. Expected
// client-side failures log at debug, everything else at error.
func (h *ProductHandler) respondWithDomainError(w http.ResponseWriter, err error, msg string, fields ...zap.Field) {
	status, message := errorStatus(err)

	fields = append(fields, zap.Error(err), zap.Int("status", status))
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, fields...)
	} else {
		h.logger.Debug(msg, fields...)
	}

	middleware.RespondWithError(w, status, message)
}
