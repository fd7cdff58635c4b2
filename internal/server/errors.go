package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/jadeswanstrom/ioweyou/internal/auth/domain"
	invoicedomain "github.com/jadeswanstrom/ioweyou/internal/invoice/domain"
	"github.com/jadeswanstrom/ioweyou/internal/payout"
	publicdomain "github.com/jadeswanstrom/ioweyou/internal/publicinvoice/domain"
	"github.com/jadeswanstrom/ioweyou/internal/storage"
	"github.com/jadeswanstrom/ioweyou/internal/token"
	userdomain "github.com/jadeswanstrom/ioweyou/internal/user/domain"
	"github.com/jadeswanstrom/ioweyou/pkg/db/pagination"
)

var (
	ErrNotFound     = errors.New("not_found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate_limited")
)

type apiError struct {
	status  int
	code    string
	message string
	field   string
}

func (e *apiError) Error() string { return e.code }

func invalidRequestError() *apiError {
	return &apiError{status: http.StatusBadRequest, code: "invalid_request", message: "invalid request payload"}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{status: http.StatusBadRequest, code: code, message: message, field: field}
}

// statusFor maps domain sentinels onto HTTP statuses. Anything unmapped is
// a 500 with a generic body so internals never leak.
func statusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidID),
		errors.Is(err, invoicedomain.ErrInvalidTitle),
		errors.Is(err, invoicedomain.ErrInvalidClient),
		errors.Is(err, invoicedomain.ErrMissingTotal),
		errors.Is(err, invoicedomain.ErrInvalidStatus),
		errors.Is(err, invoicedomain.ErrNoRecipients),
		errors.Is(err, invoicedomain.ErrTooManyRecipients),
		errors.Is(err, authdomain.ErrInvalidRequest),
		errors.Is(err, authdomain.ErrWeakPassword),
		errors.Is(err, pagination.ErrInvalidPageToken),
		errors.Is(err, storage.ErrUnsupportedType),
		errors.Is(err, storage.ErrTooLarge):
		return http.StatusBadRequest, unwrapCode(err), err.Error()

	case errors.Is(err, payout.ErrNotConfigured):
		return http.StatusConflict, "payout_not_configured",
			"set a payout handle in your settings before sharing an invoice"

	case errors.Is(err, authdomain.ErrEmailTaken):
		return http.StatusConflict, "email_taken", "an account with this email already exists"

	case errors.Is(err, invoicedomain.ErrInvoiceNotFound),
		errors.Is(err, publicdomain.ErrNotFoundOrUnshared),
		errors.Is(err, userdomain.ErrUserNotFound),
		errors.Is(err, ErrNotFound):
		return http.StatusNotFound, unwrapCode(err), "not found"

	case errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized", "authentication required"

	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited", "too many requests"

	case errors.Is(err, invoicedomain.ErrDeliveryFailed):
		return http.StatusBadGateway, "delivery_failed", "invoice email could not be delivered"

	case errors.Is(err, token.ErrExhausted):
		return http.StatusInternalServerError, "token_exhausted", "could not issue a share token, retry"

	default:
		return http.StatusInternalServerError, "internal_error", "internal error"
	}
}

func unwrapCode(err error) string {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return apiErr.code
	}
	return err.Error()
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		body := gin.H{"code": apiErr.code, "message": apiErr.message}
		if apiErr.field != "" {
			body["field"] = apiErr.field
		}
		c.AbortWithStatusJSON(apiErr.status, gin.H{"error": body})
		return
	}

	status, code, message := statusFor(err)
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}
