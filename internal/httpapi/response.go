package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sheikh-saqib/accounts-ledger/internal/apperr"
)

// ErrorEnvelope is the body of every failed request.
type ErrorEnvelope struct {
	Errors apperr.List `json:"errors"`
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	switch code {
	case apperr.BadRequest, apperr.BadValue:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Exists:
		return http.StatusConflict
	case apperr.DB:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	errs := apperr.Errors(err)
	c.JSON(StatusFor(apperr.CodeOf(errs)), ErrorEnvelope{Errors: errs})
}

func respondOK(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}
