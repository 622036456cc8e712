package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nicholas91X/auto2g-backend/internal/domain"
)

var errorStatus = map[error]int{
	domain.ErrSearchQueryRequired:  http.StatusBadRequest,
	domain.ErrInvalidRole:          http.StatusBadRequest,
	domain.ErrNoPasswordSet:        http.StatusBadRequest,
	domain.ErrWrongCurrentPassword: http.StatusBadRequest,
	domain.ErrLastActiveAdmin:      http.StatusBadRequest,
	domain.ErrBuyerRequired:        http.StatusBadRequest,
	domain.ErrInvalidStatus:        http.StatusBadRequest,
	domain.ErrUnsupportedImageType: http.StatusBadRequest,

	domain.ErrInvalidCredentials: http.StatusUnauthorized,
	domain.ErrAccountNotVerified: http.StatusUnauthorized,
	domain.ErrAccountDisabled:    http.StatusUnauthorized,
	domain.ErrInvalidToken:       http.StatusUnauthorized,
	domain.ErrWrongTokenType:     http.StatusUnauthorized,

	domain.ErrForbidden:             http.StatusForbidden,
	domain.ErrSystemAdminSelfDelete: http.StatusForbidden,
	domain.ErrAdminSelfDelete:       http.StatusForbidden,
	domain.ErrAdminDeletePeer:       http.StatusForbidden,
	domain.ErrDeleteOtherAccount:    http.StatusForbidden,
	domain.ErrSystemAdminDeactivate: http.StatusForbidden,

	domain.ErrAccountNotFound: http.StatusNotFound,
	domain.ErrVehicleNotFound: http.StatusNotFound,
	domain.ErrSaleNotFound:    http.StatusNotFound,
	domain.ErrImageNotFound:   http.StatusNotFound,
	domain.ErrPictureNotFound: http.StatusNotFound,

	domain.ErrEmailTaken:         http.StatusConflict,
	domain.ErrPlateTaken:         http.StatusConflict,
	domain.ErrVehicleAlreadySold: http.StatusConflict,
}

// respondError translates a sentinel into its HTTP status. Errors outside
// the taxonomy are logged with the request id and answered with an opaque
// 500 body.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	for sentinel, status := range errorStatus {
		if errors.Is(err, sentinel) {
			c.JSON(status, gin.H{"error": sentinel.Error()})
			return
		}
	}

	h.log.Error().
		Err(err).
		Str("path", c.Request.URL.Path).
		Str("request_id", c.Writer.Header().Get("X-Request-Id")).
		Msg("unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
