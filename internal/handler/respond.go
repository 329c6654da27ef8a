package handler

import (
	"SwiftShare/internal/apperr"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error onto the HTTP contract. Expired links are
// reported as not found so a caller cannot tell a burned link from a random
// uuid. Bodies carry a fixed message per kind; the underlying error with its
// storage detail only goes to the server log.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	kind := apperr.Kind(err)
	message := "internal error"
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		status = http.StatusBadRequest
		message = "invalid request"
	case errors.Is(err, apperr.ErrPayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
		message = "file exceeds the upload size limit"
	case errors.Is(err, apperr.ErrExpired):
		status = http.StatusNotFound
		kind = apperr.Kind(apperr.ErrNotFound)
		message = "file not found"
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
		message = "file not found"
	case errors.Is(err, apperr.ErrForbidden):
		status = http.StatusForbidden
		message = "access denied"
	case errors.Is(err, apperr.ErrConflict):
		status = http.StatusConflict
		message = "conflicting request"
	case errors.Is(err, apperr.ErrUnavailable):
		status = http.StatusServiceUnavailable
		message = "service temporarily unavailable"
	case errors.Is(err, apperr.ErrCorrupt):
		status = http.StatusBadGateway
		message = "stored file is damaged"
	}
	if status >= http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": kind, "message": message})
}
