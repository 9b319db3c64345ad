package apperr

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projectpulse/pulse-backend/internal/logging"
)

// Respond writes err as a JSON error body. Unexpected errors are logged with
// their detail and answered with a generic message.
func Respond(c *gin.Context, operation string, err error) {
	status := Status(err)

	var verr *ValidationError
	if errors.As(err, &verr) {
		c.JSON(status, gin.H{"error": "Validation failed", "details": verr.Details})
		return
	}

	switch status {
	case http.StatusUnauthorized:
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(status, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(status, gin.H{"error": "Authentication required"})
	case http.StatusForbidden:
		c.JSON(status, gin.H{"error": "Insufficient permissions"})
	case http.StatusNotFound:
		c.JSON(status, gin.H{"error": notFoundMessage(err)})
	default:
		logging.FromContext(c.Request.Context()).Error(operation, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func notFoundMessage(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) && nf.Kind != "" {
		return strings.ToUpper(nf.Kind[:1]) + nf.Kind[1:] + " not found"
	}
	return "Not found"
}
