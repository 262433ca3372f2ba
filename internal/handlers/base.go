package handlers

import (
	"errors"
	"log"
	"net/http"

	"memeboard/internal/apperror"

	"github.com/gin-gonic/gin"
)

// statusFor maps the service error taxonomy onto HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrTransient):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// RenderError writes err as JSON. Validation failures become a field list.
func RenderError(c *gin.Context, err error) {
	if fields, ok := apperror.Fields(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
		return
	}

	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(code, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(code, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// null writes a JSON null, the "not found" answer of single-entity queries.
func null(c *gin.Context) {
	c.JSON(http.StatusOK, nil)
}
