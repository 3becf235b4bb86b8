package handlers

import (
	"errors"
	"net/http"

	"stock-portfolio/models"

	"github.com/gin-gonic/gin"
)

type response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, response{Success: true, Data: data})
}

func okMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, response{Success: true, Message: message, Data: data})
}

// statusOf maps a failure kind to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientFunds), errors.Is(err, models.ErrInsufficientShares):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrDuplicateEntry):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a failed response. Client errors carry their own
// message; server errors are logged and answered with fallback.
func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	status := statusOf(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.FullPath()).Error(fallback)
		message = fallback
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, response{Success: false, Message: message})
}

// clientError replaces the message of err shown to clients.
type clientError struct {
	message string
	err     error
}

func (e *clientError) Error() string { return e.message }
func (e *clientError) Unwrap() error { return e.err }

func withMessage(err error, message string) error {
	return &clientError{message: message, err: err}
}
