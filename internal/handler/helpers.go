package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"feedback_portal/internal/policy"
	"feedback_portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bindJSON decodes the body cached by the identity middleware. An empty body
// decodes as the zero value and is still validated.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindBodyWith(obj, binding.JSON)
	if errors.Is(err, io.EOF) {
		return binding.Validator.ValidateStruct(obj)
	}
	return err
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

// writeError maps service and policy errors to a status code. Anything
// unrecognized is logged and reported as a generic server error.
func writeError(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, policy.ErrUnauthenticated),
		errors.Is(err, policy.ErrUnknownCaller),
		errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, policy.ErrCallerBlocked),
		errors.Is(err, policy.ErrAdminRequired),
		errors.Is(err, policy.ErrForbidden),
		errors.Is(err, service.ErrUserBlocked):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrFeedbackNotFound):
		status = http.StatusNotFound
	case errors.Is(err, policy.ErrSelfDelete),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUserAlreadyExists):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Printf("Error during %s: %v", op, err)
		c.JSON(status, gin.H{"error": "Server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
