package handlers

import (
	"errors"
	"net/http"

	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/models"
	"github.com/Abiraj-Jatheeskumar/Questify-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Type aliases so swag can resolve models in annotations.
type Response = models.Response
type Question = models.Question
type Assignment = models.Assignment
type Class = models.Class
type User = models.User

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// fail maps the service error taxonomy to an HTTP status. Duplicate
// submissions map to 400, which keeps client retries idempotent-safe.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrDuplicateSubmission):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
