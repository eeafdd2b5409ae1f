package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tandem-user-service/internal/usecase/user"
	apperrors "tandem-user-service/pkg/errors"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// ErrorResponse represents a generic error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse represents a response carrying field-level
// validation failures
type ValidationErrorResponse struct {
	Errors []apperrors.FieldError `json:"errors"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("malformed create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data."})
		return
	}

	resp, err := h.uc.CreateUser(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", "/api/users?emailAddress="+url.QueryEscape(resp.EmailAddress))
	c.JSON(http.StatusCreated, resp)
}

// GetUserByEmail handles GET /api/users?emailAddress=...
func (h *UserHandler) GetUserByEmail(c *gin.Context) {
	email := c.Query("emailAddress")
	if strings.TrimSpace(email) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "EmailAddress query parameter is required."})
		return
	}

	resp, err := h.uc.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: fmt.Sprintf("User with email address '%s' not found.", email),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateUser handles PUT /api/users/:emailAddress
func (h *UserHandler) UpdateUser(c *gin.Context) {
	email := c.Param("emailAddress")

	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("malformed update user request", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request data."})
		return
	}

	resp, err := h.uc.UpdateUser(c.Request.Context(), email, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// handleError converts usecase errors to HTTP responses. Validation errors
// carry the full field list; anything without an explicit status is an
// infrastructure failure and reports as 500, never 400.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(validationErr.HTTPStatus(), ValidationErrorResponse{Errors: validationErr.Errors})
		return
	}

	var statusErr apperrors.HTTPStatuser
	if errors.As(err, &statusErr) {
		status := statusErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			h.log.Error("request failed", zap.Error(err))
			c.JSON(status, ErrorResponse{Error: "An internal error occurred."})
			return
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	h.log.Error("unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An internal error occurred."})
}
