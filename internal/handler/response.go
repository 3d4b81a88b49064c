package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"iga/internal/domain"
	"iga/internal/logger"
	"iga/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error
// codes. Configuration and document errors carry their own message so the
// caller can see which key or part was wrong.
func MapDomainError(err error) (status int, code, msg string) {
	var (
		rlErr     *domain.RateLimitError
		cfgErr    *domain.ConfigError
		formatErr *domain.FormatError
	)
	switch {
	case errors.As(err, &rlErr):
		return http.StatusServiceUnavailable, "DELEGATE_RATE_LIMITED", "grading service is rate limited; retry later"
	case errors.As(err, &cfgErr):
		return http.StatusBadRequest, "INVALID_CONFIG", cfgErr.Error()
	case errors.As(err, &formatErr):
		return http.StatusUnprocessableEntity, "INVALID_DOCUMENT", formatErr.Error()
	case errors.Is(err, domain.ErrParse):
		return http.StatusBadRequest, "INVALID_JSON", "request body is not valid JSON"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrPermission):
		return http.StatusInternalServerError, "PERSISTENCE_DENIED", "configuration could not be saved"
	case errors.Is(err, domain.ErrDelegate):
		return http.StatusBadGateway, "DELEGATE_UNAVAILABLE", "a grading service is unavailable"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: docx, pdf, txt"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrEmptyEssay):
		return http.StatusBadRequest, "EMPTY_ESSAY", "essay text is empty"
	case errors.Is(err, domain.ErrInvalidKeyword):
		return http.StatusBadRequest, "INVALID_KEYWORD", err.Error()
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, log *logger.Logger, err error) {
	status, code, msg := MapDomainError(err)

	var rlErr *domain.RateLimitError
	if errors.As(err, &rlErr) {
		c.Header("Retry-After", strconv.Itoa(int(rlErr.RetryAfter.Seconds())))
	}
	if status >= 500 {
		log.Error("handler.HandleError: request failed",
			"request_id", c.GetString(middleware.ContextKeyRequestID),
			"code", code,
			"error", err)
	}
	RespondError(c, status, code, msg)
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
