package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"iga/internal/domain"
	"iga/internal/logger"
)

func TestMapDomainError(t *testing.T) {
	rl := domain.NewRateLimitError("claude", errors.New("429"), 30)
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"config", &domain.ConfigError{Kind: "rubric", Missing: []string{"key"}}, http.StatusBadRequest, "INVALID_CONFIG"},
		{"format", &domain.FormatError{Part: "word/document.xml", Err: errors.New("bad")}, http.StatusUnprocessableEntity, "INVALID_DOCUMENT"},
		{"parse", fmt.Errorf("decoding: %w", domain.ErrParse), http.StatusBadRequest, "INVALID_JSON"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"permission", fmt.Errorf("saving: %w", domain.ErrPermission), http.StatusInternalServerError, "PERSISTENCE_DENIED"},
		{"delegate", &domain.DelegateError{Delegate: "grammar", Err: errors.New("down")}, http.StatusBadGateway, "DELEGATE_UNAVAILABLE"},
		{"rate limited", rl, http.StatusServiceUnavailable, "DELEGATE_RATE_LIMITED"},
		{"rate limited inside delegate", &domain.DelegateError{Delegate: "model score", Err: rl}, http.StatusServiceUnavailable, "DELEGATE_RATE_LIMITED"},
		{"file type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"empty", domain.ErrEmptyEssay, http.StatusBadRequest, "EMPTY_ESSAY"},
		{"keyword", fmt.Errorf("%w: empty", domain.ErrInvalidKeyword), http.StatusBadRequest, "INVALID_KEYWORD"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestHandleError_RetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := &domain.RateLimitError{Provider: "all", Err: errors.New("limited"), RetryAfter: 42 * time.Second}
	HandleError(c, logger.Nop(), err)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "42", w.Header().Get("Retry-After"))
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		query              string
		wantOffset, wantLn int
	}{
		{"", 0, 20},
		{"offset=10&limit=50", 10, 50},
		{"offset=-5&limit=500", 0, 20},
		{"limit=abc", 0, 20},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.query, http.NoBody)
		offset, limit := parsePagination(c)
		assert.Equal(t, tt.wantOffset, offset, tt.query)
		assert.Equal(t, tt.wantLn, limit, tt.query)
	}
}
