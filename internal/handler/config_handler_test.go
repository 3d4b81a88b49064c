package handler_test

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"iga/internal/domain"
	"iga/internal/handler"
	"iga/internal/logger"
	"iga/internal/rubric"
	"iga/mocks"
)

func newConfigRouter(svc *mocks.MockConfigService) *gin.Engine {
	h := handler.NewConfigHandler(svc, logger.Nop())
	r := gin.New()
	r.GET("/config/rubric", h.GetRubric)
	r.PUT("/config/rubric", h.PutRubric)
	r.GET("/config/weights", h.GetWeights)
	r.PUT("/config/weights", h.PutWeights)
	r.GET("/config/style", h.GetStyle)
	r.PUT("/config/style", h.PutStyle)
	r.GET("/keywords", h.ListKeywords)
	r.POST("/keywords", h.AddKeyword)
	r.DELETE("/keywords/:keyword", h.RemoveKeyword)
	r.DELETE("/keywords", h.ClearKeywords)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestConfigHandler_GetRubric(t *testing.T) {
	svc := new(mocks.MockConfigService)
	svc.On("Rubric").Return(rubric.DefaultRubric())

	w := do(newConfigRouter(svc), http.MethodGet, "/config/rubric", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"grammar":5`)
}

func TestConfigHandler_PutRubric(t *testing.T) {
	svc := new(mocks.MockConfigService)
	svc.On("UpdateRubric", map[string]any{"grammar": float64(3)}).
		Return(rubric.Rubric{}, &domain.ConfigError{Kind: "rubric", Missing: []string{"key"}})

	w := do(newConfigRouter(svc), http.MethodPut, "/config/rubric", `{"grammar":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_CONFIG", decode(t, w).Error.Code)
}

func TestConfigHandler_PutWeights_NotJSON(t *testing.T) {
	w := do(newConfigRouter(new(mocks.MockConfigService)), http.MethodPut, "/config/weights", `[1,2`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", decode(t, w).Error.Code)
}

func TestConfigHandler_PutStyle_Persist(t *testing.T) {
	svc := new(mocks.MockConfigService)
	svc.On("UpdateStyle", mock.Anything, true).Return(rubric.DefaultStyle(), nil)

	w := do(newConfigRouter(svc), http.MethodPut, "/config/style?persist=true", `{"font":"Arial"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestConfigHandler_PutStyle_PersistDenied(t *testing.T) {
	svc := new(mocks.MockConfigService)
	svc.On("UpdateStyle", mock.Anything, false).
		Return(rubric.Style{}, fmt.Errorf("writing style: %w", domain.ErrPermission))

	w := do(newConfigRouter(svc), http.MethodPut, "/config/style", `{"font":"Arial"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "PERSISTENCE_DENIED", decode(t, w).Error.Code)
}

func TestConfigHandler_Keywords(t *testing.T) {
	svc := new(mocks.MockConfigService)
	svc.On("AddKeyword", "climate").Return(nil)
	svc.On("AddKeyword", "two words").Return(fmt.Errorf("%w: bad", domain.ErrInvalidKeyword))
	svc.On("RemoveKeyword", "climate").Return(nil)
	svc.On("ClearKeywords").Return(errors.New("disk full"))
	svc.On("Keywords").Return([]string{"climate"})
	r := newConfigRouter(svc)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/keywords", "").Code)
	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/keywords", `{"keyword":"climate"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/keywords", `{"keyword":"two words"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/keywords", `{}`).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/keywords/climate", "").Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodDelete, "/keywords", "").Code)
}

func TestConfigHandler_ListKeywords_EmptyIsArray(t *testing.T) {
	svc := new(mocks.MockConfigService)
	svc.On("Keywords").Return(nil)

	w := do(newConfigRouter(svc), http.MethodGet, "/keywords", "")
	assert.Contains(t, w.Body.String(), `"data":[]`)
}
