package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"iga/internal/domain"
	"iga/internal/logger"
	"iga/internal/service"
)

// maxConfigBody bounds the size of a configuration PUT body.
const maxConfigBody = 64 << 10

// ConfigHandler handles grading configuration and keyword endpoints.
type ConfigHandler struct {
	config service.ConfigService
	log    *logger.Logger
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(config service.ConfigService, log *logger.Logger) *ConfigHandler {
	return &ConfigHandler{config: config, log: log}
}

// GetRubric handles GET /api/v1/config/rubric
func (h *ConfigHandler) GetRubric(c *gin.Context) {
	RespondOK(c, h.config.Rubric())
}

// GetWeights handles GET /api/v1/config/weights
func (h *ConfigHandler) GetWeights(c *gin.Context) {
	RespondOK(c, h.config.Weights())
}

// GetStyle handles GET /api/v1/config/style
func (h *ConfigHandler) GetStyle(c *gin.Context) {
	RespondOK(c, h.config.Style())
}

// PutRubric handles PUT /api/v1/config/rubric
func (h *ConfigHandler) PutRubric(c *gin.Context) {
	body, ok := h.bindObject(c)
	if !ok {
		return
	}
	r, err := h.config.UpdateRubric(body)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, r)
}

// PutWeights handles PUT /api/v1/config/weights
func (h *ConfigHandler) PutWeights(c *gin.Context) {
	body, ok := h.bindObject(c)
	if !ok {
		return
	}
	w, err := h.config.UpdateWeights(body)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, w)
}

// PutStyle handles PUT /api/v1/config/style?persist=true
func (h *ConfigHandler) PutStyle(c *gin.Context) {
	body, ok := h.bindObject(c)
	if !ok {
		return
	}
	st, err := h.config.UpdateStyle(body, c.Query("persist") == "true")
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, st)
}

// ListKeywords handles GET /api/v1/keywords
func (h *ConfigHandler) ListKeywords(c *gin.Context) {
	words := h.config.Keywords()
	if words == nil {
		words = []string{}
	}
	RespondOK(c, words)
}

// KeywordRequest is the body of POST /keywords.
type KeywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

// AddKeyword handles POST /api/v1/keywords
func (h *ConfigHandler) AddKeyword(c *gin.Context) {
	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if err := h.config.AddKeyword(req.Keyword); err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondCreated(c, h.config.Keywords())
}

// RemoveKeyword handles DELETE /api/v1/keywords/:keyword
func (h *ConfigHandler) RemoveKeyword(c *gin.Context) {
	if err := h.config.RemoveKeyword(c.Param("keyword")); err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, h.config.Keywords())
}

// ClearKeywords handles DELETE /api/v1/keywords
func (h *ConfigHandler) ClearKeywords(c *gin.Context) {
	if err := h.config.ClearKeywords(); err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, []string{})
}

// bindObject decodes a flat JSON object. Malformed JSON maps to ErrParse.
func (h *ConfigHandler) bindObject(c *gin.Context) (map[string]any, bool) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxConfigBody))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not read request body")
		return nil, false
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil || body == nil {
		HandleError(c, h.log, fmt.Errorf("%w: %v", domain.ErrParse, err))
		return nil, false
	}
	return body, true
}
