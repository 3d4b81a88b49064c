package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"iga/internal/logger"
	"iga/internal/report"
	"iga/internal/service"
)

// GradeHandler handles essay grading and submission endpoints.
type GradeHandler struct {
	grading service.GradingService
	reports service.ReportService
	log     *logger.Logger
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(grading service.GradingService, reports service.ReportService, log *logger.Logger) *GradeHandler {
	return &GradeHandler{grading: grading, reports: reports, log: log}
}

// GradeTextRequest is the body of POST /grades/text.
type GradeTextRequest struct {
	Text  string `json:"text" binding:"required"`
	Name  string `json:"name"`
	Email string `json:"email" binding:"omitempty,email"`
}

// GradeText handles POST /api/v1/grades/text
func (h *GradeHandler) GradeText(c *gin.Context) {
	var req GradeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	sub, err := h.grading.GradeText(c.Request.Context(), service.GradeTextInput{
		Name:  req.Name,
		Text:  req.Text,
		Email: req.Email,
	})
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondCreated(c, sub)
}

// Upload handles POST /api/v1/grades/upload
func (h *GradeHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	sub, err := h.grading.GradeUpload(c.Request.Context(), service.GradeUploadInput{
		Filename: header.Filename,
		Size:     header.Size,
		File:     file,
		Email:    c.PostForm("email"),
	})
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondCreated(c, sub)
}

// GetByID handles GET /api/v1/grades/:id
func (h *GradeHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sub, err := h.grading.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, sub)
}

// List handles GET /api/v1/grades?email=&offset=&limit=
func (h *GradeHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	var (
		subs  interface{}
		total int
		err   error
	)
	if email := c.Query("email"); email != "" {
		subs, total, err = h.grading.ListByEmail(c.Request.Context(), email, offset, limit)
	} else {
		subs, total, err = h.grading.List(c.Request.Context(), offset, limit)
	}
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondPaginated(c, subs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Regrade handles POST /api/v1/grades/:id/regrade
func (h *GradeHandler) Regrade(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sub, err := h.grading.Regrade(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, sub)
}

// Download handles GET /api/v1/grades/:id/download
func (h *GradeHandler) Download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	url, err := h.grading.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// Export handles GET /api/v1/grades/export?email=&format=xlsx|csv
func (h *GradeHandler) Export(c *gin.Context) {
	email := c.Query("email")
	label := "grades"
	if email != "" {
		label = "grades_" + email
	}

	switch format := c.DefaultQuery("format", "xlsx"); format {
	case "xlsx":
		filename := report.BuildFilename(label, "xlsx", time.Now())
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		if err := h.reports.ExportXLSX(c.Request.Context(), c.Writer, email); err != nil {
			h.exportFailed(c, err)
		}
	case "csv":
		filename := report.BuildFilename(label, "csv", time.Now())
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		if err := h.reports.ExportCSV(c.Request.Context(), c.Writer, email); err != nil {
			h.exportFailed(c, err)
		}
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be xlsx or csv")
	}
}

// exportFailed reports an export error. Once bytes are on the wire the
// status cannot change, so the error is only logged.
func (h *GradeHandler) exportFailed(c *gin.Context, err error) {
	if c.Writer.Written() {
		h.log.Error("gradeHandler.Export: export aborted mid-stream", "error", err)
		return
	}
	c.Header("Content-Disposition", "")
	c.Header("Content-Type", "")
	HandleError(c, h.log, err)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return uuid.Nil, false
	}
	return id, true
}
