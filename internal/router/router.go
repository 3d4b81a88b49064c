package router

import (
	"github.com/gin-gonic/gin"

	"iga/internal/handler"
	"iga/internal/logger"
	"iga/internal/middleware"
	"iga/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	log *logger.Logger,
	allowedOrigins []string,
	authSvc service.AuthService,
	gradeH *handler.GradeHandler,
	configH *handler.ConfigHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Grading
	grades := v1.Group("/grades")
	grades.POST("/text", gradeH.GradeText)
	grades.POST("/upload", gradeH.Upload)
	grades.GET("/:id", gradeH.GetByID)
	grades.POST("/:id/regrade", append(middleware.AdminAuth(authSvc), gradeH.Regrade)...)

	// Listings, exports and essay downloads are for staff only
	staff := grades.Group("")
	staff.Use(middleware.StaffAuth(authSvc)...)
	staff.GET("", gradeH.List)
	staff.GET("/export", gradeH.Export)
	staff.GET("/:id/download", gradeH.Download)

	// Configuration reads are public
	cfg := v1.Group("/config")
	cfg.GET("/rubric", configH.GetRubric)
	cfg.GET("/weights", configH.GetWeights)
	cfg.GET("/style", configH.GetStyle)
	v1.GET("/keywords", configH.ListKeywords)

	// Configuration writes require an admin token
	admin := v1.Group("")
	admin.Use(middleware.AdminAuth(authSvc)...)
	admin.PUT("/config/rubric", configH.PutRubric)
	admin.PUT("/config/weights", configH.PutWeights)
	admin.PUT("/config/style", configH.PutStyle)
	admin.POST("/keywords", configH.AddKeyword)
	admin.DELETE("/keywords/:keyword", configH.RemoveKeyword)
	admin.DELETE("/keywords", configH.ClearKeywords)

	return r
}
