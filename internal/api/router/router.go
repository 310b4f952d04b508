// Package router wires the HTTP routes and middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gab-cat/qpi-calculator-sub000/config"
	"github.com/gab-cat/qpi-calculator-sub000/internal/api/handler"
	"github.com/gab-cat/qpi-calculator-sub000/internal/api/middleware"
	"github.com/gab-cat/qpi-calculator-sub000/pkg/redis"
)

const (
	transferRateLimit  = 10
	transferRateWindow = time.Minute
)

// New builds the gin engine with every route registered.
func New(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.Server.CORS.AllowOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	record := api.Group("/record")
	{
		record.GET("", h.Record.Get)
		record.PUT("/configuration", h.Record.UpdateConfiguration)
		record.POST("/recalculate", h.Record.Recalculate)
		record.POST("/template", h.Catalog.PublishTemplate)
	}

	semesters := api.Group("/semesters")
	{
		semesters.GET("", h.Semester.List)
		semesters.POST("", h.Semester.Create)
		semesters.GET("/:id", h.Semester.Get)
		semesters.PUT("/:id", h.Semester.Update)
		semesters.DELETE("/:id", h.Semester.Delete)
		semesters.PUT("/:id/complete", h.Semester.Complete)
		semesters.PUT("/:id/grades/order", h.Semester.ReorderGrades)
		semesters.POST("/:id/grades", h.Grade.Add)
	}

	grades := api.Group("/grades")
	{
		grades.PUT("/:id", h.Grade.Update)
		grades.PUT("/:id/score", h.Grade.UpdateScore)
		grades.DELETE("/:id", h.Grade.Remove)
	}

	// Bulk transfer routes carry uploads: body-capped and rate limited.
	transfer := api.Group("")
	transfer.Use(
		middleware.BodyLimit(cfg.Import.MaxFileSize),
		middleware.RateLimit(rdb, logger, transferRateLimit, transferRateWindow),
	)
	{
		transfer.POST("/import/csv", h.Transfer.ImportCSV)
		transfer.POST("/import/csv/validate", h.Transfer.ValidateCSV)
		transfer.POST("/import/xlsx", h.Transfer.ImportXLSX)
		transfer.GET("/import/template", h.Transfer.ImportTemplate)
		transfer.POST("/import/snapshot", h.Transfer.ImportSnapshot)
		transfer.GET("/export/csv", h.Transfer.ExportCSV)
		transfer.GET("/export/xlsx", h.Transfer.ExportXLSX)
		transfer.GET("/export/snapshot", h.Transfer.ExportSnapshot)
	}

	catalogGroup := api.Group("/catalog")
	{
		catalogGroup.GET("/courses", h.Catalog.ListCourses)
		catalogGroup.POST("/courses", h.Catalog.CreateCourse)
		catalogGroup.GET("/courses/:code", h.Catalog.GetCourse)
		catalogGroup.POST("/templates", h.Catalog.CreateTemplate)
		catalogGroup.POST("/templates/:id/apply", h.Catalog.ApplyTemplate)
	}

	return r
}
