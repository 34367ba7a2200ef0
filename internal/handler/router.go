package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/staff-directory-console/internal/middleware"
	"github.com/noah-isme/staff-directory-console/internal/service"
	"github.com/noah-isme/staff-directory-console/pkg/logger"
	corsmiddleware "github.com/noah-isme/staff-directory-console/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/staff-directory-console/pkg/middleware/requestid"
)

// RouterDeps carries everything the HTTP surface needs.
type RouterDeps struct {
	Console *ConsoleHandler
	Ops     *MetricsHandler
	Metrics *service.MetricsService
	Logger  *zap.Logger

	// Session resolves or starts the browser session; ExistingSession only
	// resolves it.
	Session         gin.HandlerFunc
	ExistingSession gin.HandlerFunc

	AllowedOrigins []string
	MetricsEnabled bool
	DocsEnabled    bool
}

// NewRouter builds the gin engine serving the console and ops endpoints.
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.AllowedOrigins))
	if deps.MetricsEnabled {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	r.GET("/health", deps.Ops.Health)
	r.GET("/ready", deps.Ops.Ready)
	if deps.MetricsEnabled {
		r.GET("/metrics", deps.Ops.Prometheus)
	}
	if deps.DocsEnabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := deps.Console
	r.POST("/console/session/end", deps.ExistingSession, h.EndSession)

	console := r.Group("/", middleware.WithResponseMeta(), deps.Session)
	console.GET("/", h.Page)
	console.GET("/console/views/:view", h.SwitchView)
	console.GET("/console/filters/search", h.SetSearch)
	console.POST("/console/filters/search", h.SetSearch)
	console.GET("/console/filters/department", h.SetDepartment)
	console.POST("/console/filters/department", h.SetDepartment)
	console.POST("/console/filters/reset", h.ResetFilters)
	console.POST("/console/teachers/new", h.OpenCreate)
	console.GET("/console/teachers/:id", h.ViewTeacher)
	console.POST("/console/teachers/detail/close", h.CloseDetail)
	console.GET("/console/teachers/:id/edit", h.EditTeacher)
	console.POST("/console/teachers/form", h.SubmitForm)
	console.POST("/console/teachers/form/close", h.CloseForm)
	console.POST("/console/teachers/:id/delete", h.RequestDelete)
	console.POST("/console/teachers/delete/confirm", h.ConfirmDelete)
	console.GET("/console/export/:file", h.Export)

	return r, nil
}
