package router

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/server/handlers"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Records   *handlers.RecordsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, tmpl *template.Template, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/dashboard")
	})

	r.GET("/login", h.Auth.ShowLogin)
	r.POST("/login", h.Auth.Login)
	r.POST("/logout", h.Auth.Logout)

	authed := r.Group("/", h.Auth.RequireSession())
	{
		authed.GET("/dashboard", h.Dashboard.Show)

		dash := authed.Group("/dashboard")
		dash.POST("/lookup", h.Dashboard.Lookup)
		dash.POST("/staff", h.Dashboard.SetStaff)
		dash.POST("/items", h.Dashboard.SubmitItem)
		dash.POST("/items/:index/delete", h.Dashboard.RemoveItem)
		dash.POST("/items/clear", h.Dashboard.ClearItems)
		dash.POST("/submit-clear", h.Dashboard.SubmitAndClear)
		dash.POST("/feedback", h.Dashboard.SubmitFeedback)
		dash.POST("/feedback/clear", h.Dashboard.ClearFeedback)

		authed.GET("/records", h.Records.Show)
		authed.GET("/records/:store/export.csv", h.Records.ExportCSV)
		authed.GET("/records/:store/export.xlsx", h.Records.ExportXLSX)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
