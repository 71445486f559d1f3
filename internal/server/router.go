package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"civicworks/internal/config"
	"civicworks/internal/handlers"
	"civicworks/internal/logger"
	"civicworks/internal/middleware"
	"civicworks/internal/models"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	handlers.Configure(cfg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger.L))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	r.Use(cors.New(corsCfg))

	// AUTH
	r.POST("/auth/register", handlers.Register)
	r.POST("/auth/login", handlers.Login)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth(cfg.JWTSecret))

	auth.GET("/auth/me", handlers.Me)

	officer := middleware.RequireRole(models.OfficerRoles...)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// ASSETS
	auth.GET("/assets", handlers.ListAssets)
	auth.GET("/assets/:id", handlers.GetAsset)
	auth.POST("/assets", officer, handlers.CreateAsset)
	auth.PUT("/assets/:id", adminOnly, handlers.UpdateAsset)
	auth.DELETE("/assets/:id", adminOnly, handlers.DeleteAsset)
	auth.GET("/assets/:id/details", handlers.ListAssetDetails)
	auth.POST("/assets/:id/details", officer, handlers.CreateAssetDetail)

	// MAP
	auth.GET("/map/assets", handlers.MapAssets)

	// PROJECTS
	auth.GET("/projects", handlers.ListProjects)
	auth.GET("/projects/export", officer, handlers.ExportProjects)
	auth.GET("/projects/:id", handlers.GetProject)
	auth.GET("/projects/:id/timeline", handlers.ProjectTimeline)
	auth.POST("/projects", officer, handlers.CreateProject)
	auth.PUT("/projects/:id", adminOnly, handlers.UpdateProject)
	auth.DELETE("/projects/:id", adminOnly, handlers.DeleteProject)
	auth.POST("/projects/:id/assets", officer, handlers.LinkProjectAsset)

	// PAYMENTS
	auth.GET("/projects/:id/payments", handlers.ListPayments)
	auth.POST("/projects/:id/payments", officer, handlers.CreatePayment)
	auth.DELETE("/payments/:paymentID", adminOnly, handlers.DeletePayment)

	// PROGRESS
	auth.GET("/projects/:id/progress", handlers.ListProgress)
	auth.POST("/projects/:id/progress", officer, handlers.CreateProgress)
	auth.DELETE("/progress/:entryID", adminOnly, handlers.DeleteProgress)

	// DASHBOARDS
	auth.GET("/dashboard/finance", handlers.FinanceDashboard)
	auth.GET("/dashboard/progress", handlers.ProgressDashboard)

	// FILES / WORKFLOW
	auth.POST("/files", officer, handlers.CreateFile)
	auth.GET("/files", handlers.ListFiles)
	auth.GET("/files/:id", handlers.GetFile)
	auth.POST("/files/:id/items", officer, handlers.AddEstimateItem)
	auth.DELETE("/files/:id/items/:itemID", officer, handlers.DeleteEstimateItem)
	auth.POST("/files/:id/assets", officer, handlers.AddFileAsset)
	auth.POST("/files/:id/forward", officer, handlers.ForwardFile)
	auth.POST("/files/:id/return", officer, handlers.ReturnFile)
	auth.POST("/files/:id/approve", officer, handlers.ApproveFile)

	// USERS
	auth.GET("/users", adminOnly, handlers.ListUsers)
	auth.PUT("/users/:id/role", adminOnly, handlers.UpdateUserRole)
	auth.DELETE("/users/:id", adminOnly, handlers.DeleteUser)

	// AUDIT
	auth.GET("/audit", adminOnly, handlers.ListAuditLogs)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
