// Package router 注册HTTP路由与全局中间件
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// Handlers 全部HTTP处理器
type Handlers struct {
	User    *handler.UserHandler
	Profile *handler.ProfileHandler
	Catalog *handler.CatalogHandler
	Book    *handler.BookHandler
	Loan    *handler.LoanHandler
	Admin   *handler.AdminHandler
	Events  *handler.EventsHandler
}

// New 创建Gin引擎并注册路由
//
// 中间件顺序：Recovery → CORS → RequestID → 访问日志 → 指标 → (认证 → 角色)
func New(cfg *config.Config, h *Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.CORS(cfg.CORS),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Metrics(),
	)

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := auth.RequireAuth()
	requireAdmin := auth.RequireRole(user.RoleAdmin)

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/refresh", h.User.Refresh)
		users.POST("/password/recover", h.User.RecoverPassword)
		users.POST("/password/reset", h.User.ResetPassword)
		users.POST("/logout", requireAuth, h.User.Logout)
	}

	v1.GET("/profile", requireAuth, h.Profile.Get)
	v1.PUT("/profile", requireAuth, h.Profile.Update)
	v1.GET("/auth/events", requireAuth, h.Events.Stream)

	authors := v1.Group("/authors")
	{
		authors.GET("", h.Catalog.ListAuthors)
		authors.GET("/:id", h.Catalog.GetAuthor)
		authors.POST("", requireAuth, requireAdmin, h.Catalog.CreateAuthor)
		authors.PUT("/:id", requireAuth, requireAdmin, h.Catalog.UpdateAuthor)
		authors.DELETE("/:id", requireAuth, requireAdmin, h.Catalog.DeleteAuthor)
	}

	categories := v1.Group("/categories")
	{
		categories.GET("", h.Catalog.ListCategories)
		categories.POST("", requireAuth, requireAdmin, h.Catalog.CreateCategory)
		categories.PUT("/:id", requireAuth, requireAdmin, h.Catalog.UpdateCategory)
		categories.DELETE("/:id", requireAuth, requireAdmin, h.Catalog.DeleteCategory)
	}

	books := v1.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.GET("/recent", h.Book.RecentBooks)
		books.GET("/:id", h.Book.GetBook)
		books.GET("/:id/loan-status", requireAuth, h.Book.LoanStatus)
		books.POST("", requireAuth, requireAdmin, h.Book.CreateBook)
		books.PUT("/:id", requireAuth, requireAdmin, h.Book.UpdateBook)
		books.DELETE("/:id", requireAuth, requireAdmin, h.Book.DeleteBook)
		books.POST("/:id/cover", requireAuth, requireAdmin, h.Book.UploadCover)
	}

	loans := v1.Group("/loans", requireAuth)
	{
		loans.POST("", h.Loan.Borrow)
		loans.POST("/:id/return", h.Loan.Return)
		loans.GET("/me", h.Loan.MyLoans)
		loans.GET("/me/stats", h.Loan.MyStats)
	}

	adminGroup := v1.Group("/admin", requireAuth, requireAdmin)
	{
		adminGroup.GET("/loans", h.Admin.ListLoans)
		adminGroup.GET("/stats", h.Admin.Stats)
	}

	return r
}
