package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/6z6z6z6z/flag-guard-system/config"
	"github.com/6z6z6z6z/flag-guard-system/internal/api/handler"
	"github.com/6z6z6z6z/flag-guard-system/internal/api/middleware"
	"github.com/6z6z6z6z/flag-guard-system/internal/model"
	"github.com/6z6z6z6z/flag-guard-system/pkg/jwt"
	"github.com/6z6z6z6z/flag-guard-system/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(int64(cfg.Upload.MaxSizeMB) << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── 上传文件静态访问 ──
	r.Static("/api/uploads", cfg.Upload.Dir)

	adminOnly := middleware.RequireRole(model.RoleAdmin)
	superOnly := middleware.RequireRole(model.RoleSuperAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/profile", h.User.GetProfile)
				users.PUT("/profile", h.User.UpdateProfile)
				users.GET("", adminOnly, h.User.ListUsers)
				users.GET("/search", adminOnly, h.User.SearchUsers)
				users.POST("", adminOnly, h.User.CreateUser)
				users.PUT("/:id", adminOnly, h.User.UpdateUser)
				users.DELETE("/:id", superOnly, h.User.DeleteUser)
				users.PUT("/:id/role", superOnly, h.User.AssignRole)
			}

			// 训练模块
			trainings := authorized.Group("/trainings")
			{
				trainings.GET("", h.Training.ListTrainings)
				trainings.GET("/my", h.Training.MyRegistrations)
				trainings.GET("/:id", h.Training.GetTraining)
				trainings.POST("/:id/register", h.Training.Register)
				trainings.DELETE("/:id/register", h.Training.CancelRegistration)
				trainings.POST("", adminOnly, h.Training.CreateTraining)
				trainings.PUT("/:id", adminOnly, h.Training.UpdateTraining)
				trainings.DELETE("/:id", adminOnly, h.Training.DeleteTraining)
				trainings.GET("/:id/registrations", adminOnly, h.Training.ListRegistrations)
				trainings.POST("/:id/attendance", adminOnly, h.Training.SubmitAttendance)
			}

			// 活动模块
			events := authorized.Group("/events")
			{
				events.GET("", h.Event.ListEvents)
				events.GET("/my", h.Event.MyRegistrations)
				events.GET("/:id", h.Event.GetEvent)
				events.POST("/:id/register", h.Event.Register)
				events.DELETE("/:id/register", h.Event.CancelRegistration)
				events.POST("", adminOnly, h.Event.CreateEvent)
				events.PUT("/:id", adminOnly, h.Event.UpdateEvent)
				events.DELETE("/:id", adminOnly, h.Event.DeleteEvent)
				events.GET("/:id/registrations", adminOnly, h.Event.ListRegistrations)
			}

			// 升降旗模块
			flags := authorized.Group("/flags")
			{
				flags.POST("", h.Flag.CreateRecord)
				flags.GET("/my", h.Flag.MyRecords)
				flags.GET("", adminOnly, h.Flag.AllRecords)
				flags.POST("/:id/approve", adminOnly, h.Flag.Approve)
				flags.POST("/:id/reject", adminOnly, h.Flag.Reject)
			}

			// 积分模块
			points := authorized.Group("/points")
			{
				points.GET("/history", h.Points.History)
				points.GET("/statistics", h.Points.Statistics)
				points.GET("/all", adminOnly, h.Points.AllHistory)
				points.POST("/adjust", adminOnly, h.Points.Adjust)
				points.POST("/reconcile", adminOnly, h.Points.Reconcile)
				points.GET("/export", adminOnly, h.Points.Export)
			}

			// 仪表盘模块
			dashboard := authorized.Group("/dashboard")
			{
				dashboard.GET("/stats", adminOnly, h.Dashboard.Stats)
				dashboard.GET("/pending", adminOnly, h.Dashboard.PendingItems)
			}

			// 文件上传
			authorized.POST("/files/upload", h.File.Upload)
		}
	}

	return r
}
