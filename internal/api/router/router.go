package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/travian22/aksa-2/config"
	"github.com/travian22/aksa-2/internal/api/handler"
	"github.com/travian22/aksa-2/internal/api/middleware"
	"github.com/travian22/aksa-2/pkg/jwt"
	"github.com/travian22/aksa-2/pkg/redis"
	"github.com/travian22/aksa-2/pkg/response"
	"github.com/travian22/aksa-2/pkg/storage"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时登录限流与 Token 吊销检查降级关闭
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	store *storage.Local,
	logger *zap.Logger,
) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health", store.PublicPrefix()))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitMB << 20))
	r.Use(middleware.AuditContext())

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Resource not found")
	})
	r.NoMethod(func(c *gin.Context) {
		response.Error(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── 员工照片 ──
	r.Static(store.PublicPrefix(), store.Root())

	api := r.Group("/api")
	{
		// 无需认证
		api.POST("/login",
			middleware.RateLimit(rdb, "login", cfg.Server.LoginLimit, cfg.Server.LoginWindowDuration(), logger),
			h.Auth.Login,
		)

		// 需要认证的路由
		authorized := api.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/logout", h.Auth.Logout)
			authorized.POST("/register", h.Auth.Register)
			authorized.GET("/dashboard", h.Dashboard.GetDashboard)

			// 个人资料
			authorized.GET("/profile", h.Profile.GetProfile)
			authorized.PUT("/profile", h.Profile.UpdateProfile)
			authorized.PUT("/profile/password", h.Profile.ChangePassword)

			// 管理员
			users := authorized.Group("/users")
			{
				users.GET("", h.User.ListUsers)
				users.DELETE("/:id", h.User.DeleteUser)
			}

			// 部门
			divisions := authorized.Group("/divisions")
			{
				divisions.GET("", h.Division.ListDivisions)
				divisions.POST("", h.Division.CreateDivision)
				divisions.GET("/:id", h.Division.GetDivision)
				divisions.PUT("/:id", h.Division.UpdateDivision)
				divisions.DELETE("/:id", h.Division.DeleteDivision)
			}

			// 员工
			employees := authorized.Group("/employees")
			{
				employees.GET("", h.Employee.ListEmployees)
				employees.POST("", h.Employee.CreateEmployee)
				employees.GET("/export", h.Employee.ExportEmployees)
				employees.GET("/summary", h.Employee.EmployeeSummary)
				employees.POST("/bulk-delete", h.Employee.BulkDeleteEmployees)
				employees.GET("/:id", h.Employee.GetEmployee)
				employees.PUT("/:id", h.Employee.UpdateEmployee)
				// 表单无法发送 PUT multipart，POST 作为更新别名
				employees.POST("/:id", h.Employee.UpdateEmployee)
				employees.DELETE("/:id", h.Employee.DeleteEmployee)
			}

			// 考勤
			attendances := authorized.Group("/attendances")
			{
				attendances.GET("", h.Attendance.ListAttendances)
				attendances.POST("", h.Attendance.CreateAttendance)
				attendances.GET("/summary", h.Attendance.AttendanceSummary)
				attendances.GET("/:id", h.Attendance.GetAttendance)
				attendances.PUT("/:id", h.Attendance.UpdateAttendance)
				attendances.DELETE("/:id", h.Attendance.DeleteAttendance)
			}

			// 操作日志
			authorized.GET("/activity-logs", h.ActivityLog.ListActivityLogs)
		}
	}

	return r, nil
}
