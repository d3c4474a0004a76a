package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/travian22/aksa-2/internal/audit"
)

// AuditContext 将客户端 IP 写入请求 context，供操作日志使用
// 操作人由 JWTAuth 补充
func AuditContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := audit.WithActor(c.Request.Context(), audit.Actor{IP: c.ClientIP()})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
