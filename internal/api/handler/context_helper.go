package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/travian22/aksa-2/pkg/response"
)

// Gin 上下文键，由 JWTAuth 中间件写入
const (
	ctxUserID   = "user_id"
	ctxTokenJTI = "token_jti"
	ctxTokenExp = "token_exp"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ctxUserID)
	if !exists {
		response.Unauthorized(c, "Unauthenticated.")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "Unauthenticated.")
		return "", false
	}
	return s, true
}

// currentToken 当前请求 Token 的 jti 与过期时间
func currentToken(c *gin.Context) (string, time.Time) {
	jti := c.GetString(ctxTokenJTI)
	exp, _ := c.Get(ctxTokenExp)
	t, _ := exp.(time.Time)
	return jti, t
}

// pathID 读取路径参数 id。
// 主键均为 UUID 列，格式不合法的 id 不可能命中记录，直接写入 404 并返回 false。
func pathID(c *gin.Context, notFoundMsg string) (string, bool) {
	id := c.Param("id")
	if len(id) != 36 || uuid.Validate(id) != nil {
		response.NotFound(c, notFoundMsg)
		return "", false
	}
	return id, true
}
