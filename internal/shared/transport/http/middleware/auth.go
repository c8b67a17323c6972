package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"Imperial/internal/shared/security"
	"Imperial/internal/shared/transport"
)

// OperatorKey gin.Context 中保存令牌主体的 key。
const OperatorKey = "operator"

// Auth 校验 `Authorization: Bearer <jwt>`，失败返回 {code:401}。
func Auth(signer *security.Signer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := signer.Parse(token)
		if err != nil {
			abortUnauthorized(c, err.Error())
			return
		}
		c.Set(OperatorKey, claims.Operator)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, reason string) {
	transport.SetErrorReason(c.Request.Context(), reason)
	c.AbortWithStatusJSON(transport.Unauthorized.HTTPStatus(), gin.H{
		"code": transport.Unauthorized,
		"msg":  "unauthorized",
	})
}
