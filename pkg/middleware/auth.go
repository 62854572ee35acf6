package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/d60-Lab/polaroad/pkg/response"
)

const memberIDKey = "memberId"

// AuthRequired 解析 Bearer token 并把 memberId 放进请求上下文。
// 签发逻辑在登录服务，这里只做校验。
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.Unauthorized(c, "invalid token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Unauthorized(c, "invalid claims")
			return
		}
		idVal, ok := claims[memberIDKey].(float64)
		if !ok {
			response.Unauthorized(c, "invalid claims")
			return
		}
		c.Set(memberIDKey, int64(idVal))
		c.Next()
	}
}

// MemberID 取出 AuthRequired 写入的会员 id
func MemberID(c *gin.Context) int64 {
	return c.GetInt64(memberIDKey)
}
