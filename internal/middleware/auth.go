package middleware

import (
	"strings"

	"quizclash_backend/internal/config"
	"quizclash_backend/internal/util"
	"quizclash_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("jwt parse failed", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

type AdminChecker interface {
	IsAdmin(userID uint) (bool, error)
}

// AdminMiddleware 管理员身份查 admins 表，而不是放在 token 里，
// 撤销管理员权限即时生效
func AdminMiddleware(checker AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		isAdmin, err := checker.IsAdmin(claims.UserID)
		if err != nil {
			util.InternalServerError(c)
			c.Abort()
			return
		}
		if !isAdmin {
			util.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
