package middleware

import (
	"Hearth/internal/pkg/response"
	log "log/slog"
	"slices"

	"github.com/gin-gonic/gin"
)

// CheckRoles 至少拥有其中一个角色才放行，须挂在 AuthMiddleware 之后
func CheckRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles := c.GetStringSlice("roles")
		if slices.ContainsFunc(roles, func(r string) bool { return slices.Contains(allowed, r) }) {
			c.Next()
			return
		}

		log.WarnContext(c.Request.Context(), "role check denied",
			"user_id", c.GetUint64("user_id"),
			"roles", roles,
			"path", c.FullPath(),
		)
		response.Fail(c, response.Forbidden, "权限不足：需要版主权限")
		c.Abort()
	}
}
