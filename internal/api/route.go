package api

import (
	"Hearth/internal/api/config"
	"Hearth/internal/api/middleware"
	"Hearth/internal/pkg/logger"
	"Hearth/internal/pkg/metrics"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup, cfg *config.Config) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.CORS))
	logger.SetupGin(r, cfg.Logstash)

	if cfg.Metrics.Enable {
		r.Use(middleware.MetricsMiddleware())
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	moderatorRoles := cfg.JWT.ModeratorRoles
	if len(moderatorRoles) == 0 {
		moderatorRoles = []string{"ADMIN", "MODERATOR"}
	}

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		postGroup := apiGroup.Group("/posts")
		{
			authOptGroup := postGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("", group.PostHandler.Feed)
				authOptGroup.GET("/:post_id", group.PostHandler.GetPost)
				authOptGroup.GET("/:post_id/comments", group.CommentHandler.List)
				authOptGroup.GET("/:post_id/poll", group.PollHandler.View)
			}

			authGroup := postGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.PostHandler.CreatePost)
				authGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
				authGroup.POST("/:post_id/share", group.ActionHandler.Share)
				authGroup.GET("/:post_id/state", group.ActionHandler.State)
				authGroup.POST("/:post_id/vote", group.PollHandler.Vote)
			}
		}

		commentGroup := apiGroup.Group("/comments")
		{
			commentGroup.GET("/:comment_id/replies", group.CommentHandler.Replies)
			commentGroup.GET("/:comment_id/depth", group.CommentHandler.Depth)

			authGroup := commentGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("", group.CommentHandler.Create)
				authGroup.DELETE("/:comment_id", group.CommentHandler.Delete)
			}
		}

		actionGroup := apiGroup.Group("/actions")
		actionGroup.Use(middleware.AuthMiddleware())
		{
			actionGroup.POST("/toggle", group.ActionHandler.Toggle)
			actionGroup.POST("/report", group.ActionHandler.Report)
			actionGroup.GET("/collections", group.PostHandler.Collections)
		}

		userGroup := apiGroup.Group("/users")
		{
			authOptGroup := userGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/:user_id/followers", group.UserFollowHandler.Followers)
				authOptGroup.GET("/:user_id/following", group.UserFollowHandler.Following)
				authOptGroup.GET("/:user_id/stats", group.UserFollowHandler.Stats)
				authOptGroup.GET("/:user_id/posts", group.PostHandler.UserPosts)
				authOptGroup.GET("/:user_id/comments", group.CommentHandler.UserComments)
			}

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/:user_id/follow", group.UserFollowHandler.Toggle)
				authGroup.GET("/:user_id/is-following", group.UserFollowHandler.IsFollowing)
			}
		}

		apiGroup.GET("/tags/:tag/posts", group.PostHandler.TagPosts)

		sysBoxGroup := apiGroup.Group("/sys-box")
		sysBoxGroup.Use(middleware.AuthMiddleware())
		{
			sysBoxGroup.GET("/list", group.SysBoxHandler.GetNotificationList)
			sysBoxGroup.GET("/unread", group.SysBoxHandler.GetUnreadCount)
			sysBoxGroup.POST("/read", group.SysBoxHandler.MarkRead)
			sysBoxGroup.POST("/read-all", group.SysBoxHandler.MarkAllRead)
		}

		// 版主接口
		moderationGroup := apiGroup.Group("/moderation")
		moderationGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(moderatorRoles...))
		{
			moderationGroup.GET("/posts", group.PostHandler.ModerationList)
			moderationGroup.GET("/posts/:post_id/references", group.PostHandler.References)
			moderationGroup.GET("/posts/:post_id/comments", group.CommentHandler.ListIncludingDeleted)
			moderationGroup.POST("/posts/:post_id/recount", group.PostHandler.Recount)
		}
	}

	return r
}
