package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/polaroad/config"
	_ "github.com/d60-Lab/polaroad/docs"
	"github.com/d60-Lab/polaroad/internal/api/handler"
	"github.com/d60-Lab/polaroad/pkg/middleware"
)

// NewRouter 组装中间件链和路由表
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler.RegisterValidations()

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Otel.Enabled {
		r.Use(otelgin.Middleware("polaroad"))
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.AuthRequired(cfg.JWT.Secret)

	post := r.Group("/api/post")
	{
		post.GET("/list", h.GetPostList)
		post.GET("/view-ranking", h.GetViewRankingList)
		post.GET("/content/:postId", h.GetPostInfo)

		post.GET("/following", auth, h.GetFollowingPosts)
		post.GET("/mypost", auth, h.GetMyPostList)
		post.GET("/mycard", auth, h.GetMyCardList)
		post.POST("/write", auth, h.SavePost)
		post.PATCH("/edit/:postId", auth, h.EditPost)
		post.DELETE("/delete/:postId", auth, h.DeletePost)
		post.PATCH("/good/:postId", auth, h.GoodToggle)
	}

	card := r.Group("/api/card")
	{
		card.GET("/map", h.GetMapCardList)
	}

	relations := r.Group("/api/relations", auth)
	{
		relations.POST("/follow/:memberId", h.Follow)
		relations.POST("/unfollow/:memberId", h.Unfollow)
	}

	return r
}
