package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/aniview/internal/handler"
	"github.com/user/aniview/internal/middleware"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 认证 ====================
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", middleware.RequireAuth(h.Config.AppSecret), h.Me)
	}

	// ==================== 站内 API ====================
	api := r.Group("/api")
	api.Use(middleware.OptionalAuth(h.Config.AppSecret))
	{
		// 番剧浏览（公开）
		api.GET("/animes/trending", h.Trending)
		api.GET("/animes/popular", h.Popular)
		api.GET("/animes/season", h.SeasonAnime)
		api.GET("/animes/search", h.SearchAnime)
		api.GET("/animes/:id", h.AnimeDetail)
		api.GET("/animes/:id/similar", h.SimilarAnime)

		// 播出日程（公开）
		api.GET("/episodes/recent", h.RecentEpisodes)
		api.GET("/episodes/upcoming", h.UpcomingEpisodes)

		// 追番（需要登录）
		watchlist := api.Group("/watchlist")
		watchlist.Use(middleware.RequireAuth(h.Config.AppSecret))
		{
			watchlist.GET("", h.ListWatchlist)
			watchlist.POST("", h.AddWatchlist)
			watchlist.PUT("/:animeId", h.UpdateWatchlistStatus)
			watchlist.DELETE("/:animeId", h.RemoveWatchlist)
		}

		// API 密钥管理（需要登录）
		keys := api.Group("/keys")
		keys.Use(middleware.RequireAuth(h.Config.AppSecret))
		{
			keys.GET("", h.ListAPIKeys)
			keys.POST("", h.CreateAPIKey)
			keys.PATCH("/:id", h.ToggleAPIKey)
			keys.DELETE("/:id", h.DeleteAPIKey)
		}
	}

	// ==================== 对外 API 网关 ====================
	// /v1/ 下的所有路径统一进网关，路径解析在网关内部完成
	r.Any("/v1/*path", h.Gateway)
}
