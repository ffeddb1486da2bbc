package handler

import (
	"time"

	"github.com/user/aniview/internal/config"
	"github.com/user/aniview/internal/repository"
	"github.com/user/aniview/internal/service"
	"github.com/user/aniview/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	AniList   *service.AniListClient
	Validator *service.KeyValidator
	Similar   *service.SimilarService

	// 搜索词是开放集合，单独用 LRU 缓存
	searchCache *utils.SearchCache[*service.PageResult]
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	// AniList 客户端
	anilist := service.NewAniListClient(cfg.AniListURL, cfg.UpstreamTimeout)

	// 网关密钥校验 + 限流
	validator := service.NewKeyValidator(repos.APIKey, cfg.RateLimitPerMin)

	// 相似推荐
	similar := service.NewSimilarService(repos.AnimeCache)

	return &Handler{
		Repos:       repos,
		Config:      cfg,
		AniList:     anilist,
		Validator:   validator,
		Similar:     similar,
		searchCache: utils.NewSearchCache[*service.PageResult](1000, 30*time.Minute),
	}
}
