package handler

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/aniview/internal/service"
	"github.com/user/aniview/internal/utils"
)

// 站内浏览接口，数据来自 AniList，经过进程内缓存
// 榜单/季度类响应用 go-cache，搜索结果用 LRU

func parsePaging(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 {
		limit = service.DefaultLimit
	}
	if limit > service.MaxLimit {
		limit = service.MaxLimit
	}
	return page, limit
}

// Trending 热门趋势
func (h *Handler) Trending(c *gin.Context) {
	page, limit := parsePaging(c)
	cacheKey := fmt.Sprintf("trending:%d:%d", page, limit)

	if cached, ok := utils.CacheGet(cacheKey); ok {
		utils.Success(c, cached)
		return
	}

	result, err := h.AniList.Trending(c.Request.Context(), page, limit)
	if err != nil {
		log.Printf("[Anime] 获取趋势榜单失败: %v", err)
		utils.InternalServerError(c, "获取番剧数据失败")
		return
	}

	utils.CacheSet(cacheKey, result, 10*time.Minute)
	utils.Success(c, result)
}

// Popular 人气榜单
func (h *Handler) Popular(c *gin.Context) {
	page, limit := parsePaging(c)
	cacheKey := fmt.Sprintf("popular:%d:%d", page, limit)

	if cached, ok := utils.CacheGet(cacheKey); ok {
		utils.Success(c, cached)
		return
	}

	result, err := h.AniList.Popular(c.Request.Context(), page, limit)
	if err != nil {
		log.Printf("[Anime] 获取人气榜单失败: %v", err)
		utils.InternalServerError(c, "获取番剧数据失败")
		return
	}

	utils.CacheSet(cacheKey, result, 10*time.Minute)
	utils.Success(c, result)
}

// SeasonAnime 季度番剧，默认当前季度
func (h *Handler) SeasonAnime(c *gin.Context) {
	page, limit := parsePaging(c)

	defaultSeason, defaultYear := service.CurrentSeason(time.Now())
	season := c.DefaultQuery("season", defaultSeason)
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		year = defaultYear
	}

	cacheKey := fmt.Sprintf("season:%s:%d:%d:%d", season, year, page, limit)
	if cached, ok := utils.CacheGet(cacheKey); ok {
		utils.Success(c, cached)
		return
	}

	result, err := h.AniList.Season(c.Request.Context(), season, year, page, limit)
	if err != nil {
		log.Printf("[Anime] 获取季度番剧失败 (%s %d): %v", season, year, err)
		utils.InternalServerError(c, "获取番剧数据失败")
		return
	}

	utils.CacheSet(cacheKey, result, 10*time.Minute)
	utils.Success(c, result)
}

// SearchAnime 搜索番剧
func (h *Handler) SearchAnime(c *gin.Context) {
	page, limit := parsePaging(c)

	params := service.SearchParams{
		Query:   c.Query("q"),
		Genre:   c.Query("genre"),
		Status:  c.Query("status"),
		Page:    page,
		PerPage: limit,
	}
	if y, err := strconv.Atoi(c.Query("year")); err == nil {
		params.Year = y
		params.HasYear = true
	}

	cacheKey := fmt.Sprintf("search:%s:%s:%s:%d:%v:%d:%d",
		params.Query, params.Genre, params.Status, params.Year, params.HasYear, page, limit)
	if cached, ok := h.searchCache.Get(cacheKey); ok {
		utils.Success(c, cached)
		return
	}

	result, err := h.AniList.Search(c.Request.Context(), params)
	if err != nil {
		log.Printf("[Anime] 搜索失败 (%s): %v", params.Query, err)
		utils.InternalServerError(c, "搜索失败")
		return
	}

	h.searchCache.Set(cacheKey, result)
	utils.Success(c, result)
}

// AnimeDetail 番剧详情，顺带落库供相似推荐使用
func (h *Handler) AnimeDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "番剧 ID 不合法")
		return
	}

	cacheKey := fmt.Sprintf("detail:%d", id)
	if cached, ok := utils.CacheGet(cacheKey); ok {
		utils.Success(c, cached)
		return
	}

	media, err := h.AniList.ByID(c.Request.Context(), id)
	if err != nil {
		log.Printf("[Anime] 获取详情失败 (ID: %d): %v", id, err)
		utils.InternalServerError(c, "获取番剧数据失败")
		return
	}

	// 落库 + 后台生成向量
	h.Similar.CacheAndEnrich(media)

	utils.CacheSet(cacheKey, media, 30*time.Minute)
	utils.Success(c, media)
}

// SimilarAnime 相似番剧推荐
func (h *Handler) SimilarAnime(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "番剧 ID 不合法")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	results, err := h.Similar.FindSimilar(id, limit)
	if err != nil {
		// 向量还没生成完是正常情况，给空列表即可
		utils.Success(c, []interface{}{})
		return
	}
	utils.Success(c, results)
}

// RecentEpisodes 最近 24 小时播出的剧集
func (h *Handler) RecentEpisodes(c *gin.Context) {
	page, limit := parsePaging(c)
	cacheKey := fmt.Sprintf("episodes:recent:%d:%d", page, limit)

	if cached, ok := utils.CacheGet(cacheKey); ok {
		utils.Success(c, cached)
		return
	}

	schedules, err := h.AniList.RecentlyAired(c.Request.Context(), page, limit)
	if err != nil {
		log.Printf("[Anime] 获取最近播出失败: %v", err)
		utils.InternalServerError(c, "获取播出日程失败")
		return
	}

	// 播出时间窗口在滚动，缓存放短一点
	utils.CacheSet(cacheKey, schedules, 5*time.Minute)
	utils.Success(c, schedules)
}

// UpcomingEpisodes 未来 7 天即将播出的剧集
func (h *Handler) UpcomingEpisodes(c *gin.Context) {
	page, limit := parsePaging(c)
	cacheKey := fmt.Sprintf("episodes:upcoming:%d:%d", page, limit)

	if cached, ok := utils.CacheGet(cacheKey); ok {
		utils.Success(c, cached)
		return
	}

	schedules, err := h.AniList.Upcoming(c.Request.Context(), page, limit)
	if err != nil {
		log.Printf("[Anime] 获取即将播出失败: %v", err)
		utils.InternalServerError(c, "获取播出日程失败")
		return
	}

	utils.CacheSet(cacheKey, schedules, 5*time.Minute)
	utils.Success(c, schedules)
}
