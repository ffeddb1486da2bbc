package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/user/aniview/internal/middleware"
	"github.com/user/aniview/internal/model"
	"github.com/user/aniview/internal/utils"
	"gorm.io/gorm"
)

// WatchStatusValidator 追番状态自定义校验规则（binding tag: watchstatus）
func WatchStatusValidator(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	for _, status := range model.WatchStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ListWatchlist 获取追番列表，支持按状态过滤
func (h *Handler) ListWatchlist(c *gin.Context) {
	userID := middleware.GetUserID(c)
	status := c.Query("status")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.Repos.Watchlist.ListByUser(userID, status, limit, offset)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	total, err := h.Repos.Watchlist.CountByUser(userID, status)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	utils.Success(c, gin.H{"items": items, "total": total})
}

// AddWatchlistRequest 添加追番请求
type AddWatchlistRequest struct {
	AnimeID         int    `json:"anime_id" binding:"required"`
	AnimeTitle      string `json:"anime_title" binding:"required"`
	AnimeCoverImage string `json:"anime_cover_image"`
	Status          string `json:"status" binding:"omitempty,watchstatus"`
}

// AddWatchlist 添加追番，同一部番剧重复添加时更新已有记录
func (h *Handler) AddWatchlist(c *gin.Context) {
	var req AddWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	if req.Status == "" {
		req.Status = model.StatusWantToWatch
	}

	item := &model.WatchlistItem{
		UserID:          middleware.GetUserID(c),
		AnimeID:         req.AnimeID,
		AnimeTitle:      req.AnimeTitle,
		AnimeCoverImage: req.AnimeCoverImage,
		Status:          req.Status,
	}
	if err := h.Repos.Watchlist.Upsert(item); err != nil {
		utils.InternalServerError(c, "添加失败")
		return
	}

	utils.Success(c, item)
}

// UpdateWatchlistRequest 更新追番状态请求
type UpdateWatchlistRequest struct {
	Status string `json:"status" binding:"required,watchstatus"`
}

// UpdateWatchlistStatus 更新追番状态
func (h *Handler) UpdateWatchlistStatus(c *gin.Context) {
	animeID, err := strconv.Atoi(c.Param("animeId"))
	if err != nil {
		utils.BadRequest(c, "番剧 ID 不合法")
		return
	}

	var req UpdateWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "参数不合法")
		return
	}

	userID := middleware.GetUserID(c)
	err = h.Repos.Watchlist.SetStatus(userID, animeID, req.Status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "追番记录不存在")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}

	item, err := h.Repos.Watchlist.GetByUserAndAnime(userID, animeID)
	if err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, item)
}

// RemoveWatchlist 移除追番记录
func (h *Handler) RemoveWatchlist(c *gin.Context) {
	animeID, err := strconv.Atoi(c.Param("animeId"))
	if err != nil {
		utils.BadRequest(c, "番剧 ID 不合法")
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.Repos.Watchlist.Remove(userID, animeID); err != nil {
		utils.InternalServerError(c, "")
		return
	}
	utils.Success(c, nil)
}
